package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 11
		return nil
	}

	s, app := testServer(1, noopUserRepo(), postRepo, noopReportRepo())
	app.Post("/posts", s.CreatePost)

	t.Run("Success", func(t *testing.T) {
		resp := postJSON(t, app, "/posts", map[string]interface{}{
			"content": "hello world",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		assert.Equal(t, uint(11), post.ID)
		assert.Equal(t, uint(1), post.UserID)
	})

	t.Run("EmptyBody", func(t *testing.T) {
		resp := postJSON(t, app, "/posts", map[string]interface{}{
			"content": "",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePost(t *testing.T) {
	deleted := false
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 2}, nil
	}
	postRepo.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}

	t.Run("StrangerForbidden", func(t *testing.T) {
		deleted = false
		s, app := testServer(1, noopUserRepo(), postRepo, noopReportRepo())
		app.Delete("/posts/:id", s.DeletePost)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/posts/5", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.False(t, deleted)
	})

	t.Run("AdminOverride", func(t *testing.T) {
		deleted = false
		userRepo := noopUserRepo()
		userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, IsAdmin: true}, nil
		}
		s, app := testServer(1, userRepo, postRepo, noopReportRepo())
		app.Delete("/posts/:id", s.DeletePost)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/posts/5", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, deleted)
	})

	t.Run("InvalidID", func(t *testing.T) {
		s, app := testServer(1, noopUserRepo(), postRepo, noopReportRepo())
		app.Delete("/posts/:id", s.DeletePost)

		resp, err := app.Test(httptest.NewRequest("DELETE", "/posts/abc", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestToggleLike(t *testing.T) {
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return &models.Post{ID: id, UserID: 9}, nil
	}
	postRepo.likeIDsFn = func(context.Context, uint) ([]uint, error) {
		return []uint{1}, nil
	}

	s, app := testServer(1, noopUserRepo(), postRepo, noopReportRepo())
	app.Post("/posts/:id/like", s.ToggleLike)

	resp, err := app.Test(httptest.NewRequest("POST", "/posts/4/like", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Liked bool   `json:"liked"`
		Likes []uint `json:"likes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Liked)
	assert.Equal(t, []uint{1}, out.Likes)
}
