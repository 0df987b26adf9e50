package repository

import (
	"context"
	"errors"
	"time"

	"socialpulse/internal/cache"
	"socialpulse/internal/models"

	"gorm.io/gorm"
)

// StoryRepository defines persistence operations for ephemeral stories.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uint) (*models.Story, error)
	VisibleByUser(ctx context.Context, userID uint) ([]models.Story, error)
	VisibleForUsers(ctx context.Context, userIDs []uint) ([]models.Story, error)
	Delete(ctx context.Context, id uint) (*models.Story, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type storyRepository struct {
	db *gorm.DB
}

// NewStoryRepository returns a new StoryRepository implementation.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{db: db}
}

func (r *storyRepository) Create(ctx context.Context, story *models.Story) error {
	if err := r.db.WithContext(ctx).Create(story).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateStories(ctx, story.UserID)
	return nil
}

// VisibleByUser returns one author's unexpired stories, newest first.
// Visibility is enforced here at query time so expired rows never leak,
// regardless of when the reaper last ran.
func (r *storyRepository) VisibleByUser(ctx context.Context, userID uint) ([]models.Story, error) {
	var stories []models.Story
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC, id DESC").
		Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

// VisibleForUsers returns unexpired stories from any of userIDs, newest first.
func (r *storyRepository) VisibleForUsers(ctx context.Context, userIDs []uint) ([]models.Story, error) {
	if len(userIDs) == 0 {
		return []models.Story{}, nil
	}
	var stories []models.Story
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Where("user_id IN ? AND expires_at > ?", userIDs, time.Now()).
		Order("created_at DESC, id DESC").
		Find(&stories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return stories, nil
}

func (r *storyRepository) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := readDB(r.db).WithContext(ctx).First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Story", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &story, nil
}

func (r *storyRepository) Delete(ctx context.Context, id uint) (*models.Story, error) {
	story, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(story).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateStories(ctx, story.UserID)
	return story, nil
}

// DeleteExpired hard-deletes stories past their expiry and returns the count.
// This only reclaims storage; reads never depend on it.
func (r *storyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at <= ?", time.Now()).
		Delete(&models.Story{})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
