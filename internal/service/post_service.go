package service

import (
	"context"
	"strings"

	"socialpulse/internal/models"
	"socialpulse/internal/repository"
)

// PostService provides post, comment, and like business logic.
type PostService struct {
	postRepo      repository.PostRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, notifications *NotificationService) *PostService {
	return &PostService{
		postRepo:      postRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// Create publishes a new post. A post needs text, images, or both.
func (s *PostService) Create(ctx context.Context, userID uint, content string, images []string) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(images) == 0 {
		return nil, models.NewValidationError("Post must have content or images")
	}
	if len(content) > 5000 {
		return nil, models.NewValidationError("Post content must not exceed 5000 characters")
	}

	post := &models.Post{
		UserID:  userID,
		Content: content,
		Images:  images,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// Get returns a single post with author, comments, and likes resolved.
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// Update edits the post content. Only the author may edit.
func (s *PostService) Update(ctx context.Context, userID, postID uint, content string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	content = strings.TrimSpace(content)
	if content == "" && len(post.Images) == 0 {
		return nil, models.NewValidationError("Post must have content or images")
	}
	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// Delete removes a post. The author or an admin may delete.
func (s *PostService) Delete(ctx context.Context, requesterID uint, isAdmin bool, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// Timeline returns posts by the user and everyone they follow, newest first.
func (s *PostService) Timeline(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	following, err := s.userRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append([]uint{userID}, following...)
	return s.postRepo.Timeline(ctx, authorIDs, limit, offset)
}

// UserPosts returns one author's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, username string, limit, offset int) ([]models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.postRepo.ListByUser(ctx, user.ID, limit, offset)
}

// LikeResult reports the state after a like toggle.
type LikeResult struct {
	Liked bool   `json:"liked"`
	Likes []uint `json:"likes"`
}

// ToggleLike likes the post when no like exists and unlikes otherwise. The
// unique like index folds a racing duplicate into the liked state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.postRepo.HasLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.postRepo.DeleteLike(ctx, postID, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.CreateLike(ctx, postID, userID); err != nil {
			appErr, ok := err.(*models.AppError)
			if !ok || appErr.Code != "VALIDATION_ERROR" {
				return nil, err
			}
		} else {
			_ = s.notifications.Notify(ctx, &models.Notification{
				RecipientID: post.UserID,
				SenderID:    userID,
				Type:        models.NotificationLike,
				PostID:      &post.ID,
				Text:        "liked your post",
			})
		}
	}

	likes, err := s.postRepo.LikeIDs(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: !liked, Likes: likes}, nil
}

// AddComment appends a comment to a post, oldest first, and notifies the author.
func (s *PostService) AddComment(ctx context.Context, userID, postID uint, text string) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > 2000 {
		return nil, models.NewValidationError("Comment must not exceed 2000 characters")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	_ = s.notifications.Notify(ctx, &models.Notification{
		RecipientID: post.UserID,
		SenderID:    userID,
		Type:        models.NotificationComment,
		PostID:      &post.ID,
		Text:        "commented on your post",
	})

	return s.postRepo.GetByID(ctx, postID)
}

// DeleteComment removes a comment. The comment author, the post author, or
// an admin may delete.
func (s *PostService) DeleteComment(ctx context.Context, requesterID uint, isAdmin bool, commentID uint) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != requesterID && !isAdmin {
		post, postErr := s.postRepo.GetByID(ctx, comment.PostID)
		if postErr != nil {
			return postErr
		}
		if post.UserID != requesterID {
			return models.NewForbiddenError("You cannot delete this comment")
		}
	}
	return s.postRepo.DeleteComment(ctx, commentID)
}
