package repository

import (
	"context"
	"errors"

	"socialpulse/internal/cache"
	"socialpulse/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts, comments, and likes.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	Timeline(ctx context.Context, userIDs []uint, limit, offset int) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)

	AddComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, commentID uint) error
	GetComment(ctx context.Context, commentID uint) (*models.Comment, error)

	HasLike(ctx context.Context, postID, userID uint) (bool, error)
	CreateLike(ctx context.Context, postID, userID uint) error
	DeleteLike(ctx context.Context, postID, userID uint) error
	LikeIDs(ctx context.Context, postID uint) ([]uint, error)
	LoadLikes(ctx context.Context, posts []models.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	likes, err := r.LikeIDs(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Likes = likes
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var posts []models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.LoadLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Timeline lists posts authored by any of userIDs, newest first.
func (r *postRepository) Timeline(ctx context.Context, userIDs []uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	if err := readDB(r.db).WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.User").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.LoadLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *postRepository) DeleteComment(ctx context.Context, commentID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, commentID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := readDB(r.db).WithContext(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *postRepository) HasLike(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// CreateLike inserts the like row. The unique pair index makes a racing
// duplicate surface as a validation error rather than a double count.
func (r *postRepository) CreateLike(ctx context.Context, postID, userID uint) error {
	like := models.PostLike{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Post already liked")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) DeleteLike(ctx context.Context, postID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) LikeIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// LoadLikes populates the computed Likes projection for a batch of posts
// with a single query.
func (r *postRepository) LoadLikes(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	postIDs := make([]uint, 0, len(posts))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID)
	}

	var likes []models.PostLike
	if err := readDB(r.db).WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Find(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}

	byPost := make(map[uint][]uint, len(posts))
	for _, like := range likes {
		byPost[like.PostID] = append(byPost[like.PostID], like.UserID)
	}
	for i := range posts {
		ids := byPost[posts[i].ID]
		if ids == nil {
			ids = []uint{}
		}
		posts[i].Likes = ids
	}
	return nil
}
