package service

import (
	"context"
	"strings"

	"socialpulse/internal/models"
	"socialpulse/internal/repository"
	"socialpulse/internal/validation"
)

// UserService provides profile and follow-graph business logic.
type UserService struct {
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, notifications *NotificationService) *UserService {
	return &UserService{
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// GetProfile returns a user with the follow projections populated.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.LoadFollowEdges(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfileByUsername resolves a username case-insensitively.
func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	if err := s.userRepo.LoadFollowEdges(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	ProfilePic  *string `json:"profile_pic"`
	CoverPhoto  *string `json:"cover_photo"`
	Work        *string `json:"work"`
	School      *string `json:"school"`
	College     *string `json:"college"`
}

// UpdateProfile applies the partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if !strings.EqualFold(username, user.Username) {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewValidationError("Username already taken")
			}
		}
		user.Username = username
	}
	if update.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.ProfilePic != nil {
		user.ProfilePic = *update.ProfilePic
	}
	if update.CoverPhoto != nil {
		user.CoverPhoto = *update.CoverPhoto
	}
	if update.Work != nil {
		user.Work = *update.Work
	}
	if update.School != nil {
		user.School = *update.School
	}
	if update.College != nil {
		user.College = *update.College
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.LoadFollowEdges(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds users by username or display name fragment.
func (s *UserService) Search(ctx context.Context, query string, limit int) ([]models.Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	users, err := s.userRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// Suggested returns accounts the user does not follow yet.
func (s *UserService) Suggested(ctx context.Context, userID uint, limit int) ([]models.Summary, error) {
	users, err := s.userRepo.Suggested(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

// FollowResult reports the state after a follow toggle: whether the caller
// now follows the target, and the caller's resulting following set.
type FollowResult struct {
	Following    bool   `json:"following"`
	FollowingIDs []uint `json:"following_ids"`
}

// ToggleFollow follows the target when no edge exists and unfollows
// otherwise. A losing racer on the unique edge index is folded into the
// followed state instead of erroring, so concurrent toggles settle on one
// edge at most.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, targetID uint) (*FollowResult, error) {
	if followerID == targetID {
		return nil, models.NewValidationError("Cannot follow yourself")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	following, err := s.userRepo.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return nil, err
	}

	if following {
		if err := s.userRepo.DeleteFollow(ctx, followerID, targetID); err != nil {
			return nil, err
		}
		return s.followResult(ctx, followerID, false)
	}

	if err := s.userRepo.CreateFollow(ctx, followerID, targetID); err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == "VALIDATION_ERROR" {
			return s.followResult(ctx, followerID, true)
		}
		return nil, err
	}

	_ = s.notifications.Notify(ctx, &models.Notification{
		RecipientID: target.ID,
		SenderID:    followerID,
		Type:        models.NotificationFollow,
		Text:        "started following you",
	})

	return s.followResult(ctx, followerID, true)
}

// followResult reads back the caller's following set after a toggle.
func (s *UserService) followResult(ctx context.Context, followerID uint, following bool) (*FollowResult, error) {
	ids, err := s.userRepo.FollowingIDs(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return &FollowResult{Following: following, FollowingIDs: ids}, nil
}

// Followers lists the users following userID.
func (s *UserService) Followers(ctx context.Context, userID uint) ([]models.Summary, error) {
	ids, err := s.userRepo.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summariesByIDs(ctx, ids)
}

// Following lists the users userID follows.
func (s *UserService) Following(ctx context.Context, userID uint) ([]models.Summary, error) {
	ids, err := s.userRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summariesByIDs(ctx, ids)
}

func (s *UserService) summariesByIDs(ctx context.Context, ids []uint) ([]models.Summary, error) {
	result := make([]models.Summary, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == "NOT_FOUND" {
				continue
			}
			return nil, err
		}
		result = append(result, user.Summary())
	}
	return result, nil
}

func summaries(users []models.User) []models.Summary {
	result := make([]models.Summary, 0, len(users))
	for i := range users {
		result = append(result, users[i].Summary())
	}
	return result
}
