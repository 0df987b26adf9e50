package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"
	"socialpulse/internal/realtime"
	"socialpulse/internal/repository"
)

// StoryService provides ephemeral-story business logic. Stories disappear
// from reads the moment they expire; the background reaper only reclaims
// storage afterwards.
type StoryService struct {
	storyRepo repository.StoryRepository
	userRepo  repository.UserRepository
	notifier  *realtime.Notifier
}

// NewStoryService returns a new StoryService.
func NewStoryService(storyRepo repository.StoryRepository, userRepo repository.UserRepository, notifier *realtime.Notifier) *StoryService {
	return &StoryService{
		storyRepo: storyRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// Create publishes a story visible for the next 24 hours.
func (s *StoryService) Create(ctx context.Context, userID uint, image string) (*models.Story, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, models.NewValidationError("Story image is required")
	}

	story := &models.Story{
		UserID: userID,
		Image:  image,
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	// Resolve the author so pushed events and the response carry display
	// fields, not an empty user.
	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		observability.Logger.WarnContext(ctx, "story author resolution failed",
			slog.Any("user_id", userID),
			slog.String("error", err.Error()))
	} else {
		story.User = *author
	}

	if s.notifier != nil {
		// Push the new story to every follower's realtime channel.
		followerIDs, err := s.userRepo.FollowerIDs(ctx, userID)
		if err == nil {
			event := realtime.Event{Event: realtime.EventStory, Payload: story}
			for _, followerID := range followerIDs {
				if pubErr := s.notifier.PublishUser(ctx, followerID, event); pubErr != nil {
					observability.Logger.WarnContext(ctx, "story publish failed",
						slog.Any("follower_id", followerID),
						slog.String("error", pubErr.Error()))
				}
			}
		}
	}

	return story, nil
}

// UserStories returns one author's currently visible stories.
func (s *StoryService) UserStories(ctx context.Context, userID uint) ([]models.Story, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.storyRepo.VisibleByUser(ctx, userID)
}

// Feed returns visible stories from the caller and everyone they follow,
// grouped per author with each group's stories newest first.
func (s *StoryService) Feed(ctx context.Context, userID uint) ([]models.StoryGroup, error) {
	following, err := s.userRepo.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authorIDs := append([]uint{userID}, following...)

	stories, err := s.storyRepo.VisibleForUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	groupIndex := make(map[uint]int)
	groups := make([]models.StoryGroup, 0)
	for _, story := range stories {
		idx, ok := groupIndex[story.UserID]
		if !ok {
			groups = append(groups, models.StoryGroup{
				User:    story.User.Summary(),
				Stories: []models.Story{},
			})
			idx = len(groups) - 1
			groupIndex[story.UserID] = idx
		}
		groups[idx].Stories = append(groups[idx].Stories, story)
	}
	return groups, nil
}

// Delete removes a story before its expiry. The author or an admin may delete.
func (s *StoryService) Delete(ctx context.Context, requesterID uint, isAdmin bool, storyID uint) error {
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != requesterID && !isAdmin {
		return models.NewForbiddenError("You can only delete your own stories")
	}
	_, err = s.storyRepo.Delete(ctx, storyID)
	return err
}

// ReapExpired hard-deletes expired stories and returns the count removed.
func (s *StoryService) ReapExpired(ctx context.Context) (int64, error) {
	count, err := s.storyRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		observability.StoriesReaped.Add(float64(count))
		observability.Logger.InfoContext(ctx, "expired stories reaped", slog.Int64("count", count))
	}
	return count, nil
}

// StartReaper runs ReapExpired on the given interval until ctx is cancelled.
func (s *StoryService) StartReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.ReapExpired(ctx); err != nil {
					observability.Logger.Warn("story reaper pass failed", slog.String("error", err.Error()))
				}
			}
		}
	}()
}
