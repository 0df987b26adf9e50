package service

import (
	"context"
	"strings"

	"socialpulse/internal/models"
	"socialpulse/internal/repository"
)

// ModerationService provides report filing and admin review logic.
type ModerationService struct {
	reportRepo repository.ReportRepository
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *ModerationService {
	return &ModerationService{
		reportRepo: reportRepo,
		postRepo:   postRepo,
		userRepo:   userRepo,
	}
}

// Report files a moderation report against a post. The reason must come from
// the fixed enumeration, and a reporter may hold at most one pending report
// per post.
func (s *ModerationService) Report(ctx context.Context, reporterID, postID uint, reason, description string) (*models.Report, error) {
	reason = strings.TrimSpace(reason)
	if !models.ValidReportReason(reason) {
		return nil, models.NewValidationError("Unknown report reason")
	}
	if len(description) > 2000 {
		return nil, models.NewValidationError("Description must not exceed 2000 characters")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	open, err := s.reportRepo.HasOpenReport(ctx, postID, reporterID)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, models.NewValidationError("You already reported this post")
	}

	report := &models.Report{
		PostID:      postID,
		ReporterID:  reporterID,
		Reason:      reason,
		Description: description,
		Status:      models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, report.ID)
}

// ListReports returns reports for admin review, optionally filtered by status.
func (s *ModerationService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	reportStatus := models.ReportStatus(status)
	if status != "" && !reportStatus.Valid() {
		return nil, models.NewValidationError("Unknown report status")
	}
	return s.reportRepo.List(ctx, reportStatus, limit, offset)
}

// Resolve transitions a report to a new status. When the resolution is
// action_taken the reported post is removed as part of the same call.
func (s *ModerationService) Resolve(ctx context.Context, reportID uint, status string) (*models.Report, error) {
	reportStatus := models.ReportStatus(status)
	if !reportStatus.Valid() {
		return nil, models.NewValidationError("Unknown report status")
	}
	if reportStatus == models.ReportStatusPending {
		return nil, models.NewValidationError("Cannot resolve a report back to pending")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, models.NewValidationError("Report has already been resolved")
	}

	if reportStatus == models.ReportStatusActionTaken {
		if err := s.postRepo.Delete(ctx, report.PostID); err != nil {
			return nil, err
		}
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, reportStatus); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, reportID)
}

// SetBanned bans or unbans a user account.
func (s *ModerationService) SetBanned(ctx context.Context, targetID uint, banned bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin && banned {
		return nil, models.NewValidationError("Cannot ban an admin account")
	}
	user.IsBanned = banned
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin grants or revokes admin rights.
func (s *ModerationService) SetAdmin(ctx context.Context, targetID uint, admin bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	user.IsAdmin = admin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers pages through all accounts for the admin console.
func (s *ModerationService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.userRepo.List(ctx, limit, offset)
}

// UserFlags carries the admin-editable account flags. Nil pointers mean
// "leave unchanged".
type UserFlags struct {
	IsBanned   *bool `json:"is_banned"`
	IsVerified *bool `json:"is_verified"`
	IsAdmin    *bool `json:"is_admin"`
}

// UpdateFlags applies a partial flag update to an account. Banning an admin
// is rejected unless the same update also revokes admin.
func (s *ModerationService) UpdateFlags(ctx context.Context, targetID uint, flags UserFlags) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if flags.IsAdmin != nil {
		user.IsAdmin = *flags.IsAdmin
	}
	if flags.IsBanned != nil {
		if *flags.IsBanned && user.IsAdmin {
			return nil, models.NewValidationError("Cannot ban an admin account")
		}
		user.IsBanned = *flags.IsBanned
	}
	if flags.IsVerified != nil {
		user.IsVerified = *flags.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account and cascades its posts and their reports.
func (s *ModerationService) DeleteUser(ctx context.Context, targetID uint) error {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return models.NewValidationError("Cannot delete an admin account")
	}
	return s.userRepo.Delete(ctx, targetID)
}

// RemovePost deletes a post from the admin console and closes every
// pending report against it as action_taken.
func (s *ModerationService) RemovePost(ctx context.Context, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	if _, err := s.reportRepo.ResolveForPost(ctx, postID, models.ReportStatusActionTaken); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// DashboardStats summarizes the instance for the admin console.
type DashboardStats struct {
	Users          int64 `json:"users"`
	Posts          int64 `json:"posts"`
	PendingReports int64 `json:"pending_reports"`
}

// Stats returns user, post, and pending-report counts.
func (s *ModerationService) Stats(ctx context.Context) (*DashboardStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.reportRepo.CountByStatus(ctx, models.ReportStatusPending)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Users: users, Posts: posts, PendingReports: pending}, nil
}
