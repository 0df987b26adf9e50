package repository

import (
	"context"
	"errors"

	"socialpulse/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines persistence operations for moderation reports.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	HasOpenReport(ctx context.Context, postID, reporterID uint) (bool, error)
	List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
	ResolveForPost(ctx context.Context, postID uint, status models.ReportStatus) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository returns a new ReportRepository implementation.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := readDB(r.db).WithContext(ctx).
		Preload("Post").
		Preload("Reporter").
		First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &report, nil
}

// HasOpenReport reports whether reporterID already has a pending report
// against postID.
func (r *reportRepository) HasOpenReport(ctx context.Context, postID, reporterID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Report{}).
		Where("post_id = ? AND reporter_id = ? AND status = ?", postID, reporterID, models.ReportStatusPending).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// List returns reports newest first, optionally filtered by status.
func (r *reportRepository) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	query := readDB(r.db).WithContext(ctx).
		Preload("Post").
		Preload("Reporter")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var reports []models.Report
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reports, nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	return nil
}

func (r *reportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	query := readDB(r.db).WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ResolveForPost moves every pending report against postID to the given
// status. Used when an admin removes a reported post directly.
func (r *reportRepository) ResolveForPost(ctx context.Context, postID uint, status models.ReportStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("post_id = ? AND status = ?", postID, models.ReportStatusPending).
		Update("status", status)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
