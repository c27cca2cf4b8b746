package report

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ecoreport/internal/pkg/utils"
)

// Filter narrows report listings.
type Filter struct {
	District     string
	Type         string
	Status       Status
	ApprovedOnly bool
	PendingOnly  bool // not yet approved or rejected
	Page         int
	Limit        int
}

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)
	Update(ctx context.Context, r *Report) error
	List(ctx context.Context, f Filter) ([]Report, int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Report, error)

	AddUpvote(ctx context.Context, reportID, userID int64) error
	RemoveUpvote(ctx context.Context, reportID, userID int64) error
	HasUpvote(ctx context.Context, reportID, userID int64) (bool, error)
	CountUpvotes(ctx context.Context, reportID int64) (int64, error)

	CreateResponse(ctx context.Context, resp *Response) error
	ListResponses(ctx context.Context, reportID int64) ([]Response, error)

	DB() *gorm.DB
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	rep.Images = utils.ImagesToString(rep.ImageURLs)
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Report, error) {
	var rep Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	rep.ImageURLs = utils.StringToImages(rep.Images)
	return &rep, nil
}

func (r *repository) Update(ctx context.Context, rep *Report) error {
	rep.Images = utils.ImagesToString(rep.ImageURLs)
	return r.db.WithContext(ctx).Save(rep).Error
}

func (r *repository) List(ctx context.Context, f Filter) ([]Report, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&Report{})
	if f.ApprovedOnly {
		q = q.Where("approved = ?", true)
	}
	if f.PendingOnly {
		q = q.Where("approved = ? AND rejected = ?", false, false)
	}
	if f.District != "" {
		q = q.Where("district = ?", f.District)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []Report
	err := q.Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range reports {
		reports[i].ImageURLs = utils.StringToImages(reports[i].Images)
	}
	return reports, total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64, limit int) ([]Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var reports []Report
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	for i := range reports {
		reports[i].ImageURLs = utils.StringToImages(reports[i].Images)
	}
	return reports, nil
}

func (r *repository) AddUpvote(ctx context.Context, reportID, userID int64) error {
	return r.db.WithContext(ctx).Create(&Upvote{ReportID: reportID, UserID: userID}).Error
}

func (r *repository) RemoveUpvote(ctx context.Context, reportID, userID int64) error {
	return r.db.WithContext(ctx).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Delete(&Upvote{}).Error
}

func (r *repository) HasUpvote(ctx context.Context, reportID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Upvote{}).
		Where("report_id = ? AND user_id = ?", reportID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountUpvotes(ctx context.Context, reportID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Upvote{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	return count, err
}

func (r *repository) CreateResponse(ctx context.Context, resp *Response) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *repository) ListResponses(ctx context.Context, reportID int64) ([]Response, error) {
	var responses []Response
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		Order("created_at ASC").
		Find(&responses).Error
	return responses, err
}

func (r *repository) DB() *gorm.DB { return r.db }
