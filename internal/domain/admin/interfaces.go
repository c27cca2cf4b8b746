package admin

import (
	"context"

	"gorm.io/gorm"

	"ecoreport/internal/domain/auth"
	"ecoreport/internal/domain/report"
	"ecoreport/internal/events"
)

type ReportRepository interface {
	GetByID(ctx context.Context, id int64) (*report.Report, error)
	Update(ctx context.Context, r *report.Report) error
	List(ctx context.Context, f report.Filter) ([]report.Report, int64, error)
	CreateResponse(ctx context.Context, resp *report.Response) error
	DB() *gorm.DB
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
	Update(ctx context.Context, u *auth.User) error
	DB() *gorm.DB
}

type NotificationSender interface {
	NotifyReportApproved(ctx context.Context, ownerID, reportID int64) error
	NotifyReportRejected(ctx context.Context, ownerID, reportID int64, reason string) error
	NotifyStatusChanged(ctx context.Context, ownerID, reportID int64, status string) error
	NotifyNewResponse(ctx context.Context, ownerID, reportID int64, preview string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}
