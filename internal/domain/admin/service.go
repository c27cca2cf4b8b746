package admin

import (
	"context"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"ecoreport/internal/domain/auth"
	"ecoreport/internal/domain/report"
	"ecoreport/internal/events"
)

// Moderator identifies the acting admin. District admins only see and
// moderate reports from their own district.
type Moderator struct {
	ID       int64
	Role     string
	District string
}

func (m Moderator) scopedTo(district string) bool {
	return m.Role == "district_admin" && !strings.EqualFold(m.District, district)
}

type Service struct {
	reports       ReportRepository
	users         UserRepository
	notifications NotificationSender
	events        EventPublisher
}

func NewService(reports ReportRepository, users UserRepository, notifications NotificationSender, events EventPublisher) *Service {
	return &Service{
		reports:       reports,
		users:         users,
		notifications: notifications,
		events:        events,
	}
}

// GetPendingReports lists reports awaiting triage, oldest activity
// first is not needed here; listing keeps the repository's default
// order. District admins get only their district.
func (s *Service) GetPendingReports(ctx context.Context, m Moderator, page, limit int) ([]report.Report, int64, error) {
	f := report.Filter{
		PendingOnly: true,
		Page:        page,
		Limit:       limit,
	}
	if m.Role == "district_admin" {
		f.District = m.District
	}
	return s.reports.List(ctx, f)
}

func (s *Service) getModeratable(ctx context.Context, m Moderator, reportID int64) (*report.Report, error) {
	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if m.scopedTo(rep.District) {
		return nil, ErrDistrictMismatch
	}
	return rep, nil
}

// ApproveReport clears a report for public visibility and notifies the
// reporter. Approving an already-moderated report is rejected so two
// admins cannot race on the same item.
func (s *Service) ApproveReport(ctx context.Context, m Moderator, reportID int64) (*report.Report, error) {
	rep, err := s.getModeratable(ctx, m, reportID)
	if err != nil {
		return nil, err
	}
	if rep.Approved || rep.Rejected {
		return nil, ErrAlreadyModerated
	}

	rep.Approved = true
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.NotifyReportApproved(ctx, rep.UserID, rep.ID); err != nil {
			log.Printf("notify approval for report %d: %v", rep.ID, err)
		}
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, events.Event{
			Type:     events.TypeReportApproved,
			ReportID: rep.ID,
			UserID:   rep.UserID,
			District: rep.District,
		}); err != nil {
			log.Printf("publish report.approved for report %d: %v", rep.ID, err)
		}
	}

	return rep, nil
}

// RejectReport declines a report. A human-readable reason is mandatory
// and travels to the reporter in the notification.
func (s *Service) RejectReport(ctx context.Context, m Moderator, reportID int64, reason string) (*report.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, report.ErrReasonRequired
	}

	rep, err := s.getModeratable(ctx, m, reportID)
	if err != nil {
		return nil, err
	}
	if rep.Approved || rep.Rejected {
		return nil, ErrAlreadyModerated
	}

	rep.Rejected = true
	rep.RejectedReason = reason
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.NotifyReportRejected(ctx, rep.UserID, rep.ID, reason); err != nil {
			log.Printf("notify rejection for report %d: %v", rep.ID, err)
		}
	}

	return rep, nil
}

// AdvanceStatus moves an approved report along the workflow. The status
// only moves forward; skipping a step is allowed, going back is not.
func (s *Service) AdvanceStatus(ctx context.Context, m Moderator, reportID int64, next report.Status) (*report.Report, error) {
	if !next.IsValid() {
		return nil, report.ErrStatusRegression
	}

	rep, err := s.getModeratable(ctx, m, reportID)
	if err != nil {
		return nil, err
	}
	if !rep.Approved {
		return nil, report.ErrNotApproved
	}
	if next.Rank() <= rep.Status.Rank() {
		return nil, report.ErrStatusRegression
	}

	rep.Status = next
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.NotifyStatusChanged(ctx, rep.UserID, rep.ID, string(next)); err != nil {
			log.Printf("notify status change for report %d: %v", rep.ID, err)
		}
	}

	return rep, nil
}

// RespondToReport appends an admin response visible under the report.
func (s *Service) RespondToReport(ctx context.Context, m Moderator, reportID int64, message string) (*report.Response, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, report.ErrReasonRequired
	}

	rep, err := s.getModeratable(ctx, m, reportID)
	if err != nil {
		return nil, err
	}

	resp := &report.Response{
		ReportID: rep.ID,
		AdminID:  m.ID,
		Message:  message,
	}
	if err := s.reports.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		if err := s.notifications.NotifyNewResponse(ctx, rep.UserID, rep.ID, message); err != nil {
			log.Printf("notify response for report %d: %v", rep.ID, err)
		}
	}

	return resp, nil
}

// BlockUser prevents the user from logging in. The reason is stored on
// the account for support.
func (s *Service) BlockUser(ctx context.Context, userID int64, reason string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsBlocked = true
	user.BlockReason = strings.TrimSpace(reason)
	return s.users.Update(ctx, user)
}

func (s *Service) UnblockUser(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsBlocked = false
	user.BlockReason = ""
	return s.users.Update(ctx, user)
}

// Statistics is the triage dashboard snapshot.
type Statistics struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	Approved   int64            `json:"approved"`
	Rejected   int64            `json:"rejected"`
	Today      int64            `json:"today"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByType     map[string]int64 `json:"by_type"`
	ByDistrict map[string]int64 `json:"by_district"`
	Users      int64            `json:"users"`
}

type groupCount struct {
	Key   string
	Count int64
}

// GetStatistics aggregates report counters. District admins get their
// district's slice of the numbers.
func (s *Service) GetStatistics(ctx context.Context, m Moderator) (*Statistics, error) {
	stats := &Statistics{
		ByStatus:   map[string]int64{},
		ByType:     map[string]int64{},
		ByDistrict: map[string]int64{},
	}

	base := s.reports.DB().WithContext(ctx).Model(&report.Report{})
	if m.Role == "district_admin" {
		base = base.Where("district = ?", m.District)
	}

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("approved = ? AND rejected = ?", false, false).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("approved = ?", true).Count(&stats.Approved).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("rejected = ?", true).Count(&stats.Rejected).Error; err != nil {
		return nil, err
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := base.Session(&gorm.Session{}).Where("created_at >= ?", startOfDay).Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	var rows []groupCount
	if err := base.Session(&gorm.Session{}).Select("status AS key, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByStatus[row.Key] = row.Count
	}

	rows = nil
	if err := base.Session(&gorm.Session{}).Select("type AS key, COUNT(*) AS count").Group("type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByType[row.Key] = row.Count
	}

	rows = nil
	if err := base.Session(&gorm.Session{}).Select("district AS key, COUNT(*) AS count").Group("district").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByDistrict[row.Key] = row.Count
	}

	if err := s.users.DB().WithContext(ctx).Model(&auth.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
