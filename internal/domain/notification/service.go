package notification

import (
	"context"
	"encoding/json"
	"fmt"
)

type Service struct {
	repo Repository
	hub  *Hub // nil when real-time push is disabled
}

func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Create persists a notification and pushes it to the user's live
// WebSocket connection when one exists.
func (s *Service) Create(ctx context.Context, userID int64, t Type, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
		IsRead:  false,
	}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		n.Data = b
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyReportApproved(ctx context.Context, ownerID, reportID int64) error {
	return s.Create(
		ctx,
		ownerID,
		TypeReportApproved,
		"Report approved",
		"Your report passed review and is now publicly visible",
		map[string]any{"report_id": reportID},
	)
}

func (s *Service) NotifyReportRejected(ctx context.Context, ownerID, reportID int64, reason string) error {
	msg := "Your report was rejected"
	if reason != "" {
		msg = msg + ". Reason: " + reason
	}
	return s.Create(
		ctx,
		ownerID,
		TypeReportRejected,
		"Report rejected",
		msg,
		map[string]any{"report_id": reportID},
	)
}

func (s *Service) NotifyStatusChanged(ctx context.Context, ownerID, reportID int64, status string) error {
	return s.Create(
		ctx,
		ownerID,
		TypeStatusChanged,
		"Report status updated",
		fmt.Sprintf("Your report is now %q", status),
		map[string]any{"report_id": reportID, "status": status},
	)
}

func (s *Service) NotifyNewResponse(ctx context.Context, ownerID, reportID int64, preview string) error {
	if len(preview) > 120 {
		preview = preview[:120] + "..."
	}
	return s.Create(
		ctx,
		ownerID,
		TypeNewResponse,
		"New response on your report",
		preview,
		map[string]any{"report_id": reportID},
	)
}
