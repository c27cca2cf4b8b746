package report

import (
	"context"

	"ecoreport/internal/events"
	"ecoreport/internal/imaging"
	"ecoreport/internal/upload"
)

// Normalizer re-encodes a photo into the configured size band.
type Normalizer interface {
	Normalize(name string, data []byte) (*imaging.Normalized, error)
}

// Uploader sends a batch of photos to the blob store and returns their
// URLs in input order.
type Uploader interface {
	Upload(ctx context.Context, ownerID int64, items []upload.Item, onProgress func(overall int)) ([]string, error)
}

// EventPublisher emits report lifecycle events; may be a no-op.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type Service struct {
	repo       Repository
	normalizer Normalizer
	uploader   Uploader
	events     EventPublisher
	maxFiles   int
}

func NewService(repo Repository, normalizer Normalizer, uploader Uploader, events EventPublisher, maxFiles int) *Service {
	if maxFiles <= 0 {
		maxFiles = 3
	}
	return &Service{
		repo:       repo,
		normalizer: normalizer,
		uploader:   uploader,
		events:     events,
		maxFiles:   maxFiles,
	}
}

// Get returns a report. Unapproved reports are visible only to their
// owner and to admins.
func (s *Service) Get(ctx context.Context, id, viewerID int64, viewerRole string) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !rep.Approved && rep.UserID != viewerID && !isAdminRole(viewerRole) {
		return nil, ErrNotVisible
	}

	rep.Upvotes, _ = s.repo.CountUpvotes(ctx, id)
	return rep, nil
}

// ListApproved returns publicly visible reports matching the filter.
func (s *Service) ListApproved(ctx context.Context, f Filter) ([]Report, int64, error) {
	f.ApprovedOnly = true
	f.PendingOnly = false
	return s.repo.List(ctx, f)
}

func (s *Service) ListMine(ctx context.Context, userID int64, limit int) ([]Report, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

// ToggleUpvote adds the user's upvote, or removes it when it already
// exists. Only approved reports can be upvoted.
func (s *Service) ToggleUpvote(ctx context.Context, reportID, userID int64) (upvoted bool, count int64, err error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return false, 0, err
	}
	if !rep.Approved {
		return false, 0, ErrNotApproved
	}

	has, err := s.repo.HasUpvote(ctx, reportID, userID)
	if err != nil {
		return false, 0, err
	}

	if has {
		if err := s.repo.RemoveUpvote(ctx, reportID, userID); err != nil {
			return false, 0, err
		}
	} else {
		if err := s.repo.AddUpvote(ctx, reportID, userID); err != nil {
			return false, 0, err
		}
	}

	count, err = s.repo.CountUpvotes(ctx, reportID)
	if err != nil {
		return false, 0, err
	}
	return !has, count, nil
}

func (s *Service) Responses(ctx context.Context, reportID int64) ([]Response, error) {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListResponses(ctx, reportID)
}

func isAdminRole(role string) bool {
	return role == "admin" || role == "district_admin"
}
