package report

import (
	"context"
	"log"
	"strings"
	"time"

	"ecoreport/internal/events"
	"ecoreport/internal/upload"
)

// SubmissionState tracks one submission attempt through the pipeline.
type SubmissionState string

const (
	StateIdle        SubmissionState = "idle"
	StateValidating  SubmissionState = "validating"
	StateNormalizing SubmissionState = "normalizing"
	StateUploading   SubmissionState = "uploading"
	StatePersisting  SubmissionState = "persisting"
	StateSucceeded   SubmissionState = "succeeded"
	StateFailed      SubmissionState = "failed"
)

// ImageFile is one raw photo attached to a submission.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Draft is the candidate report before persistence. The street value is
// resolved to its variant (named vs located) when the draft is built;
// the coordinate comes from the pin drop, detected location, or a
// located street.
type Draft struct {
	Type          string
	Description   string
	District      string
	Street        Street
	Lat           float64
	Lng           float64
	HasCoordinate bool
	CapturedAt    time.Time
	Images        []ImageFile
}

func (d *Draft) validate(maxFiles int) error {
	if strings.TrimSpace(d.Type) == "" {
		return &ValidationError{Field: "type", Reason: "is required"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if !d.HasCoordinate && !d.Street.Located {
		return &ValidationError{Field: "location", Reason: "is not resolved"}
	}
	if len(d.Images) == 0 {
		return &ValidationError{Field: "images", Reason: "at least one photo is required"}
	}
	if len(d.Images) > maxFiles {
		return &ValidationError{Field: "images", Reason: "too many photos attached"}
	}
	for _, img := range d.Images {
		if len(img.Data) == 0 {
			return &ValidationError{Field: "images", Reason: "photo " + img.Name + " is empty"}
		}
	}
	return nil
}

func (d *Draft) toReport(userID int64, imageURLs []string) *Report {
	lat, lng := d.Lat, d.Lng
	if !d.HasCoordinate && d.Street.Located {
		lat, lng = d.Street.Lat, d.Street.Lng
	}

	capturedAt := d.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	return &Report{
		UserID:        userID,
		District:      strings.TrimSpace(d.District),
		Type:          strings.TrimSpace(d.Type),
		Description:   strings.TrimSpace(d.Description),
		StreetName:    strings.TrimSpace(d.Street.Name),
		StreetLocated: d.Street.Located,
		Lat:           lat,
		Lng:           lng,
		ImageURLs:     imageURLs,
		Approved:      false,
		Status:        StatusPending,
		CapturedAt:    capturedAt,
	}
}

// submission holds the transient per-attempt state: the state machine
// position, the normalized buffers, and the aggregate upload progress.
type submission struct {
	state   SubmissionState
	items   []upload.Item
	percent int
	onState func(SubmissionState)
}

func newSubmission(onState func(SubmissionState)) *submission {
	s := &submission{state: StateIdle, onState: onState}
	return s
}

func (s *submission) advance(next SubmissionState) {
	s.state = next
	if s.onState != nil {
		s.onState(next)
	}
}

func (s *submission) fail() {
	s.advance(StateFailed)
}

// release drops transient buffers. Runs on both success and failure.
func (s *submission) release() {
	s.items = nil
	s.percent = 0
}

// Submit runs one submission attempt end to end: validate, normalize
// each photo sequentially, upload the batch, persist the record.
// Validation happens before any I/O; there is no automatic retry.
func (s *Service) Submit(ctx context.Context, userID int64, draft Draft) (*Report, error) {
	return s.submit(ctx, userID, draft, nil)
}

func (s *Service) submit(ctx context.Context, userID int64, draft Draft, onState func(SubmissionState)) (*Report, error) {
	sub := newSubmission(onState)
	defer sub.release()

	sub.advance(StateValidating)
	if err := draft.validate(s.maxFiles); err != nil {
		sub.fail()
		return nil, err
	}

	// Normalization is sequential to bound peak memory even when the
	// upload itself runs in parallel. A codec failure falls back to the
	// original file and never blocks the submission.
	sub.advance(StateNormalizing)
	for _, img := range draft.Images {
		norm, err := s.normalizer.Normalize(img.Name, img.Data)
		if err != nil {
			log.Printf("normalize %s failed, uploading original: %v", img.Name, err)
			sub.items = append(sub.items, upload.Item{
				Name:        img.Name,
				ContentType: img.ContentType,
				Data:        img.Data,
			})
			continue
		}
		sub.items = append(sub.items, upload.Item{
			Name:        norm.Name,
			ContentType: norm.ContentType,
			Data:        norm.Data,
		})
	}

	sub.advance(StateUploading)
	urls, err := s.uploader.Upload(ctx, userID, sub.items, func(overall int) {
		sub.percent = overall
	})
	if err != nil {
		sub.fail()
		return nil, &TransportError{Err: err}
	}

	sub.advance(StatePersisting)
	rep := draft.toReport(userID, urls)
	if err := s.repo.Create(ctx, rep); err != nil {
		sub.fail()
		return nil, &StoreRejection{Err: err}
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, events.Event{
			Type:     events.TypeReportCreated,
			ReportID: rep.ID,
			UserID:   userID,
			District: rep.District,
		}); err != nil {
			log.Printf("publish report.created for report %d: %v", rep.ID, err)
		}
	}

	sub.advance(StateSucceeded)
	return rep, nil
}
