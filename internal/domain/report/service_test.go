package report

import (
	"context"
	"errors"
	"testing"
)

func seedReport(t *testing.T, repo Repository, userID int64, approved bool) *Report {
	t.Helper()
	rep := &Report{
		UserID:      userID,
		District:    "San Isidro",
		Type:        "water",
		Description: "foamy runoff near the creek",
		Lat:         14.6,
		Lng:         121.0,
		ImageURLs:   []string{"https://blobs.test/one.jpg"},
		Approved:    approved,
		Status:      StatusPending,
	}
	if err := repo.Create(context.Background(), rep); err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	return rep
}

func TestGetHidesUnapprovedFromOtherCitizens(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	svc := NewService(repo, &fakeNormalizer{}, &fakeUploader{}, nil, 3)
	rep := seedReport(t, repo, 10, false)

	if _, err := svc.Get(context.Background(), rep.ID, 99, "citizen"); !errors.Is(err, ErrNotVisible) {
		t.Fatalf("expected ErrNotVisible for another citizen, got %v", err)
	}

	if _, err := svc.Get(context.Background(), rep.ID, 10, "citizen"); err != nil {
		t.Fatalf("owner should see own pending report: %v", err)
	}

	for _, role := range []string{"admin", "district_admin"} {
		if _, err := svc.Get(context.Background(), rep.ID, 99, role); err != nil {
			t.Fatalf("%s should see pending report: %v", role, err)
		}
	}
}

func TestGetUnknownReport(t *testing.T) {
	svc := NewService(NewRepository(setupTestDB(t)), &fakeNormalizer{}, &fakeUploader{}, nil, 3)

	if _, err := svc.Get(context.Background(), 12345, 1, "citizen"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestListApprovedExcludesPending(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	svc := NewService(repo, &fakeNormalizer{}, &fakeUploader{}, nil, 3)

	approved := seedReport(t, repo, 1, true)
	seedReport(t, repo, 2, false)

	reports, total, err := svc.ListApproved(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("ListApproved returned error: %v", err)
	}
	if total != 1 || len(reports) != 1 {
		t.Fatalf("expected exactly the approved report, got total=%d len=%d", total, len(reports))
	}
	if reports[0].ID != approved.ID {
		t.Fatalf("expected report %d, got %d", approved.ID, reports[0].ID)
	}
	if len(reports[0].ImageURLs) != 1 {
		t.Fatalf("expected image URLs rehydrated, got %v", reports[0].ImageURLs)
	}
}

func TestToggleUpvote(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	svc := NewService(repo, &fakeNormalizer{}, &fakeUploader{}, nil, 3)
	rep := seedReport(t, repo, 1, true)

	upvoted, count, err := svc.ToggleUpvote(context.Background(), rep.ID, 7)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !upvoted || count != 1 {
		t.Fatalf("expected upvoted=true count=1, got %v %d", upvoted, count)
	}

	upvoted, count, err = svc.ToggleUpvote(context.Background(), rep.ID, 7)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if upvoted || count != 0 {
		t.Fatalf("expected upvoted=false count=0, got %v %d", upvoted, count)
	}
}

func TestToggleUpvoteRequiresApproval(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	svc := NewService(repo, &fakeNormalizer{}, &fakeUploader{}, nil, 3)
	rep := seedReport(t, repo, 1, false)

	if _, _, err := svc.ToggleUpvote(context.Background(), rep.ID, 7); !errors.Is(err, ErrNotApproved) {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}
}

func TestResponsesRequireExistingReport(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	svc := NewService(repo, &fakeNormalizer{}, &fakeUploader{}, nil, 3)

	if _, err := svc.Responses(context.Background(), 555); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}

	rep := seedReport(t, repo, 1, true)
	if err := repo.CreateResponse(context.Background(), &Response{ReportID: rep.ID, AdminID: 2, Message: "crew dispatched"}); err != nil {
		t.Fatalf("failed to create response: %v", err)
	}

	responses, err := svc.Responses(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("Responses returned error: %v", err)
	}
	if len(responses) != 1 || responses[0].Message != "crew dispatched" {
		t.Fatalf("unexpected responses: %+v", responses)
	}
}
