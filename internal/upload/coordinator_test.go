package upload

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"ecoreport/internal/blob"
)

// fakeStore records start/resolve events and lets tests gate when each
// upload is allowed to resolve.
type fakeStore struct {
	mu     sync.Mutex
	events []string
	gates  map[string]chan struct{} // item name -> release gate
	failOn string                   // item name that should fail
}

func newFakeStore() *fakeStore {
	return &fakeStore{gates: make(map[string]chan struct{})}
}

// itemName strips the "reports/<owner>/<ts>_" prefix off an object path.
func itemName(objectPath string) string {
	base := path.Base(objectPath)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}

func (s *fakeStore) gate(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[name] = ch
	return ch
}

func (s *fakeStore) log(event string) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *fakeStore) Upload(ctx context.Context, objectPath, contentType string, data []byte, progress blob.ProgressFunc) (string, error) {
	name := itemName(objectPath)
	s.log("start:" + name)

	total := int64(len(data))
	if progress != nil {
		progress(total/2, total)
		progress(total, total)
	}

	s.mu.Lock()
	gate := s.gates[name]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if s.failOn == name {
		s.log("fail:" + name)
		return "", errors.New("transport error")
	}

	s.log("resolve:" + name)
	return "https://blobs.test/" + name, nil
}

func items(names ...string) []Item {
	out := make([]Item, 0, len(names))
	for _, n := range names {
		out = append(out, Item{Name: n, ContentType: "image/jpeg", Data: []byte(strings.Repeat("x", 100))})
	}
	return out
}

func TestParallelPreservesInputOrder(t *testing.T) {
	store := newFakeStore()
	gateA := store.gate("a.jpg")
	gateB := store.gate("b.jpg")
	gateC := store.gate("c.jpg")

	c := New(store, true)

	done := make(chan struct{})
	var urls []string
	var err error
	go func() {
		urls, err = c.Upload(context.Background(), 7, items("a.jpg", "b.jpg", "c.jpg"), nil)
		close(done)
	}()

	// resolve in reverse order: c, then b, then a
	close(gateC)
	close(gateB)
	close(gateA)
	<-done

	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	want := []string{"https://blobs.test/a.jpg", "https://blobs.test/b.jpg", "https://blobs.test/c.jpg"}
	for i := range want {
		if urls[i] != want[i] {
			t.Fatalf("url[%d] = %s, want %s (order must match input, not completion)", i, urls[i], want[i])
		}
	}
}

func TestSequentialStrictOrdering(t *testing.T) {
	store := newFakeStore()
	c := New(store, false)

	urls, err := c.Upload(context.Background(), 7, items("a.jpg", "b.jpg", "c.jpg"), nil)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(urls))
	}

	// task i+1's start event never precedes task i's resolve event
	index := func(event string) int {
		for i, e := range store.events {
			if e == event {
				return i
			}
		}
		t.Fatalf("event %q not logged: %v", event, store.events)
		return -1
	}
	if index("resolve:a.jpg") > index("start:b.jpg") {
		t.Fatalf("b started before a resolved: %v", store.events)
	}
	if index("resolve:b.jpg") > index("start:c.jpg") {
		t.Fatalf("c started before b resolved: %v", store.events)
	}
}

func TestBatchFailsFastWithoutRollback(t *testing.T) {
	store := newFakeStore()
	store.failOn = "b.jpg"
	c := New(store, false)

	urls, err := c.Upload(context.Background(), 7, items("a.jpg", "b.jpg", "c.jpg"), nil)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if urls != nil {
		t.Fatalf("expected nil urls on failure, got %v", urls)
	}

	// first item stayed uploaded, third never started
	resolvedA := false
	startedC := false
	for _, e := range store.events {
		if e == "resolve:a.jpg" {
			resolvedA = true
		}
		if e == "start:c.jpg" {
			startedC = true
		}
	}
	if !resolvedA {
		t.Fatalf("expected a.jpg to resolve before failure: %v", store.events)
	}
	if startedC {
		t.Fatalf("expected c.jpg to never start after failure: %v", store.events)
	}
}

func TestUploadReportsOverallProgress(t *testing.T) {
	store := newFakeStore()
	c := New(store, false)

	var overall []int
	_, err := c.Upload(context.Background(), 7, items("a.jpg", "b.jpg"), func(p int) {
		overall = append(overall, p)
	})
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if len(overall) == 0 {
		t.Fatal("expected progress callbacks")
	}
	if final := overall[len(overall)-1]; final != 100 {
		t.Fatalf("expected final overall percent 100, got %d", final)
	}
	for i := 1; i < len(overall); i++ {
		if overall[i] < overall[i-1] {
			t.Fatalf("overall percent regressed: %v", overall)
		}
	}
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	c := New(newFakeStore(), true)
	if _, err := c.Upload(context.Background(), 7, nil, nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestBatchOverallPercentIsRoundedMean(t *testing.T) {
	b := newBatch(3, nil)

	b.start(0, 100)
	b.start(1, 100)
	b.start(2, 100)

	b.progress(0, 50, 100) // 50%
	b.progress(1, 25, 100) // 25%
	// task 2 untouched: 0%

	if got := b.OverallPercent(); got != 25 {
		t.Fatalf("expected round(mean(50,25,0)) = 25, got %d", got)
	}

	b.progress(2, 26, 100) // mean(50,25,26) = 33.67 -> 34
	if got := b.OverallPercent(); got != 34 {
		t.Fatalf("expected 34, got %d", got)
	}
}

func TestTaskCompletionForces100(t *testing.T) {
	b := newBatch(1, nil)
	b.start(0, 1000)
	b.progress(0, 999, 1000) // rounds to 100 already, but completion must not depend on it
	b.progress(0, 994, 1000) // 99%
	if got := b.OverallPercent(); got != 99 {
		t.Fatalf("expected 99 before completion, got %d", got)
	}

	b.complete(0, "https://blobs.test/x.jpg")
	if got := b.OverallPercent(); got != 100 {
		t.Fatalf("expected 100 after completion, got %d", got)
	}
}

func TestObjectPathIsOwnerScopedAndMonotonic(t *testing.T) {
	c := New(newFakeStore(), false)
	base := time.Unix(0, 1000)
	calls := 0
	c.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls))
	}

	p1 := c.objectPath(42, "a.jpg")
	p2 := c.objectPath(42, "a.jpg")
	if !strings.HasPrefix(p1, "reports/42/") {
		t.Fatalf("expected owner-scoped path, got %s", p1)
	}
	if p1 == p2 {
		t.Fatalf("expected distinct paths for consecutive uploads, got %s twice", p1)
	}
	if !strings.HasSuffix(p1, "_a.jpg") {
		t.Fatalf("expected path to end with file name, got %s", p1)
	}
}
