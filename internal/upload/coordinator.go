package upload

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ecoreport/internal/blob"
)

// Item is one normalized photo ready for upload.
type Item struct {
	Name        string
	ContentType string
	Data        []byte
}

// Coordinator drives one-or-many uploads of report photos to the blob
// store, tracking per-item and aggregate progress. In parallel mode all
// uploads start concurrently; in sequential mode task i+1 starts only
// after task i resolves. The returned URL list always preserves input
// order regardless of completion order.
type Coordinator struct {
	store    blob.Store
	parallel bool
	now      func() time.Time
}

func New(store blob.Store, parallel bool) *Coordinator {
	return &Coordinator{
		store:    store,
		parallel: parallel,
		now:      time.Now,
	}
}

// Upload sends all items to the blob store under deterministic
// owner-scoped paths. Any single failure fails the whole batch; already
// completed uploads are not rolled back.
func (c *Coordinator) Upload(ctx context.Context, ownerID int64, items []Item, onProgress func(overall int)) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no items to upload")
	}

	batch := newBatch(len(items), onProgress)
	if c.parallel {
		return c.uploadParallel(ctx, batch, ownerID, items)
	}
	return c.uploadSequential(ctx, batch, ownerID, items)
}

func (c *Coordinator) uploadParallel(ctx context.Context, batch *Batch, ownerID int64, items []Item) ([]string, error) {
	urls := make([]string, len(items))

	g, ctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			url, err := c.uploadOne(ctx, batch, i, ownerID, item)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return urls, nil
}

func (c *Coordinator) uploadSequential(ctx context.Context, batch *Batch, ownerID int64, items []Item) ([]string, error) {
	urls := make([]string, len(items))

	for i, item := range items {
		url, err := c.uploadOne(ctx, batch, i, ownerID, item)
		if err != nil {
			return nil, err
		}
		urls[i] = url
	}

	return urls, nil
}

func (c *Coordinator) uploadOne(ctx context.Context, batch *Batch, index int, ownerID int64, item Item) (string, error) {
	batch.start(index, int64(len(item.Data)))

	path := c.objectPath(ownerID, item.Name)
	url, err := c.store.Upload(ctx, path, item.ContentType, item.Data, func(transferred, total int64) {
		batch.progress(index, transferred, total)
	})
	if err != nil {
		batch.fail(index)
		return "", fmt.Errorf("upload %s: %w", item.Name, err)
	}

	batch.complete(index, url)
	return url, nil
}

// objectPath derives a collision-free destination from the owner, a
// monotonic timestamp and the normalized file name.
func (c *Coordinator) objectPath(ownerID int64, name string) string {
	return fmt.Sprintf("reports/%d/%d_%s", ownerID, c.now().UnixNano(), name)
}
