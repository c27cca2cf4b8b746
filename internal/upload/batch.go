package upload

import (
	"math"
	"sync"
)

type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskInProgress TaskState = "in-progress"
	TaskComplete   TaskState = "complete"
	TaskFailed     TaskState = "failed"
)

// Task tracks one in-flight upload. Indices are 0-based and stable for
// the life of the batch.
type Task struct {
	Index       int
	Transferred int64
	Total       int64
	State       TaskState
	URL         string
}

// percent is round(100 * transferred / total). Completion forces 100 so
// rounding can never leave a finished task at 99.
func (t *Task) percent() int {
	if t.State == TaskComplete {
		return 100
	}
	if t.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(t.Transferred) / float64(t.Total) * 100))
}

// Batch aggregates per-task progress. The overall percentage is the
// rounded arithmetic mean of each task's own percentage, not a
// byte-weighted average; tasks not yet started count as 0.
type Batch struct {
	mu         sync.Mutex
	tasks      []Task
	onProgress func(overall int)
}

func newBatch(n int, onProgress func(int)) *Batch {
	b := &Batch{
		tasks:      make([]Task, n),
		onProgress: onProgress,
	}
	for i := range b.tasks {
		b.tasks[i].Index = i
		b.tasks[i].State = TaskPending
	}
	return b
}

func (b *Batch) start(index int, total int64) {
	b.mu.Lock()
	b.tasks[index].State = TaskInProgress
	b.tasks[index].Total = total
	b.notifyLocked()
	b.mu.Unlock()
}

func (b *Batch) progress(index int, transferred, total int64) {
	b.mu.Lock()
	b.tasks[index].Transferred = transferred
	b.tasks[index].Total = total
	b.notifyLocked()
	b.mu.Unlock()
}

func (b *Batch) complete(index int, url string) {
	b.mu.Lock()
	b.tasks[index].State = TaskComplete
	b.tasks[index].URL = url
	b.notifyLocked()
	b.mu.Unlock()
}

func (b *Batch) fail(index int) {
	b.mu.Lock()
	b.tasks[index].State = TaskFailed
	b.notifyLocked()
	b.mu.Unlock()
}

// OverallPercent recomputes the batch percentage from all tasks.
func (b *Batch) OverallPercent() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overallLocked()
}

func (b *Batch) overallLocked() int {
	if len(b.tasks) == 0 {
		return 0
	}
	sum := 0
	for i := range b.tasks {
		sum += b.tasks[i].percent()
	}
	return int(math.Round(float64(sum) / float64(len(b.tasks))))
}

func (b *Batch) notifyLocked() {
	if b.onProgress != nil {
		b.onProgress(b.overallLocked())
	}
}
