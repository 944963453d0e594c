package analyses

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Idosegev23/GameChanger/internal/application"
	domain "github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

type countingObserver struct {
	mu       sync.Mutex
	started  int
	finished int
	failed   int
}

func (o *countingObserver) TaskStarted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *countingObserver) TaskFinished(failed bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished++
	if failed {
		o.failed++
	}
}

func (o *countingObserver) snapshot() (int, int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started, o.finished, o.failed
}

func TestEnqueueReturnsBeforeProcessingFinishes(t *testing.T) {
	repo := newFakeRepo(pendingAnalysis())
	scorer := &fakeScorer{raw: scoredJSON, block: make(chan struct{})}
	svc, _ := newService(repo, scorer)

	d := NewDispatcher(svc, 1, 4, nil)

	start := time.Now()
	d.Enqueue("a1")
	require.Less(t, time.Since(start), time.Second, "Enqueue must not wait for the task")

	// The record must not be terminal while the scorer is still running.
	a := repo.get("a1")
	assert.NotEqual(t, domain.StatusDone, a.Status)

	close(scorer.block)
	d.Close()
	assert.Equal(t, domain.StatusDone, repo.get("a1").Status)
}

func TestDispatcherDrainsQueueOnClose(t *testing.T) {
	ids := []domain.AnalysisID{"a1", "a2", "a3"}
	records := make([]*domain.Analysis, 0, len(ids))
	for _, id := range ids {
		a := pendingAnalysis()
		a.ID = id
		records = append(records, a)
	}
	repo := newFakeRepo(records...)
	svc, _ := newService(repo, &fakeScorer{raw: scoredJSON})

	obs := &countingObserver{}
	d := NewDispatcher(svc, 2, 8, obs)
	for _, id := range ids {
		d.Enqueue(id)
	}
	d.Close()

	for _, id := range ids {
		assert.Equal(t, domain.StatusDone, repo.get(id).Status, "analysis %s", id)
	}
	started, finished, failed := obs.snapshot()
	assert.Equal(t, 3, started)
	assert.Equal(t, 3, finished)
	assert.Zero(t, failed)
}

func TestDispatcherObserverCountsFailures(t *testing.T) {
	repo := newFakeRepo(pendingAnalysis())
	svc, dl := newService(repo, &fakeScorer{raw: "not json"})

	obs := &countingObserver{}
	d := NewDispatcher(svc, 1, 4, obs)
	d.Enqueue("a1")
	d.Close()

	_, finished, failed := obs.snapshot()
	assert.Equal(t, 1, finished)
	assert.Equal(t, 1, failed)
	assert.Equal(t, domain.StatusError, repo.get("a1").Status)
	assert.NotEmpty(t, dl.entries)
}

func TestDispatcherOverflowStillRuns(t *testing.T) {
	// One worker, one queue slot, first task blocked: the third Enqueue
	// overflows onto its own goroutine and must still complete.
	blocked := pendingAnalysis()
	queued := pendingAnalysis()
	queued.ID = "a2"
	overflow := pendingAnalysis()
	overflow.ID = "a3"
	repo := newFakeRepo(blocked, queued, overflow)

	gate := make(chan struct{})
	scorer := &fakeScorer{raw: scoredJSON, block: gate}
	svc, _ := newService(repo, scorer)

	d := NewDispatcher(svc, 1, 1, nil)
	d.Enqueue("a1") // worker picks this up and blocks
	waitFor(t, func() bool { return repo.get("a1").Status == domain.StatusProcessing })

	d.Enqueue("a2") // fills the queue
	d.Enqueue("a3") // overflow path

	close(gate)
	d.Close()
	waitFor(t, func() bool { return repo.get("a3").Status == domain.StatusDone })
	assert.Equal(t, domain.StatusDone, repo.get("a1").Status)
	assert.Equal(t, domain.StatusDone, repo.get("a2").Status)
}

func TestDispatcherDefaults(t *testing.T) {
	svc := &Service{Repo: newFakeRepo(), Clock: application.SystemClock{}}
	d := NewDispatcher(svc, 0, 0, nil)
	assert.Equal(t, 64, cap(d.queue))
	d.Close()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
