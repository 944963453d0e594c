package analyses

import (
	"log"
	"sync"

	domain "github.com/Idosegev23/GameChanger/internal/domain/analyses"
)

// Observer receives task lifecycle notifications, e.g. for metrics.
type Observer interface {
	TaskStarted()
	TaskFinished(failed bool)
}

type noopObserver struct{}

func (noopObserver) TaskStarted()             {}
func (noopObserver) TaskFinished(failed bool) {}

// Dispatcher runs processing tasks detached from the request/response
// cycle: a bounded queue feeds a fixed worker pool, and when the queue is
// full the job runs on its own goroutine instead. Either way Enqueue
// returns immediately; the HTTP caller never waits on an analysis.
type Dispatcher struct {
	svc      *Service
	observer Observer

	queue chan domain.AnalysisID
	wg    sync.WaitGroup
}

// NewDispatcher starts workers goroutines draining a queue of queueSize.
func NewDispatcher(svc *Service, workers, queueSize int, observer Observer) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if observer == nil {
		observer = noopObserver{}
	}

	d := &Dispatcher{
		svc:      svc,
		observer: observer,
		queue:    make(chan domain.AnalysisID, queueSize),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules processing without blocking. Overflow falls back to a
// detached goroutine so the fire-and-forget contract holds under load.
func (d *Dispatcher) Enqueue(id domain.AnalysisID) {
	select {
	case d.queue <- id:
	default:
		go d.run(id)
	}
}

// Close stops accepting work and waits for the workers to drain the queue.
// Jobs running on overflow goroutines are not waited for.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for id := range d.queue {
		d.run(id)
	}
}

func (d *Dispatcher) run(id domain.AnalysisID) {
	d.observer.TaskStarted()
	err := d.svc.ProcessUntilDone(id)
	d.observer.TaskFinished(err != nil)
	if err != nil {
		// Already dead-lettered by the service; this is the last trace the
		// process itself keeps.
		log.Printf("background analysis failed: %v", err)
	}
}
