// Package parallel runs independent jobs, such as whole image files, on a
// fixed number of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc queues a job. It blocks while every worker is busy and the
	// queue is full.
	WorkerFunc func(job func())
	// WaitFunc closes the queue and blocks until every queued job has run.
	// Nothing may be queued after it; calling it again is a no-op.
	WaitFunc func()
)

// Pool runs jobs submitted through Do. With a single worker jobs run inline
// on the calling goroutine and Wait returns at once.
type Pool struct {
	workers int
	Do      WorkerFunc
	Wait    WaitFunc
}

// Start launches numWorkers goroutines, GOMAXPROCS when numWorkers < 1.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	if numWorkers == 1 {
		return &Pool{
			workers: 1,
			Do:      func(job func()) { job() },
			Wait:    func() {},
		}
	}

	var wg sync.WaitGroup
	jobs := make(chan func(), numWorkers)
	for range numWorkers {
		wg.Go(func() {
			for job := range jobs {
				job()
			}
		})
	}

	return &Pool{
		workers: numWorkers,
		Do:      func(job func()) { jobs <- job },
		Wait: sync.OnceFunc(func() {
			close(jobs)
			wg.Wait()
		}),
	}
}

func (p *Pool) Workers() int {
	return p.workers
}
