package plugin

import (
	"context"
	"log"
	"sync"
)

// Job is one plugin run queued by the Dispatcher.
type Job struct {
	Plugin  string
	Request Request
}

// Runner executes a plugin request. *Executor satisfies it.
type Runner interface {
	Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error)
}

// Resolver looks up a plugin that supports an action. *Manager satisfies it.
type Resolver interface {
	Resolve(name, action string) (*Plugin, error)
}

// Dispatcher runs plugin jobs on a single background worker so that slow
// plugins never stall the caller. Jobs submitted while the queue is full
// are dropped.
type Dispatcher struct {
	resolver Resolver
	runner   Runner
	jobs     chan Job
	results  func(Job, *Response, error)

	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher with a queue of the given size. The
// optional onResult callback is invoked from the worker after every job.
func NewDispatcher(resolver Resolver, runner Runner, queueSize int, onResult func(Job, *Response, error)) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		resolver: resolver,
		runner:   runner,
		jobs:     make(chan Job, queueSize),
		results:  onResult,
	}
}

// Submit queues a job without blocking. It reports false when the job was
// dropped because the queue is full.
func (d *Dispatcher) Submit(job Job) bool {
	select {
	case d.jobs <- job:
		return true
	default:
		log.Printf("plugin queue full, dropping %s/%s", job.Plugin, job.Request.Action)
		return false
	}
}

// Start launches the worker. It stops when ctx is cancelled; Wait blocks
// until it has.
func (d *Dispatcher) Start(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-d.jobs:
				d.run(ctx, job)
			}
		}
	}()
}

// Wait blocks until the worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, job Job) {
	resp, err := d.execute(ctx, job)
	switch {
	case err != nil:
		log.Printf("plugin %s/%s failed: %v", job.Plugin, job.Request.Action, err)
	case !resp.Success:
		log.Printf("plugin %s/%s returned error: %s", job.Plugin, job.Request.Action, resp.Error)
	}
	if d.results != nil {
		d.results(job, resp, err)
	}
}

func (d *Dispatcher) execute(ctx context.Context, job Job) (*Response, error) {
	plugin, err := d.resolver.Resolve(job.Plugin, job.Request.Action)
	if err != nil {
		return nil, err
	}
	return d.runner.Execute(ctx, plugin, &job.Request)
}
