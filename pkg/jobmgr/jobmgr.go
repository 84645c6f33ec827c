// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking of the running ones.
//
//	jm := jobmgr.NewManager(logger)
//	err := jm.StartAsync(ctx, "sync-commands:123", func(ctx context.Context) error {
//	    // do work until ctx is cancelled
//	    return nil
//	})
//	...
//	jm.StopAll()
//	jm.Wait()
//
// No retries, no persistence. A name can only run once at a time.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrJobRunning    = errors.New("job is already running")
	ErrJobNotRunning = errors.New("job is not running")
)

// Job is a running unit of work.
type Job struct {
	Name   string
	cancel context.CancelFunc
}

// Manager starts, stops and tracks jobs. Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
	log  zerolog.Logger
}

func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		jobs: make(map[string]*Job),
		log:  logger,
	}
}

// StartAsync runs fn in its own goroutine with a context derived from ctx.
// The job is forgotten once fn returns.
func (m *Manager) StartAsync(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	jobCtx, cancel := context.WithCancel(ctx)
	job := &Job{Name: name, cancel: cancel}
	m.jobs[name] = job
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		m.log.Debug().Str("job", name).Msg("Job running")
		if err := fn(jobCtx); err != nil {
			m.log.Error().Err(err).Str("job", name).Msg("Job failed")
		} else {
			m.log.Debug().Str("job", name).Msg("Job done")
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotRunning, name)
	}
	job.cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, job := range m.jobs {
		job.cancel()
		delete(m.jobs, name)
	}
}

// Wait blocks until every started job has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// List returns the names of the running jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status summarises the running jobs, e.g. "Running jobs: a, b".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return "Running jobs: " + strings.Join(active, ", ")
}
