package zx

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nf/zxprobe/guest"
)

var (
	// ErrSyncTimeout is returned when the guest does not respond to the
	// host within the configured timeout.
	ErrSyncTimeout = errors.New("timeout waiting for guest")

	// ErrUnprocessed is returned by Sync if the debug port holds data that
	// the host has not taken or the guest has not read.
	ErrUnprocessed = errors.New("unprocessed debug port data before sync")

	// ErrExited is returned when the guest program has returned.
	ErrExited = errors.New("guest exited")
)

// AckError is returned by Sync when the first byte the guest writes after
// a release is not the acknowledgement.
type AckError struct {
	Got byte
	ok  bool
}

func (e AckError) Error() string {
	if !e.ok {
		return "guest wrote no acknowledgement"
	}
	return fmt.Sprintf("guest acknowledged with %.2x, want 01", e.Got)
}

// Program is a guest program.
type Program func(guest.Bus)

// Runner executes a guest program on a Machine in its own goroutine and
// lets the host step it one release at a time.
type Runner struct {
	m    *Machine
	exit chan error

	running bool
	err     error // why the guest stopped, once it has
}

func NewRunner(m *Machine) *Runner {
	return &Runner{m: m, exit: make(chan error, 1)}
}

func (r *Runner) Machine() *Machine { return r.m }

// Start runs p in a new goroutine.
func (r *Runner) Start(p Program) {
	if r.running {
		panic("Start called on a running Runner")
	}
	r.running = true
	r.m.resetTrace()
	go func() { r.exit <- exec(r.m, p) }()
}

func exec(m *Machine, p Program) (err error) {
	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(haltSignal); !ok {
				panic(e)
			}
			err = nil
		}
	}()
	p(m)
	return ErrExited
}

func (r *Runner) finish(err error) error {
	r.running = false
	r.err = err
	if err != nil && err != ErrExited {
		log.Printf("runner: %v", err)
	}
	return err
}

func (r *Runner) stopped() error {
	if r.err != nil {
		return r.err
	}
	return ErrExited
}

// Wait blocks until the guest is parked waiting for a release.
func (r *Runner) Wait() error {
	if !r.running {
		return r.stopped()
	}
	select {
	case <-r.m.parked:
		return nil
	case err := <-r.exit:
		r.finish(err)
		return r.stopped()
	case <-time.After(r.m.cfg.SyncTimeout):
		r.timedOut()
		return ErrSyncTimeout
	}
}

// Sync releases the guest once and waits until it has acknowledged the
// release and parked again, or returned. The acknowledgement is removed
// from the debug port output; anything the guest wrote after it remains
// there for TakeText.
func (r *Runner) Sync() error {
	if err := r.Wait(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	consumed, pending := r.m.debugState()
	if pending {
		return ErrUnprocessed
	}
	r.m.PutByte(1)

	timeout := time.After(r.m.cfg.SyncTimeout)
wait:
	for {
		select {
		case n := <-r.m.parked:
			if n > consumed {
				break wait
			}
		case err := <-r.exit:
			r.finish(err)
			break wait
		case <-timeout:
			r.timedOut()
			return fmt.Errorf("sync: %w", ErrSyncTimeout)
		}
	}

	b, ok := r.m.takeByte()
	if !ok || b != 1 {
		return AckError{Got: b, ok: ok}
	}
	return nil
}

func (r *Runner) timedOut() {
	if r.m.cfg.Trace {
		log.Printf("runner: timed out, recent port accesses:")
		r.m.EmitTrace()
	}
}

// Halt stops a parked guest and waits for its goroutine to finish.
func (r *Runner) Halt() error {
	r.m.Halt()
	if !r.running {
		return nil
	}
	select {
	case err := <-r.exit:
		r.finish(err)
		return nil
	case <-time.After(r.m.cfg.SyncTimeout):
		return fmt.Errorf("halt: %w", ErrSyncTimeout)
	}
}

// Running reports whether the guest program is still executing.
func (r *Runner) Running() bool { return r.running }
