// Package scanner implements the simulated biometric scan: a press starts a
// jittered progress tick, a completed scan reveals one of two fixed labels
// after an analysis delay, and a hidden trigger decides which label wins.
package scanner

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/bio-id/internal/schedule"
)

// Controller owns the scan session. All methods are safe for concurrent use;
// scheduled callbacks and user gestures are serialised on one mutex.
type Controller struct {
	opts     Options
	sched    schedule.Scheduler
	steps    StepSource
	feedback Feedback
	log      *logrus.Entry
	session  string

	mu        sync.Mutex
	state     State
	secret    bool
	status    Status
	pending   schedule.Handle
	gen       uint64
	seq       uint64
	closed    bool
	listeners []func(Snapshot)
}

// ControllerOption customises a Controller.
type ControllerOption func(*Controller)

// WithScheduler replaces the real-time scheduler.
func WithScheduler(s schedule.Scheduler) ControllerOption {
	return func(c *Controller) { c.sched = s }
}

// WithSteps replaces the random step source.
func WithSteps(s StepSource) ControllerOption {
	return func(c *Controller) { c.steps = s }
}

// WithFeedback attaches a haptic/audible collaborator.
func WithFeedback(f Feedback) ControllerOption {
	return func(c *Controller) { c.feedback = f }
}

// WithLogger sets the base log entry.
func WithLogger(l *logrus.Entry) ControllerOption {
	return func(c *Controller) { c.log = l }
}

// WithSession pins the session id (random otherwise).
func WithSession(id string) ControllerOption {
	return func(c *Controller) { c.session = id }
}

// New returns an Idle controller.
func New(opts Options, options ...ControllerOption) *Controller {
	c := &Controller{
		opts:     opts.normalized(),
		sched:    schedule.Real{},
		feedback: NopFeedback{},
		log:      logrus.NewEntry(logrus.StandardLogger()),
		session:  uuid.NewString(),
		state:    Idle{},
		status:   StatusReady,
	}
	for _, o := range options {
		o(c)
	}
	if c.steps == nil {
		seed, err := NewSeed()
		if err != nil {
			c.log.Debugf("falling back to fixed seed: %v", err)
			seed = 1
		}
		c.steps = NewUniformSteps(c.opts.MinStep, c.opts.MaxStep, seed)
	}
	c.log = c.log.WithField("session", c.session)
	return c
}

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// Session returns the session id.
func (c *Controller) Session() string { return c.session }

// Subscribe registers fn to receive every published snapshot. fn runs outside
// the controller lock, possibly on a timer goroutine; use Snapshot.Seq to
// discard out-of-order deliveries.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Secret reports whether the hidden trigger is armed.
func (c *Controller) Secret() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.secret
}

// Start begins a scan from Idle. It is a no-op while a scan is running,
// revealing, or a result is displayed.
func (c *Controller) Start() {
	c.mu.Lock()
	if _, ok := c.state.(Idle); !ok || c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.transitionLocked(Scanning{}, StatusScanning)
	c.armLocked(c.opts.TickInterval, c.tick)
	snap, ls := c.publishLocked()
	c.mu.Unlock()

	emit(snap, ls)
	c.feedback.Notify(FeedbackScanStart)
}

// Stop releases the press. Only a running scan is interrupted; progress
// drops to zero and the interrupted status reverts after InterruptHold.
func (c *Controller) Stop() {
	c.mu.Lock()
	if _, ok := c.state.(Scanning); !ok || c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	if c.opts.InterruptHold > 0 {
		c.transitionLocked(Idle{Interrupted: true}, StatusInterrupted)
		c.armLocked(c.opts.InterruptHold, c.revert)
	} else {
		c.transitionLocked(Idle{}, StatusReady)
	}
	snap, ls := c.publishLocked()
	c.mu.Unlock()

	emit(snap, ls)
}

// TriggerSecret arms the hidden flag. It has no visible effect.
func (c *Controller) TriggerSecret() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.secret {
		return
	}
	c.secret = true
	c.log.Debug("secret trigger armed")
}

// Reset dismisses a displayed result and returns to the initial state.
func (c *Controller) Reset() {
	c.mu.Lock()
	if _, ok := c.state.(Done); !ok || c.closed {
		c.mu.Unlock()
		return
	}
	c.cancelLocked()
	c.secret = false
	c.transitionLocked(Idle{}, StatusReady)
	snap, ls := c.publishLocked()
	c.mu.Unlock()

	emit(snap, ls)
}

// Close cancels any armed callback. Later gestures are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.closed = true
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	s, ok := c.state.(Scanning)
	if !ok || gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.pending = nil

	step := c.steps.Next()
	if step < 0 {
		step = 0
	}
	s.Ticks++
	s.Progress += step
	if s.Progress >= maxProgress {
		c.transitionLocked(Revealing{Ticks: s.Ticks}, StatusAnalyzing)
		c.armLocked(c.opts.RevealDelay, c.reveal)
	} else {
		c.state = s
		c.armLocked(c.opts.TickInterval, c.tick)
	}
	snap, ls := c.publishLocked()
	c.mu.Unlock()

	emit(snap, ls)
}

func (c *Controller) reveal(gen uint64) {
	c.mu.Lock()
	r, ok := c.state.(Revealing)
	if !ok || gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.pending = nil

	// The flag is read now, not when the press began.
	outcome := OutcomeA
	if c.secret {
		outcome = OutcomeB
	}
	c.transitionLocked(Done{Outcome: outcome, Ticks: r.Ticks}, StatusResult)
	snap, ls := c.publishLocked()
	c.mu.Unlock()

	emit(snap, ls)
	c.feedback.Notify(FeedbackComplete)
}

func (c *Controller) revert(gen uint64) {
	c.mu.Lock()
	idle, ok := c.state.(Idle)
	if !ok || !idle.Interrupted || gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.transitionLocked(Idle{}, StatusReady)
	snap, ls := c.publishLocked()
	c.mu.Unlock()

	emit(snap, ls)
}

// cancelLocked stops the armed callback and invalidates any that already
// fired but have not yet acquired the lock.
func (c *Controller) cancelLocked() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.gen++
}

func (c *Controller) armLocked(d time.Duration, fn func(uint64)) {
	gen := c.gen
	c.pending = c.sched.AfterFunc(d, func() { fn(gen) })
}

func (c *Controller) transitionLocked(next State, status Status) {
	c.log.WithFields(logrus.Fields{
		"from":   c.state.Phase().String(),
		"to":     next.Phase().String(),
		"secret": c.secret,
	}).Debug("scanner transition")
	c.state = next
	c.status = status
}

func (c *Controller) publishLocked() (Snapshot, []func(Snapshot)) {
	c.seq++
	ls := make([]func(Snapshot), len(c.listeners))
	copy(ls, c.listeners)
	return c.snapshotLocked(), ls
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Seq:     c.seq,
		Session: c.session,
		Phase:   c.state.Phase(),
		Status:  c.status,
	}
	switch s := c.state.(type) {
	case Scanning:
		snap.Progress = s.Progress
		snap.Ticks = s.Ticks
	case Revealing:
		snap.Progress = maxProgress
		snap.Ticks = s.Ticks
	case Done:
		snap.Progress = maxProgress
		snap.Ticks = s.Ticks
		snap.Outcome = s.Outcome
		snap.Label = c.opts.Label(s.Outcome)
	}
	return snap
}

func emit(snap Snapshot, listeners []func(Snapshot)) {
	for _, fn := range listeners {
		fn(snap)
	}
}
