// Package headless drives one scan without a terminal and reports the
// transitions it observed.
package headless

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/bio-id/internal/scanner"
	"github.com/ensigniasec/bio-id/internal/schedule"
)

// maxSimulatedSteps bounds a simulated run whose steps never reach 100.
const maxSimulatedSteps = 100_000

// ErrStalled is returned when a simulated scan never settles.
var ErrStalled = errors.New("scan stalled")

// Options selects the gestures of a headless run.
type Options struct {
	// Secret arms the hidden trigger before pressing.
	Secret bool
	// ReleaseAt releases the press once progress reaches this percentage.
	// Zero holds until the result appears.
	ReleaseAt float64
}

// Step is one observed snapshot.
type Step struct {
	Seq      uint64  `json:"seq"`
	Phase    string  `json:"phase"`
	Progress float64 `json:"progress"`
	Status   string  `json:"status"`
}

// Report summarises a headless run.
type Report struct {
	Session     string        `json:"session"`
	Phase       string        `json:"phase"`
	Outcome     string        `json:"outcome"`
	Label       string        `json:"label,omitempty"`
	Ticks       int           `json:"ticks"`
	Interrupted bool          `json:"interrupted"`
	Simulated   bool          `json:"simulated"`
	Duration    time.Duration `json:"-"`
	DurationStr string        `json:"duration"`
	Steps       []Step        `json:"transcript"`
}

// recorder collects snapshots from the controller without ever blocking it.
type recorder struct {
	mu     sync.Mutex
	steps  []scanner.Snapshot
	notify chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 1)}
}

func (r *recorder) record(s scanner.Snapshot) {
	r.mu.Lock()
	r.steps = append(r.steps, s)
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

func (r *recorder) all() []scanner.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]scanner.Snapshot, len(r.steps))
	copy(out, r.steps)
	return out
}

// Run presses, optionally releases, and waits for the scan to settle. When
// sched is a *schedule.Manual the clock is stepped here and the run finishes
// without waiting in real time.
func Run(ctx context.Context, ctrl *scanner.Controller, sched schedule.Scheduler, opts Options) (Report, error) {
	rec := newRecorder()
	ctrl.Subscribe(rec.record)
	log := logrus.WithField("session", ctrl.Session())

	started := sched.Now()
	if opts.Secret {
		ctrl.TriggerSecret()
	}
	ctrl.Start()
	log.Debug("headless scan started")

	manual, simulated := sched.(*schedule.Manual)
	released := false
	for steps := 0; ; steps++ {
		snap := ctrl.Snapshot()
		if !released && opts.ReleaseAt > 0 && snap.Phase == scanner.PhaseScanning && snap.Progress >= opts.ReleaseAt {
			ctrl.Stop()
			released = true
			log.Debugf("released at %.1f%%", snap.Progress)
			snap = ctrl.Snapshot()
		}
		if settled(snap, released) {
			break
		}

		if simulated {
			if steps >= maxSimulatedSteps {
				return Report{}, fmt.Errorf("%w after %d steps", ErrStalled, steps)
			}
			manual.Advance(ctrl.Options().TickInterval)
			continue
		}
		select {
		case <-rec.notify:
		case <-ctx.Done():
			return Report{}, fmt.Errorf("scan did not finish: %w", ctx.Err())
		}
	}

	return buildReport(ctrl.Snapshot(), rec.all(), released, simulated, sched.Now().Sub(started)), nil
}

// settled reports whether nothing further will happen without a gesture.
func settled(s scanner.Snapshot, released bool) bool {
	if s.Phase == scanner.PhaseDone {
		return true
	}
	return released && s.Phase == scanner.PhaseIdle
}

func buildReport(final scanner.Snapshot, seen []scanner.Snapshot, released, simulated bool, d time.Duration) Report {
	r := Report{
		Session:     final.Session,
		Phase:       final.Phase.String(),
		Outcome:     final.Outcome.String(),
		Label:       final.Label,
		Ticks:       final.Ticks,
		Interrupted: released && final.Phase == scanner.PhaseIdle,
		Simulated:   simulated,
		Duration:    d,
		DurationStr: d.Round(time.Millisecond).String(),
		Steps:       make([]Step, 0, len(seen)),
	}
	var last uint64
	for _, s := range seen {
		// Listeners can observe snapshots out of order on real timers.
		if s.Seq <= last {
			continue
		}
		last = s.Seq
		r.Steps = append(r.Steps, Step{
			Seq:      s.Seq,
			Phase:    s.Phase.String(),
			Progress: s.Progress,
			Status:   s.Status.Key(),
		})
	}
	return r
}
