package scanner

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// FeedbackEvent is a moment worth a haptic or audible cue.
type FeedbackEvent int

const (
	FeedbackScanStart FeedbackEvent = iota
	FeedbackComplete
)

func (e FeedbackEvent) String() string {
	if e == FeedbackComplete {
		return "complete"
	}
	return "scan_start"
}

// Feedback receives fire-and-forget cues. Implementations must not block.
type Feedback interface {
	Notify(event FeedbackEvent)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(FeedbackEvent)

// Notify implements Feedback.
func (f FeedbackFunc) Notify(e FeedbackEvent) { f(e) }

// NopFeedback discards cues.
type NopFeedback struct{}

// Notify implements Feedback.
func (NopFeedback) Notify(FeedbackEvent) {}

// LogFeedback records cues at debug level.
type LogFeedback struct {
	Log *logrus.Entry
}

// Notify implements Feedback.
func (l LogFeedback) Notify(e FeedbackEvent) {
	l.Log.WithField("event", e.String()).Debug("feedback")
}

// BellFeedback rings the terminal bell on completion.
type BellFeedback struct {
	W io.Writer
}

// Notify implements Feedback.
func (b BellFeedback) Notify(e FeedbackEvent) {
	if e != FeedbackComplete || b.W == nil {
		return
	}
	_, _ = fmt.Fprint(b.W, "\a")
}

// MultiFeedback fans a cue out to several receivers.
type MultiFeedback []Feedback

// Notify implements Feedback.
func (m MultiFeedback) Notify(e FeedbackEvent) {
	for _, f := range m {
		f.Notify(e)
	}
}
