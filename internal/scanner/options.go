package scanner

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stock timings and labels.
const (
	DefaultTickInterval  = 100 * time.Millisecond
	DefaultRevealDelay   = 1200 * time.Millisecond
	DefaultInterruptHold = 2 * time.Second
	DefaultMinStep       = 0.0
	DefaultMaxStep       = 5.0
	DefaultLabelA        = "ACCESS DENIED"
	DefaultLabelB        = "ACCESS GRANTED"

	maxProgress = 100.0
)

// Options tunes the controller timings and labels.
type Options struct {
	TickInterval  time.Duration
	RevealDelay   time.Duration
	InterruptHold time.Duration
	MinStep       float64
	MaxStep       float64
	LabelA        string
	LabelB        string
}

// DefaultOptions returns the stock timings and labels.
func DefaultOptions() Options {
	return Options{
		TickInterval:  DefaultTickInterval,
		RevealDelay:   DefaultRevealDelay,
		InterruptHold: DefaultInterruptHold,
		MinStep:       DefaultMinStep,
		MaxStep:       DefaultMaxStep,
		LabelA:        DefaultLabelA,
		LabelB:        DefaultLabelB,
	}
}

// normalized fills zero values from the defaults and upper-cases labels.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.RevealDelay < 0 {
		o.RevealDelay = 0
	}
	if o.InterruptHold < 0 {
		o.InterruptHold = 0
	}
	if o.MaxStep <= o.MinStep || o.MinStep < 0 {
		o.MinStep, o.MaxStep = d.MinStep, d.MaxStep
	}
	o.LabelA = normalizeLabel(o.LabelA, d.LabelA)
	o.LabelB = normalizeLabel(o.LabelB, d.LabelB)
	return o
}

func normalizeLabel(label, fallback string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		label = fallback
	}
	return cases.Upper(language.Und).String(label)
}

// Label returns the text for an outcome.
func (o Options) Label(out Outcome) string {
	switch out {
	case OutcomeA:
		return o.LabelA
	case OutcomeB:
		return o.LabelB
	default:
		return ""
	}
}
