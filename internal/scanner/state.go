package scanner

// State is the scanner session state. Exactly one of Idle, Scanning,
// Revealing or Done is held at a time, so an outcome can only exist on Done.
type State interface {
	Phase() Phase
}

// Phase names the active State variant.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseRevealing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseScanning:
		return "scanning"
	case PhaseRevealing:
		return "revealing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Idle waits for a press. Interrupted is set between a released scan and
// the status revert.
type Idle struct {
	Interrupted bool
}

// Scanning is an active press with the tick armed.
type Scanning struct {
	Progress float64
	Ticks    int
}

// Revealing holds the analysis delay after progress reached 100.
type Revealing struct {
	Ticks int
}

// Done carries the fixed outcome until Reset.
type Done struct {
	Outcome Outcome
	Ticks   int
}

func (Idle) Phase() Phase      { return PhaseIdle }
func (Scanning) Phase() Phase  { return PhaseScanning }
func (Revealing) Phase() Phase { return PhaseRevealing }
func (Done) Phase() Phase      { return PhaseDone }

// Outcome is the label revealed after a completed scan.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeA
	OutcomeB
)

func (o Outcome) String() string {
	switch o {
	case OutcomeA:
		return "A"
	case OutcomeB:
		return "B"
	default:
		return "none"
	}
}

// Status is the display message key derived from the last transition.
type Status int

const (
	StatusReady Status = iota
	StatusScanning
	StatusInterrupted
	StatusAnalyzing
	StatusResult
)

// Key returns the catalog key used to localise the status line.
func (s Status) Key() string {
	switch s {
	case StatusScanning:
		return "status.scanning"
	case StatusInterrupted:
		return "status.interrupted"
	case StatusAnalyzing:
		return "status.analyzing"
	case StatusResult:
		return "status.result"
	default:
		return "status.ready"
	}
}

// Snapshot is the read-only view handed to renderers.
type Snapshot struct {
	// Seq increases with every published change; renderers drop older ones.
	Seq      uint64
	Session  string
	Phase    Phase
	Progress float64
	Outcome  Outcome
	Label    string
	Status   Status
	Ticks    int
}

// HasOutcome reports whether a result is on display.
func (s Snapshot) HasOutcome() bool { return s.Outcome != OutcomeNone }
