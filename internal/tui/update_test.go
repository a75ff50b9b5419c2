//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/message"

	"github.com/ensigniasec/bio-id/internal/i18n"
	"github.com/ensigniasec/bio-id/internal/scanner"
	"github.com/ensigniasec/bio-id/internal/schedule"
)

// fakeController records gestures and mimics the phase changes they cause.
type fakeController struct {
	calls []string
	snap  scanner.Snapshot
}

func (f *fakeController) bump(phase scanner.Phase, status scanner.Status) {
	f.snap.Seq++
	f.snap.Phase = phase
	f.snap.Status = status
}

func (f *fakeController) Start() {
	f.calls = append(f.calls, "start")
	if f.snap.Phase == scanner.PhaseIdle {
		f.bump(scanner.PhaseScanning, scanner.StatusScanning)
	}
}

func (f *fakeController) Stop() {
	f.calls = append(f.calls, "stop")
	if f.snap.Phase == scanner.PhaseScanning {
		f.bump(scanner.PhaseIdle, scanner.StatusInterrupted)
	}
}

func (f *fakeController) TriggerSecret() { f.calls = append(f.calls, "secret") }

func (f *fakeController) Reset() {
	f.calls = append(f.calls, "reset")
	if f.snap.Phase == scanner.PhaseDone {
		f.bump(scanner.PhaseIdle, scanner.StatusReady)
		f.snap.Outcome = scanner.OutcomeNone
	}
}

func (f *fakeController) Snapshot() scanner.Snapshot { return f.snap }

func testPrinter(t *testing.T, locale string) *message.Printer {
	t.Helper()
	cat, err := i18n.LoadEmbedded()
	require.NoError(t, err)
	return cat.Printer(locale)
}

func newTestModel(t *testing.T, ctrl Controller) Model {
	t.Helper()
	m := NewModel(ctrl, nil, testPrinter(t, "en-US"), Zone{Width: 12, Height: 4})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyRune(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

func padCenter(m Model) (int, int) {
	r := m.padRect()
	return r.x + r.w/2, r.y + r.h/2
}

func TestUpdate_SpaceTogglesScan(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	m, _ = update(t, m, spaceKey)
	assert.Equal(t, scanner.PhaseScanning, m.Snapshot().Phase)
	m, _ = update(t, m, spaceKey)
	assert.Equal(t, scanner.PhaseIdle, m.Snapshot().Phase)
	assert.Equal(t, []string{"start", "stop"}, ctrl.calls)
}

func TestUpdate_SpaceIgnoredOnceDecided(t *testing.T) {
	ctrl := &fakeController{snap: scanner.Snapshot{Phase: scanner.PhaseRevealing}}
	m := newTestModel(t, ctrl)

	_, _ = update(t, m, spaceKey)
	assert.Empty(t, ctrl.calls)
}

func TestUpdate_MouseGestures(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)
	x, y := padCenter(m)

	m, _ = update(t, m, press(x, y))
	assert.True(t, m.pressed)
	assert.Equal(t, scanner.PhaseScanning, m.Snapshot().Phase)

	// Release outside the pad still aborts.
	m, _ = update(t, m, release(0, 39))
	assert.False(t, m.pressed)
	assert.Equal(t, []string{"start", "stop"}, ctrl.calls)

	// A release without a press is ignored.
	_, _ = update(t, m, release(x, y))
	assert.Equal(t, []string{"start", "stop"}, ctrl.calls)
}

func TestUpdate_PressOutsidePadDoesNothing(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	m, _ = update(t, m, press(99, 39))
	assert.False(t, m.pressed)
	_, _ = update(t, m, tea.MouseMsg{X: 50, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.Empty(t, ctrl.calls)
}

func TestUpdate_HiddenTriggers(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	m, _ = update(t, m, press(0, 0))
	m, _ = update(t, m, press(11, 3))
	m, _ = update(t, m, keyRune('`'))
	assert.Equal(t, []string{"secret", "secret", "secret"}, ctrl.calls)
	assert.Equal(t, scanner.PhaseIdle, m.Snapshot().Phase, "the trigger has no visible effect")
}

func TestUpdate_ResetFromResult(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}},
		{name: "r", msg: keyRune('r')},
		{name: "click", msg: press(50, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := &fakeController{snap: scanner.Snapshot{Seq: 5, Phase: scanner.PhaseDone, Outcome: scanner.OutcomeA}}
			m := newTestModel(t, ctrl)

			m, _ = update(t, m, tt.msg)
			assert.Equal(t, []string{"reset"}, ctrl.calls)
			assert.Equal(t, scanner.PhaseIdle, m.Snapshot().Phase)
		})
	}
}

func TestUpdate_StaleSnapshotsDropped(t *testing.T) {
	m := newTestModel(t, &fakeController{})

	m, cmd := update(t, m, snapshotMsg(scanner.Snapshot{Seq: 3, Phase: scanner.PhaseScanning, Progress: 30}))
	assert.Nil(t, cmd, "no bridge channel to re-listen on")
	m, _ = update(t, m, snapshotMsg(scanner.Snapshot{Seq: 2, Phase: scanner.PhaseIdle}))
	assert.Equal(t, uint64(3), m.Snapshot().Seq)
	assert.InDelta(t, 30.0, m.Snapshot().Progress, 0)
}

func TestUpdate_QuitAndHelp(t *testing.T) {
	m := newTestModel(t, &fakeController{})

	m, _ = update(t, m, keyRune('?'))
	assert.True(t, m.helpVisible)
	assert.Contains(t, m.View(), "press and hold the pad")

	m, cmd := update(t, m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "Shutting down...\n", m.View())
}

func TestView_ReflectsState(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)
	assert.Contains(t, m.View(), "PRESS AND HOLD TO SCAN")
	assert.Contains(t, m.View(), "Ready")
	assert.NotContains(t, m.View(), "%")

	m, _ = update(t, m, snapshotMsg(scanner.Snapshot{Seq: 1, Phase: scanner.PhaseScanning, Status: scanner.StatusScanning, Progress: 42}))
	view := m.View()
	assert.Contains(t, view, "READING BIOMETRICS...")
	assert.Contains(t, view, "Syncing...")
	assert.Contains(t, view, "42%")

	m, _ = update(t, m, snapshotMsg(scanner.Snapshot{Seq: 2, Phase: scanner.PhaseIdle, Status: scanner.StatusInterrupted}))
	assert.Contains(t, m.View(), "SCAN INTERRUPTED")

	m, _ = update(t, m, snapshotMsg(scanner.Snapshot{
		Seq: 3, Phase: scanner.PhaseDone, Status: scanner.StatusResult,
		Outcome: scanner.OutcomeB, Label: "ACCESS GRANTED",
	}))
	view = m.View()
	assert.Contains(t, view, "ACCESS GRANTED!!!")
	assert.Contains(t, view, "Reset System")
}

func TestView_LocalisedCopy(t *testing.T) {
	m := NewModel(&fakeController{}, nil, testPrinter(t, "es-ES"), Zone{Width: 1, Height: 1})
	assert.Contains(t, m.View(), "MANTÉN PRESIONADO PARA ESCANEAR")
}

func TestPadRect_StaysClearOfSecretZone(t *testing.T) {
	for _, width := range []int{40, 80, 120, 200} {
		m := NewModel(&fakeController{}, nil, testPrinter(t, "en-US"), Zone{Width: 12, Height: 4})
		m.width = width
		r := m.padRect()
		assert.Positive(t, r.w)
		assert.Positive(t, r.h)
		assert.GreaterOrEqual(t, r.y, 4, "width %d", width)
	}
}

func TestModel_DrivesRealController(t *testing.T) {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	clock := schedule.NewManual(time.Unix(0, 0))
	ctrl := scanner.New(scanner.DefaultOptions(),
		scanner.WithScheduler(clock),
		scanner.WithSteps(scanner.FixedSteps(25)),
		scanner.WithLogger(logrus.NewEntry(quiet)),
	)
	defer ctrl.Close()

	snapCh := make(chan scanner.Snapshot, channelBufferSize)
	done := make(chan struct{})
	defer close(done)
	ctrl.Subscribe(bridge(snapCh, done))

	m := NewModel(ctrl, snapCh, testPrinter(t, "en-US"), Zone{Width: 12, Height: 4})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = update(t, m, press(0, 0))
	x, y := padCenter(m)
	m, _ = update(t, m, press(x, y))
	clock.Advance(4*scanner.DefaultTickInterval + scanner.DefaultRevealDelay)
	m, _ = update(t, m, release(x, y))

	// Drain the bridge the way the program would.
	for len(snapCh) > 0 {
		m, _ = update(t, m, snapshotMsg(<-snapCh))
	}
	snap := m.Snapshot()
	require.Equal(t, scanner.PhaseDone, snap.Phase)
	assert.Equal(t, scanner.OutcomeB, snap.Outcome)
	assert.Contains(t, m.View(), scanner.DefaultLabelB+"!!!")

	m, _ = update(t, m, keyRune('r'))
	assert.Equal(t, scanner.PhaseIdle, m.Snapshot().Phase)
	assert.False(t, ctrl.Secret())
}

func windowSize(w, h int) tea.WindowSizeMsg { return tea.WindowSizeMsg{Width: w, Height: h} }
