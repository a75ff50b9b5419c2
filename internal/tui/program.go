package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/message"

	"github.com/ensigniasec/bio-id/internal/scanner"
)

// Options configures a TUI run.
type Options struct {
	Printer    *message.Printer
	SecretZone Zone
	AltScreen  bool
	// LogOutput receives logrus output while the TUI owns the terminal.
	// Nil discards it.
	LogOutput io.Writer
}

// Run starts the Bubble Tea TUI program, wiring controller snapshots to messages.
func Run(ctx context.Context, ctrl *scanner.Controller, opts Options) error {
	snapCh := make(chan scanner.Snapshot, channelBufferSize)
	done := make(chan struct{})
	ctrl.Subscribe(bridge(snapCh, done))

	model, progOpts := newProgram(ctx, ctrl, snapCh, opts)
	p := tea.NewProgram(model, progOpts...)

	// Silence external logs during TUI to avoid corrupting the view.
	logOut := opts.LogOutput
	if logOut == nil {
		logOut = io.Discard
	}
	prevOut := logrus.StandardLogger().Out
	logrus.SetOutput(logOut)
	defer logrus.SetOutput(prevOut)

	_, err := p.Run()
	close(done)
	ctrl.Close()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// newProgram builds the model and program options. Mouse reports carry
// absolute terminal cells, which only line up with the view when it owns the
// alternate screen, so inline runs are keyboard-only.
func newProgram(ctx context.Context, ctrl Controller, snapCh <-chan scanner.Snapshot, opts Options) (Model, []tea.ProgramOption) {
	model := NewModel(ctrl, snapCh, opts.Printer, opts.SecretZone)
	model.mouse = opts.AltScreen

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen(), tea.WithMouseCellMotion())
	}
	return model, progOpts
}

// bridge adapts controller snapshots into the channel the model listens on.
// Sends give up once done is closed so timer goroutines never block on an
// exited program.
func bridge(snapCh chan<- scanner.Snapshot, done <-chan struct{}) func(scanner.Snapshot) {
	return func(s scanner.Snapshot) {
		select {
		case snapCh <- s:
		case <-done:
		}
	}
}
