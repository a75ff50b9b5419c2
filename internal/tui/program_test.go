//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgram_MouseOnlyOnAltScreen(t *testing.T) {
	tests := []struct {
		name      string
		altScreen bool
		mouse     bool
		options   int
	}{
		{name: "alt screen", altScreen: true, mouse: true, options: 3},
		{name: "inline", altScreen: false, mouse: false, options: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Printer: testPrinter(t, "en-US"), SecretZone: Zone{Width: 12, Height: 4}, AltScreen: tt.altScreen}
			m, progOpts := newProgram(context.Background(), &fakeController{}, nil, opts)
			assert.Equal(t, tt.mouse, m.mouse)
			assert.Len(t, progOpts, tt.options)
		})
	}
}

func TestInline_KeyboardOnly(t *testing.T) {
	ctrl := &fakeController{}
	opts := Options{Printer: testPrinter(t, "en-US"), SecretZone: Zone{Width: 12, Height: 4}}
	m, _ := newProgram(context.Background(), ctrl, nil, opts)
	m, _ = update(t, m, windowSize(100, 40))

	x, y := padCenter(m)
	m, _ = update(t, m, press(0, 0))
	m, _ = update(t, m, press(x, y))
	m, _ = update(t, m, release(x, y))
	assert.Empty(t, ctrl.calls, "mouse reports are ignored inline")
	assert.False(t, m.pressed)

	m, _ = update(t, m, keyRune('`'))
	m, _ = update(t, m, spaceKey)
	assert.Equal(t, []string{"secret", "start"}, ctrl.calls)

	m, _ = update(t, m, keyRune('?'))
	view := m.View()
	assert.Contains(t, view, "press space to scan")
	assert.NotContains(t, view, "press and hold the pad")
}
