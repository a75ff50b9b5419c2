package tui

import "github.com/ensigniasec/bio-id/internal/scanner"

// Message types for Bubble Tea update loop.

// snapshotMsg carries a controller state change from the bridge channel.
type snapshotMsg scanner.Snapshot

// bridgeClosedMsg reports that no more snapshots will arrive.
type bridgeClosedMsg struct{}
