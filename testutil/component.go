package testutil

import (
	"context"

	"github.com/kdg/connector/component"
)

// TestComponent extends component.Component with state control for tests.
type TestComponent interface {
	component.Component

	// Reset restores the component to its initial state between test cases.
	Reset(ctx context.Context) error

	// Snapshot captures the current state for a later Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore returns the component to a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
