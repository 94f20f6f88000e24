// Package ledger defines the ports every ledger backend implements.
package ledger

import (
	"context"

	"stationery/internal/core"
)

// Ports for ledger backends. Appends are atomic per record: a failed
// append leaves the store unchanged.
type (
	RequestAppender interface {
		AppendRequest(ctx context.Context, r core.RequestRecord) (ref string, err error)
	}

	UsageAppender interface {
		AppendUsage(ctx context.Context, u core.UsageRecord) (ref string, err error)
	}

	// Snapshotter returns a deep copy of both sequences in append order.
	Snapshotter interface {
		Snapshot(ctx context.Context) (core.Snapshot, error)
	}

	// Resetter clears both sequences. Resetting an already-empty ledger
	// is not an error.
	Resetter interface {
		Reset(ctx context.Context) error
	}

	Store interface {
		RequestAppender
		UsageAppender
		Snapshotter
		Resetter
	}
)
