// Package stores defines the narrow, typed-result interfaces the core
// consumes for persistence and replication (spec §6): attestation
// storage, the append-only transaction log, the event bus, and
// key/value state. Production implementations (a database, a message
// queue) live outside this module; stores/inmemory provides reference
// implementations for tests. The core never assumes durability or
// transactionality beyond what these interfaces return.
package stores

import (
	"context"

	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/ledger"
)

// AttestationStore persists and retrieves content-addressed
// attestations of T by their attestation id (hex-encoded
// Attestation.AttestationID). Store must be idempotent: storing the
// same attestation id twice succeeds without creating a duplicate.
type AttestationStore[T attestation.Canonical] interface {
	Store(ctx context.Context, a attestation.Attestation[T]) error
	Retrieve(ctx context.Context, attestationID string) (attestation.Attestation[T], bool, error)
}

// TransactionLog is the append-only, ordered record of applied ledger
// transactions that ledger.Replay reapplies against a fresh Engine.
type TransactionLog interface {
	Append(ctx context.Context, tx ledger.Transaction) error
	Transactions(ctx context.Context) ([]ledger.Transaction, error)
}

// BusinessEventBus publishes and consumes lifecycle business events.
// Subscribe returns a channel of events already published and any
// published thereafter, until ctx is cancelled.
type BusinessEventBus interface {
	Publish(ctx context.Context, event any) error
	Subscribe(ctx context.Context) (<-chan any, error)
}

// StateStore is a narrow key/value store for process checkpoints and
// other small, non-ledger state (e.g. the last-good yield curve
// attestation id used by a calibration-failure fallback).
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
