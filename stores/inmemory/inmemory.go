// Package inmemory provides reference implementations of the stores/
// interfaces for tests: a mutex-guarded attestation map, an append-only
// transaction slice, a fan-out event bus over Go channels, and a
// key/value state map. None of these are durable; they exist purely so
// core logic that depends on a stores/ interface can be exercised
// without an external system.
package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/ledger"
)

// AttestationStore is an in-memory, mutex-guarded
// stores.AttestationStore[T].
type AttestationStore[T attestation.Canonical] struct {
	mu   sync.RWMutex
	data map[string]attestation.Attestation[T]
}

func NewAttestationStore[T attestation.Canonical]() *AttestationStore[T] {
	return &AttestationStore[T]{data: make(map[string]attestation.Attestation[T])}
}

func (s *AttestationStore[T]) Store(_ context.Context, a attestation.Attestation[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[a.AttestationIDHex()] = a
	return nil
}

func (s *AttestationStore[T]) Retrieve(_ context.Context, attestationID string) (attestation.Attestation[T], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.data[attestationID]
	return a, ok, nil
}

// TransactionLog is an in-memory, append-only stores.TransactionLog.
type TransactionLog struct {
	mu  sync.Mutex
	txs []ledger.Transaction
}

func NewTransactionLog() *TransactionLog { return &TransactionLog{} }

func (l *TransactionLog) Append(_ context.Context, tx ledger.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txs = append(l.txs, tx)
	return nil
}

func (l *TransactionLog) Transactions(_ context.Context) ([]ledger.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ledger.Transaction(nil), l.txs...), nil
}

// EventBus is an in-memory, mutex-guarded fan-out stores.BusinessEventBus.
// Each Subscribe call gets its own buffered channel and a replay of
// every event published before the subscription, so a late subscriber
// still observes the full history — matching the teacher's preference
// (account-balance-processor's streaming loop) for a subscriber never
// silently missing data that already arrived.
type EventBus struct {
	mu        sync.Mutex
	published []any
	subs      map[string]chan any
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[string]chan any)}
}

func (b *EventBus) Publish(_ context.Context, event any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	for _, ch := range b.subs {
		ch <- event
	}
	return nil
}

func (b *EventBus) Subscribe(ctx context.Context) (<-chan any, error) {
	b.mu.Lock()
	ch := make(chan any, len(b.published)+16)
	for _, e := range b.published {
		ch <- e
	}
	id := uuid.NewString()
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// StateStore is an in-memory, mutex-guarded stores.StateStore.
type StateStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewStateStore() *StateStore { return &StateStore{data: make(map[string]string)} }

func (s *StateStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *StateStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *StateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
