package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/attestation"
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/ledger"
	"github.com/withobsrvr/attestor/types"
)

type testValue struct{ s string }

func (v testValue) CanonicalBytes() ([]byte, error) {
	w := attestation.NewWriter()
	w.WriteString(v.s)
	return w.Bytes(), nil
}

func mustTS(t *testing.T) types.UTCDateTime {
	t.Helper()
	dt, err := types.ParseUTCDateTime("2025-01-01T00:00:00Z")
	require.NoError(t, err)
	return dt
}

func TestAttestationStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewAttestationStore[testValue]()
	conf, err := attestation.NewFirmConfidence("unit-test", mustTS(t), "")
	require.NoError(t, err)
	a, err := attestation.CreateAttestation[testValue](testValue{"x"}, conf, "unit-test", mustTS(t), nil)
	require.NoError(t, err)

	require.NoError(t, store.Store(ctx, a))
	got, ok, err := store.Retrieve(ctx, a.AttestationIDHex())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, a.AttestationIDHex(), got.AttestationIDHex())

	_, ok, err = store.Retrieve(ctx, "deadbeef")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttestationStoreIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewAttestationStore[testValue]()
	conf, err := attestation.NewFirmConfidence("unit-test", mustTS(t), "")
	require.NoError(t, err)
	a, err := attestation.CreateAttestation[testValue](testValue{"x"}, conf, "unit-test", mustTS(t), nil)
	require.NoError(t, err)

	require.NoError(t, store.Store(ctx, a))
	require.NoError(t, store.Store(ctx, a))
	got, ok, err := store.Retrieve(ctx, a.AttestationIDHex())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, a.AttestationIDHex(), got.AttestationIDHex())
}

func TestTransactionLogAppendsInOrder(t *testing.T) {
	ctx := context.Background()
	log := NewTransactionLog()

	acc1, err := ledger.NewAccount("acc-1", ledger.AccountCash)
	require.NoError(t, err)
	acc2, err := ledger.NewAccount("acc-2", ledger.AccountCash)
	require.NoError(t, err)
	_ = acc1
	_ = acc2

	move, err := ledger.NewMove("acc-1", "acc-2", "USD", decimal.MustParse("10"), "")
	require.NoError(t, err)
	tx1, err := ledger.NewTransaction("tx-1", []ledger.Move{move}, mustTS(t), nil)
	require.NoError(t, err)
	tx2, err := ledger.NewTransaction("tx-2", []ledger.Move{move}, mustTS(t), nil)
	require.NoError(t, err)

	require.NoError(t, log.Append(ctx, tx1))
	require.NoError(t, log.Append(ctx, tx2))

	txs, err := log.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx-1", txs[0].TxID.String())
	assert.Equal(t, "tx-2", txs[1].TxID.String())
}

func TestEventBusReplaysHistoryToLateSubscriber(t *testing.T) {
	bus := NewEventBus()
	parentCtx := context.Background()

	require.NoError(t, bus.Publish(parentCtx, "event-1"))

	subCtx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	ch, err := bus.Subscribe(subCtx)
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, "event-1", got)
	case <-time.After(time.Second):
		t.Fatal("expected replayed event")
	}

	require.NoError(t, bus.Publish(parentCtx, "event-2"))
	select {
	case got := <-ch:
		assert.Equal(t, "event-2", got)
	case <-time.After(time.Second):
		t.Fatal("expected live event")
	}
}

func TestStateStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStateStore()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v"))
	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
