package ledger

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/metrics"
	"github.com/withobsrvr/attestor/types"
)

func mustTS(t *testing.T) types.UTCDateTime {
	t.Helper()
	dt, err := types.ParseUTCDateTime("2025-06-15T10:00:00Z")
	require.NoError(t, err)
	return dt
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := decimal.NewContext(28)
	e := NewEngine(ctx)
	cash, err := NewAccount("cash-house", AccountCash)
	require.NoError(t, err)
	sec, err := NewAccount("sec-house", AccountSecurities)
	require.NoError(t, err)
	require.NoError(t, e.RegisterAccount(cash))
	require.NoError(t, e.RegisterAccount(sec))
	return e
}

func TestExecuteMovesConserveTotalSupply(t *testing.T) {
	e := newTestEngine(t)
	m, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx, err := NewTransaction("tx-1", []Move{m}, mustTS(t), nil)
	require.NoError(t, err)

	outcome, err := e.Execute(tx)
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)

	total, err := e.TotalSupply("USD")
	require.NoError(t, err)
	assert.True(t, decimal.IsZero(total))

	assert.Equal(t, 0, decimal.Cmp(e.GetBalance("cash-house", "USD"), decimal.MustParse("100")))
	assert.Equal(t, 0, decimal.Cmp(e.GetBalance("sec-house", "USD"), decimal.MustParse("-100")))
}

func TestExecuteIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	m, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx, err := NewTransaction("tx-1", []Move{m}, mustTS(t), nil)
	require.NoError(t, err)

	_, err = e.Execute(tx)
	require.NoError(t, err)
	outcome, err := e.Execute(tx)
	require.NoError(t, err)
	assert.Equal(t, AlreadyApplied, outcome)
	assert.Equal(t, 1, e.TransactionCount())
	assert.Equal(t, 0, decimal.Cmp(e.GetBalance("cash-house", "USD"), decimal.MustParse("100")))
}

func TestExecuteRejectsUnregisteredAccount(t *testing.T) {
	e := newTestEngine(t)
	m, err := NewMove("sec-house", "ghost-account", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx, err := NewTransaction("tx-1", []Move{m}, mustTS(t), nil)
	require.NoError(t, err)

	_, err = e.Execute(tx)
	require.Error(t, err)
	assert.Equal(t, 0, e.TransactionCount())
	assert.True(t, decimal.IsZero(e.GetBalance("sec-house", "USD")))
}

func TestMoveRejectsSameSourceAndDestination(t *testing.T) {
	_, err := NewMove("acct-1", "acct-1", "USD", decimal.MustParse("10"), "")
	assert.Error(t, err)
}

func TestPositionsSortedAndExcludesZero(t *testing.T) {
	e := newTestEngine(t)
	m1, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx1, err := NewTransaction("tx-1", []Move{m1}, mustTS(t), nil)
	require.NoError(t, err)
	_, err = e.Execute(tx1)
	require.NoError(t, err)

	positions := e.Positions()
	require.Len(t, positions, 2)
	assert.Equal(t, "cash-house", positions[0].Account)
	assert.Equal(t, "sec-house", positions[1].Account)
}

func TestCloneIsIndependent(t *testing.T) {
	e := newTestEngine(t)
	m, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx, err := NewTransaction("tx-1", []Move{m}, mustTS(t), nil)
	require.NoError(t, err)
	_, err = e.Execute(tx)
	require.NoError(t, err)

	clone := e.Clone()
	m2, err := NewMove("cash-house", "sec-house", "USD", decimal.MustParse("50"), "")
	require.NoError(t, err)
	tx2, err := NewTransaction("tx-2", []Move{m2}, mustTS(t), nil)
	require.NoError(t, err)
	_, err = clone.Execute(tx2)
	require.NoError(t, err)

	assert.Equal(t, 0, decimal.Cmp(e.GetBalance("cash-house", "USD"), decimal.MustParse("100")))
	assert.Equal(t, 0, decimal.Cmp(clone.GetBalance("cash-house", "USD"), decimal.MustParse("50")))
}

type fakeTransactionSource struct{ txs []Transaction }

func (s fakeTransactionSource) Transactions(_ context.Context) ([]Transaction, error) {
	return s.txs, nil
}

func TestReplayRebuildsEngineFromTransactionSource(t *testing.T) {
	ctx := decimal.NewContext(28)
	cash, err := NewAccount("cash-house", AccountCash)
	require.NoError(t, err)
	sec, err := NewAccount("sec-house", AccountSecurities)
	require.NoError(t, err)

	m1, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx1, err := NewTransaction("tx-1", []Move{m1}, mustTS(t), nil)
	require.NoError(t, err)
	m2, err := NewMove("cash-house", "sec-house", "USD", decimal.MustParse("30"), "")
	require.NoError(t, err)
	tx2, err := NewTransaction("tx-2", []Move{m2}, mustTS(t), nil)
	require.NoError(t, err)

	source := fakeTransactionSource{txs: []Transaction{tx1, tx2}}
	replayed, err := Replay(context.Background(), ctx, source, []Account{cash, sec}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, replayed.TransactionCount())
	assert.Equal(t, 0, decimal.Cmp(replayed.GetBalance("cash-house", "USD"), decimal.MustParse("70")))
	assert.Equal(t, 0, decimal.Cmp(replayed.GetBalance("sec-house", "USD"), decimal.MustParse("-70")))
}

func TestReplayStopsBeforeCutoff(t *testing.T) {
	ctx := decimal.NewContext(28)
	cash, err := NewAccount("cash-house", AccountCash)
	require.NoError(t, err)
	sec, err := NewAccount("sec-house", AccountSecurities)
	require.NoError(t, err)

	early := mustTS(t)
	late, err := types.ParseUTCDateTime("2025-06-16T10:00:00Z")
	require.NoError(t, err)

	m1, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx1, err := NewTransaction("tx-1", []Move{m1}, early, nil)
	require.NoError(t, err)
	m2, err := NewMove("cash-house", "sec-house", "USD", decimal.MustParse("30"), "")
	require.NoError(t, err)
	tx2, err := NewTransaction("tx-2", []Move{m2}, late, nil)
	require.NoError(t, err)

	source := fakeTransactionSource{txs: []Transaction{tx1, tx2}}
	cutoff := early.Time()
	replayed, err := Replay(context.Background(), ctx, source, []Account{cash, sec}, &cutoff)
	require.NoError(t, err)

	assert.Equal(t, 1, replayed.TransactionCount())
	assert.Equal(t, 0, decimal.Cmp(replayed.GetBalance("cash-house", "USD"), decimal.MustParse("100")))
}

func findCounterValue(t *testing.T, reg *prometheus.Registry, metricName string, wantLabels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != metricName {
			continue
		}
		for _, m := range fam.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			match := true
			for k, v := range wantLabels {
				if labels[k] != v {
					match = false
					break
				}
			}
			if match {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestExecuteRecordsMetricsWhenRecorderAttached(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	e := newTestEngine(t)
	e.SetRecorder(recorder)

	m, err := NewMove("sec-house", "cash-house", "USD", decimal.MustParse("100"), "")
	require.NoError(t, err)
	tx, err := NewTransaction("tx-1", []Move{m}, mustTS(t), nil)
	require.NoError(t, err)

	_, err = e.Execute(tx)
	require.NoError(t, err)
	_, err = e.Execute(tx)
	require.NoError(t, err)

	assert.Equal(t, float64(1), findCounterValue(t, reg, "attestor_ledger_execute_total", map[string]string{"outcome": "applied"}))
	assert.Equal(t, float64(1), findCounterValue(t, reg, "attestor_ledger_execute_total", map[string]string{"outcome": "already_applied"}))
}

func TestDistinctOptionSeriesAreIndependentUnits(t *testing.T) {
	e := newTestEngine(t)
	der, err := NewAccount("derivatives-house", AccountDerivatives)
	require.NoError(t, err)
	require.NoError(t, e.RegisterAccount(der))

	// each option series carries its own unit identity; ContractID is
	// carried through only as a pass-through reference, not a balance key.
	m1, err := NewMove("derivatives-house", "cash-house", "OPT:SERIES-A", decimal.MustParse("10"), "SERIES-A")
	require.NoError(t, err)
	m2, err := NewMove("derivatives-house", "cash-house", "OPT:SERIES-B", decimal.MustParse("5"), "SERIES-B")
	require.NoError(t, err)
	tx, err := NewTransaction("tx-1", []Move{m1, m2}, mustTS(t), nil)
	require.NoError(t, err)
	_, err = e.Execute(tx)
	require.NoError(t, err)

	totalA, err := e.TotalSupply("OPT:SERIES-A")
	require.NoError(t, err)
	assert.True(t, decimal.IsZero(totalA))
	totalB, err := e.TotalSupply("OPT:SERIES-B")
	require.NoError(t, err)
	assert.True(t, decimal.IsZero(totalB))
}
