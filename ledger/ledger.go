// Package ledger implements the conservation-enforcing double-entry
// engine: accounts, moves, transactions, positions, and the Engine that
// executes transactions atomically while enforcing conservation, chart-
// of-accounts membership, atomicity, and idempotency.
package ledger

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/logging"
	"github.com/withobsrvr/attestor/metrics"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

// AccountType enumerates the kinds of accounts the engine can hold
// balances for.
type AccountType int

const (
	AccountCash AccountType = iota
	AccountSecurities
	AccountDerivatives
	AccountCollateral
	AccountMargin
	AccountAccruals
	AccountPNL
)

func (t AccountType) String() string {
	switch t {
	case AccountCash:
		return "CASH"
	case AccountSecurities:
		return "SECURITIES"
	case AccountDerivatives:
		return "DERIVATIVES"
	case AccountCollateral:
		return "COLLATERAL"
	case AccountMargin:
		return "MARGIN"
	case AccountAccruals:
		return "ACCRUALS"
	case AccountPNL:
		return "PNL"
	default:
		return "UNKNOWN"
	}
}

// Account is a registered ledger participant.
type Account struct {
	ID   types.NonEmptyStr
	Type AccountType
}

func NewAccount(id string, accountType AccountType) (Account, error) {
	nid, err := types.NewNonEmptyStr(id)
	if err != nil {
		return Account{}, result.NewValidationError(result.FieldViolation{
			Path: "id", Constraint: "must be non-empty", Actual: id,
		})
	}
	return Account{ID: nid, Type: accountType}, nil
}

// Move is a single directed transfer of quantity units of unit from
// source to destination. ContractID is an optional pass-through
// reference to a specific contract record (e.g. an option series or
// swap id) — it plays no part in conservation accounting, which is keyed
// purely on unit: a unit name that needs to be tracked per contract
// should already encode the contract in its own identity.
type Move struct {
	Source      types.NonEmptyStr
	Destination types.NonEmptyStr
	Unit        types.NonEmptyStr
	Quantity    types.PositiveDecimal
	ContractID  string // empty when the unit is not contract-scoped
}

// NewMove validates source != destination and the other field invariants.
func NewMove(source, destination, unit string, quantity *decimal.Decimal, contractID string) (Move, error) {
	ve := result.NewValidationError()
	src, err := types.NewNonEmptyStr(source)
	if err != nil {
		ve.Field("source", "must be non-empty", source)
	}
	dst, err2 := types.NewNonEmptyStr(destination)
	if err2 != nil {
		ve.Field("destination", "must be non-empty", destination)
	}
	if err == nil && err2 == nil && source == destination {
		ve.Field("destination", "must differ from source", destination)
	}
	u, err := types.NewNonEmptyStr(unit)
	if err != nil {
		ve.Field("unit", "must be non-empty", unit)
	}
	qty, err := types.NewPositiveDecimal(quantity)
	if err != nil {
		ve.Field("quantity", "must be positive", decimal.String(quantity))
	}
	if ve.HasViolations() {
		return Move{}, ve
	}
	return Move{Source: src, Destination: dst, Unit: u, Quantity: qty, ContractID: contractID}, nil
}


// Transaction is an atomic batch of moves applied together or not at all.
type Transaction struct {
	TxID       types.NonEmptyStr
	Moves      []Move
	Timestamp  types.UTCDateTime
	StateDelta map[string]string
}

// NewTransaction validates a non-empty move sequence.
func NewTransaction(txID string, moves []Move, ts types.UTCDateTime, stateDelta map[string]string) (Transaction, error) {
	id, err := types.NewNonEmptyStr(txID)
	if err != nil {
		return Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "tx_id", Constraint: "must be non-empty", Actual: txID,
		})
	}
	if len(moves) == 0 {
		return Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "moves", Constraint: "must be non-empty", Actual: "[]",
		})
	}
	return Transaction{TxID: id, Moves: append([]Move(nil), moves...), Timestamp: ts, StateDelta: stateDelta}, nil
}

// Position is a derived, possibly-negative view of one account's balance
// in one unit.
type Position struct {
	Account  string
	Unit     string
	Quantity *decimal.Decimal
}

// ExecuteOutcome distinguishes a freshly-applied transaction from a
// repeat of one already applied (INV-X03).
type ExecuteOutcome int

const (
	Applied ExecuteOutcome = iota
	AlreadyApplied
)

// balanceKey identifies one (account, unit) balance bucket.
type balanceKey struct {
	account string
	unit    string
}

// Engine is the only component in this core with interior mutable
// state: it exclusively owns its accounts table, balance map,
// transaction log, and applied-id set (spec §3 "Ownership").
type Engine struct {
	ctx        *decimal.Context
	accounts   map[string]Account
	balances   map[balanceKey]*decimal.Decimal
	txLog      []Transaction
	appliedIDs map[string]bool
	recorder   *metrics.Recorder
}

// NewEngine constructs an empty engine bound to the given decimal
// context — every balance mutation executes under it.
func NewEngine(ctx *decimal.Context) *Engine {
	return &Engine{
		ctx:        ctx,
		accounts:   make(map[string]Account),
		balances:   make(map[balanceKey]*decimal.Decimal),
		appliedIDs: make(map[string]bool),
	}
}

// SetRecorder attaches a metrics.Recorder so Execute reports its
// outcomes as Prometheus counters. Passing nil disables metrics again;
// an Engine with no recorder attached behaves exactly as before.
func (e *Engine) SetRecorder(r *metrics.Recorder) {
	e.recorder = r
}

// RegisterAccount adds account to the chart of accounts. Fails if the id
// is already present.
func (e *Engine) RegisterAccount(account Account) error {
	id := account.ID.String()
	if _, exists := e.accounts[id]; exists {
		return result.NewValidationError(result.FieldViolation{
			Path: "id", Constraint: "must not already be registered", Actual: id,
		})
	}
	e.accounts[id] = account
	return nil
}

func (e *Engine) balance(account, unitKey string) *decimal.Decimal {
	if b, ok := e.balances[balanceKey{account, unitKey}]; ok {
		return b
	}
	return decimal.Zero()
}

// GetBalance returns the current balance of account in unit, defaulting
// to zero for unknown (account, unit) pairs.
func (e *Engine) GetBalance(account, unit string) *decimal.Decimal {
	return e.balance(account, unit)
}

// GetPosition wraps GetBalance as a Position value.
func (e *Engine) GetPosition(account, unit string) Position {
	return Position{Account: account, Unit: unit, Quantity: e.GetBalance(account, unit)}
}

// Positions returns every (account, unit, qty) tuple with nonzero qty,
// sorted by (account, unit).
func (e *Engine) Positions() []Position {
	out := make([]Position, 0, len(e.balances))
	for k, v := range e.balances {
		if decimal.IsZero(v) {
			continue
		}
		out = append(out, Position{Account: k.account, Unit: k.unit, Quantity: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// TotalSupply sums balances across all accounts for unit.
func (e *Engine) TotalSupply(unit string) (*decimal.Decimal, error) {
	total := decimal.Zero()
	var err error
	for k, v := range e.balances {
		if k.unit != unit {
			continue
		}
		total, err = e.ctx.Add(total, v)
		if err != nil {
			return nil, err
		}
	}
	return total, nil
}

// TransactionCount returns the length of the transaction log.
func (e *Engine) TransactionCount() int { return len(e.txLog) }

// Execute runs the seven-step algorithm from spec §4.3: idempotency
// check, chart-of-accounts verification, conservation snapshot, balance
// mutation, conservation verification (defense-in-depth), log append,
// applied-id insertion.
func (e *Engine) Execute(tx Transaction) (ExecuteOutcome, error) {
	txID := tx.TxID.String()
	if e.appliedIDs[txID] {
		logging.L().Debug("execute: already applied", zap.String("tx_id", txID))
		if e.recorder != nil {
			e.recorder.RecordExecuteAlreadyApplied()
		}
		return AlreadyApplied, nil
	}

	for _, m := range tx.Moves {
		if _, ok := e.accounts[m.Source.String()]; !ok {
			if e.recorder != nil {
				e.recorder.RecordExecuteRejected("unregistered_account")
			}
			return Applied, result.NewConservationViolation("INV-L06", "registered account", "UNREGISTERED_ACCOUNT:"+m.Source.String())
		}
		if _, ok := e.accounts[m.Destination.String()]; !ok {
			if e.recorder != nil {
				e.recorder.RecordExecuteRejected("unregistered_account")
			}
			return Applied, result.NewConservationViolation("INV-L06", "registered account", "UNREGISTERED_ACCOUNT:"+m.Destination.String())
		}
	}

	affectedUnits := make(map[string]bool)
	for _, m := range tx.Moves {
		affectedUnits[m.Unit.String()] = true
	}
	preSigma := make(map[string]*decimal.Decimal, len(affectedUnits))
	for u := range affectedUnits {
		s, err := e.TotalSupply(u)
		if err != nil {
			return Applied, err
		}
		preSigma[u] = s
	}

	oldBalances := make(map[balanceKey]*decimal.Decimal)
	var order []balanceKey
	recordOld := func(key balanceKey) {
		if _, seen := oldBalances[key]; seen {
			return
		}
		oldBalances[key] = e.balance(key.account, key.unit)
		order = append(order, key)
	}

	restore := func() {
		for _, key := range order {
			e.balances[key] = oldBalances[key]
		}
	}

	for _, m := range tx.Moves {
		unit := m.Unit.String()
		srcKey := balanceKey{m.Source.String(), unit}
		dstKey := balanceKey{m.Destination.String(), unit}
		recordOld(srcKey)
		recordOld(dstKey)

		srcBal := e.balance(srcKey.account, srcKey.unit)
		newSrc, err := e.ctx.Sub(srcBal, m.Quantity.Value())
		if err != nil {
			restore()
			return Applied, err
		}
		e.balances[srcKey] = newSrc

		dstBal := e.balance(dstKey.account, dstKey.unit)
		newDst, err := e.ctx.Add(dstBal, m.Quantity.Value())
		if err != nil {
			restore()
			return Applied, err
		}
		e.balances[dstKey] = newDst
	}

	for u, pre := range preSigma {
		post, err := e.TotalSupply(u)
		if err != nil {
			restore()
			return Applied, err
		}
		if decimal.Cmp(pre, post) != 0 {
			restore()
			if e.recorder != nil {
				e.recorder.RecordExecuteRejected("conservation_violation")
			}
			return Applied, result.NewConservationViolation("INV-L01", decimal.String(pre), decimal.String(post))
		}
	}

	e.txLog = append(e.txLog, tx)
	e.appliedIDs[txID] = true
	logging.L().Debug("execute: applied", zap.String("tx_id", txID), zap.Int("move_count", len(tx.Moves)))
	if e.recorder != nil {
		e.recorder.RecordExecuteApplied()
	}
	return Applied, nil
}

// Clone produces an independent engine with identical accounts,
// balances, transaction log, and applied-id set. Post-clone mutation on
// either side cannot alias the other.
func (e *Engine) Clone() *Engine {
	c := NewEngine(e.ctx)
	for k, v := range e.accounts {
		c.accounts[k] = v
	}
	for k, v := range e.balances {
		cp := new(decimal.Decimal)
		cp.Set(v)
		c.balances[k] = cp
	}
	c.txLog = append([]Transaction(nil), e.txLog...)
	for k, v := range e.appliedIDs {
		c.appliedIDs[k] = v
	}
	c.recorder = e.recorder
	logging.L().Debug("clone: engine copied", zap.Int("account_count", len(c.accounts)), zap.Int("transaction_count", len(c.txLog)))
	return c
}

// TransactionLog returns a read-only snapshot of the applied transaction
// order, the sole source of truth for replay (spec §5 "Ordering
// guarantees").
func (e *Engine) TransactionLog() []Transaction {
	return append([]Transaction(nil), e.txLog...)
}

// TransactionSource supplies the ordered transactions Replay reapplies.
// stores.TransactionLog satisfies this; it is declared narrowly here
// rather than importing stores, since ledger must not depend on the
// package that depends on it.
type TransactionSource interface {
	Transactions(ctx context.Context) ([]Transaction, error)
}

// Replay rebuilds a fresh Engine with the given accounts registered,
// then reapplies every transaction in store in order, stopping before
// any transaction timestamped after cutoff (nil means no cutoff):
// spec §5's "replay = ordered reapplication of the transaction log
// against a fresh engine."
func Replay(ctx context.Context, decCtx *decimal.Context, store TransactionSource, accounts []Account, cutoff *time.Time) (*Engine, error) {
	e := NewEngine(decCtx)
	for _, a := range accounts {
		if err := e.RegisterAccount(a); err != nil {
			return nil, err
		}
	}

	txs, err := store.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if cutoff != nil && tx.Timestamp.Time().After(*cutoff) {
			break
		}
		if _, err := e.Execute(tx); err != nil {
			return nil, err
		}
	}
	logging.L().Debug("replay: engine rebuilt", zap.Int("account_count", len(accounts)), zap.Int("transactions_applied", e.TransactionCount()))
	return e, nil
}
