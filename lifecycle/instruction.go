package lifecycle

import (
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/types"
)

// PrimitiveInstruction is the sum type of lifecycle events a caller
// pattern-matches on (via a type switch) before invoking the matching
// ledger builder from ledger/builders. Each variant
// carries exactly the data its builder needs — no more.
type PrimitiveInstruction interface {
	isPrimitiveInstruction()
}

// ExecuteTrade is the initial settlement of a cash instrument (equity
// T+2, FX spot) moving consideration against the underlying.
type ExecuteTrade struct {
	TxID          string
	CashAccount   string
	AssetAccount  string
	Unit          string
	Quantity      types.PositiveDecimal
	Consideration types.Money
}

func (ExecuteTrade) isPrimitiveInstruction() {}

// TransferPosition moves a position between two accounts without a
// change of economic ownership basis (e.g. custody reallocation).
type TransferPosition struct {
	TxID   string
	From   string
	To     string
	Unit   string
	Amount types.PositiveDecimal
}

func (TransferPosition) isPrimitiveInstruction() {}

// PayDividend distributes a per-holder cash amount.
type PayDividend struct {
	TxID        string
	SourceCash  string
	Holders     []string
	AmountEach  []types.Money
}

func (PayDividend) isPrimitiveInstruction() {}

// ExerciseOption carries the data for a physical or cash-settled option
// exercise; the caller chooses between the OptionPhysicalExercise and
// OptionCashSettlement builders in ledger/builders.
type ExerciseOption struct {
	TxID            string
	CashAccount     string
	UnderlyingAcct  string
	OptionAccount   string
	Spot            *decimal.Decimal
	Strike          *decimal.Decimal
	Multiplier      *decimal.Decimal
	Quantity        types.PositiveDecimal
	IsCall          bool
	Currency        string
}

func (ExerciseOption) isPrimitiveInstruction() {}

// AssignOption is the counterparty-side mirror of ExerciseOption, carried
// as a distinct variant because it is driven by a different upstream
// event (an exercise notice received, not sent).
type AssignOption struct {
	TxID           string
	CashAccount    string
	UnderlyingAcct string
	OptionAccount  string
	Spot           *decimal.Decimal
	Strike         *decimal.Decimal
	Multiplier     *decimal.Decimal
	Quantity       types.PositiveDecimal
	IsCall         bool
	Currency       string
}

func (AssignOption) isPrimitiveInstruction() {}

// ExpireDerivative closes a futures or option position with no further
// cash movement (OTM expiry).
type ExpireDerivative struct {
	TxID              string
	PositionAccount   string
	ExpiryBucket      string
	Unit              string
	Quantity          types.PositiveDecimal
}

func (ExpireDerivative) isPrimitiveInstruction() {}

// MarkVariationMargin carries a daily futures mark-to-market flow.
type MarkVariationMargin struct {
	TxID             string
	LongMarginAcct   string
	ShortMarginAcct  string
	Settle           *decimal.Decimal
	PrevSettle       *decimal.Decimal
	ContractSize     *decimal.Decimal
	Quantity         types.PositiveDecimal
	Currency         string
}

func (MarkVariationMargin) isPrimitiveInstruction() {}

// ApplyRateFixing fills in a floating-leg cashflow once its index fixes.
type ApplyRateFixing struct {
	TxID          string
	PayerAccount  string
	ReceiverAccount string
	Notional      *decimal.Decimal
	FixedRate     *decimal.Decimal
	DayCountFrac  *decimal.Decimal
	Currency      string
}

func (ApplyRateFixing) isPrimitiveInstruction() {}

// NetCashflows nets multiple same-currency cashflows into a single move,
// used where a bilateral agreement nets IRS or CDS legs before payment.
type NetCashflows struct {
	TxID      string
	PayerAccount string
	ReceiverAccount string
	NetAmount types.Money
}

func (NetCashflows) isPrimitiveInstruction() {}

// MatureInstrument closes a position at its natural maturity (IRS final
// exchange, NDF fixing-based cash settlement).
type MatureInstrument struct {
	TxID            string
	PositionAccount string
	CashAccount     string
	Unit            string
	SettlementAmount *types.Money // nil when maturity involves no cash flow
}

func (MatureInstrument) isPrimitiveInstruction() {}

// CreditEvent triggers a CDS protection payment.
type CreditEvent struct {
	TxID            string
	ProtectionBuyer string
	ProtectionSeller string
	CDSAccount      string
	Notional        *decimal.Decimal
	AuctionPrice    *decimal.Decimal
	Currency        string
	AccruedPremium  *types.Money // nil when none is owed
}

func (CreditEvent) isPrimitiveInstruction() {}

// SwaptionSettlementStyle distinguishes physical delivery from cash
// settlement at swaption exercise.
type SwaptionSettlementStyle int

const (
	SwaptionPhysical SwaptionSettlementStyle = iota
	SwaptionCash
)

// ExerciseSwaption covers both settlement sub-variants; Style tells the
// caller whether to use the SwaptionPhysicalClose or
// SwaptionCashSettlement builder.
type ExerciseSwaption struct {
	TxID             string
	SwaptionAccount  string
	CashAccount      string
	SettlementAmount *types.Money // required when Style == SwaptionCash
	Style            SwaptionSettlementStyle
}

func (ExerciseSwaption) isPrimitiveInstruction() {}

// CollateralCall requests posting of additional collateral.
type CollateralCall struct {
	TxID          string
	PosterAccount string
	HolderAccount string
	Unit          string
	Amount        types.PositiveDecimal
}

func (CollateralCall) isPrimitiveInstruction() {}

// CollateralReturn returns previously posted collateral.
type CollateralReturn struct {
	TxID          string
	HolderAccount string
	PosterAccount string
	Unit          string
	Amount        types.PositiveDecimal
}

func (CollateralReturn) isPrimitiveInstruction() {}

// CollateralSubstitution swaps one posted collateral unit for another of
// equal value, in a single two-move transaction.
type CollateralSubstitution struct {
	TxID          string
	PosterAccount string
	HolderAccount string
	OutUnit       string
	OutAmount     types.PositiveDecimal
	InUnit        string
	InAmount      types.PositiveDecimal
}

func (CollateralSubstitution) isPrimitiveInstruction() {}

// PayPremium carries an option or swaption premium cash flow against the
// position account that records the instrument leg.
type PayPremium struct {
	TxID          string
	CashAccount   string
	PositionAccount string
	Premium       types.Money
}

func (PayPremium) isPrimitiveInstruction() {}

// OpenFuturesPosition books the notional futures position with no cash
// movement — margin flows are carried separately by MarkVariationMargin.
type OpenFuturesPosition struct {
	TxID            string
	LongAccount     string
	ShortAccount    string
	Unit            string
	Quantity        types.PositiveDecimal
}

func (OpenFuturesPosition) isPrimitiveInstruction() {}

// PayCDSPremium carries one periodic CDS premium leg cashflow.
type PayCDSPremium struct {
	TxID           string
	ProtectionBuyer string
	ProtectionSeller string
	Amount         types.Money
}

func (PayCDSPremium) isPrimitiveInstruction() {}

// BusinessEvent wraps a PrimitiveInstruction with the timestamp it
// occurred at and an optional upstream attestation id it was derived
// from (e.g. the attestation backing the settlement price used to
// compute the instruction's amounts).
type BusinessEvent struct {
	Instruction   PrimitiveInstruction
	Timestamp     types.UTCDateTime
	AttestationID string // empty when the event has no attested input
}
