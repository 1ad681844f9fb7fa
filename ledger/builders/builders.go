// Package builders implements the per-instrument-family pure functions
// that translate lifecycle events into ledger.Transaction values whose
// moves conserve every affected unit by construction (spec §4.4).
package builders

import (
	"github.com/withobsrvr/attestor/decimal"
	"github.com/withobsrvr/attestor/ledger"
	"github.com/withobsrvr/attestor/result"
	"github.com/withobsrvr/attestor/types"
)

func move(source, destination, unit string, qty *decimal.Decimal, contractID string) (ledger.Move, error) {
	return ledger.NewMove(source, destination, unit, qty, contractID)
}

func newTx(ctx *decimal.Context, txID string, ts types.UTCDateTime, moves ...ledger.Move) (ledger.Transaction, error) {
	return ledger.NewTransaction(txID, moves, ts, nil)
}

// EquitySettlement builds the T+2 cash-vs-security exchange: one
// security move and one cash move (price*quantity).
func EquitySettlement(ctx *decimal.Context, txID string, buyerCash, sellerCash, buyerSecurities, sellerSecurities, securityUnit, cashUnit string, quantity, price *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	cashAmount, err := ctx.Mul(quantity, price)
	if err != nil {
		return ledger.Transaction{}, err
	}
	securityMove, err := move(sellerSecurities, buyerSecurities, securityUnit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	cashMove, err := move(buyerCash, sellerCash, cashUnit, cashAmount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, securityMove, cashMove)
}

// OptionPremium books price*quantity*multiplier from buyer to seller and
// opens the buyer's long option position against the seller's short.
func OptionPremium(ctx *decimal.Context, txID string, buyerCash, sellerCash, buyerOptionAcct, sellerOptionAcct, optionUnit, cashUnit string, price, quantity, multiplier *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	premium, err := ctx.Mul(price, quantity)
	if err != nil {
		return ledger.Transaction{}, err
	}
	premium, err = ctx.Mul(premium, multiplier)
	if err != nil {
		return ledger.Transaction{}, err
	}
	cashMove, err := move(buyerCash, sellerCash, cashUnit, premium, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	positionMove, err := move(sellerOptionAcct, buyerOptionAcct, optionUnit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, cashMove, positionMove)
}

// OptionPhysicalExercise settles a call (holder pays strike, receives
// underlying) or a put (holder delivers underlying, receives strike) and
// closes the option position.
func OptionPhysicalExercise(
	ctx *decimal.Context, txID string,
	buyerCashAcct, sellerCashAcct, buyerUnderlyingAcct, sellerUnderlyingAcct string,
	buyerOptionAcct, optionClosedAcct, underlyingUnit, cashUnit, optionUnit string,
	strike, quantity, multiplier *decimal.Decimal, isCall bool, ts types.UTCDateTime,
) (ledger.Transaction, error) {
	cashAmount, err := ctx.Mul(strike, quantity)
	if err != nil {
		return ledger.Transaction{}, err
	}
	cashAmount, err = ctx.Mul(cashAmount, multiplier)
	if err != nil {
		return ledger.Transaction{}, err
	}
	underlyingAmount, err := ctx.Mul(quantity, multiplier)
	if err != nil {
		return ledger.Transaction{}, err
	}

	var cashMove, underlyingMove ledger.Move
	if isCall {
		cashMove, err = move(buyerCashAcct, sellerCashAcct, cashUnit, cashAmount, "")
		if err != nil {
			return ledger.Transaction{}, err
		}
		underlyingMove, err = move(sellerUnderlyingAcct, buyerUnderlyingAcct, underlyingUnit, underlyingAmount, "")
		if err != nil {
			return ledger.Transaction{}, err
		}
	} else {
		cashMove, err = move(sellerCashAcct, buyerCashAcct, cashUnit, cashAmount, "")
		if err != nil {
			return ledger.Transaction{}, err
		}
		underlyingMove, err = move(buyerUnderlyingAcct, sellerUnderlyingAcct, underlyingUnit, underlyingAmount, "")
		if err != nil {
			return ledger.Transaction{}, err
		}
	}
	closeMove, err := move(buyerOptionAcct, optionClosedAcct, optionUnit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, cashMove, underlyingMove, closeMove)
}

// OptionCashSettlement pays intrinsic value and closes the position,
// rejecting an out-of-the-money exercise (negative intrinsic).
func OptionCashSettlement(
	ctx *decimal.Context, txID string,
	payerCashAcct, receiverCashAcct, buyerOptionAcct, optionClosedAcct, cashUnit, optionUnit string,
	spot, strike, quantity, multiplier *decimal.Decimal, isCall bool, ts types.UTCDateTime,
) (ledger.Transaction, error) {
	var diff *decimal.Decimal
	var err error
	if isCall {
		diff, err = ctx.Sub(spot, strike)
	} else {
		diff, err = ctx.Sub(strike, spot)
	}
	if err != nil {
		return ledger.Transaction{}, err
	}
	if decimal.Sign(diff) < 0 {
		return ledger.Transaction{}, result.NewPricingError("option exercise is out of the money: negative intrinsic value")
	}
	intrinsic, err := ctx.Mul(diff, quantity)
	if err != nil {
		return ledger.Transaction{}, err
	}
	intrinsic, err = ctx.Mul(intrinsic, multiplier)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if decimal.IsZero(intrinsic) {
		return ledger.Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "intrinsic_value", Constraint: "must be nonzero to settle", Actual: "0",
		})
	}
	cashMove, err := move(payerCashAcct, receiverCashAcct, cashUnit, intrinsic, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	closeMove, err := move(buyerOptionAcct, optionClosedAcct, optionUnit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, cashMove, closeMove)
}

// FuturesOpen books the notional futures position with no cash movement.
func FuturesOpen(ctx *decimal.Context, txID, longAcct, shortAcct, unit string, quantity *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(shortAcct, longAcct, unit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// VariationMargin moves (settle-prevSettle)*contractSize*quantity
// between margin accounts; a positive delta flows short -> long. Rejects
// a zero flow.
func VariationMargin(ctx *decimal.Context, txID, longMarginAcct, shortMarginAcct, currency string, settle, prevSettle, contractSize, quantity *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	delta, err := ctx.Sub(settle, prevSettle)
	if err != nil {
		return ledger.Transaction{}, err
	}
	delta, err = ctx.Mul(delta, contractSize)
	if err != nil {
		return ledger.Transaction{}, err
	}
	delta, err = ctx.Mul(delta, quantity)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if decimal.IsZero(delta) {
		return ledger.Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "variation_margin", Constraint: "must be nonzero", Actual: "0",
		})
	}
	amount, err := ctx.Abs(delta)
	if err != nil {
		return ledger.Transaction{}, err
	}
	var m ledger.Move
	if decimal.Sign(delta) > 0 {
		m, err = move(shortMarginAcct, longMarginAcct, currency, amount, "")
	} else {
		m, err = move(longMarginAcct, shortMarginAcct, currency, amount, "")
	}
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// FuturesExpiry closes the futures position and, when the final mark
// differs from the previous settle, books the residual variation margin
// in the same transaction.
func FuturesExpiry(
	ctx *decimal.Context, txID string,
	longMarginAcct, shortMarginAcct, longPositionAcct, shortPositionAcct, currency, unit string,
	finalSettle, prevSettle, contractSize, quantity *decimal.Decimal, ts types.UTCDateTime,
) (ledger.Transaction, error) {
	moves := make([]ledger.Move, 0, 2)

	delta, err := ctx.Sub(finalSettle, prevSettle)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if !decimal.IsZero(delta) {
		flow, err := ctx.Mul(delta, contractSize)
		if err != nil {
			return ledger.Transaction{}, err
		}
		flow, err = ctx.Mul(flow, quantity)
		if err != nil {
			return ledger.Transaction{}, err
		}
		amount, err := ctx.Abs(flow)
		if err != nil {
			return ledger.Transaction{}, err
		}
		var m ledger.Move
		if decimal.Sign(flow) > 0 {
			m, err = move(shortMarginAcct, longMarginAcct, currency, amount, "")
		} else {
			m, err = move(longMarginAcct, shortMarginAcct, currency, amount, "")
		}
		if err != nil {
			return ledger.Transaction{}, err
		}
		moves = append(moves, m)
	}

	positionMove, err := move(longPositionAcct, shortPositionAcct, unit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	moves = append(moves, positionMove)

	return ledger.NewTransaction(txID, moves, ts, nil)
}

// Dividend distributes a per-holder cash amount from a single source.
func Dividend(ctx *decimal.Context, txID, sourceCashAcct string, holders []string, amounts []types.Money, ts types.UTCDateTime) (ledger.Transaction, error) {
	if len(holders) != len(amounts) {
		return ledger.Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "holders", Constraint: "must have one amount per holder", Actual: "length mismatch",
		})
	}
	moves := make([]ledger.Move, 0, len(holders))
	for i, h := range holders {
		m, err := move(sourceCashAcct, h, amounts[i].Currency.String(), amounts[i].Amount, "")
		if err != nil {
			return ledger.Transaction{}, err
		}
		moves = append(moves, m)
	}
	return ledger.NewTransaction(txID, moves, ts, nil)
}

// FXSpotSettlement exchanges base notional for quote notional at
// spotRate.
func FXSpotSettlement(
	ctx *decimal.Context, txID string,
	baseBuyerAcct, baseSellerAcct, quoteBuyerAcct, quoteSellerAcct, baseCcy, quoteCcy string,
	baseNotional, spotRate *decimal.Decimal, ts types.UTCDateTime,
) (ledger.Transaction, error) {
	quoteAmount, err := ctx.Mul(baseNotional, spotRate)
	if err != nil {
		return ledger.Transaction{}, err
	}
	baseMove, err := move(baseSellerAcct, baseBuyerAcct, baseCcy, baseNotional, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	quoteMove, err := move(quoteBuyerAcct, quoteSellerAcct, quoteCcy, quoteAmount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, baseMove, quoteMove)
}

// NDFCashSettlement books a single net cash flow in the settlement
// currency — the caller determines payer/receiver from the signed
// settlement calculation upstream.
func NDFCashSettlement(ctx *decimal.Context, txID, payerAcct, receiverAcct, currency string, settlementAmount *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(payerAcct, receiverAcct, currency, settlementAmount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// IRSCashflow books one fixed-leg periodic payment:
// notional * fixedRate * dayCountFraction.
func IRSCashflow(ctx *decimal.Context, txID, payerAcct, receiverAcct, currency string, notional, fixedRate, dayCountFraction *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	amount, err := ctx.Mul(notional, fixedRate)
	if err != nil {
		return ledger.Transaction{}, err
	}
	amount, err = ctx.Mul(amount, dayCountFraction)
	if err != nil {
		return ledger.Transaction{}, err
	}
	m, err := move(payerAcct, receiverAcct, currency, amount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// CDSPremium books one periodic premium leg cashflow.
func CDSPremium(ctx *decimal.Context, txID, buyerAcct, sellerAcct, currency string, amount *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(buyerAcct, sellerAcct, currency, amount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// CDSCreditEvent books the protection payment notional*(1-auctionPrice)
// and closes the CDS position, optionally booking an accrued-premium
// leg in the same transaction. Rejects auctionPrice outside [0,1) and a
// zero payment.
func CDSCreditEvent(
	ctx *decimal.Context, txID string,
	protectionSellerCash, protectionBuyerCash, cdsPositionAcct, cdsClosedAcct, currency, cdsUnit string,
	notional, auctionPrice, quantity *decimal.Decimal,
	accruedPremium *types.Money, accruedPayerAcct, accruedReceiverAcct string,
	ts types.UTCDateTime,
) (ledger.Transaction, error) {
	zero, one := decimal.Zero(), decimal.One()
	if decimal.Cmp(auctionPrice, zero) < 0 || decimal.Cmp(auctionPrice, one) >= 0 {
		return ledger.Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "auction_price", Constraint: "must be in [0,1)", Actual: decimal.String(auctionPrice),
		})
	}
	oneMinusAuction, err := ctx.Sub(one, auctionPrice)
	if err != nil {
		return ledger.Transaction{}, err
	}
	payment, err := ctx.Mul(notional, oneMinusAuction)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if decimal.IsZero(payment) {
		return ledger.Transaction{}, result.NewValidationError(result.FieldViolation{
			Path: "protection_payment", Constraint: "must be nonzero", Actual: "0",
		})
	}

	moves := make([]ledger.Move, 0, 3)
	cashMove, err := move(protectionSellerCash, protectionBuyerCash, currency, payment, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	moves = append(moves, cashMove)

	closeMove, err := move(cdsPositionAcct, cdsClosedAcct, cdsUnit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	moves = append(moves, closeMove)

	if accruedPremium != nil {
		accruedMove, err := move(accruedPayerAcct, accruedReceiverAcct, accruedPremium.Currency.String(), accruedPremium.Amount, "")
		if err != nil {
			return ledger.Transaction{}, err
		}
		moves = append(moves, accruedMove)
	}

	return ledger.NewTransaction(txID, moves, ts, nil)
}

// CDSMaturityClose closes a CDS position with no credit event having
// occurred.
func CDSMaturityClose(ctx *decimal.Context, txID, cdsPositionAcct, cdsClosedAcct, unit string, quantity *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(cdsPositionAcct, cdsClosedAcct, unit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// SwaptionPremium books the swaption premium and opens the position.
func SwaptionPremium(ctx *decimal.Context, txID, buyerCashAcct, sellerCashAcct, buyerSwaptionAcct, sellerSwaptionAcct, swaptionUnit, currency string, premium, quantity *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	cashMove, err := move(buyerCashAcct, sellerCashAcct, currency, premium, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	positionMove, err := move(sellerSwaptionAcct, buyerSwaptionAcct, swaptionUnit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, cashMove, positionMove)
}

// SwaptionPhysicalClose closes the swaption position; the underlying
// swap itself is constructed separately by the IRS builders.
func SwaptionPhysicalClose(ctx *decimal.Context, txID, swaptionAcct, closedAcct, unit string, quantity *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(swaptionAcct, closedAcct, unit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// SwaptionCashSettlement pays the settlement amount and closes the
// position.
func SwaptionCashSettlement(ctx *decimal.Context, txID, payerCashAcct, receiverCashAcct, swaptionAcct, closedAcct, unit, currency string, settlementAmount, quantity *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	cashMove, err := move(payerCashAcct, receiverCashAcct, currency, settlementAmount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	closeMove, err := move(swaptionAcct, closedAcct, unit, quantity, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, cashMove, closeMove)
}

// CollateralMarginCall posts amount of collateral from poster to holder.
func CollateralMarginCall(ctx *decimal.Context, txID, posterAcct, holderAcct, unit string, amount *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(posterAcct, holderAcct, unit, amount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// CollateralReturn returns amount of collateral from holder to poster.
func CollateralReturn(ctx *decimal.Context, txID, holderAcct, posterAcct, unit string, amount *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	m, err := move(holderAcct, posterAcct, unit, amount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, m)
}

// CollateralSubstitution swaps one posted collateral unit for another in
// a single transaction: the poster takes back outUnit and posts inUnit.
func CollateralSubstitution(ctx *decimal.Context, txID, posterAcct, holderAcct, outUnit string, outAmount *decimal.Decimal, inUnit string, inAmount *decimal.Decimal, ts types.UTCDateTime) (ledger.Transaction, error) {
	outMove, err := move(holderAcct, posterAcct, outUnit, outAmount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	inMove, err := move(posterAcct, holderAcct, inUnit, inAmount, "")
	if err != nil {
		return ledger.Transaction{}, err
	}
	return newTx(ctx, txID, ts, outMove, inMove)
}
