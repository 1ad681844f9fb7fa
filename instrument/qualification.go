package instrument

// AssetClass names the broad asset-class taxonomy a canonical order's
// instrument detail projects onto. It mirrors the CDM asset-class
// taxonomy at a coarse grain — enough to route an order to the right
// oracle gates and ledger builders without re-deriving the detail's
// concrete type at every call site.
type AssetClass int

const (
	AssetClassUnknown AssetClass = iota
	AssetClassEquity
	AssetClassInterestRate
	AssetClassCredit
	AssetClassForeignExchange
)

// QualifyAssetClass classifies an order's instrument detail into the
// broad asset class its oracle gates and ledger builders are organized
// around. Options and futures, lacking a dedicated asset class in this
// taxonomy, qualify as equity derivatives — the same treatment CDM gives
// exchange-listed equity derivatives absent a commodity/rates underlying.
func QualifyAssetClass(d Detail) AssetClass {
	switch d.(type) {
	case CDSDetail:
		return AssetClassCredit
	case SwaptionDetail, IRSwapDetail:
		return AssetClassInterestRate
	case FXDetail:
		return AssetClassForeignExchange
	case EquityDetail, OptionDetail, FuturesDetail:
		return AssetClassEquity
	default:
		return AssetClassUnknown
	}
}

// IsCreditDefaultSwap reports whether d is a CDS.
func IsCreditDefaultSwap(d Detail) bool {
	_, ok := d.(CDSDetail)
	return ok
}

// IsSwaption reports whether d is a swaption.
func IsSwaption(d Detail) bool {
	_, ok := d.(SwaptionDetail)
	return ok
}

// IsInterestRateSwap reports whether d is a vanilla IRS.
func IsInterestRateSwap(d Detail) bool {
	_, ok := d.(IRSwapDetail)
	return ok
}

// IsEquityProduct reports whether d is an equity, option, or future.
func IsEquityProduct(d Detail) bool {
	switch d.(type) {
	case EquityDetail, OptionDetail, FuturesDetail:
		return true
	default:
		return false
	}
}

// IsFXProduct reports whether d is an FX spot, forward, or NDF.
func IsFXProduct(d Detail) bool {
	_, ok := d.(FXDetail)
	return ok
}
