package identifiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateISIN(t *testing.T) {
	// US0378331005 is Apple Inc.'s real ISIN.
	assert.True(t, ValidateISIN("US0378331005"))
	assert.False(t, ValidateISIN("US0378331006"))
	assert.False(t, ValidateISIN("TOOSHORT"))
}

func TestValidateLEI(t *testing.T) {
	// Real sample LEIs used in spec §8 scenario S1.
	assert.True(t, ValidateLEI("529900HNOAA1KXQJUQ27"))
	assert.True(t, ValidateLEI("529900ODI3JL1O4COU11"))
	assert.False(t, ValidateLEI("529900HNOAA1KXQJUQ2*"))
	assert.False(t, ValidateLEI("TOOSHORT"))
}

func TestValidateCUSIP(t *testing.T) {
	// 037833100 is Apple Inc.'s real CUSIP.
	assert.True(t, ValidateCUSIP("037833100"))
	assert.False(t, ValidateCUSIP("037833101"))
}

func TestValidateSEDOL(t *testing.T) {
	// 2046251 is Apple Inc.'s real SEDOL.
	assert.True(t, ValidateSEDOL("2046251"))
	assert.False(t, ValidateSEDOL("2046252"))
}

func TestValidateMIC(t *testing.T) {
	assert.True(t, ValidateMIC("XNYS"))
	assert.True(t, ValidateMIC("ZZZZ")) // unknown but correctly shaped
	assert.False(t, ValidateMIC("XN1S"))
	assert.False(t, ValidateMIC("XX"))
}

func TestCurrencyMinorUnits(t *testing.T) {
	assert.Equal(t, 2, MinorUnitDigits("USD"))
	assert.Equal(t, 0, MinorUnitDigits("JPY"))
	assert.Equal(t, 3, MinorUnitDigits("KWD"))
	assert.Equal(t, 8, MinorUnitDigits("BTC"))
	assert.Equal(t, 18, MinorUnitDigits("ETH"))
	assert.Equal(t, 2, MinorUnitDigits("XYZ")) // unknown -> default
	assert.True(t, IsKnownCurrency("EUR"))
	assert.False(t, IsKnownCurrency("XYZ"))
}
