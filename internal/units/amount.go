package units

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"ledger_wallet_session/models"
)

// EtherDecimals is the fixed-point scale of ledger amounts (wei per ether).
const EtherDecimals = 18

// plain unsigned decimal, no exponent
var decimalPattern = regexp.MustCompile(`^[0-9]*\.?[0-9]+$`)

// ParseEther converts a decimal ether string to wei without float precision loss.
// Example: ParseEther("1.5") = 1500000000000000000
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, errors.Wrap(models.ErrInvalidAmount, "empty amount")
	}

	if !decimalPattern.MatchString(amount) {
		return nil, errors.Wrapf(models.ErrInvalidAmount, "%q is not a plain decimal", amount)
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errors.Wrapf(models.ErrInvalidAmount, "%q", amount)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(models.ErrInvalidAmount, "negative amount %q", amount)
	}

	wei := d.Shift(EtherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Wrapf(models.ErrInvalidAmount, "%q has more than %d decimals", amount, EtherDecimals)
	}
	return wei.BigInt(), nil
}

// FormatEther converts wei to a floating ether amount for display.
func FormatEther(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := decimal.NewFromBigInt(wei, -EtherDecimals).Float64()
	return f
}
