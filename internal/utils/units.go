package utils

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// WeiToUnit scales a raw integer balance down by 10^decimals without losing precision.
func WeiToUnit(wei *big.Int, decimals int32) (decimal.Decimal, error) {
	if wei == nil {
		return decimal.Decimal{}, errors.New("balance is nil")
	}
	if wei.Sign() < 0 {
		return decimal.Decimal{}, errors.New("negative balance: " + wei.String())
	}
	if decimals < 0 {
		return decimal.Decimal{}, errors.New("negative denomination decimals")
	}
	return decimal.NewFromBigInt(wei, -decimals), nil
}

// FormatUnit renders a base-unit balance for reports. Whole amounts keep a
// trailing ".0" so 10^18 wei prints as "1.0"; fractions print exactly.
func FormatUnit(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
