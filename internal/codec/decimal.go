package codec

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Rescale returns the unscaled value of d at the given scale. It fails when
// the conversion would need rounding.
func Rescale(d decimal.Decimal, scale int) (*big.Int, error) {
	shifted := d.Shift(int32(scale))
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%s does not fit scale %d without rounding", d.String(), scale)
	}
	return shifted.BigInt(), nil
}

// UnscaledBytes encodes x as minimal big-endian two's complement, always
// keeping room for the sign bit (zero encodes as a single 0x00 byte).
func UnscaledBytes(x *big.Int) []byte {
	var bitLen int
	if x.Sign() < 0 {
		bitLen = new(big.Int).Not(x).BitLen()
	} else {
		bitLen = x.BitLen()
	}
	buf := make([]byte, bitLen/8+1)
	if x.Sign() >= 0 {
		return x.FillBytes(buf)
	}
	wrapped := new(big.Int).Lsh(big.NewInt(1), uint(8*len(buf)))
	wrapped.Add(wrapped, x)
	return wrapped.FillBytes(buf)
}

// FromUnscaledBytes is the inverse of UnscaledBytes.
func FromUnscaledBytes(b []byte) *big.Int {
	x := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x
}

// DecimalFromBytes turns an unscaled two's complement value into a decimal.
func DecimalFromBytes(b []byte, scale int) decimal.Decimal {
	return decimal.NewFromBigInt(FromUnscaledBytes(b), -int32(scale))
}
