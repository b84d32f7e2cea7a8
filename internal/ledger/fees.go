package ledger

import "math/bits"

// Platform constants. Amounts are in base currency units, rates in basis
// points, timeouts in the clock's time units.
const (
	MinPaymentAmount  uint64 = 1000
	MaxPaymentAmount  uint64 = 1_000_000
	DefaultFeeRateBps uint64 = 50
	MaxFeeRateBps     uint64 = 1000

	// BlockDuration is the length of one timeout block in clock units.
	BlockDuration uint64 = 600

	// MaxTimeoutBlocks bounds a channel's lifetime (about 19 years of
	// 600-unit blocks) so the expiry arithmetic can never wrap.
	MaxTimeoutBlocks uint64 = 1_000_000
)

const bpsDenominator = 10_000

// Fee computes floor(amount * rateBps / 10000) using a 128-bit intermediate,
// so the multiplication cannot overflow for any amount. rateBps must not
// exceed MaxFeeRateBps; the engine enforces that bound, which also keeps the
// high word of the product below the divisor as Div64 requires.
func Fee(amount, rateBps uint64) uint64 {
	hi, lo := bits.Mul64(amount, rateBps)
	q, _ := bits.Div64(hi, lo, bpsDenominator)
	return q
}
