package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/ledger"
)

func TestFee_DefaultRate(t *testing.T) {
	require.Equal(t, uint64(50), ledger.Fee(10_000, ledger.DefaultFeeRateBps))
}

func TestFee_FloorsToZero(t *testing.T) {
	// 1000 * 50 / 10000 = 5 exactly, but 999 floors below it
	require.Equal(t, uint64(5), ledger.Fee(1000, 50))
	require.Equal(t, uint64(4), ledger.Fee(999, 50))
	require.Equal(t, uint64(0), ledger.Fee(199, 50))
}

func TestFee_ZeroInputs(t *testing.T) {
	require.Equal(t, uint64(0), ledger.Fee(0, ledger.MaxFeeRateBps))
	require.Equal(t, uint64(0), ledger.Fee(ledger.MaxPaymentAmount, 0))
}

func TestFee_MaxRate(t *testing.T) {
	// 10% of the maximum payment size
	require.Equal(t, uint64(100_000), ledger.Fee(ledger.MaxPaymentAmount, ledger.MaxFeeRateBps))
}

func TestFee_NoOverflowAtMaxAmount(t *testing.T) {
	// amount*rate exceeds 64 bits here; the wide intermediate must carry it.
	// floor(MaxUint64 * 1000 / 10000) == floor(MaxUint64 / 10)
	require.Equal(t, uint64(math.MaxUint64/10), ledger.Fee(math.MaxUint64, ledger.MaxFeeRateBps))
}
