package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/ledger"
)

func TestOpenChannel_EscrowsDeposit(t *testing.T) {
	e, clock := newTestEngine()
	fund(e, "alice", 100_000)

	id, err := e.OpenChannel("alice", "bob", 60_000, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(40_000), e.GetBalance("alice"))
	require.Equal(t, uint64(0), e.GetBalance("bob"), "recipient has no funds at risk")

	ch, ok := e.GetChannel(domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id})
	require.True(t, ok)
	require.True(t, ch.Active)
	require.Equal(t, uint64(60_000), ch.Balance)
	require.Equal(t, uint64(0), ch.Nonce)
	require.Equal(t, clock.Now()+10*ledger.BlockDuration, ch.Timeout)
}

func TestOpenChannel_Validation(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 1000)

	_, err := e.OpenChannel("alice", "bob", 0, 10)
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = e.OpenChannel("alice", "bob", 1001, 10)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)
	require.Equal(t, uint64(1000), e.GetBalance("alice"), "failed open must not debit")
}

func TestOpenChannel_TimeoutCapped(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 1000)

	// A timeout large enough to wrap the expiry would open a channel that
	// is born expired with the escrow already gone.
	_, err := e.OpenChannel("alice", "bob", 1000, ledger.MaxTimeoutBlocks+1)
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)
	require.Equal(t, uint64(1000), e.GetBalance("alice"))

	_, err = e.OpenChannel("alice", "bob", 1000, ledger.MaxTimeoutBlocks)
	require.NoError(t, err)
}

func TestOpenChannel_SequentialIDs(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 100_000)

	first, err := e.OpenChannel("alice", "bob", 10_000, 10)
	require.NoError(t, err)
	second, err := e.OpenChannel("alice", "carol", 10_000, 10)
	require.NoError(t, err)
	require.Equal(t, first+1, second)
}

func TestChannelPayment_DrawsDownEscrow(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 50_000)
	id, err := e.OpenChannel("alice", "bob", 50_000, 10)
	require.NoError(t, err)

	_, err = e.SendChannelPayment("alice", "bob", id, 20_000)
	require.NoError(t, err)

	ch, ok := e.GetChannel(domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id})
	require.True(t, ok)
	require.Equal(t, uint64(30_000), ch.Balance)
	require.Equal(t, uint64(1), ch.Nonce)
	require.Equal(t, uint64(0), e.GetBalance("bob"), "channel payments never credit the ledger")
}

func TestChannelPayment_NonceIncrementsPerPayment(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 50_000)
	id, err := e.OpenChannel("alice", "bob", 50_000, 10)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = e.SendChannelPayment("alice", "bob", id, 1000)
		require.NoError(t, err)
	}

	ch, _ := e.GetChannel(domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id})
	require.Equal(t, uint64(5), ch.Nonce)
	require.Equal(t, uint64(45_000), ch.Balance)
}

func TestChannelPayment_AmountBounds(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", ledger.MaxPaymentAmount*2)
	id, err := e.OpenChannel("alice", "bob", ledger.MaxPaymentAmount*2, 10)
	require.NoError(t, err)

	_, err = e.SendChannelPayment("alice", "bob", id, ledger.MinPaymentAmount-1)
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = e.SendChannelPayment("alice", "bob", id, ledger.MaxPaymentAmount+1)
	require.ErrorIs(t, err, ledger.ErrInvalidAmount)

	_, err = e.SendChannelPayment("alice", "bob", id, ledger.MaxPaymentAmount)
	require.NoError(t, err)
}

func TestChannelPayment_InsufficientEscrow(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 10_000)
	id, err := e.OpenChannel("alice", "bob", 10_000, 10)
	require.NoError(t, err)

	_, err = e.SendChannelPayment("alice", "bob", id, 10_001)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	ch, _ := e.GetChannel(domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id})
	require.Equal(t, uint64(10_000), ch.Balance)
	require.Equal(t, uint64(0), ch.Nonce)
}

func TestChannelPayment_Expired(t *testing.T) {
	e, clock := newTestEngine()
	fund(e, "alice", 10_000)
	id, err := e.OpenChannel("alice", "bob", 10_000, 2)
	require.NoError(t, err)

	// One tick before timeout still works
	clock.Advance(2*ledger.BlockDuration - 1)
	_, err = e.SendChannelPayment("alice", "bob", id, 1000)
	require.NoError(t, err)

	// now == timeout is already expired
	clock.Advance(1)
	_, err = e.SendChannelPayment("alice", "bob", id, 1000)
	require.ErrorIs(t, err, ledger.ErrChannelExpired)
}

func TestChannelPayment_UnknownChannel(t *testing.T) {
	e, _ := newTestEngine()

	_, err := e.SendChannelPayment("alice", "bob", 42, 1000)
	require.ErrorIs(t, err, ledger.ErrChannelNotFound)
}

func TestCloseChannel_SenderAnyTime(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 50_000)
	id, err := e.OpenChannel("alice", "bob", 50_000, 10)
	require.NoError(t, err)

	_, err = e.SendChannelPayment("alice", "bob", id, 20_000)
	require.NoError(t, err)

	key := domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id}
	require.NoError(t, e.CloseChannel(key, "alice"))

	ch, ok := e.GetChannel(key)
	require.True(t, ok)
	require.False(t, ch.Active)
	require.Equal(t, uint64(0), ch.Balance)
	require.Equal(t, uint64(30_000), e.GetBalance("alice"), "remaining escrow returns to sender")
}

func TestCloseChannel_ThirdPartyNeedsTimeout(t *testing.T) {
	e, clock := newTestEngine()
	fund(e, "alice", 10_000)
	id, err := e.OpenChannel("alice", "bob", 10_000, 5)
	require.NoError(t, err)

	key := domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id}

	require.ErrorIs(t, e.CloseChannel(key, "bob"), ledger.ErrNotAuthorized)
	require.ErrorIs(t, e.CloseChannel(key, "mallory"), ledger.ErrNotAuthorized)

	clock.Advance(5 * ledger.BlockDuration)
	require.NoError(t, e.CloseChannel(key, "bob"))
	require.Equal(t, uint64(10_000), e.GetBalance("alice"))
}

func TestCloseChannel_SecondCloseFails(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 10_000)
	id, err := e.OpenChannel("alice", "bob", 10_000, 10)
	require.NoError(t, err)

	key := domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id}
	require.NoError(t, e.CloseChannel(key, "alice"))
	require.ErrorIs(t, e.CloseChannel(key, "alice"), ledger.ErrChannelNotFound)
	require.Equal(t, uint64(10_000), e.GetBalance("alice"), "double close must not double credit")
}

func TestCloseChannel_PaymentAfterCloseFails(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 10_000)
	id, err := e.OpenChannel("alice", "bob", 10_000, 10)
	require.NoError(t, err)

	key := domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: id}
	require.NoError(t, e.CloseChannel(key, "alice"))

	_, err = e.SendChannelPayment("alice", "bob", id, 1000)
	require.ErrorIs(t, err, ledger.ErrChannelNotFound)
}

func TestChannels_Independent(t *testing.T) {
	e, _ := newTestEngine()
	fund(e, "alice", 40_000)

	toBob, err := e.OpenChannel("alice", "bob", 20_000, 10)
	require.NoError(t, err)
	toCarol, err := e.OpenChannel("alice", "carol", 20_000, 10)
	require.NoError(t, err)

	require.NoError(t, e.CloseChannel(domain.ChannelKey{Sender: "alice", Recipient: "bob", ID: toBob}, "alice"))

	ch, ok := e.GetChannel(domain.ChannelKey{Sender: "alice", Recipient: "carol", ID: toCarol})
	require.True(t, ok)
	require.True(t, ch.Active)
	require.Equal(t, uint64(20_000), ch.Balance)
}
