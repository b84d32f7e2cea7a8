package domain

// AccountID identifies a participant on the platform. Authorization is
// equality on this identifier; authentication happens upstream.
type AccountID string

// Account represents a user's balance in the ledger.
type Account struct {
	Owner   AccountID `json:"owner"`
	Balance uint64    `json:"balance"`
}

// ChannelKey is the composite key a channel lives under. The sender is part
// of the key, so a close issued through a sender's own key can never reach
// another sender's channel.
type ChannelKey struct {
	Sender    AccountID
	Recipient AccountID
	ID        uint64
}

// Channel is an escrow-backed payment relationship between a sender and a
// recipient. Balance is the sender's remaining escrow; it only decreases
// while the channel is active and is returned to the sender at close.
type Channel struct {
	Sender    AccountID `json:"sender"`
	Recipient AccountID `json:"recipient"`
	ID        uint64    `json:"channel_id"`
	Balance   uint64    `json:"balance"`
	Timeout   uint64    `json:"timeout"`
	Nonce     uint64    `json:"nonce"`
	Active    bool      `json:"is_active"`
}

// Key returns the registry key for the channel.
func (c Channel) Key() ChannelKey {
	return ChannelKey{Sender: c.Sender, Recipient: c.Recipient, ID: c.ID}
}

// Payment is the immutable record of a single payment. Processed is true for
// direct payments settled against the ledger at send time and false for
// channel payments, which settle only through an external settlement step.
type Payment struct {
	ID        uint64    `json:"payment_id"`
	Sender    AccountID `json:"sender"`
	Recipient AccountID `json:"recipient"`
	Amount    uint64    `json:"amount"`
	Timestamp uint64    `json:"timestamp"`
	Processed bool      `json:"processed"`
	ChannelID *uint64   `json:"channel_id,omitempty"`
}

// UserStats are cached per-user aggregates over the payment log. They are
// derived data, never the source of truth for balances.
type UserStats struct {
	TotalSent     uint64 `json:"total_sent"`
	TotalReceived uint64 `json:"total_received"`
	PaymentCount  uint64 `json:"payment_count"`
}

// PlatformStats is the platform-wide view: fee configuration, payment
// counters, and the running totals that make the conservation invariant
// checkable (sum of balances plus active escrow equals deposited minus
// withdrawn minus fees).
type PlatformStats struct {
	FeeRateBps         uint64 `json:"fee_rate_bps"`
	TotalPayments      uint64 `json:"total_payments"`
	TotalVolume        uint64 `json:"total_volume"`
	TotalDeposited     uint64 `json:"total_deposited"`
	TotalWithdrawn     uint64 `json:"total_withdrawn"`
	TotalFeesCollected uint64 `json:"total_fees_collected"`

	// TotalChannelDrawdown is the cumulative amount drawn down inside
	// channels. Those funds await external settlement and are neither in any
	// ledger balance nor in escrow, so conservation reads:
	// sum(balances) + sum(active escrow) =
	//     deposited - withdrawn - fees - drawdown.
	TotalChannelDrawdown uint64 `json:"total_channel_drawdown"`
}
