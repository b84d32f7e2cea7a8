package domain

// MoveFundsRequest is the DTO for deposits and withdrawals.
type MoveFundsRequest struct {
	Amount uint64 `json:"amount"`
}

// PaymentRequest is the DTO for a direct micropayment.
type PaymentRequest struct {
	Sender    AccountID `json:"sender"`
	Recipient AccountID `json:"recipient"`
	Amount    uint64    `json:"amount"`
}

// OpenChannelRequest is the DTO for opening a payment channel.
type OpenChannelRequest struct {
	Sender        AccountID `json:"sender"`
	Recipient     AccountID `json:"recipient"`
	Deposit       uint64    `json:"deposit"`
	TimeoutBlocks uint64    `json:"timeout_blocks"`
}

// ChannelPaymentRequest is the DTO for a payment inside an open channel.
type ChannelPaymentRequest struct {
	Sender    AccountID `json:"sender"`
	Recipient AccountID `json:"recipient"`
	ChannelID uint64    `json:"channel_id"`
	Amount    uint64    `json:"amount"`
}

// CloseChannelRequest is the DTO for closing a channel. Requester is the
// identity asking for the close; it only matters before the timeout.
type CloseChannelRequest struct {
	Sender    AccountID `json:"sender"`
	Recipient AccountID `json:"recipient"`
	ChannelID uint64    `json:"channel_id"`
	Requester AccountID `json:"requester"`
}

// SetFeeRequest is the DTO for the fee-rate admin endpoint.
type SetFeeRequest struct {
	Requester  AccountID `json:"requester"`
	FeeRateBps uint64    `json:"fee_rate_bps"`
}

// PaymentResponse is returned after a payment is accepted.
type PaymentResponse struct {
	PaymentID uint64 `json:"payment_id"`
	Fee       uint64 `json:"fee"`
}

// OpenChannelResponse is returned after a channel is opened.
type OpenChannelResponse struct {
	ChannelID uint64 `json:"channel_id"`
	Timeout   uint64 `json:"timeout"`
}
