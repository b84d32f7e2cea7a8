package ledger

import (
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
)

// OpenChannel escrows initialBalance out of the sender's ledger balance into
// a new channel to the recipient. The channel expires timeoutBlocks blocks
// from now; until then only the sender may close it.
func (e *Engine) OpenChannel(sender, recipient domain.AccountID, initialBalance, timeoutBlocks uint64) (uint64, error) {
	now := e.clock.Now()

	e.mu.Lock()
	if initialBalance == 0 || timeoutBlocks > MaxTimeoutBlocks {
		e.mu.Unlock()
		return 0, ErrInvalidAmount
	}
	if e.balances[sender] < initialBalance {
		e.mu.Unlock()
		return 0, ErrInsufficientBalance
	}

	e.balances[sender] -= initialBalance
	ch := &domain.Channel{
		Sender:    sender,
		Recipient: recipient,
		ID:        e.nextChannelID,
		Balance:   initialBalance,
		Timeout:   now + timeoutBlocks*BlockDuration,
		Active:    true,
	}
	e.nextChannelID++
	e.channels[ch.Key()] = ch
	opened := *ch
	e.mu.Unlock()

	e.journal.ChannelOpened(opened)
	return opened.ID, nil
}

// applyChannelPayment draws amount down from the channel's escrow and bumps
// its nonce. Caller holds the engine lock. The recipient's ledger balance is
// deliberately untouched: channel payments settle through the external
// settlement step, not here.
func (e *Engine) applyChannelPayment(key domain.ChannelKey, amount, now uint64) (*domain.Channel, error) {
	ch, ok := e.channels[key]
	if !ok || !ch.Active {
		return nil, ErrChannelNotFound
	}
	if now >= ch.Timeout {
		return nil, ErrChannelExpired
	}
	if amount < MinPaymentAmount || amount > MaxPaymentAmount {
		return nil, ErrInvalidAmount
	}
	if ch.Balance < amount {
		return nil, ErrInsufficientBalance
	}

	ch.Balance -= amount
	ch.Nonce++
	return ch, nil
}

// CloseChannel settles the channel: remaining escrow goes back to the sender
// and the channel becomes permanently inactive. The sender may close at any
// time; anyone else only once the timeout has passed. A second close finds
// the channel inactive and reports ErrChannelNotFound.
func (e *Engine) CloseChannel(key domain.ChannelKey, requester domain.AccountID) error {
	now := e.clock.Now()

	e.mu.Lock()
	ch, ok := e.channels[key]
	if !ok || !ch.Active {
		e.mu.Unlock()
		return ErrChannelNotFound
	}
	if requester != ch.Sender && now < ch.Timeout {
		e.mu.Unlock()
		return ErrNotAuthorized
	}

	e.balances[ch.Sender] += ch.Balance
	ch.Balance = 0
	ch.Active = false
	closed := *ch
	e.mu.Unlock()

	e.journal.ChannelClosed(closed)
	return nil
}
