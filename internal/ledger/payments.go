package ledger

import (
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
)

// SendMicropayment settles a direct payment against both parties' ledger
// balances. The sender pays amount plus the platform fee; the recipient
// receives exactly amount. The fee is removed from circulation entirely
// rather than credited to any account. The returned fee is the one actually
// charged, read under the same lock as the debit.
func (e *Engine) SendMicropayment(sender, recipient domain.AccountID, amount uint64) (uint64, uint64, error) {
	now := e.clock.Now()

	e.mu.Lock()
	if amount < MinPaymentAmount || amount > MaxPaymentAmount {
		e.mu.Unlock()
		return 0, 0, ErrInvalidAmount
	}
	fee := Fee(amount, e.feeRateBps)
	totalCost := amount + fee
	if e.balances[sender] < totalCost {
		e.mu.Unlock()
		return 0, 0, ErrInsufficientBalance
	}

	e.balances[sender] -= totalCost
	e.balances[recipient] += amount
	e.totalFees += fee

	rec := e.recordPayment(sender, recipient, amount, now, true, nil)
	e.mu.Unlock()

	e.journal.PaymentRecorded(rec)
	return rec.ID, fee, nil
}

// SendChannelPayment routes a payment through an open channel. It draws down
// escrow only; the recipient's ledger balance is credited by the external
// settlement layer, never here. Channel payments carry no fee.
func (e *Engine) SendChannelPayment(sender, recipient domain.AccountID, channelID, amount uint64) (uint64, error) {
	now := e.clock.Now()
	key := domain.ChannelKey{Sender: sender, Recipient: recipient, ID: channelID}

	e.mu.Lock()
	if _, err := e.applyChannelPayment(key, amount, now); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	e.totalDrawdown += amount

	id := channelID
	rec := e.recordPayment(sender, recipient, amount, now, false, &id)
	e.mu.Unlock()

	e.journal.PaymentRecorded(rec)
	return rec.ID, nil
}

// MarkPaymentSettled is the hook for the external settlement layer to
// confirm that a channel payment's funds have been delivered to the
// recipient. It flips the record's processed flag exactly once.
func (e *Engine) MarkPaymentSettled(paymentID uint64) error {
	e.mu.Lock()
	p, ok := e.payments[paymentID]
	if !ok {
		e.mu.Unlock()
		return ErrPaymentNotFound
	}
	if p.Processed {
		e.mu.Unlock()
		return ErrPaymentAlreadyProcessed
	}
	p.Processed = true
	settled := *p
	e.mu.Unlock()

	e.journal.PaymentRecorded(settled)
	return nil
}

// recordPayment appends a payment record and updates the derived aggregates.
// Caller holds the engine lock.
func (e *Engine) recordPayment(sender, recipient domain.AccountID, amount, now uint64, processed bool, channelID *uint64) domain.Payment {
	p := &domain.Payment{
		ID:        e.nextPaymentID,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Timestamp: now,
		Processed: processed,
		ChannelID: channelID,
	}
	e.nextPaymentID++
	e.payments[p.ID] = p

	sent := e.statsOf(sender)
	sent.TotalSent += amount
	sent.PaymentCount++
	e.statsOf(recipient).TotalReceived += amount

	e.totalPayments++
	e.totalVolume += amount

	return *p
}
