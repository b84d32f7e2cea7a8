package ledger

import (
	"math"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
)

// Deposit credits the account and returns the credited amount. The external
// custody layer is expected to have already received the physical funds;
// this only updates the internal accounting record. Accounts are created
// implicitly on first deposit.
func (e *Engine) Deposit(account domain.AccountID, amount uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	if e.balances[account] > math.MaxUint64-amount {
		return 0, ErrInvalidAmount
	}
	e.balances[account] += amount
	e.totalDeposited += amount
	return amount, nil
}

// Withdraw reserves amount out of the account's balance for release by the
// external custody layer. Fails without mutating if the balance is short.
func (e *Engine) Withdraw(account domain.AccountID, amount uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.balances[account] < amount {
		return 0, ErrInsufficientBalance
	}
	e.balances[account] -= amount
	e.totalWithdrawn += amount
	return amount, nil
}
