package ledger

import (
	"github.com/sasha-s/go-deadlock"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
)

// Engine is the ledger and channel state machine. All mutating operations
// take the single engine lock, validate every precondition, and only then
// mutate, so a returned error guarantees zero partial state change.
// Per-account locking with deterministic ordering would also satisfy the
// isolation requirement, but every operation here additionally touches the
// shared statistics and platform counters, so one transactional boundary
// covers them all.
type Engine struct {
	mu      deadlock.Mutex
	clock   Clock
	journal Journal
	owner   domain.AccountID

	balances  map[domain.AccountID]uint64
	channels  map[domain.ChannelKey]*domain.Channel
	payments  map[uint64]*domain.Payment
	userStats map[domain.AccountID]*domain.UserStats

	feeRateBps uint64

	// Payment and channel ids come from separate counters so the two id
	// spaces never interleave.
	nextPaymentID uint64
	nextChannelID uint64

	totalPayments  uint64
	totalVolume    uint64
	totalDeposited uint64
	totalWithdrawn uint64
	totalFees      uint64
	totalDrawdown  uint64
}

// NewEngine constructs an engine owned by the given platform owner. A nil
// clock falls back to the system clock; a nil journal discards notifications.
func NewEngine(owner domain.AccountID, clock Clock, journal Journal) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if journal == nil {
		journal = NopJournal{}
	}
	return &Engine{
		clock:         clock,
		journal:       journal,
		owner:         owner,
		balances:      make(map[domain.AccountID]uint64),
		channels:      make(map[domain.ChannelKey]*domain.Channel),
		payments:      make(map[uint64]*domain.Payment),
		userStats:     make(map[domain.AccountID]*domain.UserStats),
		feeRateBps:    DefaultFeeRateBps,
		nextPaymentID: 1,
		nextChannelID: 1,
	}
}

// GetBalance returns the account's ledger balance, zero for untouched accounts.
func (e *Engine) GetBalance(account domain.AccountID) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balances[account]
}

// GetPayment returns a copy of the payment record, if it exists.
func (e *Engine) GetPayment(id uint64) (domain.Payment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.payments[id]
	if !ok {
		return domain.Payment{}, false
	}
	return *p, true
}

// GetChannel returns a copy of the channel at the given key, if it exists.
// Closed channels remain queryable.
func (e *Engine) GetChannel(key domain.ChannelKey) (domain.Channel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.channels[key]
	if !ok {
		return domain.Channel{}, false
	}
	return *c, true
}

// GetUserStats returns the user's aggregates, zero-valued for unknown users.
func (e *Engine) GetUserStats(user domain.AccountID) domain.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.userStats[user]; ok {
		return *s
	}
	return domain.UserStats{}
}

// GetPlatformStats returns a snapshot of the platform counters.
func (e *Engine) GetPlatformStats() domain.PlatformStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.PlatformStats{
		FeeRateBps:           e.feeRateBps,
		TotalPayments:        e.totalPayments,
		TotalVolume:          e.totalVolume,
		TotalDeposited:       e.totalDeposited,
		TotalWithdrawn:       e.totalWithdrawn,
		TotalFeesCollected:   e.totalFees,
		TotalChannelDrawdown: e.totalDrawdown,
	}
}

// CalculateFee quotes the fee for a direct payment of the given amount at
// the current platform rate.
func (e *Engine) CalculateFee(amount uint64) uint64 {
	e.mu.Lock()
	rate := e.feeRateBps
	e.mu.Unlock()
	return Fee(amount, rate)
}

// SetPlatformFee updates the fee rate. Only the platform owner may call it,
// and the rate is capped at MaxFeeRateBps.
func (e *Engine) SetPlatformFee(requester domain.AccountID, rateBps uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if requester != e.owner {
		return 0, ErrNotAuthorized
	}
	if rateBps > MaxFeeRateBps {
		return 0, ErrInvalidAmount
	}
	e.feeRateBps = rateBps
	return e.feeRateBps, nil
}

func (e *Engine) statsOf(user domain.AccountID) *domain.UserStats {
	s, ok := e.userStats[user]
	if !ok {
		s = &domain.UserStats{}
		e.userStats[user] = s
	}
	return s
}
