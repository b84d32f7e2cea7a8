package ledger_test

import (
	"sync"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/ledger"
)

const owner = domain.AccountID("platform-owner")

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now uint64
}

func (c *fakeClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d uint64) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// memJournal records every notification it receives.
type memJournal struct {
	mu       sync.Mutex
	payments []domain.Payment
	opened   []domain.Channel
	closed   []domain.Channel
}

func (j *memJournal) PaymentRecorded(p domain.Payment) {
	j.mu.Lock()
	j.payments = append(j.payments, p)
	j.mu.Unlock()
}

func (j *memJournal) ChannelOpened(c domain.Channel) {
	j.mu.Lock()
	j.opened = append(j.opened, c)
	j.mu.Unlock()
}

func (j *memJournal) ChannelClosed(c domain.Channel) {
	j.mu.Lock()
	j.closed = append(j.closed, c)
	j.mu.Unlock()
}

func newTestEngine() (*ledger.Engine, *fakeClock) {
	clock := &fakeClock{now: 1_000_000}
	return ledger.NewEngine(owner, clock, nil), clock
}

// fund creates an account with the given balance or panics the test setup.
func fund(e *ledger.Engine, account domain.AccountID, amount uint64) {
	if _, err := e.Deposit(account, amount); err != nil {
		panic(err)
	}
}
