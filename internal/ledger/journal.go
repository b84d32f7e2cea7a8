package ledger

import "github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"

// Journal receives copies of committed state changes after the engine has
// released its lock. It is the extension point an external settlement or
// audit layer hooks into; implementations must not call back into the engine
// from these methods' goroutine if they want atomicity with the triggering
// operation, because none is provided.
type Journal interface {
	PaymentRecorded(p domain.Payment)
	ChannelOpened(c domain.Channel)
	ChannelClosed(c domain.Channel)
}

// NopJournal discards all notifications.
type NopJournal struct{}

func (NopJournal) PaymentRecorded(domain.Payment) {}
func (NopJournal) ChannelOpened(domain.Channel)   {}
func (NopJournal) ChannelClosed(domain.Channel)   {}
