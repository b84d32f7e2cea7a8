package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/leesamuel01/Bitcoin-Micropayments-Platform/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS payments (
    payment_id BIGINT PRIMARY KEY,
    sender TEXT NOT NULL,
    recipient TEXT NOT NULL,
    amount BIGINT NOT NULL,
    ts BIGINT NOT NULL,
    processed BOOLEAN NOT NULL,
    channel_id BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS channels (
    sender TEXT NOT NULL,
    recipient TEXT NOT NULL,
    channel_id BIGINT NOT NULL,
    balance BIGINT NOT NULL,
    timeout BIGINT NOT NULL,
    nonce BIGINT NOT NULL,
    is_active BOOLEAN NOT NULL,
    PRIMARY KEY (sender, recipient, channel_id)
);

CREATE INDEX IF NOT EXISTS idx_payments_sender ON payments (sender);
CREATE INDEX IF NOT EXISTS idx_payments_recipient ON payments (recipient);
`

const writeTimeout = 5 * time.Second

// Archive is a write-behind copy of the payment and channel log kept in
// Postgres for audit and reporting. The in-memory engine stays the source of
// truth; a lost archive write is logged and skipped, never propagated back.
type Archive struct {
	db  *pgxpool.Pool
	log *zap.SugaredLogger
}

func NewArchive(connString string, log *zap.SugaredLogger) (*Archive, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Archive{db: pool, log: log}, nil
}

// EnsureSchema creates the archive tables if they do not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("schema setup failed: %w", err)
	}
	return nil
}

func (a *Archive) Close() {
	a.db.Close()
}

// PaymentRecorded implements ledger.Journal.
func (a *Archive) PaymentRecorded(p domain.Payment) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := a.db.Exec(ctx,
		`INSERT INTO payments (payment_id, sender, recipient, amount, ts, processed, channel_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (payment_id) DO UPDATE SET processed = EXCLUDED.processed`,
		int64(p.ID), string(p.Sender), string(p.Recipient), int64(p.Amount),
		int64(p.Timestamp), p.Processed, channelIDOrNil(p.ChannelID),
	)
	if err != nil {
		a.log.Errorw("payment archive write failed", "payment_id", p.ID, "error", err)
	}
}

// ChannelOpened implements ledger.Journal.
func (a *Archive) ChannelOpened(c domain.Channel) {
	a.upsertChannel(c)
}

// ChannelClosed implements ledger.Journal.
func (a *Archive) ChannelClosed(c domain.Channel) {
	a.upsertChannel(c)
}

func (a *Archive) upsertChannel(c domain.Channel) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := a.db.Exec(ctx,
		`INSERT INTO channels (sender, recipient, channel_id, balance, timeout, nonce, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (sender, recipient, channel_id) DO UPDATE
		 SET balance = EXCLUDED.balance, nonce = EXCLUDED.nonce, is_active = EXCLUDED.is_active`,
		string(c.Sender), string(c.Recipient), int64(c.ID), int64(c.Balance),
		int64(c.Timeout), int64(c.Nonce), c.Active,
	)
	if err != nil {
		a.log.Errorw("channel archive write failed", "channel_id", c.ID, "error", err)
	}
}

// ListPaymentsByAccount returns archived payments where the account was
// sender or recipient, newest first.
func (a *Archive) ListPaymentsByAccount(ctx context.Context, account domain.AccountID, limit int) ([]domain.Payment, error) {
	rows, err := a.db.Query(ctx,
		`SELECT payment_id, sender, recipient, amount, ts, processed, channel_id
		 FROM payments WHERE sender = $1 OR recipient = $1
		 ORDER BY payment_id DESC LIMIT $2`,
		string(account), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var (
			p         domain.Payment
			id, amt   int64
			ts        int64
			channelID *int64
			sender    string
			recipient string
		)
		if err := rows.Scan(&id, &sender, &recipient, &amt, &ts, &p.Processed, &channelID); err != nil {
			return nil, err
		}
		p.ID = uint64(id)
		p.Sender = domain.AccountID(sender)
		p.Recipient = domain.AccountID(recipient)
		p.Amount = uint64(amt)
		p.Timestamp = uint64(ts)
		if channelID != nil {
			cid := uint64(*channelID)
			p.ChannelID = &cid
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func channelIDOrNil(id *uint64) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}
