package ledger

import "errors"

var (
	ErrNotAuthorized           = errors.New("not authorized")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrChannelNotFound         = errors.New("channel not found")
	ErrChannelExpired          = errors.New("channel expired")
)
