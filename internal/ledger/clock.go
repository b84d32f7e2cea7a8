package ledger

import "time"

// Clock supplies the monotonically non-decreasing time used for channel
// expiry. It is injected so the engine never reads wall-clock time directly.
type Clock interface {
	Now() uint64
}

// SystemClock reads unix seconds from the host.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}
