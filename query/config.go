package query

import "time"

// Config holds the pagination and retry tunables.
type Config struct {
	// InitialMultiplier scales the requested limit into the first batch size.
	// Default: 3
	InitialMultiplier float64

	// EscalationFactor grows the multiplier after each under-filled round.
	// Default: 1.5
	EscalationFactor float64

	// MaxMultiplier caps the multiplier.
	// Default: 5
	MaxMultiplier float64

	// MaxBatchSize caps the raw items requested by one store call.
	// Default: 500
	MaxBatchSize int

	// ScanCap is the raw-item budget of one page. Reaching it returns a
	// partial page with a continuation token.
	// Default: 5000
	ScanCap int

	// MaxRounds bounds store calls per page, even when calls return nothing.
	// Default: 64
	MaxRounds int

	// DefaultLimit is the page size when the request does not set one.
	// Default: 20
	DefaultLimit int

	// MaxLimit caps the page size.
	// Default: 100
	MaxLimit int

	// MaxAttempts is the number of tries per store call for transient errors.
	// Default: 3
	MaxAttempts int

	// MaxBackoff caps the delay between attempts.
	// Default: 2s
	MaxBackoff time.Duration

	// ReadsPerSecond limits store calls per process. Zero disables limiting.
	ReadsPerSecond float64
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		InitialMultiplier: 3,
		EscalationFactor:  1.5,
		MaxMultiplier:     5,
		MaxBatchSize:      500,
		ScanCap:           5000,
		MaxRounds:         64,
		DefaultLimit:      20,
		MaxLimit:          100,
		MaxAttempts:       3,
		MaxBackoff:        2 * time.Second,
	}
}

// validate replaces out-of-range values with defaults.
func (c *Config) validate() {
	d := DefaultConfig()
	if c.InitialMultiplier < 1 {
		c.InitialMultiplier = d.InitialMultiplier
	}
	if c.EscalationFactor < 1 {
		c.EscalationFactor = d.EscalationFactor
	}
	if c.MaxMultiplier < c.InitialMultiplier {
		c.MaxMultiplier = max(d.MaxMultiplier, c.InitialMultiplier)
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = d.MaxBatchSize
	}
	if c.ScanCap <= 0 {
		c.ScanCap = d.ScanCap
	}
	if c.MaxRounds <= 0 {
		c.MaxRounds = d.MaxRounds
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = d.MaxLimit
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = d.DefaultLimit
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = d.MaxBackoff
	}
	if c.ReadsPerSecond < 0 {
		c.ReadsPerSecond = 0
	}
}
