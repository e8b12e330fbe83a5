package config

import "time"

// LookupConfig tunes the batch lookup engine.
type LookupConfig struct {
	// SettleInterval is the wait between importing a transient contact and
	// reading the contact list back.
	SettleInterval time.Duration `env:"LOOKUP_SETTLE_INTERVAL" envDefault:"2s"`

	// ItemDelay is the default inter-item throttle. Submissions may override
	// it per task.
	ItemDelay time.Duration `env:"LOOKUP_ITEM_DELAY" envDefault:"500ms"`

	// ProgressEvery is the item cadence of progress webhook notifications.
	ProgressEvery int `env:"LOOKUP_PROGRESS_EVERY" envDefault:"5"`

	// ProgressTimeout bounds started/progress webhook deliveries.
	ProgressTimeout time.Duration `env:"LOOKUP_PROGRESS_TIMEOUT" envDefault:"12s"`

	// FinalTimeout bounds the final webhook delivery.
	FinalTimeout time.Duration `env:"LOOKUP_FINAL_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to lookup tuning values.
func (c *LookupConfig) Sanitize() {
	if c.SettleInterval <= 0 {
		c.SettleInterval = 2 * time.Second
	}
	if c.ItemDelay < 0 {
		c.ItemDelay = 0
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = 5
	}
	if c.ProgressTimeout <= 0 {
		c.ProgressTimeout = 12 * time.Second
	}
	if c.FinalTimeout <= 0 {
		c.FinalTimeout = 30 * time.Second
	}
}
