package config

import (
	"strings"
	"time"
)

// TelegramConfig groups the MTProto session bridge settings and the optional
// ops alerting bot.
type TelegramConfig struct {
	// BridgeURL is the root endpoint of the session bridge sidecar. Empty in
	// dev mode falls back to the in-memory session dialer.
	BridgeURL string `env:"TELEGRAM_BRIDGE_URL" envDefault:""`

	// BridgeTimeout bounds every bridge call.
	BridgeTimeout time.Duration `env:"TELEGRAM_BRIDGE_TIMEOUT" envDefault:"35s"`

	// OpsBotToken is the Bot API token used for task failure alerts.
	// Alerting is disabled when the token or chat id is empty.
	OpsBotToken string `env:"TELEGRAM_OPS_BOT_TOKEN" envDefault:""`

	// OpsChatID is the chat that receives task failure alerts.
	OpsChatID int64 `env:"TELEGRAM_OPS_CHAT_ID" envDefault:"0"`
}

// Sanitize normalises bridge and alerting values.
func (c *TelegramConfig) Sanitize() {
	c.BridgeURL = strings.TrimRight(strings.TrimSpace(c.BridgeURL), "/")
	c.OpsBotToken = strings.TrimSpace(c.OpsBotToken)
	if c.BridgeTimeout <= 0 {
		c.BridgeTimeout = 35 * time.Second
	}
}

// OpsAlertsEnabled returns true when failure alerting is fully configured.
func (c *TelegramConfig) OpsAlertsEnabled() bool {
	return c.OpsBotToken != "" && c.OpsChatID != 0
}
