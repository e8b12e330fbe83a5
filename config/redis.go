package config

// RedisConfig contains Redis configuration for the account store.
type RedisConfig struct {
	// Enabled controls whether account records are persisted at all. When
	// false, attached sessions are lost on restart.
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// KeyPrefix namespaces account keys, useful when the instance is shared.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"account:"`
}
