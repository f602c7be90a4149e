package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
}

type ServerConfig struct {
	Port            uint16        `envconfig:"APP_PORT" default:"3000"`
	ReadTimeout     time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"15s"`
	StaticDir       string        `envconfig:"STATIC_DIR"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	MaxPurchaseQty  int           `envconfig:"MAX_PURCHASE_QUANTITY" default:"100"`
}

type PostgresConfig struct {
	DSN             string        `envconfig:"PG_DSN" required:"true"`
	MaxOpenConns    int           `envconfig:"PG_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `envconfig:"PG_CONN_MAX_IDLE_TIME" default:"1m"`
	ConnMaxLifetime time.Duration `envconfig:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

// RedisConfig is optional. An empty Addr disables the top-up reference guard.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	LockTTL  time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30s"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type BinanceConfig struct {
	APIKey     string        `envconfig:"BINANCE_API_KEY"`
	SecretKey  string        `envconfig:"BINANCE_SECRET_KEY"`
	BaseURL    string        `envconfig:"BINANCE_BASE_URL" default:"https://api.binance.com"`
	Timeout    time.Duration `envconfig:"BINANCE_TIMEOUT" default:"10s"`
	RecvWindow time.Duration `envconfig:"BINANCE_RECV_WINDOW" default:"10s"`
	ClockSkew  time.Duration `envconfig:"BINANCE_CLOCK_SKEW" default:"3s"`
}

type LogConfig struct {
	Level slog.Level `envconfig:"APP_LOG_LEVEL" default:"INFO"`
}

// Load fills dst (a pointer to a struct composed of the groups above) from the environment.
func Load(dst any) error {
	err := envconfig.Process("", dst)
	if err != nil {
		return fmt.Errorf("process env: %w", err)
	}

	return nil
}
