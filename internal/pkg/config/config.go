package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

const MinSelectionTokenTTLHours = 2

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Selection SelectionConfig
	Deposit   DepositConfig
	Stripe    StripeConfig
	Queue     QueueConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
	// Issuer is enforced only when set.
	Issuer   string `envconfig:"JWT_ISSUER"`
}

type SelectionConfig struct {
	LinkBaseURL    string `envconfig:"SELECTION_LINK_BASE_URL" required:"true"`
	TokenTTLHours  int    `envconfig:"SELECTION_TOKEN_TTL_HOURS" default:"72"`
	ResourceType   string `envconfig:"SELECTION_RESOURCE_TYPE" default:"trip"`
	DefaultLang    string `envconfig:"SELECTION_DEFAULT_LANG" default:"en"`
	// MaxDateOptions may lower the cap of three; higher values are clamped when dates are validated.
	MaxDateOptions int    `envconfig:"SELECTION_MAX_DATE_OPTIONS" default:"3"`
}

// TokenTTL clamps the configured hours to the floor.
func (c SelectionConfig) TokenTTL() time.Duration {
	hours := c.TokenTTLHours
	if hours < MinSelectionTokenTTLHours {
		hours = MinSelectionTokenTTLHours
	}
	return time.Duration(hours) * time.Hour
}

type DepositConfig struct {
	Enabled    bool   `envconfig:"DEPOSIT_ENABLED" default:"true"`
	SuccessURL string `envconfig:"DEPOSIT_SUCCESS_URL" default:"http://localhost:3000/deposit/success"`
	CancelURL  string `envconfig:"DEPOSIT_CANCEL_URL" default:"http://localhost:3000/deposit/cancel"`
}

type StripeConfig struct {
	SecretKey  string        `envconfig:"STRIPE_SECRET_KEY"`
	MaxRetries uint64        `envconfig:"STRIPE_MAX_RETRIES" default:"3"`
	MaxElapsed time.Duration `envconfig:"STRIPE_MAX_ELAPSED" default:"10s"`
}

type QueueConfig struct {
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	Concurrency   int           `envconfig:"WORKER_CONCURRENCY" default:"10"`
	// outbox relay run by the worker
	RelayInterval time.Duration `envconfig:"OUTBOX_RELAY_INTERVAL" default:"30s"`
	RelayGrace    time.Duration `envconfig:"OUTBOX_RELAY_GRACE" default:"1m"`
	RelayBatch    int           `envconfig:"OUTBOX_RELAY_BATCH" default:"100"`
}

type RateLimitConfig struct {
	PublicPerMinute int `envconfig:"PUBLIC_RATE_PER_MINUTE" default:"60"`
	PublicBurst     int `envconfig:"PUBLIC_RATE_BURST" default:"10"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// .env is optional; real environments inject variables directly
	_ = godotenv.Load()

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Selection: SelectionConfig{
			LinkBaseURL:    "https://example.test/trip/select-date",
			TokenTTLHours:  72,
			ResourceType:   "trip",
			DefaultLang:    "en",
			MaxDateOptions: 3,
		},
		Deposit: DepositConfig{
			Enabled:    true,
			SuccessURL: "https://example.test/deposit/success",
			CancelURL:  "https://example.test/deposit/cancel",
		},
		Stripe: StripeConfig{
			MaxRetries: 1,
			MaxElapsed: time.Second,
		},
		Queue: QueueConfig{
			Concurrency:   2,
			RelayInterval: time.Second,
			RelayGrace:    time.Minute,
			RelayBatch:    50,
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute: 600,
			PublicBurst:     100,
		},
	}
}
