package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings, loaded from the environment with an
// optional .env overlay for local development.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Twilio     TwilioConfig
	OpenAI     OpenAIConfig
	AssemblyAI AssemblyAIConfig
	Call       CallConfig
	Transcript TranscriptConfig
}

type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"SERVER_PORT" default:"8080"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	PublicBaseURL   string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:""`
	Name        string `envconfig:"DB_NAME" default:"transcribeme"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	// Enabled switches the delivery guard onto Redis. When false an
	// in-process store is used, which is fine for a single instance but
	// loses the cross-restart guarantee.
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type TwilioConfig struct {
	AccountSID         string `envconfig:"TWILIO_ACCOUNT_SID" default:""`
	AuthToken          string `envconfig:"TWILIO_AUTH_TOKEN" default:""`
	PhoneNumber        string `envconfig:"TWILIO_PHONE_NUMBER" default:""`
	ValidateSignatures bool   `envconfig:"TWILIO_VALIDATE_SIGNATURES" default:"false"`
}

type OpenAIConfig struct {
	APIKey       string  `envconfig:"OPENAI_API_KEY" default:""`
	BaseURL      string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	ChatModel    string  `envconfig:"OPENAI_CHAT_MODEL" default:"gpt-3.5-turbo"`
	WhisperModel string  `envconfig:"OPENAI_WHISPER_MODEL" default:"whisper-1"`
	MaxTokens    int     `envconfig:"OPENAI_MAX_TOKENS" default:"1000"`
	Temperature  float32 `envconfig:"OPENAI_TEMPERATURE" default:"0.3"`
}

type AssemblyAIConfig struct {
	// APIKey enables the fallback transcription provider. Empty means the
	// pipeline runs with the primary provider only.
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
}

type CallConfig struct {
	MaxDurationSeconds  int      `envconfig:"CALL_MAX_DURATION_SECONDS" default:"300"`
	AllowedCountryCodes []string `envconfig:"CALL_ALLOWED_COUNTRY_CODES" default:"+64"`
}

type TranscriptConfig struct {
	RetentionDays   int           `envconfig:"TRANSCRIPT_RETENTION_DAYS" default:"7"`
	SweepInterval   time.Duration `envconfig:"TRANSCRIPT_SWEEP_INTERVAL" default:"1h"`
	TokenBytes      int           `envconfig:"TRANSCRIPT_TOKEN_BYTES" default:"32"`
	SummaryMaxChars int           `envconfig:"TRANSCRIPT_SUMMARY_MAX_CHARS" default:"100"`
}

// Load reads configuration from the environment, with .env as a local
// development overlay, and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, reading configuration from environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required settings. Provider credentials are only enforced
// in production so local development and tests can run against fakes.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.Twilio.AccountSID == "" {
			return fmt.Errorf("TWILIO_ACCOUNT_SID is required")
		}
		if c.Twilio.AuthToken == "" {
			return fmt.Errorf("TWILIO_AUTH_TOKEN is required")
		}
		if c.Twilio.PhoneNumber == "" {
			return fmt.Errorf("TWILIO_PHONE_NUMBER is required")
		}
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required")
		}
	}
	if c.Transcript.TokenBytes < 16 {
		return fmt.Errorf("TRANSCRIPT_TOKEN_BYTES must be at least 16")
	}
	if c.Transcript.RetentionDays < 1 {
		return fmt.Errorf("TRANSCRIPT_RETENTION_DAYS must be at least 1")
	}
	if c.Call.MaxDurationSeconds <= 0 {
		return fmt.Errorf("CALL_MAX_DURATION_SECONDS must be positive")
	}
	if len(c.Call.AllowedCountryCodes) == 0 {
		return fmt.Errorf("CALL_ALLOWED_COUNTRY_CODES must not be empty")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the PostgreSQL connection string.
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address in host:port format.
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// RetentionPeriod returns the transcript retention window as a duration.
func (c *Config) RetentionPeriod() time.Duration {
	return time.Duration(c.Transcript.RetentionDays) * 24 * time.Hour
}
