package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces all environment overrides (e.g. NSEPULSE_SERVER_PORT).
const envPrefix = "NSEPULSE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Engine    EngineConfig    `yaml:"engine" envconfig:"ENGINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/nsepulse.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// DataConfig locates the input series files
type DataConfig struct {
	StockFile string `yaml:"stock_file" envconfig:"STOCK_FILE" default:"data/bhavcopy.csv"`
	IndexFile string `yaml:"index_file" envconfig:"INDEX_FILE"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	WriteWait       time.Duration `yaml:"write_wait" envconfig:"WRITE_WAIT" default:"10s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// EngineConfig contains the analysis engine tuning
type EngineConfig struct {
	Weights        WeightsConfig `yaml:"weights" envconfig:"WEIGHTS"`
	MaxConcurrency int           `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4"`
}

// WeightsConfig holds the factor weights of the prediction synthesizer.
// Values must sum to 1.
type WeightsConfig struct {
	StockTechnicals   float64 `yaml:"stock_technicals" envconfig:"STOCK_TECHNICALS" default:"0.25"`
	MarketCorrelation float64 `yaml:"market_correlation" envconfig:"MARKET_CORRELATION" default:"0.20"`
	VolumePattern     float64 `yaml:"volume_pattern" envconfig:"VOLUME_PATTERN" default:"0.20"`
	DeliveryTrend     float64 `yaml:"delivery_trend" envconfig:"DELIVERY_TREND" default:"0.20"`
	MarketSentiment   float64 `yaml:"market_sentiment" envconfig:"MARKET_SENTIMENT" default:"0.15"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFromFile(configFilePath())
}

// LoadFromFile loads configuration with an explicit config file path. A
// missing file is not an error; environment variables still apply.
//
// Precedence: environment > file > default tag. envconfig runs once and
// resolves both defaults and environment values; the YAML file is then
// unmarshalled over the result, and fields whose environment variable is
// actually present are restored from the envconfig pass so the file cannot
// shadow them.
func LoadFromFile(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			envCfg := cfg
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			restoreEnvOverrides(&cfg, envCfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// restoreEnvOverrides puts environment values back on top of file values.
// envCfg holds the already-parsed envconfig run; a field is restored only
// when its variable is present in the environment, so fields the operator
// never exported keep the file's value.
func restoreEnvOverrides(cfg *Config, envCfg Config) {
	ifSet := func(name string, apply func()) {
		if _, ok := os.LookupEnv(envPrefix + "_" + name); ok {
			apply()
		}
	}

	ifSet("SERVER_PORT", func() { cfg.Server.Port = envCfg.Server.Port })
	ifSet("SERVER_READ_TIMEOUT", func() { cfg.Server.ReadTimeout = envCfg.Server.ReadTimeout })
	ifSet("SERVER_WRITE_TIMEOUT", func() { cfg.Server.WriteTimeout = envCfg.Server.WriteTimeout })
	ifSet("SERVER_IDLE_TIMEOUT", func() { cfg.Server.IdleTimeout = envCfg.Server.IdleTimeout })
	ifSet("SERVER_SHUTDOWN_TIMEOUT", func() { cfg.Server.ShutdownTimeout = envCfg.Server.ShutdownTimeout })
	ifSet("SERVER_REQUEST_TIMEOUT", func() { cfg.Server.RequestTimeout = envCfg.Server.RequestTimeout })

	ifSet("SECURITY_ALLOWED_ORIGINS", func() { cfg.Security.AllowedOrigins = envCfg.Security.AllowedOrigins })
	ifSet("SECURITY_ENABLE_CORS", func() { cfg.Security.EnableCORS = envCfg.Security.EnableCORS })
	ifSet("SECURITY_RATE_LIMIT_ENABLED", func() { cfg.Security.RateLimit.Enabled = envCfg.Security.RateLimit.Enabled })
	ifSet("SECURITY_RATE_LIMIT_RPS", func() { cfg.Security.RateLimit.RPS = envCfg.Security.RateLimit.RPS })
	ifSet("SECURITY_RATE_LIMIT_BURST", func() { cfg.Security.RateLimit.Burst = envCfg.Security.RateLimit.Burst })

	ifSet("LOGGING_LEVEL", func() { cfg.Logging.Level = envCfg.Logging.Level })
	ifSet("LOGGING_FORMAT", func() { cfg.Logging.Format = envCfg.Logging.Format })
	ifSet("LOGGING_OUTPUT", func() { cfg.Logging.Output = envCfg.Logging.Output })
	ifSet("LOGGING_FILE_PATH", func() { cfg.Logging.FilePath = envCfg.Logging.FilePath })
	ifSet("LOGGING_DEVELOPMENT", func() { cfg.Logging.Development = envCfg.Logging.Development })

	ifSet("DATA_STOCK_FILE", func() { cfg.Data.StockFile = envCfg.Data.StockFile })
	ifSet("DATA_INDEX_FILE", func() { cfg.Data.IndexFile = envCfg.Data.IndexFile })

	ifSet("WEBSOCKET_READ_BUFFER_SIZE", func() { cfg.WebSocket.ReadBufferSize = envCfg.WebSocket.ReadBufferSize })
	ifSet("WEBSOCKET_WRITE_BUFFER_SIZE", func() { cfg.WebSocket.WriteBufferSize = envCfg.WebSocket.WriteBufferSize })
	ifSet("WEBSOCKET_WRITE_WAIT", func() { cfg.WebSocket.WriteWait = envCfg.WebSocket.WriteWait })
	ifSet("WEBSOCKET_PONG_WAIT", func() { cfg.WebSocket.PongWait = envCfg.WebSocket.PongWait })

	ifSet("ENGINE_MAX_CONCURRENCY", func() { cfg.Engine.MaxConcurrency = envCfg.Engine.MaxConcurrency })
	ifSet("ENGINE_WEIGHTS_STOCK_TECHNICALS", func() { cfg.Engine.Weights.StockTechnicals = envCfg.Engine.Weights.StockTechnicals })
	ifSet("ENGINE_WEIGHTS_MARKET_CORRELATION", func() { cfg.Engine.Weights.MarketCorrelation = envCfg.Engine.Weights.MarketCorrelation })
	ifSet("ENGINE_WEIGHTS_VOLUME_PATTERN", func() { cfg.Engine.Weights.VolumePattern = envCfg.Engine.Weights.VolumePattern })
	ifSet("ENGINE_WEIGHTS_DELIVERY_TREND", func() { cfg.Engine.Weights.DeliveryTrend = envCfg.Engine.Weights.DeliveryTrend })
	ifSet("ENGINE_WEIGHTS_MARKET_SENTIMENT", func() { cfg.Engine.Weights.MarketSentiment = envCfg.Engine.Weights.MarketSentiment })
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if path := os.Getenv(envPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	return "nsepulse.yaml"
}

// validate checks the loaded configuration for consistency.
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %f", c.Security.RateLimit.RPS)
	}
	if c.Engine.MaxConcurrency < 1 {
		return fmt.Errorf("engine max_concurrency must be at least 1, got %d", c.Engine.MaxConcurrency)
	}
	if err := c.Engine.Weights.validate(); err != nil {
		return err
	}
	if c.Data.StockFile == "" {
		return fmt.Errorf("data stock_file is required")
	}
	return nil
}

// validate checks that the weights form a proper convex combination.
func (w WeightsConfig) validate() error {
	values := []float64{
		w.StockTechnicals, w.MarketCorrelation, w.VolumePattern,
		w.DeliveryTrend, w.MarketSentiment,
	}
	sum := 0.0
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("factor weights must be non-negative")
		}
		sum += v
	}
	if sum < 0.99 || sum > 1.01 {
		return fmt.Errorf("factor weights must sum to 1, got %.3f", sum)
	}
	return nil
}
