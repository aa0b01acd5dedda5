package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the full configuration surface for the service.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Agents    AgentsConfig    `mapstructure:"agents"`
	Phone     PhoneConfig     `mapstructure:"phone"`
	Dial      DialConfig      `mapstructure:"dial"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	AllowOrigins string        `mapstructure:"allow_origins"`
}

// ProviderConfig holds the voice/SMS vendor credentials and endpoints.
// APIKey is the combined "access_key:key_secret" credential, the single
// resolution point for both the dialer and the notifier.
type ProviderConfig struct {
	Name           string        `mapstructure:"name"`
	ProjectID      string        `mapstructure:"project_id"`
	APIKey         string        `mapstructure:"api_key"`
	PhoneNumber    string        `mapstructure:"phone_number"`
	CallingBaseURL string        `mapstructure:"calling_base_url"`
	SMSBaseURL     string        `mapstructure:"sms_base_url"`
	Locale         string        `mapstructure:"locale"`
	CallbackURL    string        `mapstructure:"callback_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AgentsConfig lists sales agent numbers in dial priority order.
type AgentsConfig struct {
	PhoneNumbers []string `mapstructure:"phone_numbers"`
}

type PhoneConfig struct {
	MinDigits   int    `mapstructure:"min_digits"`
	MaxDigits   int    `mapstructure:"max_digits"`
	CountryCode string `mapstructure:"country_code"`
	TrunkPrefix string `mapstructure:"trunk_prefix"`
}

type DialConfig struct {
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout"`
	OverallTimeout time.Duration `mapstructure:"overall_timeout"`
}

type MessagesConfig struct {
	Greeting    string `mapstructure:"greeting"`
	FallbackSMS string `mapstructure:"fallback_sms"`
}

type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type RateLimitConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxPerWindow int           `mapstructure:"max_per_window"`
	Window       time.Duration `mapstructure:"window"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

type KafkaConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	Brokers     []string `mapstructure:"brokers"`
	ClientID    string   `mapstructure:"client_id"`
	EventsTopic string   `mapstructure:"events_topic"`
}

type TelemetryConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ServiceName     string        `mapstructure:"service_name"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("CALLBACK")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	// The agent list may arrive as a JSON-encoded string through the
	// environment (CALLBACK_AGENTS_PHONE_NUMBERS='["+46...","+46..."]').
	if raw := strings.TrimSpace(v.GetString("agents.phone_numbers")); strings.HasPrefix(raw, "[") {
		var numbers []string
		if err := json.Unmarshal([]byte(raw), &numbers); err != nil {
			return nil, fmt.Errorf("config: failed to parse agents.phone_numbers: %w", err)
		}
		cfg.Agents.PhoneNumbers = numbers
	}

	return cfg, nil
}

// Validate reports missing or malformed required settings. A non-nil error
// must abort startup.
func (c *Config) Validate() error {
	var missing []string
	if c.Provider.Name != "mock" {
		if c.Provider.ProjectID == "" {
			missing = append(missing, "provider.project_id")
		}
		if c.Provider.APIKey == "" {
			missing = append(missing, "provider.api_key")
		}
		if c.Provider.PhoneNumber == "" {
			missing = append(missing, "provider.phone_number")
		}
	}
	if len(c.Agents.PhoneNumbers) == 0 {
		missing = append(missing, "agents.phone_numbers")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}

	if c.Provider.Name != "mock" && !strings.Contains(c.Provider.APIKey, ":") {
		return fmt.Errorf("config: provider.api_key must be on access_key:key_secret form")
	}
	if c.Phone.MinDigits > c.Phone.MaxDigits {
		return fmt.Errorf("config: phone.min_digits (%d) exceeds phone.max_digits (%d)", c.Phone.MinDigits, c.Phone.MaxDigits)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.enabled requires kafka.brokers")
	}
	if c.RateLimit.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("config: rate_limit.enabled requires redis.enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sales-callback")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "dev")

	v.SetDefault("http.port", 3001)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", time.Minute)
	v.SetDefault("http.allow_origins", "*")

	v.SetDefault("provider.name", "sinch")
	v.SetDefault("provider.calling_base_url", "https://calling.api.sinch.com")
	v.SetDefault("provider.sms_base_url", "https://sms.api.sinch.com")
	v.SetDefault("provider.locale", "sv-SE")
	v.SetDefault("provider.request_timeout", 10*time.Second)

	v.SetDefault("phone.min_digits", 8)
	v.SetDefault("phone.max_digits", 15)
	v.SetDefault("phone.country_code", "+46")
	v.SetDefault("phone.trunk_prefix", "0")

	v.SetDefault("dial.attempt_timeout", 10*time.Second)
	v.SetDefault("dial.overall_timeout", 45*time.Second)

	v.SetDefault("messages.greeting", "Hej! En kund väntar på att bli uppringd av en säljare.")
	v.SetDefault("messages.fallback_sms", "Hej! Tyvärr kunde ingen säljare svara just nu. Vi ringer upp dig så snart vi kan.")

	v.SetDefault("rate_limit.max_per_window", 3)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.key_prefix", "callback:submit:")

	v.SetDefault("kafka.client_id", "sales-callback")
	v.SetDefault("kafka.events_topic", "callback.events")

	v.SetDefault("telemetry.service_name", "sales-callback")
	v.SetDefault("telemetry.shutdown_timeout", 5*time.Second)
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
