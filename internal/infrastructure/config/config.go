package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Identity  IdentityConfig
	Sync      SyncConfig
	Platforms PlatformsConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// IdentityConfig holds the salts for one-way PII hashing. Changing a
// salt orphans every previously stored digest, so treat them as
// permanent once set.
type IdentityConfig struct {
	PhoneSalt string
	EmailSalt string
}

// SyncConfig holds ETL scheduling and pipeline configuration
type SyncConfig struct {
	// IntervalMinutes is how often the timer fires a full cycle
	IntervalMinutes int
	// Parallel runs platform pipelines concurrently within a cycle
	Parallel bool
	// PageSize is the per-request page size for platform pulls
	PageSize int
	// MaxPages caps pagination per date as a runaway guard
	MaxPages int
	// LookbackDays seeds the pull window when no watermark exists
	LookbackDays int
	// RunTimeout bounds a single platform run; zero means no limit
	RunTimeout time.Duration
	// HealthWindowSize is the number of recent runs considered for health
	HealthWindowSize int
	// HealthMinSamples is the minimum runs before health is judged
	HealthMinSamples int
	// HealthFailureThreshold is the failure ratio that marks a platform unhealthy
	HealthFailureThreshold float64
}

// PlatformsConfig holds per-platform API credentials and switches
type PlatformsConfig struct {
	Shopee   ShopeePlatformConfig
	TikTok   TikTokPlatformConfig
	Facebook FacebookPlatformConfig
}

// ShopeePlatformConfig holds Shopee order API settings
type ShopeePlatformConfig struct {
	Enabled        bool
	APIBaseURL     string
	PartnerID      string
	PartnerKey     string
	ShopID         string
	TimeoutSeconds int
}

// TikTokPlatformConfig holds TikTok Shop order API settings
type TikTokPlatformConfig struct {
	Enabled        bool
	APIBaseURL     string
	AppKey         string
	AccessToken    string
	ShopCipher     string
	TimeoutSeconds int
}

// FacebookPlatformConfig holds Pancake POS order API settings
type FacebookPlatformConfig struct {
	Enabled        bool
	APIBaseURL     string
	APIKey         string
	ShopID         string
	TimeoutSeconds int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ORDERHUB_ prefix (e.g., ORDERHUB_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("ORDERHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Identity: IdentityConfig{
			PhoneSalt: v.GetString("identity.phone_salt"),
			EmailSalt: v.GetString("identity.email_salt"),
		},
		Sync: SyncConfig{
			IntervalMinutes:        v.GetInt("sync.interval_minutes"),
			Parallel:               v.GetBool("sync.parallel"),
			PageSize:               v.GetInt("sync.page_size"),
			MaxPages:               v.GetInt("sync.max_pages"),
			LookbackDays:           v.GetInt("sync.lookback_days"),
			RunTimeout:             v.GetDuration("sync.run_timeout"),
			HealthWindowSize:       v.GetInt("sync.health_window_size"),
			HealthMinSamples:       v.GetInt("sync.health_min_samples"),
			HealthFailureThreshold: v.GetFloat64("sync.health_failure_threshold"),
		},
		Platforms: PlatformsConfig{
			Shopee: ShopeePlatformConfig{
				Enabled:        v.GetBool("platforms.shopee.enabled"),
				APIBaseURL:     v.GetString("platforms.shopee.api_base_url"),
				PartnerID:      v.GetString("platforms.shopee.partner_id"),
				PartnerKey:     v.GetString("platforms.shopee.partner_key"),
				ShopID:         v.GetString("platforms.shopee.shop_id"),
				TimeoutSeconds: v.GetInt("platforms.shopee.timeout_seconds"),
			},
			TikTok: TikTokPlatformConfig{
				Enabled:        v.GetBool("platforms.tiktok.enabled"),
				APIBaseURL:     v.GetString("platforms.tiktok.api_base_url"),
				AppKey:         v.GetString("platforms.tiktok.app_key"),
				AccessToken:    v.GetString("platforms.tiktok.access_token"),
				ShopCipher:     v.GetString("platforms.tiktok.shop_cipher"),
				TimeoutSeconds: v.GetInt("platforms.tiktok.timeout_seconds"),
			},
			Facebook: FacebookPlatformConfig{
				Enabled:        v.GetBool("platforms.facebook.enabled"),
				APIBaseURL:     v.GetString("platforms.facebook.api_base_url"),
				APIKey:         v.GetString("platforms.facebook.api_key"),
				ShopID:         v.GetString("platforms.facebook.shop_id"),
				TimeoutSeconds: v.GetInt("platforms.facebook.timeout_seconds"),
			},
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "orderhub-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "orderhub"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.Sync.IntervalMinutes == 0 {
		cfg.Sync.IntervalMinutes = 15
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = 50
	}
	if cfg.Sync.MaxPages == 0 {
		cfg.Sync.MaxPages = 200
	}
	if cfg.Sync.LookbackDays == 0 {
		cfg.Sync.LookbackDays = 3
	}
	if cfg.Sync.RunTimeout == 0 {
		cfg.Sync.RunTimeout = 10 * time.Minute
	}
	if cfg.Sync.HealthWindowSize == 0 {
		cfg.Sync.HealthWindowSize = 10
	}
	if cfg.Sync.HealthMinSamples == 0 {
		cfg.Sync.HealthMinSamples = 3
	}
	if cfg.Sync.HealthFailureThreshold == 0 {
		cfg.Sync.HealthFailureThreshold = 0.5
	}
	if cfg.Platforms.Shopee.TimeoutSeconds == 0 {
		cfg.Platforms.Shopee.TimeoutSeconds = 30
	}
	if cfg.Platforms.TikTok.TimeoutSeconds == 0 {
		cfg.Platforms.TikTok.TimeoutSeconds = 30
	}
	if cfg.Platforms.Facebook.TimeoutSeconds == 0 {
		cfg.Platforms.Facebook.TimeoutSeconds = 30
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Sync.HealthFailureThreshold < 0.0 || c.Sync.HealthFailureThreshold > 1.0 {
		return fmt.Errorf("sync.health_failure_threshold must be between 0.0 and 1.0, got %f", c.Sync.HealthFailureThreshold)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Identity.PhoneSalt == "" || c.Identity.EmailSalt == "" {
			return fmt.Errorf("identity.phone_salt and identity.email_salt are required in production")
		}
		if len(c.Identity.PhoneSalt) < 16 || len(c.Identity.EmailSalt) < 16 {
			return fmt.Errorf("identity salts must be at least 16 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
