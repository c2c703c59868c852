package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"savingsadmin/internal/logger"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Storage StorageConfig `mapstructure:"storage"`
	Token   TokenConfig   `mapstructure:"token"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Fees    FeesConfig    `mapstructure:"fees"`
	Sync    SyncConfig    `mapstructure:"sync"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type DBConfig struct {
	DatabaseURL        string        `mapstructure:"databaseURL"`
	MaxOpenConnection  int           `mapstructure:"maxOpenConnection"`
	MaxIdleConnection  int           `mapstructure:"maxIdleConnection"`
	ConnectionLifetime time.Duration `mapstructure:"connectionLifetime"`
	RunMigrations      bool          `mapstructure:"runMigrations"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type TokenConfig struct {
	AuthToken string `mapstructure:"authToken"`
}

type LoggerConfig struct {
	LoggerLevel string `mapstructure:"loggerLevel"`
	Pretty      bool   `mapstructure:"pretty"`
}

type GatewayConfig struct {
	BaseURL             string        `mapstructure:"baseURL"`
	APIKey              string        `mapstructure:"apiKey"`
	SecretKey           string        `mapstructure:"secretKey"`
	WalletAccountNumber string        `mapstructure:"walletAccountNumber"`
	Currency            string        `mapstructure:"currency"`
	Timeout             time.Duration `mapstructure:"timeout"`
	TokenTTL            time.Duration `mapstructure:"tokenTTL"`
}

type FeesConfig struct {
	DefaultCompletedPlanPercentage float64 `mapstructure:"defaultCompletedPlanPercentage"`
	DefaultBrokenPlanPercentage    float64 `mapstructure:"defaultBrokenPlanPercentage"`
}

type SyncConfig struct {
	MaxConcurrency int `mapstructure:"maxConcurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 15*time.Second)
	v.SetDefault("server.writeTimeout", 60*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("db.databaseURL", "")
	v.SetDefault("db.maxOpenConnection", 15)
	v.SetDefault("db.maxIdleConnection", 10)
	v.SetDefault("db.connectionLifetime", time.Hour)
	v.SetDefault("db.runMigrations", true)

	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("token.authToken", "")
	v.SetDefault("logger.loggerLevel", "info")
	v.SetDefault("logger.pretty", false)

	v.SetDefault("gateway.baseURL", "https://sandbox.monnify.com")
	v.SetDefault("gateway.apiKey", "")
	v.SetDefault("gateway.secretKey", "")
	v.SetDefault("gateway.walletAccountNumber", "")
	v.SetDefault("gateway.currency", "NGN")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.tokenTTL", 55*time.Minute)

	v.SetDefault("fees.defaultCompletedPlanPercentage", 10)
	v.SetDefault("fees.defaultBrokenPlanPercentage", 20)

	v.SetDefault("sync.maxConcurrency", 4)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg(".env not loaded")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./internal/config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		logger.Info().Msg("config file not found, using defaults and environment")
	} else {
		logger.Info().Str("file", v.ConfigFileUsed()).Msg("using config file")
	}

	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres":
		if c.DB.DatabaseURL == "" {
			return errors.New("db.databaseURL is required for the postgres storage driver")
		}
		// each sync worker pins a connection for its advisory lock and needs a
		// second one for its queries; one more is left for API traffic
		if n := c.DB.MaxOpenConnection; n > 0 && 2*c.Sync.MaxConcurrency >= n {
			return fmt.Errorf("sync.maxConcurrency %d needs db.maxOpenConnection above %d, got %d",
				c.Sync.MaxConcurrency, 2*c.Sync.MaxConcurrency, n)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Sync.MaxConcurrency < 1 {
		return errors.New("sync.maxConcurrency must be at least 1")
	}
	if c.Token.AuthToken == "" {
		return errors.New("token.authToken is required")
	}
	for name, pct := range map[string]float64{
		"fees.defaultCompletedPlanPercentage": c.Fees.DefaultCompletedPlanPercentage,
		"fees.defaultBrokenPlanPercentage":    c.Fees.DefaultBrokenPlanPercentage,
	} {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%s must be between 0 and 100", name)
		}
	}
	return nil
}
