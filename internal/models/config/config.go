package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// AppConfig глобальная конфигурация приложения
var AppConfig *Config

// Config основной конфиг
type Config struct {
	Environment  string
	HTTP         HTTPConfig
	Bot          BotConfig
	Database     DatabaseConfig
	Log          LogConfig
	Subscription SubscriptionConfig
}

type HTTPConfig struct {
	Address         string
	Debug           bool
	ShutdownTimeout time.Duration
}

type BotConfig struct {
	Enabled  bool
	Token    string
	Debug    bool
	AdminIDs []int64 // telegram ids allowed to run admin commands
}

type LogConfig struct {
	Level string
}

type SubscriptionConfig struct {
	ExpiryDays int
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load загружает конфигурацию: defaults, then .env.<environment> if present, then ACADEMY_* env vars.
func Load() error {
	conf, err := newViper()
	if err != nil {
		return err
	}

	env := conf.GetString("environment")
	AppConfig = &Config{
		Environment: env,
		HTTP: HTTPConfig{
			Address:         conf.GetString("http.address"),
			Debug:           conf.GetBool("http.debug"),
			ShutdownTimeout: conf.GetDuration("http.shutdown_timeout"),
		},
		Bot: BotConfig{
			Enabled:  conf.GetBool("bot.enabled"),
			Token:    conf.GetString("bot.token"),
			Debug:    conf.GetBool("bot.debug"),
			AdminIDs: parseAdminIDs(conf.GetString("bot.admin_ids")),
		},
		Database: loadDatabaseConfig(conf),
		Log: LogConfig{
			Level: conf.GetString("log.level"),
		},
		Subscription: SubscriptionConfig{
			ExpiryDays: conf.GetInt("subscription.expiry_days"),
		},
	}

	return validate()
}

func newViper() (*viper.Viper, error) {
	conf := viper.New()

	conf.SetDefault("environment", "development")
	conf.SetDefault("http.address", ":8080")
	conf.SetDefault("http.debug", false)
	conf.SetDefault("http.shutdown_timeout", 10*time.Second)
	conf.SetDefault("bot.enabled", false)
	conf.SetDefault("bot.token", "")
	conf.SetDefault("bot.debug", false)
	conf.SetDefault("bot.admin_ids", "")
	conf.SetDefault("log.level", "info")
	conf.SetDefault("subscription.expiry_days", 60)
	setDatabaseDefaults(conf)

	conf.SetEnvPrefix("academy")
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	// load .env.<environment> if it exists (ignore if it does not)
	env := strings.ToLower(conf.GetString("environment"))
	dotEnvPath := filepath.Join(getEnv("ACADEMY_CONFIG_DIR", "config"), ".env."+env)
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	return conf, nil
}

// validate проверяет обязательные параметры
func validate() error {
	var problems []string

	if AppConfig.Bot.Enabled && AppConfig.Bot.Token == "" {
		problems = append(problems, "ACADEMY_BOT_TOKEN is required when the bot is enabled")
	}

	if AppConfig.Database.Username == "" {
		problems = append(problems, "ACADEMY_DB_USER is required")
	}

	if AppConfig.Database.Password == "" && AppConfig.IsProduction() {
		problems = append(problems, "ACADEMY_DB_PASSWORD is required in production")
	}

	if AppConfig.Subscription.ExpiryDays <= 0 {
		problems = append(problems, "ACADEMY_SUBSCRIPTION_EXPIRY_DAYS must be positive")
	}

	if len(problems) > 0 {
		return errors.Errorf("config validation failed: %s", strings.Join(problems, ", "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
