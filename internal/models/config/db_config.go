package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig конфигурация БД
type DatabaseConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	ConnMaxIdle  time.Duration
}

func setDatabaseDefaults(conf *viper.Viper) {
	conf.SetDefault("db.host", "localhost")
	conf.SetDefault("db.port", 5432)
	conf.SetDefault("db.user", "")
	conf.SetDefault("db.password", "")
	conf.SetDefault("db.name", "sambo_academy")
	conf.SetDefault("db.sslmode", "")
	conf.SetDefault("db.max_open_conns", 10)
	conf.SetDefault("db.conn_max_idle", 5*time.Minute)
}

func loadDatabaseConfig(conf *viper.Viper) DatabaseConfig {
	sslMode := conf.GetString("db.sslmode")
	if sslMode == "" {
		sslMode = getSSLMode(conf.GetString("environment"))
	}
	return DatabaseConfig{
		Host:         conf.GetString("db.host"),
		Port:         conf.GetInt("db.port"),
		Username:     conf.GetString("db.user"),
		Password:     conf.GetString("db.password"),
		Name:         conf.GetString("db.name"),
		SSLMode:      sslMode,
		MaxOpenConns: conf.GetInt("db.max_open_conns"),
		ConnMaxIdle:  conf.GetDuration("db.conn_max_idle"),
	}
}

// DSN builds a lib/pq connection url.
func (c DatabaseConfig) DSN() string {
	q := make(url.Values)
	q.Set("sslmode", c.SSLMode)
	q.Set("timezone", "UTC")
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// getSSLMode возвращает режим SSL в зависимости от окружения
func getSSLMode(env string) string {
	if env == "production" {
		return "require" // В продакшене всегда SSL
	}
	return "disable" // В разработке можно отключить
}

// parseAdminIDs парсит список ID администраторов
func parseAdminIDs(ids string) []int64 {
	if ids == "" {
		return []int64{}
	}

	var result []int64
	for _, idStr := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}
