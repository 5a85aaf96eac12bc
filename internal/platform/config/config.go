package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	AdminToken    string
	Redis         RedisConfig
	Tariff        TariffConfig
}

// RedisConfig holds connection tuning for the optional redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TariffConfig holds the band-classification parameters for tariff
// resolution: the daytime window and the fixed-date holiday calendar.
type TariffConfig struct {
	DayStartHour int
	DayEndHour   int
	// Holidays lists fixed calendar dates in "MM-DD" form. Weekends are
	// always holidays regardless of this list.
	Holidays []string
}

// StatsCacheTTL bounds staleness of cached statistics summaries.
var StatsCacheTTL = 30 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PARKGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "dev-admin-token"
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		AdminToken:    adminToken,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Tariff: TariffConfig{
			DayStartHour: envHour("TARIFF_DAY_START_HOUR", 6),
			DayEndHour:   envHour("TARIFF_DAY_END_HOUR", 22),
			Holidays:     envList("TARIFF_HOLIDAYS"),
		},
	}
}

func envHour(key string, fallback int) int {
	v := os.Getenv(key)
	if len(v) == 0 {
		return fallback
	}
	hour := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return fallback
		}
		hour = hour*10 + int(c-'0')
	}
	// 24 is a valid exclusive end-of-window hour
	if hour > 24 {
		return fallback
	}
	return hour
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
