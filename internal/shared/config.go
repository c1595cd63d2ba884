package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string // empty disables the miss log
	RedisAddr   string // empty keeps admin state in memory
	RedisDB     int
	RedisPass   string

	CampusDishBase     string
	CampusDishUser     string
	CampusDishPass     string
	CampusDishAuthMode string
	UpstreamTimeout    time.Duration
	UpstreamRPS        int

	SourceTag   string
	SearchDepth int

	AdminPasscode    string
	AdminMaxAttempts int
	AdminLockout     time.Duration

	ProbeLocations []string
	ProbeWorkers   int
}

// Load reads the environment, after merging a .env file if one exists.
// Upstream credentials are not required here; every menu request checks them.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", ""),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		CampusDishBase:     env("CAMPUSDISH_BASE_URL", "https://ualberta.campusdish.com"),
		CampusDishUser:     env("CAMPUSDISH_USERNAME", ""),
		CampusDishPass:     env("CAMPUSDISH_PASSWORD", ""),
		CampusDishAuthMode: env("CAMPUSDISH_AUTH_MODE", "basic"),
		UpstreamTimeout:    time.Duration(atoi("CAMPUSDISH_TIMEOUT_SECONDS", 12)) * time.Second,
		UpstreamRPS:        atoi("CAMPUSDISH_RPS", 5),

		SourceTag:   env("MENU_SOURCE_TAG", "alberta"),
		SearchDepth: atoi("MENU_SEARCH_DEPTH", 10),

		AdminPasscode:    env("ADMIN_PASSCODE", ""),
		AdminMaxAttempts: atoi("ADMIN_MAX_ATTEMPTS", 3),
		AdminLockout:     time.Duration(atoi("ADMIN_LOCKOUT_SECONDS", 300)) * time.Second,

		ProbeLocations: list(env("PROBE_LOCATIONS", "")),
		ProbeWorkers:   atoi("PROBE_WORKERS", 4),
	}
	if c.CampusDishUser == "" || c.CampusDishPass == "" {
		log.Warn().Msg("CAMPUSDISH_USERNAME or CAMPUSDISH_PASSWORD is empty; menu requests will fail")
	}
	if c.AdminPasscode == "" {
		log.Warn().Msg("ADMIN_PASSCODE is empty; admin gate disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
