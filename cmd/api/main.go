package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"nutricheck/internal/adapters/campusdish"
	server "nutricheck/internal/adapters/http_server"
	"nutricheck/internal/adapters/memcache"
	"nutricheck/internal/adapters/observability"
	redisad "nutricheck/internal/adapters/redis"
	"nutricheck/internal/app"
	"nutricheck/internal/domain"
	"nutricheck/internal/shared"
	mysqlrepo "nutricheck/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// optional miss log
	var (
		misses domain.MissLogger
		reader domain.MissReader
	)
	if cfg.MySQLDSN != "" {
		dsn, err := mysqlrepo.DSN(cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid MYSQL_DSN")
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		misses, reader = repo, repo
	}

	// admin lockout state
	var store domain.Cache = memcache.New()
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "nutricheck:")
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
		}
		cancel()
		store = rc
	}

	// deps
	client := campusdish.New(campusdish.Options{
		Base:     cfg.CampusDishBase,
		Username: cfg.CampusDishUser,
		Password: cfg.CampusDishPass,
		AuthMode: cfg.CampusDishAuthMode,
		Timeout:  cfg.UpstreamTimeout,
		RPS:      cfg.UpstreamRPS,
	})
	norm := app.NewNormalizer(app.NormalizerOptions{SourceTag: cfg.SourceTag, MaxDepth: cfg.SearchDepth})
	menu := app.NewMenuService(client, norm, misses)
	gate := app.NewPasscodeGate(store, app.GateOptions{
		Passcode:    cfg.AdminPasscode,
		MaxAttempts: cfg.AdminMaxAttempts,
		Lockout:     cfg.AdminLockout,
	})

	// http
	srv := server.New(cfg.UpstreamTimeout + 3*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Menu: menu, Gate: gate, Misses: reader})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
