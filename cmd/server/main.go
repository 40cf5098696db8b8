package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_api/internal/middleware/logging"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/session"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.SecretKey, "SECRET_KEY")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store, closeStore := sessionStore(cfg, gdb)
	sessions := &session.Manager{
		Store:      store,
		Secret:     cfg.SecretKey,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.CookieSecure,
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		topicCtx, topicCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := events.EnsureTopics(topicCtx, cfg.KafkaBrokers[0], events.TopicUser, events.TopicProduct, events.TopicCart); err != nil {
			logger.Warn("kafka_ensure_topics_failed", "error", err)
		}
		topicCancel()
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	r := repo.New(gdb)
	index := searchIndex(cfg, r, logger)
	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(m.Middleware)
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Sessions: sessions, Events: publisher}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Index: index, Events: publisher}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: publisher}},
		SessionAuth:    auth.NewSessionAuth(sessions, r),
		Metrics:        m,
		Ready: func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if closeStore != nil {
		if err := closeStore(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func sessionStore(cfg config.Config, gdb *gorm.DB) (session.Store, func() error) {
	switch cfg.SessionStore {
	case "redis":
		config.MustNonEmpty(cfg.RedisAddr, "REDIS_ADDR")
		rs := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		return rs, rs.Close
	case "db", "":
		return &session.GormStore{DB: gdb}, nil
	default:
		log.Fatalf("unknown SESSION_STORE %q", cfg.SessionStore)
		return nil, nil
	}
}

// searchIndex returns the Elasticsearch index when ES_URL is set and
// reachable, otherwise the database LIKE search.
func searchIndex(cfg config.Config, r *repo.GormRepo, logger *slog.Logger) search.Index {
	fallback := search.DBIndex{Repo: r}
	if cfg.ESURL == "" {
		return fallback
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		logger.Error("elasticsearch_unavailable", "url", cfg.ESURL, "error", err)
		return fallback
	}
	idx := &search.ESIndex{Client: client, Index: cfg.ESIndex}
	if err := idx.EnsureIndex(ctx); err != nil {
		logger.Error("elasticsearch_index_failed", "index", cfg.ESIndex, "error", err)
		return fallback
	}
	logger.Info("elasticsearch_enabled", "url", cfg.ESURL, "index", cfg.ESIndex)
	return idx
}
