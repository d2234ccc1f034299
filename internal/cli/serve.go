package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/handler"
	"github.com/iliyamo/timeclock/internal/middleware"
	"github.com/iliyamo/timeclock/internal/queue"
	"github.com/iliyamo/timeclock/internal/router"
	"github.com/iliyamo/timeclock/internal/service"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var events attendance.EventPublisher
	if cfg.RabbitURL != "" {
		events = service.NewPublisher(cfg.RabbitURL)
		go func() {
			if err := queue.StartPunchConsumer(ctx, cfg.RabbitURL, queue.DefaultLogPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("punch-consumer: stopped: %v", err)
			}
		}()
	} else {
		log.Printf("rabbitmq: RABBITMQ_URL not set, punch events disabled")
	}

	e := newServer(a, events)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s, tz=%s)", addr, cfg.Env, cfg.DBDriver, a.evaluator.Location)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdown)
	}()
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServer builds the echo instance with every route registered.
func newServer(a *app, events attendance.EventPublisher) *echo.Echo {
	cfg := a.cfg
	punches := attendance.NewPunchService(a.evaluator, a.punches, events)
	auth := attendance.NewAuthenticator(a.dir, cfg.BcryptCost)
	employees := attendance.NewEmployeeService(a.dir, cfg.BcryptCost)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, response cache and rate limit disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret))

	router.RegisterRoutes(e, a.db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, auth, a.dir, a.tokens), cfg.JWTSecret)
	router.RegisterEmployee(e, handler.NewPunchHandler(punches, a.punches), cfg.JWTSecret)
	router.RegisterAdmin(e,
		handler.NewAdminHandler(punches, a.punches, a.dir, employees, a.importer()),
		cfg.JWTSecret,
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	return e
}
