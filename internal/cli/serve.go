package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/meeting-room-scheduler/internal/config"
	"github.com/iliyamo/meeting-room-scheduler/internal/handler"
	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/metrics"
	"github.com/iliyamo/meeting-room-scheduler/internal/middleware"
	"github.com/iliyamo/meeting-room-scheduler/internal/router"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New("server")

	rec, err := metrics.NewPromRecorder(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, nil, service.Options{Metrics: rec})
	if err != nil {
		return err
	}
	defer a.Close()

	secret := cfg.JWTSecret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return err
		}
		log.Warnf("ROOM_JWT_SECRET not set; issued tokens will not survive a restart")
	}

	e := newEcho(log)
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(a.gate, secret, cfg.AccessTTLMin, logger.New("auth")), secret, a.gate)
	router.RegisterReservations(e, handler.NewReservationHandler(a.bookings, logger.New("http")), secret, a.gate, rateLimiter(ctx, a, log))

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Infof("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.Store.Backend)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newEcho(log logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.Debugw("request", map[string]any{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			return nil
		},
	}))
	return e
}

// rateLimiter guards booking submissions with the Redis token bucket.  It
// reuses the store's client when the store runs on Redis and otherwise
// dials Redis on its own; without Redis the limiter is off.
func rateLimiter(ctx context.Context, a *app, log logger.Logger) echo.MiddlewareFunc {
	rl := a.cfg.RateLimit
	if !rl.Enabled {
		return nil
	}
	rdb := a.rdb
	if rdb == nil {
		c, err := config.NewRedisClient(ctx)
		if err != nil {
			log.Warnf("rate limiting disabled: %v", err)
			return nil
		}
		a.closers = append(a.closers, c.Close)
		rdb = c
	}
	return middleware.NewTokenBucket(rl, rdb, logger.New("ratelimit"))
}
