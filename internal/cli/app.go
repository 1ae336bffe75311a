package cli

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/meeting-room-scheduler/internal/config"
	"github.com/iliyamo/meeting-room-scheduler/internal/database"
	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/queue"
	"github.com/iliyamo/meeting-room-scheduler/internal/repository"
	"github.com/iliyamo/meeting-room-scheduler/internal/schedule"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
	"github.com/iliyamo/meeting-room-scheduler/internal/storage"
)

// app is the wired core shared by the subcommands.
type app struct {
	cfg      *config.Config
	rdb      *redis.Client // set when the store runs on Redis
	gate     *service.Gate
	bookings *service.BookingService
	closers  []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// openKV connects the configured key-value backend.
func (a *app) openKV(ctx context.Context, log logger.Logger) (storage.KV, error) {
	switch a.cfg.Store.Backend {
	case "memory":
		log.Warnf("using in-memory store; reservations are lost on exit")
		return storage.NewMemoryKV(), nil
	case "mysql":
		m := a.cfg.MySQL
		db, err := database.Open(ctx, database.Options{User: m.User, Password: m.Password, Host: m.Host, Port: m.Port, Name: m.Name})
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		kv := storage.NewMySQLKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("create kv_store: %w", err)
		}
		return kv, nil
	default:
		rdb, err := config.NewRedisClient(ctx)
		if err != nil {
			return nil, err
		}
		a.rdb = rdb
		a.closers = append(a.closers, rdb.Close)
		return storage.NewRedisKV(rdb), nil
	}
}

// newApp loads the persisted state and builds the booking service.
// clock may be nil for the system clock.
func newApp(ctx context.Context, cfg *config.Config, clock schedule.Clock, opts service.Options) (*app, error) {
	a := &app{cfg: cfg}
	kv, err := a.openKV(ctx, logger.New("store"))
	if err != nil {
		a.Close()
		return nil, err
	}
	adapter := storage.NewKVAdapter(kv, cfg.Store.Prefix)

	repo, err := repository.NewReservationRepo(ctx, adapter, logger.New("repository"))
	if err != nil {
		a.Close()
		return nil, err
	}
	gate, err := service.NewGate(ctx, adapter, cfg.Domain, logger.New("gate"))
	if err != nil {
		a.Close()
		return nil, err
	}

	opts.Hours = &service.Hours{Opening: cfg.OpeningHour, Closing: cfg.ClosingHour}
	opts.Clock = clock
	if opts.Logger == nil {
		opts.Logger = logger.New("booking")
	}
	if opts.Events == nil && cfg.Audit.URL != "" {
		opts.Events = queue.NewAMQPPublisher(cfg.Audit.URL, cfg.Audit.Queue, logger.New("audit"))
	}
	a.gate = gate
	a.bookings = service.NewBookingService(repo, gate, opts)
	return a, nil
}

// randomSecret is used when no JWT secret is configured.  Tokens then
// stop verifying after a restart, which only forces staff to log in again.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
