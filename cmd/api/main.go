package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openbrick/brick-ledger/internal/adapter"
	"github.com/openbrick/brick-ledger/internal/api/middleware"
	"github.com/openbrick/brick-ledger/internal/api/server"
	"github.com/openbrick/brick-ledger/internal/config"
	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/ledger"
	"github.com/openbrick/brick-ledger/internal/logger"
	"github.com/openbrick/brick-ledger/internal/messaging"
	"github.com/openbrick/brick-ledger/internal/providers/jetstream"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/webhook"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "ledger-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "starting brick ledger API")

	// Persistence. Demo mode keeps everything in memory.
	var dataStore store.Store
	if cfg.Ledger.PersistenceDisabled {
		logger.WarnCtx(ctx, "persistence disabled, ledger state is in-memory only")
	} else {
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		if err != nil {
			logger.FatalCtx(ctx, "failed to connect to database", zap.Error(err))
		}
		if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
			logger.FatalCtx(ctx, "failed to configure connection pool", zap.Error(err))
		}
		if err := store.Migrate(db); err != nil {
			logger.FatalCtx(ctx, "failed to migrate database", zap.Error(err))
		}
		logger.InfoCtx(ctx, "connected to database",
			zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
			zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		)
		dataStore = store.NewPGStore(db)
	}

	// Event fan-out: NATS JetStream plus registered webhook clients
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), adapter.NewJSON())
		if err != nil {
			logger.FatalCtx(ctx, "failed to create NATS publisher", zap.Error(err))
		}
		defer publisher.Close()
		logger.InfoCtx(ctx, "connected to NATS", zap.String("url", cfg.NATS.URL))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, events will not be published")
	}

	var dispatcher *webhook.Dispatcher
	if dataStore != nil {
		dispatcher = webhook.NewDispatcher(dataStore, webhook.Config{
			DeliveryTimeout: cfg.Webhook.DeliveryTimeout,
			MaxRetries:      cfg.Webhook.MaxRetries,
		})
		dispatcher.Start()
		defer dispatcher.Stop()
	}

	sink := func(event domain.LedgerEvent) {
		if publisher != nil {
			go func() {
				pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer pubCancel()
				if err := publisher.PublishEvent(pubCtx, &event); err != nil {
					logger.Error(err, zap.String("event_id", event.EventID))
				}
			}()
		}
		if dispatcher != nil {
			dispatcher.Dispatch(event)
		}
	}

	// Build the engine and restore persisted state
	reporters := make([]domain.Account, 0, len(cfg.Ledger.DisasterReporters))
	for _, r := range cfg.Ledger.DisasterReporters {
		reporters = append(reporters, domain.NormalizeAccount(r))
	}

	engineOpts := []ledger.Option{ledger.WithEventSink(sink)}
	if dataStore != nil {
		engineOpts = append(engineOpts, ledger.WithStore(dataStore))
	}

	engine, err := ledger.New(ledger.Config{
		Admin:             domain.NormalizeAccount(cfg.Ledger.AdminAccount),
		FeeRecipient:      domain.NormalizeAccount(cfg.Ledger.FeeRecipient),
		SupplyCap:         cfg.Ledger.SupplyCap,
		FeeBps:            cfg.Ledger.FeeBps,
		MinInvestment:     cfg.Ledger.MinInvestment,
		MaxOrderDays:      cfg.Ledger.MaxOrderDays,
		VotingPeriod:      cfg.Ledger.VotingPeriod,
		ProposalThreshold: cfg.Ledger.ProposalThreshold,
		VotingThreshold:   cfg.Ledger.VotingThreshold,
		QuorumBps:         cfg.Ledger.QuorumBps,
		FaucetEnabled:     cfg.Ledger.FaucetEnabled,
		FaucetAmount:      cfg.Ledger.FaucetAmount,
		FaucetCooldown:    cfg.Ledger.FaucetCooldown,
		DisasterReporters: reporters,
	}, engineOpts...)
	if err != nil {
		logger.FatalCtx(ctx, "failed to create ledger engine", zap.Error(err))
	}

	if dataStore != nil {
		snapshot, err := dataStore.LoadState(ctx)
		if err != nil {
			logger.FatalCtx(ctx, "failed to load ledger state", zap.Error(err))
		}
		if err := engine.Restore(snapshot); err != nil {
			logger.FatalCtx(ctx, "failed to restore ledger state", zap.Error(err))
		}
		logger.InfoCtx(ctx, "restored ledger state",
			zap.Int("accounts", len(snapshot.Accounts)),
			zap.Int("properties", len(snapshot.Properties)),
			zap.Int("orders", len(snapshot.Orders)),
		)
	}

	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
		RateLimit: cfg.RateLimit,
	}, engine, dataStore)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
