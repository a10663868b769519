package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/otcdesk/exchange-bot/internal/api"
	"github.com/otcdesk/exchange-bot/internal/core/domain"
	"github.com/otcdesk/exchange-bot/internal/core/service"
	"github.com/otcdesk/exchange-bot/internal/infrastructure/config"
	mongodb "github.com/otcdesk/exchange-bot/internal/infrastructure/db/mongo"
	"github.com/otcdesk/exchange-bot/internal/infrastructure/db/postgres"
	redisdb "github.com/otcdesk/exchange-bot/internal/infrastructure/db/redis"
	"github.com/otcdesk/exchange-bot/internal/infrastructure/queue"
	"github.com/otcdesk/exchange-bot/internal/infrastructure/safecheck"
	"github.com/otcdesk/exchange-bot/internal/infrastructure/telegram"
	"github.com/otcdesk/exchange-bot/internal/infrastructure/tron"
	"github.com/otcdesk/exchange-bot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	pg, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pg.Close()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	appRepo := mongodb.NewApplicationRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	operatorRepo := mongodb.NewOperatorRepository(db)
	depositRepo := postgres.NewDepositRepository(pg)
	sessions := redisdb.NewSessionStore(rdb, cfg.Redis.SessionTTL)

	if err := appRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("application indexes failed")
	}
	if err := operatorRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("operator indexes failed")
	}
	if err := depositRepo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("deposit schema failed")
	}

	// --- Services ---
	roleService := service.NewRoleService(roleRepo, log)
	for _, adminID := range cfg.Telegram.BootstrapAdmins {
		if err := roleService.SetRole(ctx, adminID, domain.RoleSuperAdmin); err != nil {
			log.Fatal().Err(err).Int64("user_id", adminID).Msg("bootstrap admin failed")
		}
	}

	rateService := service.NewRateService(cfg.Rates.BaseRate, cfg.Rates.DepositMargin, cfg.Rates.WithdrawalMargin, log)
	gateway := tron.NewClient(tron.Config{
		BaseURL:        cfg.Tron.APIURL,
		OfficialWallet: cfg.Tron.OfficialWallet,
		Timeout:        cfg.Tron.Timeout,
	}, log)
	receipts := safecheck.NewClient(safecheck.Config{
		BaseURL: cfg.SafeCheck.APIURL,
		Token:   cfg.SafeCheck.Token,
		Timeout: cfg.SafeCheck.Timeout,
	}, log)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("bot api init failed")
	}
	messenger := telegram.NewMessenger(botAPI)

	notifications := service.NewNotificationService(appRepo, roleService, messenger, log)
	dispatcher := queue.NewDispatcher(cfg.NotifyWorkers, notifications, roleService, log)
	dispatcher.Start(ctx)

	workflow := service.NewWorkflowService(appRepo, depositRepo, sessions, roleService, rateService, gateway, dispatcher, messenger, log)

	bot := telegram.NewBot(botAPI, workflow, sessions, roleService, rateService, dispatcher, receipts, depositRepo, log)
	go bot.Run(ctx)

	// --- Back-office HTTP API ---
	e := api.NewRouter(db, pg, rdb, depositRepo, cfg.JWTSecret, log)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
