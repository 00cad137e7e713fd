package app

import (
	"context"
	"fmt"

	"github.com/NasaVasa/coinwatch/internal/config"
	"github.com/NasaVasa/coinwatch/internal/delivery/httpapi"
	"github.com/NasaVasa/coinwatch/internal/delivery/telegram"
	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/NasaVasa/coinwatch/internal/infra/bunt"
	"github.com/NasaVasa/coinwatch/internal/infra/coingecko"
	"github.com/NasaVasa/coinwatch/internal/infra/db"
	"github.com/NasaVasa/coinwatch/internal/infra/holders"
	"github.com/NasaVasa/coinwatch/internal/infra/log"
	"github.com/NasaVasa/coinwatch/internal/infra/mongo"
	"github.com/NasaVasa/coinwatch/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	bot       *telegram.Bot
	evaluator *usecase.AlertEvaluator
	http      *httpapi.Server
	logger    *zap.Logger
	cleanupFn func() error
}

type stores struct {
	users   domain.UserRepository
	alerts  domain.AlertRepository
	cleanup func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	gecko := coingecko.NewClient(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey, cfg.CoinGeckoTimeout, logger)
	holderClient := holders.NewClient(holders.Config{
		EtherscanBaseURL: cfg.EtherscanBaseURL,
		EtherscanAPIKey:  cfg.EtherscanAPIKey,
		HeliusBaseURL:    cfg.HeliusBaseURL,
		HeliusAPIKey:     cfg.HeliusAPIKey,
		Timeout:          cfg.HoldersTimeout,
	}, logger)

	userUC := usecase.NewUserUsecase(st.users)
	alertUC := usecase.NewAlertUsecase(st.users, st.alerts, gecko)
	marketUC := usecase.NewMarketUsecase(gecko, holderClient, logger)

	api, err := telegram.NewAPI(cfg.TelegramBotToken)
	if err != nil {
		_ = st.cleanup()
		return nil, fmt.Errorf("telegram api: %w", err)
	}

	notifier := telegram.NewNotifier(api, logger)
	evaluator := usecase.NewAlertEvaluator(st.alerts, gecko, notifier, usecase.EvaluatorConfig{
		Interval:     cfg.AlertInterval,
		VsCurrency:   cfg.AlertVsCurrency,
		FetchTimeout: cfg.AlertFetchTimeout,
		WriteTimeout: cfg.AlertWriteTimeout,
		Concurrency:  cfg.AlertConcurrency,
	}, logger)
	handlers := telegram.NewHandlers(userUC, alertUC, marketUC, logger)
	bot := telegram.NewBot(api, handlers, cfg.TelegramPollTimeout, logger)

	return &App{
		bot:       bot,
		evaluator: evaluator,
		http:      httpapi.NewServer(cfg.HTTPPort, logger),
		logger:    logger,
		cleanupFn: st.cleanup,
	}, nil
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, error) {
	logger.Info("opening store", zap.String("driver", cfg.StoreDriver))
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		dbConn, err := db.Open(cfg, logger)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:  db.NewUserRepository(dbConn),
			alerts: db.NewAlertRepository(dbConn),
			cleanup: func() error {
				sqlDB, err := dbConn.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	case config.StoreDriverMongo:
		database, err := mongo.Open(ctx, cfg, logger)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:   mongo.NewUserRepository(database),
			alerts:  mongo.NewAlertRepository(database),
			cleanup: func() error { return database.Close(context.Background()) },
		}, nil
	case config.StoreDriverBunt:
		store, err := bunt.Open(cfg.BuntPath)
		if err != nil {
			return stores{}, err
		}
		return stores{
			users:   bunt.NewUserRepository(store),
			alerts:  bunt.NewAlertRepository(store),
			cleanup: store.Close,
		}, nil
	default:
		return stores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("coinwatch service starting")
	a.evaluator.Start(ctx)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.http.Run(groupCtx)
	})
	group.Go(func() error {
		return a.bot.Start(groupCtx)
	})

	a.logger.Info("coinwatch service started")
	return group.Wait()
}

func (a *App) Shutdown() {
	a.logger.Info("coinwatch service shutting down")
	a.evaluator.Stop()
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
