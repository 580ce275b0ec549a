package internal

import (
	"context"
	"encoding/json"
	"errors"
	"find-a-house/internal/adapters/daftfetcher"
	logger_adapter "find-a-house/internal/adapters/logger"
	"find-a-house/internal/adapters/memstorage"
	"find-a-house/internal/adapters/myhomefetcher"
	"find-a-house/internal/adapters/notifier"
	postgres_adapter "find-a-house/internal/adapters/postgres"
	rabbitmq_adapter "find-a-house/internal/adapters/rabbitmq"
	"find-a-house/internal/adapters/rediscache"
	"find-a-house/internal/adapters/rentiefetcher"
	"find-a-house/internal/adapters/rest"
	"find-a-house/internal/adapters/scheduler"
	"find-a-house/internal/configs"
	"find-a-house/internal/constants"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/filter"
	"find-a-house/internal/core/port"
	usecases_port "find-a-house/internal/core/port/usecases"
	"find-a-house/internal/core/usecase"
	fluentlogger "find-a-house/pkg/fluent_logger"
	"find-a-house/pkg/postgres"
	"find-a-house/pkg/rabbitmq/rabbitmq_common"
	"find-a-house/pkg/rabbitmq/rabbitmq_producer"
	redisclient "find-a-house/pkg/redis"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const startupTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config *configs.AppConfig

	baseLogger port.LoggerPort
	logger     port.LoggerPort

	fluentClient  *fluent.Fluent
	dbPool        *pgxpool.Pool
	redisClient   *goredis.Client
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	sseNotifier   *notifier.SSENotifier

	runCycle usecases_port.RunCyclePort
	queries  usecases_port.ListingQueriesPort

	closeOnce sync.Once
}

// NewApp создает новый экземпляр приложения
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{config: appConfig}
	if err := app.initLoggers(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	ctx = contextkeys.ContextWithLogger(ctx, app.baseLogger)

	if err := app.init(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) initLoggers() error {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLogLevel(a.config.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if a.config.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      a.config.FluentBit.Host,
			Port:      a.config.FluentBit.Port,
			TagPrefix: a.config.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLogLevel(a.config.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return err
		}
		a.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.baseLogger = multiLogger.WithFields(port.Fields{"service_name": a.config.AppName})
	a.logger = a.baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": a.config.FluentBit.Enabled,
	})
	return nil
}

func (a *App) init(ctx context.Context) error {
	repo, err := a.initStorage(ctx)
	if err != nil {
		return err
	}

	listingNotifier, err := a.initNotifiers()
	if err != nil {
		return err
	}

	sources := a.buildSources()
	if len(sources) == 0 {
		a.logger.Warn("No sources enabled, cycles will be empty", nil)
	}

	profiles, err := a.loadProfiles()
	if err != nil {
		return err
	}
	engine := filter.NewEngine(profiles, filter.DefaultAliases())
	if names := engine.ActiveProfileNames(); len(names) == 0 {
		a.logger.Warn("No active search profiles, every new listing will match", nil)
	} else {
		a.logger.Info("Search profiles loaded", port.Fields{"active_profiles": names})
	}

	a.runCycle = usecase.NewRunCycleUseCase(
		sources,
		usecase.NewAggregateListingsUseCase(a.config.Schedule.SourceTimeout),
		repo,
		engine,
		listingNotifier,
		usecase.RunCycleConfig{
			QuietHours:     a.config.Schedule.QuietHours,
			NotifyInterval: a.config.Schedule.NotifyInterval,
		},
	)
	a.queries = usecase.NewListingQueriesUseCase(repo, nil)

	a.logger.Info("All use cases initialized.", port.Fields{"sources": len(sources)})
	return nil
}

// initStorage выбирает PostgreSQL или память и при наличии Redis оборачивает хранилище кэшем
func (a *App) initStorage(ctx context.Context) (port.ListingRepositoryPort, error) {
	var repo port.ListingRepositoryPort

	if a.config.Database.URL != "" {
		dbPool, err := postgres.NewClient(ctx, postgres.Config{DatabaseURL: a.config.Database.URL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		a.dbPool = dbPool

		pgRepo, err := postgres_adapter.NewPostgresListingRepository(dbPool, nil)
		if err != nil {
			return nil, err
		}
		if err := pgRepo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		a.logger.Info("Successfully connected to PostgreSQL pool!", nil)
		repo = pgRepo
	} else {
		a.logger.Warn("DATABASE_URL is not set, listings are kept in memory", nil)
		repo = memstorage.NewMemoryListingRepository(nil)
	}

	if a.config.Redis.URL == "" {
		return repo, nil
	}

	redisClient, err := redisclient.NewClient(ctx, a.config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.redisClient = redisClient

	cached, err := rediscache.NewSeenCacheRepository(repo, redisClient, a.config.Redis.SeenTTL)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Redis seen-cache enabled", port.Fields{"ttl": a.config.Redis.SeenTTL.String()})
	return cached, nil
}

// initNotifiers собирает каналы доставки; без брокеров совпадения пишутся в лог
func (a *App) initNotifiers() (port.NotifierPort, error) {
	var notifiers []port.NotifierPort

	if a.config.RabbitMQ.Enabled {
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(a.baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
		connManager, err := rabbitmq_common.NewConnectionManager(a.config.RabbitMQ.URL, connManagerBridge)
		if err != nil {
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		a.connManager = connManager

		eventProducer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeNotifications,
			ExchangeType:             constants.ExchangeNotificationsType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			ConfirmPublish:           true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(a.baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
		}, connManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		a.eventProducer = eventProducer

		rabbitNotifier, err := rabbitmq_adapter.NewListingNotifierAdapter(eventProducer, constants.RoutingKeyListingMatched, nil)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, rabbitNotifier)
		a.logger.Info("RabbitMQ Event Producer initialized.", port.Fields{"exchange": constants.ExchangeNotifications})
	}

	if a.redisClient != nil && a.config.Redis.NotifyChannel != "" {
		redisNotifier, err := rediscache.NewPubSubNotifier(a.redisClient, a.config.Redis.NotifyChannel, nil)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, redisNotifier)
		a.logger.Info("Redis pub/sub notifier initialized.", port.Fields{"channel": a.config.Redis.NotifyChannel})
	}

	if len(notifiers) == 0 {
		notifiers = append(notifiers, notifier.NewLogNotifier())
		a.logger.Info("No brokers configured, matches are written to the log.", nil)
	}

	if a.config.Server.Enabled {
		a.sseNotifier = notifier.NewSSENotifier(a.baseLogger, nil)
		notifiers = append(notifiers, a.sseNotifier)
	}

	if len(notifiers) == 1 {
		return notifiers[0], nil
	}
	return notifier.NewFanoutNotifier(notifiers...)
}

func (a *App) buildSources() []port.ListingSourcePort {
	var sources []port.ListingSourcePort

	if a.config.Daft.Enabled {
		daft, err := daftfetcher.NewDaftFetcherAdapter(daftfetcher.Config{
			BaseURL:  a.config.Daft.BaseURL,
			Delay:    a.config.Daft.Delay,
			MaxPages: a.config.Daft.MaxPages,
			Criteria: a.config.Search,
		})
		if err != nil {
			a.logger.Error("Daft source disabled", err, nil)
		} else {
			sources = append(sources, daft)
		}
	}

	if a.config.MyHome.Enabled {
		myHome, err := myhomefetcher.NewMyHomeFetcherAdapter(myhomefetcher.Config{
			BaseURL:  a.config.MyHome.BaseURL,
			Delay:    a.config.MyHome.Delay,
			MaxPages: a.config.MyHome.MaxPages,
			Criteria: a.config.Search,
		})
		if err != nil {
			a.logger.Error("MyHome source disabled", err, nil)
		} else {
			sources = append(sources, myHome)
		}
	}

	if a.config.RentIE.Enabled {
		rentIE, err := rentiefetcher.NewRentIEFetcherAdapter(rentiefetcher.Config{
			FeedURL:      a.config.RentIE.BaseURL,
			Delay:        a.config.RentIE.Delay,
			Areas:        a.config.Search.Areas,
			IncludeRooms: a.config.RentIE.IncludeRooms,
		})
		if err != nil {
			a.logger.Error("Rent.ie source disabled", err, nil)
		} else {
			sources = append(sources, rentIE)
		}
	}

	for _, s := range sources {
		a.logger.Debug("Source enabled", port.Fields{"source": s.Name()})
	}
	return sources
}

// loadProfiles читает файл профилей; без файла строит один профиль из SEARCH_* подсказок
func (a *App) loadProfiles() ([]domain.SearchProfile, error) {
	profilesLogger := a.baseLogger.WithFields(port.Fields{"component": "profiles", "path": a.config.ProfilesPath})

	profiles, err := configs.LoadProfiles(a.config.ProfilesPath, profilesLogger)
	if err == nil {
		return profiles, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		profilesLogger.Warn("Profiles file not found, using search hints as the only profile", nil)
		return []domain.SearchProfile{configs.ProfileFromSearch("default", a.config.Search)}, nil
	}
	return nil, fmt.Errorf("failed to load search profiles: %w", err)
}

// RunOnce выполняет один цикл и возвращает отчет
func (a *App) RunOnce(ctx context.Context) (domain.CycleReport, error) {
	ctx = contextkeys.ContextWithLogger(ctx, a.baseLogger)
	return a.runCycle.Execute(ctx)
}

// WriteStats печатает статистику хранилища в формате JSON
func (a *App) WriteStats(ctx context.Context, w io.Writer) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.baseLogger)
	stats, err := a.queries.Stats(ctx)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(stats)
}

type namedListener struct {
	name     string
	listener port.EventListenerPort
}

// Run запускает планировщик и HTTP API и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	cycleScheduler, err := scheduler.NewCycleScheduler(
		a.runCycle,
		time.Duration(a.config.Schedule.IntervalMinutes)*time.Minute,
		a.baseLogger,
	)
	if err != nil {
		return err
	}

	listeners := []namedListener{{"Cycle Scheduler", cycleScheduler}}
	if a.config.Server.Enabled {
		handlers := rest.NewListingHandler(a.queries, a.sseNotifier)
		router := rest.NewRouter(handlers, a.config.Server.AllowedOrigins, a.baseLogger)
		listeners = append(listeners, namedListener{"REST API Server", rest.NewServer(a.config.Server.Port, router, a.baseLogger)})
	}

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		for _, l := range listeners {
			if err := l.listener.Close(); err != nil {
				a.logger.Error("Error closing listener", err, port.Fields{"listener": l.name})
			}
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		a.Close()
	}()

	listenerErrors := make(chan error, len(listeners))

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		a.logger.Info("Starting listener", port.Fields{"listener": name})
		if err := listener.Start(appCtx); err != nil {
			a.logger.Error("Listener stopped with an unexpected error", err, port.Fields{"listener": name})
			listenerErrors <- fmt.Errorf("%s error: %w", name, err)
		} else {
			a.logger.Info("Listener stopped gracefully", port.Fields{"listener": name})
		}
	}

	for _, l := range listeners {
		wg.Add(1)
		go startListener(l.name, l.listener)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or listener error...", port.Fields{
		"interval_minutes": a.config.Schedule.IntervalMinutes,
		"server_enabled":   a.config.Server.Enabled,
	})

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Info("Received signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-listenerErrors:
		a.logger.Error("A critical component failed, shutting down...", err, nil)
		runErr = err
	}

	cancelApp()
	return runErr
}

// Close освобождает внешние ресурсы. Повторные вызовы ничего не делают.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.sseNotifier != nil {
			a.sseNotifier.Close()
		}
		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}
		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection", err, nil)
			}
		}
		if a.redisClient != nil {
			if err := a.redisClient.Close(); err != nil {
				a.logger.Error("Error closing Redis client", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}
		a.logger.Info("Application shut down gracefully.", nil)
		if a.fluentClient != nil {
			a.fluentClient.Close()
		}
	})
}
