package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	cancelBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/cancel_booking"
	completeBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/complete_booking"
	createBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_booking"
	getCatalogHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_catalog"
	getMyLoyaltyHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_my_loyalty"
	getRankingHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_ranking"
	getUserBookingsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/list_bookings"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/config"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/cache"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	customerRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/customer"
	profileRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/profile"
	"github.com/m04kA/SMC-BarberBooking/internal/integrations/mailer"
	"github.com/m04kA/SMC-BarberBooking/internal/jobs/reminders"
	bookingsService "github.com/m04kA/SMC-BarberBooking/internal/service/bookings"
	loyaltyService "github.com/m04kA/SMC-BarberBooking/internal/service/loyalty"
	notificationsService "github.com/m04kA/SMC-BarberBooking/internal/service/notifications"
	slotsService "github.com/m04kA/SMC-BarberBooking/internal/service/slots"
	createBookingUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BarberBooking...")
	log.Info("Configuration loaded from %s", *configPath)

	// Каталог и часовой пояс уже проверены в config.Validate
	catalog, err := cfg.Shop.Catalog()
	if err != nil {
		log.Fatal("Invalid shop catalog: %v", err)
	}
	location, err := cfg.Shop.Location()
	if err != nil {
		log.Fatal("Invalid shop timezone: %v", err)
	}
	log.Info("Shop %q: %d services, %d hours, timezone %s",
		cfg.Shop.Name, len(catalog.Services()), len(catalog.Hours()), location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil метриками обертка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.WithMetrics(metricsCollector, cfg.Metrics.ServiceName))

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	profileRepository := profileRepo.NewRepository(wrappedDB)

	// Advisory кэш занятых часов (Redis, опционально)
	var slotsCache slotsService.Cache
	if cfg.Cache.Enabled {
		redisCache := cache.NewRedis(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			// кэш не обязателен: реестр читает из БД при ошибках кэша
			log.Warn("Redis is unavailable at %s, continuing with database reads: %v", cfg.Cache.Addr, err)
		}
		cancel()

		slotsCache = cache.NewSlotsCache(redisCache, cfg.Cache.TTL(), cfg.Cache.KeyPrefix)
		log.Info("Slot cache enabled (addr=%s, ttl=%s)", cfg.Cache.Addr, cfg.Cache.TTL())
	}

	// Интеграции уведомлений (опционально)
	var mailClient notificationsService.Mailer
	if cfg.Mailer.Enabled {
		mailClient = mailer.NewClient(
			cfg.Mailer.URL,
			cfg.Mailer.APIKey,
			cfg.Mailer.SenderEmail,
			cfg.Mailer.SenderName,
			time.Duration(cfg.Mailer.Timeout)*time.Second,
			log,
		)
		log.Info("Mailer enabled (url=%s, timeout=%ds)", cfg.Mailer.URL, cfg.Mailer.Timeout)
	}

	var publisher notificationsService.EventPublisher
	if cfg.Events.Enabled {
		eventsPublisher, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, cfg.Metrics.ServiceName)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer eventsPublisher.Close()
		publisher = eventsPublisher
		log.Info("Booking events enabled (exchange=%s)", cfg.Events.Exchange)
	}

	// Инициализируем сервисы
	slotRegistry := slotsService.NewRegistry(
		bookingRepository,
		slotsCache,
		catalog,
		location,
		metricsCollector,
		log,
	)
	notifier := notificationsService.NewService(
		mailClient,
		publisher,
		cfg.Shop.Name,
		time.Duration(cfg.Notifications.SendTimeout)*time.Second,
		metricsCollector,
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		slotRegistry,
		notifier,
		bookingsService.CancelPolicy{
			NotifyOnAdminCancel: cfg.Notifications.NotifyOnAdminCancel,
			NotifyOnOwnerCancel: cfg.Notifications.NotifyOnOwnerCancel,
		},
		metricsCollector,
		log,
	)
	loyaltySvc := loyaltyService.NewService(
		bookingRepository,
		customerRepository,
		profileRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		customerRepository,
		slotRegistry,
		notifier,
		txMgr,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getCatalog := getCatalogHandler.NewHandler(slotRegistry, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(slotRegistry, log)
	getRanking := getRankingHandler.NewHandler(loyaltySvc, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getMyLoyalty := getMyLoyaltyHandler.NewHandler(loyaltySvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)

	auth := middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Audience, profileRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover(log), middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Liveness
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Error("GET /health - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг и часов
	api.HandleFunc("/catalog", getCatalog.Handle).Methods(http.MethodGet)

	// Свободные часы на дату
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рейтинг клиентов
	api.HandleFunc("/ranking", getRanking.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", cancelBooking.Handle).Methods(http.MethodDelete)

	// --- Кабинет клиента ---
	protected.HandleFunc("/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/me/loyalty", getMyLoyalty.Handle).Methods(http.MethodGet)

	// --- Администратор ---
	protected.Handle("/bookings/{bookingId}/complete",
		middleware.RequireAdmin(http.HandlerFunc(completeBooking.Handle))).Methods(http.MethodPatch)
	protected.Handle("/admin/bookings",
		middleware.RequireAdmin(http.HandlerFunc(listBookings.Handle))).Methods(http.MethodGet)

	// Напоминания о визите (опционально)
	var reminderJob *reminders.Job
	if cfg.Reminders.Enabled {
		reminderJob = reminders.NewJob(bookingRepository, notifier, location, log)
		if err := reminderJob.Start(cfg.Reminders.Schedule); err != nil {
			log.Fatal("Failed to start reminders: %v", err)
		}
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if reminderJob != nil {
		reminderJob.Stop(shutdownCtx)
	}

	// Дожидаемся отправки уведомлений, запущенных обработчиками
	notifier.Wait()
	log.Info("Pending notifications flushed")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
