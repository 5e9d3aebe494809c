package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	approveBookingHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/create_booking"
	declineBookingHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/decline_booking"
	getAvailabilityHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/get_availability"
	getAvailabilityConfigHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/get_availability_config"
	getBookingHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/get_booking"
	getMenteeBookingsHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/get_mentee_bookings"
	getMentorBookingsHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/get_mentor_bookings"
	updateAvailabilityHandler "github.com/v-gridnev/MH-BookingService/internal/api/handlers/update_availability"
	"github.com/v-gridnev/MH-BookingService/internal/api/middleware"
	"github.com/v-gridnev/MH-BookingService/internal/config"
	availabilityCache "github.com/v-gridnev/MH-BookingService/internal/infra/cache/availability"
	availabilityRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/availability"
	bookingRepo "github.com/v-gridnev/MH-BookingService/internal/infra/storage/booking"
	calendarSyncClient "github.com/v-gridnev/MH-BookingService/internal/integrations/calendarsync"
	notifyServiceClient "github.com/v-gridnev/MH-BookingService/internal/integrations/notifyservice"
	profileServiceClient "github.com/v-gridnev/MH-BookingService/internal/integrations/profileservice"
	availabilityService "github.com/v-gridnev/MH-BookingService/internal/service/availability"
	bookingsService "github.com/v-gridnev/MH-BookingService/internal/service/bookings"
	"github.com/v-gridnev/MH-BookingService/internal/service/dispatch"
	approveBookingUC "github.com/v-gridnev/MH-BookingService/internal/usecase/approve_booking"
	createBookingUC "github.com/v-gridnev/MH-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/v-gridnev/MH-BookingService/internal/usecase/get_availability"
	"github.com/v-gridnev/MH-BookingService/pkg/dbmetrics"
	"github.com/v-gridnev/MH-BookingService/pkg/logger"
	"github.com/v-gridnev/MH-BookingService/pkg/metrics"
	"github.com/v-gridnev/MH-BookingService/pkg/simpletxmanager"
	"github.com/v-gridnev/MH-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting MH-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Метрики регистрируются всегда: их использует диспетчер побочных
	// эффектов. Metrics.Enabled управляет только HTTP-экспозицией и
	// инструментацией базы.
	serviceName := cfg.Metrics.ServiceName
	if serviceName == "" {
		serviceName = "mh-booking-service"
	}
	metricsCollector := metrics.New(serviceName)
	stopMetricsCh := make(chan struct{})

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

	// Инициализируем интеграционных клиентов
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	calendarClient := calendarSyncClient.NewClient(
		cfg.CalendarSync.URL,
		cfg.CalendarSync.Enabled,
		time.Duration(cfg.CalendarSync.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProfileService=%s, CalendarSync=%s enabled=%v, NotifyService=%s)",
		cfg.ProfileService.URL, cfg.CalendarSync.URL, cfg.CalendarSync.Enabled, cfg.NotifyService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
	)

	// Общий интерфейс обоих transaction manager-ов
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, serviceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Кэш доступности (опционален; сервис полностью работоспособен без него)
	var availCache *availabilityCache.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis unreachable, continuing without availability cache: %v", err)
		} else {
			availCache = availabilityCache.New(
				redisClient,
				time.Duration(cfg.Redis.TTLSeconds)*time.Second,
				log,
			)
			log.Info("Availability cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTLSeconds)
		}
		defer redisClient.Close()
	}

	// Интерфейсные переменные кэша: типизированный nil указатель в интерфейсе
	// не равен nil, поэтому при выключенном кэше оставляем интерфейсы пустыми
	var (
		slotCache           getAvailabilityUC.Cache
		createInvalidator   createBookingUC.CacheInvalidator
		approveInvalidator  approveBookingUC.CacheInvalidator
		bookingsInvalidator bookingsService.CacheInvalidator
		availSvcInvalidator availabilityService.CacheInvalidator
	)
	if availCache != nil {
		slotCache = availCache
		createInvalidator = availCache
		approveInvalidator = availCache
		bookingsInvalidator = availCache
		availSvcInvalidator = availCache
	}

	// Политика бронирования
	policy := getAvailabilityUC.Policy{
		LeadTime: time.Duration(cfg.Policy.LeadTimeMinutes) * time.Minute,
		Horizon:  time.Duration(cfg.Policy.BookingHorizonDays) * 24 * time.Hour,
	}
	log.Info("Booking policy: lead time=%s, horizon=%s", policy.LeadTime, policy.Horizon)

	// Диспетчер пост-коммитных эффектов
	dispatcher := dispatch.NewDispatcher(
		bookingRepository,
		calendarClient,
		notifyClient,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		dispatcher,
		bookingsInvalidator,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		txMgr,
		availSvcInvalidator,
		log,
	)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		slotCache,
		policy,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		profileClient,
		txMgr,
		dispatcher,
		createInvalidator,
		policy.LeadTime,
		policy.Horizon,
		log,
	)
	approveBookingUseCase := approveBookingUC.NewUseCase(
		bookingRepository,
		txMgr,
		dispatcher,
		approveInvalidator,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	approveBooking := approveBookingHandler.NewHandler(approveBookingUseCase, log)
	declineBooking := declineBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getMenteeBookings := getMenteeBookingsHandler.NewHandler(bookingSvc, log)
	getMentorBookings := getMentorBookingsHandler.NewHandler(bookingSvc, log)
	getAvailabilityConfig := getAvailabilityConfigHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)

	// Фоновая досинхронизация календаря
	var reconciler *dispatch.Reconciler
	if cfg.Reconciler.Enabled && cfg.CalendarSync.Enabled {
		reconciler = dispatch.NewReconciler(
			bookingRepository,
			calendarClient,
			time.Duration(cfg.Reconciler.IntervalSeconds)*time.Second,
			metricsCollector,
			log,
		)
		reconciler.Start()
		log.Info("Calendar sync reconciler started (interval=%ds)", cfg.Reconciler.IntervalSeconds)
	}

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, serviceName))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты ментора за диапазон дат
	api.HandleFunc("/mentors/{mentorId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Конфигурация доступности (для менторов) ---
	protected.HandleFunc("/mentors/{mentorId}/availability/config",
		getAvailabilityConfig.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/mentors/{mentorId}/availability/config",
		updateAvailability.Handle).Methods(http.MethodPut)

	// --- Бронирования ---
	// Создание запроса на бронирование
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение и отклонение запроса ментором
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/decline", declineBooking.Handle).Methods(http.MethodPost)

	// Отмена бронирования любой из сторон
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Истории бронирований
	protected.HandleFunc("/mentees/{menteeId}/bookings", getMenteeBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/mentors/{mentorId}/bookings", getMentorBookings.Handle).Methods(http.MethodGet)

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

	// Останавливаем фон: реконсайлер и сбор метрик пула
	if reconciler != nil {
		reconciler.Stop()
		log.Info("Reconciler stopped")
	}
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
