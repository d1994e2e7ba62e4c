// Точка входа API Module — backend дашборда производственного мониторинга.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует Supabase-клиент, создаёт сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/minedash/api-module/internal/api/handlers"
	"github.com/minedash/api-module/internal/api/middleware"
	"github.com/minedash/api-module/internal/config"
	"github.com/minedash/api-module/internal/database"
	"github.com/minedash/api-module/internal/repository"
	"github.com/minedash/api-module/internal/server"
	"github.com/minedash/api-module/internal/service"
	"github.com/minedash/api-module/internal/supabase"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("API Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("environment", cfg.Environment),
	)

	// Предупреждение о дефолтном значении topologymetrics
	if os.Getenv("MD_DEPHEALTH_GROUP") == "" {
		logger.Warn("MD_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Supabase-клиент (GoTrue Admin API + PostgREST)
	sbClient := supabase.New(
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		&http.Client{Timeout: cfg.SupabaseTimeout},
		logger,
	)
	logger.Info("Supabase клиент создан", slog.String("url", cfg.SupabaseURL))

	// 6. Repositories
	txRunner := repository.NewTxRunner(pool)
	calandriaRepo := repository.NewCalandriaRepository(pool, txRunner)

	// 7. Services
	adminUsersSvc := service.NewAdminUserService(sbClient, logger)
	calandriasSvc := service.NewCalandriaService(calandriaRepo, logger)

	// 8. Readiness checkers (PostgreSQL + Supabase)
	pgChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(pgChecker, sbClient)

	// 9. API handler (реализует generated.ServerInterface)
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		adminUsersSvc,
		calandriasSvc,
		!cfg.IsProduction(),
		logger,
	)

	// 10. Bearer-token middleware (верификация через Supabase на каждый запрос)
	auth := middleware.NewAuth(sbClient, logger)

	// 11. topologymetrics — мониторинг зависимостей (PostgreSQL + Supabase)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"api-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		sbClient.HealthURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, auth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("API Module остановлен")
}
