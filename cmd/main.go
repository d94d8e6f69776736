package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"foil-records-server/config"
	"foil-records-server/internal/handler"
	"foil-records-server/internal/repository"
	"foil-records-server/internal/security"
	"foil-records-server/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	broker, err := config.SetupQueue(&cfg.Queue)
	if err != nil {
		log.Fatalf("Ошибка подключения к RabbitMQ: %v", err)
	}
	defer func() {
		if err := broker.Close(); err != nil {
			log.Printf("Ошибка при закрытии RabbitMQ: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	cacheTTL := time.Duration(cfg.TTL.S3AndRedis) * time.Second
	tokenTTL := time.Duration(cfg.TTL.ResponseToken) * time.Second

	requestRepo := repository.NewRequestRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	userRequestRepo := repository.NewUserRequestRepository(db)
	eventRepo := repository.NewEventRepository(db)
	userRepo := repository.NewUserRepository(db)
	searchRepo := repository.NewSearchRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cacheTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	templateService, err := service.NewTemplateService()
	if err != nil {
		log.Fatalf("Ошибка загрузки шаблонов писем: %v", err)
	}
	mailService := service.NewMailService(&cfg.SMTP)
	notificationService := service.NewNotificationService(templateService, mailService)
	publisher := service.NewQueuePublisher(broker)

	responseService := service.NewResponseService(
		responseRepo, requestRepo, eventRepo, userRepo, userRequestRepo,
		cacheRepo, s3Service, publisher, tokenTTL, cacheTTL)
	userRequestService := service.NewUserRequestService(userRequestRepo, userRepo, eventRepo, publisher)
	searchService := service.NewSearchService(searchRepo)
	requestService := service.NewRequestService(requestRepo, responseRepo, eventRepo, cacheRepo)

	jwtService := security.NewJWTService(&cfg.JWT)

	authHandler := handler.NewAuthenticationHandler(userRepo, jwtService)
	requestHandler := handler.NewRequestHandler(requestService)
	responseHandler := handler.NewResponseHandler(responseService, s3Service, &cfg.TTL)
	userRequestHandler := handler.NewUserRequestHandler(userRequestService)
	searchHandler := handler.NewSearchHandler(searchService)

	router.Use(config.DBMiddleware(db))

	setupRoutes(router, authHandler, requestHandler, responseHandler, userRequestHandler, searchHandler, jwtService, cfg)

	worker := service.NewQueueWorker(broker, notificationService, searchService, db)
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Потребитель очередей завершился: %v", err)
		}
	}()

	runServer(ctx, srv)
}

func setupRoutes(
	router chi.Router,
	authHandler *handler.AuthenticationHandler,
	requestHandler *handler.RequestHandler,
	responseHandler *handler.ResponseHandler,
	userRequestHandler *handler.UserRequestHandler,
	searchHandler *handler.SearchHandler,
	jwtService *security.JWTService,
	cfg *config.AppConfig,
) {
	secretKey := []byte(cfg.JWT.SecretKey)

	router.Post("/api/auth", authHandler.Login)

	router.Route("/api/requests/{request_id}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.OptionalJWTMiddleware(secretKey, jwtService, cfg.Admin.AdminToken))
			r.Get("/", requestHandler.GetRequest)
			r.Get("/responses", requestHandler.ListResponses)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(secretKey, jwtService, cfg.Admin.AdminToken))
			r.Get("/events", requestHandler.ListEvents)

			r.Post("/note", responseHandler.AddNote)
			r.Post("/files", responseHandler.AddFiles)
			r.Post("/link", responseHandler.AddLink)
			r.Post("/instruction", responseHandler.AddInstruction)
			r.Post("/extension", responseHandler.AddExtension)

			r.Route("/users/{user_guid}", func(r chi.Router) {
				r.Post("/", userRequestHandler.AddUserRequest)
				r.Put("/", userRequestHandler.EditUserRequest)
				r.Delete("/", userRequestHandler.RemoveUserRequest)
			})
		})
	})

	router.Route("/api/responses/{response_id}", func(r chi.Router) {
		r.Use(security.JWTMiddleware(secretKey, jwtService, cfg.Admin.AdminToken))
		r.Put("/", responseHandler.EditResponse)
		r.Delete("/", responseHandler.DeleteResponse)
		r.Post("/token", responseHandler.IssueToken)
	})

	// Публичный обмен токена на ответ, без авторизации
	router.Get("/api/token/{token}", responseHandler.GetResponseByToken)

	router.Route("/api/search", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.OptionalJWTMiddleware(secretKey, jwtService, cfg.Admin.AdminToken))
			r.Get("/requests", searchHandler.Search)
			r.Get("/requests/export", searchHandler.ExportCSV)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(secretKey, jwtService, cfg.Admin.AdminToken))
			r.Post("/reindex", searchHandler.Reindex)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
