package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/postmux/postmux/configs"
	"github.com/postmux/postmux/internal/api/handlers"
	"github.com/postmux/postmux/internal/api/middleware"
	job "github.com/postmux/postmux/internal/jobs"
	"github.com/postmux/postmux/internal/platform"
	"github.com/postmux/postmux/internal/queue"
	"github.com/postmux/postmux/internal/repository"
	"github.com/postmux/postmux/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	asynqClient := asynq.NewClient(redisConn)
	defer asynqClient.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	postMediaRepo := repository.NewPostMediaRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	postingHistoryRepo := repository.NewPostingHistoryRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	dispatcher := platform.NewDispatcher(&http.Client{Timeout: 2 * time.Minute})
	scheduler := queue.NewClient(asynqClient)

	userService := service.NewUserService(userRepo)
	r2Service := service.NewR2Service(*cfg)
	mediaService := service.NewMediaService(mediaAssetRepo, r2Service)
	aiService := service.NewAIService(cfg.OpenAIKey, cfg.OpenAIModel, nil)
	viralService := service.NewViralTimeService()
	accountService := service.NewAccountService(socialAccountRepo, cfg.SecretKey)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)
	publishService := service.NewPublishService(postRepo, mediaAssetRepo, socialAccountRepo, postingHistoryRepo, postMediaRepo, dispatcher, scheduler, cfg.SecretKey)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(*cfg, userService)
	api.Get("/user/info", user.UserInfo)
	api.Post("/user/remove", user.RemoveUser)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	media := handlers.NewMediaHandler(mediaService, aiService)
	api.Post("/media/upload", media.UploadMedia)
	api.Get("/media", media.ListMedia)
	api.Post("/media/remove", media.RemoveMedia)
	api.Post("/media/generate-content", media.GenerateContent)
	api.Get("/media/platforms", media.Platforms)

	publish := handlers.NewPublishHandler(publishService, viralService)
	api.Post("/publish", publish.PublishNow)
	api.Post("/publish/schedule", publish.SchedulePost)
	api.Get("/publish/status", publish.UploadStatus)
	api.Get("/posts", publish.ListPosts)
	api.Post("/posts/cancel", publish.CancelPost)
	api.Get("/viral-times", publish.ViralTimes)

	accounts := handlers.NewAccountHandler(accountService)
	api.Get("/accounts", accounts.ListAccounts)
	api.Post("/accounts/connect", accounts.ConnectAccount)
	api.Post("/accounts/remove", accounts.RemoveAccount)

	// cron jobs
	sweepJob := job.NewScheduleSweepJob(postRepo, publishService)

	// queue
	queueW := queue.NewQueue(publishService)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", sweepJob.SweepOverdue)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
