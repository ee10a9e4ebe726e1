package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-os/api/internal/application/auth"
	"github.com/campus-os/api/internal/config"
	"github.com/campus-os/api/internal/infrastructure/dynamo"
	"github.com/campus-os/api/internal/infrastructure/gemini"
	jwtinfra "github.com/campus-os/api/internal/infrastructure/jwt"
	s3infra "github.com/campus-os/api/internal/infrastructure/s3"
	"github.com/campus-os/api/internal/infrastructure/smtp"
	"github.com/campus-os/api/internal/infrastructure/sns"
	totpinfra "github.com/campus-os/api/internal/infrastructure/totp"
	transporthttp "github.com/campus-os/api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()

	if cfg.AppEnv == "production" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	codec, err := jwtinfra.NewCodec(cfg)
	if err != nil {
		slog.Error("jwt codec", "error", err)
		os.Exit(1)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	s3Client := s3infra.NewClient(cfg)
	mailer := smtp.NewMailer(cfg)

	publisher, err := sns.NewPublisher(cfg)
	if err != nil {
		slog.Error("sns publisher", "error", err)
		os.Exit(1)
	}

	deps := &transporthttp.Deps{
		UserRepo:        dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		NoticeRepo:      dynamo.NewNoticeRepo(dynamoClient, cfg.DynamoTables.Notices),
		AttendanceRepo:  dynamo.NewAttendanceRepo(dynamoClient, cfg.DynamoTables.Attendance),
		ExamRepo:        dynamo.NewExamRepo(dynamoClient, cfg.DynamoTables.Exams),
		PlacementRepo:   dynamo.NewPlacementRepo(dynamoClient, cfg.DynamoTables.Placements),
		GigRepo:         dynamo.NewGigRepo(dynamoClient, cfg.DynamoTables.Gigs),
		ReviewRepo:      dynamo.NewReviewRepo(dynamoClient, cfg.DynamoTables.Reviews),
		ChatRoomRepo:    dynamo.NewChatRoomRepo(dynamoClient, cfg.DynamoTables.ChatRooms),
		ChatMessageRepo: dynamo.NewChatMessageRepo(dynamoClient, cfg.DynamoTables.ChatMessages),
		TaskRepo:        dynamo.NewTaskRepo(dynamoClient, cfg.DynamoTables.Tasks),
		S3Store:         s3infra.NewStore(s3Client, cfg.S3BucketName),
		Mailer:          mailer,
		NoticePublisher: publisher,
		Gemini:          gemini.NewClient(cfg.GeminiAPIKey),
		Codec:           codec,
		TOTP:            totpinfra.NewProvisioner(cfg.TOTPIssuer),
	}

	// Seed the admin account from config, if requested.
	seedSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		Codec:    codec,
		TOTP:     deps.TOTP,
		Mailer:   mailer,
	})
	if err := seedSvc.EnsureAdmin(context.Background(), cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		slog.Error("seed admin", "error", err)
		os.Exit(1)
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
