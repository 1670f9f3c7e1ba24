package main

import (
	"io"
	"log"
	"os"

	"github.com/cryptoscamalert/backend/internal/config"
	"github.com/cryptoscamalert/backend/internal/logging"
	"github.com/cryptoscamalert/backend/internal/markdown"
	miniorepo "github.com/cryptoscamalert/backend/internal/repository/minio"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
	"github.com/cryptoscamalert/backend/internal/repository/postgres"
	"github.com/cryptoscamalert/backend/internal/service"
	httptransport "github.com/cryptoscamalert/backend/internal/transport/http"
	"github.com/cryptoscamalert/backend/internal/transport/mail"
	"github.com/cryptoscamalert/backend/internal/util"
)

// @title CryptoScamAlert API
// @version 1.0
// @description REST backend for the crypto scam reporting site.
// @BasePath /
func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash writer disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	var storage ports.ObjectStorage
	if cfg.EvidenceUploadOn && cfg.MinIOEndpoint != "" {
		client, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("connect minio: %v", err)
		}
		storage = miniorepo.NewStorage(client, cfg.MinIOPublicURL, cfg.MinIOUseSSL)
	}

	users := postgres.NewUserRepo(db)
	scams := postgres.NewScamRepo(db)
	requests := postgres.NewScamRequestRepo(db)
	verifications := postgres.NewVerificationRepo(db)

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	renderer := markdown.NewRenderer()
	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	authService := service.NewAuthService(users, jwtManager, mailer, service.AuthConfig{
		ResetTTL:        cfg.PasswordResetTTL,
		FrontendBaseURL: cfg.FrontendBaseURL,
		GoogleAudience:  cfg.GoogleAudience,
	})
	scamService := service.NewScamService(scams, renderer)
	requestService := service.NewScamRequestService(requests, users, storage, renderer, service.ScamRequestConfig{
		EvidenceBucket:   cfg.MinIOBucketEvidence,
		EvidenceMaxBytes: cfg.EvidenceMaxBytes,
	})
	verificationService := service.NewVerificationService(verifications)

	e := httptransport.NewRouter(httptransport.RouterConfig{
		AllowOrigins:     cfg.AllowOrigins,
		RateLimitPerHour: cfg.RateLimitPerHour,
	})

	httptransport.RegisterAuth(e, authService)
	httptransport.RegisterScams(e, authService, scamService)
	httptransport.RegisterScamRequests(e, authService, requestService)
	httptransport.RegisterVerifications(e, authService, verificationService)
	httptransport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
