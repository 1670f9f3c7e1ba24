package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseURL         string
	JWTSecret           string
	JWTTTL              time.Duration
	GoogleAudience      string
	AllowOrigins        []string
	LogstashTCPAddr     string
	FrontendBaseURL     string
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SMTPFrom            string
	PasswordResetTTL    time.Duration
	RateLimitPerHour    int
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOUseSSL         bool
	MinIOBucketEvidence string
	MinIOPublicURL      string
	EvidenceMaxBytes    int64
	EvidenceUploadOn    bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	jwtTTL := 30 * 24 * time.Hour
	if v, err := time.ParseDuration(getenv("JWT_TTL", "720h")); err == nil && v > 0 {
		jwtTTL = v
	}

	resetTTL := 10 * time.Minute
	if v, err := time.ParseDuration(getenv("PASSWORD_RESET_TTL", "10m")); err == nil && v > 0 {
		resetTTL = v
	}

	ratePerHour := 1000
	if v, err := strconv.Atoi(getenv("RATE_LIMIT_PER_HOUR", "1000")); err == nil && v > 0 {
		ratePerHour = v
	}

	evidenceMax := int64(5 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("EVIDENCE_MAX_BYTES", "5242880"), 10, 64); err == nil && v > 0 {
		evidenceMax = v
	}

	return Config{
		Port:                getenv("PORT", "8000"),
		DatabaseURL:         must("DATABASE_URL"),
		JWTSecret:           must("JWT_SECRET"),
		JWTTTL:              jwtTTL,
		GoogleAudience:      getenv("GOOGLE_AUDIENCE", ""),
		AllowOrigins:        splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:     getenv("LOGSTASH_TCP_ADDR", ""),
		FrontendBaseURL:     getenv("FRONTEND_BASE_URL", "https://cs-alert-front.vercel.app"),
		SMTPHost:            getenv("SMTP_HOST", ""),
		SMTPPort:            getenv("SMTP_PORT", ""),
		SMTPUsername:        getenv("SMTP_USERNAME", ""),
		SMTPPassword:        getenv("SMTP_PASSWORD", ""),
		SMTPFrom:            getenv("SMTP_FROM", ""),
		PasswordResetTTL:    resetTTL,
		RateLimitPerHour:    ratePerHour,
		MinIOEndpoint:       getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:      getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:      getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:         getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketEvidence: getenv("MINIO_BUCKET_EVIDENCE", "scamalert-evidence"),
		MinIOPublicURL:      getenv("MINIO_PUBLIC_URL", ""),
		EvidenceMaxBytes:    evidenceMax,
		EvidenceUploadOn:    getenv("ENABLE_EVIDENCE_UPLOAD", "true") == "true",
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
