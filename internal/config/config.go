package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string
	AppName string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSNoticeTopic string // topic ARN for notice broadcasts; empty disables publishing

	JWTSecret      string
	AuthTokenTTL   time.Duration
	ResetTokenTTL  time.Duration
	VerifyTokenTTL time.Duration
	AuthCookie     bool // deliver the auth token as an HttpOnly cookie instead of the JSON body

	TOTPIssuer string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	FrontendBaseURL string
	AllowedOrigins  []string

	// Out-of-band admin provisioning. When both are set, a pre-verified
	// admin record is seeded at startup if it does not already exist.
	SeedAdminEmail    string
	SeedAdminPassword string

	GeminiAPIKey string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users        string
	Notices      string
	Attendance   string
	Exams        string
	Placements   string
	Gigs         string
	Reviews      string
	ChatRooms    string
	ChatMessages string
	Tasks        string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppName: getEnv("APP_NAME", "College OS"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:        getEnv("DYNAMO_TABLE_USERS", "users"),
			Notices:      getEnv("DYNAMO_TABLE_NOTICES", "notices"),
			Attendance:   getEnv("DYNAMO_TABLE_ATTENDANCE", "attendance"),
			Exams:        getEnv("DYNAMO_TABLE_EXAMS", "exams"),
			Placements:   getEnv("DYNAMO_TABLE_PLACEMENTS", "placements"),
			Gigs:         getEnv("DYNAMO_TABLE_GIGS", "gigs"),
			Reviews:      getEnv("DYNAMO_TABLE_REVIEWS", "professor_reviews"),
			ChatRooms:    getEnv("DYNAMO_TABLE_CHAT_ROOMS", "chat_rooms"),
			ChatMessages: getEnv("DYNAMO_TABLE_CHAT_MESSAGES", "chat_messages"),
			Tasks:        getEnv("DYNAMO_TABLE_TASKS", "tasks"),
		},
		S3BucketName:   getEnv("S3_BUCKET_NAME", "college-os-files"),
		SNSNoticeTopic: getEnv("SNS_NOTICE_TOPIC_ARN", ""),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AuthTokenTTL:   getEnvDur("AUTH_TOKEN_TTL", 24*time.Hour),
		ResetTokenTTL:  getEnvDur("RESET_TOKEN_TTL", 15*time.Minute),
		VerifyTokenTTL: getEnvDur("VERIFY_TOKEN_TTL", 24*time.Hour),
		AuthCookie:     getEnvBool("AUTH_COOKIE", false),

		TOTPIssuer: getEnv("TOTP_ISSUER", "College OS"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@collegeos.dev"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
