package initializers

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Env         string
	DBDriver    string
	DBDSN       string
	BaseURL     string
	CORSOrigins []string

	JWTSecret    string
	IDPAPIURL    string
	IDPSecretKey string

	StripeSecretKey       string
	StripeWebhookSecret   string
	StripeCurrency        string
	VerifyRedirectPayment bool

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string

	SMTPAddress       string
	SMTPHost          string
	FromEmail         string
	FromEmailPassword string

	LogLevel  string
	LogFormat string
}

var Cfg Config

func LoadConfig() Config {
	Cfg = Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		DBDriver:    getEnv("DB_DRIVER", "mysql"),
		DBDSN:       os.Getenv("DB_DSN"),
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		IDPAPIURL:    getEnv("IDP_API_URL", "https://api.clerk.com/v1"),
		IDPSecretKey: os.Getenv("IDP_SECRET_KEY"),

		StripeSecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:        strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
		VerifyRedirectPayment: getBool("VERIFY_REDIRECT_PAYMENT", true),

		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		SMTPAddress:       os.Getenv("SMTP_ADDRESS"),
		SMTPHost:          os.Getenv("FROM_EMAIL_SMTP"),
		FromEmail:         os.Getenv("FROM_EMAIL"),
		FromEmailPassword: os.Getenv("FROM_EMAIL_PASSWORD"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", ""),
	}
	if Cfg.LogFormat == "" {
		Cfg.LogFormat = "console"
		if Cfg.Env == "production" {
			Cfg.LogFormat = "json"
		}
	}
	return Cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
