package shared

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool
	MySQLDSN          string
	RedisAddr         string
	RedisDB           int
	RedisPass         string
	CacheTTL          time.Duration
	LookupWorkers     int

	SMTPHost     string
	SMTPPort     int
	UserEmail    string
	SMTPPassword string
	ClientID     string
	ClientSecret string
	RefreshToken string
	MailRPS      float64

	NotifyMode    string // direct|http
	NotifyBaseURL string
	NotifyToken   string

	GeminiAPIKey string
	GeminiModel  string

	JWTSecret     string
	ResumeWorkers int
}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "prod")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "lokvista")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("MYSQL_DSN", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 60)
	v.SetDefault("IMAGE_LOOKUP_WORKERS", 8)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 465)
	v.SetDefault("USER_EMAIL", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("CLIENT_ID", "")
	v.SetDefault("CLIENT_SECRET", "")
	v.SetDefault("REFRESH_TOKEN", "")
	v.SetDefault("MAIL_RPS", 2)
	v.SetDefault("NOTIFY_MODE", "direct")
	v.SetDefault("NOTIFY_BASE_URL", "")
	v.SetDefault("NOTIFY_TOKEN", "")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("RESUME_WORKERS", 4)
}

// Load reads configuration from the environment. main loads .env first.
func Load() Config {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	c := Config{
		AppEnv:      v.GetString("APP_ENV"),
		HTTPAddr:    v.GetString("HTTP_ADDR"),
		MetricsAddr: v.GetString("METRICS_ADDR"),

		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		MongoTransactions: v.GetBool("MONGO_TRANSACTIONS"),
		MySQLDSN:          v.GetString("MYSQL_DSN"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPass:         v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		CacheTTL:          time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		LookupWorkers:     v.GetInt("IMAGE_LOOKUP_WORKERS"),

		SMTPHost:     v.GetString("SMTP_HOST"),
		SMTPPort:     v.GetInt("SMTP_PORT"),
		UserEmail:    v.GetString("USER_EMAIL"),
		SMTPPassword: v.GetString("SMTP_PASSWORD"),
		ClientID:     v.GetString("CLIENT_ID"),
		ClientSecret: v.GetString("CLIENT_SECRET"),
		RefreshToken: v.GetString("REFRESH_TOKEN"),
		MailRPS:      v.GetFloat64("MAIL_RPS"),

		NotifyMode:    strings.ToLower(strings.TrimSpace(v.GetString("NOTIFY_MODE"))),
		NotifyBaseURL: v.GetString("NOTIFY_BASE_URL"),
		NotifyToken:   v.GetString("NOTIFY_TOKEN"),

		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		GeminiModel:  v.GetString("GEMINI_MODEL"),

		JWTSecret:     v.GetString("JWT_SECRET"),
		ResumeWorkers: v.GetInt("RESUME_WORKERS"),
	}

	if c.NotifyMode != "direct" && c.NotifyMode != "http" {
		log.Warn().Str("mode", c.NotifyMode).Msg("unknown NOTIFY_MODE, using direct")
		c.NotifyMode = "direct"
	}
	if c.UserEmail == "" {
		log.Warn().Msg("USER_EMAIL is empty; notification emails are disabled")
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; admin routes are unauthenticated")
	}
	return c
}
