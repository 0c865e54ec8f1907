package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Timeout time.Duration
		BaseURL string
	}

	// Database configuration
	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
		MaxConns int
		Timeout  time.Duration
	}

	// Supabase identity provider configuration
	Supabase struct {
		URL        string
		ServiceKey string
		JWTSecret  string
	}

	// FAL generation API configuration
	FAL struct {
		Key          string
		RunBaseURL   string
		QueueBaseURL string
		UploadURL    string
		PollInterval time.Duration
	}

	// OpenRouter LLM configuration
	OpenRouter struct {
		APIKey  string
		Model   string
		BaseURL string
	}

	// Media storage configuration
	Media struct {
		DataDir   string
		ImagesDir string
		VideosDir string
	}

	// Upload constraints
	Upload struct {
		MaxImageSize    int64
		MaxVideoSize    int64
		ImageExtensions []string
		VideoExtensions []string
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = &Config{}

		// Server config
		instance.Server.Port = getEnvString("PORT", "8000")
		instance.Server.Env = getEnvString("APP_ENV", "development")
		instance.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)
		instance.Server.BaseURL = getEnvString("BASE_URL", "http://localhost:"+instance.Server.Port)

		// Database config
		instance.Database.Host = getEnvString("DB_HOST", "localhost")
		instance.Database.Port = getEnvString("DB_PORT", "5432")
		instance.Database.User = getEnvString("DB_USER", "postgres")
		instance.Database.Password = getEnvString("DB_PASSWORD", "postgres")
		instance.Database.Name = getEnvString("DB_NAME", "influencer-studio")
		instance.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
		instance.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
		instance.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

		// Supabase config
		instance.Supabase.URL = getEnvString("SUPABASE_URL", "")
		instance.Supabase.ServiceKey = getEnvString("SUPABASE_SERVICE_KEY", "")
		instance.Supabase.JWTSecret = getEnvString("SUPABASE_JWT_SECRET", "")

		// FAL config
		instance.FAL.Key = getEnvString("FAL_KEY", "")
		instance.FAL.RunBaseURL = getEnvString("FAL_RUN_URL", "https://fal.run")
		instance.FAL.QueueBaseURL = getEnvString("FAL_QUEUE_URL", "https://queue.fal.run")
		instance.FAL.UploadURL = getEnvString("FAL_UPLOAD_URL", "https://rest.alpha.fal.ai/storage/upload/initiate")
		instance.FAL.PollInterval = getEnvDuration("FAL_POLL_INTERVAL", 2*time.Second)

		// OpenRouter config
		instance.OpenRouter.APIKey = getEnvString("OPENROUTER_API_KEY", "")
		instance.OpenRouter.Model = getEnvString("OPENROUTER_MODEL", "moonshotai/kimi-k2")
		instance.OpenRouter.BaseURL = getEnvString("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")

		// Media storage config
		instance.Media.DataDir = getEnvString("DATA_DIR", "./data")
		instance.Media.ImagesDir = filepath.Join(instance.Media.DataDir, "media", "images")
		instance.Media.VideosDir = filepath.Join(instance.Media.DataDir, "media", "videos")

		// Upload constraints
		instance.Upload.MaxImageSize = getEnvInt64("MAX_IMAGE_UPLOAD_SIZE", 10<<20)  // 10MB
		instance.Upload.MaxVideoSize = getEnvInt64("MAX_VIDEO_UPLOAD_SIZE", 100<<20) // 100MB
		instance.Upload.ImageExtensions = []string{"png", "jpg", "jpeg", "webp"}
		instance.Upload.VideoExtensions = []string{"mp4", "mov", "webm"}

		// Security config
		instance.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
		instance.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
		instance.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})

		// Logging config
		instance.Logging.Level = getEnvString("LOG_LEVEL", "info")
		instance.Logging.Format = getEnvString("LOG_FORMAT", "json")
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// InitDirectories creates the on-disk media directories if they do not exist
func (c *Config) InitDirectories() error {
	for _, dir := range []string{c.Media.ImagesDir, c.Media.VideosDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
