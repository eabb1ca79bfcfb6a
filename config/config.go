package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string
	TokenTTL  time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPass     string
	DBName     string
	DBNameTest string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	StorageType string // "local" or "minio"
	StorageRoot string

	MinioHost     string
	MinioPort     string
	MinioUsername string
	MinioPassword string
	BucketName    string

	RabbitMQURL   string
	RabbitMQHost  string
	RabbitMQPort  string
	RabbitMQUser  string
	RabbitMQPass  string
	RabbitMQVhost string

	MaxUploadBytes    int64
	AllowedExtensions []string

	CleanupConcurrency int
	CleanupRate        float64
	CleanupBurst       int
	CleanupRetryMax    int
	CleanupRetryDelays []time.Duration
	ListCacheTTL       time.Duration
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, strings.ToLower(part))
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDurationList(key string, defaultValue []time.Duration) []time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// InitConfig loads configuration from the environment, reading an optional
// .env file first. The JWT secret and storage root are read once here and
// never mutated afterwards.
func InitConfig() {
	_ = godotenv.Load()

	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = "amqp://" + url.PathEscape(rabbitUser) + ":" + url.PathEscape(rabbitPass) +
			"@" + rabbitHost + ":" + rabbitPort + "/" + url.PathEscape(rabbitVhost)
	}

	retryDelays := getEnvDurationList(
		"CLEANUP_RETRY_DELAYS",
		[]time.Duration{10 * time.Second, 1 * time.Minute, 10 * time.Minute},
	)

	AppConfig = Config{
		Port:      getEnv("PORT", "8000"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 12*time.Hour),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPass:     getEnv("DB_PASS", "root"),
		DBName:     getEnv("DB_NAME", "doc_vault"),
		DBNameTest: getEnv("DB_NAME_TEST", "doc_vault_test"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StorageType: strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		StorageRoot: getEnv("STORAGE_ROOT", "uploads"),

		MinioHost:     getEnv("MINIO_HOST", "localhost"),
		MinioPort:     getEnv("MINIO_PORT", "9000"),
		MinioUsername: getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword: getEnv("MINIO_PASSWORD", "minioadmin"),
		BucketName:    getEnv("BUCKET_NAME", "doc-vault"),

		RabbitMQURL:   rabbitURL,
		RabbitMQHost:  rabbitHost,
		RabbitMQPort:  rabbitPort,
		RabbitMQUser:  rabbitUser,
		RabbitMQPass:  rabbitPass,
		RabbitMQVhost: rabbitVhost,

		MaxUploadBytes:    getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
		AllowedExtensions: getEnvList("ALLOWED_EXTENSIONS", []string{"pdf"}),

		CleanupConcurrency: getEnvInt("CLEANUP_WORKER_CONCURRENCY", 2),
		CleanupRate:        getEnvFloat("CLEANUP_RATE", 4),
		CleanupBurst:       getEnvInt("CLEANUP_BURST", 4),
		CleanupRetryMax:    getEnvInt("CLEANUP_RETRY_MAX", 3),
		CleanupRetryDelays: retryDelays,
		ListCacheTTL:       getEnvDuration("LIST_CACHE_TTL", 30*time.Second),
	}
}

// ExtensionAllowed reports whether a filename's extension is in the allowed
// set. Matching is case-insensitive and requires an extension to be present.
func ExtensionAllowed(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return false
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range AppConfig.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
