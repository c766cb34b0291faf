package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers supported by the blob store.
const (
	StorageDriverMinIO = "minio"
	StorageDriverLocal = "local"
)

type Config struct {
	Env  string
	Port int
	HTTP HTTPConfig

	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Uploads  UploadConfig
	Cleanup  CleanupConfig
	Identity IdentityConfig
	CORS     CORSConfig
	Log      LogConfig
}

type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	// ProjectsTTL bounds how long a cached project listing is served.
	ProjectsTTL time.Duration
}

// StorageConfig selects and configures the blob store backend.
type StorageConfig struct {
	Driver    string
	LocalDir  string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// UploadConfig limits accepted multipart uploads.
type UploadConfig struct {
	MaxFileSizeBytes int64
}

// CleanupConfig sizes the orphaned blob cleanup queue.
type CleanupConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// IdentityConfig controls verification of identity-provider tokens.
type IdentityConfig struct {
	Enabled   bool
	Secret    string
	PublicKey string
	Issuer    string
	Audience  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.HTTP = HTTPConfig{
		ReadTimeout:  parseDuration(v.GetString("HTTP_READ_TIMEOUT"), 15*time.Second),
		WriteTimeout: parseDuration(v.GetString("HTTP_WRITE_TIMEOUT"), 60*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:     v.GetBool("REDIS_ENABLED"),
		Host:        v.GetString("REDIS_HOST"),
		Port:        v.GetInt("REDIS_PORT"),
		Password:    v.GetString("REDIS_PASSWORD"),
		DB:          v.GetInt("REDIS_DB"),
		ProjectsTTL: parseDuration(v.GetString("PROJECTS_CACHE_TTL"), 2*time.Minute),
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER")))
	if driver != StorageDriverLocal {
		driver = StorageDriverMinIO
	}
	cfg.Storage = StorageConfig{
		Driver:    driver,
		LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
		Endpoint:  v.GetString("MINIO_ENDPOINT"),
		AccessKey: v.GetString("MINIO_ACCESS_KEY"),
		SecretKey: v.GetString("MINIO_SECRET_KEY"),
		Bucket:    v.GetString("MINIO_BUCKET"),
		UseSSL:    v.GetBool("MINIO_USE_SSL"),
	}

	maxUpload := v.GetInt64("UPLOAD_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 20 * 1024 * 1024
	}
	cfg.Uploads = UploadConfig{MaxFileSizeBytes: maxUpload}

	cfg.Cleanup = CleanupConfig{
		Workers:    v.GetInt("CLEANUP_WORKERS"),
		MaxRetries: v.GetInt("CLEANUP_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("CLEANUP_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Identity = IdentityConfig{
		Enabled:   v.GetBool("IDENTITY_ENABLED"),
		Secret:    v.GetString("IDENTITY_JWT_SECRET"),
		PublicKey: v.GetString("IDENTITY_PUBLIC_KEY"),
		Issuer:    v.GetString("IDENTITY_ISSUER"),
		Audience:  v.GetString("IDENTITY_AUDIENCE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "60s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_projects")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROJECTS_CACHE_TTL", "2m")

	v.SetDefault("STORAGE_DRIVER", StorageDriverMinIO)
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "project-files")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("UPLOAD_MAX_FILE_SIZE", 20*1024*1024)

	v.SetDefault("CLEANUP_WORKERS", 1)
	v.SetDefault("CLEANUP_MAX_RETRIES", 5)
	v.SetDefault("CLEANUP_RETRY_DELAY", "2s")

	v.SetDefault("IDENTITY_ENABLED", false)
	v.SetDefault("IDENTITY_JWT_SECRET", "")
	v.SetDefault("IDENTITY_PUBLIC_KEY", "")
	v.SetDefault("IDENTITY_ISSUER", "")
	v.SetDefault("IDENTITY_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// isMissingFile reports whether viper failed only because .env is absent;
// SetConfigFile bypasses viper's own not-found error type.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
