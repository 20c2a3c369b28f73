package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Log        LogConfig
	Encryption EncryptionConfig
	Backup     BackupConfig
	Cache      CacheConfig
	Ficha      FichaConfig
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// User is one back-office operator loaded from the environment.
type User struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
}

// AuthConfig carries the session cookie settings plus the configured users.
type AuthConfig struct {
	CookieName   string
	Secret       string
	Expiration   time.Duration
	SecureCookie bool
	Users        []User
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EncryptionConfig holds the field-level encryption key. The key is mandatory:
// the process must not start without it.
type EncryptionConfig struct {
	Key string
}

// BackupConfig controls Google Drive snapshots.
type BackupConfig struct {
	Enabled         bool
	FolderID        string
	CredentialsFile string
	TokenFile       string
	Retention       int
	AutoInterval    time.Duration
	RestoreBatch    int
}

// CacheConfig tunes the Redis read-through cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// FichaConfig configures PDF ficha generation.
type FichaConfig struct {
	HTMLRendererBin string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		CookieName:   v.GetString("AUTH_COOKIE_NAME"),
		Secret:       v.GetString("AUTH_COOKIE_KEY"),
		Expiration:   parseDuration(v.GetString("AUTH_SESSION_EXPIRATION"), 24*time.Hour),
		SecureCookie: v.GetBool("AUTH_COOKIE_SECURE"),
		Users:        loadUsers(v),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Encryption = EncryptionConfig{Key: v.GetString("ENCRYPTION_KEY")}

	retention := v.GetInt("BACKUP_RETENTION")
	if retention <= 0 {
		retention = 30
	}
	restoreBatch := v.GetInt("BACKUP_RESTORE_BATCH")
	if restoreBatch <= 0 {
		restoreBatch = 100
	}
	cfg.Backup = BackupConfig{
		Enabled:         v.GetBool("BACKUP_ENABLED"),
		FolderID:        v.GetString("BACKUP_DRIVE_FOLDER_ID"),
		CredentialsFile: v.GetString("BACKUP_CREDENTIALS_FILE"),
		TokenFile:       v.GetString("BACKUP_TOKEN_FILE"),
		Retention:       retention,
		AutoInterval:    parseDuration(v.GetString("BACKUP_AUTO_INTERVAL"), 0),
		RestoreBatch:    restoreBatch,
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Ficha = FichaConfig{
		HTMLRendererBin: v.GetString("FICHA_HTML_RENDERER"),
	}

	return cfg, nil
}

// Validate enforces the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.Encryption.Key == "" {
		return fmt.Errorf("ENCRYPTION_KEY is not configured")
	}
	if len(c.Auth.Users) == 0 {
		return fmt.Errorf("no users configured: set AUTH_USER1_NAME/USERNAME/EMAIL/PASSWORD_HASH")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("AUTH_COOKIE_KEY is not configured")
	}
	return nil
}

// loadUsers reads numbered AUTH_USER{n}_* tuples until the first gap.
func loadUsers(v *viper.Viper) []User {
	var users []User
	for i := 1; ; i++ {
		user := User{
			Name:         v.GetString(fmt.Sprintf("AUTH_USER%d_NAME", i)),
			Username:     v.GetString(fmt.Sprintf("AUTH_USER%d_USERNAME", i)),
			Email:        v.GetString(fmt.Sprintf("AUTH_USER%d_EMAIL", i)),
			PasswordHash: v.GetString(fmt.Sprintf("AUTH_USER%d_PASSWORD_HASH", i)),
		}
		if user.Name == "" || user.Username == "" || user.Email == "" || user.PasswordHash == "" {
			break
		}
		users = append(users, user)
	}
	return users
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "recruiting_office")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_COOKIE_NAME", "ro_recruiting_auth")
	v.SetDefault("AUTH_COOKIE_KEY", "")
	v.SetDefault("AUTH_SESSION_EXPIRATION", "24h")
	v.SetDefault("AUTH_COOKIE_SECURE", false)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENCRYPTION_KEY", "")

	v.SetDefault("BACKUP_ENABLED", false)
	v.SetDefault("BACKUP_DRIVE_FOLDER_ID", "")
	v.SetDefault("BACKUP_CREDENTIALS_FILE", "credentials/credentials.json")
	v.SetDefault("BACKUP_TOKEN_FILE", "credentials/token.json")
	v.SetDefault("BACKUP_RETENTION", 30)
	v.SetDefault("BACKUP_AUTO_INTERVAL", "")
	v.SetDefault("BACKUP_RESTORE_BATCH", 100)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("FICHA_HTML_RENDERER", "wkhtmltopdf")
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
