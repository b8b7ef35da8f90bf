package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the movie finder service.
type Config struct {
	DB              DBConfig
	Redis           RedisConfig
	TMDB            TMDBConfig
	Recommendations RecommendationConfig
	RateLimit       RateLimitConfig
	Port            string
	LogLevel        string
	CORSOrigins     []string
	AdminToken      string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	SSLRootCert  string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns the PostgreSQL connection string. DATABASE_URL wins when set.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TMDBConfig holds TMDB API configuration for the catalog import.
type TMDBConfig struct {
	APIKey  string
	BaseURL string
}

// Enabled reports whether the catalog import can reach TMDB.
func (t TMDBConfig) Enabled() bool {
	return t.APIKey != ""
}

// RecommendationConfig holds the rating thresholds used by the recommendation engine.
// Ratings are stored on a 0-10 scale.
type RecommendationConfig struct {
	GenreMinRating       float64
	DirectorMinRating    float64
	DirectorExcludeBelow float64
	ExcludeSaved         bool
}

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	Enabled       bool
	Max           int
	WindowSeconds int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var p parser

	cfg := &Config{
		DB: DBConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         p.int("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "movie_finder"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			SSLRootCert:  getEnv("DB_SSLROOTCERT", ""),
			MaxOpenConns: p.int("DB_MAX_OPEN_CONNS", "25"),
			MaxIdleConns: p.int("DB_MAX_IDLE_CONNS", "10"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       p.int("REDIS_DB", "0"),
		},
		TMDB: TMDBConfig{
			APIKey:  getEnv("TMDB_API_KEY", ""),
			BaseURL: getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		},
		Recommendations: RecommendationConfig{
			GenreMinRating:       p.float("RECS_GENRE_MIN_RATING", "4"),
			DirectorMinRating:    p.float("RECS_DIRECTOR_MIN_RATING", "7"),
			DirectorExcludeBelow: p.float("RECS_DIRECTOR_EXCLUDE_BELOW", "4"),
			ExcludeSaved:         p.bool("RECS_EXCLUDE_SAVED", "false"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       p.bool("RATE_LIMIT_ENABLED", "true"),
			Max:           p.int("RATE_LIMIT_MAX", "100"),
			WindowSeconds: p.int("RATE_LIMIT_WINDOW_SECONDS", "60"),
		},
		Port:        getEnv("SERVER_PORT", getEnv("PORT", "5000")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: strings.Fields(getEnv("CORS_TRUSTED_ORIGINS", "")),
		AdminToken:  getEnv("ADMIN_TOKEN", ""),
	}

	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser keeps the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) int(key, fallback string) int {
	v, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) float(key, fallback string) float64 {
	v, err := strconv.ParseFloat(getEnv(key, fallback), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) bool(key, fallback string) bool {
	v, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}
