package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort         string
	MySQLDSN           string
	RedisAddr          string
	RedisDB            int
	RedisPass          string
	JWTSecret          string
	JWTIssuer          string
	JWTAudience        string
	AccessTokenMinutes int
	RefreshTokenDays   int
	CORSOrigins        []string
	SwaggerHost        string
}

// Load builds Config from environment with sensible defaults.
// JWTSecret has no default on purpose; main treats an empty secret as fatal.
func Load() *Config {
	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "5000"),
		MySQLDSN:           getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/fintrack?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		RedisPass:          os.Getenv("REDIS_PASSWORD"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTIssuer:          getEnv("JWT_ISSUER", "fintrack"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "fintrack"),
		AccessTokenMinutes: getEnvInt("ACCESS_TOKEN_MINUTES", 60),
		RefreshTokenDays:   getEnvInt("REFRESH_TOKEN_DAYS", 7),
		CORSOrigins:        []string{getEnv("CORS_ORIGIN", "http://localhost:8080")},
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
