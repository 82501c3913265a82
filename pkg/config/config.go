package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Document store
	IPFSAPIURL     string
	IPFSGatewayURL string
	IPFSTimeout    time.Duration

	// Statistics cache
	RedisURL      string
	StatsCacheTTL time.Duration

	// Requests per RATE_LIMIT_PERIOD per client IP
	RateLimit       int64
	RateLimitPeriod time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "givetrack-backend")
	viper.SetDefault("IPFS_API_URL", "http://localhost:5001")
	viper.SetDefault("IPFS_GATEWAY_URL", "")
	viper.SetDefault("IPFS_TIMEOUT", "30s")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("STATS_CACHE_TTL", "5m")
	viper.SetDefault("RATE_LIMIT", 100)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.IPFSAPIURL = viper.GetString("IPFS_API_URL")
	cfg.IPFSGatewayURL = viper.GetString("IPFS_GATEWAY_URL")
	ipfsTimeoutStr := viper.GetString("IPFS_TIMEOUT")
	ipfsTimeout, err := time.ParseDuration(ipfsTimeoutStr)
	if err != nil {
		ipfsTimeout = 30 * time.Second
		log.Printf("Warning: Invalid value for IPFS_TIMEOUT ('%s'). Defaulting to %s.\n", ipfsTimeoutStr, ipfsTimeout.String())
	}
	cfg.IPFSTimeout = ipfsTimeout

	cfg.RedisURL = viper.GetString("REDIS_URL")
	statsTTLStr := viper.GetString("STATS_CACHE_TTL")
	statsTTL, err := time.ParseDuration(statsTTLStr)
	if err != nil {
		statsTTL = 5 * time.Minute
		log.Printf("Warning: Invalid value for STATS_CACHE_TTL ('%s'). Defaulting to %s.\n", statsTTLStr, statsTTL.String())
	}
	cfg.StatsCacheTTL = statsTTL

	cfg.RateLimit = viper.GetInt64("RATE_LIMIT")
	ratePeriodStr := viper.GetString("RATE_LIMIT_PERIOD")
	ratePeriod, err := time.ParseDuration(ratePeriodStr)
	if err != nil {
		ratePeriod = time.Minute
		log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", ratePeriodStr, ratePeriod.String())
	}
	cfg.RateLimitPeriod = ratePeriod

	return cfg, nil
}
