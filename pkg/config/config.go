package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. Values come from the environment (a
// .env file is honored) with an optional config.yaml on top of the defaults.
type Config struct {
	ServerAddr  string
	Env         string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	FleetsPerPage        int
	UsersPerPage         int
	FleetMaxLen          int
	StatsCacheTTLSeconds int
}

// Load reads the configuration. Missing values fall back to development
// defaults so a bare `go run` works against local services.
func Load() *Config {
	// Load environment variables from .env file if present
	_ = godotenv.Load()

	viper.SetDefault("SERVER_ADDR", ":8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "host=localhost port=5432 dbname=fleeter sslmode=disable")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("JWT_SECRET", "supersecretjwtkey")

	viper.SetDefault("FLEETS_PER_PAGE", 10)
	viper.SetDefault("USERS_PER_PAGE", 15)
	viper.SetDefault("FLEET_MAX_LEN", 140)
	viper.SetDefault("STATS_CACHE_TTL_SECONDS", 60)

	viper.AutomaticEnv()

	// Optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	return &Config{
		ServerAddr:  viper.GetString("SERVER_ADDR"),
		Env:         viper.GetString("ENV"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		RedisAddr:   viper.GetString("REDIS_ADDR"),
		JWTSecret:   viper.GetString("JWT_SECRET"),

		FleetsPerPage:        viper.GetInt("FLEETS_PER_PAGE"),
		UsersPerPage:         viper.GetInt("USERS_PER_PAGE"),
		FleetMaxLen:          viper.GetInt("FLEET_MAX_LEN"),
		StatsCacheTTLSeconds: viper.GetInt("STATS_CACHE_TTL_SECONDS"),
	}
}
