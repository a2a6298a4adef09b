package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port      string
	MongoURI  string
	DBName    string
	JWTSecret string

	GoogleAPIKey  string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	StripeKey     string

	RedisAddr string
	RedisPass string

	UploadDir  string
	IndexerURL string
}

// Load reads .env when present, then the environment, with defaults for
// everything that has a sane one. Secrets have no defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "5000"),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:        getEnv("DB_NAME", "tixplate"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		StripeKey:     os.Getenv("STRIPE_SECRET_KEY"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads/images"),
		IndexerURL:    os.Getenv("INDEXER_URL"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
