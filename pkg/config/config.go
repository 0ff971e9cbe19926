package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	ClientOrigin            string
	GeminiAPIKey            string
	FirebaseCredentialsPath string
}

func Load() *Config {
	// Missing .env is fine; environment variables may be set directly
	_ = godotenv.Load()

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "newsblog"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		ClientOrigin:            getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
