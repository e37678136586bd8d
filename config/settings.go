package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings is everything the server reads from the environment.
type Settings struct {
	Port        string
	Environment string
	Domain      string
	CORSOrigins []string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DataDir       string
	UploadsDir    string

	TokenTTL time.Duration

	RedisAddr        string
	RedisPassword    string
	IssueLimitPrefix string
	IssueDailyLimit  int

	ClassifierURL     string
	ClassifierTimeout time.Duration
}

func (s Settings) Production() bool {
	return s.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// Load reads Settings from the environment. Call godotenv.Load first to
// pick up a .env file.
func Load() Settings {
	var origins []string
	for _, o := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Settings{
		Port:              getenv("PORT", "8080"),
		Environment:       os.Getenv("GO_ENV"),
		Domain:            os.Getenv("DOMAIN"),
		CORSOrigins:       origins,
		StoreDriver:       getenv("STORE_DRIVER", "mongo"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		MongoDatabase:     getenv("MONGODB_DATABASE", "civicwatch"),
		DataDir:           getenv("DATA_DIR", "data"),
		UploadsDir:        getenv("UPLOADS_DIR", "uploads"),
		TokenTTL:          getDuration("TOKEN_TTL", 72*time.Hour),
		RedisAddr:         os.Getenv("REDIS_ADDRESS"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		IssueLimitPrefix:  getenv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue-limit"),
		IssueDailyLimit:   getInt("ISSUE_DAILY_LIMIT", 10),
		ClassifierURL:     os.Getenv("CLASSIFIER_URL"),
		ClassifierTimeout: getDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
	}
}
