package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string
	DBDriver      string // sqlite | mongo
	DBDSN         string
	MongoURI      string
	MongoDB       string
	StorageDriver string // fs | minio
	MediaDir      string
	StagingDir    string
	PublicURL     string
	MinioEndpoint string
	MinioAccess   string
	MinioSecret   string
	MinioBucket   string
	MinioUseSSL   bool
	URLExpiry     time.Duration
	DraftCapacity int
	LogFile       string
}

// New returns a viper instance with defaults and environment binding. Keys
// are the environment variable names; a .env file in the working directory
// is loaded first when present and never overrides the real environment.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "productadder.db") // sqlite file in project root
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "productadder")
	v.SetDefault("STORAGE_DRIVER", "fs")
	v.SetDefault("MEDIA_DIR", "./web/media")
	v.SetDefault("STAGING_DIR", "./web/staging")
	v.SetDefault("PUBLIC_URL", "")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "productadder")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("URL_EXPIRY", "168h")
	v.SetDefault("DRAFT_CAPACITY", 256)
	v.SetDefault("LOG_FILE", "./productadder.log")
	return v
}

func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:          v.GetString("PORT"),
		DBDriver:      v.GetString("DB_DRIVER"),
		DBDSN:         v.GetString("DB_DSN"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDB:       v.GetString("MONGO_DB"),
		StorageDriver: v.GetString("STORAGE_DRIVER"),
		MediaDir:      v.GetString("MEDIA_DIR"),
		StagingDir:    v.GetString("STAGING_DIR"),
		PublicURL:     v.GetString("PUBLIC_URL"),
		MinioEndpoint: v.GetString("MINIO_ENDPOINT"),
		MinioAccess:   v.GetString("MINIO_ACCESS_KEY"),
		MinioSecret:   v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:   v.GetString("MINIO_BUCKET"),
		MinioUseSSL:   v.GetBool("MINIO_USE_SSL"),
		URLExpiry:     v.GetDuration("URL_EXPIRY"),
		DraftCapacity: v.GetInt("DRAFT_CAPACITY"),
		LogFile:       v.GetString("LOG_FILE"),
	}
	if cfg.DraftCapacity <= 0 {
		cfg.DraftCapacity = 256
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s STORAGE_DRIVER=%s MEDIA_DIR=%s LOG_FILE=%s",
		cfg.Port, cfg.DBDriver, cfg.StorageDriver, cfg.MediaDir, cfg.LogFile)
	return cfg
}

func Load() Config { return FromViper(New()) }
