package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug             bool   `envconfig:"debug"`
	Port              int    `envconfig:"port" default:"8080"`
	Env               string `envconfig:"env"`
	PostgresHost      string `envconfig:"postgres_host"`
	PostgresPort      int    `envconfig:"postgres_port" default:"5432"`
	PostgresUser      string `envconfig:"postgres_user"`
	PostgresPassword  string `envconfig:"postgres_password"`
	PostgresDB        string `envconfig:"postgres_db"`
	AWSRegion         string `envconfig:"aws_region"`
	AWSAccessKeyID    string `envconfig:"aws_access_key_id"`
	AWSSecretKey      string `envconfig:"aws_secret_access_key"`
	AWSBucket         string `envconfig:"aws_bucket"`
	QueuePath         string `envconfig:"queue_path" default:"./data/captures.db"`
	SpoolDir          string `envconfig:"spool_dir" default:"./data/spool"`
	AdminPasswordHash string `envconfig:"admin_password_hash"`

	// QuotaLimit caps pending plus confirmed photos per device per event.
	QuotaLimit int `envconfig:"quota_limit" default:"35"`

	// UploadInterval is the drain loop period of the background uploader.
	UploadInterval time.Duration `envconfig:"upload_interval" default:"2s"`

	// UploadTimeout bounds a single upload attempt so a hung request cannot
	// hold the in-flight guard forever.
	UploadTimeout time.Duration `envconfig:"upload_timeout" default:"30s"`

	// QuotaRefreshInterval is how often the cached remote photo count is
	// refreshed per device.
	QuotaRefreshInterval time.Duration `envconfig:"quota_refresh_interval" default:"15s"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("snapbooth", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
