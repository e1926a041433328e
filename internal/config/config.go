package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	AdminToken  string      `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	DB          DB          `yaml:"db"`
	Cache       Cache       `yaml:"cache"`
	FileStorage FileStorage `yaml:"file_storage"`
	Trash       Trash       `yaml:"trash"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DB       string `yaml:"db" env:"DB_NAME" env-default:"docvault"`
}

type Cache struct {
	Addr        string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB          int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"CACHE_SESSION_TTL" env-default:"24h"`
	DocumentTTL time.Duration `yaml:"document_ttl" env:"CACHE_DOCUMENT_TTL" env-default:"5m"`
}

type FileStorage struct {
	Endpoint  string `yaml:"endpoint" env:"STORAGE_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"documents"`
	UseSSL    bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
}

type Trash struct {
	// Retention is how long a trashed document survives before the sweep
	// may purge it.
	Retention time.Duration `yaml:"retention" env:"TRASH_RETENTION" env-default:"720h"`
}

func MustLoad() *Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("failed to read config from env: " + err.Error())
		}
		return &cfg
	}

	if _, err := os.Stat(path); err != nil {
		panic("config file does not exist: " + path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}
