package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"prod"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./workshop.db"`
	HTTPServer  `yaml:"http_server"`
	DBUser      string `yaml:"db_user" env:"DB_USER" env-required:"true"`
	DBPassword  string `yaml:"db_password" env:"DB_PASSWORD" env-default:""`
	DBHost      string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort      int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName      string `yaml:"db_name" env:"DB_NAME" env-required:"true"`
	ParseTime   bool   `yaml:"parse_time" env-default:"true"`

	SyncInterval time.Duration `yaml:"sync_interval" env:"SYNC_INTERVAL" env-default:"2m"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
