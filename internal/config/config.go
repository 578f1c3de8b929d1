package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`

	DBUser     string `yaml:"db_user" env:"DB_USER" env-required:"true"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD" env-default:""`
	DBHost     string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort     int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName     string `yaml:"db_name" env:"DB_NAME" env-required:"true"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS"`

	// Расписание автосоздания бланков из шаблонов (cron, 5 полей).
	// Пустая строка отключает планировщик.
	BlankCronSpec string `yaml:"blank_cron_spec" env:"BLANK_CRON_SPEC" env-default:""`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

func MustConfig() *Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/local.yaml"
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
