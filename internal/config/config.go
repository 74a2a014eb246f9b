package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"prod"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"./data"`
	ErrorLog    string `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`
	FrontendDir string `yaml:"frontend_dir" env:"FRONTEND_DIR" env-default:"./frontend-dist"`
	HTTPServer  `yaml:"http_server"`
	Database    `yaml:"database"`
	Auth        `yaml:"auth"`

	AdminLogin string `yaml:"admin_login" env:"ADMIN_LOGIN" env-required:"true"`
	AdminPass  string `yaml:"admin_pass" env:"ADMIN_PASS" env-required:"true"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout        time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

// Database selects the driver for tenant and master databases. With sqlite
// every company gets its own file under StoragePath; with mysql every company
// gets its own schema on the configured server.
type Database struct {
	Driver   string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Master   string `yaml:"master" env:"DB_MASTER" env-default:"gestao"`
}

type Auth struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"12h"`
}

func MustConfig() *Config {
	// .env é opcional, só existe em máquina de desenvolvimento
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
