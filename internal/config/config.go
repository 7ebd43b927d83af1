// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Драйверы хранилища записей пользователей.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverFile     = "file"
)

// Политики повторной регистрации.
const (
	SignupPolicyReject    = "reject"
	SignupPolicyOverwrite = "overwrite"
)

// Config общая структура для хранения настроек
type Config struct {
	Env            string          `yaml:"env" env:"ENV" env-default:"local"`
	Storage        Storage         `yaml:"storage"`
	Redis          RedisConnection `yaml:"redis_connection"`
	HTTPServer     HTTPServer      `yaml:"http_server"`
	Trial          Trial           `yaml:"trial"`
	CircuitBreaker CircuitBreaker  `yaml:"circuit_breaker"`
	RabbitMQ       RabbitMQ        `yaml:"rabbitmq"`
	SMTP           SMTP            `yaml:"smtp"`
	Scheduler      Scheduler       `yaml:"scheduler"`
}

// Storage структура для выбора и настройки хранилища
type Storage struct {
	Driver           string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	ConnectionString string `yaml:"connection_string" env:"STORAGE_CONNECTION_STRING"`
	FilePath         string `yaml:"file_path" env:"STORAGE_FILE_PATH" env-default:"users.json"`
	MigrationsPath   string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout        time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"*"`
	RateLimit      float64       `yaml:"rate_limit" env-default:"10"`
	RateBurst      int           `yaml:"rate_burst" env-default:"20"`
}

// RedisConnection структура для настройки подключения к redis.
// Пустой адрес отключает кеш.
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env-default:"2s"`
	Timeout     time.Duration `yaml:"timeout" env-default:"1s"`
	TTL         time.Duration `yaml:"ttl" env-default:"1h"`
}

// Trial структура с правилами пробного периода на границе запросов
type Trial struct {
	SignupPolicy     string   `yaml:"signup_policy" env:"TRIAL_SIGNUP_POLICY" env-default:"reject"`
	AllowedCountries []string `yaml:"allowed_countries" env:"TRIAL_ALLOWED_COUNTRIES"`
	PaymentBaseURL   string   `yaml:"payment_base_url" env:"PAYMENT_BASE_URL" env-default:"https://payment.jobhunterpro.com"`
	UpgradePath      string   `yaml:"upgrade_path" env-default:"/api/v1/upgrade"`
}

// CircuitBreaker структура для настройки предохранителя вокруг хранилища
type CircuitBreaker struct {
	Disabled         bool          `yaml:"disabled" env:"CIRCUIT_BREAKER_DISABLED"`
	MaxRequests      uint32        `yaml:"max_requests" env-default:"1"`
	Interval         time.Duration `yaml:"interval" env-default:"60s"`
	Timeout          time.Duration `yaml:"timeout" env-default:"30s"`
	FailureThreshold uint32        `yaml:"failure_threshold" env-default:"5"`
}

// RabbitMQ структура для подключения к брокеру
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// SMTP структура для отправки писем
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	BaseURL  string `yaml:"base_url" env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080"`
}

// Scheduler структура для настройки периодических задач
type Scheduler struct {
	ReminderInterval time.Duration `yaml:"reminder_interval" env-default:"12h"`
	ReminderWindow   time.Duration `yaml:"reminder_window" env-default:"24h"`
	SweepInterval    time.Duration `yaml:"sweep_interval" env-default:"24h"`
}

// MustLoad загружает конфиг по пути из переменной CONFIG_PATH.
// Перед чтением подхватывает .env, если он есть.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	return MustLoadPath(configPath)
}

// MustLoadPath загружает конфиг из указанного файла и завершает процесс при ошибке.
func MustLoadPath(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load читает конфиг из файла, применяет переменные окружения и проверяет значения.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые cleanenv не умеет проверить сам.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Storage.ConnectionString == "" {
			return fmt.Errorf("storage.connection_string is required for driver %q", c.Storage.Driver)
		}
	case StorageDriverFile:
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Trial.SignupPolicy {
	case SignupPolicyReject, SignupPolicyOverwrite:
	default:
		return fmt.Errorf("unknown signup policy %q", c.Trial.SignupPolicy)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  FilePath: %s\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  TTL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Trial:\n"+
			"  SignupPolicy: %s\n"+
			"  AllowedCountries: %v\n",
		c.Env,
		c.Storage.Driver,
		c.Storage.FilePath,
		c.Redis.Address,
		c.Redis.DB,
		c.Redis.TTL,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.HTTPServer.IdleTimeout,
		c.Trial.SignupPolicy,
		c.Trial.AllowedCountries,
	)
}
