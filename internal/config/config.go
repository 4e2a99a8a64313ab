package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string      `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage     Storage     `yaml:"storage"`
	Redis       Redis       `yaml:"redis"`
	SQLite      SQLite      `yaml:"sqlite"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
	CORS        CORS        `yaml:"cors"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"redis"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"tictactoe.db"`
}

type Leaderboard struct {
	Size int `yaml:"size" env:"LEADERBOARD_SIZE" env-default:"10"`
}

type CORS struct {
	AllowedOrigin string `yaml:"allowed-origin" env:"CORS_ALLOWED_ORIGIN" env-default:"http://localhost:3000"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the YAML file at path, environment variables take precedence.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Storage.Driver {
	case DriverRedis, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, that.Storage.Driver)
	}

	if that.Leaderboard.Size < 0 {
		return fmt.Errorf("leaderboard size must not be negative, got %d", that.Leaderboard.Size)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
