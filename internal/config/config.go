package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile  string   `yaml:"log-file" env:"LOG_FILE" env-default:"p2p-tictactoe.log"`
	Peer     Peer     `yaml:"peer"`
	Registry Registry `yaml:"registry"`
	Redis    Redis    `yaml:"redis"`
}

// Peer - the local endpoint and how links behave.
type Peer struct {
	ID           string        `yaml:"id" env:"PEER_ID"`
	ListenAddr   string        `yaml:"listen-addr" env:"PEER_LISTEN_ADDR" env-default:":9090"`
	PublicURL    string        `yaml:"public-url" env:"PEER_PUBLIC_URL"`
	OutboxSize   int           `yaml:"outbox-size" env:"PEER_OUTBOX_SIZE" env-default:"16"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"PEER_WRITE_TIMEOUT" env-default:"5s"`
}

// Registry - where peer ids are published.
type Registry struct {
	Backend string        `yaml:"backend" env:"REGISTRY_BACKEND" env-default:"redis"`
	TTL     time.Duration `yaml:"ttl" env:"REGISTRY_TTL" env-default:"1h"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file. Without the file only
// the environment and defaults are used.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err = cleanenv.ReadConfig(path, config); err != nil {
		return nil, err
	}

	if config.Registry.Backend != BackendRedis && config.Registry.Backend != BackendMemory {
		return nil, fmt.Errorf("unknown registry backend %q", config.Registry.Backend)
	}

	if config.Peer.OutboxSize <= 0 {
		return nil, fmt.Errorf("peer outbox size must be positive, got %d", config.Peer.OutboxSize)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
