package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings holds the runtime options of the battleships binaries
type Settings struct {
	Host            string        `env:"BATTLESHIPS_HOST" envDefault:"127.0.0.1"`
	Port            int           `env:"BATTLESHIPS_PORT" envDefault:"8080"`
	CPUDelay        time.Duration `env:"BATTLESHIPS_CPU_DELAY" envDefault:"750ms"`
	SessionTTL      time.Duration `env:"BATTLESHIPS_SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"BATTLESHIPS_CLEANUP_INTERVAL" envDefault:"1h"`
	Seed            int64         `env:"BATTLESHIPS_SEED" envDefault:"0"`
	LayoutDir       string        `env:"BATTLESHIPS_LAYOUT_DIR" envDefault:"layouts"`
	Debug           bool          `env:"BATTLESHIPS_DEBUG" envDefault:"false"`
}

// Load reads the optional .env files, then parses the environment into
// Settings. Missing .env files are ignored.
func Load(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Warning: Error loading %s: %v", f, err)
			}
			continue
		}
		log.Printf("Loaded environment variables from %s", f)
	}

	return Parse()
}

// Parse reads Settings from the current environment
func Parse() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the value ranges
func (s *Settings) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("%w: host is empty", ErrInvalidSettings)
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidSettings, s.Port)
	}
	if s.CPUDelay < 0 {
		return fmt.Errorf("%w: negative cpu delay %s", ErrInvalidSettings, s.CPUDelay)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("%w: session ttl must be positive, got %s", ErrInvalidSettings, s.SessionTTL)
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be positive, got %s", ErrInvalidSettings, s.CleanupInterval)
	}
	return nil
}

// Addr is the host:port the HTTP server listens on
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
