package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/systems"
	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - зерно генератора мира. 0 - взять текущее время.
	Seed int64 `yaml:"seed"`

	// Мир
	MapLength   int     `yaml:"map_length"`
	TreeDensity float64 `yaml:"tree_density"` // Доля деревьев и скал, 0..1
	Monkeys     int     `yaml:"monkeys"`
	Bears       int     `yaml:"bears"`
	Stones      int     `yaml:"stones"`
	Mushrooms   int     `yaml:"mushrooms"`

	// TurnInterval - пауза между ходами NPC в цикле Run
	TurnInterval time.Duration `yaml:"turn_interval"`

	Nav systems.NavOptions `yaml:"nav"`

	// Сервер
	Port string `yaml:"port"`

	// Логи
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Хранилище
	SaveDir    string `yaml:"save_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DefaultConfig возвращает конфиг по умолчанию (случайный сид).
func DefaultConfig() Config {
	return Config{
		Seed:         0,
		MapLength:    64,
		TreeDensity:  0.25,
		Monkeys:      6,
		Bears:        2,
		Stones:       10,
		Mushrooms:    10,
		TurnInterval: 200 * time.Millisecond,
		Port:         "8080",
		LogLevel:     "info",
		LogFormat:    "text",
		SaveDir:      "saves",
		SQLitePath:   "saves/memory.db",
	}
}

// LoadConfig читает YAML поверх значений по умолчанию.
// Если файла нет - возвращает значения по умолчанию.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate отклоняет конфиги, с которыми мир не построить.
func (c Config) Validate() error {
	if c.MapLength <= 0 || c.MapLength > domain.MaxMapLength {
		return fmt.Errorf("%w: map_length %d", domain.ErrEmptyMap, c.MapLength)
	}
	if c.TreeDensity < 0 || c.TreeDensity > 1 {
		return fmt.Errorf("tree_density %.2f out of [0, 1]", c.TreeDensity)
	}
	if c.Monkeys < 0 || c.Bears < 0 || c.Stones < 0 || c.Mushrooms < 0 {
		return errors.New("thing counts must not be negative")
	}
	return nil
}

// ResolveSeed подставляет время, если сид не задан.
func (c *Config) ResolveSeed() int64 {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c.Seed
}
