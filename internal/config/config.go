// Package config собирает параметры запуска из переменных окружения.
// Ядро получает их явными параметрами, окружение читает только cmd/kuiper.
package config

import (
	"fmt"

	"github.com/atiaxi/kuiper-sub000/pkg/utils"
	"github.com/caarlos0/env/v11"
)

// Config хранит параметры запуска.
type Config struct {
	LogLevel  string `env:"KUIPER_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"KUIPER_LOG_FORMAT" envDefault:"text"`

	// Seed - зерно генератора (суффиксы тегов, случайные условия). 0 - по времени.
	Seed int64 `env:"KUIPER_SEED" envDefault:"0"`

	SaveDir string `env:"KUIPER_SAVE_DIR" envDefault:"saves"`
	// SaveDB - путь к базе слотов сохранений. Пусто - слоты не используются.
	SaveDB string `env:"KUIPER_SAVE_DB"`
}

// Load читает конфигурацию из окружения.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Rand создает генератор по Seed.
func (c Config) Rand() utils.Source {
	return utils.NewSource(c.Seed)
}
