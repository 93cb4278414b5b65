package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// knownCategories mirrors the customer categories accepted by the rate card.
var knownCategories = map[string]struct{}{
	"regular":      {},
	"municipality": {},
	"marketer":     {},
	"corporate":    {},
}

// PricingConfig carries operator-tunable pricing defaults.
type PricingConfig struct {
	DefaultCategory   string         `mapstructure:"defaultCategory"`
	PrintPricePerUnit float64        `mapstructure:"printPricePerUnit"`
	SeedRateCard      []RateCardSeed `mapstructure:"seedRateCard"`
}

type RateCardSeed struct {
	Size     string  `mapstructure:"size"`
	Level    string  `mapstructure:"level"`
	Category string  `mapstructure:"category"`
	Months   int     `mapstructure:"months"`
	Price    float64 `mapstructure:"price"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		DefaultCategory:   "regular",
		PrintPricePerUnit: 0,
	}
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

// NewStaticPricingConfigHolder wraps a fixed config, mainly for tests.
func NewStaticPricingConfigHolder(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewPricingConfigHolder(log *zap.Logger) (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/billboards")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLBOARDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPricingConfig()
	v.SetDefault("pricing.defaultCategory", defaults.DefaultCategory)
	v.SetDefault("pricing.printPricePerUnit", defaults.PrintPricePerUnit)

	fromFile := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fromFile = false
	}

	cfg, err := decodePricingConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticPricingConfigHolder(cfg)
	log = log.Named("pricing.config")
	log.Info("pricing config loaded",
		zap.Bool("from_file", fromFile),
		zap.String("default_category", cfg.DefaultCategory),
		zap.Int("seed_entries", len(cfg.SeedRateCard)),
	)

	if fromFile {
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			updated, err := decodePricingConfig(v)
			if err != nil {
				log.Warn("pricing config reload rejected", zap.String("file", e.Name), zap.Error(err))
				return
			}
			holder.current.Store(updated)
			log.Info("pricing config reloaded", zap.String("file", e.Name))
		})
	}

	return holder, nil
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func decodePricingConfig(v *viper.Viper) (PricingConfig, error) {
	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return PricingConfig{}, err
	}
	cfg.DefaultCategory = strings.ToLower(strings.TrimSpace(cfg.DefaultCategory))
	if err := validatePricingConfig(cfg); err != nil {
		return PricingConfig{}, err
	}
	return cfg, nil
}

func validatePricingConfig(cfg PricingConfig) error {
	if _, ok := knownCategories[cfg.DefaultCategory]; !ok {
		return fmt.Errorf("pricing.defaultCategory %q is not a known category", cfg.DefaultCategory)
	}
	if cfg.PrintPricePerUnit < 0 {
		return errors.New("pricing.printPricePerUnit cannot be negative")
	}
	for i, seed := range cfg.SeedRateCard {
		if strings.TrimSpace(seed.Size) == "" || strings.TrimSpace(seed.Level) == "" {
			return fmt.Errorf("pricing.seedRateCard[%d]: size and level are required", i)
		}
		if _, ok := knownCategories[strings.ToLower(strings.TrimSpace(seed.Category))]; !ok {
			return fmt.Errorf("pricing.seedRateCard[%d]: unknown category %q", i, seed.Category)
		}
		if seed.Months <= 0 || seed.Price < 0 {
			return fmt.Errorf("pricing.seedRateCard[%d]: months must be positive and price non-negative", i)
		}
	}
	return nil
}
