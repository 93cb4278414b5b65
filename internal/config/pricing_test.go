package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePricingConfig(t *testing.T) {
	assert.NoError(t, validatePricingConfig(DefaultPricingConfig()))

	cfg := DefaultPricingConfig()
	cfg.DefaultCategory = "vip"
	assert.Error(t, validatePricingConfig(cfg))

	cfg = DefaultPricingConfig()
	cfg.PrintPricePerUnit = -1
	assert.Error(t, validatePricingConfig(cfg))

	cfg = DefaultPricingConfig()
	cfg.SeedRateCard = []RateCardSeed{{Size: "5x13", Level: "A", Category: "regular", Months: 0, Price: 10}}
	assert.Error(t, validatePricingConfig(cfg))
}

func TestDecodePricingConfigNormalizesCategory(t *testing.T) {
	v := viper.New()
	v.Set("pricing.defaultCategory", " Corporate ")
	v.Set("pricing.printPricePerUnit", 25.5)
	v.Set("pricing.seedRateCard", []map[string]any{
		{"size": "5x13", "level": "A", "category": "regular", "months": 3, "price": 4500},
	})

	cfg, err := decodePricingConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "corporate", cfg.DefaultCategory)
	assert.Equal(t, 25.5, cfg.PrintPricePerUnit)
	require.Len(t, cfg.SeedRateCard, 1)
	assert.Equal(t, 3, cfg.SeedRateCard[0].Months)
}

func TestStaticHolder(t *testing.T) {
	holder := NewStaticPricingConfigHolder(PricingConfig{DefaultCategory: "marketer"})
	assert.Equal(t, "marketer", holder.Get().DefaultCategory)
}
