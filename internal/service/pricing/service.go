package pricing_service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"sambo-academy/internal/models"
	"sambo-academy/internal/repository"
	"sambo-academy/internal/service"
)

type pricingResolver struct {
	settings repository.SettingsRepository
}

func NewPricingResolver(settings repository.SettingsRepository) service.PricingResolver {
	return &pricingResolver{settings: settings}
}

// ResolvePrice ignores stored values that do not parse as a non-negative amount.
func (r *pricingResolver) ResolvePrice(ctx context.Context, tier models.Tier, age models.AgeCategory) (decimal.Decimal, error) {
	fallback := decimal.NewFromInt(models.DefaultPrice(tier, age))

	value, ok, err := r.settings.Get(ctx, models.PriceSettingKey(tier, age))
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "resolve price")
	}
	if !ok {
		return fallback, nil
	}
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || price.IsNegative() {
		return fallback, nil
	}
	return price, nil
}
