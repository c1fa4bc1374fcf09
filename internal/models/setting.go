package models

import "fmt"

type Setting struct {
	Key   string `db:"key" json:"key"`
	Value string `db:"value" json:"value"`
}

// Compiled-in pack prices used whenever the settings store has no value.
const (
	DefaultPrice8Senior  = 4200
	DefaultPrice12Senior = 4800
	DefaultPrice8Junior  = 3800
	DefaultPrice12Junior = 4200
)

// PriceSettingKey builds the settings key of a pack price, e.g. subscription_8_senior_price.
func PriceSettingKey(tier Tier, age AgeCategory) string {
	return fmt.Sprintf("subscription_%d_%s_price", tier.Sessions(), age)
}

// DefaultPrice returns the compiled-in price for a tier and age category. Anything that is not
// junior is priced as senior.
func DefaultPrice(tier Tier, age AgeCategory) int64 {
	junior := age == AgeJunior
	switch {
	case tier == TierTwelve && junior:
		return DefaultPrice12Junior
	case tier == TierTwelve:
		return DefaultPrice12Senior
	case junior:
		return DefaultPrice8Junior
	default:
		return DefaultPrice8Senior
	}
}
