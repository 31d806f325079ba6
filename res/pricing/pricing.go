package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cleaning type keys offered by the public forms
const (
	CleaningTypeStandard  = "standard"
	CleaningTypeDeep      = "deep"
	CleaningTypeMoveInOut = "move-in-out"
)

// Frequency keys offered by the public forms
const (
	FrequencyOneTime        = "one-time"
	FrequencyWeekly         = "weekly"
	FrequencyEveryOtherWeek = "every-other-week"
	FrequencyEvery4Weeks    = "every-4-weeks"
)

// Extra keys offered by the public forms
const (
	ExtraInsideFridge   = "inside-fridge"
	ExtraInsideOven     = "inside-oven"
	ExtraInsideCabinets = "inside-cabinets"
	ExtraDishes         = "dishes"
	ExtraPets           = "pets"
)

// CleaningTypeRate is the base price for one cleaning type
type CleaningTypeRate struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// FrequencyRate holds the discount fraction for a recurrence cadence.
// Discount is a fraction in [0, 1), not a percentage.
type FrequencyRate struct {
	Label    string          `json:"label"`
	Discount decimal.Decimal `json:"discount"`
}

// ExtraRate is the flat add-on price for an optional extra
type ExtraRate struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// Config is the rate table the calculator consumes. Exactly one config is
// active at a time; it is edited from the admin panel and stored as JSON, so
// every lookup the calculator performs has a defined fallback for keys the
// stored table does not cover.
//
// Bathrooms and bedrooms are keyed by string counts because the forms offer
// half-increments ("1.5"); kitchens and living rooms are whole counts.
type Config struct {
	CleaningTypes    map[string]CleaningTypeRate `json:"cleaningTypes"`
	Frequencies      map[string]FrequencyRate    `json:"frequencies"`
	Kitchens         map[int]decimal.Decimal     `json:"kitchens"`
	Bathrooms        map[string]decimal.Decimal  `json:"bathrooms"`
	Bedrooms         map[string]decimal.Decimal  `json:"bedrooms"`
	LivingRooms      map[int]decimal.Decimal     `json:"livingRooms"`
	Extras           map[string]ExtraRate        `json:"extras"`
	LaundryPerPerson decimal.Decimal             `json:"laundryPerPerson"`
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// DefaultConfig returns the hardcoded fallback rate table. It is used whenever
// no active config exists or the stored one is malformed, so pricing never
// blocks the booking forms.
func DefaultConfig() *Config {
	return &Config{
		CleaningTypes: map[string]CleaningTypeRate{
			CleaningTypeStandard:  {Label: "Standard", Price: d("110")},
			CleaningTypeDeep:      {Label: "Deep Cleaning", Price: d("125")},
			CleaningTypeMoveInOut: {Label: "Move In-Out", Price: d("140")},
		},
		Frequencies: map[string]FrequencyRate{
			FrequencyOneTime:        {Label: "One-Time", Discount: d("0")},
			FrequencyWeekly:         {Label: "Weekly", Discount: d("0.20")},
			FrequencyEveryOtherWeek: {Label: "Every other week", Discount: d("0.15")},
			FrequencyEvery4Weeks:    {Label: "Every 4 weeks", Discount: d("0.10")},
		},
		Kitchens: map[int]decimal.Decimal{
			0: d("0"), 1: d("45"), 2: d("90"), 3: d("135"), 4: d("180"),
		},
		Bathrooms: map[string]decimal.Decimal{
			"0": d("0"), "1": d("24"), "1.5": d("48"), "2": d("66"), "2.5": d("84"),
			"3": d("102"), "3.5": d("120"), "4": d("138"), "4.5": d("156"), "5": d("174"),
			"5.5": d("192"), "6": d("210"), "6.5": d("228"), "7": d("246"), "7.5": d("264"),
			"8": d("282"),
		},
		Bedrooms: map[string]decimal.Decimal{
			"0": d("0"), "1": d("10"), "1.5": d("18"), "2": d("36"), "2.5": d("54"),
			"3": d("72"), "3.5": d("90"), "4": d("108"), "4.5": d("126"), "5": d("144"),
			"5.5": d("162"), "6": d("180"), "6.5": d("198"), "7": d("216"), "7.5": d("234"),
			"8": d("252"),
		},
		LivingRooms: map[int]decimal.Decimal{
			0: d("0"), 1: d("0"), 2: d("24"), 3: d("48"), 4: d("72"),
			5: d("96"), 6: d("120"), 7: d("144"), 8: d("168"),
		},
		Extras: map[string]ExtraRate{
			ExtraInsideFridge:   {Label: "Inside Fridge", Price: d("50")},
			ExtraInsideOven:     {Label: "Inside Oven", Price: d("50")},
			ExtraInsideCabinets: {Label: "Inside Cabinets", Price: d("40")},
			ExtraDishes:         {Label: "Dishes", Price: d("40")},
			ExtraPets:           {Label: "Pets", Price: d("20")},
		},
		LaundryPerPerson: d("40"),
	}
}

// ParseConfig decodes a stored rate table. A config missing any of the
// cleaningTypes, frequencies or extras sections is treated as malformed; the
// caller substitutes the default table.
func ParseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("malformed pricing config: %w", err)
	}
	if len(cfg.CleaningTypes) == 0 {
		return nil, fmt.Errorf("malformed pricing config: missing cleaningTypes")
	}
	if len(cfg.Frequencies) == 0 {
		return nil, fmt.Errorf("malformed pricing config: missing frequencies")
	}
	if len(cfg.Extras) == 0 {
		return nil, fmt.Errorf("malformed pricing config: missing extras")
	}
	return &cfg, nil
}

// Room counts the public forms offer. Validate checks the submitted table
// covers all of them, since lookups silently price a missing count at 0.
var (
	formKitchenCounts    = []int{0, 1, 2, 3, 4}
	formLivingRoomCounts = []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	formHalfUnitCounts   = []string{
		"0", "1", "1.5", "2", "2.5", "3", "3.5", "4", "4.5",
		"5", "5.5", "6", "6.5", "7", "7.5", "8",
	}
)

// Validate checks the invariants an admin-submitted rate table must satisfy:
// required sections present, every price non-negative, every discount fraction
// in [0, 1), and every count the forms offer priced.
func (c *Config) Validate() error {
	if len(c.CleaningTypes) == 0 || len(c.Frequencies) == 0 || len(c.Extras) == 0 {
		return fmt.Errorf("pricing config must define cleaningTypes, frequencies and extras")
	}

	for key, rate := range c.CleaningTypes {
		if rate.Price.IsNegative() {
			return fmt.Errorf("cleaning type %q has negative price", key)
		}
	}
	for key, rate := range c.Frequencies {
		if rate.Discount.IsNegative() || rate.Discount.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("frequency %q discount must be in [0, 1)", key)
		}
	}
	for key, rate := range c.Extras {
		if rate.Price.IsNegative() {
			return fmt.Errorf("extra %q has negative price", key)
		}
	}
	if c.LaundryPerPerson.IsNegative() {
		return fmt.Errorf("laundryPerPerson must not be negative")
	}

	for _, count := range formKitchenCounts {
		price, ok := c.Kitchens[count]
		if !ok {
			return fmt.Errorf("kitchens table missing count %d offered by the form", count)
		}
		if price.IsNegative() {
			return fmt.Errorf("kitchens[%d] has negative price", count)
		}
	}
	for _, count := range formLivingRoomCounts {
		price, ok := c.LivingRooms[count]
		if !ok {
			return fmt.Errorf("livingRooms table missing count %d offered by the form", count)
		}
		if price.IsNegative() {
			return fmt.Errorf("livingRooms[%d] has negative price", count)
		}
	}
	for _, count := range formHalfUnitCounts {
		price, ok := c.Bathrooms[count]
		if !ok {
			return fmt.Errorf("bathrooms table missing count %q offered by the form", count)
		}
		if price.IsNegative() {
			return fmt.Errorf("bathrooms[%q] has negative price", count)
		}
		price, ok = c.Bedrooms[count]
		if !ok {
			return fmt.Errorf("bedrooms table missing count %q offered by the form", count)
		}
		if price.IsNegative() {
			return fmt.Errorf("bedrooms[%q] has negative price", count)
		}
	}

	return nil
}
