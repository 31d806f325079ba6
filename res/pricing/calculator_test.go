package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func baseRequest() ServiceRequest {
	return ServiceRequest{
		CleaningType: CleaningTypeStandard,
		Frequency:    FrequencyWeekly,
		Kitchens:     1,
		Bathrooms:    "1",
		Bedrooms:     "1",
		LivingRooms:  1,
	}
}

func TestCalculateWeeklyDiscountScenario(t *testing.T) {
	// standard(110) + kitchen(45) + bathroom(24) + bedroom(10) + living room(0)
	got := Calculate(baseRequest(), DefaultConfig())

	if !got.Subtotal.Equal(decimal.NewFromInt(189)) {
		t.Fatalf("expected subtotal 189, got %s", got.Subtotal)
	}
	if !got.DiscountAmount.Equal(decimal.RequireFromString("37.80")) {
		t.Fatalf("expected discount 37.80, got %s", got.DiscountAmount)
	}
	if !got.Total.Equal(decimal.RequireFromString("151.20")) {
		t.Fatalf("expected total 151.20, got %s", got.Total)
	}
}

func TestCalculateOneTimeNoDiscount(t *testing.T) {
	req := baseRequest()
	req.Frequency = FrequencyOneTime

	got := Calculate(req, DefaultConfig())

	if !got.DiscountAmount.IsZero() {
		t.Fatalf("expected zero discount, got %s", got.DiscountAmount)
	}
	if !got.Total.Equal(got.Subtotal) {
		t.Fatalf("expected total == subtotal, got total=%s subtotal=%s", got.Total, got.Subtotal)
	}
	if !got.Total.Equal(decimal.NewFromInt(189)) {
		t.Fatalf("expected total 189, got %s", got.Total)
	}
}

func TestCalculateWithExtras(t *testing.T) {
	req := baseRequest()
	req.Frequency = FrequencyOneTime
	req.Extras = []string{ExtraPets, ExtraDishes}

	got := Calculate(req, DefaultConfig())

	if !got.ExtrasPrice.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected extras price 60, got %s", got.ExtrasPrice)
	}
	if !got.Subtotal.Equal(decimal.NewFromInt(249)) {
		t.Fatalf("expected subtotal 249, got %s", got.Subtotal)
	}
	if !got.Total.Equal(decimal.NewFromInt(249)) {
		t.Fatalf("expected total 249, got %s", got.Total)
	}
}

func TestCalculateBreakdownSumsAndTotalInvariant(t *testing.T) {
	req := ServiceRequest{
		CleaningType:   CleaningTypeDeep,
		Frequency:      FrequencyEveryOtherWeek,
		Kitchens:       2,
		Bathrooms:      "2.5",
		Bedrooms:       "3",
		LivingRooms:    2,
		Extras:         []string{ExtraInsideOven, ExtraInsideFridge},
		LaundryPersons: 3,
	}

	got := Calculate(req, DefaultConfig())

	sum := got.TypePrice.
		Add(got.KitchenPrice).
		Add(got.BathroomPrice).
		Add(got.BedroomPrice).
		Add(got.LivingRoomPrice).
		Add(got.ExtrasPrice).
		Add(got.LaundryPrice)
	if !got.Subtotal.Equal(sum) {
		t.Fatalf("subtotal %s does not equal component sum %s", got.Subtotal, sum)
	}
	if !got.DiscountAmount.Equal(got.Subtotal.Mul(got.DiscountPercent)) {
		t.Fatalf("discount %s does not equal subtotal*percent", got.DiscountAmount)
	}
	if !got.Total.Equal(got.Subtotal.Sub(got.DiscountAmount)) {
		t.Fatalf("total %s does not equal subtotal-discount", got.Total)
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	req := baseRequest()
	req.Extras = []string{ExtraPets}
	req.LaundryPersons = 2
	cfg := DefaultConfig()

	first := Calculate(req, cfg)
	second := Calculate(req, cfg)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("repeated calculation differs:\n%s\n%s", a, b)
	}
}

func TestCalculateUnknownCleaningTypeFallsBack(t *testing.T) {
	req := baseRequest()
	req.CleaningType = "carpet-only"

	got := Calculate(req, DefaultConfig())

	if !got.TypePrice.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected fallback base 110 for unknown type, got %s", got.TypePrice)
	}
}

func TestCalculateUnknownExtraContributesNothing(t *testing.T) {
	req := baseRequest()
	req.Frequency = FrequencyOneTime
	req.Extras = []string{"chandelier", ExtraPets}

	got := Calculate(req, DefaultConfig())

	if !got.ExtrasPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unknown extra should contribute 0, got extras price %s", got.ExtrasPrice)
	}
}

func TestCalculateUnknownFrequencyMeansNoDiscount(t *testing.T) {
	req := baseRequest()
	req.Frequency = "every-3-weeks"

	got := Calculate(req, DefaultConfig())

	if !got.DiscountPercent.IsZero() || !got.DiscountAmount.IsZero() {
		t.Fatalf("unknown frequency should earn no discount, got percent=%s amount=%s",
			got.DiscountPercent, got.DiscountAmount)
	}
}

func TestCalculateUnknownRoomCountPricesAtZero(t *testing.T) {
	req := baseRequest()
	req.Frequency = FrequencyOneTime
	req.Bathrooms = "9.5"

	got := Calculate(req, DefaultConfig())

	if !got.BathroomPrice.IsZero() {
		t.Fatalf("room count absent from table should price at 0, got %s", got.BathroomPrice)
	}
}

func TestParseConfigRejectsMissingSections(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"frequencies": map[string]any{"weekly": map[string]any{"label": "Weekly", "discount": 0.2}},
		"extras":      map[string]any{"pets": map[string]any{"label": "Pets", "price": 20}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseConfig(raw); err == nil {
		t.Fatal("expected error for config missing cleaningTypes")
	}
}

func TestParseConfigRoundTripsDefault(t *testing.T) {
	raw, err := json.Marshal(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseConfig(raw)
	if err != nil {
		t.Fatalf("default config should parse: %s", err)
	}

	got := Calculate(baseRequest(), cfg)
	if !got.Total.Equal(decimal.RequireFromString("151.20")) {
		t.Fatalf("round-tripped config prices differently: %s", got.Total)
	}
}

func TestValidateCatchesGaps(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %s", err)
	}

	delete(cfg.Bathrooms, "1.5")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bathrooms table gap")
	}

	cfg = DefaultConfig()
	cfg.Frequencies[FrequencyWeekly] = FrequencyRate{Label: "Weekly", Discount: decimal.NewFromInt(1)}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for discount outside [0, 1)")
	}

	cfg = DefaultConfig()
	cfg.Kitchens[2] = decimal.NewFromInt(-5)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative price")
	}
}

type stubSource struct {
	raw  json.RawMessage
	err  error
	hits int
}

func (s *stubSource) GetActive(ctx context.Context) (json.RawMessage, error) {
	s.hits++
	return s.raw, s.err
}

func testLogger() *log.Logger {
	return log.New(os.Stdout, "(pricing_test)", log.LstdFlags)
}

func TestCacheServesDefaultWhenSourceFails(t *testing.T) {
	src := &stubSource{err: errors.New("store unreachable")}
	cache := NewCache(src, time.Minute, testLogger())

	cfg := cache.Get(context.Background())
	if cfg == nil {
		t.Fatal("cache must never return nil")
	}
	if _, ok := cfg.CleaningTypes[CleaningTypeStandard]; !ok {
		t.Fatal("fallback config should carry the default table")
	}
}

func TestCacheSnapshotAndInvalidate(t *testing.T) {
	custom := DefaultConfig()
	custom.LaundryPerPerson = decimal.NewFromInt(55)
	raw, _ := json.Marshal(custom)

	src := &stubSource{raw: raw}
	cache := NewCache(src, time.Hour, testLogger())

	first := cache.Get(context.Background())
	if !first.LaundryPerPerson.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("expected stored config, got laundry rate %s", first.LaundryPerPerson)
	}

	cache.Get(context.Background())
	if src.hits != 1 {
		t.Fatalf("expected snapshot reuse within TTL, source hit %d times", src.hits)
	}

	cache.Invalidate()
	cache.Get(context.Background())
	if src.hits != 2 {
		t.Fatalf("expected refetch after invalidate, source hit %d times", src.hits)
	}
}

func TestCacheKeepsLastSnapshotOnFailure(t *testing.T) {
	raw, _ := json.Marshal(DefaultConfig())
	src := &stubSource{raw: raw}
	cache := NewCache(src, time.Hour, testLogger())

	cache.Get(context.Background())

	src.err = errors.New("store unreachable")
	cache.Invalidate()

	cfg := cache.Get(context.Background())
	if _, ok := cfg.Extras[ExtraPets]; !ok {
		t.Fatal("expected previous snapshot to keep serving after a failed refresh")
	}
}
