package pricing

import "github.com/shopspring/decimal"

// fallbackBasePrice is charged when the requested cleaning type is not in the
// rate table. The table is admin-edited and may lag behind the form options,
// so an unknown type must still price rather than fail.
var fallbackBasePrice = decimal.NewFromInt(110)

// ServiceRequest is the calculator input assembled from a quote form. It is
// never persisted; only the breakdown derived from it is.
type ServiceRequest struct {
	CleaningType   string   `json:"cleaningType"`
	Frequency      string   `json:"frequency"`
	Kitchens       int      `json:"kitchens"`
	Bathrooms      string   `json:"bathrooms"`
	Bedrooms       string   `json:"bedrooms"`
	LivingRooms    int      `json:"livingRooms"`
	Extras         []string `json:"extras"`
	LaundryPersons int      `json:"laundryPersons"`
}

// CalculatedPrice is the itemized breakdown for a service request. Callers
// need the per-category components, not just the total, since the breakdown is
// both shown live on the form and copied into the quote record at submit time.
type CalculatedPrice struct {
	TypePrice       decimal.Decimal `json:"typePrice"`
	KitchenPrice    decimal.Decimal `json:"kitchenPrice"`
	BathroomPrice   decimal.Decimal `json:"bathroomPrice"`
	BedroomPrice    decimal.Decimal `json:"bedroomPrice"`
	LivingRoomPrice decimal.Decimal `json:"livingRoomPrice"`
	ExtrasPrice     decimal.Decimal `json:"extrasPrice"`
	LaundryPrice    decimal.Decimal `json:"laundryPrice"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Total           decimal.Decimal `json:"total"`
}

// Calculate prices a service request against a rate table. It is a total
// function: unknown cleaning types fall back to the base rate, unknown room
// counts and extras contribute zero, and an unknown frequency earns no
// discount. It runs on every form keystroke, so it performs no I/O and holds
// no state.
func Calculate(req ServiceRequest, cfg *Config) CalculatedPrice {
	typePrice := fallbackBasePrice
	if rate, ok := cfg.CleaningTypes[req.CleaningType]; ok {
		typePrice = rate.Price
	}

	kitchenPrice := cfg.Kitchens[req.Kitchens]
	bathroomPrice := cfg.Bathrooms[req.Bathrooms]
	bedroomPrice := cfg.Bedrooms[req.Bedrooms]
	livingRoomPrice := cfg.LivingRooms[req.LivingRooms]

	extrasPrice := decimal.Zero
	for _, extra := range req.Extras {
		if rate, ok := cfg.Extras[extra]; ok {
			extrasPrice = extrasPrice.Add(rate.Price)
		}
	}

	laundryPrice := cfg.LaundryPerPerson.Mul(decimal.NewFromInt(int64(req.LaundryPersons)))

	subtotal := typePrice.
		Add(kitchenPrice).
		Add(bathroomPrice).
		Add(bedroomPrice).
		Add(livingRoomPrice).
		Add(extrasPrice).
		Add(laundryPrice)

	discountPercent := decimal.Zero
	if rate, ok := cfg.Frequencies[req.Frequency]; ok {
		discountPercent = rate.Discount
	}
	discountAmount := subtotal.Mul(discountPercent)
	total := subtotal.Sub(discountAmount)

	return CalculatedPrice{
		TypePrice:       typePrice,
		KitchenPrice:    kitchenPrice,
		BathroomPrice:   bathroomPrice,
		BedroomPrice:    bedroomPrice,
		LivingRoomPrice: livingRoomPrice,
		ExtrasPrice:     extrasPrice,
		LaundryPrice:    laundryPrice,
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Total:           total,
	}
}
