package feature

// Canonical feature names. The trained artifact references these by
// name; the encoder refuses schemas containing anything else.
const (
	IsWeekend     = "is_weekend"
	IsHoliday     = "is_holiday"
	DayOfWeekSin  = "dayofweek_sin"
	DayOfWeekCos  = "dayofweek_cos"
	MonthSin      = "month_sin"
	MonthCos      = "month_cos"
	TempMax       = "temp_max"
	TempMin       = "temp_min"
	Precipitation = "precipitation"
	TempRange     = "temp_range"
	TempComfort   = "temp_comfort"
	PrecipBinary  = "precip_binary"
	PrecipHeavy   = "precip_heavy"

	TempMaxLag1       = "temp_max_lag1"
	TempMinLag1       = "temp_min_lag1"
	PrecipitationLag1 = "precipitation_lag1"
	SearchesLag1      = "searches_lag1"
	SearchesLag7      = "searches_lag7"
	TempMaxLag7       = "temp_max_lag7"
	TempMinLag7       = "temp_min_lag7"
	PrecipitationLag7 = "precipitation_lag7"

	TempMax7d       = "temp_max_7d"
	Precipitation7d = "precipitation_7d"
	TempMaxSquared  = "temp_max_squared"

	TempMaxWeekend       = "temp_max_weekend"
	PrecipitationWeekend = "precipitation_weekend"
	TempComfortWeekend   = "temp_comfort_weekend"
)

// Schema is the ordered feature list a trained model was fit on. Order
// is part of the contract: the model reads values positionally.
type Schema []string

// DefaultSchema returns the full training-time feature order.
func DefaultSchema() Schema {
	return Schema{
		IsWeekend, IsHoliday, DayOfWeekSin, DayOfWeekCos,
		MonthSin, MonthCos,
		TempMax, TempMin, Precipitation, TempRange, TempComfort,
		PrecipBinary, PrecipHeavy,
		TempMaxLag1, TempMinLag1, PrecipitationLag1, SearchesLag1,
		SearchesLag7,
		TempMaxLag7, TempMinLag7, PrecipitationLag7,
		TempMax7d, Precipitation7d,
		TempMaxSquared,
		TempMaxWeekend, PrecipitationWeekend, TempComfortWeekend,
	}
}

var derivable = func() map[string]bool {
	m := make(map[string]bool)
	for _, n := range DefaultSchema() {
		m[n] = true
	}
	return m
}()

// Vector is an encoded scenario: one value per schema entry, in schema
// order.
type Vector struct {
	Schema Schema
	Values []float64
}
