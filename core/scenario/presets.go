package scenario

import (
	"time"

	"github.com/cedricly/demandcast/core/model"
)

// Preset is a named, fully specified scenario for demo and what-if use.
// Values are documented constants, not learned; anchor dates are fixed
// so the same preset always yields the same scenario.
type Preset struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Scenario    model.Scenario `json:"scenario"`
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// The preset table. Weather values are representative Swiss conditions
// for each label; holiday anchors use real 2024 public holidays.
var presets = []Preset{
	{
		Name:        "normal_weekday",
		Description: "Mild dry Tuesday, baseline demand",
		Scenario:    model.Scenario{Date: day(2024, time.January, 9), TempMax: 18, TempMin: 9, Precipitation: 0.5, Label: "normal_weekday"},
	},
	{
		Name:        "rainy_day",
		Description: "Wet midweek day, indoor-leaning demand",
		Scenario:    model.Scenario{Date: day(2024, time.January, 10), TempMax: 12, TempMin: 7, Precipitation: 12, Label: "rainy_day"},
	},
	{
		Name:        "heatwave",
		Description: "Very hot dry July day",
		Scenario:    model.Scenario{Date: day(2024, time.July, 11), TempMax: 32, TempMin: 21, Precipitation: 0, Label: "heatwave"},
	},
	{
		Name:        "holiday_peak",
		Description: "National holiday with pleasant weather",
		Scenario:    model.Scenario{Date: day(2024, time.August, 1), TempMax: 26, TempMin: 15, Precipitation: 0, Holiday: true, Label: "holiday_peak"},
	},
	{
		Name:        "rainy_holiday",
		Description: "Cold wet public holiday",
		Scenario:    model.Scenario{Date: day(2024, time.April, 1), TempMax: 5, TempMin: 1, Precipitation: 10, Holiday: true, Label: "rainy_holiday"},
	},
	{
		Name:        "sunny_weekend",
		Description: "Warm dry Saturday",
		Scenario:    model.Scenario{Date: day(2024, time.June, 15), TempMax: 24, TempMin: 14, Precipitation: 0, Label: "sunny_weekend"},
	},
	{
		Name:        "cold_snap",
		Description: "Freezing January Monday",
		Scenario:    model.Scenario{Date: day(2024, time.January, 15), TempMax: -5, TempMin: -12, Precipitation: 2, Label: "cold_snap"},
	},
}

// Presets returns a copy of the preset table in declaration order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}
