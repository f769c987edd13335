package model

import "time"

// WeatherDay is one day of (possibly aggregated) weather observations.
type WeatherDay struct {
	Date          time.Time
	TempMax       float64
	TempMin       float64
	Precipitation float64
}

// CityObservation is a single city's weather for one day together with
// its population, used to build a population-weighted national average.
type CityObservation struct {
	City          string
	Population    float64
	TempMax       float64
	TempMin       float64
	Precipitation float64
}

// CityWeights returns the default population weights: the ten largest
// Swiss cities, populations from the training data collection.
func CityWeights() map[string]float64 {
	return map[string]float64{
		"Zurich":     436551,
		"Geneva":     209061,
		"Basel":      177571,
		"Lausanne":   144873,
		"Bern":       137995,
		"Winterthur": 120376,
		"Lucerne":    86234,
		"St. Gallen": 78863,
		"Lugano":     63629,
		"Biel":       56896,
	}
}

// AggregateWeather collapses per-city observations for one day into a
// single population-weighted WeatherDay. Returns the zero value when no
// observations are given.
func AggregateWeather(date time.Time, obs []CityObservation) WeatherDay {
	var totalPop float64
	for _, o := range obs {
		totalPop += o.Population
	}
	if totalPop == 0 {
		return WeatherDay{Date: date}
	}
	day := WeatherDay{Date: date}
	for _, o := range obs {
		w := o.Population / totalPop
		day.TempMax += o.TempMax * w
		day.TempMin += o.TempMin * w
		day.Precipitation += o.Precipitation * w
	}
	return day
}

// History carries the recent context a forecast needs: past weather for
// the lag and rolling features, and the last known search volumes for
// the search lag features. All slices are ordered by ascending date.
type History struct {
	Weather         []WeatherDay
	LastSearches    float64 // most recent observed daily searches
	SearchesWeekAgo float64 // observed daily searches seven days back
}

// WeatherLag returns the weather observed `days` before date, if known.
func (h History) WeatherLag(date time.Time, days int) (WeatherDay, bool) {
	want := date.AddDate(0, 0, -days)
	for i := len(h.Weather) - 1; i >= 0; i-- {
		if sameDay(h.Weather[i].Date, want) {
			return h.Weather[i], true
		}
	}
	return WeatherDay{}, false
}

// Rolling7 returns the mean TempMax and Precipitation over the seven
// days ending at date, using whatever subset of days is known. The
// boolean is false when no day in the window is known.
func (h History) Rolling7(date time.Time) (tempMax, precip float64, ok bool) {
	var n float64
	for d := 0; d < 7; d++ {
		if w, found := h.WeatherLag(date, d); found {
			tempMax += w.TempMax
			precip += w.Precipitation
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return tempMax / n, precip / n, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
