package types

import (
	"time"
)

const (
	SeasonKharif = "Kharif"
	SeasonRabi   = "Rabi"
	SeasonZaid   = "Zaid"

	RainfallLow      = "low"
	RainfallModerate = "moderate"
	RainfallHigh     = "high"
)

// SeasonRainfall holds the forecast-window precipitation bands (mm over the
// forecast days) separating low / moderate / high rainfall for a season.
type SeasonRainfall struct {
	Season       string
	Months       []time.Month
	LowBelowMm   float64
	HighAboveMm  float64
	LowAdvice    string
	NormalAdvice string
	HighAdvice   string
}

type RainfallOutlook struct {
	Season           string  `json:"season"`
	ExpectedRainfall string  `json:"expectedRainfall"`
	TotalPrecipMm    float64 `json:"totalPrecipMm"`
	AvgChanceOfRain  float64 `json:"avgChanceOfRain"`
	Advice           string  `json:"advice"`
}

func GetSeasonRainfall() []SeasonRainfall {
	return []SeasonRainfall{
		{
			Season:       SeasonKharif,
			Months:       []time.Month{time.June, time.July, time.August, time.September, time.October},
			LowBelowMm:   10,
			HighAboveMm:  60,
			LowAdvice:    "Monsoon rain is below normal. Plan supplementary irrigation and prefer drought tolerant varieties such as millets or pulses.",
			NormalAdvice: "Rainfall is in the normal monsoon range. Good window for sowing paddy, cotton, maize and soybean.",
			HighAdvice:   "Heavy rain expected. Clear field drainage, delay fertilizer application and watch for fungal disease.",
		},
		{
			Season:       SeasonRabi,
			Months:       []time.Month{time.November, time.December, time.January, time.February, time.March},
			LowBelowMm:   2,
			HighAboveMm:  20,
			LowAdvice:    "Dry conditions as usual for Rabi. Schedule irrigation at crown root initiation and flowering for wheat and mustard.",
			NormalAdvice: "Light winter showers expected. Reduce the next irrigation accordingly.",
			HighAdvice:   "Unseasonal rain expected. Postpone harvesting and protect stored grain from moisture.",
		},
		{
			Season:       SeasonZaid,
			Months:       []time.Month{time.April, time.May},
			LowBelowMm:   3,
			HighAboveMm:  25,
			LowAdvice:    "Hot and dry. Irrigate summer crops (watermelon, cucumber, moong) in the evening and mulch to save moisture.",
			NormalAdvice: "Some pre-monsoon showers expected. Prepare fields for Kharif sowing.",
			HighAdvice:   "Pre-monsoon storms likely. Support vegetable trellises and harvest ripe produce early.",
		},
	}
}

func SeasonFor(month time.Month) SeasonRainfall {
	seasons := GetSeasonRainfall()
	for _, s := range seasons {
		for _, m := range s.Months {
			if m == month {
				return s
			}
		}
	}
	return seasons[0]
}

// Outlook classifies the forecast's total precipitation against the season bands.
func Outlook(forecast *WeatherForecast, now time.Time) RainfallOutlook {
	season := SeasonFor(now.Month())
	outlook := RainfallOutlook{Season: season.Season}
	if forecast == nil {
		outlook.ExpectedRainfall = RainfallModerate
		outlook.Advice = season.NormalAdvice
		return outlook
	}

	days := forecast.Forecast.ForecastDay
	for _, d := range days {
		outlook.TotalPrecipMm += d.Day.TotalPrecipMm
		outlook.AvgChanceOfRain += d.Day.DailyChanceOfRain
	}
	if len(days) > 0 {
		outlook.AvgChanceOfRain /= float64(len(days))
	}

	switch {
	case outlook.TotalPrecipMm < season.LowBelowMm:
		outlook.ExpectedRainfall = RainfallLow
		outlook.Advice = season.LowAdvice
	case outlook.TotalPrecipMm > season.HighAboveMm:
		outlook.ExpectedRainfall = RainfallHigh
		outlook.Advice = season.HighAdvice
	default:
		outlook.ExpectedRainfall = RainfallModerate
		outlook.Advice = season.NormalAdvice
	}
	return outlook
}
