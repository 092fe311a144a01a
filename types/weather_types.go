package types

type WeatherCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

type WeatherLocation struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	LocalTime string  `json:"localtime"`
}

type CurrentWeather struct {
	TempC      float64          `json:"temp_c"`
	FeelsLikeC float64          `json:"feelslike_c"`
	Humidity   float64          `json:"humidity"`
	WindKph    float64          `json:"wind_kph"`
	PrecipMm   float64          `json:"precip_mm"`
	UV         float64          `json:"uv"`
	Condition  WeatherCondition `json:"condition"`
}

type ForecastDay struct {
	Date string `json:"date"`
	Day  struct {
		MaxTempC          float64          `json:"maxtemp_c"`
		MinTempC          float64          `json:"mintemp_c"`
		AvgTempC          float64          `json:"avgtemp_c"`
		TotalPrecipMm     float64          `json:"totalprecip_mm"`
		AvgHumidity       float64          `json:"avghumidity"`
		DailyChanceOfRain float64          `json:"daily_chance_of_rain"`
		Condition         WeatherCondition `json:"condition"`
	} `json:"day"`
}

// WeatherForecast mirrors the parts of WeatherAPI's forecast.json we use.
type WeatherForecast struct {
	Location WeatherLocation `json:"location"`
	Current  CurrentWeather  `json:"current"`
	Forecast struct {
		ForecastDay []ForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

type WeatherReport struct {
	Location string           `json:"location"`
	Weather  *WeatherForecast `json:"weather"`
	Outlook  RainfallOutlook  `json:"seasonalOutlook"`
}

type WikiSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Extract     string `json:"extract"`
	Thumbnail   string `json:"thumbnail"`
	PageURL     string `json:"pageUrl"`
}
