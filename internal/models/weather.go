package models

// WeatherSnapshot holds the current weather for a task's location.
// It only lives inside a single response and is never persisted
// next to the task record.
type WeatherSnapshot struct {
	Temperature  float64
	Condition    string
	Description  string
	Icon         string
	Location     string
	IsBadWeather bool
}

// badWeatherConditions are the OpenWeatherMap condition groups that
// warrant a warning icon next to the task.
var badWeatherConditions = map[string]struct{}{
	"Rain":         {},
	"Snow":         {},
	"Thunderstorm": {},
	"Drizzle":      {},
}

func IsBadWeatherCondition(condition string) bool {
	_, ok := badWeatherConditions[condition]
	return ok
}
