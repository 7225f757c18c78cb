package model

import "fmt"

type Season string

const (
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	SeasonWinter Season = "Winter"
)

var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

type Weather string

const (
	WeatherSunnyFirm  Weather = "Sunny/Firm"
	WeatherSunnyGood  Weather = "Sunny/Good"
	WeatherCloudyFirm Weather = "Cloudy/Firm"
	WeatherCloudyGood Weather = "Cloudy/Good"
	WeatherRainySoft  Weather = "Rainy/Soft"
	WeatherRainyHeavy Weather = "Rainy/Heavy"
	WeatherSnowyGood  Weather = "Snowy/Good"
	WeatherSnowySoft  Weather = "Snowy/Soft"
)

var (
	NonSnowyWeather = []Weather{
		WeatherSunnyFirm, WeatherSunnyGood,
		WeatherCloudyFirm, WeatherCloudyGood,
		WeatherRainySoft, WeatherRainyHeavy,
	}
	SnowyWeather = []Weather{WeatherSnowyGood, WeatherSnowySoft}
)

// RollOutcome is the committed result of a roll.
// Track points into the pool the roll was drawn from.
type RollOutcome struct {
	ID      string  `json:"id"`
	Track   *Track  `json:"track"`
	Season  Season  `json:"season"`
	Weather Weather `json:"weather"`
}

// ExportText renders the outcome for the clipboard.
func (o *RollOutcome) ExportText() string {
	return fmt.Sprintf("TRACK: %s (%s) | CONDITIONS: %s / %s",
		o.Track.Name, o.Track.FullDirection, o.Season, o.Weather)
}
