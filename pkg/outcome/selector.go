package outcome

import (
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/trackroll/pkg/model"
)

var ErrEmptyPool = errors.New("pool is empty")

// Source provides the randomness for the selector.
type Source interface {
	IntN(n int) int
}

type Selector struct {
	rng Source
}

func NewSelector(rng Source) *Selector {
	return &Selector{rng: rng}
}

// Select draws track, season and weather independently.
func (s *Selector) Select(pool []model.Track) (model.RollOutcome, error) {
	if len(pool) == 0 {
		return model.RollOutcome{}, ErrEmptyPool
	}
	return s.Complete(&pool[s.rng.IntN(len(pool))]), nil
}

// Complete builds the outcome for an already chosen track.
func (s *Selector) Complete(track *model.Track) model.RollOutcome {
	season := s.Season()
	return model.RollOutcome{
		ID:      newID(),
		Track:   track,
		Season:  season,
		Weather: s.Weather(season),
	}
}

func (s *Selector) Season() model.Season {
	return model.Seasons[s.rng.IntN(len(model.Seasons))]
}

func (s *Selector) Weather(season model.Season) model.Weather {
	choices := WeatherFor(season)
	return choices[s.rng.IntN(len(choices))]
}

// WeatherFor returns the weather vocabulary available in season.
// Snow is only possible in winter.
func WeatherFor(season model.Season) []model.Weather {
	if season == model.SeasonWinter {
		ret := make([]model.Weather, 0, len(model.NonSnowyWeather)+len(model.SnowyWeather))
		ret = append(ret, model.NonSnowyWeather...)
		return append(ret, model.SnowyWeather...)
	}
	return model.NonSnowyWeather
}

func newID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
