//nolint:funlen // ok for tests
package outcome

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/trackroll/pkg/model"
)

var pool = []model.Track{
	{Name: "Tokyo Turf 1600m"},
	{Name: "Kyoto Turf 3000m"},
	{Name: "Ooi Dirt 2000m"},
}

func TestSelect_emptyPool(t *testing.T) {
	_, err := NewSelector(NewRNG(1)).Select(nil)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSelect(t *testing.T) {
	s := NewSelector(NewRNG(42))
	seenTracks := map[string]int{}
	seenSeasons := map[model.Season]int{}
	for i := 0; i < 2000; i++ {
		o, err := s.Select(pool)
		require.NoError(t, err)
		require.NotNil(t, o.Track)
		assert.Contains(t, model.Seasons, o.Season)
		assert.Contains(t, WeatherFor(o.Season), o.Weather)
		assert.NotEmpty(t, o.ID)
		seenTracks[o.Track.Name]++
		seenSeasons[o.Season]++
	}
	assert.Len(t, seenTracks, len(pool))
	assert.Len(t, seenSeasons, len(model.Seasons))
}

func TestSelect_tracksPointIntoPool(t *testing.T) {
	s := NewSelector(NewRNG(7))
	o, err := s.Select(pool)
	require.NoError(t, err)
	found := false
	for i := range pool {
		if &pool[i] == o.Track {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWeather_winterIncludesSnow(t *testing.T) {
	s := NewSelector(NewRNG(11))
	snowy := 0
	for i := 0; i < 10000; i++ {
		w := s.Weather(model.SeasonWinter)
		require.Contains(t, WeatherFor(model.SeasonWinter), w)
		if lo.Contains(model.SnowyWeather, w) {
			snowy++
		}
	}
	// expected 2500
	assert.Greater(t, snowy, 0)
	assert.InDelta(t, 2500, snowy, 400)
}

func TestWeather_noSnowOutsideWinter(t *testing.T) {
	s := NewSelector(NewRNG(13))
	for _, season := range []model.Season{model.SeasonSpring, model.SeasonSummer, model.SeasonFall} {
		t.Run(string(season), func(t *testing.T) {
			for i := 0; i < 10000; i++ {
				w := s.Weather(season)
				require.Contains(t, model.NonSnowyWeather, w)
				require.NotContains(t, model.SnowyWeather, w)
			}
		})
	}
}

func TestWeatherFor(t *testing.T) {
	assert.Len(t, WeatherFor(model.SeasonWinter), 8)
	assert.Len(t, WeatherFor(model.SeasonSummer), 6)
	// the shared vocabulary must not be modified by building the winter list
	assert.Len(t, model.NonSnowyWeather, 6)
}

func TestComplete_keepsTrack(t *testing.T) {
	s := NewSelector(NewRNG(5))
	o := s.Complete(&pool[1])
	assert.Same(t, &pool[1], o.Track)
}

func TestNewRNG_deterministic(t *testing.T) {
	a, b := NewRNG(12345), NewRNG(12345)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.IntN(100000), b.IntN(100000), "mismatch at %d", i)
	}
}
