package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/trackroll/pkg/model"
)

// Apply returns the tracks of catalog matching all axes of sel, in catalog order.
// The result is empty (never nil) if nothing matches.
func Apply(catalog []model.Track, sel model.FilterSelection) []model.Track {
	return lo.Filter(catalog, func(t model.Track, _ int) bool {
		return Matches(&t, sel)
	})
}

// Matches reports whether t satisfies every axis of sel.
// The direction axis matches on substrings of the coarse direction.
func Matches(t *model.Track, sel model.FilterSelection) bool {
	return lo.Contains(sel.Terrain, t.Surface) &&
		lo.Contains(sel.Category, t.Category) &&
		lo.SomeBy(sel.Direction, func(d string) bool {
			return strings.Contains(string(t.Direction), d)
		}) &&
		lo.Contains(sel.Capacity, t.MaxRunners)
}
