package catalog

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/samber/lo"

	"github.com/mpapenbr/trackroll/pkg/model"
)

// Facets lists the distinct values of each filter axis present in a catalog.
type Facets struct {
	Surfaces   []string
	Categories []string
	Directions []string
	Capacities []int
}

func CollectFacets(tracks []model.Track) Facets {
	f := Facets{
		Surfaces: lo.Uniq(lo.Map(tracks, func(t model.Track, _ int) string {
			return t.Surface
		})),
		Categories: lo.Uniq(lo.Map(tracks, func(t model.Track, _ int) string {
			return t.Category
		})),
		Directions: lo.Uniq(lo.Map(tracks, func(t model.Track, _ int) string {
			return string(t.Direction)
		})),
		Capacities: lo.Uniq(lo.Map(tracks, func(t model.Track, _ int) int {
			return t.MaxRunners
		})),
	}
	slices.Sort(f.Surfaces)
	slices.Sort(f.Categories)
	slices.Sort(f.Directions)
	slices.Sort(f.Capacities)
	return f
}

// Suggest returns the candidate closest to value if it is close enough to be
// a likely typo. Comparison is case insensitive.
func Suggest(value string, candidates []string) (string, bool) {
	in := strings.ToLower(value)
	best, bestDist := "", -1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(in, strings.ToLower(c))
		if dist > suggestLimit(len(c)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best, bestDist >= 0
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
