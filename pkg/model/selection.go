package model

// FilterSelection holds the criteria a track must satisfy to be eligible for a roll.
// An empty axis excludes all tracks.
type FilterSelection struct {
	Terrain   []string
	Category  []string
	Direction []string
	Capacity  []int
}
