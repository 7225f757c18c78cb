package model

import "strconv"

// Preferences is the durable projection of the application state.
// A nil axis was not present in the stored structure, an empty one was stored
// with nothing checked.
type Preferences struct {
	Theme    string   `json:"theme"`
	Terrain  []string `json:"terrain"`
	Cat      []string `json:"cat"`
	Dir      []string `json:"dir"`
	Caps     []string `json:"caps"`
	Muted    bool     `json:"muted"`
	Unlocked []string `json:"unlocked"`
}

// Selection converts the stored axes into a FilterSelection.
// Capacity values which are not integers are ignored.
func (p *Preferences) Selection() FilterSelection {
	caps := make([]int, 0, len(p.Caps))
	for _, c := range p.Caps {
		if v, err := strconv.Atoi(c); err == nil {
			caps = append(caps, v)
		}
	}
	return FilterSelection{
		Terrain:   append([]string{}, p.Terrain...),
		Category:  append([]string{}, p.Cat...),
		Direction: append([]string{}, p.Dir...),
		Capacity:  caps,
	}
}
