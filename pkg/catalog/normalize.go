package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mpapenbr/trackroll/pkg/model"
)

var (
	categoryRe   = regexp.MustCompile(`\((.*?)\)`)
	directionRe  = regexp.MustCompile(`(Right|Left|Stretch)[/\w\x{2192}]*`)
	maxRunnersRe = regexp.MustCompile(`Max Runners:\s*(\d+)`)
)

// Normalize converts raw dataset entries into tracks.
// It never fails: every entry yields a track, unparsable fields fall back to
// their defaults.
func Normalize(entries []model.RawEntry) []model.Track {
	ret := make([]model.Track, 0, len(entries))
	for i := range entries {
		ret = append(ret, parseEntry(entries[i]))
	}
	return ret
}

func parseEntry(entry model.RawEntry) model.Track {
	line := entry.ID
	parts := strings.Split(line, " ")
	token := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	location, surface, distance := token(0), token(1), token(2)

	category := ""
	if m := categoryRe.FindStringSubmatch(line); m != nil {
		category = m[1]
	}

	fullDirection := string(model.DirectionRight)
	if strings.Contains(line, "Left") {
		fullDirection = string(model.DirectionLeft)
	}
	if strings.Contains(line, "Stretch") {
		fullDirection = string(model.DirectionStretch)
	}
	if m := directionRe.FindString(line); m != "" {
		fullDirection = m
	}

	return model.Track{
		Name:          strings.TrimSpace(strings.Join([]string{location, surface, distance}, " ")),
		Location:      location,
		Surface:       surface,
		Distance:      distance,
		Category:      category,
		Direction:     coarseDirection(fullDirection),
		FullDirection: fullDirection,
		MaxRunners:    parseMaxRunners(line),
		Img:           entry.Img,
	}
}

func coarseDirection(full string) model.Direction {
	switch {
	case strings.Contains(full, string(model.DirectionLeft)):
		return model.DirectionLeft
	case strings.Contains(full, string(model.DirectionStretch)):
		return model.DirectionStretch
	default:
		return model.DirectionRight
	}
}

func parseMaxRunners(line string) int {
	m := maxRunnersRe.FindStringSubmatch(line)
	if m == nil {
		return model.DefaultMaxRunners
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v <= 0 {
		return model.DefaultMaxRunners
	}
	return v
}
