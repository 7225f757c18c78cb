package model

type Direction string

const (
	DirectionLeft    Direction = "Left"
	DirectionRight   Direction = "Right"
	DirectionStretch Direction = "Stretch"
)

const DefaultMaxRunners = 16

// RawEntry is a venue descriptor as delivered by the dataset.
// ID is a structured label such as
// "Tokyo Turf 1600m (G1) Left/Outer Max Runners: 18".
type RawEntry struct {
	ID  string `json:"id" yaml:"id"`
	Img string `json:"img" yaml:"img"`
}

// Track is a normalized venue configuration.
// Tracks are built once by the catalog and must not be modified afterwards.
type Track struct {
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Surface       string    `json:"surface"`
	Distance      string    `json:"distance"`
	Category      string    `json:"category"`
	Direction     Direction `json:"direction"`
	FullDirection string    `json:"fullDirection"`
	MaxRunners    int       `json:"maxRunners"`
	Img           string    `json:"img"`
}
