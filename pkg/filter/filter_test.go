//nolint:funlen // ok for tests
package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mpapenbr/trackroll/pkg/model"
)

var (
	tokyo = model.Track{
		Name: "Tokyo Turf 1600m", Location: "Tokyo", Surface: "Turf", Distance: "1600m",
		Category: "G1", Direction: model.DirectionRight, FullDirection: "Right", MaxRunners: 18,
	}
	kyoto = model.Track{
		Name: "Kyoto Turf 3000m", Location: "Kyoto", Surface: "Turf", Distance: "3000m",
		Category: "G2", Direction: model.DirectionRight, FullDirection: "Right/Outer", MaxRunners: 16,
	}
	ooi = model.Track{
		Name: "Ooi Dirt 2000m", Location: "Ooi", Surface: "Dirt", Distance: "2000m",
		Category: "G1", Direction: model.DirectionLeft, FullDirection: "Left", MaxRunners: 16,
	}
	niigata = model.Track{
		Name: "Niigata Turf 1000m", Location: "Niigata", Surface: "Turf", Distance: "1000m",
		Category: "G3", Direction: model.DirectionStretch, FullDirection: "Stretch", MaxRunners: 18,
	}
	catalog = []model.Track{tokyo, kyoto, ooi, niigata}
)

func all() model.FilterSelection {
	return model.FilterSelection{
		Terrain:   []string{"Turf", "Dirt"},
		Category:  []string{"G1", "G2", "G3"},
		Direction: []string{"Left", "Right", "Stretch"},
		Capacity:  []int{16, 18},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		sel  func() model.FilterSelection
		want []model.Track
	}{
		{
			name: "everything selected",
			sel:  all,
			want: catalog,
		},
		{
			name: "turf only keeps order",
			sel: func() model.FilterSelection {
				s := all()
				s.Terrain = []string{"Turf"}
				return s
			},
			want: []model.Track{tokyo, kyoto, niigata},
		},
		{
			name: "and across axes",
			sel: func() model.FilterSelection {
				s := all()
				s.Category = []string{"G1"}
				s.Capacity = []int{16}
				return s
			},
			want: []model.Track{ooi},
		},
		{
			name: "direction substring",
			sel: func() model.FilterSelection {
				s := all()
				s.Direction = []string{"Str"}
				return s
			},
			want: []model.Track{niigata},
		},
		{
			name: "direction uses coarse value",
			sel: func() model.FilterSelection {
				s := all()
				s.Direction = []string{"Outer"}
				return s
			},
			want: []model.Track{},
		},
		{
			name: "empty terrain",
			sel: func() model.FilterSelection {
				s := all()
				s.Terrain = nil
				return s
			},
			want: []model.Track{},
		},
		{
			name: "empty category",
			sel: func() model.FilterSelection {
				s := all()
				s.Category = []string{}
				return s
			},
			want: []model.Track{},
		},
		{
			name: "empty direction",
			sel: func() model.FilterSelection {
				s := all()
				s.Direction = nil
				return s
			},
			want: []model.Track{},
		},
		{
			name: "empty capacity",
			sel: func() model.FilterSelection {
				s := all()
				s.Capacity = nil
				return s
			},
			want: []model.Track{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(catalog, tt.sel())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
			again := Apply(catalog, tt.sel())
			if diff := cmp.Diff(got, again); diff != "" {
				t.Errorf("Apply() not deterministic (-first +second):\n%s", diff)
			}
		})
	}
}

func TestApply_singleton(t *testing.T) {
	sel := model.FilterSelection{
		Terrain:   []string{"Turf"},
		Category:  []string{"G1"},
		Direction: []string{"Right"},
		Capacity:  []int{18},
	}
	got := Apply([]model.Track{tokyo}, sel)
	if diff := cmp.Diff([]model.Track{tokyo}, got); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_doesNotModifyCatalog(t *testing.T) {
	in := []model.Track{tokyo, kyoto}
	_ = Apply(in, all())
	if diff := cmp.Diff([]model.Track{tokyo, kyoto}, in); diff != "" {
		t.Errorf("catalog modified (-want +got):\n%s", diff)
	}
}
