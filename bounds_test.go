package gpkg

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestComputeBounds(t *testing.T) {
	tests := []struct {
		name     string
		geom     orb.Geometry
		expected Bounds
	}{
		{
			"Point",
			orb.Point{1.5, -2},
			Bounds{MinX: 1.5, MaxX: 1.5, MinY: -2, MaxY: -2},
		},
		{
			"LineString",
			orb.LineString{{0, 0}, {2, 1}, {-3, 4}},
			Bounds{MinX: -3, MaxX: 2, MinY: 0, MaxY: 4},
		},
		{
			"Ring",
			orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 0}},
			Bounds{MinX: 0, MaxX: 4, MinY: 0, MaxY: 4},
		},
		{
			"Polygon with hole",
			orb.Polygon{
				{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
				{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},
			},
			Bounds{MinX: 0, MaxX: 10, MinY: 0, MaxY: 10},
		},
		{
			"MultiPoint",
			orb.MultiPoint{{1, 5}, {-2, 3}},
			Bounds{MinX: -2, MaxX: 1, MinY: 3, MaxY: 5},
		},
		{
			"MultiLineString",
			orb.MultiLineString{{{0, 0}, {2, 1}}, {{-3, 4}, {-1, 2}}},
			Bounds{MinX: -3, MaxX: 2, MinY: 0, MaxY: 4},
		},
		{
			"MultiPolygon",
			orb.MultiPolygon{
				{{{0, 0}, {5, 0}, {5, 5}, {0, 0}}},
				{{{10, 10}, {15, 10}, {15, 15}, {10, 10}}},
			},
			Bounds{MinX: 0, MaxX: 15, MinY: 0, MaxY: 15},
		},
		{
			"Collection",
			orb.Collection{orb.Point{5, -1}, orb.LineString{{-2, 2}, {1, 3}}},
			Bounds{MinX: -2, MaxX: 5, MinY: -1, MaxY: 3},
		},
		{
			"Nested collection",
			orb.Collection{
				orb.Collection{
					orb.Collection{orb.Point{7, 7}},
					orb.Point{-7, 0},
				},
			},
			Bounds{MinX: -7, MaxX: 7, MinY: 0, MaxY: 7},
		},
		{
			"Collection with empty member",
			orb.Collection{orb.LineString{}, orb.Point{1, 2}},
			Bounds{MinX: 1, MaxX: 1, MinY: 2, MaxY: 2},
		},
		{
			"Bound",
			orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{3, 4}},
			Bounds{MinX: 0, MaxX: 3, MinY: 0, MaxY: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := computeBounds(tt.geom)
			if b == nil {
				t.Fatal("expected bounds, got empty")
			}
			if *b != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, *b)
			}
			if isEmptyGeometry(tt.geom) {
				t.Error("geometry misreported as empty")
			}
		})
	}
}

func TestComputeBoundsEmpty(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
	}{
		{"empty LineString", orb.LineString{}},
		{"empty MultiPoint", orb.MultiPoint{}},
		{"empty Polygon", orb.Polygon{}},
		{"empty Collection", orb.Collection{}},
		{"collection of empties", orb.Collection{orb.LineString{}, orb.MultiPolygon{}}},
		{"nested empty collection", orb.Collection{orb.Collection{orb.Collection{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if b := computeBounds(tt.geom); b != nil {
				t.Errorf("expected empty, got %+v", *b)
			}
			if !isEmptyGeometry(tt.geom) {
				t.Error("geometry not reported as empty")
			}
		})
	}
}

func TestMergeBoundsIdentity(t *testing.T) {
	b := &Bounds{MinX: 1, MaxX: 2, MinY: 3, MaxY: 4}
	if got := mergeBounds(nil, b); got != b {
		t.Error("nil should be the left identity")
	}
	if got := mergeBounds(b, nil); got != b {
		t.Error("nil should be the right identity")
	}
	if got := mergeBounds(nil, nil); got != nil {
		t.Error("merging two empties should stay empty")
	}
}
