package gpkg

import (
	"github.com/paulmach/orb"
)

// Bounds is an axis-aligned bounding rectangle. A nil *Bounds means the
// geometry had no coordinates at all, which is distinct from a degenerate
// zero-area rectangle.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// computeBounds reduces a geometry to its minimum enclosing rectangle, or
// nil if the geometry contains no coordinates. Collections are reduced
// recursively with no depth limit.
func computeBounds(geom orb.Geometry) *Bounds {
	switch g := geom.(type) {
	case orb.Point:
		return &Bounds{MinX: g[0], MaxX: g[0], MinY: g[1], MaxY: g[1]}
	case orb.MultiPoint:
		return boundsOfPoints(g)
	case orb.LineString:
		return boundsOfPoints(g)
	case orb.Ring:
		return boundsOfPoints(g)
	case orb.MultiLineString:
		var b *Bounds
		for _, ls := range g {
			b = mergeBounds(b, boundsOfPoints(ls))
		}
		return b
	case orb.Polygon:
		var b *Bounds
		for _, ring := range g {
			b = mergeBounds(b, boundsOfPoints(ring))
		}
		return b
	case orb.MultiPolygon:
		var b *Bounds
		for _, poly := range g {
			b = mergeBounds(b, computeBounds(poly))
		}
		return b
	case orb.Collection:
		var b *Bounds
		for _, child := range g {
			b = mergeBounds(b, computeBounds(child))
		}
		return b
	case orb.Bound:
		b := computeBounds(g.Min)
		return mergeBounds(b, computeBounds(g.Max))
	default:
		return nil
	}
}

// isEmptyGeometry reports whether the geometry reduces to no coordinates.
func isEmptyGeometry(geom orb.Geometry) bool {
	return computeBounds(geom) == nil
}

func boundsOfPoints(points []orb.Point) *Bounds {
	var b *Bounds
	for _, p := range points {
		if b == nil {
			b = &Bounds{MinX: p[0], MaxX: p[0], MinY: p[1], MaxY: p[1]}
			continue
		}
		b.MinX = min(b.MinX, p[0])
		b.MaxX = max(b.MaxX, p[0])
		b.MinY = min(b.MinY, p[1])
		b.MaxY = max(b.MaxY, p[1])
	}
	return b
}

// mergeBounds combines two partial results; nil is the identity.
func mergeBounds(a, b *Bounds) *Bounds {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Bounds{
		MinX: min(a.MinX, b.MinX),
		MaxX: max(a.MaxX, b.MaxX),
		MinY: min(a.MinY, b.MinY),
		MaxY: max(a.MaxY, b.MaxY),
	}
}
