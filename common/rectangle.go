package common

import (
	"fmt"
	"github.com/paulmach/orb"
)

// intersectionEpsilon widens every comparison of Intersects so that rectangles merely touching at a shared edge are
// not reported as disjoint due to floating point noise.
const intersectionEpsilon = 0.0000001

// Rectangle is an axis-aligned rectangle in degrees. The invariant MinX <= MaxX and MinY <= MaxY is expected but not
// checked.
type Rectangle struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func NewRectangle(minX float64, minY float64, maxX float64, maxY float64) Rectangle {
	return Rectangle{
		MinX: minX,
		MinY: minY,
		MaxX: maxX,
		MaxY: maxY,
	}
}

func RectangleFromBound(bound orb.Bound) Rectangle {
	return NewRectangle(bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat())
}

// Contains is inclusive on all four edges.
func (r Rectangle) Contains(x float64, y float64) bool {
	xIn := x >= r.MinX && x <= r.MaxX
	yIn := y >= r.MinY && y <= r.MaxY
	return xIn && yIn
}

func (r Rectangle) ContainsPoint(point orb.Point) bool {
	return r.Contains(point.Lon(), point.Lat())
}

func (r Rectangle) Intersects(other Rectangle) bool {
	outside := r.MaxX < other.MinX-intersectionEpsilon ||
		r.MaxY < other.MinY-intersectionEpsilon ||
		r.MinX-intersectionEpsilon > other.MaxX ||
		r.MinY-intersectionEpsilon > other.MaxY
	return !outside
}

func (r Rectangle) Width() float64 { return r.MaxX - r.MinX }

func (r Rectangle) Height() float64 { return r.MaxY - r.MinY }

func (r Rectangle) Center() orb.Point {
	return orb.Point{(r.MinX + r.MaxX) / 2.0, (r.MinY + r.MaxY) / 2.0}
}

func (r Rectangle) ToBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.MinX, r.MinY},
		Max: orb.Point{r.MaxX, r.MaxY},
	}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("Rectangle(%f, %f, %f, %f)", r.MinX, r.MinY, r.MaxX, r.MaxY)
}
