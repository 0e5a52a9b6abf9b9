package index

import (
	"placetiles/common"
	"placetiles/feature"
)

// PlaceIndex contains the queries the tile server needs from a spatial index over places.
type PlaceIndex interface {
	GetBoxPoints(rect common.Rectangle, maxPoints int) []*feature.Point
	GetTilePoints(x int, y int, zoom int) []*feature.Point
}
