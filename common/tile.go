package common

import (
	"fmt"
	"math"
)

// TileIndex addresses a tile by x, y and zoom level.
type TileIndex [3]int

func (t TileIndex) X() int { return t[0] }

func (t TileIndex) Y() int { return t[1] }

func (t TileIndex) Z() int { return t[2] }

func (t TileIndex) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z(), t.X(), t.Y())
}

/*
	Sphere-Mercator ("slippy map") tiling. Tile heights shrink towards the poles and the y axis points south. This is
	the scheme of all rectangles inside the quadtree.
*/

// MercatorPointToTile returns the tile at the given zoom level containing the coordinate.
func MercatorPointToTile(lat float64, lon float64, zoom int) TileIndex {
	latRad := lat * math.Pi / 180.0
	n := math.Exp2(float64(zoom))
	x := math.Floor((lon + 180.0) / 360.0 * n)
	y := math.Floor((1.0 - math.Asinh(math.Tan(latRad))/math.Pi) / 2.0 * n)
	return TileIndex{int(x), int(y), zoom}
}

// MercatorTileToLatLon returns the north-west corner of the given tile.
func MercatorTileToLatLon(x int, y int, zoom int) (float64, float64) {
	n := math.Exp2(float64(zoom))
	lon := float64(x)/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*float64(y)/n)))
	return latRad * 180.0 / math.Pi, lon
}

func MercatorTileToRectangle(x int, y int, zoom int) Rectangle {
	south, west := MercatorTileToLatLon(x, y+1, zoom)
	north, east := MercatorTileToLatLon(x+1, y, zoom)
	return NewRectangle(west, south, east, north)
}

/*
	Flat equirectangular ("geographic") tiling. The world [-180,180]x[-90,90] is split into 2*2^zoom columns and 2^zoom
	rows of equal angular size. Rows are counted from the north pole downwards.
*/

func FlatTilesAtZoom(zoom int) (int, int) {
	return 2 << zoom, 1 << zoom
}

func FlatTileToRectangle(x int, y int, zoom int) Rectangle {
	xTiles, yTiles := FlatTilesAtZoom(zoom)

	tileWidth := 360.0 / float64(xTiles)
	west := float64(x)*tileWidth - 180.0
	east := float64(x+1)*tileWidth - 180.0

	tileHeight := 180.0 / float64(yTiles)
	north := 90.0 - float64(y)*tileHeight
	south := 90.0 - float64(y+1)*tileHeight

	return NewRectangle(west, south, east, north)
}
