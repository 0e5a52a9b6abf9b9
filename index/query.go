package index

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/planar"
	"placetiles/common"
	"placetiles/feature"
)

// declusterFactor defines the minimum distance between two points of a box query relative to the box width.
const declusterFactor = 0.2

// GetTilePoints returns all points within the given sphere-Mercator tile that are stored on the path from the root to
// that tile. Points kept in shallower nodes due to their high population are therefore included as well.
func (q *QTree) GetTilePoints(x int, y int, zoom int) []*feature.Point {
	points := []*feature.Point{}

	q.TraverseToTile(x, y, zoom, func(node *Node) {
		for _, point := range node.points {
			tile := common.MercatorPointToTile(point.Lat(), point.Lon(), zoom)
			if tile.X() == x && tile.Y() == y {
				points = append(points, point)
			}
		}
	})

	sigolo.Tracef("Found %d points for tile x=%d, y=%d, z=%d", len(points), x, y, zoom)
	return points
}

// GetBoxPoints returns points within the rectangle in traversal order, leaving out every point that is closer than 20%
// of the rectangle width to an already found point. At most maxPoints points are returned, a value of 0 or less means
// that there's no limit.
func (q *QTree) GetBoxPoints(rect common.Rectangle, maxPoints int) []*feature.Point {
	points := []*feature.Point{}
	minDistance := rect.Width() * declusterFactor

	q.TraverseByBox(rect, func(candidate *feature.Point, node *Node) bool {
		if !isClustered(candidate, points, minDistance) {
			points = append(points, candidate)
		}

		return maxPoints > 0 && len(points) >= maxPoints
	})

	sigolo.Tracef("Found %d points in %s (max. %d)", len(points), rect.String(), maxPoints)
	return points
}

// GetBoxCandidates returns all points within the rectangle without any declustering.
func (q *QTree) GetBoxCandidates(rect common.Rectangle) []*feature.Point {
	points := []*feature.Point{}

	q.TraverseByBox(rect, func(candidate *feature.Point, node *Node) bool {
		points = append(points, candidate)
		return false
	})

	return points
}

// isClustered is true when at least one of the given points is closer than the minimum distance to the candidate. The
// distance is measured in degrees.
func isClustered(candidate *feature.Point, points []*feature.Point, minDistance float64) bool {
	for _, point := range points {
		if planar.Distance(candidate.Position, point.Position) < minDistance {
			return true
		}
	}
	return false
}

type Stats struct {
	MaxDepth   int
	PointCount int
	NodeCount  int
}

func (q *QTree) Stats() Stats {
	stats := Stats{}

	q.TraverseDFS(func(node *Node) {
		stats.MaxDepth = max(stats.MaxDepth, node.Zoom())
		stats.PointCount += len(node.points)
		stats.NodeCount++
	})

	return stats
}
