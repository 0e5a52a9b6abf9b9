package index

import (
	"github.com/hauke96/sigolo/v2"
	"placetiles/common"
	"placetiles/feature"
	"slices"
	"sort"
)

// Node is one cell of the quadtree. It keeps at most "threshold" points, sorted by descending population. Points that
// don't fit anymore are pushed down into the child tile (one zoom level deeper) containing them.
type Node struct {
	tile      common.TileIndex
	bbox      common.Rectangle // Sphere-Mercator rectangle of the tile, never changes.
	threshold int
	points    []*feature.Point
	children  []*Node // In order of creation.
}

func newNode(x int, y int, zoom int, threshold int) *Node {
	return &Node{
		tile:      common.TileIndex{x, y, zoom},
		bbox:      common.MercatorTileToRectangle(x, y, zoom),
		threshold: threshold,
		points:    []*feature.Point{},
		children:  []*Node{},
	}
}

func (n *Node) Tile() common.TileIndex { return n.tile }

func (n *Node) X() int { return n.tile.X() }

func (n *Node) Y() int { return n.tile.Y() }

func (n *Node) Zoom() int { return n.tile.Z() }

func (n *Node) Bounds() common.Rectangle { return n.bbox }

func (n *Node) Threshold() int { return n.threshold }

// Points returns the resident points of this node ordered by descending population. The slice must not be modified.
func (n *Node) Points() []*feature.Point { return n.points }

// Children returns the existing child nodes in order of creation. Usually there are at most four, but points outside
// the sphere-Mercator range add further children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Insert adds the point to this node. When the node then holds more points than allowed, the least populated ones are
// moved into the child nodes.
func (n *Node) Insert(point *feature.Point) {
	n.addSorted(point)

	for len(n.points) > n.threshold {
		last := len(n.points) - 1
		overflow := n.points[last]
		n.points[last] = nil
		n.points = n.points[:last]

		n.insertIntoChild(overflow)
	}
}

func (n *Node) insertIntoChild(point *feature.Point) {
	childTile := common.MercatorPointToTile(point.Lat(), point.Lon(), n.Zoom()+1)
	child := n.getOrCreateChild(childTile.X(), childTile.Y())
	child.Insert(point)
}

func (n *Node) getOrCreateChild(x int, y int) *Node {
	child := n.getChild(x, y)
	if child != nil {
		return child
	}

	// Points beyond +-85.0511 degrees latitude or at longitude 180 project onto tiles outside the sphere-Mercator
	// grid, so a node can have more than four children.
	if x>>1 != n.X() || y>>1 != n.Y() {
		sigolo.Debugf("Create child %d/%d/%d outside of the four sub-tiles of %s", n.Zoom()+1, x, y, n.tile.String())
	}

	child = newNode(x, y, n.Zoom()+1, n.threshold)
	n.children = append(n.children, child)
	return child
}

// getChild returns nil when there's no child for the given tile.
func (n *Node) getChild(x int, y int) *Node {
	for _, child := range n.children {
		if child.X() == x && child.Y() == y {
			return child
		}
	}
	return nil
}

// addSorted inserts the point behind all points with the same or a higher population, which keeps points of equal
// population in insertion order.
func (n *Node) addSorted(point *feature.Point) {
	i := sort.Search(len(n.points), func(i int) bool {
		return n.points[i].Population < point.Population
	})
	n.points = slices.Insert(n.points, i, point)
}
