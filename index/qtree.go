package index

import (
	"github.com/hauke96/sigolo/v2"
	"placetiles/common"
	"placetiles/feature"
)

const DefaultThreshold = 10

// NodeVisitor is called for every node of a traversal.
type NodeVisitor func(node *Node)

// BoxVisitor is called for every point found by a box traversal together with the node holding it. Returning true
// stops the whole traversal.
type BoxVisitor func(point *feature.Point, node *Node) bool

// QTree is a quadtree over sphere-Mercator tiles. The most populated points stay close to the root, less important
// ones are pushed into deeper tiles. The tree is not safe for concurrent use while points are inserted, but it can be
// read concurrently once filled.
type QTree struct {
	threshold int
	root      *Node
}

func NewQTree(threshold int) *QTree {
	if threshold < 1 {
		sigolo.Errorf("Invalid number of points per node %d, use default of %d instead", threshold, DefaultThreshold)
		threshold = DefaultThreshold
	}

	return &QTree{
		threshold: threshold,
		root:      newNode(0, 0, 0, threshold),
	}
}

func (q *QTree) Root() *Node { return q.root }

func (q *QTree) Threshold() int { return q.threshold }

func (q *QTree) Insert(point *feature.Point) {
	q.root.Insert(point)
}

func (q *QTree) InsertAll(points []*feature.Point) {
	for _, point := range points {
		q.root.Insert(point)
	}
}

// TraverseDFS visits all nodes in post-order: all children (in creation order) are visited before their parent.
func (q *QTree) TraverseDFS(visitor NodeVisitor) {
	type frame struct {
		node           *Node
		nextChildIndex int
	}

	stack := []frame{{node: q.root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.nextChildIndex < len(top.node.children) {
			child := top.node.children[top.nextChildIndex]
			top.nextChildIndex++
			stack = append(stack, frame{node: child})
			continue
		}

		node := top.node
		stack = stack[:len(stack)-1]
		visitor(node)
	}
}

// FindByNameBFS searches level by level for the first point with exactly the given name. The boolean is false when no
// such point exists.
func (q *QTree) FindByNameBFS(name string) (*feature.Point, *Node, bool) {
	queue := []*Node{q.root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, point := range node.points {
			if point.Name == name {
				return point, node, true
			}
		}

		queue = append(queue, node.children...)
	}

	return nil, nil, false
}

// TraverseToTile walks from the root towards the given sphere-Mercator tile and visits one node per zoom level. The
// walk follows the center of the tile and ends at the target zoom level or at the deepest existing node.
func (q *QTree) TraverseToTile(x int, y int, zoom int, visitor NodeVisitor) {
	center := common.MercatorTileToRectangle(x, y, zoom).Center()

	node := q.root
	for node != nil && node.Zoom() <= zoom {
		visitor(node)

		childTile := common.MercatorPointToTile(center.Lat(), center.Lon(), node.Zoom()+1)
		node = node.getChild(childTile.X(), childTile.Y())
	}
}

// TraverseByBox visits all points within the rectangle in breadth-first order. Within a node, the points are visited
// by descending population. Subtrees whose tile doesn't intersect the rectangle are skipped.
func (q *QTree) TraverseByBox(rect common.Rectangle, visitor BoxVisitor) {
	queue := []*Node{q.root}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, point := range node.points {
			if rect.ContainsPoint(point.Position) && visitor(point, node) {
				return
			}
		}

		for _, child := range node.children {
			if child.bbox.Intersects(rect) {
				queue = append(queue, child)
			}
		}
	}
}
