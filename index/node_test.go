package index

import (
	"placetiles/common"
	"placetiles/feature"
	"placetiles/util"
	"testing"
)

func TestNode_newNodeHasMercatorBounds(t *testing.T) {
	// Act
	node := newNode(3, 5, 4, 7)

	// Assert
	util.AssertEqual(t, common.TileIndex{3, 5, 4}, node.Tile())
	util.AssertEqual(t, common.MercatorTileToRectangle(3, 5, 4), node.Bounds())
	util.AssertEqual(t, 7, node.Threshold())
	util.AssertLen(t, 0, node.Points())
	util.AssertLen(t, 0, node.Children())
}

func TestNode_insertKeepsDescendingPopulation(t *testing.T) {
	// Arrange
	node := newNode(0, 0, 0, 10)
	small := feature.NewPoint(1, "small", 10, 50, 10, 0)
	large := feature.NewPoint(2, "large", 10, 50, 1000, 0)
	medium := feature.NewPoint(3, "medium", 10, 50, 100, 0)

	// Act
	node.Insert(small)
	node.Insert(large)
	node.Insert(medium)

	// Assert
	util.AssertEqual(t, []*feature.Point{large, medium, small}, node.Points())
	util.AssertLen(t, 0, node.Children())
}

func TestNode_insertKeepsInsertionOrderForEqualPopulation(t *testing.T) {
	// Arrange
	node := newNode(0, 0, 0, 10)
	first := feature.NewPoint(1, "first", 10, 50, 100, 0)
	second := feature.NewPoint(2, "second", 11, 50, 100, 0)
	larger := feature.NewPoint(3, "larger", 12, 50, 200, 0)
	third := feature.NewPoint(4, "third", 13, 50, 100, 0)

	// Act
	node.Insert(first)
	node.Insert(second)
	node.Insert(larger)
	node.Insert(third)

	// Assert
	util.AssertEqual(t, []*feature.Point{larger, first, second, third}, node.Points())
}

func TestNode_insertPushesLeastPopulatedPointIntoChild(t *testing.T) {
	// Arrange
	node := newNode(0, 0, 0, 2)
	p100 := feature.NewPoint(1, "100", 10, 50, 100, 0)
	p50 := feature.NewPoint(2, "50", 10, 50, 50, 0)
	p10 := feature.NewPoint(3, "10", 10, 50, 10, 0)

	// Act
	node.Insert(p100)
	node.Insert(p50)
	node.Insert(p10)

	// Assert
	util.AssertEqual(t, []*feature.Point{p100, p50}, node.Points())
	util.AssertLen(t, 1, node.Children())

	child := node.Children()[0]
	util.AssertEqual(t, common.TileIndex{1, 0, 1}, child.Tile())
	util.AssertEqual(t, []*feature.Point{p10}, child.Points())
	util.AssertEqual(t, 2, child.Threshold())
}

func TestNode_insertOfMorePopulatedPointPushesResidentDown(t *testing.T) {
	// Arrange
	node := newNode(0, 0, 0, 1)
	resident := feature.NewPoint(1, "resident", -90, -45, 10, 0)
	newcomer := feature.NewPoint(2, "newcomer", 90, 45, 20, 0)
	node.Insert(resident)

	// Act
	node.Insert(newcomer)

	// Assert
	util.AssertEqual(t, []*feature.Point{newcomer}, node.Points())
	util.AssertLen(t, 1, node.Children())
	util.AssertEqual(t, common.TileIndex{0, 1, 1}, node.Children()[0].Tile())
	util.AssertEqual(t, []*feature.Point{resident}, node.Children()[0].Points())
}

func TestNode_childrenAreCreatedLazilyAndReused(t *testing.T) {
	// Arrange
	node := newNode(0, 0, 0, 1)

	// Act
	node.Insert(feature.NewPoint(1, "a", 10, 50, 100, 0))
	node.Insert(feature.NewPoint(2, "b", 20, 40, 50, 0))   // child (1,0)
	node.Insert(feature.NewPoint(3, "c", -20, -40, 40, 0)) // child (0,1)
	node.Insert(feature.NewPoint(4, "d", 30, 30, 30, 0))   // child (1,0) again

	// Assert
	util.AssertLen(t, 2, node.Children())
	util.AssertEqual(t, common.TileIndex{1, 0, 1}, node.Children()[0].Tile())
	util.AssertEqual(t, common.TileIndex{0, 1, 1}, node.Children()[1].Tile())
	util.AssertNil(t, node.getChild(0, 0))
	util.AssertNil(t, node.getChild(1, 1))
	util.AssertTrue(t, node.getChild(1, 0) == node.Children()[0])
}

func TestNode_overflowCascadesThroughSeveralLevels(t *testing.T) {
	// Arrange
	node := newNode(0, 0, 0, 1)

	// Act
	for i := 0; i < 5; i++ {
		node.Insert(feature.NewPoint(int64(i), "p", 10, 50, int64(100-i), 0))
	}

	// Assert
	current := node
	for zoom := 0; zoom < 5; zoom++ {
		util.AssertEqual(t, zoom, current.Zoom())
		util.AssertLen(t, 1, current.Points())
		util.AssertEqual(t, int64(100-zoom), current.Points()[0].Population)

		if zoom < 4 {
			util.AssertLen(t, 1, current.Children())
			current = current.Children()[0]
		} else {
			util.AssertLen(t, 0, current.Children())
		}
	}
}
