package importing

import (
	"os"
	"path"
	"placetiles/common"
	"placetiles/feature"
	"placetiles/util"
	"testing"
)

func TestBuildTree(t *testing.T) {
	// Arrange
	points := []*feature.Point{
		feature.NewPoint(1, "a", 10, 50, 100, 0),
		feature.NewPoint(2, "b", 10, 50, 50, 0),
		feature.NewPoint(3, "c", 10, 50, 10, 0),
	}

	// Act
	tree := BuildTree(points, 2)

	// Assert
	stats := tree.Stats()
	util.AssertEqual(t, 1, stats.MaxDepth)
	util.AssertEqual(t, 3, stats.PointCount)
	util.AssertEqual(t, 2, stats.NodeCount)
}

func TestImport_geoNamesFile(t *testing.T) {
	// Arrange
	inputFile := path.Join(t.TempDir(), "cities.txt")
	data := "2911298\tHamburg\tHamburg\t\t53.55073\t9.99302\tP\tPPLA\tDE\t\t04\t00\t02000\t02000000\t1845229\t\t12\tEurope/Berlin\t2023-01-01\n" +
		"2950159\tBerlin\tBerlin\t\t52.52437\t13.41053\tP\tPPLC\tDE\t\t16\t00\t11000\t11000000\t3426354\t74\t43\tEurope/Berlin\t2023-01-01\n"
	err := os.WriteFile(inputFile, []byte(data), 0644)
	util.AssertNil(t, err)

	// Act
	tree, err := Import(inputFile, 10)

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, 2, tree.Stats().PointCount)

	berlin, node, ok := tree.FindByNameBFS("Berlin")
	util.AssertTrue(t, ok)
	util.AssertEqual(t, int64(3426354), berlin.Population)
	util.AssertEqual(t, common.TileIndex{0, 0, 0}, node.Tile())
}

func TestImport_missingFile(t *testing.T) {
	// Act
	tree, err := Import(path.Join(t.TempDir(), "missing.txt"), 10)

	// Assert
	util.AssertNil(t, tree)
	util.AssertNotNil(t, err)
}
