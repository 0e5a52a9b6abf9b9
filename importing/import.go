package importing

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"placetiles/feature"
	"placetiles/index"
	ownIo "placetiles/io"
	"time"
)

// Import reads all places from the input file (GeoNames dump, .osm or .osm.pbf) and builds a new quadtree from them.
func Import(inputFile string, pointsPerNode int) (*index.QTree, error) {
	sigolo.Infof("Start import of file %s", inputFile)
	importStartTime := time.Now()

	points, err := ownIo.ReadPointsFile(inputFile)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to import file %s", inputFile)
	}

	if len(points) > 0 {
		sigolo.Debugf("First record: %s", points[0].String())
	}

	tree := BuildTree(points, pointsPerNode)

	sigolo.Infof("Finished import in %s", time.Since(importStartTime))

	return tree, nil
}

func BuildTree(points []*feature.Point, pointsPerNode int) *index.QTree {
	tree := index.NewQTree(pointsPerNode)

	insertStartTime := time.Now()
	tree.InsertAll(points)

	stats := tree.Stats()
	sigolo.Infof("Inserted %d points in %s", len(points), time.Since(insertStartTime))
	sigolo.Infof("Maximum depth: %d, total count: %d, nodes: %d", stats.MaxDepth, stats.PointCount, stats.NodeCount)

	return tree
}
