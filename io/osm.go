package io

import (
	"context"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"math"
	"os"
	"placetiles/feature"
	"strconv"
	"strings"
	"time"
)

// ReadOsmPlacesFile reads all named place nodes (e.g. place=city) from the given .osm or .osm.pbf file.
func ReadOsmPlacesFile(filename string) ([]*feature.Point, error) {
	if !strings.HasSuffix(filename, ".osm") && !strings.HasSuffix(filename, ".pbf") {
		return nil, errors.Errorf("Input file %s must be an .osm or .pbf file", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open OSM input file %s", filename)
	}
	defer func() {
		err := file.Close()
		if err != nil {
			sigolo.Errorf("Unable to close OSM input file %s: %+v", filename, err)
		}
	}()

	var scanner osm.Scanner
	if strings.HasSuffix(filename, ".osm") {
		scanner = osmxml.New(context.Background(), file)
	} else {
		scanner = osmpbf.New(context.Background(), file, 1)
	}

	sigolo.Infof("Read places from OSM file %s", filename)
	readStartTime := time.Now()

	points, err := ReadOsmPlaces(scanner)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read OSM file %s", filename)
	}

	sigolo.Infof("Read %d places in %s", len(points), time.Since(readStartTime))
	return points, nil
}

// ReadOsmPlaces collects all nodes having a "place" and a "name" tag and closes the scanner afterwards. Ways and
// relations are ignored.
func ReadOsmPlaces(scanner osm.Scanner) ([]*feature.Point, error) {
	var points []*feature.Point

	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}

		point := osmNodeToPoint(node)
		if point == nil {
			continue
		}

		sigolo.Tracef("Read %s", point.String())
		points = append(points, point)
	}

	err := scanner.Err()
	if err != nil {
		_ = scanner.Close()
		return nil, errors.Wrap(err, "Unable to scan OSM data")
	}

	err = scanner.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to close OSM scanner")
	}

	return points, nil
}

// osmNodeToPoint returns nil if the node is not a named place. Missing or unparseable population and elevation values
// become 0.
func osmNodeToPoint(node *osm.Node) *feature.Point {
	if node.Tags.Find("place") == "" {
		return nil
	}

	name := node.Tags.Find("name")
	if name == "" {
		return nil
	}

	population := parseOsmNumber(node, "population")
	elevation := parseOsmNumber(node, "ele")

	return feature.NewPoint(int64(node.ID), name, node.Lon, node.Lat, int64(population), int64(math.Round(elevation)))
}

func parseOsmNumber(node *osm.Node, key string) float64 {
	value := node.Tags.Find(key)
	if value == "" {
		return 0
	}

	// Values like "1,234,567", "12 345" or "34 m" are common in OSM data.
	cleanValue := strings.NewReplacer(",", "", " ", "", "m", "").Replace(value)
	number, err := strconv.ParseFloat(cleanValue, 64)
	if err != nil {
		sigolo.Debugf("Unable to parse %s=%s of node %d, use 0 instead", key, value, node.ID)
		return 0
	}

	return number
}
