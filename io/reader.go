package io

import (
	"bufio"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"io"
	"os"
	"placetiles/feature"
	"strconv"
	"strings"
	"time"
)

// Column indices of the GeoNames "cities" dumps (e.g. cities500.txt), see https://download.geonames.org/export/dump/
const (
	geoNamesColumnId         = 0
	geoNamesColumnName       = 1
	geoNamesColumnLat        = 4
	geoNamesColumnLon        = 5
	geoNamesColumnPopulation = 14
	geoNamesColumnElevation  = 16 // The "dem" column, which unlike the "elevation" column is filled for nearly every place
	geoNamesMinColumns       = 17
)

// ReadPointsFile reads the given GeoNames dump or OSM file. The format is determined by the file extension.
func ReadPointsFile(filename string) ([]*feature.Point, error) {
	if strings.HasSuffix(filename, ".osm") || strings.HasSuffix(filename, ".pbf") {
		return ReadOsmPlacesFile(filename)
	}
	return ReadGeoNamesFile(filename)
}

func ReadGeoNamesFile(filename string) ([]*feature.Point, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open GeoNames file %s", filename)
	}
	defer func() {
		err := file.Close()
		if err != nil {
			sigolo.Errorf("Unable to close GeoNames file %s: %+v", filename, err)
		}
	}()

	sigolo.Infof("Read GeoNames file %s", filename)
	readStartTime := time.Now()

	points, err := ReadGeoNames(file)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read GeoNames file %s", filename)
	}

	sigolo.Infof("Read %d points in %s", len(points), time.Since(readStartTime))
	return points, nil
}

// ReadGeoNames parses tab separated GeoNames records. Empty lines are skipped, an empty elevation is read as 0.
func ReadGeoNames(reader io.Reader) ([]*feature.Point, error) {
	var points []*feature.Point

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024) // Some rows contain very long lists of alternative names.

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		point, err := parseGeoNamesRow(strings.Split(line, "\t"))
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid GeoNames record in line %d", lineNumber)
		}

		sigolo.Tracef("Read %s", point.String())
		points = append(points, point)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "Unable to scan line %d", lineNumber+1)
	}

	return points, nil
}

func parseGeoNamesRow(row []string) (*feature.Point, error) {
	if len(row) < geoNamesMinColumns {
		return nil, errors.Errorf("Expected at least %d columns but found %d", geoNamesMinColumns, len(row))
	}

	id, err := strconv.ParseInt(row[geoNamesColumnId], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse ID '%s'", row[geoNamesColumnId])
	}

	lat, err := strconv.ParseFloat(row[geoNamesColumnLat], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse latitude '%s'", row[geoNamesColumnLat])
	}

	lon, err := strconv.ParseFloat(row[geoNamesColumnLon], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse longitude '%s'", row[geoNamesColumnLon])
	}

	population, err := strconv.ParseInt(row[geoNamesColumnPopulation], 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to parse population '%s'", row[geoNamesColumnPopulation])
	}

	var elevation int64
	if row[geoNamesColumnElevation] != "" {
		elevation, err = strconv.ParseInt(row[geoNamesColumnElevation], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to parse elevation '%s'", row[geoNamesColumnElevation])
		}
	}

	return feature.NewPoint(id, row[geoNamesColumnName], lon, lat, population, elevation), nil
}
