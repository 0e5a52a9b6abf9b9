package io

import (
	"github.com/paulmach/orb"
	"placetiles/feature"
	"placetiles/util"
	"strings"
	"testing"
)

const geoNamesData = "2911298\tHamburg\tHamburg\tAmburgo,Hambourg\t53.55073\t9.99302\tP\tPPLA\tDE\t\t04\t00\t02000\t02000000\t1845229\t\t12\tEurope/Berlin\t2023-01-01\n" +
	"\n" +
	"2875601\tLübeck\tLuebeck\t\t53.86893\t10.68729\tP\tPPLA2\tDE\t\t10\t00\t01003\t01003000\t217198\t13\t\tEurope/Berlin\t2023-01-01\n"

func TestReadGeoNames(t *testing.T) {
	// Act
	points, err := ReadGeoNames(strings.NewReader(geoNamesData))

	// Assert
	util.AssertNil(t, err)
	util.AssertEqual(t, []*feature.Point{
		{ID: 2911298, Name: "Hamburg", Position: orb.Point{9.99302, 53.55073}, Population: 1845229, Elevation: 12},
		{ID: 2875601, Name: "Lübeck", Position: orb.Point{10.68729, 53.86893}, Population: 217198, Elevation: 0},
	}, points)
}

func TestReadGeoNames_tooFewColumns(t *testing.T) {
	// Act
	points, err := ReadGeoNames(strings.NewReader("1\tFoo\tFoo\t\t1.0\t2.0\n"))

	// Assert
	util.AssertNil(t, points)
	util.AssertError(t, "Invalid GeoNames record in line 1: Expected at least 17 columns but found 6", err)
}

func TestReadGeoNames_invalidPopulation(t *testing.T) {
	// Arrange
	data := geoNamesData + "1\tFoo\tFoo\t\t1.0\t2.0\tP\tPPL\tDE\t\t\t\t\t\tmany\t\t5\tEurope/Berlin\t2023-01-01\n"

	// Act
	points, err := ReadGeoNames(strings.NewReader(data))

	// Assert
	util.AssertNil(t, points)
	util.AssertNotNil(t, err)
	util.AssertTrue(t, strings.HasPrefix(err.Error(), "Invalid GeoNames record in line 4: Unable to parse population 'many'"))
}

func TestReadGeoNames_empty(t *testing.T) {
	// Act
	points, err := ReadGeoNames(strings.NewReader(""))

	// Assert
	util.AssertNil(t, err)
	util.AssertLen(t, 0, points)
}

func TestReadPointsFile_unknownFile(t *testing.T) {
	// Act
	points, err := ReadPointsFile("does-not-exist.txt")

	// Assert
	util.AssertNil(t, points)
	util.AssertNotNil(t, err)
}

func TestReadOsmPlacesFile_wrongExtension(t *testing.T) {
	// Act
	_, err := ReadOsmPlacesFile("places.csv")

	// Assert
	util.AssertError(t, "Input file places.csv must be an .osm or .pbf file", err)
}
