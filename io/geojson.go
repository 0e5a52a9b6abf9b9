package io

import (
	"encoding/json"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"placetiles/feature"
	"time"
)

// FeatureList is the plain JSON document of a tile. Despite the name, the entries are the raw point records and not
// GeoJSON features.
type FeatureList struct {
	Features []*feature.Point `json:"features"`
}

func WritePointsAsJson(points []*feature.Point, writer io.Writer) error {
	if points == nil {
		points = []*feature.Point{}
	}

	err := json.NewEncoder(writer).Encode(FeatureList{Features: points})
	if err != nil {
		return errors.Wrap(err, "Unable to write points as JSON")
	}

	return nil
}

func WritePointsAsGeoJson(points []*feature.Point, writer io.Writer) error {
	sigolo.Debugf("Write %d points to GeoJSON", len(points))
	writeStartTime := time.Now()

	featureCollection := geojson.NewFeatureCollection()
	for _, point := range points {
		geoJsonFeature := geojson.NewFeature(point.Position)

		geoJsonFeature.ID = point.ID
		geoJsonFeature.Properties["name"] = point.Name
		geoJsonFeature.Properties["population"] = point.Population
		geoJsonFeature.Properties["elevation"] = point.Elevation

		featureCollection.Append(geoJsonFeature)
	}

	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal GeoJSON feature collection")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON")
	}

	sigolo.Tracef("Finished writing GeoJSON in %s", time.Since(writeStartTime))

	return nil
}
