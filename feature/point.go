package feature

import (
	"fmt"
	"github.com/paulmach/orb"
)

// Point is a named place. The index only reads the position and population, everything else is passed through to the
// caller untouched. A point must not be modified once it has been inserted into an index.
type Point struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Position   orb.Point `json:"position"` // [lon, lat] in degrees
	Population int64     `json:"population"`
	Elevation  int64     `json:"elevation"`
}

func NewPoint(id int64, name string, lon float64, lat float64, population int64, elevation int64) *Point {
	return &Point{
		ID:         id,
		Name:       name,
		Position:   orb.Point{lon, lat},
		Population: population,
		Elevation:  elevation,
	}
}

func (p *Point) Lon() float64 { return p.Position.Lon() }

func (p *Point) Lat() float64 { return p.Position.Lat() }

func (p *Point) String() string {
	return fmt.Sprintf("Point(id=%d, name=%s, lon=%f, lat=%f, population=%d)", p.ID, p.Name, p.Lon(), p.Lat(), p.Population)
}
