package main

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/orbgeo/gpkg"
)

type city struct {
	Name       string
	Longitude  float64
	Latitude   float64
	Population int64
}

var cities = []city{
	{"Tokyo", 139.6917, 35.6895, 13960000},
	{"London", -0.1276, 51.5074, 8982000},
	{"Paris", 2.3522, 48.8566, 2161000},
	{"Berlin", 13.4050, 52.5200, 3669491},
	{"Sydney", 151.2093, -33.8688, 5312000},
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	g, err := gpkg.OpenInMemory()
	if err != nil {
		log.Fatal().Err(err).Msg("open geopackage")
	}
	defer g.Close()
	g.SetLogger(log)

	layer, err := g.CreateLayer("cities", gpkg.Point, []gpkg.Column{
		{Name: "name", Type: gpkg.Text},
		{Name: "population", Type: gpkg.Integer},
	}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("create layer")
	}

	for _, c := range cities {
		id, err := layer.Insert(orb.Point{c.Longitude, c.Latitude}, geojson.Properties{
			"name":       c.Name,
			"population": c.Population,
		})
		if err != nil {
			log.Fatal().Err(err).Str("city", c.Name).Msg("insert")
		}
		log.Info().Int64("id", id).Str("city", c.Name).Msg("inserted")
	}

	// Bounding box covering Europe.
	europe := orb.Bound{Min: orb.Point{-11, 35}, Max: orb.Point{32, 60}}
	found, err := layer.Search(europe)
	if err != nil {
		log.Fatal().Err(err).Msg("search")
	}
	for _, f := range found.Features {
		log.Info().
			Interface("name", f.Properties["name"]).
			Interface("point", f.Geometry).
			Msg("in europe")
	}
}
