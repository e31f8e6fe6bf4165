// Command seed loads the reference list of capital-city locations into an
// empty locations table.
package main

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/land-looker/internal/config"
	"github.com/iliyamo/land-looker/internal/database"
	"github.com/iliyamo/land-looker/internal/model"
	"github.com/iliyamo/land-looker/internal/repository"
)

var capitals = []model.Location{
	{City: "Belgrade", Country: "Serbia", ZipCode: "11000", Latitude: 44.787197, Longitude: 20.457273},
	{City: "Zagreb", Country: "Croatia", ZipCode: "10000", Latitude: 45.815010, Longitude: 15.981919},
	{City: "Sarajevo", Country: "Bosnia and Herzegovina", ZipCode: "71000", Latitude: 43.856430, Longitude: 18.413029},
	{City: "Podgorica", Country: "Montenegro", ZipCode: "81000", Latitude: 42.430420, Longitude: 19.259364},
	{City: "Skopje", Country: "North Macedonia", ZipCode: "1000", Latitude: 41.998100, Longitude: 21.425400},
	{City: "Ljubljana", Country: "Slovenia", ZipCode: "1000", Latitude: 46.056946, Longitude: 14.505751},
	{City: "Tirana", Country: "Albania", ZipCode: "1001", Latitude: 41.327953, Longitude: 19.819025},
	{City: "Athens", Country: "Greece", ZipCode: "10552", Latitude: 37.983810, Longitude: 23.727539},
	{City: "Rome", Country: "Italy", ZipCode: "00118", Latitude: 41.902782, Longitude: 12.496366},
	{City: "Madrid", Country: "Spain", ZipCode: "28001", Latitude: 40.416775, Longitude: -3.703790},
	{City: "Paris", Country: "France", ZipCode: "75001", Latitude: 48.856613, Longitude: 2.352222},
	{City: "Berlin", Country: "Germany", ZipCode: "10115", Latitude: 52.520008, Longitude: 13.404954},
	{City: "London", Country: "United Kingdom", ZipCode: "SW1A 1AA", Latitude: 51.507351, Longitude: -0.127758},
	{City: "Washington", Country: "United States", ZipCode: "20001", Latitude: 38.907192, Longitude: -77.036873},
	{City: "Ottawa", Country: "Canada", ZipCode: "K1A 0A1", Latitude: 45.421532, Longitude: -75.697189},
}

func main() {
	cfg := config.Load()
	logger := log.New("seed")

	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.DB); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewLocationRepo(db)
	n, err := repo.Count(ctx)
	if err != nil {
		logger.Fatalf("count locations: %v", err)
	}
	if n > 0 {
		logger.Infof("locations already present (%d), nothing to seed", n)
		return
	}
	for i := range capitals {
		if err := repo.Create(ctx, &capitals[i]); err != nil {
			logger.Fatalf("insert %s: %v", capitals[i].City, err)
		}
	}
	logger.Infof("seeded %d locations", len(capitals))
}
