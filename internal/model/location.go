package model

import "strings"

// Location is static geographic reference data referenced by properties.
// Deleting a location removes every property (and, through them, every
// booking) that points at it.
type Location struct {
	ID        uint64  `db:"id" json:"id"`
	City      string  `db:"city" json:"city"`
	State     string  `db:"state" json:"state"`
	Country   string  `db:"country" json:"country"`
	ZipCode   string  `db:"zip_code" json:"zip_code"`
	Latitude  float64 `db:"latitude" json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
}

// DisplayName joins the non-empty parts of city, state and country.
func (l Location) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
