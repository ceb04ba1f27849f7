package penguins

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/penguintracker/internal/server/models"
)

type seedRow struct {
	name     string
	species  string
	island   string
	bill     float64
	depth    float64
	flipper  float64
	mass     float64
	sex      string
	measured bool
}

// A slice of the Palmer Archipelago field data, with a few named birds.
var sample = []seedRow{
	{"Pingu", "Adelie", "Torgersen", 39.1, 18.7, 181, 3750, "MALE", true},
	{"", "Adelie", "Torgersen", 39.5, 17.4, 186, 3800, "FEMALE", true},
	{"", "Adelie", "Torgersen", 40.3, 18.0, 195, 3250, "FEMALE", true},
	{"", "Adelie", "Torgersen", 0, 0, 0, 0, "", false},
	{"Mumble", "Adelie", "Biscoe", 37.8, 18.3, 174, 3400, "FEMALE", true},
	{"", "Adelie", "Biscoe", 37.7, 18.7, 180, 3600, "MALE", true},
	{"", "Adelie", "Dream", 39.5, 16.7, 178, 3250, "FEMALE", true},
	{"", "Adelie", "Dream", 37.2, 18.1, 178, 3900, "MALE", true},
	{"Skipper", "Adelie", "Dream", 39.2, 21.1, 196, 4150, "MALE", true},
	{"", "Chinstrap", "Dream", 46.5, 17.9, 192, 3500, "FEMALE", true},
	{"Gloria", "Chinstrap", "Dream", 50.0, 19.5, 196, 3900, "MALE", true},
	{"", "Chinstrap", "Dream", 51.3, 19.2, 193, 3650, "MALE", true},
	{"", "Chinstrap", "Dream", 45.4, 18.7, 188, 3525, "FEMALE", true},
	{"", "Chinstrap", "Dream", 52.7, 19.8, 197, 3725, "MALE", true},
	{"Kowalski", "Gentoo", "Biscoe", 46.1, 13.2, 211, 4500, "FEMALE", true},
	{"", "Gentoo", "Biscoe", 50.0, 16.3, 230, 5700, "MALE", true},
	{"", "Gentoo", "Biscoe", 48.7, 14.1, 210, 4450, "FEMALE", true},
	{"", "Gentoo", "Biscoe", 50.0, 15.2, 218, 5700, "MALE", true},
	{"Rico", "Gentoo", "Biscoe", 47.6, 14.5, 215, 5400, "MALE", true},
	{"", "Gentoo", "Biscoe", 46.5, 13.5, 210, 4550, "FEMALE", true},
	{"", "Gentoo", "Biscoe", 45.4, 14.6, 211, 4800, "FEMALE", true},
	{"Private", "Gentoo", "Biscoe", 46.7, 15.3, 219, 5200, "MALE", true},
}

// SampleSize is the number of records Seed inserts.
var SampleSize = len(sample)

// Seed inserts the sample colony into repo.
func Seed(ctx context.Context, repo Repository) error {
	for _, s := range sample {
		p := models.Penguin{Species: s.species, Island: s.island}
		if s.name != "" {
			p.Name = ptr(s.name)
		}
		if s.measured {
			p.BeakLengthMm = ptr(s.bill)
			p.BeakDepthMm = ptr(s.depth)
			p.FlipperLengthMm = ptr(s.flipper)
			p.BodyMassG = ptr(s.mass)
		}
		if s.sex != "" {
			p.Sex = ptr(s.sex)
		}
		if _, err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed penguin: %w", err)
		}
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

// SeedIfEmpty seeds repo unless it already holds penguins. It reports
// whether the sample was inserted.
func SeedIfEmpty(ctx context.Context, repo Repository) (bool, error) {
	_, total, err := repo.List(ctx, models.ListParams{PageSize: 1})
	if err != nil {
		return false, fmt.Errorf("count penguins: %w", err)
	}
	if total > 0 {
		return false, nil
	}
	return true, Seed(ctx, repo)
}
