package models

import (
	"fmt"
	"strings"
)

// Sex of a penguin as the backend spells it.
type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

// ParseSex accepts "male"/"female" in any case, plus the M/F shorthands.
func ParseSex(s string) (Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE", "M":
		return SexMale, nil
	case "FEMALE", "F":
		return SexFemale, nil
	}
	return "", invalid("sex", fmt.Sprintf("unknown sex %q", s))
}

// Penguin is a record as served by the backend. Identity is ID.
type Penguin struct {
	ID              int64    `json:"id"`
	Name            *string  `json:"name"`
	Species         string   `json:"species"`
	Island          string   `json:"island"`
	BeakLengthMm    *float64 `json:"beakLengthMm"`
	BeakDepthMm     *float64 `json:"beakDepthMm"`
	FlipperLengthMm *float64 `json:"flipperLengthMm"`
	BodyMassG       *float64 `json:"bodyMassG"`
	Sex             *Sex     `json:"sex"`
}

// Title is how lists render a penguin: species, plus the name if any.
func (p Penguin) Title() string {
	if p.Name != nil && *p.Name != "" {
		return fmt.Sprintf("%s (%s)", p.Species, *p.Name)
	}
	return p.Species
}

// Input returns the editable fields of p, e.g. to prefill an edit form.
func (p Penguin) Input() PenguinInput {
	return PenguinInput{
		Name:            p.Name,
		Species:         p.Species,
		Island:          p.Island,
		BeakLengthMm:    p.BeakLengthMm,
		BeakDepthMm:     p.BeakDepthMm,
		FlipperLengthMm: p.FlipperLengthMm,
		BodyMassG:       p.BodyMassG,
		Sex:             p.Sex,
	}
}

// PenguinInput is the create/update payload.
type PenguinInput struct {
	Name            *string  `json:"name"`
	Species         string   `json:"species"`
	Island          string   `json:"island"`
	BeakLengthMm    *float64 `json:"beakLengthMm"`
	BeakDepthMm     *float64 `json:"beakDepthMm"`
	FlipperLengthMm *float64 `json:"flipperLengthMm"`
	BodyMassG       *float64 `json:"bodyMassG"`
	Sex             *Sex     `json:"sex"`
}

// Normalize trims text fields and turns an empty name into null, as the
// create form does.
func (in PenguinInput) Normalize() PenguinInput {
	in.Species = strings.TrimSpace(in.Species)
	in.Island = strings.TrimSpace(in.Island)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			in.Name = nil
		} else {
			in.Name = &name
		}
	}
	return in
}

// Validate checks the fields required for create and update. Name is
// optional.
func (in PenguinInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Species) == "":
		return invalid("species", "species is required")
	case strings.TrimSpace(in.Island) == "":
		return invalid("island", "island is required")
	case in.BeakLengthMm == nil:
		return invalid("beakLengthMm", "beak length is required")
	case in.BeakDepthMm == nil:
		return invalid("beakDepthMm", "beak depth is required")
	case in.FlipperLengthMm == nil:
		return invalid("flipperLengthMm", "flipper length is required")
	case in.BodyMassG == nil:
		return invalid("bodyMassG", "body mass is required")
	case in.Sex == nil:
		return invalid("sex", "sex is required")
	case *in.Sex != SexMale && *in.Sex != SexFemale:
		return invalid("sex", fmt.Sprintf("unknown sex %q", *in.Sex))
	}
	return nil
}

// Ptr returns a pointer to v. Used for the optional penguin fields.
func Ptr[T any](v T) *T {
	return &v
}
