package models

import (
	"bytes"
	"encoding/json"
)

// Penguin as stored by the backend; the JSON shape is the API contract.
type Penguin struct {
	ID              int64    `json:"id"`
	Name            *string  `json:"name"`
	Species         string   `json:"species"`
	Island          string   `json:"island"`
	BeakLengthMm    *float64 `json:"beakLengthMm"`
	BeakDepthMm     *float64 `json:"beakDepthMm"`
	FlipperLengthMm *float64 `json:"flipperLengthMm"`
	BodyMassG       *float64 `json:"bodyMassG"`
	Sex             *string  `json:"sex"`
}

// OptionalName distinguishes an absent "name" key from an explicit null,
// which clears the name.
type OptionalName struct {
	Set   bool
	Value *string
}

func (o *OptionalName) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// PenguinPatch is a partial update: absent fields are left as they are.
type PenguinPatch struct {
	Name            OptionalName `json:"name"`
	Species         *string      `json:"species"`
	Island          *string      `json:"island"`
	BeakLengthMm    *float64     `json:"beakLengthMm"`
	BeakDepthMm     *float64     `json:"beakDepthMm"`
	FlipperLengthMm *float64     `json:"flipperLengthMm"`
	BodyMassG       *float64     `json:"bodyMassG"`
	Sex             *string      `json:"sex"`
}

// Apply returns p with the non-nil fields of patch written over it.
func (patch PenguinPatch) Apply(p Penguin) Penguin {
	if patch.Name.Set {
		p.Name = patch.Name.Value
	}
	if patch.Species != nil {
		p.Species = *patch.Species
	}
	if patch.Island != nil {
		p.Island = *patch.Island
	}
	if patch.BeakLengthMm != nil {
		p.BeakLengthMm = patch.BeakLengthMm
	}
	if patch.BeakDepthMm != nil {
		p.BeakDepthMm = patch.BeakDepthMm
	}
	if patch.FlipperLengthMm != nil {
		p.FlipperLengthMm = patch.FlipperLengthMm
	}
	if patch.BodyMassG != nil {
		p.BodyMassG = patch.BodyMassG
	}
	if patch.Sex != nil {
		p.Sex = patch.Sex
	}
	return p
}

// ListParams selects a page of penguins. Gender is "" or "ALL" for no
// filter.
type ListParams struct {
	Search        string
	Gender        string
	SortField     string
	SortDirection string
	Page          int
	PageSize      int
}

// PenguinPage is the list response body.
type PenguinPage struct {
	Penguins   []Penguin `json:"penguins"`
	TotalCount int       `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}
