// model/material.go
package model

import "time"

// MaterialKind tags the concrete variant a loan or a lookup refers to,
// so callers never have to probe both stores.
type MaterialKind string

const (
	KindBook        MaterialKind = "LIBRO"
	KindSpecialItem MaterialKind = "OBJETO"
)

func ParseMaterialKind(s string) (MaterialKind, bool) {
	switch MaterialKind(s) {
	case KindBook, KindSpecialItem:
		return MaterialKind(s), true
	}
	return "", false
}

type Book struct {
	Identifier string    `json:"identifier" db:"identifier"`
	Title      string    `json:"title" db:"title"`
	Pages      int       `json:"pages" db:"pages"`
	IngestedAt time.Time `json:"ingested_at" db:"ingested_at"`
}

type SpecialItem struct {
	Identifier  string    `json:"identifier" db:"identifier"`
	Description string    `json:"description" db:"description"`
	WeightKg    float64   `json:"weight_kg" db:"weight_kg"`
	Dimensions  string    `json:"dimensions" db:"dimensions"`
	IngestedAt  time.Time `json:"ingested_at" db:"ingested_at"`
}

// MaterialRef is the tagged reference resolved when a loan is created or
// modified: identifier plus kind plus a display name (title or description).
type MaterialRef struct {
	Identifier string       `json:"identifier" db:"identifier"`
	Kind       MaterialKind `json:"kind" db:"kind"`
	Name       string       `json:"name" db:"name"`
}
