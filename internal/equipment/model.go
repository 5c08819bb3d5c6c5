package equipment

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("equipment not found")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidType      = errors.New("equipment type must be racket, shoes, shuttlecock or other")
	ErrNegativeQuantity = errors.New("total quantity cannot be negative")
	ErrNegativePrice    = errors.New("price per hour cannot be negative")
)

type Type string

const (
	TypeRacket      Type = "racket"
	TypeShoes       Type = "shoes"
	TypeShuttlecock Type = "shuttlecock"
	TypeOther       Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeRacket, TypeShoes, TypeShuttlecock, TypeOther:
		return true
	}
	return false
}

// Equipment represents a rentable equipment fleet. TotalQuantity is the
// fleet size shared across overlapping reservations.
type Equipment struct {
	ID            string
	Name          string
	Type          Type
	Description   string
	TotalQuantity int
	PricePerHour  float64
	ImageID       *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter defines parameters for listing equipment.
type Filter struct {
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}
