package court

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("court not found")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrInvalidType   = errors.New("court type must be indoor or outdoor")
	ErrNegativePrice = errors.New("base price cannot be negative")
)

// Type classifies a court as indoor or outdoor. Pricing rules may target
// one type only.
type Type string

const (
	TypeIndoor  Type = "indoor"
	TypeOutdoor Type = "outdoor"
)

// Valid reports whether t is a known court type.
func (t Type) Valid() bool {
	return t == TypeIndoor || t == TypeOutdoor
}

// Court represents a bookable court with an hourly base rate.
type Court struct {
	ID          string
	Name        string
	Type        Type
	Description string
	BasePrice   float64 // per-hour rate
	Amenities   []string
	ImageID     *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter defines parameters for listing courts.
type Filter struct {
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}
