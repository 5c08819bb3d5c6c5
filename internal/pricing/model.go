package pricing

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("pricing rule not found")
	ErrEmptyName        = errors.New("rule name cannot be empty")
	ErrInvalidRuleType  = errors.New("invalid rule type")
	ErrInvalidModifier  = errors.New("invalid modifier type")
	ErrInvalidScope     = errors.New("rule scope must be all, indoor or outdoor")
	ErrInvalidDay       = errors.New("applicable days must be in range 0-6")
	ErrMissingCourt     = errors.New("court is required for pricing")
	ErrEndNotAfterStart = errors.New("end time must be later than start time")
)

// RuleType is the closed set of conditions a pricing rule can match on.
// Unknown values are tolerated at evaluation time and simply never apply.
type RuleType string

const (
	RulePeakHour      RuleType = "peak_hour"
	RuleWeekend       RuleType = "weekend"
	RuleHoliday       RuleType = "holiday"
	RuleIndoorPremium RuleType = "indoor_premium"
	RuleEarlyBird     RuleType = "early_bird"
	RuleCustom        RuleType = "custom"
)

func (t RuleType) Valid() bool {
	switch t {
	case RulePeakHour, RuleWeekend, RuleHoliday, RuleIndoorPremium, RuleEarlyBird, RuleCustom:
		return true
	}
	return false
}

// ModifierType is the closed set of ways a rule adjusts the running court
// price. A rule with an unknown modifier contributes zero; one bad rule must
// not block bookings.
type ModifierType string

const (
	ModifierMultiplier       ModifierType = "multiplier"
	ModifierFixedAddition    ModifierType = "fixed_addition"
	ModifierFixedSubtraction ModifierType = "fixed_subtraction"
	ModifierPercentage       ModifierType = "percentage"
)

func (t ModifierType) Valid() bool {
	switch t {
	case ModifierMultiplier, ModifierFixedAddition, ModifierFixedSubtraction, ModifierPercentage:
		return true
	}
	return false
}

// Scope filters a rule by court type.
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeIndoor  Scope = "indoor"
	ScopeOutdoor Scope = "outdoor"
)

func (s Scope) Valid() bool {
	return s == ScopeAll || s == ScopeIndoor || s == ScopeOutdoor
}

// Rule is one dynamic pricing rule. Rules stack: higher priority rules fold
// in first, and each adjustment is computed against the running court price
// produced by the rules before it, so ordering changes the final number for
// multiplier and percentage rules.
type Rule struct {
	ID             string
	Name           string
	Description    string
	Type           RuleType
	StartTime      string       // "HH:MM", optional; hour-granularity gate
	EndTime        string       // "HH:MM", optional
	ApplicableDays []int        // weekdays 0-6, Sunday = 0; custom rules only
	SpecificDates  []time.Time  // holiday rules only, compared by calendar date
	ModifierType   ModifierType
	ModifierValue  float64
	AppliesTo      Scope
	Priority       int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AppliedRule records one non-zero adjustment inside a price breakdown.
type AppliedRule struct {
	RuleID     string   `json:"rule_id"`
	Name       string   `json:"name"`
	Type       RuleType `json:"type"`
	Adjustment float64  `json:"adjustment"`
}

// Breakdown is the priced result of one proposed booking. It is embedded
// into the reservation as a snapshot at creation time; recomputing prices
// later never mutates stored breakdowns.
type Breakdown struct {
	BasePrice    float64       `json:"base_price"` // court per-hour rate
	Duration     float64       `json:"duration"`   // hours, fractional allowed
	CourtFee     float64       `json:"court_fee"`  // base*duration after all rules
	EquipmentFee float64       `json:"equipment_fee"`
	CoachFee     float64       `json:"coach_fee"`
	AppliedRules []AppliedRule `json:"applied_rules"`
	Subtotal     float64       `json:"subtotal"`
	Total        float64       `json:"total"` // equals subtotal; no tax layer
}

// Filter defines parameters for listing rules in the admin API.
type Filter struct {
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}
