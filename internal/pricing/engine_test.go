package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/facility-booking-backend/internal/coach"
	"github.com/courtflow/facility-booking-backend/internal/court"
	"github.com/courtflow/facility-booking-backend/internal/equipment"
)

type stubRuleSource struct {
	rules []*Rule
	err   error
}

func (s *stubRuleSource) FindActive(_ context.Context) ([]*Rule, error) {
	return s.rules, s.err
}

var (
	// 2026-02-14 is a Saturday, 2026-02-11 a Wednesday.
	saturday  = time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
)

func indoorCourt(basePrice float64) *court.Court {
	return &court.Court{ID: "c1", Name: "Center Court", Type: court.TypeIndoor, BasePrice: basePrice, IsActive: true}
}

func outdoorCourt(basePrice float64) *court.Court {
	return &court.Court{ID: "c2", Name: "Court B", Type: court.TypeOutdoor, BasePrice: basePrice, IsActive: true}
}

func calc(t *testing.T, rules []*Rule, req PriceRequest) *Breakdown {
	t.Helper()
	engine := NewEngine(&stubRuleSource{rules: rules})
	b, err := engine.CalculatePrice(context.Background(), req)
	require.NoError(t, err)
	return b
}

func TestCalculatePriceNoRules(t *testing.T) {
	b := calc(t, nil, PriceRequest{
		Court: indoorCourt(30),
		Date:  wednesday,
		Start: "14:00",
		End:   "16:00",
	})

	assert.Equal(t, 30.0, b.BasePrice)
	assert.Equal(t, 2.0, b.Duration)
	assert.Equal(t, 60.0, b.CourtFee)
	assert.Equal(t, 60.0, b.Total)
	assert.Equal(t, b.Subtotal, b.Total)
	assert.Empty(t, b.AppliedRules)
}

func TestCalculatePriceFractionalDuration(t *testing.T) {
	b := calc(t, nil, PriceRequest{
		Court: indoorCourt(40),
		Date:  wednesday,
		Start: "09:00",
		End:   "09:30",
	})

	assert.Equal(t, 0.5, b.Duration)
	assert.Equal(t, 20.0, b.CourtFee)
}

func TestCalculatePriceZeroDuration(t *testing.T) {
	engine := NewEngine(&stubRuleSource{})

	_, err := engine.CalculatePrice(context.Background(), PriceRequest{
		Court: indoorCourt(30),
		Date:  wednesday,
		Start: "10:00",
		End:   "10:00",
	})
	assert.ErrorIs(t, err, ErrEndNotAfterStart)

	_, err = engine.CalculatePrice(context.Background(), PriceRequest{
		Court: indoorCourt(30),
		Date:  wednesday,
		Start: "12:00",
		End:   "10:00",
	})
	assert.ErrorIs(t, err, ErrEndNotAfterStart)
}

func TestCalculatePriceMissingCourt(t *testing.T) {
	engine := NewEngine(&stubRuleSource{})
	_, err := engine.CalculatePrice(context.Background(), PriceRequest{
		Date:  wednesday,
		Start: "10:00",
		End:   "11:00",
	})
	assert.ErrorIs(t, err, ErrMissingCourt)
}

func TestWeekendRule(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Weekend surcharge", Type: RuleWeekend,
		ModifierType: ModifierFixedAddition, ModifierValue: 10,
		AppliesTo: ScopeAll, Priority: 5, IsActive: true,
	}}

	// Saturday: rule applies.
	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"})
	assert.Equal(t, 70.0, b.CourtFee)
	require.Len(t, b.AppliedRules, 1)
	assert.Equal(t, "r1", b.AppliedRules[0].RuleID)
	assert.Equal(t, 10.0, b.AppliedRules[0].Adjustment)

	// Wednesday: it does not.
	b = calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: wednesday, Start: "14:00", End: "16:00"})
	assert.Equal(t, 60.0, b.CourtFee)
	assert.Empty(t, b.AppliedRules)
}

func TestRuleOrderSensitivity(t *testing.T) {
	multiplier := &Rule{
		ID: "mul", Name: "Peak doubler", Type: RuleWeekend,
		ModifierType: ModifierMultiplier, ModifierValue: 2,
		AppliesTo: ScopeAll, Priority: 10, IsActive: true,
	}
	addition := &Rule{
		ID: "add", Name: "Weekend fee", Type: RuleWeekend,
		ModifierType: ModifierFixedAddition, ModifierValue: 10,
		AppliesTo: ScopeAll, Priority: 5, IsActive: true,
	}

	req := PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"}

	// Multiplier at higher priority folds first: 60*2 + 10, not (60+10)*2.
	b := calc(t, []*Rule{addition, multiplier}, req)
	assert.Equal(t, 130.0, b.CourtFee)
	require.Len(t, b.AppliedRules, 2)
	assert.Equal(t, "mul", b.AppliedRules[0].RuleID)
	assert.Equal(t, "add", b.AppliedRules[1].RuleID)

	// Swap priorities and the addition folds first.
	multiplier.Priority, addition.Priority = 5, 10
	b = calc(t, []*Rule{addition, multiplier}, req)
	assert.Equal(t, 140.0, b.CourtFee)
}

func TestPercentageDiscount(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Member discount", Type: RuleWeekend,
		ModifierType: ModifierPercentage, ModifierValue: -25,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(40), Date: saturday, Start: "10:00", End: "12:00"})
	assert.Equal(t, 60.0, b.CourtFee) // 80 - 25%
	assert.Equal(t, -20.0, b.AppliedRules[0].Adjustment)
}

func TestFixedSubtractionNormalizesSign(t *testing.T) {
	req := PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"}

	for _, value := range []float64{15, -15} {
		rules := []*Rule{{
			ID: "r1", Name: "Promo", Type: RuleWeekend,
			ModifierType: ModifierFixedSubtraction, ModifierValue: value,
			AppliesTo: ScopeAll, Priority: 1, IsActive: true,
		}}
		b := calc(t, rules, req)
		assert.Equal(t, 45.0, b.CourtFee, "modifierValue=%v", value)
	}
}

func TestUnknownModifierSkipped(t *testing.T) {
	rules := []*Rule{{
		ID: "bad", Name: "Broken rule", Type: RuleWeekend,
		ModifierType: ModifierType("exponential"), ModifierValue: 3,
		AppliesTo: ScopeAll, Priority: 10, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"})
	assert.Equal(t, 60.0, b.CourtFee)
	assert.Empty(t, b.AppliedRules)
}

func TestUnknownRuleTypeNeverApplies(t *testing.T) {
	rules := []*Rule{{
		ID: "bad", Name: "Mystery", Type: RuleType("full_moon"),
		ModifierType: ModifierFixedAddition, ModifierValue: 99,
		AppliesTo: ScopeAll, Priority: 10, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"})
	assert.Equal(t, 60.0, b.CourtFee)
}

func TestScopeFiltering(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Indoor weekend", Type: RuleWeekend,
		ModifierType: ModifierFixedAddition, ModifierValue: 10,
		AppliesTo: ScopeIndoor, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"})
	assert.Equal(t, 70.0, b.CourtFee)

	b = calc(t, rules, PriceRequest{Court: outdoorCourt(30), Date: saturday, Start: "14:00", End: "16:00"})
	assert.Equal(t, 60.0, b.CourtFee)
}

func TestPeakHourGate(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Evening peak", Type: RulePeakHour,
		StartTime: "18:00", EndTime: "21:00",
		ModifierType: ModifierMultiplier, ModifierValue: 1.5,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	// Start hour inside [18, 21): applies, minutes ignored.
	b := calc(t, rules, PriceRequest{Court: indoorCourt(40), Date: wednesday, Start: "18:30", End: "19:30"})
	assert.Equal(t, 60.0, b.CourtFee)

	// Start hour 21 is outside the half-open gate.
	b = calc(t, rules, PriceRequest{Court: indoorCourt(40), Date: wednesday, Start: "21:00", End: "22:00"})
	assert.Equal(t, 40.0, b.CourtFee)

	// Before the gate.
	b = calc(t, rules, PriceRequest{Court: indoorCourt(40), Date: wednesday, Start: "17:00", End: "18:00"})
	assert.Equal(t, 40.0, b.CourtFee)
}

func TestEarlyBirdGate(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Early bird", Type: RuleEarlyBird,
		StartTime: "06:00", EndTime: "09:00",
		ModifierType: ModifierPercentage, ModifierValue: -20,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(50), Date: wednesday, Start: "07:00", End: "08:00"})
	assert.Equal(t, 40.0, b.CourtFee)

	b = calc(t, rules, PriceRequest{Court: indoorCourt(50), Date: wednesday, Start: "10:00", End: "11:00"})
	assert.Equal(t, 50.0, b.CourtFee)
}

func TestHolidayRule(t *testing.T) {
	// Stored holiday carries time-of-day noise; only the calendar date matters.
	holiday := time.Date(2026, 2, 11, 15, 45, 0, 0, time.UTC)
	rules := []*Rule{{
		ID: "r1", Name: "Holiday rate", Type: RuleHoliday,
		SpecificDates: []time.Time{holiday},
		ModifierType:  ModifierMultiplier, ModifierValue: 2,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: wednesday, Start: "10:00", End: "11:00"})
	assert.Equal(t, 60.0, b.CourtFee)

	b = calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "10:00", End: "11:00"})
	assert.Equal(t, 30.0, b.CourtFee)
}

func TestIndoorPremiumRule(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Indoor premium", Type: RuleIndoorPremium,
		ModifierType: ModifierFixedAddition, ModifierValue: 5,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: wednesday, Start: "10:00", End: "11:00"})
	assert.Equal(t, 35.0, b.CourtFee)

	b = calc(t, rules, PriceRequest{Court: outdoorCourt(30), Date: wednesday, Start: "10:00", End: "11:00"})
	assert.Equal(t, 30.0, b.CourtFee)
}

func TestCustomRuleGates(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Wednesday evening", Type: RuleCustom,
		ApplicableDays: []int{3}, // Wednesday
		StartTime:      "17:00", EndTime: "22:00",
		ModifierType: ModifierFixedAddition, ModifierValue: 8,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: wednesday, Start: "18:00", End: "19:00"})
	assert.Equal(t, 38.0, b.CourtFee)

	// Right weekday, wrong hour.
	b = calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: wednesday, Start: "10:00", End: "11:00"})
	assert.Equal(t, 30.0, b.CourtFee)

	// Right hour, wrong weekday.
	b = calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "18:00", End: "19:00"})
	assert.Equal(t, 30.0, b.CourtFee)
}

func TestCustomRuleEmptyDaysMatchesAll(t *testing.T) {
	rules := []*Rule{{
		ID: "r1", Name: "Any evening", Type: RuleCustom,
		StartTime: "17:00", EndTime: "22:00",
		ModifierType: ModifierFixedAddition, ModifierValue: 8,
		AppliesTo: ScopeAll, Priority: 1, IsActive: true,
	}}

	b := calc(t, rules, PriceRequest{Court: indoorCourt(30), Date: saturday, Start: "18:00", End: "19:00"})
	assert.Equal(t, 38.0, b.CourtFee)
}

func TestEquipmentAndCoachFees(t *testing.T) {
	racket := &equipment.Equipment{ID: "e1", Name: "Pro racket", PricePerHour: 5, TotalQuantity: 10}
	shoes := &equipment.Equipment{ID: "e2", Name: "Court shoes", PricePerHour: 3, TotalQuantity: 6}
	trainer := &coach.Coach{ID: "co1", Name: "Maya", HourlyRate: 40}

	b := calc(t, nil, PriceRequest{
		Court: indoorCourt(30),
		Date:  wednesday,
		Start: "14:00",
		End:   "16:00",
		Equipment: []EquipmentLine{
			{Item: racket, Quantity: 2},
			{Item: shoes, Quantity: 0},  // ignored
			{Item: nil, Quantity: 3},    // ignored
			{Item: shoes, Quantity: -1}, // ignored
		},
		Coach: trainer,
	})

	assert.Equal(t, 60.0, b.CourtFee)
	assert.Equal(t, 20.0, b.EquipmentFee) // 5 * 2 * 2h
	assert.Equal(t, 80.0, b.CoachFee)     // 40 * 2h
	assert.Equal(t, 160.0, b.Total)
	assert.Equal(t, b.Subtotal, b.Total)
}

func TestActiveRulesOrdering(t *testing.T) {
	low := &Rule{ID: "low", Name: "Low", Priority: 1, IsActive: true}
	mid := &Rule{ID: "mid", Name: "Mid", Priority: 5, IsActive: true}
	high := &Rule{ID: "high", Name: "High", Priority: 9, IsActive: true}
	midTwin := &Rule{ID: "mid2", Name: "Mid twin", Priority: 5, IsActive: true}

	engine := NewEngine(&stubRuleSource{rules: []*Rule{low, mid, high, midTwin}})
	got, err := engine.ActiveRules(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	// Priority descending, stable on ties.
	assert.Equal(t, []string{"high", "mid", "mid2", "low"}, ids)
}
