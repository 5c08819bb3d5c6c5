package pricing

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/courtflow/facility-booking-backend/internal/coach"
	"github.com/courtflow/facility-booking-backend/internal/court"
	"github.com/courtflow/facility-booking-backend/internal/equipment"
	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
)

// RuleSource provides the active rule set for price calculation.
type RuleSource interface {
	FindActive(ctx context.Context) ([]*Rule, error)
}

// EquipmentLine is one requested equipment item with its resolved inventory
// record.
type EquipmentLine struct {
	Item     *equipment.Equipment
	Quantity int
}

// PriceRequest describes one proposed booking to price.
type PriceRequest struct {
	Court     *court.Court
	Date      time.Time
	Start     string // "HH:MM"
	End       string // "HH:MM"
	Equipment []EquipmentLine
	Coach     *coach.Coach // optional
}

// Engine computes booking prices by folding the active rule set over the
// base court rate. It holds no state beyond the injected rule source and is
// safe for concurrent use.
type Engine struct {
	rules RuleSource
}

func NewEngine(rules RuleSource) *Engine {
	return &Engine{rules: rules}
}

// CalculatePrice prices one proposed booking. Rules fold in priority-descending
// order, each adjustment computed against the running court price, so a
// multiplier at priority 10 scales the base rate before a fixed addition at
// priority 5 is added, not after.
func (e *Engine) CalculatePrice(ctx context.Context, req PriceRequest) (*Breakdown, error) {
	if req.Court == nil {
		return nil, ErrMissingCourt
	}

	start, err := timewindow.ToMinutes(req.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := timewindow.ToMinutes(req.End)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}
	if end <= start {
		return nil, ErrEndNotAfterStart
	}

	duration := float64(end-start) / 60

	breakdown := &Breakdown{
		BasePrice:    req.Court.BasePrice,
		Duration:     duration,
		AppliedRules: []AppliedRule{},
	}

	courtPrice := req.Court.BasePrice * duration

	rules, err := e.activeRulesOrdered(ctx)
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		adjustment := applyRule(rule, courtPrice, req.Court.Type, req.Date, start/60)
		if adjustment != 0 {
			courtPrice += adjustment
			breakdown.AppliedRules = append(breakdown.AppliedRules, AppliedRule{
				RuleID:     rule.ID,
				Name:       rule.Name,
				Type:       rule.Type,
				Adjustment: adjustment,
			})
		}
	}

	breakdown.CourtFee = courtPrice

	for _, line := range req.Equipment {
		if line.Item == nil || line.Quantity <= 0 {
			continue
		}
		breakdown.EquipmentFee += line.Item.PricePerHour * float64(line.Quantity) * duration
	}

	if req.Coach != nil {
		breakdown.CoachFee = req.Coach.HourlyRate * duration
	}

	breakdown.Subtotal = breakdown.CourtFee + breakdown.EquipmentFee + breakdown.CoachFee
	breakdown.Total = breakdown.Subtotal

	return breakdown, nil
}

// ActiveRules returns the active rule set in the same priority-descending
// order the engine folds it, for administrative display.
func (e *Engine) ActiveRules(ctx context.Context) ([]*Rule, error) {
	return e.activeRulesOrdered(ctx)
}

func (e *Engine) activeRulesOrdered(ctx context.Context) ([]*Rule, error) {
	rules, err := e.rules.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active pricing rules failed: %w", err)
	}
	// The store already orders by priority; re-sort stably so any rule
	// source yields the same deterministic fold.
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}

// applyRule returns the signed adjustment a rule contributes against the
// running court price, or zero when the rule does not apply.
func applyRule(rule *Rule, courtPrice float64, courtType court.Type, date time.Time, startHour int) float64 {
	if rule == nil {
		return 0
	}

	if !rule.ModifierType.Valid() {
		log.Printf("pricing: skipping rule %q: unknown modifier type %q", rule.Name, rule.ModifierType)
		return 0
	}

	if rule.AppliesTo != "" && rule.AppliesTo != ScopeAll && string(rule.AppliesTo) != string(courtType) {
		return 0
	}

	if !ruleMatches(rule, courtType, date, startHour) {
		return 0
	}

	switch rule.ModifierType {
	case ModifierMultiplier:
		return courtPrice * (rule.ModifierValue - 1)
	case ModifierFixedAddition:
		return rule.ModifierValue
	case ModifierFixedSubtraction:
		if rule.ModifierValue < 0 {
			return rule.ModifierValue
		}
		return -rule.ModifierValue
	case ModifierPercentage:
		return courtPrice * (rule.ModifierValue / 100)
	default:
		return 0
	}
}

// ruleMatches evaluates the rule-type gate. Gating is hour-granular: only
// the integer hour of the booking start is examined.
func ruleMatches(rule *Rule, courtType court.Type, date time.Time, startHour int) bool {
	switch rule.Type {
	case RulePeakHour, RuleEarlyBird:
		return hourInRange(startHour, rule.StartTime, rule.EndTime)

	case RuleWeekend:
		wd := date.UTC().Weekday()
		return wd == time.Saturday || wd == time.Sunday

	case RuleHoliday:
		day := timewindow.DayStart(date)
		for _, holiday := range rule.SpecificDates {
			if timewindow.DayStart(holiday).Equal(day) {
				return true
			}
		}
		return false

	case RuleIndoorPremium:
		return courtType == court.TypeIndoor

	case RuleCustom:
		dayMatch := len(rule.ApplicableDays) == 0
		for _, d := range rule.ApplicableDays {
			if d == int(date.UTC().Weekday()) {
				dayMatch = true
				break
			}
		}
		return dayMatch && hourInRange(startHour, rule.StartTime, rule.EndTime)

	default:
		// Unknown rule kinds never apply; bad configuration must not
		// block bookings.
		return false
	}
}

// hourInRange tests hour against [startHour, endHour) of the rule's window.
// An unset bound means the rule has no time-of-day gate.
func hourInRange(hour int, start, end string) bool {
	if start == "" || end == "" {
		return true
	}
	s, okS := clockHour(start)
	e, okE := clockHour(end)
	if !okS || !okE {
		return true
	}
	return hour >= s && hour < e
}

func clockHour(hhmm string) (int, bool) {
	h, _, found := strings.Cut(hhmm, ":")
	if !found {
		return 0, false
	}
	v, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	return v, true
}
