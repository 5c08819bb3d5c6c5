package coach

import (
	"errors"
	"time"

	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
)

var (
	ErrNotFound         = errors.New("coach not found")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrNegativeRate     = errors.New("hourly rate cannot be negative")
	ErrInvalidTimeRange = errors.New("availability range end must be after start")
)

// TimeRange is one bookable span within a day, "HH:MM" clock times.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekAvailability holds a coach's recurring weekly schedule, indexed by
// weekday (0 = Sunday ... 6 = Saturday). A day with no ranges means the
// coach does not work that day.
type WeekAvailability [7][]TimeRange

// Validate checks that every range parses and ends after it starts.
func (w WeekAvailability) Validate() error {
	for _, day := range w {
		for _, r := range day {
			start, err := r.startMinutes()
			if err != nil {
				return err
			}
			end, err := r.endMinutes()
			if err != nil {
				return err
			}
			if end <= start {
				return ErrInvalidTimeRange
			}
		}
	}
	return nil
}

func (r TimeRange) startMinutes() (int, error) { return timewindow.ToMinutes(r.Start) }
func (r TimeRange) endMinutes() (int, error)   { return timewindow.ToMinutes(r.End) }

// DefaultAvailability mirrors typical club hours: shorter weekend days,
// long weekdays.
func DefaultAvailability() WeekAvailability {
	var w WeekAvailability
	w[0] = []TimeRange{{Start: "09:00", End: "18:00"}} // Sunday
	for d := 1; d <= 5; d++ {
		w[d] = []TimeRange{{Start: "06:00", End: "21:00"}}
	}
	w[6] = []TimeRange{{Start: "09:00", End: "18:00"}} // Saturday
	return w
}

// Coach represents a bookable coach with an hourly rate and a weekly schedule.
type Coach struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Specialization string
	ExperienceYrs  int
	HourlyRate     float64
	Bio            string
	ImageID        *string
	IsActive       bool
	Availability   WeekAvailability
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AvailableFor reports whether the requested window on the given date lies
// fully within at least one of the coach's ranges for that weekday. This is
// the schedule check only; reservation conflicts are a separate concern
// checked by the availability checker, and callers need both.
func (c *Coach) AvailableFor(date time.Time, start, end string) (bool, error) {
	reqStart, err := timewindow.ToMinutes(start)
	if err != nil {
		return false, err
	}
	reqEnd, err := timewindow.ToMinutes(end)
	if err != nil {
		return false, err
	}

	day := int(date.UTC().Weekday())
	for _, r := range c.Availability[day] {
		rangeStart, err := r.startMinutes()
		if err != nil {
			return false, err
		}
		rangeEnd, err := r.endMinutes()
		if err != nil {
			return false, err
		}
		if reqStart >= rangeStart && reqEnd <= rangeEnd {
			return true, nil
		}
	}
	return false, nil
}

// Filter defines parameters for listing coaches.
type Filter struct {
	Specialization string
	IsActive       *bool
	Page           int
	PageSize       int
}
