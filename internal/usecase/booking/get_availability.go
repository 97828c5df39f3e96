package booking

import (
	"context"
	"time"

	domain "github.com/supermarios77/Linglix-sub002/internal/domain/booking"
)

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute lists the bookable start times for one tutor on one UTC date, for
// a given session duration. Slots already overlapped by a live booking are
// left out. Times are UTC wall-clock strings.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	tutorProfileID uint,
	date time.Time,
	durationMin int,
) ([]TimeSlot, error) {

	if err := domain.ValidateDuration(durationMin); err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListActiveSlots(ctx, tutorProfileID)
	if err != nil {
		return nil, err
	}

	utc := date.UTC()
	weekday := int(utc.Weekday())

	var daySlot *struct{ startMin, endMin int }
	for i := range slots {
		if !slots[i].Active || slots[i].Weekday != weekday {
			continue
		}
		s, okS := parseWallClock(slots[i].StartTime)
		e, okE := parseWallClock(slots[i].EndTime)
		if okS && okE {
			daySlot = &struct{ startMin, endMin int }{s, e}
		}
		break
	}
	if daySlot == nil {
		return []TimeSlot{}, nil
	}

	bookings, err := uc.repo.ListActiveBookings(ctx, tutorProfileID)
	if err != nil {
		return nil, err
	}

	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	step := time.Duration(durationMin) * time.Minute

	var out []TimeSlot
	for cur := daySlot.startMin; cur+durationMin <= daySlot.endMin; cur += durationMin {
		start := midnight.Add(time.Duration(cur) * time.Minute)

		if domain.FindConflict(start, durationMin, bookings) != nil {
			continue
		}

		out = append(out, TimeSlot{
			Start: start.Format("15:04"),
			End:   start.Add(step).Format("15:04"),
		})
	}

	return out, nil
}

func parseWallClock(hm string) (int, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
