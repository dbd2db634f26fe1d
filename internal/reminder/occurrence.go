// Package reminder implements the reminder pipeline: a pure due-occurrence
// calculator, a deduplication store bounding repeat notifications, and the
// scheduler loop that ties them to the push dispatcher.
//
// All instants are naive server-local wall-clock times. Multi-time-zone users
// are out of scope; a medicine's "09:00" means 09:00 wherever the process
// runs.
package reminder

import (
	"time"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// DueOccurrence computes whether med has a dose instant inside
// [now, now+lookahead]. Today's occurrence wins over tomorrow's; checking
// tomorrow catches doses just past midnight when the scan runs late in the
// evening. Both the lookahead window and the medicine's
// [startDate@time, endDate@time] range are inclusive.
//
// Malformed date or time fields yield no occurrence rather than an error.
func DueOccurrence(med model.Medicine, now time.Time, lookahead time.Duration) (time.Time, bool) {
	loc := now.Location()

	start, err := time.ParseInLocation(model.DateLayout, med.StartDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	end, err := time.ParseInLocation(model.DateLayout, med.EndDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	tod, err := time.ParseInLocation(model.TimeLayout, med.MedicineTime, loc)
	if err != nil {
		return time.Time{}, false
	}

	// Cheap pre-filter: the whole record is expired once its end date is
	// before today.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if end.Before(today) {
		return time.Time{}, false
	}

	hour, minute := tod.Hour(), tod.Minute()
	first := at(start, hour, minute, loc)
	last := at(end, hour, minute, loc)

	for _, day := range []time.Time{today, today.AddDate(0, 0, 1)} {
		occ := at(day, hour, minute, loc)
		if occ.Before(first) || occ.After(last) {
			continue
		}
		if occ.Before(now) || occ.After(now.Add(lookahead)) {
			continue
		}
		return occ, true
	}
	return time.Time{}, false
}

// DedupKey builds the composite key identifying one (medicine, occurrence)
// pair. Exact instant equality keeps consecutive days distinct.
func DedupKey(medicineID string, occurrence time.Time) string {
	return medicineID + "|" + occurrence.Format(time.RFC3339)
}

func at(day time.Time, hour, minute int, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc)
}
