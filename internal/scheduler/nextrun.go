package scheduler

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

const (
	// maxRunsPerConfig bounds how many future tasks stay armed per config.
	maxRunsPerConfig = 3
	// immediateDelay is the lead time for event-driven (immediate) configs.
	immediateDelay = time.Second
)

var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// NextRuns computes the upcoming run times for a schedule, strictly after
// from, merged across windows and sorted ascending. Callers take at most
// maxRunsPerConfig of them.
func NextRuns(s models.Schedule, from time.Time) []time.Time {
	switch s.Frequency {
	case models.FrequencyImmediate:
		return []time.Time{from.Add(immediateDelay)}
	case models.FrequencyCustom:
		interval := s.CustomIntervalMinutes
		if interval <= 0 {
			interval = 60
		}
		return []time.Time{from.Add(time.Duration(interval) * time.Minute)}
	case models.FrequencyDaily, models.FrequencyWeekly:
		return clockRuns(s, from)
	}
	return nil
}

// clockRuns handles the daily/weekly frequencies: for every allowed
// time-of-day window, the next occurrences of its start time on an allowed
// weekday.
func clockRuns(s models.Schedule, from time.Time) []time.Time {
	var runs []time.Time
	for _, w := range s.Windows {
		rule, err := windowRule(s, w, from)
		if err != nil {
			continue
		}
		iterator := rule.Iterator()
		count := 0
		for {
			next, ok := iterator()
			if !ok {
				break
			}
			if next.After(from) {
				runs = append(runs, next)
				count++
				if count >= maxRunsPerConfig {
					break
				}
			}
		}
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Before(runs[j]) })

	// Windows may collide on the same instant; keep one task per time.
	deduped := runs[:0]
	for _, r := range runs {
		if len(deduped) == 0 || !r.Equal(deduped[len(deduped)-1]) {
			deduped = append(deduped, r)
		}
	}
	return deduped
}

func windowRule(s models.Schedule, w models.TimeWindow, from time.Time) (*rrule.RRule, error) {
	hour, min := models.ParseClockTime(w.Start)

	opt := rrule.ROption{
		Freq: rrule.DAILY,
		// Midnight dtstart so BYHOUR/BYMINUTE alone control the clock time.
		Dtstart:  time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()),
		Byhour:   []int{hour},
		Byminute: []int{min},
		Bysecond: []int{0},
	}
	if s.Frequency == models.FrequencyWeekly {
		opt.Freq = rrule.WEEKLY
	}
	if len(s.DaysOfWeek) > 0 {
		for _, d := range s.DaysOfWeek {
			if d >= 0 && d < 7 {
				opt.Byweekday = append(opt.Byweekday, rruleWeekdays[d])
			}
		}
	}
	return rrule.NewRRule(opt)
}
