package domain

import (
	"slices"
	"time"
)

// Activity is the slice of a tracked activity the analytics need.
type Activity struct {
	ID    string
	Name  string
	Type  string
	Color string
}

type Record struct {
	ID         string
	ActivityID string
	Timestamp  time.Time
	Duration   *time.Duration
}

// Dataset is a consistent snapshot of both collections.
type Dataset struct {
	Activities []Activity
	Records    []Record
}

func (d Dataset) Activity(id string) (Activity, bool) {
	for _, a := range d.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

// Filter narrows records. Zero fields match everything; bounds are inclusive.
type Filter struct {
	ActivityID string
	Type       string
	Start      *time.Time
	End        *time.Time
}

func FilterRecords(activities []Activity, records []Record, f Filter) []Record {
	types := make(map[string]string, len(activities))
	for _, a := range activities {
		types[a.ID] = a.Type
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.ActivityID != "" && r.ActivityID != f.ActivityID {
			continue
		}
		if f.Type != "" {
			if typ, ok := types[r.ActivityID]; !ok || typ != f.Type {
				continue
			}
		}
		if f.Start != nil && r.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && r.Timestamp.After(*f.End) {
			continue
		}
		out = append(out, r)
	}
	return out
}

type Statistics struct {
	TotalDuration   time.Duration
	AverageDuration time.Duration
	LongestSession  time.Duration
	ShortestSession time.Duration
	RecordCount     int
	// LastTracked is the newest record timestamp, zero without records.
	LastTracked    time.Time
	Streak         int
	CompletionRate float64
}

// ComputeStatistics summarises one activity. Duration figures only consider
// records with a duration. CompletionRate is the number of records in the
// trailing seven days divided by seven and may exceed 1.
func ComputeStatistics(activityID string, records []Record, now time.Time) Statistics {
	own := forActivity(activityID, records)
	stats := Statistics{RecordCount: len(own)}
	if len(own) == 0 {
		return stats
	}

	weekAgo := now.AddDate(0, 0, -7)
	recent := 0
	var durations []time.Duration
	for _, r := range own {
		if r.Timestamp.After(stats.LastTracked) {
			stats.LastTracked = r.Timestamp
		}
		if r.Timestamp.After(weekAgo) {
			recent++
		}
		if r.Duration != nil {
			durations = append(durations, *r.Duration)
		}
	}
	stats.CompletionRate = float64(recent) / 7
	stats.Streak = streak(own, now.Location())

	if len(durations) > 0 {
		stats.LongestSession = slices.Max(durations)
		stats.ShortestSession = slices.Min(durations)
		for _, d := range durations {
			stats.TotalDuration += d
		}
		stats.AverageDuration = stats.TotalDuration / time.Duration(len(durations))
	}
	return stats
}

// streak counts consecutive calendar days with at least one record, walking
// back from the day of the newest record.
func streak(records []Record, loc *time.Location) int {
	seen := map[time.Time]struct{}{}
	days := make([]time.Time, 0, len(records))
	for _, r := range records {
		day := StartOfDay(r.Timestamp, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	count := 0
	expected := days[0]
	for _, day := range days {
		if !day.Equal(expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

type TrendBucket struct {
	Day             time.Time
	Count           int
	TotalDuration   time.Duration
	AverageDuration time.Duration
}

// Trends returns one bucket per calendar day for the trailing days days,
// today included, oldest first. Empty days are zero-filled.
func Trends(activityID string, records []Record, days int, now time.Time) []TrendBucket {
	if days <= 0 {
		return []TrendBucket{}
	}
	loc := now.Location()
	type acc struct {
		count     int
		total     time.Duration
		durations int
	}
	byDay := map[time.Time]*acc{}
	for _, r := range forActivity(activityID, records) {
		day := StartOfDay(r.Timestamp, loc)
		a := byDay[day]
		if a == nil {
			a = &acc{}
			byDay[day] = a
		}
		a.count++
		if r.Duration != nil {
			a.total += *r.Duration
			a.durations++
		}
	}

	today := StartOfDay(now, loc)
	out := make([]TrendBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		bucket := TrendBucket{Day: day}
		if a := byDay[day]; a != nil {
			bucket.Count = a.count
			bucket.TotalDuration = a.total
			if a.durations > 0 {
				bucket.AverageDuration = a.total / time.Duration(a.durations)
			}
		}
		out = append(out, bucket)
	}
	return out
}

// ProductiveHours counts records of the activity by local hour of day.
func ProductiveHours(activityID string, records []Record, loc *time.Location) [24]int {
	var hours [24]int
	for _, r := range forActivity(activityID, records) {
		hours[r.Timestamp.In(loc).Hour()]++
	}
	return hours
}

// Suggestion is an activity not tracked today. LastTracked is zero for
// activities without records.
type Suggestion struct {
	Activity    Activity
	LastTracked time.Time
}

// Suggestions lists activities whose newest record falls before today,
// never-tracked activities first, then the longest untouched.
func Suggestions(activities []Activity, records []Record, now time.Time) []Suggestion {
	latest := map[string]time.Time{}
	for _, r := range records {
		if r.Timestamp.After(latest[r.ActivityID]) {
			latest[r.ActivityID] = r.Timestamp
		}
	}
	today := StartOfDay(now, now.Location())
	out := make([]Suggestion, 0, len(activities))
	for _, a := range activities {
		last := latest[a.ID]
		if !last.IsZero() && !StartOfDay(last, now.Location()).Before(today) {
			continue
		}
		out = append(out, Suggestion{Activity: a, LastTracked: last})
	}
	slices.SortStableFunc(out, func(a, b Suggestion) int {
		return a.LastTracked.Compare(b.LastTracked)
	})
	return out
}

func SuggestNext(activities []Activity, records []Record, now time.Time) (Suggestion, bool) {
	suggestions := Suggestions(activities, records, now)
	if len(suggestions) == 0 {
		return Suggestion{}, false
	}
	return suggestions[0], true
}

type DayCount struct {
	Day   time.Time
	Count int
}

// WeeklyOverview counts records of all activities per day of the current
// Sunday-start week.
func WeeklyOverview(records []Record, now time.Time) [7]DayCount {
	loc := now.Location()
	today := StartOfDay(now, loc)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	var week [7]DayCount
	for i := range week {
		week[i].Day = start.AddDate(0, 0, i)
	}
	end := start.AddDate(0, 0, 7)
	for _, r := range records {
		day := StartOfDay(r.Timestamp, loc)
		if day.Before(start) || !day.Before(end) {
			continue
		}
		week[int(day.Weekday())].Count++
	}
	return week
}

type Share struct {
	Activity Activity
	Count    int
	Percent  float64
}

// Distribution reports record counts per activity in activity order.
func Distribution(activities []Activity, records []Record) []Share {
	counts := map[string]int{}
	for _, r := range records {
		counts[r.ActivityID]++
	}
	total := 0
	for _, a := range activities {
		total += counts[a.ID]
	}
	out := make([]Share, 0, len(activities))
	for _, a := range activities {
		share := Share{Activity: a, Count: counts[a.ID]}
		if total > 0 {
			share.Percent = float64(share.Count) * 100 / float64(total)
		}
		out = append(out, share)
	}
	return out
}

// StartOfDay is local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func forActivity(activityID string, records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.ActivityID == activityID {
			out = append(out, r)
		}
	}
	return out
}
