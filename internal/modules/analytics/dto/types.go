package dto

import "time"

type FilterInput struct {
	ActivityID string
	Type       string
	Start      *time.Time
	End        *time.Time
}

type RecordOutput struct {
	ID         string
	ActivityID string
	Timestamp  time.Time
	Duration   *time.Duration
}

type StatisticsOutput struct {
	ActivityID      string
	ActivityName    string
	TotalDuration   time.Duration
	AverageDuration time.Duration
	LongestSession  time.Duration
	ShortestSession time.Duration
	RecordCount     int
	LastTracked     time.Time
	Streak          int
	CompletionRate  float64
}

type TrendOutput struct {
	Day             time.Time
	Count           int
	TotalDuration   time.Duration
	AverageDuration time.Duration
}

type HourCount struct {
	Hour  int
	Count int
}

type SuggestionOutput struct {
	ActivityID  string
	Name        string
	Color       string
	LastTracked time.Time
}

type DayCount struct {
	Day   time.Time
	Count int
}

type ShareOutput struct {
	ActivityID string
	Name       string
	Color      string
	Count      int
	Percent    float64
}

type OverviewOutput struct {
	Activities   int
	Records      int
	Week         []DayCount
	Distribution []ShareOutput
}
