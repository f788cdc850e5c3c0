package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"tempo/internal/platform/timefmt"
)

const Title = "Activity Reminder"

type Content struct {
	Title string
	Body  string
}

// Policy is a reminder config with every default resolved: the offset is a
// fixed duration and the message is never empty.
type Policy struct {
	Offset  time.Duration
	Message string
}

func NewPolicy(activityName string, hours, minutes, seconds int, customMessage string) Policy {
	message := strings.TrimSpace(customMessage)
	if message == "" {
		message = fmt.Sprintf(`Time to check your activity "%s"`, activityName)
	}
	return Policy{
		Offset: time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds)*time.Second,
		Message: message,
	}
}

// Decision is the outcome of comparing elapsed time against the offset.
// Elapsed is measured in whole seconds, rounded down.
type Decision struct {
	Schedule  bool
	Elapsed   time.Duration
	TriggerIn time.Duration
}

func (p Policy) Decide(lastTracked, now time.Time) Decision {
	elapsed := time.Duration(math.Floor(now.Sub(lastTracked).Seconds())) * time.Second
	if elapsed >= p.Offset {
		return Decision{Elapsed: elapsed}
	}
	return Decision{Schedule: true, Elapsed: elapsed, TriggerIn: p.Offset - elapsed}
}

// Content annotates the message with the configured offset, e.g.
// `Time to check your activity "Run" (2h ago)`.
func (p Policy) Content() Content {
	return Content{
		Title: Title,
		Body:  fmt.Sprintf("%s (%s)", p.Message, timefmt.Elapsed(p.Offset)),
	}
}
