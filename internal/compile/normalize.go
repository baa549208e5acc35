package compile

import (
	"strings"
	"time"
)

// Normalize enforces the payload invariants on a possibly-partial Task:
// a due date is always present (defaulting to the next Friday after
// today), labels are deduplicated (nil becomes an empty set) and the
// priority is forced into [1,4]. Title and description pass through
// unchanged. Total function; today is explicit to keep it pure.
func Normalize(task Task, today time.Time) Task {
	if strings.TrimSpace(task.DueDate) == "" {
		task.DueDate = nextFriday(today).Format("2006-01-02")
	}
	task.Labels = dedupe(task.Labels)
	if task.Priority < 1 || task.Priority > 4 {
		task.Priority = 1
	}
	return task
}

// nextFriday returns the first Friday strictly after today. A Friday
// maps to the Friday one week out, never to itself.
func nextFriday(today time.Time) time.Time {
	weekday := (int(today.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	offset := 4 - weekday
	if offset <= 0 {
		offset += 7
	}
	return today.AddDate(0, 0, offset)
}
