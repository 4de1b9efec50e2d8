package planner

import (
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
)

// EntryStatus tracks a calendar entry through its life.
type EntryStatus string

const (
	StatusPlanned EntryStatus = "planned"
	StatusPosted  EntryStatus = "posted"
	StatusSkipped EntryStatus = "skipped"
)

// CalendarEntry is one planned post on the content calendar.
type CalendarEntry struct {
	Date        time.Time
	ContentType string
	Caption     string
	Hashtags    []string
	Notes       string
	Status      EntryStatus
	CreatedAt   time.Time
}

// Idea is a content idea waiting to be turned into a calendar entry.
type Idea struct {
	ID          int
	Title       string
	Description string
	Hashtags    []string
	Priority    string
	Category    string
	CreatedAt   time.Time
	Used        bool
}

// Stats summarizes the planning state.
type Stats struct {
	PlannedPosts   int
	Ideas          int
	UnusedIdeas    int
	ByContentType  map[string]int
	UpcomingWeek   int
	UpcomingMonth  int
}

// Schedule fires a batch of automation actions on a cron spec.
type Schedule struct {
	Name string
	Spec string // cron spec or @every duration
	Kind automation.Kind
	// Targets are consumed round-robin across firings so repeated runs
	// spread across the list instead of hammering the head.
	Targets []string
	Payload string // comment/message body, unused for likes
}

// Enqueuer receives the actions a fired schedule produces. The running
// automation session satisfies this.
type Enqueuer interface {
	Enqueue(actions ...automation.Action) error
}
