package planner

import (
	"sort"
	"strings"
	"time"
)

// Plan is the in-memory content calendar plus the idea backlog. Single
// owner; the CLI drives it synchronously.
type Plan struct {
	entries map[string]*CalendarEntry // keyed by YYYY-MM-DD
	ideas   []*Idea
	nextID  int
}

const dateKeyLayout = "2006-01-02"

func NewPlan() *Plan {
	return &Plan{entries: map[string]*CalendarEntry{}, nextID: 1}
}

// AddEntry schedules a post for the entry's date, replacing any existing
// entry on that day.
func (p *Plan) AddEntry(e CalendarEntry) {
	if e.Status == "" {
		e.Status = StatusPlanned
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	p.entries[e.Date.Format(dateKeyLayout)] = &e
}

// Entries returns calendar entries inside [from, to], soonest first.
// Zero bounds mean unbounded.
func (p *Plan) Entries(from, to time.Time) []CalendarEntry {
	var out []CalendarEntry
	for _, e := range p.entries {
		if !from.IsZero() && e.Date.Before(from) {
			continue
		}
		if !to.IsZero() && e.Date.After(to) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SetStatus updates the status of the entry on date, if any.
func (p *Plan) SetStatus(date time.Time, st EntryStatus) bool {
	e, ok := p.entries[date.Format(dateKeyLayout)]
	if !ok {
		return false
	}
	e.Status = st
	return true
}

// RemoveEntry deletes the entry on date.
func (p *Plan) RemoveEntry(date time.Time) {
	delete(p.entries, date.Format(dateKeyLayout))
}

// AddIdea appends an idea to the backlog and returns its assigned ID.
func (p *Plan) AddIdea(idea Idea) int {
	idea.ID = p.nextID
	p.nextID++
	if idea.Priority == "" {
		idea.Priority = "medium"
	}
	if idea.Category == "" {
		idea.Category = "general"
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now()
	}
	p.ideas = append(p.ideas, &idea)
	return idea.ID
}

// Ideas filters the backlog. Empty category/priority match everything.
func (p *Plan) Ideas(category, priority string, unusedOnly bool) []Idea {
	var out []Idea
	for _, i := range p.ideas {
		if category != "" && !strings.EqualFold(i.Category, category) {
			continue
		}
		if priority != "" && !strings.EqualFold(i.Priority, priority) {
			continue
		}
		if unusedOnly && i.Used {
			continue
		}
		out = append(out, *i)
	}
	return out
}

// MarkIdeaUsed flags the idea as consumed.
func (p *Plan) MarkIdeaUsed(id int) bool {
	for _, i := range p.ideas {
		if i.ID == id {
			i.Used = true
			return true
		}
	}
	return false
}

// Stats summarizes the calendar and backlog relative to now.
func (p *Plan) Stats(now time.Time) Stats {
	st := Stats{ByContentType: map[string]int{}}
	week := now.AddDate(0, 0, 7)
	month := now.AddDate(0, 0, 30)
	for _, e := range p.entries {
		st.PlannedPosts++
		st.ByContentType[e.ContentType]++
		if !e.Date.Before(now) {
			if !e.Date.After(week) {
				st.UpcomingWeek++
			}
			if !e.Date.After(month) {
				st.UpcomingMonth++
			}
		}
	}
	st.Ideas = len(p.ideas)
	for _, i := range p.ideas {
		if !i.Used {
			st.UnusedIdeas++
		}
	}
	return st
}

// hashtagLibrary maps idea categories to suggested tags.
var hashtagLibrary = map[string][]string{
	"general":    {"#instagram", "#content", "#socialmedia", "#marketing", "#brand", "#engagement"},
	"lifestyle":  {"#lifestyle", "#daily", "#motivation", "#inspiration", "#wellness", "#selfcare"},
	"business":   {"#business", "#entrepreneur", "#success", "#productivity", "#growth", "#leadership"},
	"food":       {"#food", "#foodie", "#delicious", "#recipe", "#cooking", "#yummy", "#tasty"},
	"travel":     {"#travel", "#wanderlust", "#adventure", "#explore", "#vacation", "#photography"},
	"fashion":    {"#fashion", "#style", "#outfit", "#ootd", "#trendy", "#fashionista"},
	"fitness":    {"#fitness", "#workout", "#health", "#gym", "#exercise", "#fit", "#motivation"},
	"technology": {"#tech", "#technology", "#innovation", "#digital", "#gadgets", "#software"},
	"art":        {"#art", "#creative", "#design", "#artist", "#artwork", "#illustration", "#photography"},
	"education":  {"#education", "#learning", "#knowledge", "#tips", "#tutorial", "#skills", "#development"},
}

// SuggestHashtags returns the tag pool for a category, falling back to the
// general pool for unknown categories.
func SuggestHashtags(category string) []string {
	if tags, ok := hashtagLibrary[strings.ToLower(strings.TrimSpace(category))]; ok {
		return append([]string(nil), tags...)
	}
	return append([]string(nil), hashtagLibrary["general"]...)
}
