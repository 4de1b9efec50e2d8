// Package dataset loads and prepares exported post-history CSVs. A row per
// published post: date, likes, comments, reach, impressions, post_type and
// optionally hashtags. Derived engagement columns are computed on load so
// analytics never recomputes them.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Post is one published post with its performance numbers.
type Post struct {
	Date        time.Time
	Likes       int
	Comments    int
	Reach       int
	Impressions int
	PostType    string
	Hashtags    []string

	// Derived on load.
	Engagement     int     // likes + comments
	EngagementRate float64 // engagement / reach * 100, 0 when reach is 0
}

var requiredColumns = []string{"date", "likes", "comments", "reach", "impressions", "post_type"}

// acceptable date layouts, tried in order
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// LoadCSV reads the export at path and returns posts sorted by date.
func LoadCSV(path string) ([]Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses the CSV stream. The first row must be the header.
func Read(r io.Reader) ([]Post, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("dataset: missing required column %q", col)
		}
	}

	var posts []Post
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}

		p, err := parseRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date.Before(posts[j].Date) })
	return posts, nil
}

func parseRow(rec []string, idx map[string]int) (Post, error) {
	get := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var p Post
	var err error
	if p.Date, err = parseDate(get("date")); err != nil {
		return p, err
	}
	if p.Likes, err = parseCount("likes", get("likes")); err != nil {
		return p, err
	}
	if p.Comments, err = parseCount("comments", get("comments")); err != nil {
		return p, err
	}
	if p.Reach, err = parseCount("reach", get("reach")); err != nil {
		return p, err
	}
	if p.Impressions, err = parseCount("impressions", get("impressions")); err != nil {
		return p, err
	}
	p.PostType = strings.ToLower(get("post_type"))
	p.Hashtags = splitHashtags(get("hashtags"))

	p.Engagement = p.Likes + p.Comments
	if p.Reach > 0 {
		p.EngagementRate = float64(p.Engagement) / float64(p.Reach) * 100
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func parseCount(col, s string) (int, error) {
	if s == "" {
		// Missing numeric values count as zero, matching the export quirks.
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", col, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("column %s: negative value %d", col, n)
	}
	return n, nil
}

func splitHashtags(s string) []string {
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';'
	})
	var tags []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, "#") {
			f = "#" + f
		}
		tags = append(tags, strings.ToLower(f))
	}
	return tags
}

// Filter narrows posts by optional date bounds and post types.
func Filter(posts []Post, from, to time.Time, types []string) []Post {
	typeSet := map[string]bool{}
	for _, t := range types {
		typeSet[strings.ToLower(t)] = true
	}
	var out []Post
	for _, p := range posts {
		if !from.IsZero() && p.Date.Before(from) {
			continue
		}
		if !to.IsZero() && p.Date.After(to) {
			continue
		}
		if len(typeSet) > 0 && !typeSet[p.PostType] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Period selects the aggregation bucket size.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
)

// Bucket is an aggregate over one period.
type Bucket struct {
	Start             time.Time
	PostCount         int
	Likes             int
	Comments          int
	Reach             int
	Impressions       int
	Engagement        int
	AvgEngagementRate float64
}

// AggregateByPeriod rolls posts up into period buckets, oldest first.
func AggregateByPeriod(posts []Post, period Period) []Bucket {
	byStart := map[time.Time]*Bucket{}
	rateSums := map[time.Time]float64{}

	for _, p := range posts {
		start := bucketStart(p.Date, period)
		b := byStart[start]
		if b == nil {
			b = &Bucket{Start: start}
			byStart[start] = b
		}
		b.PostCount++
		b.Likes += p.Likes
		b.Comments += p.Comments
		b.Reach += p.Reach
		b.Impressions += p.Impressions
		b.Engagement += p.Engagement
		rateSums[start] += p.EngagementRate
	}

	out := make([]Bucket, 0, len(byStart))
	for start, b := range byStart {
		if b.PostCount > 0 {
			b.AvgEngagementRate = rateSums[start] / float64(b.PostCount)
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func bucketStart(t time.Time, period Period) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	switch period {
	case Weekly:
		// ISO-style weeks starting Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}
