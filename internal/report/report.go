// Package report renders run results and dataset analytics for the CLI.
// Everything writes plain text or CSV to an io.Writer; no terminal control.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/analytics"
	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	"github.com/MaryEjairu/InstaAutomator/internal/dataset"
)

// WriteRun prints a human-readable summary of one finished session.
func WriteRun(w io.Writer, r automation.RunReport) error {
	if _, err := fmt.Fprintf(w, "session finished: %s\n", r.Reason); err != nil {
		return err
	}
	fmt.Fprintf(w, "  attempted: %d\n", r.Attempted)
	fmt.Fprintf(w, "  remaining: %d\n", len(r.NotAttempted))

	if len(r.Summary) > 0 {
		fmt.Fprintln(w, "  outcomes:")
		for _, line := range summaryLines(r.Summary) {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	if len(r.NotAttempted) > 0 {
		fmt.Fprintln(w, "  still queued:")
		for _, a := range r.NotAttempted {
			fmt.Fprintf(w, "    %-8s %s\n", a.Kind, a.Target)
		}
	}
	return nil
}

// summaryLines flattens the summary map into stable, sorted lines.
func summaryLines(s automation.Summary) []string {
	lines := make([]string, 0, len(s))
	for k, n := range s {
		lines = append(lines, fmt.Sprintf("%-8s %-14s %d", k.Kind, k.Result, n))
	}
	sort.Strings(lines)
	return lines
}

// WriteAnalytics prints the dataset summary the dashboard pages show:
// overall engagement, per-type performance, trailing trends, top posts and
// posting-time suggestions.
func WriteAnalytics(w io.Writer, posts []dataset.Post, trendDays int) error {
	if len(posts) == 0 {
		_, err := fmt.Fprintln(w, "no posts in dataset")
		return err
	}

	fmt.Fprintf(w, "posts: %d\n", len(posts))
	fmt.Fprintf(w, "avg engagement rate: %.2f%%\n", analytics.AvgEngagementRate(posts))

	fmt.Fprintln(w, "\npost type performance:")
	for _, ts := range analytics.PostTypePerformance(posts) {
		fmt.Fprintf(w, "  %-10s n=%-4d likes=%.1f comments=%.1f reach=%.0f rate=%.2f%%\n",
			ts.PostType, ts.Count, ts.AvgLikes, ts.AvgComments, ts.AvgReach, ts.AvgEngagementRate)
	}

	tr := analytics.TrendAnalysis(posts, trendDays)
	fmt.Fprintf(w, "\nlast %d days: %d posts, avg likes %.1f, avg rate %.2f%%, reach %d\n",
		tr.Days, tr.TotalPosts, tr.AvgLikes, tr.AvgEngagementRate, tr.TotalReach)
	if tr.BestPost != nil {
		fmt.Fprintf(w, "best post: %s %s (rate %.2f%%)\n",
			tr.BestPost.Date.Format("2006-01-02"), tr.BestPost.PostType, tr.BestPost.EngagementRate)
	}

	fmt.Fprintln(w, "\ntop posts:")
	for _, p := range analytics.TopPosts(posts, 5) {
		fmt.Fprintf(w, "  %s %-10s likes=%-5d comments=%-4d rate=%.2f%%\n",
			p.Date.Format("2006-01-02"), p.PostType, p.Likes, p.Comments, p.EngagementRate)
	}

	times := analytics.OptimalPostingTimes(posts)
	if len(times) > 0 {
		fmt.Fprintln(w, "\nbest posting hours:")
		for _, day := range weekdaysInOrder(times) {
			fmt.Fprintf(w, "  %-9s %v\n", day, times[day])
		}
	}

	if hc := analytics.HashtagCountPerformance(posts); len(hc) > 0 {
		fmt.Fprintln(w, "\nhashtag count vs engagement:")
		for _, s := range hc {
			fmt.Fprintf(w, "  %2d tags: %d posts, rate %.2f%%\n", s.HashtagCount, s.Posts, s.AvgEngagementRate)
		}
	}
	return nil
}

func weekdaysInOrder(m map[time.Weekday][]string) []time.Weekday {
	out := make([]time.Weekday, 0, len(m))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if _, ok := m[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// WriteTimelineCSV exports the daily engagement timeline.
func WriteTimelineCSV(w io.Writer, posts []dataset.Post) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "likes", "comments", "engagement", "reach"}); err != nil {
		return err
	}
	for _, pt := range analytics.Timeline(posts) {
		rec := []string{
			pt.Date.Format("2006-01-02"),
			strconv.Itoa(pt.Likes),
			strconv.Itoa(pt.Comments),
			strconv.Itoa(pt.Engagement),
			strconv.Itoa(pt.Reach),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOutcomesCSV exports a session's ledger events.
func WriteOutcomesCSV(w io.Writer, events []automation.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"at", "kind", "target", "result", "detail"}); err != nil {
		return err
	}
	for _, e := range events {
		rec := []string{
			e.At.Format(time.RFC3339),
			e.Action.Kind.String(),
			e.Action.Target,
			e.Result.String(),
			e.Detail,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
