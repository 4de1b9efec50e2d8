package report

import (
	"strings"
	"testing"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	"github.com/MaryEjairu/InstaAutomator/internal/dataset"
)

func samplePosts() []dataset.Post {
	return []dataset.Post{
		{
			Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), Likes: 100, Comments: 10,
			Reach: 1000, PostType: "photo", Hashtags: []string{"#a", "#b"},
			Engagement: 110, EngagementRate: 11,
		},
		{
			Date: time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC), Likes: 50, Comments: 5,
			Reach: 500, PostType: "video", Hashtags: []string{"#a"},
			Engagement: 55, EngagementRate: 11,
		},
	}
}

func TestWriteRun(t *testing.T) {
	r := automation.RunReport{
		Reason:    automation.ReasonDrained,
		Attempted: 2,
		Summary: automation.Summary{
			{Kind: automation.KindLike, Result: automation.Success}:     1,
			{Kind: automation.KindComment, Result: automation.Success}: 1,
		},
		NotAttempted: []automation.Action{{Kind: automation.KindMessage, Target: "u1"}},
	}
	var sb strings.Builder
	if err := WriteRun(&sb, r); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"drained", "attempted: 2", "remaining: 1", "u1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	// Summary lines come out sorted regardless of map order.
	if strings.Index(out, "comment") > strings.Index(out, "like") {
		t.Fatalf("summary not sorted:\n%s", out)
	}
}

func TestWriteAnalytics(t *testing.T) {
	var sb strings.Builder
	if err := WriteAnalytics(&sb, samplePosts(), 30); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"posts: 2", "photo", "video", "best posting hours"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteAnalyticsEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteAnalytics(&sb, nil, 30); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(sb.String(), "no posts") {
		t.Fatalf("unexpected output: %s", sb.String())
	}
}

func TestWriteTimelineCSV(t *testing.T) {
	var sb strings.Builder
	if err := WriteTimelineCSV(&sb, samplePosts()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 days:\n%s", len(lines), sb.String())
	}
	if lines[1] != "2024-03-01,100,10,110,1000" {
		t.Fatalf("day 1 = %q", lines[1])
	}
}

func TestWriteOutcomesCSV(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []automation.Outcome{
		{
			Action: automation.Action{Kind: automation.KindLike, Target: "post-9"},
			Result: automation.HardFailure,
			At:     at,
			Detail: "gone",
		},
	}
	var sb strings.Builder
	if err := WriteOutcomesCSV(&sb, events); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: %v", lines)
	}
	if !strings.Contains(lines[1], "post-9") || !strings.Contains(lines[1], "hard_failure") {
		t.Fatalf("row = %q", lines[1])
	}
}
