package analytics

import (
	"testing"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/dataset"
)

func post(day int, hour int, typ string, likes, comments, reach int, tags ...string) dataset.Post {
	p := dataset.Post{
		Date:     time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC),
		Likes:    likes,
		Comments: comments,
		Reach:    reach,
		PostType: typ,
		Hashtags: tags,
	}
	p.Engagement = likes + comments
	if reach > 0 {
		p.EngagementRate = float64(p.Engagement) / float64(reach) * 100
	}
	return p
}

func TestAvgEngagementRate(t *testing.T) {
	posts := []dataset.Post{
		post(1, 9, "photo", 80, 20, 1000),  // 10%
		post(2, 9, "video", 150, 50, 1000), // 20%
	}
	if got := AvgEngagementRate(posts); got != 15.0 {
		t.Fatalf("avg = %v, want 15.0", got)
	}
	if got := AvgEngagementRate(nil); got != 0 {
		t.Fatalf("empty avg = %v, want 0", got)
	}
}

func TestTimelineSumsPerDay(t *testing.T) {
	posts := []dataset.Post{
		post(1, 9, "photo", 10, 5, 100),
		post(1, 18, "video", 20, 5, 200),
		post(3, 12, "photo", 7, 3, 50),
	}
	tl := Timeline(posts)
	if len(tl) != 2 {
		t.Fatalf("timeline has %d points, want 2", len(tl))
	}
	if tl[0].Engagement != 40 || tl[0].Reach != 300 {
		t.Fatalf("day one: %+v", tl[0])
	}
	if !tl[0].Date.Before(tl[1].Date) {
		t.Fatalf("timeline not ordered")
	}
}

func TestPostTypePerformanceOrdering(t *testing.T) {
	posts := []dataset.Post{
		post(1, 9, "photo", 10, 0, 1000), // 1%
		post(2, 9, "video", 100, 0, 1000), // 10%
		post(3, 9, "video", 200, 0, 1000), // 20%
	}
	stats := PostTypePerformance(posts)
	if len(stats) != 2 {
		t.Fatalf("got %d types, want 2", len(stats))
	}
	if stats[0].PostType != "video" || stats[0].Count != 2 {
		t.Fatalf("best type: %+v", stats[0])
	}
	if stats[0].AvgEngagementRate != 15.0 {
		t.Fatalf("video avg rate = %v, want 15.0", stats[0].AvgEngagementRate)
	}
}

func TestOptimalPostingTimes(t *testing.T) {
	// 2024-03-01 is a Friday.
	posts := []dataset.Post{
		post(1, 9, "photo", 10, 0, 1000),
		post(1, 12, "photo", 100, 0, 1000),
		post(1, 15, "photo", 50, 0, 1000),
		post(1, 20, "photo", 70, 0, 1000),
	}
	best := OptimalPostingTimes(posts)
	fri := best[time.Friday]
	if len(fri) != 3 {
		t.Fatalf("friday slots = %v, want 3", fri)
	}
	// Top 3 by engagement: 12, 20, 15; reported in hour order.
	want := []string{"12:00", "15:00", "20:00"}
	for i := range want {
		if fri[i] != want[i] {
			t.Fatalf("friday = %v, want %v", fri, want)
		}
	}
	if _, ok := best[time.Monday]; ok {
		t.Fatalf("monday has no data but was reported")
	}
}

func TestTopPostsLimit(t *testing.T) {
	posts := []dataset.Post{
		post(1, 9, "photo", 10, 0, 1000),
		post(2, 9, "photo", 90, 0, 1000),
		post(3, 9, "photo", 50, 0, 1000),
	}
	top := TopPosts(posts, 2)
	if len(top) != 2 {
		t.Fatalf("got %d, want 2", len(top))
	}
	if top[0].Likes != 90 || top[1].Likes != 50 {
		t.Fatalf("wrong ordering: %+v", top)
	}
}

func TestTrendAnalysisWindow(t *testing.T) {
	posts := []dataset.Post{
		post(1, 9, "photo", 10, 0, 100),
		post(20, 9, "photo", 30, 10, 200),
		post(25, 9, "video", 50, 10, 300),
	}
	tr := TrendAnalysis(posts, 7)
	if tr.TotalPosts != 2 {
		t.Fatalf("posts in window = %d, want 2", tr.TotalPosts)
	}
	if tr.BestPost == nil || tr.BestPost.Likes != 30 {
		// 40/200 = 20% beats 60/300 = 20%... first wins ties.
		t.Fatalf("best post: %+v", tr.BestPost)
	}
	if tr.TotalReach != 500 {
		t.Fatalf("reach = %d, want 500", tr.TotalReach)
	}
}

func TestHashtagCountPerformance(t *testing.T) {
	posts := []dataset.Post{
		post(1, 9, "photo", 10, 0, 1000, "#a", "#b"),
		post(2, 9, "photo", 30, 0, 1000, "#a", "#b"),
		post(3, 9, "photo", 5, 0, 1000),
	}
	stats := HashtagCountPerformance(posts)
	if len(stats) != 2 {
		t.Fatalf("groups = %d, want 2", len(stats))
	}
	if stats[0].HashtagCount != 0 || stats[1].HashtagCount != 2 {
		t.Fatalf("ordering: %+v", stats)
	}
	if stats[1].AvgEngagementRate != 2.0 {
		t.Fatalf("two-tag avg = %v, want 2.0", stats[1].AvgEngagementRate)
	}
}
