// Package analytics computes engagement insights over loaded post history:
// averages, timelines, per-type performance, posting-time heat and top posts.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/MaryEjairu/InstaAutomator/internal/dataset"
)

// AvgEngagementRate is the mean engagement rate across posts, in percent.
func AvgEngagementRate(posts []dataset.Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	var sum float64
	for _, p := range posts {
		sum += p.EngagementRate
	}
	return sum / float64(len(posts))
}

// TimelinePoint is one day on the engagement timeline.
type TimelinePoint struct {
	Date       time.Time
	Likes      int
	Comments   int
	Engagement int
	Reach      int
}

// Timeline sums engagement per day, oldest first.
func Timeline(posts []dataset.Post) []TimelinePoint {
	buckets := dataset.AggregateByPeriod(posts, dataset.Daily)
	out := make([]TimelinePoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TimelinePoint{
			Date:       b.Start,
			Likes:      b.Likes,
			Comments:   b.Comments,
			Engagement: b.Engagement,
			Reach:      b.Reach,
		})
	}
	return out
}

// TypeStats aggregates performance for one post type.
type TypeStats struct {
	PostType          string
	Count             int
	AvgLikes          float64
	AvgComments       float64
	AvgReach          float64
	AvgEngagementRate float64
}

// PostTypePerformance averages metrics per post type, best engagement first.
func PostTypePerformance(posts []dataset.Post) []TypeStats {
	type acc struct {
		count                        int
		likes, comments, reach, rate float64
	}
	byType := map[string]*acc{}
	for _, p := range posts {
		a := byType[p.PostType]
		if a == nil {
			a = &acc{}
			byType[p.PostType] = a
		}
		a.count++
		a.likes += float64(p.Likes)
		a.comments += float64(p.Comments)
		a.reach += float64(p.Reach)
		a.rate += p.EngagementRate
	}

	out := make([]TypeStats, 0, len(byType))
	for t, a := range byType {
		n := float64(a.count)
		out = append(out, TypeStats{
			PostType:          t,
			Count:             a.count,
			AvgLikes:          a.likes / n,
			AvgComments:       a.comments / n,
			AvgReach:          a.reach / n,
			AvgEngagementRate: a.rate / n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgEngagementRate != out[j].AvgEngagementRate {
			return out[i].AvgEngagementRate > out[j].AvgEngagementRate
		}
		return out[i].PostType < out[j].PostType
	})
	return out
}

// OptimalPostingTimes returns up to three best posting hours (formatted
// "15:00") per weekday, judged by average engagement rate. Days without data
// are omitted.
func OptimalPostingTimes(posts []dataset.Post) map[time.Weekday][]string {
	type slot struct {
		sum   float64
		count int
	}
	perDay := map[time.Weekday]map[int]*slot{}
	for _, p := range posts {
		day := p.Date.Weekday()
		hour := p.Date.Hour()
		if perDay[day] == nil {
			perDay[day] = map[int]*slot{}
		}
		s := perDay[day][hour]
		if s == nil {
			s = &slot{}
			perDay[day][hour] = s
		}
		s.sum += p.EngagementRate
		s.count++
	}

	out := map[time.Weekday][]string{}
	for day, hours := range perDay {
		type hourRate struct {
			hour int
			rate float64
		}
		rates := make([]hourRate, 0, len(hours))
		for h, s := range hours {
			rates = append(rates, hourRate{hour: h, rate: s.sum / float64(s.count)})
		}
		sort.Slice(rates, func(i, j int) bool {
			if rates[i].rate != rates[j].rate {
				return rates[i].rate > rates[j].rate
			}
			return rates[i].hour < rates[j].hour
		})
		if len(rates) > 3 {
			rates = rates[:3]
		}
		sort.Slice(rates, func(i, j int) bool { return rates[i].hour < rates[j].hour })
		for _, r := range rates {
			out[day] = append(out[day], fmt.Sprintf("%02d:00", r.hour))
		}
	}
	return out
}

// TopPosts returns the limit best posts by engagement rate.
func TopPosts(posts []dataset.Post, limit int) []dataset.Post {
	sorted := append([]dataset.Post(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EngagementRate > sorted[j].EngagementRate
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Trends summarizes the trailing window of activity.
type Trends struct {
	Days              int
	TotalPosts        int
	AvgLikes          float64
	AvgComments       float64
	AvgEngagementRate float64
	TotalReach        int
	BestPost          *dataset.Post
}

// TrendAnalysis looks at the last days of history, anchored at the most
// recent post.
func TrendAnalysis(posts []dataset.Post, days int) Trends {
	t := Trends{Days: days}
	if len(posts) == 0 {
		return t
	}
	latest := posts[0].Date
	for _, p := range posts {
		if p.Date.After(latest) {
			latest = p.Date
		}
	}
	cutoff := latest.AddDate(0, 0, -days)

	var likes, comments, rate float64
	var best *dataset.Post
	for i := range posts {
		p := posts[i]
		if p.Date.Before(cutoff) {
			continue
		}
		t.TotalPosts++
		likes += float64(p.Likes)
		comments += float64(p.Comments)
		rate += p.EngagementRate
		t.TotalReach += p.Reach
		if best == nil || p.EngagementRate > best.EngagementRate {
			cp := p
			best = &cp
		}
	}
	if t.TotalPosts > 0 {
		n := float64(t.TotalPosts)
		t.AvgLikes = likes / n
		t.AvgComments = comments / n
		t.AvgEngagementRate = rate / n
	}
	t.BestPost = best
	return t
}

// HashtagCountStats relates hashtag usage intensity to engagement.
type HashtagCountStats struct {
	HashtagCount      int
	Posts             int
	AvgEngagementRate float64
}

// HashtagCountPerformance groups posts by how many hashtags they used.
func HashtagCountPerformance(posts []dataset.Post) []HashtagCountStats {
	type acc struct {
		posts int
		rate  float64
	}
	byCount := map[int]*acc{}
	for _, p := range posts {
		a := byCount[len(p.Hashtags)]
		if a == nil {
			a = &acc{}
			byCount[len(p.Hashtags)] = a
		}
		a.posts++
		a.rate += p.EngagementRate
	}
	out := make([]HashtagCountStats, 0, len(byCount))
	for n, a := range byCount {
		out = append(out, HashtagCountStats{
			HashtagCount:      n,
			Posts:             a.posts,
			AvgEngagementRate: a.rate / float64(a.posts),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HashtagCount < out[j].HashtagCount })
	return out
}
