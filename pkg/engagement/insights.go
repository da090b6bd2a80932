package engagement

import "strconv"

// Insights are ratios derived from a Result for display next to the rate
type Insights struct {
	LikeRate    float64 `json:"like_rate"`
	CommentRate float64 `json:"comment_rate"`
	// LikeCommentRatio is nil when posts average no comments
	LikeCommentRatio *float64 `json:"like_comment_ratio"`
	TotalEngagement  int64    `json:"total_avg_engagement"`
	AudienceReach    int64    `json:"audience_reach"`
}

// InsightsFor derives the insights of a profile with followers whose posts
// averaged r. Rates are percentages rounded to two decimals, the ratio to one.
func InsightsFor(followers int64, r Result) Insights {
	in := Insights{
		TotalEngagement: r.AverageLikes + r.AverageComments,
		AudienceReach:   followers,
	}
	if followers > 0 {
		in.LikeRate = roundTo(float64(r.AverageLikes)/float64(followers)*100, 2)
		in.CommentRate = roundTo(float64(r.AverageComments)/float64(followers)*100, 2)
	}
	if r.AverageComments > 0 {
		ratio := roundTo(float64(r.AverageLikes)/float64(r.AverageComments), 1)
		in.LikeCommentRatio = &ratio
	}
	return in
}

// Insights derives the display ratios of the report
func (r *Report) Insights() Insights {
	return InsightsFor(r.Followers, r.Result)
}

// FormatRatio renders the like to comment ratio as "3.5:1", or "n/a" without comments
func (in Insights) FormatRatio() string {
	if in.LikeCommentRatio == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*in.LikeCommentRatio, 'f', 1, 64) + ":1"
}
