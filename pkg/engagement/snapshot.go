package engagement

// Snapshot is the minimal set of numbers fetched for one profile at one point
// in time. PostLikes and PostComments are index aligned, newest post first.
type Snapshot struct {
	Username     string
	Followers    int64
	PostLikes    []int64
	PostComments []int64
}

// Usable reports whether the snapshot carries enough data to compute a rate
func (s Snapshot) Usable() bool {
	return s.Followers > 0 &&
		len(s.PostLikes) > 0 &&
		len(s.PostLikes) == len(s.PostComments)
}

// Posts returns the number of posts in the snapshot
func (s Snapshot) Posts() int {
	return len(s.PostLikes)
}

// Result is derived from a Snapshot by Calculator.Calculate
type Result struct {
	AverageLikes    int64   `json:"avg_likes"`
	AverageComments int64   `json:"avg_comments"`
	EngagementRate  float64 `json:"engagement_rate"`
}
