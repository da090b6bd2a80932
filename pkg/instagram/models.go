package instagram

// ProfileResponse represents the top-level response from the web profile endpoint
type ProfileResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Data            Data   `json:"data"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
}

// Data wraps the user information in the response. User is nil when the
// account does not exist.
type Data struct {
	User *User `json:"user"`
}

// User represents an Instagram user profile
type User struct {
	ID                       string                   `json:"id"`
	Username                 string                   `json:"username"`
	FullName                 string                   `json:"full_name,omitempty"`
	IsPrivate                bool                     `json:"is_private"`
	EdgeFollowedBy           Count                    `json:"edge_followed_by"`
	EdgeFollow               Count                    `json:"edge_follow"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// Count is the {"count": N} object Instagram uses for every edge total
type Count struct {
	Count int64 `json:"count"`
}

// EdgeOwnerToTimelineMedia contains the first page of the user's posts
type EdgeOwnerToTimelineMedia struct {
	Count    int64    `json:"count"`
	PageInfo PageInfo `json:"page_info"`
	Edges    []Edge   `json:"edges"`
}

// PageInfo contains pagination information
type PageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single post
type Node struct {
	ID                   string `json:"id"`
	Shortcode            string `json:"shortcode"`
	IsVideo              bool   `json:"is_video"`
	TakenAt              int64  `json:"taken_at_timestamp,omitempty"`
	EdgeLikedBy          *Count `json:"edge_liked_by,omitempty"`
	EdgeMediaPreviewLike *Count `json:"edge_media_preview_like,omitempty"`
	EdgeMediaToComment   Count  `json:"edge_media_to_comment"`
}

// Likes returns the like count, preferring edge_liked_by over the preview edge
func (n Node) Likes() int64 {
	if n.EdgeLikedBy != nil {
		return n.EdgeLikedBy.Count
	}
	if n.EdgeMediaPreviewLike != nil {
		return n.EdgeMediaPreviewLike.Count
	}
	return 0
}

// Comments returns the comment count
func (n Node) Comments() int64 {
	return n.EdgeMediaToComment.Count
}

// HTMLProfile holds the counts readable from a profile page's meta tags
type HTMLProfile struct {
	Username  string
	Followers int64
	Following int64
	Posts     int64
}
