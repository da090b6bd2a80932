// Package instagramtest provides an in-process fake of the Instagram web
// endpoints used by the engagement checker.
package instagramtest

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Post is one fixture post
type Post struct {
	Likes    int64
	Comments int64
	// PreviewLikesOnly serves the likes under edge_media_preview_like only
	PreviewLikesOnly bool
}

// Profile is one fixture account
type Profile struct {
	Username  string
	Followers int64
	Following int64
	Private   bool
	Posts     []Post
	// Description overrides the og:description content of the HTML page
	Description string
}

// Server simulates Instagram's profile JSON endpoint and profile pages
type Server struct {
	server         *httptest.Server
	mu             sync.RWMutex
	profiles       map[string]Profile
	errorResponses map[string]int
	pageErrors     map[string]int
	loginRequired  map[string]bool
	rawBodies      map[string]string
	delays         map[string]time.Duration
	lastHeader     http.Header
	requestCount   int32
	pageCount      int32
}

// NewServer starts a fake Instagram server. Call Close when done.
func NewServer() *Server {
	s := &Server{
		profiles:       make(map[string]Profile),
		errorResponses: make(map[string]int),
		pageErrors:     make(map[string]int),
		loginRequired:  make(map[string]bool),
		rawBodies:      make(map[string]string),
		delays:         make(map[string]time.Duration),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/web_profile_info/", s.handleProfile)
	mux.HandleFunc("/", s.handlePage)

	s.server = httptest.NewServer(mux)
	return s
}

// URL returns the base URL of the server
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down
func (s *Server) Close() {
	s.server.Close()
}

// AddProfile registers or replaces a fixture account
func (s *Server) AddProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Username] = p
}

// SetError makes the JSON endpoint answer username with status code
func (s *Server) SetError(username string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorResponses[username] = code
}

// SetPageError makes the HTML page for username answer with status code
func (s *Server) SetPageError(username string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageErrors[username] = code
}

// SetLoginRequired makes the JSON endpoint answer with requires_to_login
func (s *Server) SetLoginRequired(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginRequired[username] = true
}

// SetRawBody makes the JSON endpoint answer username with body verbatim
func (s *Server) SetRawBody(username, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawBodies[username] = body
}

// SetDelay delays every response for username
func (s *Server) SetDelay(username string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[username] = d
}

// RequestCount returns how many JSON requests were served
func (s *Server) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

// PageCount returns how many HTML page requests were served
func (s *Server) PageCount() int {
	return int(atomic.LoadInt32(&s.pageCount))
}

// LastHeader returns the headers of the most recent JSON request
func (s *Server) LastHeader() http.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastHeader.Clone()
}

func (s *Server) wait(username string) {
	s.mu.RLock()
	d := s.delays[username]
	s.mu.RUnlock()
	if d > 0 {
		time.Sleep(d)
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.requestCount, 1)
	username := r.URL.Query().Get("username")

	s.mu.Lock()
	s.lastHeader = r.Header.Clone()
	code := s.errorResponses[username]
	login := s.loginRequired[username]
	raw, hasRaw := s.rawBodies[username]
	profile, ok := s.profiles[username]
	s.mu.Unlock()

	s.wait(username)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case code > 0:
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": http.StatusText(code),
			"status":  "fail",
		})
	case login:
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message":           "Please wait a few minutes before you try again.",
			"requires_to_login": true,
			"status":            "fail",
		})
	case hasRaw:
		_, _ = w.Write([]byte(raw))
	case !ok:
		_, _ = w.Write([]byte(`{"data":{"user":null},"status":"ok"}`))
	default:
		_ = json.NewEncoder(w).Encode(profileJSON(profile))
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.pageCount, 1)
	username := strings.Trim(r.URL.Path, "/")

	s.mu.RLock()
	code := s.pageErrors[username]
	profile, ok := s.profiles[username]
	s.mu.RUnlock()

	s.wait(username)

	if code > 0 {
		w.WriteHeader(code)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	description := profile.Description
	if description == "" {
		description = fmt.Sprintf("%d Followers, %d Following, %d Posts - See Instagram photos and videos from @%s",
			profile.Followers, profile.Following, len(profile.Posts), profile.Username)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>@%[1]s • Instagram photos and videos</title>
<meta property="og:title" content="@%[1]s">
<meta property="og:description" content="%[2]s">
</head>
<body></body>
</html>`, html.EscapeString(profile.Username), html.EscapeString(description))
}

func profileJSON(p Profile) map[string]interface{} {
	edges := make([]map[string]interface{}, 0, len(p.Posts))
	for i, post := range p.Posts {
		node := map[string]interface{}{
			"id":                    fmt.Sprintf("%d", 1000+i),
			"shortcode":             fmt.Sprintf("C%04d", i),
			"is_video":              false,
			"edge_media_to_comment": map[string]int64{"count": post.Comments},
		}
		if post.PreviewLikesOnly {
			node["edge_media_preview_like"] = map[string]int64{"count": post.Likes}
		} else {
			node["edge_liked_by"] = map[string]int64{"count": post.Likes}
			node["edge_media_preview_like"] = map[string]int64{"count": post.Likes}
		}
		edges = append(edges, map[string]interface{}{"node": node})
	}

	return map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"id":               "4242",
				"username":         p.Username,
				"is_private":       p.Private,
				"edge_followed_by": map[string]int64{"count": p.Followers},
				"edge_follow":      map[string]int64{"count": p.Following},
				"edge_owner_to_timeline_media": map[string]interface{}{
					"count":     len(p.Posts),
					"page_info": map[string]interface{}{"has_next_page": false, "end_cursor": ""},
					"edges":     edges,
				},
			},
		},
		"status": "ok",
	}
}
