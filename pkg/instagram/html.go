package instagram

import (
	"context"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"igengage/pkg/errors"
)

var countPattern = regexp.MustCompile(`(?i)([\d.,]+)\s*([KMB]?)\s+(Followers|Following|Posts)`)

// FetchProfileHTML reads follower, following and post totals from the
// profile page's og:description meta tag. It is the fallback when the JSON
// endpoint refuses to answer and never yields per-post counts.
func (c *Client) FetchProfileHTML(ctx context.Context, username string) (*HTMLProfile, error) {
	url := ProfilePageURL(c.baseURL, username)

	resp, err := c.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		if errors.TypeOf(err) == errors.ErrorTypeNotFound {
			return nil, errors.ErrProfileNotFound
		}
		return nil, err
	}

	profile, err := ParseProfileHTML(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	profile.Username = username

	c.logger.DebugWithFields("parsed profile page", map[string]interface{}{
		"username":  username,
		"followers": profile.Followers,
		"posts":     profile.Posts,
	})
	return profile, nil
}

// ParseProfileHTML extracts the totals from a profile page body.
// A page without an og:description is the login wall and maps to an auth error.
func ParseProfileHTML(r io.Reader) (*HTMLProfile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrorTypeParsing, 0, err, "failed to parse profile page")
	}

	var description string
	doc.Find(`meta[property="og:description"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		description, _ = s.Attr("content")
		return description == ""
	})
	if description == "" {
		doc.Find(`meta[name="description"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			description, _ = s.Attr("content")
			return description == ""
		})
	}
	if description == "" {
		return nil, errors.New(errors.ErrorTypeAuth, 0, "profile page requires login")
	}

	profile := &HTMLProfile{}
	found := false
	for _, m := range countPattern.FindAllStringSubmatch(description, -1) {
		n, ok := ParseCount(m[1] + m[2])
		if !ok {
			continue
		}
		found = true
		switch strings.ToLower(m[3]) {
		case "followers":
			profile.Followers = n
		case "following":
			profile.Following = n
		case "posts":
			profile.Posts = n
		}
	}
	if !found {
		return nil, errors.New(errors.ErrorTypeParsing, 0, "profile description has no counts")
	}
	return profile, nil
}

// ParseCount converts "1,234", "12.3K" or "1.2M" to an integer
func ParseCount(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	multiplier := 1.0
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		multiplier = 1e3
	case "M":
		multiplier = 1e6
	case "B":
		multiplier = 1e9
	}
	if multiplier != 1 {
		s = s[:len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")

	if multiplier == 1 {
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(f*multiplier + 0.5), true
}
