// Package scraper turns Instagram profile data into engagement snapshots.
//
// The Scraper implements engagement.Fetcher. It asks the web profile
// endpoint for the follower count and the first page of posts, keeps the
// newest post_limit posts and returns their like and comment counts.
//
// Usage:
//
//	s := scraper.New(cfg.Instagram, log)
//	snapshot, err := s.Fetch(ctx, "natgeo")
//	switch {
//	case errors.Is(err, errors.ErrNotAccessible):
//	    // missing or private
//	case err != nil:
//	    // *errors.Error describing the fetch failure
//	}
//
// When the endpoint is blocked and html_fallback is on, the profile page is
// consulted. A 404 there means the account is gone and yields
// errors.ErrProfileNotFound. Otherwise the blocked *errors.Error is returned,
// since the page never carries per-post counts.
package scraper
