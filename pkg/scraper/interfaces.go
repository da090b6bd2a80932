package scraper

import (
	"context"

	"igengage/pkg/instagram"
)

// InstagramClient defines the interface for Instagram API operations
type InstagramClient interface {
	FetchProfile(ctx context.Context, username string) (*instagram.User, error)
	FetchProfileHTML(ctx context.Context, username string) (*instagram.HTMLProfile, error)
}
