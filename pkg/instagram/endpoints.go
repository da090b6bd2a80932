package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// ProfileEndpoint is the endpoint pattern for user profiles
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// WebAppID is the X-IG-App-ID the public web client sends
	WebAppID = "936619743392459"

	// DefaultPostLimit is the number of posts on the first profile page
	DefaultPostLimit = 12

	// MaxPostLimit is the largest page Instagram returns
	MaxPostLimit = 50
)

// ProfileURL constructs the web_profile_info URL for username under base
func ProfileURL(base, username string) string {
	params := url.Values{}
	params.Set("username", username)

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(base, "/"), ProfileEndpoint, params.Encode())
}

// ProfilePageURL constructs the HTML profile page URL under base
func ProfilePageURL(base, username string) string {
	if username == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/", strings.TrimRight(base, "/"), url.PathEscape(username))
}

// PublicProfileURL is the link to username's page on the public site
func PublicProfileURL(username string) string {
	return ProfilePageURL(BaseURL, username)
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// SanitizeUsername trims whitespace, a leading @ and trailing slashes.
// A blank result means the input carried no username.
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	username = strings.TrimRight(username, "/ ")
	return strings.TrimSpace(username)
}
