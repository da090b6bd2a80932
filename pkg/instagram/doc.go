// Package instagram provides a client for Instagram's public web endpoints.
//
// This package includes:
//   - A configurable HTTP client sending browser headers and the web app id
//   - Models for the web_profile_info response
//   - An HTML fallback that reads totals from a profile page's meta tags
//   - Username helpers shared by every front-end
//
// Failures are returned as *errors.Error from igengage/pkg/errors. A missing
// account is reported as errors.ErrProfileNotFound.
//
// Example usage:
//
//	client := instagram.NewClient(15*time.Second, log)
//
//	user, err := client.FetchProfile(ctx, "natgeo")
//	if err != nil {
//	    switch errors.TypeOf(err) {
//	    case errors.ErrorTypeAuth:
//	        // Login wall, try the HTML page instead
//	        page, err := client.FetchProfileHTML(ctx, "natgeo")
//	    case errors.ErrorTypeRateLimit:
//	        // Report and give up
//	    }
//	}
//
//	for _, edge := range user.EdgeOwnerToTimelineMedia.Edges {
//	    fmt.Println(edge.Node.Likes(), edge.Node.Comments())
//	}
package instagram
