package scraper

import (
	"context"

	"igengage/pkg/config"
	"igengage/pkg/engagement"
	"igengage/pkg/errors"
	"igengage/pkg/instagram"
	"igengage/pkg/logger"
)

// Scraper fetches the numbers an engagement check needs for one profile
type Scraper struct {
	client       InstagramClient
	postLimit    int
	htmlFallback bool
	logger       logger.Logger
}

// New creates a Scraper backed by an Instagram client built from cfg
func New(cfg config.InstagramConfig, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	client := instagram.NewClient(cfg.FetchTimeout, log,
		instagram.WithBaseURL(cfg.BaseURL),
		instagram.WithUserAgent(cfg.UserAgent),
		instagram.WithAppID(cfg.AppID),
	)
	return NewWithClient(client, cfg, log)
}

// NewWithClient creates a Scraper over an existing client
func NewWithClient(client InstagramClient, cfg config.InstagramConfig, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	limit := cfg.PostLimit
	if limit <= 0 || limit > instagram.MaxPostLimit {
		limit = instagram.DefaultPostLimit
	}

	return &Scraper{
		client:       client,
		postLimit:    limit,
		htmlFallback: cfg.HTMLFallback,
		logger:       log.WithField("component", "scraper"),
	}
}

// Fetch retrieves followers and the like/comment counts of the most recent
// posts. Missing accounts return errors.ErrProfileNotFound and private ones
// errors.ErrProfilePrivate, each with a zero Snapshot. A blocked endpoint
// returns its typed *errors.Error.
func (s *Scraper) Fetch(ctx context.Context, username string) (engagement.Snapshot, error) {
	user, err := s.client.FetchProfile(ctx, username)
	if err != nil {
		if errors.Is(err, errors.ErrNotAccessible) {
			return engagement.Snapshot{}, err
		}
		if s.htmlFallback && ctx.Err() == nil && errors.IsBlocked(errors.TypeOf(err)) {
			return s.fetchPage(ctx, username, err)
		}
		return engagement.Snapshot{}, err
	}

	if user.IsPrivate {
		s.logger.WithField("username", username).Debug("Profile is private")
		return engagement.Snapshot{}, errors.ErrProfilePrivate
	}

	edges := user.EdgeOwnerToTimelineMedia.Edges
	if len(edges) > s.postLimit {
		edges = edges[:s.postLimit]
	}

	snapshot := engagement.Snapshot{
		Username:     user.Username,
		Followers:    user.EdgeFollowedBy.Count,
		PostLikes:    make([]int64, 0, len(edges)),
		PostComments: make([]int64, 0, len(edges)),
	}
	if snapshot.Username == "" {
		snapshot.Username = username
	}
	for _, edge := range edges {
		snapshot.PostLikes = append(snapshot.PostLikes, edge.Node.Likes())
		snapshot.PostComments = append(snapshot.PostComments, edge.Node.Comments())
	}

	s.logger.DebugWithFields("Fetched profile", map[string]interface{}{
		"username":  snapshot.Username,
		"followers": snapshot.Followers,
		"posts":     snapshot.Posts(),
	})
	return snapshot, nil
}

// fetchPage consults the profile page when the JSON endpoint is blocked. The
// page carries no per-post counts, so it can only confirm that the account is
// missing. In every other case the blocked error is returned unchanged.
func (s *Scraper) fetchPage(ctx context.Context, username string, cause error) (engagement.Snapshot, error) {
	log := s.logger.WithField("username", username)
	log.WithError(cause).Warn("Profile endpoint blocked, checking profile page")

	page, err := s.client.FetchProfileHTML(ctx, username)
	switch {
	case errors.Is(err, errors.ErrProfileNotFound):
		return engagement.Snapshot{}, err
	case err != nil:
		log.WithError(err).Debug("Profile page unavailable")
	default:
		log.WithField("followers", page.Followers).Debug("Profile page exists but lists no posts")
	}
	return engagement.Snapshot{}, cause
}
