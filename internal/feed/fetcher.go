package feed

import (
	"context"
	"errors"
	"time"

	"github.com/rook-computer/badge/internal/logging"
	"github.com/rook-computer/badge/internal/metrics"
	"github.com/rook-computer/badge/internal/state"
)

// SearchLimit is the number of posts requested per search.
const SearchLimit = 10

// Fetcher runs one refresh cycle at a time: authenticate when needed, search,
// rank, replace the cached posts. It is the only writer of the credential and
// the post cache.
type Fetcher struct {
	API            API
	Store          *state.Store
	Logger         logging.Logger
	Metrics        *metrics.Metrics
	Tag            string
	OfficialHandle string
	// CycleTimeout bounds one whole refresh cycle, login included. Zero
	// leaves only the per-request timeout.
	CycleTimeout time.Duration
}

func NewFetcher(api API, store *state.Store, logger logging.Logger, m *metrics.Metrics, tag, officialHandle string) *Fetcher {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Fetcher{
		API:            api,
		Store:          store,
		Logger:         logger,
		Metrics:        m,
		Tag:            tag,
		OfficialHandle: officialHandle,
		CycleTimeout:   DefaultTimeout,
	}
}

// Authenticate obtains a fresh access token and stores it.
func (f *Fetcher) Authenticate(ctx context.Context) error {
	token, err := f.API.CreateSession(ctx)
	if err != nil {
		if errors.Is(err, ErrConfig) {
			f.Logger.Warnf("feed", "no app password configured, skipping login")
		} else {
			f.Logger.Errorf("feed", "login failed: %v", err)
		}
		return err
	}
	f.Store.SetAccessToken(token)
	f.Logger.Infof("feed", "authenticated")
	return nil
}

// FetchPosts performs one refresh cycle. On any error the cached posts are
// left as they were and the error class is returned.
func (f *Fetcher) FetchPosts(ctx context.Context) (err error) {
	defer func() { f.observe(err) }()

	if f.CycleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.CycleTimeout)
		defer cancel()
	}

	if f.Store.AccessToken() == "" {
		if err := f.Authenticate(ctx); err != nil {
			return err
		}
	}

	result, err := f.API.SearchPosts(ctx, f.Store.AccessToken(), f.Tag, SearchLimit)
	if err != nil {
		if errors.Is(err, ErrAuthExpired) {
			f.Store.ClearAccessToken()
			f.Logger.Warnf("feed", "access token expired, will re-authenticate next cycle")
		} else {
			f.Logger.Warnf("feed", "search failed: %v", err)
		}
		return err
	}

	posts := TopPosts(result.Posts, f.OfficialHandle)
	f.Store.ReplacePosts(posts)
	f.Logger.Infof("feed", "cached %d posts from %d results", len(posts), len(result.Posts))
	return nil
}

func (f *Fetcher) observe(err error) {
	if f.Metrics == nil {
		return
	}
	f.Metrics.Fetches.WithLabelValues(Result(err)).Inc()
	if err == nil {
		f.Metrics.CachedPosts.Set(float64(len(f.Store.Snapshot().Posts)))
	}
}
