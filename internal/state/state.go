package state

import "sync"

const (
	SlideCount = 7
	MaxPosts   = 3
)

// Post is a ranked post as shown on the badge. Author carries the "@" prefix.
type Post struct {
	Author string
	Text   string
}

// State is a copy of the badge state at one point in time.
type State struct {
	CurrentSlide    int
	BrightnessIndex int
	AccessToken     string
	Posts           []Post
}

// Authenticated reports whether a credential is held.
func (s State) Authenticated() bool { return s.AccessToken != "" }

// Post returns the i-th cached post, if there is one.
func (s State) Post(i int) (Post, bool) {
	if i < 0 || i >= len(s.Posts) {
		return Post{}, false
	}
	return s.Posts[i], true
}

// Store is the badge context passed to each component. Each field has a single
// writer: the slide sequencer, the brightness controller and the content fetcher.
// The lock only exists so the status server can take snapshots.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(brightnessIndex int) *Store {
	return &Store{state: State{BrightnessIndex: brightnessIndex}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	snap := store.state
	snap.Posts = clonePosts(store.state.Posts)
	return snap
}

func (store *Store) CurrentSlide() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state.CurrentSlide
}

func (store *Store) SetCurrentSlide(slide int) {
	store.mu.Lock()
	store.state.CurrentSlide = slide
	store.mu.Unlock()
}

func (store *Store) BrightnessIndex() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state.BrightnessIndex
}

func (store *Store) SetBrightnessIndex(index int) {
	store.mu.Lock()
	store.state.BrightnessIndex = index
	store.mu.Unlock()
}

func (store *Store) AccessToken() string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state.AccessToken
}

func (store *Store) SetAccessToken(token string) {
	store.mu.Lock()
	store.state.AccessToken = token
	store.mu.Unlock()
}

func (store *Store) ClearAccessToken() { store.SetAccessToken("") }

// ReplacePosts swaps the cached posts wholesale. Anything past MaxPosts is dropped.
func (store *Store) ReplacePosts(posts []Post) {
	if len(posts) > MaxPosts {
		posts = posts[:MaxPosts]
	}
	fresh := clonePosts(posts)
	store.mu.Lock()
	store.state.Posts = fresh
	store.mu.Unlock()
}

func clonePosts(input []Post) []Post {
	if len(input) == 0 {
		return nil
	}
	out := make([]Post, len(input))
	copy(out, input)
	return out
}
