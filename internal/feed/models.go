package feed

type sessionRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type sessionResponse struct {
	AccessJwt  string `json:"accessJwt"`
	RefreshJwt string `json:"refreshJwt"`
	Handle     string `json:"handle"`
	DID        string `json:"did"`
}

// SearchResponse is the subset of app.bsky.feed.searchPosts the badge reads.
type SearchResponse struct {
	Posts  []PostView `json:"posts"`
	Cursor string     `json:"cursor,omitempty"`
}

type PostView struct {
	URI    string `json:"uri"`
	Author Author `json:"author"`
	Record Record `json:"record"`
}

type Author struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

type Record struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}
