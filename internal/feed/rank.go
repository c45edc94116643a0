package feed

import (
	"sort"
	"strings"

	"github.com/rook-computer/badge/internal/state"
)

// CandidateCapacity bounds how many accepted posts one cycle considers.
const CandidateCapacity = 10

// Candidate is an accepted post waiting to be ranked.
type Candidate struct {
	Author    string
	Text      string
	Timestamp string
}

// CandidateSet is a fixed-capacity working set. Adds past capacity are rejected.
type CandidateSet struct {
	items [CandidateCapacity]Candidate
	count int
}

func (s *CandidateSet) Add(c Candidate) bool {
	if s.count >= CandidateCapacity {
		return false
	}
	s.items[s.count] = c
	s.count++
	return true
}

func (s *CandidateSet) Len() int   { return s.count }
func (s *CandidateSet) Full() bool { return s.count >= CandidateCapacity }

// Ranked returns the candidates newest first. createdAt strings are compared
// lexicographically; equal timestamps keep their response order.
func (s *CandidateSet) Ranked() []Candidate {
	out := make([]Candidate, s.count)
	copy(out, s.items[:s.count])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// Collect filters raw search results into a candidate set. Posts from the
// official handle and posts missing a handle, text or timestamp are skipped.
// Collection stops once the set is full.
func Collect(views []PostView, officialHandle string) *CandidateSet {
	set := &CandidateSet{}
	official := strings.TrimPrefix(officialHandle, "@")
	for _, view := range views {
		if set.Full() {
			break
		}
		handle := view.Author.Handle
		if official != "" && strings.EqualFold(handle, official) {
			continue
		}
		if handle == "" || view.Record.Text == "" || view.Record.CreatedAt == "" {
			continue
		}
		set.Add(Candidate{
			Author:    "@" + handle,
			Text:      view.Record.Text,
			Timestamp: view.Record.CreatedAt,
		})
	}
	return set
}

// TopPosts ranks the search results and keeps the newest state.MaxPosts.
func TopPosts(views []PostView, officialHandle string) []state.Post {
	ranked := Collect(views, officialHandle).Ranked()
	if len(ranked) > state.MaxPosts {
		ranked = ranked[:state.MaxPosts]
	}
	posts := make([]state.Post, 0, len(ranked))
	for _, c := range ranked {
		posts = append(posts, state.Post{Author: c.Author, Text: c.Text})
	}
	return posts
}
