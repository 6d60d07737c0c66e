package models

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Slug returns a URL-safe anchor for the post title.
func (p Post) Slug() string {
	s := slug.Make(p.Title)
	if s == "" {
		return "post"
	}
	return s
}

// Anchor is the element id used when rendering the post in a list.
func (p Post) Anchor() string {
	return fmt.Sprintf("post-%d-%s", p.ID, p.Slug())
}

// MatchesTitle reports whether the title contains query, ignoring case.
// An empty query matches every post.
func (p Post) MatchesTitle(query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), strings.ToLower(query))
}

// FilterByTitle returns the posts whose titles contain query. The input
// slice is not modified and the relative order is kept.
func FilterByTitle(posts []Post, query string) []Post {
	filtered := make([]Post, 0, len(posts))
	for i := range posts {
		if posts[i].MatchesTitle(query) {
			filtered = append(filtered, posts[i])
		}
	}
	return filtered
}
