package models

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Post represents a blog post as served by the upstream posts API.
type Post struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int    `json:"userId"`
}

// Draft is the in-progress form data for a post being authored. All
// fields hold raw form input until the draft is turned into a Post.
type Draft struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID string `json:"authorId" validate:"omitempty,number"`
}

// Pagination tracks the current page against the upstream total.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}
