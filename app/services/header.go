package services

// DefaultBrandTitle is shown when no brand title is configured.
const DefaultBrandTitle = "My Blog"

// Header is the branding bar. With a search box it shows the value
// owned by the post list and has no state of its own.
type Header struct {
	Title      string
	Search     string
	ShowSearch bool
}

// NewHeader builds the header for a list; a nil list hides the search box.
func NewHeader(title string, list *PostList) Header {
	if title == "" {
		title = DefaultBrandTitle
	}
	h := Header{Title: title}
	if list != nil {
		h.ShowSearch = true
		h.Search = list.Query
	}
	return h
}
