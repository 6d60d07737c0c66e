package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Form field names accepted by Draft.SetField.
const (
	FieldTitle    = "title"
	FieldBody     = "body"
	FieldAuthorID = "authorId"
)

// FormFields lists every name SetField accepts in the order a submitted
// form applies them. The author aliases come before FieldAuthorID so the
// canonical name wins when several are sent.
var FormFields = []string{FieldTitle, FieldBody, "userID", "userId", FieldAuthorID}

// UnknownFieldError is returned when a form field name does not belong to a draft.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown draft field %q", e.Name)
}

// SetField updates exactly the named field and leaves the others untouched.
func (d *Draft) SetField(name, value string) error {
	switch name {
	case FieldTitle:
		d.Title = value
	case FieldBody:
		d.Body = value
	case FieldAuthorID, "userId", "userID":
		d.AuthorID = value
	default:
		return &UnknownFieldError{Name: name}
	}
	return nil
}

// Reset clears every field back to the empty string.
func (d *Draft) Reset() {
	*d = Draft{}
}

// IsEmpty reports whether no field has been filled in.
func (d *Draft) IsEmpty() bool {
	return d.Title == "" && d.Body == "" && d.AuthorID == ""
}

// Validate checks the draft can be turned into a post
func (d *Draft) Validate() error {
	return validate.Struct(d)
}

// Post normalizes the draft into a post payload with a numeric author id.
// A blank author id becomes zero.
func (d *Draft) Post() (Post, error) {
	if err := d.Validate(); err != nil {
		return Post{}, fmt.Errorf("invalid draft: %w", err)
	}
	post := Post{Title: d.Title, Body: d.Body}
	if d.AuthorID != "" {
		n, err := strconv.Atoi(d.AuthorID)
		if err != nil {
			return Post{}, fmt.Errorf("invalid author id %q: %w", d.AuthorID, err)
		}
		post.AuthorID = n
	}
	return post, nil
}

// UnmarshalJSON accepts the author id as a JSON string or number, under
// "authorId" or the API's "userId". When both are present authorId wins.
func (d *Draft) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title    string          `json:"title"`
		Body     string          `json:"body"`
		AuthorID json.RawMessage `json:"authorId"`
		UserID   json.RawMessage `json:"userId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Draft{Title: raw.Title, Body: raw.Body}
	for _, field := range []json.RawMessage{raw.UserID, raw.AuthorID} {
		if len(field) == 0 || bytes.Equal(field, []byte("null")) {
			continue
		}
		id, err := authorIDText(field)
		if err != nil {
			return err
		}
		d.AuthorID = id
	}
	return nil
}

func authorIDText(field json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(field, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(field, &n); err != nil {
		return "", fmt.Errorf("author id must be a string or a number: %w", err)
	}
	return n.String(), nil
}
