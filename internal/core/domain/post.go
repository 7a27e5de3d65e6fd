package domain

import "time"

// Post is a piece of content owned by the user that created it.
// AuthorID never changes after creation.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostChanges is a partial update; nil fields are left untouched.
type PostChanges struct {
	Title   *string
	Content *string
}

func (c PostChanges) IsEmpty() bool {
	return c.Title == nil && c.Content == nil
}

// PostFilter narrows a post listing. Empty fields match everything.
type PostFilter struct {
	AuthorID string
}
