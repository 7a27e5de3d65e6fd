package domain

import (
	"fmt"
	"time"
)

// NotificationKind classifies a broadcast event.
type NotificationKind string

const (
	NotificationUserCreated NotificationKind = "user.created"
	NotificationPostCreated NotificationKind = "post.created"
	NotificationPostUpdated NotificationKind = "post.updated"
)

// Notification is a human-readable event fanned out after a successful write.
// Subject is the id of the user or post the event is about; it stays off the
// wire and only decides delivery order.
type Notification struct {
	Kind       NotificationKind `json:"kind"`
	Message    string           `json:"message"`
	OccurredAt time.Time        `json:"occurredAt"`
	Subject    string           `json:"-"`
}

func UserCreatedNotification(u *User) Notification {
	return Notification{
		Kind:       NotificationUserCreated,
		Message:    fmt.Sprintf("New user registered: %s", u.Name),
		OccurredAt: time.Now().UTC(),
		Subject:    u.ID,
	}
}

func PostCreatedNotification(p *Post) Notification {
	return Notification{
		Kind:       NotificationPostCreated,
		Message:    fmt.Sprintf("New post created: %s", p.Title),
		OccurredAt: time.Now().UTC(),
		Subject:    p.ID,
	}
}

func PostUpdatedNotification(p *Post) Notification {
	return Notification{
		Kind:       NotificationPostUpdated,
		Message:    fmt.Sprintf("Post updated: %s", p.Title),
		OccurredAt: time.Now().UTC(),
		Subject:    p.ID,
	}
}
