// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package events is the notification channel shared by the database
// manager and the record managers. Handlers run synchronously, on the
// goroutine that posts, in subscription order.
package events

import (
	"sync"
)

// Kind identifies what happened.
type Kind int

const (
	Insert Kind = iota + 1
	Update
	Delete
	Created
	Upgraded
	Cleaned
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case Created:
		return "created"
	case Upgraded:
		return "upgraded"
	case Cleaned:
		return "cleaned"
	}
	return "unknown"
}

// Event is one notification. Table and ID are empty for database
// lifecycle events.
type Event struct {
	Kind     Kind
	Database string
	Table    string
	ID       int64
}

// Handler receives events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus fans events out to subscribers. A nil *Bus discards everything.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	if b == nil {
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Post delivers e to every current subscriber.
func (b *Bus) Post(e Event) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}
