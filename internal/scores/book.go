package scores

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	bookObject   = "scores"
	bookProperty = "table"
)

// Book keeps scores in the per-user data directory managed by gdata.
// With a nil manager it only keeps them in memory.
type Book struct {
	mu      sync.Mutex
	manager *gdata.Manager
	entries map[string]*Entry
}

// Compile-time check that Book accepts finished runs.
var _ Sink = (*Book)(nil)

// OpenBook opens the book stored under appName.
func OpenBook(appName string) (*Book, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open game data: %w", err)
	}
	return NewBook(m)
}

// NewBook loads a book from m. A nil m gives an in-memory book.
func NewBook(m *gdata.Manager) (*Book, error) {
	b := &Book{manager: m, entries: make(map[string]*Entry)}
	if m == nil || !m.ObjectPropExists(bookObject, bookProperty) {
		return b, nil
	}

	data, err := m.LoadObjectProp(bookObject, bookProperty)
	if err != nil {
		return b, fmt.Errorf("load scores: %w", err)
	}
	var list []Entry
	if err := yaml.Unmarshal(data, &list); err != nil {
		return b, fmt.Errorf("parse scores: %w", err)
	}
	for i := range list {
		e := list[i]
		b.entries[e.Username] = &e
	}
	return b, nil
}

// RecordScore adds a finished run and saves the book.
func (b *Book) RecordScore(username string, score int) error {
	if username == "" {
		return ErrNoUsername
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[username]
	if !ok {
		e = &Entry{Username: username}
		b.entries[username] = e
	}
	e.Add(score)
	return b.saveLocked()
}

// User returns a copy of a player's record, or nil.
func (b *Book) User(username string) *Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[username]
	if !ok {
		return nil
	}
	cp := *e
	cp.Scores = append([]int(nil), e.Scores...)
	return &cp
}

// Rankings returns up to limit players ordered by high score.
func (b *Book) Rankings(limit int) []Entry {
	b.mu.Lock()
	list := b.listLocked()
	b.mu.Unlock()

	if limit >= 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (b *Book) listLocked() []Entry {
	list := make([]Entry, 0, len(b.entries))
	for _, e := range b.entries {
		cp := *e
		cp.Scores = append([]int(nil), e.Scores...)
		list = append(list, cp)
	}
	rank(list)
	return list
}

func (b *Book) saveLocked() error {
	if b.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(b.listLocked())
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	if err := b.manager.SaveObjectProp(bookObject, bookProperty, data); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}
