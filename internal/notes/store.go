// Package notes is the host side of the document channel: it keeps the
// latest text of every note that has a board attached.
package notes

import (
	"sync"
	"time"

	"github.com/benbeisheim/chessnote-backend/internal/persist"
	"github.com/pkg/errors"
)

var ErrNoteNotFound = errors.New("note not found")

type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store struct {
	mu    sync.RWMutex
	notes map[string]Note
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		notes: make(map[string]Note),
		now:   time.Now,
	}
}

// Put stores text as the next version of the note.
func (s *Store) Put(id, text string) Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.notes[id]
	n.ID = id
	n.Text = text
	n.Version++
	n.UpdatedAt = s.now()
	s.notes[id] = n
	return n
}

func (s *Store) Get(id string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok {
		return Note{}, errors.Wrapf(ErrNoteNotFound, "note %s", id)
	}
	return n, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notes, id)
}

// Sink saves into the note with the given id.
func (s *Store) Sink(id string) persist.Sink {
	return persist.SinkFunc(func(text string) error {
		s.Put(id, text)
		return nil
	})
}
