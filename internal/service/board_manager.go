// service/board_manager.go
package service

import (
	"sync"

	"github.com/benbeisheim/chessnote-backend/internal/notes"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	ErrBoardNotFound   = errors.New("board not found")
	ErrBoardExists     = errors.New("board already exists")
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("connection already exists")
)

type BoardManager struct {
	boards map[string]*Session
	store  *notes.Store
	log    zerolog.Logger
	mu     sync.RWMutex
}

func NewBoardManager(store *notes.Store, log zerolog.Logger) *BoardManager {
	return &BoardManager{
		boards: make(map[string]*Session),
		store:  store,
		log:    log,
	}
}

// CreateBoard opens a board on a new note holding text.
func (bm *BoardManager) CreateBoard(text string) (*Session, error) {
	return bm.OpenBoard(uuid.New().String(), text)
}

// OpenBoard opens a board for a note the host already knows by id.
func (bm *BoardManager) OpenBoard(boardID string, text string) (*Session, error) {
	if _, err := uuid.Parse(boardID); err != nil {
		return nil, errors.Wrapf(err, "board id %q", boardID)
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if _, exists := bm.boards[boardID]; exists {
		return nil, errors.Wrapf(ErrBoardExists, "board %s", boardID)
	}
	s := NewSession(boardID, text, bm.store, bm.log)
	bm.boards[boardID] = s
	bm.log.Info().Str("board_id", boardID).Msg("board opened")
	return s, nil
}

func (bm *BoardManager) GetBoard(boardID string) (*Session, error) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	s, exists := bm.boards[boardID]
	if !exists {
		return nil, errors.Wrapf(ErrBoardNotFound, "board %s", boardID)
	}
	return s, nil
}

// DeleteBoard disconnects all clients and forgets the board and its note.
func (bm *BoardManager) DeleteBoard(boardID string) error {
	bm.mu.Lock()
	s, exists := bm.boards[boardID]
	delete(bm.boards, boardID)
	bm.mu.Unlock()

	if !exists {
		return errors.Wrapf(ErrBoardNotFound, "board %s", boardID)
	}
	bm.store.Delete(boardID)
	bm.log.Info().Str("board_id", boardID).Msg("board deleted")
	return s.Close()
}

func (bm *BoardManager) Count() int {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return len(bm.boards)
}

// Close disconnects every client of every board.
func (bm *BoardManager) Close() error {
	bm.mu.RLock()
	sessions := make([]*Session, 0, len(bm.boards))
	for _, s := range bm.boards {
		sessions = append(sessions, s)
	}
	bm.mu.RUnlock()

	var errs error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "board %s", s.ID))
		}
	}
	return errs
}
