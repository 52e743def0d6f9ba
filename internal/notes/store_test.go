package notes

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutIncrementsVersion(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	first := s.Put("n1", "1. e4 *")
	assert.Equal(t, 1, first.Version)
	second := s.Put("n1", "1. e4 e5 *")
	assert.Equal(t, 2, second.Version)

	got, err := s.Get("n1")
	require.NoError(t, err)
	assert.Equal(t, Note{ID: "n1", Text: "1. e4 e5 *", Version: 2, UpdatedAt: at}, got)
}

func TestGetMissing(t *testing.T) {
	s := NewStore()
	_, err := s.Get("nope")
	assert.Equal(t, ErrNoteNotFound, errors.Cause(err))

	s.Put("n1", "")
	s.Delete("n1")
	_, err = s.Get("n1")
	assert.Equal(t, ErrNoteNotFound, errors.Cause(err))
}

func TestSinkWritesNote(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Sink("n2").Save("1. d4 *"))

	got, err := s.Get("n2")
	require.NoError(t, err)
	assert.Equal(t, "1. d4 *", got.Text)
}
