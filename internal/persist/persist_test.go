package persist

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanoutSavesToAllSinks(t *testing.T) {
	var got []string
	ok := SinkFunc(func(text string) error {
		got = append(got, text)
		return nil
	})
	bad := SinkFunc(func(string) error { return errors.New("host unavailable") })

	err := Fanout{bad, ok, bad, ok}.Save("1. e4 *")
	require.Error(t, err)
	merr, isMulti := err.(*multierror.Error)
	require.True(t, isMulti)
	assert.Len(t, merr.Errors, 2)
	assert.Equal(t, []string{"1. e4 *", "1. e4 *"}, got)

	assert.NoError(t, Fanout{ok}.Save("x"))
}

func TestChannelLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c := NewChannel(SinkFunc(func(string) error { return errors.New("no editor kit") }), log)
	assert.False(t, c.Push("1. e4 *"))
	assert.Contains(t, buf.String(), "no editor kit")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestChannelRecoversPanickingSink(t *testing.T) {
	var buf bytes.Buffer
	c := NewChannel(SinkFunc(func(string) error { panic("context gone") }), zerolog.New(&buf))

	assert.NotPanics(t, func() {
		assert.False(t, c.Push("1. e4 *"))
	})
	assert.Contains(t, buf.String(), "context gone")
}

func TestNilSinkDiscards(t *testing.T) {
	c := NewChannel(nil, zerolog.Nop())
	assert.True(t, c.Push("anything"))
}

func TestFanoutContinuesPastPanickingSink(t *testing.T) {
	var got []string
	ok := SinkFunc(func(text string) error {
		got = append(got, text)
		return nil
	})
	bad := SinkFunc(func(string) error { return errors.New("host unavailable") })
	boom := SinkFunc(func(string) error { panic("context gone") })

	var err error
	assert.NotPanics(t, func() {
		err = Fanout{bad, boom, ok}.Save("1. e4 *")
	})
	merr, isMulti := err.(*multierror.Error)
	require.True(t, isMulti)
	require.Len(t, merr.Errors, 2)
	assert.EqualError(t, merr.Errors[0], "host unavailable")
	assert.Contains(t, merr.Errors[1].Error(), "context gone")
	assert.Equal(t, []string{"1. e4 *"}, got)
}
