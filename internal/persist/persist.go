// Package persist carries the serialized game record out to the host.
package persist

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Sink receives the game record after every successful move.
type Sink interface {
	Save(text string) error
}

type SinkFunc func(text string) error

func (f SinkFunc) Save(text string) error {
	return f(text)
}

// Discard accepts and drops everything.
var Discard Sink = SinkFunc(func(string) error { return nil })

// Fanout saves to every sink, even after one of them fails.
type Fanout []Sink

func (f Fanout) Save(text string) error {
	var errs error
	for _, s := range f {
		if err := save(s, text); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// save turns a panicking sink into an error.
func save(s Sink, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("sink panicked: %v", r)
		}
	}()
	return s.Save(text)
}

// Channel is the fire-and-forget push to the host. A failing or panicking
// sink is logged and otherwise ignored; board state never depends on it.
type Channel struct {
	sink Sink
	log  zerolog.Logger
}

func NewChannel(sink Sink, log zerolog.Logger) *Channel {
	if sink == nil {
		sink = Discard
	}
	return &Channel{sink: sink, log: log}
}

// Push reports whether the sink accepted the text.
func (c *Channel) Push(text string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn().Str("panic", fmt.Sprint(r)).Msg("error saving note")
			ok = false
		}
	}()
	if err := c.sink.Save(text); err != nil {
		c.log.Warn().Err(err).Msg("error saving note")
		return false
	}
	return true
}
