// Package board mediates between board gestures and the game record.
//
// A Controller is the single owner of the current position. It is not safe
// for concurrent use: callers deliver events one at a time, the way a UI
// event loop would.
package board

import (
	"github.com/benbeisheim/chessnote-backend/internal/model"
	"github.com/benbeisheim/chessnote-backend/internal/persist"
	"github.com/benbeisheim/chessnote-backend/internal/rules"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Result tells the caller what a gesture or a promotion choice did.
type Result int

const (
	Ignored Result = iota
	Moved
	PromotionPending
)

func (r Result) String() string {
	switch r {
	case Moved:
		return "moved"
	case PromotionPending:
		return "promotionPending"
	}
	return "ignored"
}

// Notifier is told about every change the board widget has to show.
type Notifier interface {
	BoardChanged(view model.BoardView)
	PromotionRequested(req model.PromotionRequest)
}

type nopNotifier struct{}

func (nopNotifier) BoardChanged(model.BoardView)              {}
func (nopNotifier) PromotionRequested(model.PromotionRequest) {}

type Controller struct {
	log      zerolog.Logger
	channel  *persist.Channel
	notifier Notifier

	position  rules.Position
	dests     Destinations
	text      string
	lastMove  *model.MoveAttempt
	promotion promotionResolver
}

// NewController starts from the empty game. A nil channel or notifier
// discards its output.
func NewController(channel *persist.Channel, notifier Notifier, log zerolog.Logger) *Controller {
	if channel == nil {
		channel = persist.NewChannel(nil, log)
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	c := &Controller{
		log:      log,
		channel:  channel,
		notifier: notifier,
		position: rules.NewPosition(),
	}
	c.refresh()
	return c
}

// LoadText replaces the whole game with the one in text. Text the rules
// library cannot read gives the empty game. Any pending promotion is dropped.
func (c *Controller) LoadText(text string) {
	pos, err := rules.ParsePGN(text)
	if err != nil {
		c.log.Warn().Err(err).Msg("failed load, using empty game")
		pos = rules.NewPosition()
	} else {
		c.log.Debug().Int("plies", pos.Plies()).Msg("successful load")
	}
	c.position = pos
	c.lastMove = nil
	c.promotion.reset()
	c.refresh()
	c.notifier.BoardChanged(c.View())
}

// AttemptMove handles a (from, to) gesture. Gestures that do not match a
// legal move, and every gesture made while a promotion choice is
// outstanding, are ignored.
func (c *Controller) AttemptMove(from, to model.Square) Result {
	attempt := model.MoveAttempt{From: from, To: to}
	log := c.log.With().Stringer("move", attempt).Logger()

	if err := attempt.Validate(); err != nil {
		log.Debug().Err(err).Msg("gesture ignored")
		return Ignored
	}
	if pending, ok := c.promotion.pending(); ok {
		log.Debug().Stringer("pending", pending).Msg("gesture ignored, awaiting promotion choice")
		return Ignored
	}

	match, ok := c.findLegal(attempt)
	if !ok {
		log.Debug().Msg("gesture ignored, not legal")
		return Ignored
	}
	if match.IsPromotion() {
		c.promotion.suspend(attempt)
		log.Debug().Msg("awaiting promotion choice")
		c.notifier.PromotionRequested(model.PromotionRequest{
			From:    from,
			To:      to,
			Choices: slices.Clone(model.PromotionChoices),
		})
		c.notifier.BoardChanged(c.View())
		return PromotionPending
	}

	// the queen is only a placeholder, non-promoting moves ignore it
	return c.apply(model.Move{From: from, To: to, Promotion: model.Queen}, log)
}

// ResolvePromotion completes the pending move with the chosen piece.
// Without a pending move it does nothing.
func (c *Controller) ResolvePromotion(piece model.PieceType) Result {
	pending, ok := c.promotion.pending()
	if !ok {
		c.log.Debug().Str("piece", string(piece)).Msg("no pending promotion")
		return Ignored
	}
	log := c.log.With().Stringer("move", pending).Str("piece", string(piece)).Logger()

	move, ok := c.promotion.resolve(piece)
	if !ok {
		log.Debug().Msg("promotion choice ignored")
		return Ignored
	}
	return c.apply(move, log)
}

func (c *Controller) findLegal(attempt model.MoveAttempt) (model.Move, bool) {
	for _, m := range c.position.LegalMoves() {
		if m.From == attempt.From && m.To == attempt.To {
			return m, true
		}
	}
	return model.Move{}, false
}

func (c *Controller) apply(m model.Move, log zerolog.Logger) Result {
	next, err := c.position.Apply(m)
	if err != nil {
		log.Error().Err(err).Msg("rules rejected a move it listed as legal")
		return Ignored
	}
	c.position = next
	last := m.Attempt()
	c.lastMove = &last
	c.promotion.reset()
	c.refresh()
	log.Debug().Int("plies", c.position.Plies()).Msg("move applied")

	c.channel.Push(c.text)
	c.notifier.BoardChanged(c.View())
	return Moved
}

// refresh recomputes everything derived from the position.
func (c *Controller) refresh() {
	c.dests = ComputeDestinations(c.position)
	c.text = c.position.PGN()
}

func (c *Controller) State() model.BoardState {
	if _, ok := c.promotion.pending(); ok {
		return model.StateAwaitingPromotionChoice
	}
	return model.StateIdle
}

func (c *Controller) Pending() (model.MoveAttempt, bool) {
	return c.promotion.pending()
}

func (c *Controller) LastMove() (model.MoveAttempt, bool) {
	if c.lastMove == nil {
		return model.MoveAttempt{}, false
	}
	return *c.lastMove, true
}

func (c *Controller) TurnColor() model.Color {
	return c.position.Turn()
}

// PositionEncoding is the FEN of the current position.
func (c *Controller) PositionEncoding() string {
	return c.position.FEN()
}

// Text is the current game record.
func (c *Controller) Text() string {
	return c.text
}

func (c *Controller) Position() rules.Position {
	return c.position
}

func (c *Controller) Destinations() Destinations {
	return c.dests
}

// View snapshots the widget inputs. While a promotion choice is
// outstanding no destinations are offered.
func (c *Controller) View() model.BoardView {
	view := model.BoardView{
		FEN:          c.position.FEN(),
		TurnColor:    c.position.Turn(),
		Destinations: c.dests.clone(),
		Free:         false,
		State:        c.State(),
		PGN:          c.text,
		History:      c.position.History(),
		IsCheck:      c.position.InCheck(),
		Outcome:      c.position.Outcome(),
		Method:       c.position.Method(),
	}
	if last, ok := c.LastMove(); ok {
		view.LastMove = &last
	}
	if pending, ok := c.promotion.pending(); ok {
		view.Pending = &pending
		view.Destinations = map[model.Square][]model.Square{}
	}
	return view
}
