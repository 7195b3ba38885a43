// SPDX-License-Identifier: MIT
package lexer

// REF: https://github.com/sh4t/sql-parser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

type (
	// NextOperation is the next state function to execute.
	NextOperation func(context.Context) NextOperation

	// Lexer captures value, splitter & end-marker tokens from a serialized
	// hierarchy string.
	Lexer struct {
		cfg *Config

		// c is a channel for communicating lexed Items.
		c chan Item

		// source is the input being lexed.
		source io.RuneReader

		// pending holds a single pushed back rune; lexing needs one rune of
		// lookahead only.
		pending    rune
		hasPending bool

		// pos is the byte offset of the next unconsumed rune.
		pos int

		valueCounter int
		endCounter   int
	}
)

const itemBufferSize = 10

// Lexing errors.
var (
	ErrUnknownToken = fmt.Errorf("unknown token")
)

// New creates a Lexer over source.
func New(cfg *Config, source string) *Lexer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()

	return &Lexer{
		cfg:    cfg,
		c:      make(chan Item, itemBufferSize),
		source: strings.NewReader(source),
	}
}

// C obtains the channel carrying lexed Items; closed when lexing ends.
func (l *Lexer) C() <-chan Item { return l.c }

// ValueCounter counts the ItemValue tokens emitted so far.
func (l *Lexer) ValueCounter() int { return l.valueCounter }

// EndCounter counts the ItemEndMarker tokens emitted so far.
func (l *Lexer) EndCounter() int { return l.endCounter }

// Lex tokenizes the source by executing state functions, closing the Item
// channel when done; run under `go`.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	for state := l.lexAny; state != nil; {
		select {
		case <-ctx.Done():
			return
		default:
		}

		state = state(ctx)
	}
}

// lexAny dispatches on the next significant rune.
func (l *Lexer) lexAny(ctx context.Context) NextOperation {
	for {
		pos := l.pos

		r, err := l.next()
		if err != nil {
			if err == io.EOF {
				l.emit(ctx, Item{ID: ItemEOF, Pos: pos})
				return nil
			}

			l.emit(ctx, Item{ID: ItemError, Pos: pos, Err: err})
			return nil
		}

		switch {
		case unicode.IsSpace(r):
			// Insignificant between tokens.
			continue
		case r == l.cfg.Splitter:
			l.emit(ctx, Item{ID: ItemSplitter, Pos: pos, Val: string(r)})
		case r == l.cfg.EndMarker:
			l.endCounter++
			l.emit(ctx, Item{ID: ItemEndMarker, Pos: pos, Val: string(r)})
		case isValueRune(r):
			l.backup(r)
			return l.lexValue
		default:
			l.emit(ctx, Item{
				ID:  ItemError,
				Pos: pos,
				Err: fmt.Errorf("%w: %q", ErrUnknownToken, r),
			})
			return nil
		}
	}
}

// lexValue accumulates a run of value runes.
func (l *Lexer) lexValue(ctx context.Context) NextOperation {
	var (
		buffer strings.Builder
		pos    = l.pos
	)

	for {
		r, err := l.next()
		if err != nil {
			if err != io.EOF {
				l.emit(ctx, Item{ID: ItemError, Pos: l.pos, Err: err})
				return nil
			}

			break
		}

		if !isValueRune(r) {
			l.backup(r)
			break
		}
		buffer.WriteRune(r)
	}

	l.valueCounter++
	l.emit(ctx, Item{ID: ItemValue, Pos: pos, Val: buffer.String()})

	return l.lexAny
}

// next consumes one rune, draining the pushback slot first.
func (l *Lexer) next() (r rune, err error) {
	if l.hasPending {
		l.hasPending = false
		r = l.pending
		l.pos += utf8.RuneLen(r)

		return
	}

	if r, _, err = l.source.ReadRune(); err != nil {
		return
	}
	l.pos += utf8.RuneLen(r)

	return
}

// backup pushes the last consumed rune back for the next state function.
func (l *Lexer) backup(r rune) {
	l.pending, l.hasPending = r, true
	l.pos -= utf8.RuneLen(r)
}

// emit sends an Item to the channel, logging it in debug mode; an expired
// context drops the Item so an abandoned consumer never wedges the Lexer.
func (l *Lexer) emit(ctx context.Context, item Item) {
	if l.cfg.Debug {
		l.cfg.Logger.Debugf("lexed item: %+v", item)
	}

	select {
	case l.c <- item:
	case <-ctx.Done():
	}
}

// isValueRune reports runes permitted inside a serialized value.
func isValueRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}
