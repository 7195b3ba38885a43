// SPDX-License-Identifier: MIT
package lexer

import (
	"github.com/sirupsen/logrus"
)

type (
	// Config defines configuration options for the Lexer's operations &
	// for serialization output.
	Config struct {
		Logger    logrus.FieldLogger
		EndMarker rune
		Splitter  rune
		Debug     bool
	}
)

const (
	// DefaultEndMarker is the rune closing a node's children.
	DefaultEndMarker = ')'

	// DefaultSplitter is the rune separating serialized values.
	DefaultSplitter = ','

	emptyRune rune = 0
)

// DefaultConfig obtains the package's default Config.
func DefaultConfig() *Config {
	return &Config{
		EndMarker: DefaultEndMarker,
		Splitter:  DefaultSplitter,
		Logger:    logrus.New(),
	}
}

// Validate populates missing Config entries with defaults.
func (c *Config) Validate() {
	if c.EndMarker == emptyRune {
		c.EndMarker = DefaultEndMarker
	}
	if c.Splitter == emptyRune {
		c.Splitter = DefaultSplitter
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
}
