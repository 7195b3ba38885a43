// SPDX-License-Identifier: MIT
package lexer

import (
	"context"
	"reflect"
	"testing"
)

func collect(t *testing.T, input string) (items []Item) {
	t.Helper()

	l := New(DefaultConfig(), input)
	go l.Lex(context.Background())

	for item := range l.C() {
		items = append(items, item)
	}

	return
}

func ids(items []Item) (out []ItemID) {
	for _, item := range items {
		out = append(out, item.ID)
	}

	return
}

func TestLexer_Lex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantIDs []ItemID
	}{
		{
			name:    "value splitter value ends",
			input:   "2,3))",
			wantIDs: []ItemID{ItemValue, ItemSplitter, ItemValue, ItemEndMarker, ItemEndMarker, ItemEOF},
		},
		{
			name:    "whitespace is insignificant",
			input:   " a ,\tb )\n)",
			wantIDs: []ItemID{ItemValue, ItemSplitter, ItemValue, ItemEndMarker, ItemEndMarker, ItemEOF},
		},
		{
			name:    "empty input",
			input:   "",
			wantIDs: []ItemID{ItemEOF},
		},
		{
			name:    "unknown token",
			input:   "a|",
			wantIDs: []ItemID{ItemValue, ItemError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(collect(t, tt.input))
			if !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("Lexer.Lex() = %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestLexer_Values(t *testing.T) {
	items := collect(t, "alpha-1,beta_2))")

	var values []string
	for _, item := range items {
		if item.ID == ItemValue {
			values = append(values, item.Val)
		}
	}

	if want := []string{"alpha-1", "beta_2"}; !reflect.DeepEqual(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
}

func TestLexer_Counters(t *testing.T) {
	l := New(DefaultConfig(), "a,b))c)")
	go l.Lex(context.Background())

	for range l.C() {
	}

	if l.ValueCounter() != 3 {
		t.Errorf("ValueCounter() = %d, want 3", l.ValueCounter())
	}
	if l.EndCounter() != 3 {
		t.Errorf("EndCounter() = %d, want 3", l.EndCounter())
	}
}

func TestLexer_Positions(t *testing.T) {
	items := collect(t, "ab,c)")

	wantPos := map[ItemID]int{ItemValue: 0, ItemSplitter: 2}
	if items[0].Pos != wantPos[ItemValue] {
		t.Errorf("first value Pos = %d, want %d", items[0].Pos, wantPos[ItemValue])
	}
	if items[1].Pos != wantPos[ItemSplitter] {
		t.Errorf("splitter Pos = %d, want %d", items[1].Pos, wantPos[ItemSplitter])
	}
	if items[2].Pos != 3 {
		t.Errorf("second value Pos = %d, want 3", items[2].Pos)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{}
	cfg.Validate()

	if cfg.EndMarker != DefaultEndMarker || cfg.Splitter != DefaultSplitter {
		t.Errorf("Validate() markers = %q %q", cfg.Splitter, cfg.EndMarker)
	}
	if cfg.Logger == nil {
		t.Error("Validate() left a nil logger")
	}
}
