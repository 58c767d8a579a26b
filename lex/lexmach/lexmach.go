/*
Package lexmach adapts github.com/timtadh/lexmachine as a token source
for package parse, producing llgen.Token values instead of raw
lexmachine matches.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/halvorsen/llgen"
)

// tracer traces with key 'llgen.lexmach'.
func tracer() tracing.Trace {
	return tracing.Select("llgen.lexmach")
}

// Adapter wraps a compiled lexmachine.Lexer, translating matches into
// llgen.Token[string, TSyntax] values keyed by a caller-supplied symbol
// type.
//
// Patterns are registered through Literal/Pattern/Skip inside the init
// callback passed to NewAdapter; each registration is assigned its own
// internal lexmachine token id, recovered again in Scanner.Tokens.
type Adapter[TSyntax comparable] struct {
	lexer  *lexmachine.Lexer
	eof    TSyntax
	byID   map[int]TSyntax
	nextID int
}

// NewAdapter builds an Adapter. init is called once to register patterns
// via the Adapter's Literal/Pattern/Skip methods, after which the DFA is
// compiled. eof is the symbol reported once the input is exhausted.
func NewAdapter[TSyntax comparable](init func(*Adapter[TSyntax]), eof TSyntax) (*Adapter[TSyntax], error) {
	a := &Adapter[TSyntax]{lexer: lexmachine.NewLexer(), eof: eof, byID: make(map[int]TSyntax)}
	if init != nil {
		init(a)
	}
	if err := a.lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return a, nil
}

// Literal registers lit as a fixed-text pattern (e.g. "+", "(") mapped to
// sym.
func (a *Adapter[TSyntax]) Literal(lit string, sym TSyntax) {
	pattern := "\\" + strings.Join(strings.Split(lit, ""), "\\")
	a.lexer.Add([]byte(pattern), a.action(sym))
}

// Pattern registers an arbitrary lexmachine regular expression mapped to
// sym; the matched text becomes the resulting token's lexeme.
func (a *Adapter[TSyntax]) Pattern(pattern string, sym TSyntax) {
	a.lexer.Add([]byte(pattern), a.action(sym))
}

// Skip registers a pattern whose matches are discarded (whitespace,
// comments).
func (a *Adapter[TSyntax]) Skip(pattern string) {
	a.lexer.Add([]byte(pattern), skipAction)
}

func skipAction(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func (a *Adapter[TSyntax]) action(sym TSyntax) lexmachine.Action {
	id := a.nextID
	a.nextID++
	a.byID[id] = sym
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}

// Scanner creates a Scanner over input.
func (a *Adapter[TSyntax]) Scanner(input string) (*Scanner[TSyntax], error) {
	s, err := a.lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	return &Scanner[TSyntax]{adapter: a, scanner: s}, nil
}

// Scanner produces a flat []llgen.Token slice from one lexmachine scan,
// the shape package parse.Parser.Parse expects.
type Scanner[TSyntax comparable] struct {
	adapter *Adapter[TSyntax]
	scanner *lexmachine.Scanner
}

// Tokens runs the scanner to completion and returns every token,
// including a trailing end-of-input token of the adapter's configured
// eof symbol.
func (s *Scanner[TSyntax]) Tokens() ([]llgen.Token[string, TSyntax], error) {
	var out []llgen.Token[string, TSyntax]
	for {
		raw, err, eof := s.scanner.Next()
		if err != nil {
			if ui, is := err.(*machines.UnconsumedInput); is {
				s.scanner.TC = ui.FailTC
				tracer().Errorf("unconsumed input, skipping to %d", ui.FailTC)
				continue
			}
			return nil, err
		}
		if eof {
			out = append(out, llgen.NewBareToken[string](s.adapter.eof))
			return out, nil
		}
		tok := raw.(*lexmachine.Token)
		sym, ok := s.adapter.byID[tok.Type]
		if !ok {
			tracer().Errorf("unmapped lexmachine token id %d", tok.Type)
			continue
		}
		out = append(out, llgen.NewToken(string(tok.Lexeme), sym))
	}
}
