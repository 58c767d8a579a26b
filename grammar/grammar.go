/*
Package grammar implements construction and validation of context-free
grammars over a caller-supplied comparable symbol type.

A Grammar is built once from a flat list of productions and is immutable
from then on: FIRST/FOLLOW computation (package firstfollow), transition
table construction (package transitions), and the recursive-descent parser
(package parse) all treat it as read-only.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/maps"
)

// tracer traces with key 'llgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("llgen.grammar")
}

// Production is one grammar rule: Input → Output[0] Output[1] … Output[n-1].
//
// Invariant: Output is non-empty; if it contains the grammar's epsilon
// symbol, it has length exactly 1.
type Production[T comparable] struct {
	Input  T
	Output []T
}

// NewProduction creates a production. It performs no validation; validation
// happens once, for the whole set of productions, in Grammar construction.
func NewProduction[T comparable](input T, output ...T) Production[T] {
	return Production[T]{Input: input, Output: output}
}

func (p Production[T]) String() string {
	return fmt.Sprintf("%v -> %v", p.Input, p.Output)
}

// InvalidGrammarError reports why Grammar construction rejected a set of
// productions. It is the value panic()ed by New, per the core's "fatal
// invariant violation" error-handling policy: the caller supplied an
// ill-formed grammar, which is a programming error, not a runtime
// condition to recover from during parsing.
type InvalidGrammarError[T comparable] struct {
	Reason     string
	Production Production[T]
}

func (e *InvalidGrammarError[T]) Error() string {
	return fmt.Sprintf("invalid grammar: %s (production: %v)", e.Reason, e.Production)
}

// Grammar is an immutable, validated context-free grammar.
type Grammar[T comparable] struct {
	epsilon      T
	start        T
	nonTerminals map[T]struct{}
	terminals    map[T]struct{}
	productions  map[T]*arraylist.List // T -> *arraylist.List of Production[T], insertion order preserved
	order        []T                   // non-terminals in first-declared order, for deterministic Dump
}

// New builds a Grammar from a set of productions.
//
// It panics with an *InvalidGrammarError if:
//   - some production's Input equals epsilon,
//   - some production's Output is empty,
//   - some production's Output contains epsilon alongside other symbols.
//
// These are invariant violations in the caller-supplied grammar, not
// ordinary parse-time failures; see the package doc and spec §4.1/§7.
func New[T comparable](epsilon, start T, productions []Production[T]) *Grammar[T] {
	grouped := make(map[T]*arraylist.List)
	var order []T
	for _, p := range productions {
		if p.Input == epsilon {
			panic(&InvalidGrammarError[T]{Reason: "production input must not be the epsilon symbol", Production: p})
		}
		if len(p.Output) == 0 {
			panic(&InvalidGrammarError[T]{Reason: "production output must not be empty", Production: p})
		}
		if len(p.Output) > 1 {
			for _, s := range p.Output {
				if s == epsilon {
					panic(&InvalidGrammarError[T]{Reason: "epsilon production must not carry additional symbols", Production: p})
				}
			}
		}
		list, ok := grouped[p.Input]
		if !ok {
			list = arraylist.New()
			grouped[p.Input] = list
			order = append(order, p.Input)
		}
		list.Add(p)
	}

	nonTerminals := make(map[T]struct{}, len(grouped))
	for nt := range grouped {
		nonTerminals[nt] = struct{}{}
	}

	terminals := make(map[T]struct{})
	for _, list := range grouped {
		it := list.Iterator()
		for it.Next() {
			p := it.Value().(Production[T])
			for _, s := range p.Output {
				if _, isNT := nonTerminals[s]; !isNT {
					terminals[s] = struct{}{}
				}
			}
		}
	}

	g := &Grammar[T]{
		epsilon:      epsilon,
		start:        start,
		nonTerminals: nonTerminals,
		terminals:    terminals,
		productions:  grouped,
		order:        order,
	}
	tracer().Debugf("built grammar: %d non-terminals, %d terminals", len(nonTerminals), len(terminals))
	return g
}

// Epsilon returns the grammar's designated empty-production marker.
func (g *Grammar[T]) Epsilon() T { return g.epsilon }

// Start returns the grammar's start symbol.
func (g *Grammar[T]) Start() T { return g.start }

// IsNonTerminal reports whether s is a non-terminal of g.
func (g *Grammar[T]) IsNonTerminal(s T) bool {
	_, ok := g.nonTerminals[s]
	return ok
}

// IsTerminal reports whether s is a terminal of g (this includes epsilon
// whenever some production derives it).
func (g *Grammar[T]) IsTerminal(s T) bool {
	_, ok := g.terminals[s]
	return ok
}

// Productions returns the productions for non-terminal A, in declaration
// order, or nil if A is not a non-terminal of g.
func (g *Grammar[T]) Productions(a T) []Production[T] {
	list, ok := g.productions[a]
	if !ok {
		return nil
	}
	values := list.Values()
	out := make([]Production[T], len(values))
	for i, v := range values {
		out[i] = v.(Production[T])
	}
	return out
}

// NonTerminals returns the grammar's non-terminals in declaration order.
func (g *Grammar[T]) NonTerminals() []T {
	out := make([]T, len(g.order))
	copy(out, g.order)
	return out
}

// Terminals returns the grammar's terminals. Order is unspecified; use
// package internal/set-backed callers (firstfollow, transitions) when a
// deterministic order is required.
func (g *Grammar[T]) Terminals() []T {
	return maps.Keys(g.terminals)
}

// EachProduction calls f for every production of the grammar, non-terminal
// by non-terminal in declaration order, and within a non-terminal in
// declaration order.
func (g *Grammar[T]) EachProduction(f func(Production[T])) {
	for _, nt := range g.order {
		for _, p := range g.Productions(nt) {
			f(p)
		}
	}
}

// Dump writes a human-readable listing of the grammar's productions to the
// trace log at debug level.
func (g *Grammar[T]) Dump() {
	n := 0
	g.EachProduction(func(p Production[T]) {
		tracer().Debugf("%d: %v", n, p)
		n++
	})
}
