/*
Package transitions derives a predictive (non-terminal, lookahead) →
productions table from a grammar and its precomputed FIRST/FOLLOW sets.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package transitions

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/llgen/firstfollow"
	"github.com/halvorsen/llgen/grammar"
)

// tracer traces with key 'llgen.transitions'.
func tracer() tracing.Trace {
	return tracing.Select("llgen.transitions")
}

// Table is the predictive parsing table: for a non-terminal A and
// lookahead terminal t, Table.Lookup(A, t) returns the ordered sequence of
// candidate productions, preserving declaration order so the parser tries
// them in a deterministic sequence and backtracks predictably.
type Table[T comparable] struct {
	m map[T]map[T][]grammar.Production[T]
}

// Lookup returns the candidate productions for (a, lookahead), or nil if
// there is no entry — this is not an error, just "no production applies".
func (tb *Table[T]) Lookup(a, lookahead T) []grammar.Production[T] {
	row, ok := tb.m[a]
	if !ok {
		return nil
	}
	return row[lookahead]
}

// Build constructs the predictive table for g using its FIRST/FOLLOW sets.
//
// For each production A → B α (B = the first output symbol), the
// lookahead set driving the entry is:
//   - FIRST(B) \ {ε}, always;
//   - plus FOLLOW(A) if B == ε (the production is the epsilon alternative);
//   - plus FOLLOW(B) if B is a non-terminal whose FIRST contains ε.
//
// This mirrors spec §4.3's lookahead-set computation, itself grounded on
// the "alternative algorithm" worked out in the reference implementation
// to avoid computing FIRST of entire right-hand sides.
func Build[T comparable](g *grammar.Grammar[T], sets *firstfollow.Sets[T]) *Table[T] {
	eps := g.Epsilon()
	m := make(map[T]map[T][]grammar.Production[T])

	nonTerminals := g.NonTerminals()
	terminals := g.Terminals()

	for _, a := range nonTerminals {
		row := make(map[T][]grammar.Production[T])
		for _, t := range terminals {
			row[t] = nil
		}
		m[a] = row
	}

	entries := 0
	for _, a := range nonTerminals {
		row := m[a]
		for _, p := range g.Productions(a) {
			lookaheads := lookaheadSet(eps, a, p, sets)
			for _, t := range lookaheads {
				row[t] = append(row[t], p)
				entries++
			}
		}
	}
	tracer().Infof("built transition table: %d non-terminals, %d entries", len(nonTerminals), entries)

	return &Table[T]{m: m}
}

func lookaheadSet[T comparable](eps, a T, p grammar.Production[T], sets *firstfollow.Sets[T]) []T {
	b := p.Output[0]
	firstB := sets.First(b)

	out := make(map[T]struct{})
	firstB.Each(func(t T) {
		if t != eps {
			out[t] = struct{}{}
		}
	})

	if firstB.Contains(eps) {
		target := a
		if b != eps {
			target = b
		}
		sets.Follow(target).Each(func(t T) {
			out[t] = struct{}{}
		})
	}

	result := make([]T, 0, len(out))
	for t := range out {
		result = append(result, t)
	}
	return result
}
