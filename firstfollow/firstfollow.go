/*
Package firstfollow computes FIRST and FOLLOW sets for a context-free
grammar by fixed-point iteration.

Both sets grow monotonically over the grammar's finite symbol universe;
Compute sweeps every production once per pass and stops when a pass adds
nothing, following the same "iterate to a fixed point, re-sweep from
scratch" shape gorgo's lr/earley package uses for closure computation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package firstfollow

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/llgen/grammar"
	"github.com/halvorsen/llgen/internal/set"
)

// tracer traces with key 'llgen.firstfollow'.
func tracer() tracing.Trace {
	return tracing.Select("llgen.firstfollow")
}

// Sets holds the computed FIRST and FOLLOW sets for every symbol of a
// grammar. It is immutable once returned from Compute.
type Sets[T comparable] struct {
	first  map[T]*set.Set[T]
	follow map[T]*set.Set[T]
}

// First returns the FIRST set of symbol s, or an empty set if s is
// unknown to the grammar Compute was run over.
func (s *Sets[T]) First(sym T) *set.Set[T] {
	if f, ok := s.first[sym]; ok {
		return f
	}
	return set.New[T]()
}

// Follow returns the FOLLOW set of non-terminal a, or an empty set if a
// is unknown. FOLLOW never contains the grammar's epsilon symbol.
func (s *Sets[T]) Follow(a T) *set.Set[T] {
	if f, ok := s.follow[a]; ok {
		return f
	}
	return set.New[T]()
}

// Compute runs the FIRST/FOLLOW fixed-point algorithm over g and returns
// the resulting Sets.
//
// The working first/follow maps are mutated in place across passes, rather
// than rebuilding a fresh old/new snapshot each round: both sets grow
// monotonically towards the same fixed point either way (a pass only ever
// adds elements, never removes them), so reading a set that's already been
// partly updated in the current pass — e.g. FIRST(A) while resolving A's own
// self-recursive production — is safe, and in-place iteration avoids
// reallocating both maps on every pass.
func Compute[T comparable](g *grammar.Grammar[T]) *Sets[T] {
	eps := g.Epsilon()

	first := make(map[T]*set.Set[T])
	for _, term := range g.Terminals() {
		first[term] = set.New(term)
	}
	if _, ok := first[eps]; !ok {
		first[eps] = set.New(eps)
	}
	for _, nt := range g.NonTerminals() {
		first[nt] = set.New[T]()
	}

	follow := make(map[T]*set.Set[T])
	for _, nt := range g.NonTerminals() {
		follow[nt] = set.New[T]()
	}

	passes := 0
	for {
		passes++
		changed := false

		g.EachProduction(func(p grammar.Production[T]) {
			if firstPass(eps, p, first) {
				changed = true
			}
		})
		g.EachProduction(func(p grammar.Production[T]) {
			if followPass(eps, g, p, first, follow) {
				changed = true
			}
		})

		tracer().Debugf("firstfollow pass %d: changed=%v", passes, changed)
		if !changed {
			break
		}
	}
	tracer().Infof("firstfollow converged after %d passes", passes)

	return &Sets[T]{first: first, follow: follow}
}

// firstPass applies the FIRST update rule (spec §4.2) for one production,
// mutating first in place. Returns true if any set grew.
func firstPass[T comparable](eps T, p grammar.Production[T], first map[T]*set.Set[T]) bool {
	a := p.Input
	fa := first[a]
	changed := false

	walkedAll := true
	for _, x := range p.Output {
		if x == eps {
			// only possible when len(Output) == 1, per Grammar's construction invariant
			if fa.Add(eps) {
				changed = true
			}
			walkedAll = false
			break
		}
		if x == a {
			// self-recursion
			if first[a].Contains(eps) {
				continue
			}
			walkedAll = false
			break
		}
		fx, known := first[x]
		if !known {
			// x has no FIRST entry; Compute creates one for every terminal
			// and non-terminal before the first pass, so this branch only
			// guards against a symbol outside the grammar, which contributes
			// nothing.
			walkedAll = false
			break
		}
		fx.Each(func(t T) {
			if t != eps {
				if fa.Add(t) {
					changed = true
				}
			}
		})
		if fx.Contains(eps) {
			continue
		}
		walkedAll = false
		break
	}
	if walkedAll {
		if fa.Add(eps) {
			changed = true
		}
	}
	return changed
}

// followPass applies the FOLLOW update rule (spec §4.2) for one
// production, mutating follow in place. Returns true if any set grew.
func followPass[T comparable](eps T, g *grammar.Grammar[T], p grammar.Production[T], first, follow map[T]*set.Set[T]) bool {
	a := p.Input
	n := len(p.Output)
	changed := false

	firstOf := func(x T) *set.Set[T] {
		if fx, ok := first[x]; ok {
			return fx
		}
		return set.New[T]()
	}

	// Tail-epsilon chain: walk j from n down to 1, propagating FOLLOW(A)
	// into FOLLOW(Xj) for as long as every symbol to Xj's right (X_{j+1}
	// through Xn, trivially true at j == n) is nullable. The first
	// non-nullable symbol encountered stops the chain: anything left of it
	// has its own FIRST contributing to what follows, handled separately by
	// the interior-contribution loop below.
	nullableTail := true
	for j := n; j >= 1 && nullableTail; j-- {
		xj := p.Output[j-1]
		if g.IsNonTerminal(xj) && xj != a {
			if follow[xj].Union(follow[a]) {
				changed = true
			}
		}
		nullableTail = firstOf(xj).Contains(eps)
	}

	// Interior contribution: for each non-terminal position i, add the
	// union of FIRST(X_{i+1})..FIRST(X_k) (minus eps) to FOLLOW(Xi), where
	// k is the first later index whose FIRST doesn't contain eps.
	for i := 1; i <= n-1; i++ {
		xi := p.Output[i-1]
		if !g.IsNonTerminal(xi) {
			continue
		}
		k := n
		for m := i + 1; m <= n; m++ {
			if !firstOf(p.Output[m-1]).Contains(eps) {
				k = m
				break
			}
		}
		for m := i + 1; m <= k; m++ {
			xm := p.Output[m-1]
			if xm == xi {
				continue // self-adjacency
			}
			firstOf(xm).Each(func(t T) {
				if t != eps {
					if follow[xi].Add(t) {
						changed = true
					}
				}
			})
		}
	}

	return changed
}
