/*
Package parse implements the backtracking recursive-descent parser driven
by a predictive transition table, its parse-result abstract data types,
and the syntax-error-recovery extension point.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parse

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"

	"github.com/halvorsen/llgen/grammar"
	"github.com/halvorsen/llgen"
	"github.com/halvorsen/llgen/transitions"
)

// tracer traces with key 'llgen.parse'.
func tracer() tracing.Trace {
	return tracing.Select("llgen.parse")
}

// Parser drives a backtracking recursive-descent parse of a token stream
// against a grammar and its predictive transition table.
type Parser[TLex any, TSyntax comparable] struct {
	grammar *grammar.Grammar[TSyntax]
	table   *transitions.Table[TSyntax]
	solver  SyntaxErrorSolver[TLex, TSyntax]
}

// New creates a Parser from a grammar and its precomputed transition
// table. The two must come from the same grammar instance.
func New[TLex any, TSyntax comparable](g *grammar.Grammar[TSyntax], table *transitions.Table[TSyntax]) *Parser[TLex, TSyntax] {
	return &Parser[TLex, TSyntax]{grammar: g, table: table}
}

// WithSolver attaches a syntax-error solver, returning the parser for
// chaining. A nil solver (the zero value) disables error recovery: failed
// parses are reported as ResultErr.
func (p *Parser[TLex, TSyntax]) WithSolver(solver SyntaxErrorSolver[TLex, TSyntax]) *Parser[TLex, TSyntax] {
	p.solver = solver
	return p
}

// parseState is the resumable state of one successfully parsed symbol: its
// node, the token span it consumed, and the not-yet-tried production
// alternatives for the non-terminal it derived (nil for terminals and
// epsilon, which have no alternatives to resume).
//
// fixed is non-nil when this exact symbol's own derivation failed and was
// repaired by the attached solver (as opposed to merely containing a
// repair somewhere in a descendant); parts mirrors node's children as
// FixedProductionPart values, letting an ancestor that itself needs to
// report a ResultFix describe this state's production without re-deriving
// it.
type parseState[TLex any, TSyntax comparable] struct {
	symbol     TSyntax
	initialPos int
	finalPos   int
	remaining  [][]TSyntax
	node       *Node[TLex, TSyntax]
	fixed      *FixedSymbol[TLex, TSyntax]
	parts      []FixedProductionPart[TLex, TSyntax]
}

// activeCall is the structhash key identifying a (symbol, token position)
// pair currently being derived on the Go call stack. Re-entering the same
// pair without having consumed a token in between means the grammar can
// never make progress here -- left recursion that table construction did
// not already rule out -- and parsing is stuck.
type activeCall[TSyntax comparable] struct {
	Symbol   TSyntax
	Position int
}

// Parse derives the grammar's start symbol from tokens and returns the
// resulting tree, failure detail, or solver-repaired hybrid tree.
//
// Parse panics if tokens is empty: an empty token stream is a caller
// invariant violation (spec's "fatal invariant failure" framing), not an
// ordinary parse failure -- there is always at least an end-marker token
// in a well-formed lexer output.
func (p *Parser[TLex, TSyntax]) Parse(tokens []llgen.Token[TLex, TSyntax]) Result[TLex, TSyntax] {
	if len(tokens) == 0 {
		panic("parse: expecting at least one token")
	}

	start := p.grammar.Start()
	active := make(map[string]bool)
	var repaired bool

	// The start symbol is trivially on the single path: there is no
	// ancestor production to fall back to if it fails.
	state, failed, ok := p.parseNonTerminal(start, tokens, 0, active, true, &repaired)
	if !ok {
		tracer().Debugf("parse of start symbol %v failed: %d candidate productions tried", start, len(failed.FailedProductions))
		return errResult[TLex, TSyntax](failed)
	}

	if !repaired {
		tracer().Infof("parse succeeded: %v", state.node)
		return okResult[TLex, TSyntax](&Tree[TLex, TSyntax]{Root: state.node})
	}

	tracer().Infof("parse succeeded with one or more solver repairs")
	if state.fixed != nil {
		// The start symbol's own derivation was the one repaired.
		return fixResult[TLex, TSyntax](state.fixed)
	}
	// The repair happened somewhere inside a descendant; state.parts
	// mirrors the start symbol's production with that descendant reported
	// as a PartFixedOf entry.
	return fixResult[TLex, TSyntax](&FixedSymbol[TLex, TSyntax]{
		SymbolToDerive: start,
		Production:     FixedProduction[TLex, TSyntax]{Parts: state.parts},
	})
}

// tryFix consults the attached solver, if any, following spec §4.4.7's
// single-path precondition: a symbol with exactly one failed candidate
// production is offered to FixFailedProduction, a symbol with several is
// offered to FixFailedProductions. A symbol with zero candidates (no
// transition-table entry at all) has nothing to fix. Callers are
// responsible for only invoking tryFix when the failing symbol sits on the
// single remaining derivation path (see parseNonTerminal).
func (p *Parser[TLex, TSyntax]) tryFix(tokens []llgen.Token[TLex, TSyntax], pos int, failed *FailedSymbol[TLex, TSyntax]) (*FixedSymbol[TLex, TSyntax], int, bool) {
	if p.solver == nil || len(failed.FailedProductions) == 0 {
		return nil, 0, false
	}

	var repair *Repair[TLex, TSyntax]
	var ok bool
	if len(failed.FailedProductions) == 1 {
		repair, ok = p.solver.FixFailedProduction(tokens, pos, &failed.FailedProductions[0])
	} else {
		repair, ok = p.solver.FixFailedProductions(tokens, pos, failed.FailedProductions)
	}
	if !ok {
		return nil, 0, false
	}
	tracer().Infof("syntax error solver repaired %v at position %d", failed.SymbolToDerive, pos)
	fixed := &FixedSymbol[TLex, TSyntax]{Production: repair.Production, SymbolToDerive: failed.SymbolToDerive}
	return fixed, repair.FinalTokenPosition, true
}

// parseSymbol dispatches to parseNonTerminal or the terminal-matching
// logic, depending on the grammar's classification of sym. singlePath and
// repaired are threaded straight through to parseNonTerminal; terminals
// neither branch nor repair, so they need neither.
func (p *Parser[TLex, TSyntax]) parseSymbol(sym TSyntax, tokens []llgen.Token[TLex, TSyntax], pos int, active map[string]bool, singlePath bool, repaired *bool) (*parseState[TLex, TSyntax], *FailedSymbol[TLex, TSyntax], bool) {
	if p.grammar.IsNonTerminal(sym) {
		return p.parseNonTerminal(sym, tokens, pos, active, singlePath, repaired)
	}
	return p.parseTerminal(sym, tokens, pos)
}

// parseTerminal matches a terminal symbol (or the epsilon marker) against
// the token at pos.
func (p *Parser[TLex, TSyntax]) parseTerminal(sym TSyntax, tokens []llgen.Token[TLex, TSyntax], pos int) (*parseState[TLex, TSyntax], *FailedSymbol[TLex, TSyntax], bool) {
	if sym == p.grammar.Epsilon() {
		node := newLeaf[TLex, TSyntax](llgen.NewBareToken[TLex](sym))
		return &parseState[TLex, TSyntax]{symbol: sym, initialPos: pos, finalPos: pos, node: node}, nil, true
	}

	if pos >= len(tokens) || tokens[pos].TType() != sym {
		return nil, &FailedSymbol[TLex, TSyntax]{SymbolToDerive: sym}, false
	}
	node := newLeaf(tokens[pos])
	return &parseState[TLex, TSyntax]{symbol: sym, initialPos: pos, finalPos: pos + 1, node: node}, nil, true
}

// parseNonTerminal looks up the candidate productions for sym under the
// current lookahead and attempts them in declaration order.
//
// singlePath reports whether sym's own derivation is the only remaining
// path to a successful parse -- i.e. every ancestor call that led here
// itself had exactly one candidate production, all the way up to the start
// symbol. Children of sym's production inherit singlePath narrowed by
// whether sym itself has exactly one candidate (spec §4.4.4/§9:
// single_path ∧ |candidates| == 1): as soon as any ancestor has more than
// one candidate to fall back to, a deep failure is just an ordinary
// backtrack, not a dead end, and must not trigger the solver. Only when
// singlePath holds for sym's own failure does parseNonTerminal offer it to
// the attached solver (spec §4.4.7).
func (p *Parser[TLex, TSyntax]) parseNonTerminal(sym TSyntax, tokens []llgen.Token[TLex, TSyntax], pos int, active map[string]bool, singlePath bool, repaired *bool) (*parseState[TLex, TSyntax], *FailedSymbol[TLex, TSyntax], bool) {
	key, err := structhash.Hash(activeCall[TSyntax]{Symbol: sym, Position: pos}, 1)
	if err != nil { // no reason for this to happen, but API demands it
		panic(err)
	}
	if active[key] {
		if stuck(fmt.Sprintf("re-entered %v at token position %d without consuming input", sym, pos)) {
			return nil, &FailedSymbol[TLex, TSyntax]{SymbolToDerive: sym}, false
		}
	}
	active[key] = true
	defer delete(active, key)

	var lookahead TSyntax
	hasLookahead := pos < len(tokens)
	if hasLookahead {
		lookahead = tokens[pos].TType()
	}

	var outputs [][]TSyntax
	if hasLookahead {
		for _, prod := range p.table.Lookup(sym, lookahead) {
			outputs = append(outputs, prod.Output)
		}
	}
	childSinglePath := singlePath && len(outputs) == 1

	state, failedSym, ok := p.parseFromTokens(sym, tokens, pos, outputs, active, childSinglePath, repaired)
	if ok {
		return state, nil, true
	}

	if singlePath {
		if fixed, finalPos, fixedOK := p.tryFix(tokens, pos, failedSym); fixedOK {
			*repaired = true
			fixedState := &parseState[TLex, TSyntax]{
				symbol:     sym,
				initialPos: pos,
				finalPos:   finalPos,
				node:       fixed.toNode(),
				fixed:      fixed,
			}
			return fixedState, nil, true
		}
	}
	return nil, failedSym, false
}

// parseFromTokens tries each candidate production output in order,
// returning the first that succeeds together with the untried remainder
// (so a caller can resume here on backtrack), or the aggregated failure
// detail if every candidate failed. singlePath is the value computed by
// the caller (parseNonTerminal) for sym's children and is passed through
// unchanged to every candidate attempted here and to any candidate
// resumed later via popStates.
func (p *Parser[TLex, TSyntax]) parseFromTokens(sym TSyntax, tokens []llgen.Token[TLex, TSyntax], pos int, outputs [][]TSyntax, active map[string]bool, singlePath bool, repaired *bool) (*parseState[TLex, TSyntax], *FailedSymbol[TLex, TSyntax], bool) {
	var failedProductions []FailedProduction[TLex, TSyntax]

	for i, output := range outputs {
		curPos := pos
		node, parts, failedProd, ok := p.parseProduction(sym, tokens, &curPos, output, active, singlePath, repaired)
		if ok {
			state := &parseState[TLex, TSyntax]{
				symbol:     sym,
				initialPos: pos,
				finalPos:   curPos,
				remaining:  outputs[i+1:],
				node:       node,
				parts:      parts,
			}
			return state, nil, true
		}
		failedProductions = append(failedProductions, *failedProd)
	}

	return nil, &FailedSymbol[TLex, TSyntax]{FailedProductions: failedProductions, SymbolToDerive: sym}, false
}

// parseProduction parses one production's right-hand side symbol by
// symbol, backtracking into earlier symbols' untried alternatives
// (popStates) whenever the current symbol cannot be matched. Besides the
// plain Node tree, it also returns the production rendered as
// FixedProductionPart values (PartFixedOf wherever a child symbol was
// itself solver-repaired, PartOkOf otherwise), so an ancestor can describe
// this production inside a ResultFix without re-walking its children.
func (p *Parser[TLex, TSyntax]) parseProduction(sym TSyntax, tokens []llgen.Token[TLex, TSyntax], posPtr *int, output []TSyntax, active map[string]bool, singlePath bool, repaired *bool) (*Node[TLex, TSyntax], []FixedProductionPart[TLex, TSyntax], *FailedProduction[TLex, TSyntax], bool) {
	var states []*parseState[TLex, TSyntax]

	for len(states) < len(output) {
		idx := len(states)
		psym := output[idx]
		state, failedSym, ok := p.parseSymbol(psym, tokens, *posPtr, active, singlePath, repaired)
		if ok {
			*posPtr = state.finalPos
			states = append(states, state)
			continue
		}

		if p.popStates(&states, tokens, active, singlePath, repaired) {
			*posPtr = states[len(states)-1].finalPos
			continue
		}

		parsed := make([]ProductionParsedSymbol[TLex, TSyntax], len(states))
		for i, s := range states {
			if s.fixed != nil {
				parsed[i] = parsedFix[TLex, TSyntax](s.fixed)
			} else {
				parsed[i] = parsedOk[TLex, TSyntax](s.node)
			}
		}
		pending := append([]TSyntax{}, output[idx+1:]...)
		return nil, nil, &FailedProduction[TLex, TSyntax]{
			Failed:         *failedSym,
			ParsedSymbols:  parsed,
			PendingSymbols: pending,
		}, false
	}

	children := make([]*Node[TLex, TSyntax], len(states))
	parts := make([]FixedProductionPart[TLex, TSyntax], len(states))
	for i, s := range states {
		children[i] = s.node
		if s.fixed != nil {
			parts[i] = PartFixedOf[TLex, TSyntax](s.fixed)
		} else {
			parts[i] = PartOkOf[TLex, TSyntax](s.node)
		}
	}
	return newInternal(llgen.NewBareToken[TLex](sym), children), parts, nil, true
}

// popStates pops parsed states off the tail of states, looking for the
// nearest one with an untried production alternative, and resumes parsing
// there. Returns true if some earlier alternative let parsing continue;
// otherwise states is restored to what it held on entry, so the caller can
// report it as the parsed prefix of its failed production.
func (p *Parser[TLex, TSyntax]) popStates(states *[]*parseState[TLex, TSyntax], tokens []llgen.Token[TLex, TSyntax], active map[string]bool, singlePath bool, repaired *bool) bool {
	parsed := *states
	for len(*states) > 0 {
		last := (*states)[len(*states)-1]
		*states = (*states)[:len(*states)-1]

		if last.remaining == nil {
			continue
		}
		state, _, ok := p.parseFromTokens(last.symbol, tokens, last.initialPos, last.remaining, active, singlePath, repaired)
		if ok {
			*states = append(*states, state)
			return true
		}
	}
	*states = parsed
	return false
}

// stuck reports msg at error level and, if the panic-on-parser-stuck
// configuration flag is set, panics with it; otherwise it returns true so
// the caller can fail this derivation gracefully.
func stuck(msg string) bool {
	tracer().Errorf(msg)
	if gconf.GetBool("panic-on-parser-stuck") {
		panic("llgen/parse: parser is stuck: " + msg)
	}
	return true
}
