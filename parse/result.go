package parse

import (
	"fmt"

	"github.com/halvorsen/llgen"
)

// ResultKind discriminates the three shapes a Parse call can return: a
// clean tree, an unrecovered failure, or a hybrid tree produced by the
// error-recovery solver.
type ResultKind int

const (
	// ResultOk means the input derives the start symbol without error.
	ResultOk ResultKind = iota
	// ResultErr means no production sequence derives the input and no
	// solver was able to repair the failure.
	ResultErr
	// ResultFix means a solver repaired an otherwise-failing derivation;
	// the resulting tree contains one or more Fixed regions.
	ResultFix
)

func (k ResultKind) String() string {
	switch k {
	case ResultOk:
		return "Ok"
	case ResultErr:
		return "Err"
	case ResultFix:
		return "Fix"
	default:
		return "?"
	}
}

// Result is the tagged-union outcome of Parser.Parse: exactly one of Tree,
// Failed, or Fixed is populated, selected by Kind.
type Result[TLex any, TSyntax comparable] struct {
	kind   ResultKind
	tree   *Tree[TLex, TSyntax]
	failed *FailedSymbol[TLex, TSyntax]
	fixed  *FixedSymbol[TLex, TSyntax]
}

// Kind reports which variant this result holds.
func (r Result[TLex, TSyntax]) Kind() ResultKind { return r.kind }

// Tree returns the parse tree and true if Kind is ResultOk.
func (r Result[TLex, TSyntax]) Tree() (*Tree[TLex, TSyntax], bool) {
	return r.tree, r.kind == ResultOk
}

// Failed returns the failure detail and true if Kind is ResultErr.
func (r Result[TLex, TSyntax]) Failed() (*FailedSymbol[TLex, TSyntax], bool) {
	return r.failed, r.kind == ResultErr
}

// Fixed returns the repaired symbol and true if Kind is ResultFix.
func (r Result[TLex, TSyntax]) Fixed() (*FixedSymbol[TLex, TSyntax], bool) {
	return r.fixed, r.kind == ResultFix
}

func okResult[TLex any, TSyntax comparable](t *Tree[TLex, TSyntax]) Result[TLex, TSyntax] {
	return Result[TLex, TSyntax]{kind: ResultOk, tree: t}
}

func errResult[TLex any, TSyntax comparable](f *FailedSymbol[TLex, TSyntax]) Result[TLex, TSyntax] {
	return Result[TLex, TSyntax]{kind: ResultErr, failed: f}
}

func fixResult[TLex any, TSyntax comparable](f *FixedSymbol[TLex, TSyntax]) Result[TLex, TSyntax] {
	return Result[TLex, TSyntax]{kind: ResultFix, fixed: f}
}

// FailedSymbol reports why a non-terminal could not be derived: the
// candidate productions that were attempted (empty if the transition
// table had no entry at all for the lookahead in play) and the symbol
// itself.
type FailedSymbol[TLex any, TSyntax comparable] struct {
	FailedProductions []FailedProduction[TLex, TSyntax]
	SymbolToDerive    TSyntax
}

// FailedProduction reports how far one candidate production got before
// failing: the symbols successfully parsed (in order), the symbol whose
// attempt failed, and the symbols of the production never attempted.
type FailedProduction[TLex any, TSyntax comparable] struct {
	Failed         FailedSymbol[TLex, TSyntax]
	ParsedSymbols  []ProductionParsedSymbol[TLex, TSyntax]
	PendingSymbols []TSyntax
}

// ProductionParsedSymbolKind discriminates a cleanly parsed symbol from
// one repaired by the error-recovery solver.
type ProductionParsedSymbolKind int

const (
	ParsedOk ProductionParsedSymbolKind = iota
	ParsedFix
)

// ProductionParsedSymbol is one successfully accounted-for symbol inside
// a FailedProduction's already-parsed prefix.
type ProductionParsedSymbol[TLex any, TSyntax comparable] struct {
	kind  ProductionParsedSymbolKind
	node  *Node[TLex, TSyntax]
	fixed *FixedSymbol[TLex, TSyntax]
}

func parsedOk[TLex any, TSyntax comparable](n *Node[TLex, TSyntax]) ProductionParsedSymbol[TLex, TSyntax] {
	return ProductionParsedSymbol[TLex, TSyntax]{kind: ParsedOk, node: n}
}

func parsedFix[TLex any, TSyntax comparable](f *FixedSymbol[TLex, TSyntax]) ProductionParsedSymbol[TLex, TSyntax] {
	return ProductionParsedSymbol[TLex, TSyntax]{kind: ParsedFix, fixed: f}
}

// Kind reports which variant this parsed symbol holds.
func (p ProductionParsedSymbol[TLex, TSyntax]) Kind() ProductionParsedSymbolKind { return p.kind }

// Node returns the parsed node and true if Kind is ParsedOk.
func (p ProductionParsedSymbol[TLex, TSyntax]) Node() (*Node[TLex, TSyntax], bool) {
	return p.node, p.kind == ParsedOk
}

// Fixed returns the repaired symbol and true if Kind is ParsedFix.
func (p ProductionParsedSymbol[TLex, TSyntax]) Fixed() (*FixedSymbol[TLex, TSyntax], bool) {
	return p.fixed, p.kind == ParsedFix
}

// toNode renders a parsed symbol back into a plain tree node, descending
// into the fixed production's own parts when this entry was repaired.
func (p ProductionParsedSymbol[TLex, TSyntax]) toNode() *Node[TLex, TSyntax] {
	if p.kind == ParsedOk {
		return p.node
	}
	return p.fixed.toNode()
}

// FixedSymbol is a non-terminal whose failing derivation was repaired by
// a SyntaxErrorSolver.
type FixedSymbol[TLex any, TSyntax comparable] struct {
	Production     FixedProduction[TLex, TSyntax]
	SymbolToDerive TSyntax
}

func (f *FixedSymbol[TLex, TSyntax]) toNode() *Node[TLex, TSyntax] {
	children := make([]*Node[TLex, TSyntax], len(f.Production.Parts))
	for i, part := range f.Production.Parts {
		children[i] = part.toNode()
	}
	return newInternal(llgen.NewBareToken[TLex](f.SymbolToDerive), children)
}

// FixedProduction is the repaired right-hand side built by a solver: a
// sequence of parts, each either a clean node, a nested fix, or a gap of
// skipped input.
type FixedProduction[TLex any, TSyntax comparable] struct {
	Parts []FixedProductionPart[TLex, TSyntax]
}

// FixedProductionPartKind discriminates the three shapes a repaired
// production part can take.
type FixedProductionPartKind int

const (
	PartOk FixedProductionPartKind = iota
	PartFixed
	PartGap
)

// FixedProductionPart is one element of a FixedProduction.
type FixedProductionPart[TLex any, TSyntax comparable] struct {
	kind  FixedProductionPartKind
	node  *Node[TLex, TSyntax]
	fixed *FixedSymbol[TLex, TSyntax]
	gap   *Gap[TLex, TSyntax]
}

// PartOkOf wraps a cleanly parsed node as a fixed-production part.
func PartOkOf[TLex any, TSyntax comparable](n *Node[TLex, TSyntax]) FixedProductionPart[TLex, TSyntax] {
	return FixedProductionPart[TLex, TSyntax]{kind: PartOk, node: n}
}

// PartFixedOf wraps a nested repair as a fixed-production part.
func PartFixedOf[TLex any, TSyntax comparable](f *FixedSymbol[TLex, TSyntax]) FixedProductionPart[TLex, TSyntax] {
	return FixedProductionPart[TLex, TSyntax]{kind: PartFixed, fixed: f}
}

// PartGapOf wraps a skipped run of input tokens as a fixed-production part.
func PartGapOf[TLex any, TSyntax comparable](g *Gap[TLex, TSyntax]) FixedProductionPart[TLex, TSyntax] {
	return FixedProductionPart[TLex, TSyntax]{kind: PartGap, gap: g}
}

// Kind reports which variant this part holds.
func (p FixedProductionPart[TLex, TSyntax]) Kind() FixedProductionPartKind { return p.kind }

func (p FixedProductionPart[TLex, TSyntax]) toNode() *Node[TLex, TSyntax] {
	switch p.kind {
	case PartOk:
		return p.node
	case PartFixed:
		return p.fixed.toNode()
	case PartGap:
		return p.gap.toNode()
	default:
		panic(fmt.Sprintf("parse: unhandled FixedProductionPartKind %d", p.kind))
	}
}

// Gap records a run of input tokens the solver chose to skip during
// recovery, along with the span it covered.
type Gap[TLex any, TSyntax comparable] struct {
	Span    llgen.Span
	Skipped []llgen.Token[TLex, TSyntax]
	marker  TSyntax // synthetic node label for the gap in a rendered tree
}

// NewGap creates a Gap covering span, labelling its synthetic tree node
// with marker (typically the caller's designated "error" symbol).
func NewGap[TLex any, TSyntax comparable](span llgen.Span, skipped []llgen.Token[TLex, TSyntax], marker TSyntax) *Gap[TLex, TSyntax] {
	return &Gap[TLex, TSyntax]{Span: span, Skipped: skipped, marker: marker}
}

func (g *Gap[TLex, TSyntax]) toNode() *Node[TLex, TSyntax] {
	children := make([]*Node[TLex, TSyntax], len(g.Skipped))
	for i, tok := range g.Skipped {
		children[i] = newLeaf(tok)
	}
	return newInternal(llgen.NewBareToken[TLex](g.marker), children)
}

// Repair is what a SyntaxErrorSolver returns on a successful fix: the
// token position just past the repaired region, and the repaired
// production itself.
type Repair[TLex any, TSyntax comparable] struct {
	FinalTokenPosition int
	Production         FixedProduction[TLex, TSyntax]
}
