package parse

import (
	"testing"

	"github.com/halvorsen/llgen/firstfollow"
	"github.com/halvorsen/llgen/grammar"
	"github.com/halvorsen/llgen"
	"github.com/halvorsen/llgen/transitions"
)

func newParser(productions []grammar.Production[string], start string) *Parser[int, string] {
	g := grammar.New("eps", start, productions)
	sets := firstfollow.Compute(g)
	table := transitions.Build(g, sets)
	return New[int, string](g, table)
}

func tok(ttype string) llgen.Token[int, string] {
	return llgen.NewToken(0, ttype)
}

func TestParseSingleTerminalProduction(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a"),
	}, "S")

	result := p.Parse([]llgen.Token[int, string]{tok("a")})
	tree, ok := result.Tree()
	if !ok {
		t.Fatalf("expected ResultOk, got %v", result.Kind())
	}
	if tree.Root.Tok.TType() != "S" {
		t.Errorf("expected root S, got %v", tree.Root.Tok.TType())
	}
	if len(tree.Root.Children) != 1 || tree.Root.Children[0].Tok.TType() != "a" {
		t.Errorf("expected single child 'a', got %v", tree.Root.Children)
	}
}

func TestParseEpsilonProduction(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "A", "eof"),
		grammar.NewProduction("A", "eps"),
	}, "S")

	result := p.Parse([]llgen.Token[int, string]{tok("eof")})
	tree, ok := result.Tree()
	if !ok {
		t.Fatalf("expected ResultOk, got %v", result.Kind())
	}
	if len(tree.Root.Children) != 2 {
		t.Fatalf("expected 2 children (A, eof), got %d", len(tree.Root.Children))
	}
	a := tree.Root.Children[0]
	if a.Tok.TType() != "A" || len(a.Children) != 1 || a.Children[0].Tok.TType() != "eps" {
		t.Errorf("expected epsilon-derived A with a single eps child, got %v", a)
	}
}

func TestParseFirstFirstConflictBacktracks(t *testing.T) {
	// S -> A Eof | B Eof ; A -> Common AT ; B -> Common BT
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "A", "eof"),
		grammar.NewProduction("S", "B", "eof"),
		grammar.NewProduction("A", "common", "at"),
		grammar.NewProduction("B", "common", "bt"),
	}, "S")

	result := p.Parse([]llgen.Token[int, string]{tok("common"), tok("bt"), tok("eof")})
	tree, ok := result.Tree()
	if !ok {
		t.Fatalf("expected ResultOk after backtracking, got %v", result.Kind())
	}
	b := tree.Root.Children[0]
	if b.Tok.TType() != "B" {
		t.Fatalf("expected backtrack to alternative B, got %v", b.Tok.TType())
	}
}

func TestParseProductionLevelBacktracking(t *testing.T) {
	// S -> A B Eof ; A -> AT BT | AT ; B -> BT CT DT | CT
	productions := []grammar.Production[string]{
		grammar.NewProduction("S", "A", "B", "eof"),
		grammar.NewProduction("A", "at", "bt"),
		grammar.NewProduction("A", "at"),
		grammar.NewProduction("B", "bt", "ct", "dt"),
		grammar.NewProduction("B", "ct"),
	}

	p := newParser(productions, "S")
	result := p.Parse([]llgen.Token[int, string]{tok("at"), tok("bt"), tok("ct"), tok("eof")})
	tree, ok := result.Tree()
	if !ok {
		t.Fatalf("expected ResultOk, got %v", result.Kind())
	}
	a, b := tree.Root.Children[0], tree.Root.Children[1]
	if len(a.Children) != 2 || len(b.Children) != 1 {
		t.Fatalf("expected A(AT,BT) B(CT), got A=%v B=%v", a, b)
	}

	p2 := newParser(productions, "S")
	result2 := p2.Parse([]llgen.Token[int, string]{tok("at"), tok("bt"), tok("ct"), tok("dt"), tok("eof")})
	tree2, ok2 := result2.Tree()
	if !ok2 {
		t.Fatalf("expected ResultOk, got %v", result2.Kind())
	}
	a2, b2 := tree2.Root.Children[0], tree2.Root.Children[1]
	if len(a2.Children) != 1 || len(b2.Children) != 3 {
		t.Fatalf("expected A(AT) B(BT,CT,DT), got A=%v B=%v", a2, b2)
	}
}

func TestParseFailsWhenNoProductionMatches(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a"),
	}, "S")

	result := p.Parse([]llgen.Token[int, string]{tok("b")})
	failed, ok := result.Failed()
	if !ok {
		t.Fatalf("expected ResultErr, got %v", result.Kind())
	}
	if len(failed.FailedProductions) != 0 {
		t.Errorf("expected no candidate productions attempted, got %d", len(failed.FailedProductions))
	}
	if failed.SymbolToDerive != "S" {
		t.Errorf("expected failing symbol S, got %v", failed.SymbolToDerive)
	}
}

func TestParseFailsWithPartialProgressRecorded(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a", "a"),
	}, "S")

	result := p.Parse([]llgen.Token[int, string]{tok("a"), tok("b")})
	failed, ok := result.Failed()
	if !ok {
		t.Fatalf("expected ResultErr, got %v", result.Kind())
	}
	if len(failed.FailedProductions) != 1 {
		t.Fatalf("expected 1 attempted production, got %d", len(failed.FailedProductions))
	}
	fp := failed.FailedProductions[0]
	if len(fp.ParsedSymbols) != 1 {
		t.Fatalf("expected 1 parsed symbol before the failure, got %d", len(fp.ParsedSymbols))
	}
	if len(fp.PendingSymbols) != 0 {
		t.Errorf("expected no pending symbols after the failure point, got %v", fp.PendingSymbols)
	}
	if fp.Failed.SymbolToDerive != "a" {
		t.Errorf("expected the failing symbol to be 'a', got %v", fp.Failed.SymbolToDerive)
	}
}

func TestParseFailsWithMultipleAlternativesInOrder(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a", "a"),
		grammar.NewProduction("S", "a", "a", "a"),
	}, "S")

	result := p.Parse([]llgen.Token[int, string]{tok("a"), tok("b")})
	failed, ok := result.Failed()
	if !ok {
		t.Fatalf("expected ResultErr, got %v", result.Kind())
	}
	if len(failed.FailedProductions) != 2 {
		t.Fatalf("expected 2 attempted productions, got %d", len(failed.FailedProductions))
	}
	if len(failed.FailedProductions[0].PendingSymbols) != 0 {
		t.Errorf("expected first alternative to have no pending symbols, got %v", failed.FailedProductions[0].PendingSymbols)
	}
	if len(failed.FailedProductions[1].PendingSymbols) != 1 {
		t.Errorf("expected second alternative to have 1 pending symbol, got %v", failed.FailedProductions[1].PendingSymbols)
	}
}

func TestParsePanicsOnEmptyTokens(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty token input")
		}
	}()
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a"),
	}, "S")
	p.Parse(nil)
}

// solverThatDeclines never fixes anything; used to confirm Err is still
// returned when the attached solver declines every offer.
type solverThatDeclines struct{}

func (solverThatDeclines) FixFailedProduction(tokens []llgen.Token[int, string], pos int, failed *FailedProduction[int, string]) (*Repair[int, string], bool) {
	return nil, false
}

func (solverThatDeclines) FixFailedProductions(tokens []llgen.Token[int, string], pos int, failed []FailedProduction[int, string]) (*Repair[int, string], bool) {
	return nil, false
}

func TestParseWithDecliningSolverStillReturnsErr(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a"),
	}, "S")
	p.WithSolver(solverThatDeclines{})

	result := p.Parse([]llgen.Token[int, string]{tok("b")})
	if result.Kind() != ResultErr {
		t.Fatalf("expected ResultErr, got %v", result.Kind())
	}
}

// solverThatSkips repairs any single-candidate failure by skipping the
// token at the position it is offered (the failing non-terminal's starting
// position) and reusing its own failing symbol's partial parse.
type solverThatSkips struct{}

func (solverThatSkips) FixFailedProduction(tokens []llgen.Token[int, string], pos int, failed *FailedProduction[int, string]) (*Repair[int, string], bool) {
	parts := make([]FixedProductionPart[int, string], len(failed.ParsedSymbols))
	for i, ps := range failed.ParsedSymbols {
		node, _ := ps.Node()
		parts[i] = PartOkOf[int, string](node)
	}
	if pos >= len(tokens) {
		return nil, false
	}
	gap := NewGap(llgen.NewSpan(uint64(pos), uint64(pos+1)), tokens[pos:pos+1], "error")
	parts = append(parts, PartGapOf[int, string](gap))
	return &Repair[int, string]{FinalTokenPosition: pos + 1, Production: FixedProduction[int, string]{Parts: parts}}, true
}

func (solverThatSkips) FixFailedProductions(tokens []llgen.Token[int, string], pos int, failed []FailedProduction[int, string]) (*Repair[int, string], bool) {
	return nil, false
}

func TestParseWithRepairingSolverReturnsFix(t *testing.T) {
	p := newParser([]grammar.Production[string]{
		grammar.NewProduction("S", "a", "a"),
	}, "S")
	p.WithSolver(solverThatSkips{})

	result := p.Parse([]llgen.Token[int, string]{tok("a"), tok("b")})
	fixed, ok := result.Fixed()
	if !ok {
		t.Fatalf("expected ResultFix, got %v", result.Kind())
	}
	if fixed.SymbolToDerive != "S" {
		t.Errorf("expected repaired symbol S, got %v", fixed.SymbolToDerive)
	}
	if len(fixed.Production.Parts) != 2 {
		t.Fatalf("expected 2 repaired parts (parsed 'a' + gap), got %d", len(fixed.Production.Parts))
	}
}

// solverRecording records the failing symbol of the production it is
// offered and the token position it is offered (the starting position of
// the non-terminal whose production failed), so a test can confirm the
// solver was consulted for a non-terminal below the start symbol. It then
// repairs the failure by skipping the token at which that production
// stopped: the offered position plus the tokens its parsed symbols consumed.
type solverRecording struct {
	gotSymbol string
	gotPos    int
}

func (s *solverRecording) FixFailedProduction(tokens []llgen.Token[int, string], pos int, failed *FailedProduction[int, string]) (*Repair[int, string], bool) {
	s.gotSymbol = failed.Failed.SymbolToDerive
	s.gotPos = pos
	failPos := pos
	parts := make([]FixedProductionPart[int, string], len(failed.ParsedSymbols))
	for i, ps := range failed.ParsedSymbols {
		node, _ := ps.Node()
		parts[i] = PartOkOf[int, string](node)
		failPos += len(ps.toNode().Yield("eps"))
	}
	if failPos >= len(tokens) {
		return nil, false
	}
	gap := NewGap(llgen.NewSpan(uint64(failPos), uint64(failPos+1)), tokens[failPos:failPos+1], "error")
	parts = append(parts, PartGapOf[int, string](gap))
	return &Repair[int, string]{FinalTokenPosition: failPos + 1, Production: FixedProduction[int, string]{Parts: parts}}, true
}

func (s *solverRecording) FixFailedProductions(tokens []llgen.Token[int, string], pos int, failed []FailedProduction[int, string]) (*Repair[int, string], bool) {
	return nil, false
}

func TestParseOffersNestedSinglePathFailureToSolver(t *testing.T) {
	// S -> X eof ; X -> A bt ; A -> at. Every non-terminal here has exactly
	// one candidate production under any lookahead it's tried with, so
	// singlePath holds all the way down to X's own failure.
	productions := []grammar.Production[string]{
		grammar.NewProduction("S", "X", "eof"),
		grammar.NewProduction("X", "A", "bt"),
		grammar.NewProduction("A", "at"),
	}
	p := newParser(productions, "S")
	solver := &solverRecording{}
	p.WithSolver(solver)

	// A consumes "at" at position 0; X then expects "bt" at position 1 but
	// finds "bad" instead, so X's own derivation fails -- not the start
	// symbol's. The solver is offered X's production (failing at "bt") at
	// X's starting position 0, and skips "bad" so S can go on to match "eof".
	result := p.Parse([]llgen.Token[int, string]{tok("at"), tok("bad"), tok("eof")})

	fixed, ok := result.Fixed()
	if !ok {
		t.Fatalf("expected ResultFix, got %v", result.Kind())
	}
	if solver.gotSymbol != "bt" {
		t.Errorf("expected solver to be offered X's production failing at bt, got %v", solver.gotSymbol)
	}
	if solver.gotPos != 0 {
		t.Errorf("expected solver to be consulted at X's starting position 0, got %d", solver.gotPos)
	}
	if fixed.SymbolToDerive != "S" {
		t.Errorf("expected the reported fix to be rooted at S (X was repaired as S's descendant), got %v", fixed.SymbolToDerive)
	}
	if len(fixed.Production.Parts) != 2 {
		t.Fatalf("expected S's production to have 2 parts (X, eof), got %d", len(fixed.Production.Parts))
	}
	if fixed.Production.Parts[0].Kind() != PartFixed {
		t.Errorf("expected S's first part (X) to be reported as PartFixed, got %v", fixed.Production.Parts[0].Kind())
	}
	if fixed.Production.Parts[1].Kind() != PartOk {
		t.Errorf("expected S's second part (eof) to be reported as PartOk, got %v", fixed.Production.Parts[1].Kind())
	}
}
