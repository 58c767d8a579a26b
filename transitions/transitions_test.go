package transitions

import (
	"testing"

	"github.com/halvorsen/llgen/firstfollow"
	"github.com/halvorsen/llgen/grammar"
)

func build(productions []grammar.Production[string], start string) *Table[string] {
	g := grammar.New("eps", start, productions)
	sets := firstfollow.Compute(g)
	return Build(g, sets)
}

func TestSimpleTerminalLookup(t *testing.T) {
	tbl := build([]grammar.Production[string]{
		grammar.NewProduction("Module", "id", "eof"),
	}, "Module")

	ps := tbl.Lookup("Module", "id")
	if len(ps) != 1 {
		t.Fatalf("expected 1 production for (Module, id), got %d", len(ps))
	}
}

func TestNoEntryReturnsNil(t *testing.T) {
	tbl := build([]grammar.Production[string]{
		grammar.NewProduction("Module", "id", "eof"),
	}, "Module")

	if ps := tbl.Lookup("Module", "eof"); ps != nil {
		t.Errorf("expected no entry for (Module, eof), got %v", ps)
	}
}

func TestEpsilonAlternativeReachesViaFollow(t *testing.T) {
	// Module -> Expression eof ; Expression -> id | eps
	tbl := build([]grammar.Production[string]{
		grammar.NewProduction("Module", "Expression", "eof"),
		grammar.NewProduction("Expression", "id"),
		grammar.NewProduction("Expression", "eps"),
	}, "Module")

	if ps := tbl.Lookup("Expression", "id"); len(ps) != 1 {
		t.Fatalf("expected 1 production for (Expression, id), got %d", len(ps))
	}
	// FOLLOW(Expression) = {eof}, so the epsilon alternative should be
	// reachable under lookahead 'eof'.
	ps := tbl.Lookup("Expression", "eof")
	if len(ps) != 1 || len(ps[0].Output) != 1 || ps[0].Output[0] != "eps" {
		t.Fatalf("expected epsilon production reachable under FOLLOW(Expression)={eof}, got %v", ps)
	}
}

func TestFirstFirstConflictPreservesDeclarationOrder(t *testing.T) {
	// S -> A Eof | B Eof ; A -> Common AT ; B -> Common BT
	tbl := build([]grammar.Production[string]{
		grammar.NewProduction("S", "A", "eof"),
		grammar.NewProduction("S", "B", "eof"),
		grammar.NewProduction("A", "Common", "AT"),
		grammar.NewProduction("B", "Common", "BT"),
	}, "S")

	// Both S -> A eof and S -> B eof have FIRST(A) = FIRST(B) = {Common},
	// so table(S, Common) should contain both, in declaration order.
	ps := tbl.Lookup("S", "Common")
	if len(ps) != 2 {
		t.Fatalf("expected 2 candidate productions for (S, Common), got %d: %v", len(ps), ps)
	}
	if ps[0].Output[0] != "A" || ps[1].Output[0] != "B" {
		t.Fatalf("expected declaration order [A, B], got %v", ps)
	}
}
