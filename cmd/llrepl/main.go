/*
llrepl is an interactive demo of the llgen toolbox: it builds a small
arithmetic-expression grammar, lexes a line of input with the lexmach
adapter, drives a parse.Parser over the result, and prints the outcome.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/halvorsen/llgen/firstfollow"
	"github.com/halvorsen/llgen/grammar"
	"github.com/halvorsen/llgen/lex/lexmach"
	"github.com/halvorsen/llgen"
	"github.com/halvorsen/llgen/parse"
	"github.com/halvorsen/llgen/transitions"
)

// tracer traces with key 'llgen.llrepl'.
func tracer() tracing.Trace {
	return tracing.Select("llgen.llrepl")
}

// sym is the demo grammar's symbol alphabet: a small arithmetic
// expression language with right-recursive sum and product tails.
type sym string

const (
	symEps    sym = "eps"
	symExpr   sym = "Expr"
	symTail   sym = "ExprTail"
	symTerm   sym = "Term"
	symTTail  sym = "TermTail"
	symFactor sym = "Factor"
	symPlus   sym = "+"
	symTimes  sym = "*"
	symLParen sym = "("
	symRParen sym = ")"
	symNumber sym = "number"
	symEOF    sym = "eof"
)

// demoGrammar mirrors the classic expression-grammar used across the
// corpus's own REPL demos, rewritten as a right-recursive (tail) form so
// it is LL-friendly:
//
//	Expr     -> Term ExprTail
//	ExprTail -> + Term ExprTail | eps
//	Term     -> Factor TermTail
//	TermTail -> * Factor TermTail | eps
//	Factor   -> number | ( Expr )
func demoGrammar() *grammar.Grammar[sym] {
	productions := []grammar.Production[sym]{
		grammar.NewProduction(symExpr, symTerm, symTail),
		grammar.NewProduction(symTail, symPlus, symTerm, symTail),
		grammar.NewProduction(symTail, symEps),
		grammar.NewProduction(symTerm, symFactor, symTTail),
		grammar.NewProduction(symTTail, symTimes, symFactor, symTTail),
		grammar.NewProduction(symTTail, symEps),
		grammar.NewProduction(symFactor, symNumber),
		grammar.NewProduction(symFactor, symLParen, symExpr, symRParen),
	}
	return grammar.New(symEps, symExpr, productions)
}

func demoLexer() (*lexmach.Adapter[sym], error) {
	init := func(a *lexmach.Adapter[sym]) {
		a.Literal("+", symPlus)
		a.Literal("*", symTimes)
		a.Literal("(", symLParen)
		a.Literal(")", symRParen)
		a.Pattern("[0-9]+", symNumber)
		a.Skip("( |\t|\n)+")
	}
	return lexmach.NewAdapter(init, symEOF)
}

func main() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{Text: "  >>", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: "  Error", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}

	gtrace.SyntaxTracer = gologadapter.New()
	level := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(traceLevel(*level))

	g := demoGrammar()
	sets := firstfollow.Compute(g)
	table := transitions.Build(g, sets)
	parser := parse.New[string, sym](g, table)

	repl, err := readline.New("llgen> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	pterm.Info.Println("Welcome to llrepl. Enter an arithmetic expression, quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err == io.EOF {
			return
		}
		if err != nil {
			tracer().Errorf(err.Error())
			return
		}
		run(parser, line)
	}
}

func run(parser *parse.Parser[string, sym], line string) {
	tokens, err := scan(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	result := parser.Parse(tokens)
	switch result.Kind() {
	case parse.ResultOk:
		tree, _ := result.Tree()
		pterm.Success.Println(tree.Root.String())
	case parse.ResultFix:
		fixed, _ := result.Fixed()
		pterm.Warning.Printfln("repaired parse of %v", fixed.SymbolToDerive)
	case parse.ResultErr:
		failed, _ := result.Failed()
		pterm.Error.Printfln("could not derive %v", failed.SymbolToDerive)
	}
}

func scan(line string) ([]llgen.Token[string, sym], error) {
	adapter, err := demoLexer()
	if err != nil {
		return nil, err
	}
	scanner, err := adapter.Scanner(line)
	if err != nil {
		return nil, err
	}
	return scanner.Tokens()
}

func traceLevel(s string) tracing.TraceLevel {
	switch s {
	case "Debug":
		return tracing.LevelDebug
	case "Error":
		return tracing.LevelError
	default:
		return tracing.LevelInfo
	}
}
