package parse

import "github.com/halvorsen/llgen"

// SyntaxErrorSolver is the extension point for local syntax-error repair.
//
// A fix attempt is the last resource used to parse an input; it's safe to
// assume every ancestor of the failing node has a single child at the
// point a solver is consulted.
type SyntaxErrorSolver[TLex any, TSyntax comparable] interface {
	// FixFailedProduction is called when a symbol had exactly one
	// candidate production and that production could not be parsed.
	// Returning false declines to fix; the failure propagates to the
	// caller, which may itself be offered a fix for its own production.
	FixFailedProduction(tokens []llgen.Token[TLex, TSyntax], tokensPosition int, failed *FailedProduction[TLex, TSyntax]) (*Repair[TLex, TSyntax], bool)

	// FixFailedProductions is called when a symbol had multiple candidate
	// productions and none of them could be parsed.
	FixFailedProductions(tokens []llgen.Token[TLex, TSyntax], tokensPosition int, failed []FailedProduction[TLex, TSyntax]) (*Repair[TLex, TSyntax], bool)
}
