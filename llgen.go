package llgen

import "fmt"

// Span is a small type for capturing a length of input token run. It denotes
// a start position and the position just behind the end. Not required by the
// core algorithms, but useful for lexer adapters and for reporting gaps
// skipped during error recovery.
type Span struct {
	from uint64
	to   uint64
}

// NewSpan creates a span covering [from, to).
func NewSpan(from, to uint64) Span {
	return Span{from: from, to: to}
}

// From returns the start position of a span.
func (s Span) From() uint64 { return s.from }

// To returns the end position of a span.
func (s Span) To() uint64 { return s.to }

// Len returns the length of the span.
func (s Span) Len() uint64 { return s.to - s.from }

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s.from, s.to)
}

// Token pairs an optional lexeme with a syntactic category (t_type).
//
// Token equality is by TType only, per the grammar's notion of a terminal:
// two tokens of the same category are interchangeable for the purposes of
// table lookup and matching, regardless of their lexeme payload.
type Token[TLex any, TSyntax comparable] struct {
	lex    TLex
	hasLex bool
	ttype  TSyntax
}

// NewToken creates a token carrying a lexeme.
func NewToken[TLex any, TSyntax comparable](lex TLex, ttype TSyntax) Token[TLex, TSyntax] {
	return Token[TLex, TSyntax]{lex: lex, hasLex: true, ttype: ttype}
}

// NewBareToken creates a token with no lexeme payload, e.g. a synthesized
// internal-node token or an epsilon leaf.
func NewBareToken[TLex any, TSyntax comparable](ttype TSyntax) Token[TLex, TSyntax] {
	return Token[TLex, TSyntax]{ttype: ttype}
}

// TType returns the token's syntactic category.
func (t Token[TLex, TSyntax]) TType() TSyntax { return t.ttype }

// Lex returns the token's lexeme and whether one is present.
func (t Token[TLex, TSyntax]) Lex() (TLex, bool) { return t.lex, t.hasLex }

// Equal compares two tokens by TType only.
func (t Token[TLex, TSyntax]) Equal(other Token[TLex, TSyntax]) bool {
	return t.ttype == other.ttype
}

func (t Token[TLex, TSyntax]) String() string {
	if t.hasLex {
		return fmt.Sprintf("%v(%v)", t.ttype, t.lex)
	}
	return fmt.Sprintf("%v", t.ttype)
}
