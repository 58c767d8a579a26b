/*
Package llgen is an LL(1)-style recursive-descent parser generator toolbox.

llgen builds predictive parsers for context-free grammars specified over a
caller-defined, comparable symbol type. Package structure is as follows:

■ grammar: Package grammar constructs and validates context-free grammars
from productions, deriving terminal/non-terminal sets.

■ firstfollow: Package firstfollow computes FIRST and FOLLOW sets for a
grammar via fixed-point iteration.

■ transitions: Package transitions derives a predictive (non-terminal,
lookahead) → productions table from a grammar and its FIRST/FOLLOW sets.

■ parse: Package parse implements the backtracking recursive-descent
parser driven by the table, including the syntax-error recovery extension
point and the parse-result abstract data types.

■ lex/lexmach: Package lexmach adapts github.com/timtadh/lexmachine as a
token source for package parse.

The base package contains the Token and Span types shared across all of the
above.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package llgen
