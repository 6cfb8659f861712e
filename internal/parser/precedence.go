package parser

import "github.com/tml-lang/tmlc/internal/token"

// precedence is the binding tightness of an infix/postfix operator,
// following the ladder of spec.md §4.3 (low to high).
type precedence int

const (
	precNone       precedence = iota // 0: sentinel.
	precAssign                       // 1: = += -= *= /= %=
	precTernary                      // 2: ?:
	precOr                           // 3: or ||
	precAnd                          // 4: and &&
	precCompare                      // 5: == != < > <= >= (non-associative)
	precBitOr                        // 6: |
	precBitXor                       // 7: ^ xor
	precBitAnd                       // 8: &
	precShift                        // 9: << >> shl shr
	precAdd                          // 10: + -
	precMul                          // 11: * / %
	precAs                           // 12: as
	precUnary                        // 13: prefix - not ~ ref *
	precCall                         // 14: () [] .
	precRange                        // 15: .. ..= to through
)

// infixInfo describes one infix/postfix operator's precedence and
// associativity.
type infixInfo struct {
	prec  precedence
	right bool // right-associative.
}

var infixTable = map[token.Kind]infixInfo{
	token.EQ:        {precAssign, true},
	token.PLUSEQ:    {precAssign, true},
	token.MINUSEQ:   {precAssign, true},
	token.STAREQ:    {precAssign, true},
	token.SLASHEQ:   {precAssign, true},
	token.PERCENTEQ: {precAssign, true},

	token.QUESTION: {precTernary, true},

	token.OR:       {precOr, false},
	token.PIPEPIPE: {precOr, false},

	token.AND:    {precAnd, false},
	token.AMPAMP: {precAnd, false},

	token.EQEQ:   {precCompare, false},
	token.BANGEQ: {precCompare, false},
	token.LT:     {precCompare, false},
	token.GT:     {precCompare, false},
	token.LTEQ:   {precCompare, false},
	token.GTEQ:   {precCompare, false},

	token.PIPE: {precBitOr, false},

	token.CARET: {precBitXor, false},
	token.XOR:   {precBitXor, false},

	token.AMP: {precBitAnd, false},

	token.SHLOP: {precShift, false},
	token.SHROP: {precShift, false},
	token.SHL:   {precShift, false},
	token.SHR:   {precShift, false},

	token.PLUS:  {precAdd, false},
	token.MINUS: {precAdd, false},

	token.STAR:    {precMul, false},
	token.SLASH:   {precMul, false},
	token.PERCENT: {precMul, false},

	token.AS: {precAs, false},

	token.DOTDOT:   {precRange, false},
	token.DOTDOTEQ: {precRange, false},
	token.TO:       {precRange, false},
	token.THROUGH:  {precRange, false},
}

// comparisonOps is used to detect and reject chained (non-associative)
// comparisons, per spec.md §4.3.
var comparisonOps = map[token.Kind]bool{
	token.EQEQ: true, token.BANGEQ: true, token.LT: true,
	token.GT: true, token.LTEQ: true, token.GTEQ: true,
}
