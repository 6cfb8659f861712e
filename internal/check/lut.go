package check

import "github.com/tml-lang/tmlc/internal/types"

// category groups primitives the way validate.go's lutExp groups
// "integer" and "float" operands, widened from two categories to the
// five tmlc's richer primitive grammar actually needs.
type category int

const (
	catInt category = iota
	catFloat
	catBool
	catChar
	catStr
	catOther // struct/class/enum/etc.; only op==/op!= ever reach here, and only via behavior resolution the checker doesn't attempt yet.
	numCategories
)

func categoryOf(t *types.Type) category {
	if t == nil || t.Kind != types.KPrimitive {
		return catOther
	}
	switch {
	case t.Prim.IsInteger():
		return catInt
	case t.Prim.IsFloat():
		return catFloat
	case t.Prim == types.Bool:
		return catBool
	case t.Prim == types.Char:
		return catChar
	case t.Prim == types.Str:
		return catStr
	}
	return catOther
}

// binOp enumerates the binary operators the lookup table covers, mirroring
// validate.go's opPlus..opEq const block extended with the comparison and
// logical operators spec.md §4.3's precedence table adds.
type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
	opMod
	opBitOr
	opBitAnd
	opBitXor
	opShl
	opShr
	opGt
	opLt
	opGe
	opLe
	opEq
	opNe
	opAndAnd
	opOrOr
	numBinOps
)

var binOpNames = map[string]binOp{
	"+": opAdd, "-": opSub, "*": opMul, "/": opDiv, "%": opMod,
	"|": opBitOr, "&": opBitAnd, "^": opBitXor, "<<": opShl, ">>": opShr,
	">": opGt, "<": opLt, ">=": opGe, "<=": opLe, "==": opEq, "!=": opNe,
	"&&": opAndAnd, "||": opOrOr,
}

// lutBin is the compatibility table: lutBin[cat1][cat2][op] reports
// whether the operator is legal between operands of those categories,
// generalizing validate.go's lutExp from a 2x2x13 int/float table to
// tmlc's five operand categories and larger operator set.
var lutBin [numCategories][numCategories][numBinOps]bool

func init() {
	arith := []binOp{opAdd, opSub, opMul, opDiv}
	bitwise := []binOp{opMod, opBitOr, opBitAnd, opBitXor, opShl, opShr}
	cmp := []binOp{opGt, opLt, opGe, opLe, opEq, opNe}

	allow := func(c1, c2 category, ops []binOp) {
		for _, op := range ops {
			lutBin[c1][c2][op] = true
			lutBin[c2][c1][op] = true
		}
	}

	allow(catInt, catInt, arith)
	allow(catInt, catInt, bitwise)
	allow(catInt, catInt, cmp)
	allow(catFloat, catFloat, arith)
	allow(catFloat, catFloat, cmp)
	allow(catInt, catFloat, arith)
	allow(catInt, catFloat, cmp)

	allow(catBool, catBool, []binOp{opEq, opNe, opAndAnd, opOrOr, opBitOr, opBitAnd, opBitXor})
	allow(catChar, catChar, cmp)
	allow(catStr, catStr, []binOp{opEq, opNe, opAdd, opGt, opLt, opGe, opLe})
}

// binResultCategory picks the wider operand category as the result,
// matching validate.go's "float wins over int" promotion rule.
func binResultCategory(c1, c2 category) category {
	if c1 == catFloat || c2 == catFloat {
		return catFloat
	}
	if c1 == c2 {
		return c1
	}
	return c1
}

func isComparisonOp(op binOp) bool {
	switch op {
	case opGt, opLt, opGe, opLe, opEq, opNe:
		return true
	}
	return false
}
