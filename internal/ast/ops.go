package ast

// L is an operator precedence level. Higher binds tighter.
type L uint8

const (
	LLowest L = iota
	LComma
	LSpread
	LYield
	LAssign
	LConditional
	LNullishCoalescing
	LLogicalOr
	LLogicalAnd
	LBitwiseOr
	LBitwiseXor
	LBitwiseAnd
	LEquals
	LCompare
	LShift
	LAdd
	LMultiply
	LExponentiation
	LPrefix
	LPostfix
	LNew
	LCall
	LMember
)

type UnaryOp uint8

const (
	UnNeg UnaryOp = iota
	UnPos
	UnNot
	UnCpl
	UnTypeof
	UnVoid
	UnDelete
)

var unaryText = [...]string{
	UnNeg:    "-",
	UnPos:    "+",
	UnNot:    "!",
	UnCpl:    "~",
	UnTypeof: "typeof",
	UnVoid:   "void",
	UnDelete: "delete",
}

func (op UnaryOp) String() string { return unaryText[op] }

// IsKeyword reports whether the operator is spelled as a word.
func (op UnaryOp) IsKeyword() bool { return op >= UnTypeof }

type UpdateOp uint8

const (
	UpInc UpdateOp = iota
	UpDec
)

func (op UpdateOp) String() string {
	if op == UpDec {
		return "--"
	}
	return "++"
}

// Binary returns the arithmetic operator equivalent to the update.
func (op UpdateOp) Binary() BinaryOp {
	if op == UpDec {
		return BinSub
	}
	return BinAdd
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinRem
	BinPow
	BinShl
	BinShr
	BinUShr
	BinBitAnd
	BinBitOr
	BinBitXor
	BinLt
	BinLe
	BinGt
	BinGe
	BinIn
	BinInstanceof
	BinLooseEq
	BinLooseNe
	BinStrictEq
	BinStrictNe
	BinLogicalAnd
	BinLogicalOr
	BinNullishCoalescing
)

type opInfo struct {
	text  string
	level L
}

var binaryTable = [...]opInfo{
	BinAdd:               {"+", LAdd},
	BinSub:               {"-", LAdd},
	BinMul:               {"*", LMultiply},
	BinDiv:               {"/", LMultiply},
	BinRem:               {"%", LMultiply},
	BinPow:               {"**", LExponentiation},
	BinShl:               {"<<", LShift},
	BinShr:               {">>", LShift},
	BinUShr:              {">>>", LShift},
	BinBitAnd:            {"&", LBitwiseAnd},
	BinBitOr:             {"|", LBitwiseOr},
	BinBitXor:            {"^", LBitwiseXor},
	BinLt:                {"<", LCompare},
	BinLe:                {"<=", LCompare},
	BinGt:                {">", LCompare},
	BinGe:                {">=", LCompare},
	BinIn:                {"in", LCompare},
	BinInstanceof:        {"instanceof", LCompare},
	BinLooseEq:           {"==", LEquals},
	BinLooseNe:           {"!=", LEquals},
	BinStrictEq:          {"===", LEquals},
	BinStrictNe:          {"!==", LEquals},
	BinLogicalAnd:        {"&&", LLogicalAnd},
	BinLogicalOr:         {"||", LLogicalOr},
	BinNullishCoalescing: {"??", LNullishCoalescing},
}

func (op BinaryOp) String() string { return binaryTable[op].text }

// Level returns the precedence of the operator.
func (op BinaryOp) Level() L { return binaryTable[op].level }

// IsRightAssociative is true only for exponentiation.
func (op BinaryOp) IsRightAssociative() bool { return op == BinPow }

// LookupBinary maps operator text to its BinaryOp.
func LookupBinary(text string) (BinaryOp, bool) {
	for i, info := range binaryTable {
		if info.text == text {
			return BinaryOp(i), true // #nosec G115 -- table index fits uint8
		}
	}
	return 0, false
}

// AssignOp is "=" or a compound assignment. Compound operators map to the
// BinaryOp they apply.
type AssignOp uint8

const (
	AssignEq AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	AssignRem
	AssignPow
	AssignShl
	AssignShr
	AssignUShr
	AssignBitAnd
	AssignBitOr
	AssignBitXor
	AssignLogicalAnd
	AssignLogicalOr
	AssignNullish
)

var assignTable = [...]struct {
	text string
	bin  BinaryOp
}{
	AssignEq:         {"=", 0},
	AssignAdd:        {"+=", BinAdd},
	AssignSub:        {"-=", BinSub},
	AssignMul:        {"*=", BinMul},
	AssignDiv:        {"/=", BinDiv},
	AssignRem:        {"%=", BinRem},
	AssignPow:        {"**=", BinPow},
	AssignShl:        {"<<=", BinShl},
	AssignShr:        {">>=", BinShr},
	AssignUShr:       {">>>=", BinUShr},
	AssignBitAnd:     {"&=", BinBitAnd},
	AssignBitOr:      {"|=", BinBitOr},
	AssignBitXor:     {"^=", BinBitXor},
	AssignLogicalAnd: {"&&=", BinLogicalAnd},
	AssignLogicalOr:  {"||=", BinLogicalOr},
	AssignNullish:    {"??=", BinNullishCoalescing},
}

func (op AssignOp) String() string { return assignTable[op].text }

// Binary returns the operator applied by a compound assignment.
func (op AssignOp) Binary() (BinaryOp, bool) {
	if op == AssignEq {
		return 0, false
	}
	return assignTable[op].bin, true
}

// LookupAssign maps operator text to its AssignOp.
func LookupAssign(text string) (AssignOp, bool) {
	for i, info := range assignTable {
		if info.text == text {
			return AssignOp(i), true // #nosec G115 -- table index fits uint8
		}
	}
	return 0, false
}
