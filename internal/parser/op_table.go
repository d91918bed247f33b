package parser

import (
	"lowerjs/internal/ast"
	"lowerjs/internal/token"
)

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:             ast.BinAdd,
	token.Minus:            ast.BinSub,
	token.Star:             ast.BinMul,
	token.Slash:            ast.BinDiv,
	token.Percent:          ast.BinRem,
	token.StarStar:         ast.BinPow,
	token.Shl:              ast.BinShl,
	token.Shr:              ast.BinShr,
	token.UShr:             ast.BinUShr,
	token.Amp:              ast.BinBitAnd,
	token.Pipe:             ast.BinBitOr,
	token.Caret:            ast.BinBitXor,
	token.Lt:               ast.BinLt,
	token.LtEq:             ast.BinLe,
	token.Gt:               ast.BinGt,
	token.GtEq:             ast.BinGe,
	token.KwIn:             ast.BinIn,
	token.KwInstanceof:     ast.BinInstanceof,
	token.EqEq:             ast.BinLooseEq,
	token.BangEq:           ast.BinLooseNe,
	token.EqEqEq:           ast.BinStrictEq,
	token.BangEqEq:         ast.BinStrictNe,
	token.AndAnd:           ast.BinLogicalAnd,
	token.OrOr:             ast.BinLogicalOr,
	token.QuestionQuestion: ast.BinNullishCoalescing,
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.Assign:                 ast.AssignEq,
	token.PlusAssign:             ast.AssignAdd,
	token.MinusAssign:            ast.AssignSub,
	token.StarAssign:             ast.AssignMul,
	token.SlashAssign:            ast.AssignDiv,
	token.PercentAssign:          ast.AssignRem,
	token.StarStarAssign:         ast.AssignPow,
	token.ShlAssign:              ast.AssignShl,
	token.ShrAssign:              ast.AssignShr,
	token.UShrAssign:             ast.AssignUShr,
	token.AmpAssign:              ast.AssignBitAnd,
	token.PipeAssign:             ast.AssignBitOr,
	token.CaretAssign:            ast.AssignBitXor,
	token.AndAndAssign:           ast.AssignLogicalAnd,
	token.OrOrAssign:             ast.AssignLogicalOr,
	token.QuestionQuestionAssign: ast.AssignNullish,
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Minus:    ast.UnNeg,
	token.Plus:     ast.UnPos,
	token.Bang:     ast.UnNot,
	token.Tilde:    ast.UnCpl,
	token.KwTypeof: ast.UnTypeof,
	token.KwVoid:   ast.UnVoid,
	token.KwDelete: ast.UnDelete,
}
