package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	NumberLit
	StringLit

	// reserved words
	KwBreak
	KwCase
	KwCatch
	KwClass
	KwConst
	KwContinue
	KwDebugger
	KwDefault
	KwDelete
	KwDo
	KwElse
	KwExport
	KwExtends
	KwFalse
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwImport
	KwIn
	KwInstanceof
	KwNew
	KwNull
	KwReturn
	KwSuper
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwVar
	KwVoid
	KwWhile
	KwWith

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	DotDotDot
	Colon
	Question
	QuestionDot
	FatArrow
	Hash

	// operators
	Plus
	Minus
	Star
	StarStar
	Slash
	Percent
	PlusPlus
	MinusMinus
	Lt
	LtEq
	Gt
	GtEq
	Shl
	Shr
	UShr
	EqEq
	BangEq
	EqEqEq
	BangEqEq
	Amp
	Pipe
	Caret
	Bang
	Tilde
	AndAnd
	OrOr
	QuestionQuestion

	// assignment
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	StarStarAssign
	SlashAssign
	PercentAssign
	ShlAssign
	ShrAssign
	UShrAssign
	AmpAssign
	PipeAssign
	CaretAssign
	AndAndAssign
	OrOrAssign
	QuestionQuestionAssign

	// Backtick and At are lexed only to report them as unsupported.
	Backtick
	At
)

var kindNames = [...]string{
	Invalid:                "invalid",
	EOF:                    "end of file",
	Ident:                  "identifier",
	NumberLit:              "number",
	StringLit:              "string",
	KwBreak:                "break",
	KwCase:                 "case",
	KwCatch:                "catch",
	KwClass:                "class",
	KwConst:                "const",
	KwContinue:             "continue",
	KwDebugger:             "debugger",
	KwDefault:              "default",
	KwDelete:               "delete",
	KwDo:                   "do",
	KwElse:                 "else",
	KwExport:               "export",
	KwExtends:              "extends",
	KwFalse:                "false",
	KwFinally:              "finally",
	KwFor:                  "for",
	KwFunction:             "function",
	KwIf:                   "if",
	KwImport:               "import",
	KwIn:                   "in",
	KwInstanceof:           "instanceof",
	KwNew:                  "new",
	KwNull:                 "null",
	KwReturn:               "return",
	KwSuper:                "super",
	KwSwitch:               "switch",
	KwThis:                 "this",
	KwThrow:                "throw",
	KwTrue:                 "true",
	KwTry:                  "try",
	KwTypeof:               "typeof",
	KwVar:                  "var",
	KwVoid:                 "void",
	KwWhile:                "while",
	KwWith:                 "with",
	LParen:                 "(",
	RParen:                 ")",
	LBrace:                 "{",
	RBrace:                 "}",
	LBracket:               "[",
	RBracket:               "]",
	Semicolon:              ";",
	Comma:                  ",",
	Dot:                    ".",
	DotDotDot:              "...",
	Colon:                  ":",
	Question:               "?",
	QuestionDot:            "?.",
	FatArrow:               "=>",
	Hash:                   "#",
	Plus:                   "+",
	Minus:                  "-",
	Star:                   "*",
	StarStar:               "**",
	Slash:                  "/",
	Percent:                "%",
	PlusPlus:               "++",
	MinusMinus:             "--",
	Lt:                     "<",
	LtEq:                   "<=",
	Gt:                     ">",
	GtEq:                   ">=",
	Shl:                    "<<",
	Shr:                    ">>",
	UShr:                   ">>>",
	EqEq:                   "==",
	BangEq:                 "!=",
	EqEqEq:                 "===",
	BangEqEq:               "!==",
	Amp:                    "&",
	Pipe:                   "|",
	Caret:                  "^",
	Bang:                   "!",
	Tilde:                  "~",
	AndAnd:                 "&&",
	OrOr:                   "||",
	QuestionQuestion:       "??",
	Assign:                 "=",
	PlusAssign:             "+=",
	MinusAssign:            "-=",
	StarAssign:             "*=",
	StarStarAssign:         "**=",
	SlashAssign:            "/=",
	PercentAssign:          "%=",
	ShlAssign:              "<<=",
	ShrAssign:              ">>=",
	UShrAssign:             ">>>=",
	AmpAssign:              "&=",
	PipeAssign:             "|=",
	CaretAssign:            "^=",
	AndAndAssign:           "&&=",
	OrOrAssign:             "||=",
	QuestionQuestionAssign: "??=",
	Backtick:               "`",
	At:                     "@",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool { return k >= KwBreak && k <= KwWith }

// IsAssign reports whether the kind is "=" or a compound assignment.
func (k Kind) IsAssign() bool { return k >= Assign && k <= QuestionQuestionAssign }
