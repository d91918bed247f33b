package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexBadEscape                Code = 1005
	LexUnsupportedSyntax        Code = 1006

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynUnclosedParen      Code = 2005
	SynUnclosedBrace      Code = 2006
	SynUnclosedBracket    Code = 2007
	SynInvalidTarget      Code = 2008
	SynForBadHeader       Code = 2009
	SynModuleItemNotTop   Code = 2010
	SynExpectModuleString Code = 2011
	SynUnsupported        Code = 2012

	// Понижение модулей
	ModInfo        Code = 3000
	ModUnsupported Code = 3001
	ModResolve     Code = 3002

	IOLoadFileError Code = 4001

	ProjInfo          Code = 5000
	ProjBadManifest   Code = 5001
	ProjUnknownFormat Code = 5002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexBadEscape:                "Invalid escape sequence",
		LexUnsupportedSyntax:        "Unsupported lexical syntax",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynInvalidTarget:            "Invalid assignment target",
		SynForBadHeader:             "Malformed for-loop header",
		SynModuleItemNotTop:         "Import or export outside module top level",
		SynExpectModuleString:       "Expected module specifier string",
		SynUnsupported:              "Unsupported syntax",
		ModInfo:                     "Module lowering information",
		ModUnsupported:              "Unsupported module shape",
		ModResolve:                  "Unresolved import",
		IOLoadFileError:             "I/O load file error",
		ProjInfo:                    "Project information",
		ProjBadManifest:             "Invalid project manifest",
		ProjUnknownFormat:           "Unknown output format",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
