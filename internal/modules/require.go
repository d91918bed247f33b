package modules

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"lowerjs/internal/ast"
	"lowerjs/internal/source"
)

// ImportResolver maps a specifier written in the module at base to the
// specifier the output should load.
type ImportResolver interface {
	ResolveImport(base, specifier string) (string, error)
}

// ImportResolverFunc adapts a function to ImportResolver.
type ImportResolverFunc func(base, specifier string) (string, error)

func (f ImportResolverFunc) ResolveImport(base, specifier string) (string, error) {
	return f(base, specifier)
}

// ResolveSpecifier runs src through the resolver, if any.
func ResolveSpecifier(resolver ImportResolver, base, src string) (string, error) {
	if resolver == nil {
		return src, nil
	}
	out, err := resolver.ResolveImport(base, src)
	if err != nil {
		return "", &ResolutionError{Base: base, Specifier: src, Err: err}
	}
	return out, nil
}

// MakeRequireCall builds require("src") with the resolved specifier.
func MakeRequireCall(resolver ImportResolver, base string, require ast.Ident, src string) (ast.Expr, error) {
	resolved, err := ResolveSpecifier(resolver, base, src)
	if err != nil {
		return ast.Expr{}, err
	}
	return ast.Call(source.NoSpan, ast.IdentExpr(require), ast.Str(source.NoSpan, resolved)), nil
}

// LocalNameForSrc derives the accessor spelling for a specifier: "_" followed
// by the camel-cased last path segment, e.g. "./foo-bar" gives "_fooBar".
func LocalNameForSrc(src string) string {
	src = norm.NFC.String(src)
	if i := strings.LastIndexByte(src, '/'); i >= 0 {
		src = src[i+1:]
	}
	words := splitWords(src)
	if len(words) == 0 {
		return "_module"
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	var sb strings.Builder
	sb.WriteByte('_')
	sb.WriteString(lower.String(words[0]))
	for _, w := range words[1:] {
		sb.WriteString(title.String(w))
	}
	return sb.String()
}

// splitWords breaks s at every character that cannot appear in an
// identifier and at lower-to-upper case changes.
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
		prev  rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			flush()
		}
		cur = append(cur, r)
		prev = r
	}
	flush()
	return words
}
