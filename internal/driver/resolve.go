package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSResolver completes relative specifiers against the file system the way
// Node resolves extensionless imports. Bare specifiers are left alone.
type FSResolver struct {
	// Extensions are tried in order when the specifier names no existing
	// file. Defaults to .js, .mjs, .cjs.
	Extensions []string
}

var errNotFound = errors.New("no such file")

func (r FSResolver) ResolveImport(base, specifier string) (string, error) {
	if !isRelative(specifier) {
		return specifier, nil
	}
	dir := filepath.Dir(base)
	target := filepath.Join(dir, filepath.FromSlash(specifier))
	if isFile(target) {
		return specifier, nil
	}
	exts := r.Extensions
	if len(exts) == 0 {
		exts = []string{".js", ".mjs", ".cjs"}
	}
	for _, ext := range exts {
		if isFile(target + ext) {
			return specifier + ext, nil
		}
	}
	for _, ext := range exts {
		index := "index" + ext
		if isFile(filepath.Join(target, index)) {
			return strings.TrimSuffix(specifier, "/") + "/" + index, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errNotFound, target)
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}
