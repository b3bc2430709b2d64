package utils

import (
	"path/filepath"
	"strings"

	"github.com/orus-lang/orus/internal/config"
)

// Canonical resolves a `use` path relative to baseDir into the single
// identifier every stage agrees a module is keyed by: checker.Modules,
// modules.Loader's cache, and the canonical path stamped on a loaded
// ast.Program. An absolute, cleaned path with the source extension
// applied if path omitted one.
func Canonical(baseDir, path string) string {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(baseDir, full)
	}
	if !config.HasSourceExt(full) {
		full += config.SourceFileExt
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		abs = full
	}
	return filepath.Clean(abs)
}

// ExtractModuleName derives a module name from a file path.
// It takes the base filename and removes any recognized source extension.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, config.SourceFileExt)
}

// GetModuleDir returns the directory context for a module path.
// If the path points to a source file, returns the file's directory.
// If the path points to a directory (no extension), returns the path itself.
func GetModuleDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}
