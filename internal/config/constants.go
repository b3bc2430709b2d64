// Package config holds process-wide constants shared across the
// compilation and execution pipeline, and the optional project file
// that tunes a few of them.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current Orus version.
var Version = "0.1.0"

const SourceFileExt = ".orus"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".orus"}

// HasSourceExt returns true if the path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode normalizes diagnostic rendering for golden-file comparisons.
var IsTestMode = false

// MaxGlobals is the number of named global slots a module may declare.
// §3 "Global slot table": slot index is a single byte.
const MaxGlobals = 256

// MaxFrames bounds call-frame recursion depth (§7 "Fatal: call-stack overflow").
const MaxFrames = 256

// MaxExceptionFrames bounds nested try/catch depth (§7 "Fatal: exception-frame overflow").
const MaxExceptionFrames = 64

// MaxStack bounds the operand stack.
const MaxStack = MaxFrames * 64

// GCInitialThreshold is the bytesAllocated level that triggers the first
// collection (§4.4). It doubles after every successful collection.
const GCInitialThreshold = 1 << 20 // 1 MiB

// GCGrowthFactor is applied to the threshold after each collection.
const GCGrowthFactor = 2

// Project is the optional orus.yaml project file, resolved relative to
// the entry source file's directory. Nil fields fall back to the
// constants above.
type Project struct {
	ModuleRoots    []string `yaml:"module_roots"`
	GCInitialBytes int      `yaml:"gc_initial_bytes"`
}

// LoadProject reads orus.yaml from dir, if present. A missing file is not
// an error: the zero Project is returned and callers use the package
// defaults.
func LoadProject(dir string) (*Project, error) {
	path := dir + string(os.PathSeparator) + "orus.yaml"
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, err
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// EffectiveGCThreshold returns the project's configured threshold, or the
// package default if unset.
func (p *Project) EffectiveGCThreshold() int {
	if p != nil && p.GCInitialBytes > 0 {
		return p.GCInitialBytes
	}
	return GCInitialThreshold
}
