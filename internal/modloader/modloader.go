// Package modloader resolves a CLI module identifier to an iotaa.Module.
//
// A module identifier is either an importable Go plugin path (a .so built
// with `go build -buildmode=plugin`) or a filesystem path to one; in the
// latter case the containing directory is added to the search path before
// loading, matching spec.md's "if the latter, its directory is added to the
// module search path before loading." This package is CLI glue only — the
// engine core never imports "plugin" (spec.md §1 scope).
package modloader

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"

	"github.com/maddenp/iotaa-go"
)

// searchPath holds directories to consult, in order, when an identifier
// does not end in ".so".
var searchPath []string

// AddSearchDir appends dir to the module search path.
func AddSearchDir(dir string) {
	searchPath = append(searchPath, dir)
}

// Load resolves identifier to a Module by opening it as a Go plugin and
// looking up its required "Tasks" and optional "TaskDocs" symbols.
func Load(identifier string) (iotaa.Module, error) {
	path, err := resolve(identifier)
	if err != nil {
		return nil, err
	}

	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("iotaa: cannot load module %q: %w", identifier, err)
	}

	tasksSym, err := p.Lookup("Tasks")
	if err != nil {
		return nil, fmt.Errorf("iotaa: module %q exposes no Tasks symbol: %w", identifier, err)
	}
	tasksFn, ok := tasksSym.(func() map[string]iotaa.TaskFunc)
	if !ok {
		return nil, fmt.Errorf("iotaa: module %q Tasks symbol has the wrong signature", identifier)
	}

	docs := map[string]string{}
	if docsSym, err := p.Lookup("TaskDocs"); err == nil {
		if fn, ok := docsSym.(func() map[string]string); ok {
			docs = fn()
		}
	}

	return &pluginModule{tasks: tasksFn(), docs: docs}, nil
}

// resolve turns identifier into a path plugin.Open can open: identifier
// itself if it ends in ".so" (whether or not that file exists), otherwise
// the first existing identifier+".so" under the directories added via
// AddSearchDir, in order, falling back to identifier+".so" as given.
func resolve(identifier string) (string, error) {
	if filepath.Ext(identifier) == ".so" {
		return identifier, nil
	}
	for _, dir := range searchPath {
		candidate := filepath.Join(dir, identifier+".so")
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return identifier + ".so", nil
}

type pluginModule struct {
	tasks map[string]iotaa.TaskFunc
	docs  map[string]string
}

func (m *pluginModule) Tasks() map[string]iotaa.TaskFunc { return m.tasks }

func (m *pluginModule) TaskDoc(name string) string { return m.docs[name] }

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
