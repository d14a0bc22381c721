// Package invoke calls a loaded module's root task function with coerced
// positional arguments.
package invoke

import (
	"fmt"
	"reflect"

	"github.com/maddenp/iotaa-go"
)

// Root looks up name in module's task table and calls it with args via
// reflection, returning the resulting Node. Reflection (rather than a
// direct call) is what lets the CLI invoke a task function loaded from a
// plugin it was never compiled against, the same problem the original
// dynamic-module CLI surface poses (spec.md §6 "module discovery and
// dynamic task invocation").
func Root(mod iotaa.Module, name string, args []any) (*iotaa.Node, error) {
	fn, ok := mod.Tasks()[name]
	if !ok {
		return nil, fmt.Errorf("iotaa: module has no task named %q", name)
	}

	fv := reflect.ValueOf(fn)
	anyType := reflect.TypeOf((*any)(nil)).Elem()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.Zero(anyType)
			continue
		}
		in[i] = reflect.ValueOf(a)
	}

	out := fv.Call(in)
	if len(out) != 1 {
		return nil, fmt.Errorf("iotaa: task %q returned %d values, expected 1", name, len(out))
	}
	node, ok := out[0].Interface().(*iotaa.Node)
	if !ok || node == nil {
		return nil, fmt.Errorf("iotaa: task %q returned no node", name)
	}
	return node, nil
}

// FirstTask returns the name of an arbitrary task in module, for the case
// where the CLI is given no explicit root task name. Modules with more
// than one task must be invoked with an explicit name; this is only a
// convenience for single-task modules.
func FirstTask(mod iotaa.Module) (string, error) {
	tasks := mod.Tasks()
	if len(tasks) != 1 {
		return "", fmt.Errorf("iotaa: module defines %d tasks; a root task name is required", len(tasks))
	}
	for name := range tasks {
		return name, nil
	}
	return "", fmt.Errorf("iotaa: module defines no tasks")
}
