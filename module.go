package iotaa

// TaskFunc is the shape every task-constructor function in a loadable
// module must have: it takes the task's positional arguments and returns
// the Node produced by a Basic/Collection/External declaration (spec §1
// "module discovery and dynamic task invocation" is CLI glue built on top
// of this signature, not part of the engine core).
type TaskFunc func(args ...any) *Node

// Module is what the CLI's loader resolves a module identifier to: a
// string-keyed lookup of every task function the module exposes, plus an
// optional one-line doc string per task for the `-s` show listing.
type Module interface {
	Tasks() map[string]TaskFunc
	TaskDoc(name string) string
}
