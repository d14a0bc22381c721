// Package iotaa is an in-process, asset-driven task workflow engine. Tasks
// declare the assets they ready and the requirements they depend on; the
// engine runs only the tasks whose assets are not already ready, in
// dependency order, with optional bounded concurrency.
package iotaa
