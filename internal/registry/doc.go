// Package registry provides the shared state container at the heart of the
// plugin system.
//
// A Handle wraps the process-wide registry state: the named request
// preprocessors published by plugins, and the stack of shutdown actions they
// registered to release their private resources. Every loaded plugin and every
// request-handling goroutine shares the same Handle, so all operations on it
// are atomic with respect to each other.
//
// The Handle does no routing and owns no plugin resources itself; it only
// coordinates when, and under which exit condition, plugin-supplied callbacks
// run.
package registry
