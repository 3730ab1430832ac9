// Package internalcheck holds source-level policy tests for the engine.
//
// The tests load the engine packages with golang.org/x/tools/go/packages and
// walk their syntax trees looking for constructs that would leak secret
// values through timing or through formatted output. The package has no
// exported API and should not be imported.
package internalcheck
