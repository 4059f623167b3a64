// Package errors provides the classified error primitives used across ralog.
//
// Every failure that reaches the command line carries an ErrorCategory so the
// CLI adapter can pick an exit code and a message without string matching.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page").
//		WithContext("path", out).
//		Build()
package errors
