// Package errors provides the classified error primitives used across blogbuilder.
//
// Every fatal condition of a build (unreadable content, malformed front matter,
// duplicate or unsafe slugs, broken templates) is reported as a ClassifiedError
// carrying a category, a severity and a context map with the offending path or
// slug. The CLI adapter maps categories to process exit codes.
//
// Example usage:
//
//	err := errors.FrontMatterError("invalid front matter").
//		WithContext("path", doc.RelPath).
//		WithCause(parseErr).
//		Build()
package errors
