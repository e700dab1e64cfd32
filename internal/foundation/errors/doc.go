// Package errors provides the classified error type shared by llmdocs packages.
//
// A ClassifiedError carries a category (what failed), a severity (how bad it
// is) and free-form context. Adapters translate it into CLI exit codes and
// HTTP responses so callers never switch on error strings.
//
//	err := errors.NewError(errors.CategoryFrontmatter, "invalid yaml").
//		Warning().
//		WithContext("path", rel).
//		WithCause(yamlErr).
//		Build()
package errors
