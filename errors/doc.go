// Package errors provides structured error types for the sksl-runtime module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the byte offset at which a violation was detected,
// the command being decoded, and a cause chain.
//
// Every structural violation found while rehydrating an artifact is fatal for
// the session: decoders return the first *Error and never a partial result.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindArity).
//		Offset(112).
//		Command("ConstructorSplat").
//		Detail("expected 1 argument, got %d", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownCommand(off, "statement", tag)
//	err := errors.UnresolvedID(off, id)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
