// Package errors provides structured error types for the etf codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Decode errors carry the byte offset and wire tag, encode errors carry the
// offending value and its Go type.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindTruncatedBuffer).
//		Offset(12).
//		Tag(109).
//		Detail("binary length %d exceeds remaining %d", 40, 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownTag(offset, tag)
//	err := errors.TrailingData(offset, len(data))
//
// The Err* sentinels match on kind alone:
//
//	if errors.Is(err, etferrors.ErrTrailingData) { ... }
package errors
