// Package errs provides the typed errors shared by the fulfillment service.
//
// Every error kind follows the same shape:
//   - a sentinel value (ErrObjectNotFound, ErrConflict, ...) used with errors.Is
//   - a struct carrying the offending parameter and an optional Cause
//   - New... and New...WithCause constructors
//   - Error() for the message and Unwrap() returning the sentinel
//
// The kinds map onto the failure classes callers act on:
//   - ObjectNotFoundError: a fulfillment order, item or source order is missing
//   - ConflictError: the object already exists (second fulfillment order for a source order)
//   - InvalidStateError: the object is in a state that forbids the operation
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: validation failures
//   - DependencyError: an external collaborator (sequence generator, rate table, broker) failed
//
// IsValidation reports whether an error belongs to one of the validation kinds.
package errs
