//go:build !oscidebug

package engine

// strictPreconditions makes ingestion precondition violations panic.
// Build with -tags oscidebug to enable it.
const strictPreconditions = false
