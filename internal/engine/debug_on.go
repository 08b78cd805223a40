//go:build oscidebug

package engine

const strictPreconditions = true
