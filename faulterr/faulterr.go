// Package faulterr defines the error taxonomy shared by every package in
// this module. Each sentinel maps to one diagnostic category; callers wrap
// a sentinel with github.com/pkg/errors to attach call-site context and use
// errors.Cause (or errors.Is) to recover the category.
package faulterr

import "github.com/pkg/errors"

var (
	// ErrParse marks a malformed netlist or pattern file.
	ErrParse = errors.New("parse error")
	// ErrUnknownNet marks a reference to a net outside the declared vocabulary.
	ErrUnknownNet = errors.New("unknown net")
	// ErrUnknownGate marks a reference to a gate type outside {AND,OR,NAND,NOR,XOR,XNOR,NOT,BUF}.
	ErrUnknownGate = errors.New("unknown gate type")
	// ErrNonBinaryValue marks a pattern or expected-output value not in {0,1}.
	ErrNonBinaryValue = errors.New("non-binary value")
	// ErrMissingExpectedOutput marks a pattern row whose provided_outputs is
	// non-empty but does not cover every primary output.
	ErrMissingExpectedOutput = errors.New("missing expected output")
	// ErrExpectedOutputMismatch marks a pattern row whose provided_outputs
	// disagrees with the golden reference the engine computes for it.
	ErrExpectedOutputMismatch = errors.New("provided output disagrees with golden reference")
	// ErrArityMismatch marks a NOT/BUF gate with other than one input, or any
	// gate declared with zero inputs.
	ErrArityMismatch = errors.New("gate arity mismatch")
	// ErrCombinationalLoop marks a levelizer sweep that made no progress
	// while gates remained unplaced.
	ErrCombinationalLoop = errors.New("combinational loop or missing dependency")
	// ErrUnresolvedNet marks an evaluator request for a net with no computed
	// value yet. Indicates an engine bug, not a user error.
	ErrUnresolvedNet = errors.New("unresolved net")
	// ErrUnfilledPattern marks a writer invoked on a pattern row the engine
	// has not finished filling.
	ErrUnfilledPattern = errors.New("unfilled pattern")
	// ErrTransportFailure marks a message-passing or GPU backend failure.
	ErrTransportFailure = errors.New("transport failure")
	// ErrIO marks a file open/read/write failure.
	ErrIO = errors.New("io error")
)
