package sema

import (
	"fmt"

	"polyc/internal/diag"
	"polyc/internal/source"
)

var emptySpan source.Span

// SemanticError is returned by extension hooks. The pass reports it at the
// node and carries on with the node unchanged.
type SemanticError struct {
	Code  diag.Code
	Msg   string
	Span  source.Span
	Fixes []diag.Fix
}

func (e *SemanticError) Error() string { return e.Msg }

// WithFix attaches a suggested fix to the reported diagnostic.
func (e *SemanticError) WithFix(fix diag.Fix) *SemanticError {
	e.Fixes = append(e.Fixes, fix)
	return e
}

// Errorf builds a SemanticError. A zero span means "the node being checked".
func Errorf(code diag.Code, sp source.Span, format string, args ...any) *SemanticError {
	return &SemanticError{Code: code, Msg: fmt.Sprintf(format, args...), Span: sp}
}
