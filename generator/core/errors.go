package core

import (
	"errors"
	"fmt"
)

var (
	ErrParse         = errors.New("parse error")
	ErrAnnotation    = errors.New("annotation error")
	ErrCompiler      = errors.New("compiler error")
	ErrIO            = errors.New("io error")
	ErrConfiguration = errors.New("configuration error")
)

// ParseError reports a missing structural region or an unsupported declaration.
// It is fatal: no output is written when the parser returns one.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// AnnotationError reports a malformed inline annotation. Callers recover from it
// by falling back to the default value.
type AnnotationError struct {
	Line       int
	Annotation string
	Err        error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("line %d: invalid annotation %q: %v", e.Line, e.Annotation, e.Err)
}

func (e *AnnotationError) Unwrap() error { return e.Err }

func (e *AnnotationError) Is(target error) bool { return target == ErrAnnotation }

// CompilerError carries the diagnostics printed by the external shader compiler.
type CompilerError struct {
	Stage       string
	Diagnostics string
	Err         error
}

func (e *CompilerError) Error() string {
	msg := fmt.Sprintf("compiling %s stage", e.Stage)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Diagnostics != "" {
		msg += "\n" + e.Diagnostics
	}
	return msg
}

func (e *CompilerError) Unwrap() error { return e.Err }

func (e *CompilerError) Is(target error) bool { return target == ErrCompiler }

type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
