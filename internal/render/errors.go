package render

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures so the orchestrator can decide
// absorb-vs-escalate by matching on kind instead of message text.
type ErrorKind int

const (
	// KindAssetUnavailable: no clips or images could be found at all.
	// Absorbed; the assembler substitutes a placeholder clip.
	KindAssetUnavailable ErrorKind = iota
	// KindSynthesisFailure: narration generation failed. Absorbed; the
	// render continues without narration.
	KindSynthesisFailure
	// KindDecodeFailure: one source clip could not be opened or processed.
	// Absorbed per clip; fatal only if it empties the whole pool.
	KindDecodeFailure
	// KindDurationProbeFailure: source duration could not be determined.
	// Fatal for the seamless loop path only; triggers the simple fallback.
	KindDurationProbeFailure
	// KindEncodeFailure: a final write step failed. Fatal.
	KindEncodeFailure
	// KindUnknownRecipe: the recipe name is not registered. Fatal, raised
	// before any asset fetching begins.
	KindUnknownRecipe
)

func (k ErrorKind) String() string {
	switch k {
	case KindAssetUnavailable:
		return "asset_unavailable"
	case KindSynthesisFailure:
		return "synthesis_failure"
	case KindDecodeFailure:
		return "decode_failure"
	case KindDurationProbeFailure:
		return "duration_probe_failure"
	case KindEncodeFailure:
		return "encode_failure"
	case KindUnknownRecipe:
		return "unknown_recipe"
	default:
		return "unknown"
	}
}

// Error is a pipeline failure tagged with its kind and the stage it
// occurred in.
type Error struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and stage tag.
func NewError(kind ErrorKind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// Errorf is NewError with a formatted message.
func Errorf(kind ErrorKind, stage, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Stage: stage, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the error kind from err's chain. The second return is
// false when err carries no kind, which callers treat as fatal.
func KindOf(err error) (ErrorKind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return 0, false
}

// IsKind reports whether err's chain carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
