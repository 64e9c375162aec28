package jpeg

import (
	"errors"
	"fmt"
)

// Kind categorizes a decode failure.
type Kind int

const (
	// TruncatedStream means the byte source ended before the decoder
	// had enough bytes to satisfy a read.
	TruncatedStream Kind = iota + 1
	// BadMarker means the 0xFF/marker framing was violated, or an
	// unrecognized marker was encountered.
	BadMarker
	// BadSegment means a segment's declared length disagreed with its
	// body, or a field was out of range.
	BadSegment
	// BadTable means a Huffman table could not be built, or a
	// referenced table/channel index was undefined.
	BadTable
	// BadEntropy means an undefined Huffman code appeared in the
	// entropy stream, or a byte-stuffing violation occurred.
	BadEntropy
	// Unsupported means the stream used a feature out of scope for a
	// baseline sequential decoder.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case TruncatedStream:
		return "TruncatedStream"
	case BadMarker:
		return "BadMarker"
	case BadSegment:
		return "BadSegment"
	case BadTable:
		return "BadTable"
	case BadEntropy:
		return "BadEntropy"
	case Unsupported:
		return "Unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DecodeError is the error type returned for every decode failure.
type DecodeError struct {
	Kind    Kind
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsDecodeError extracts a *DecodeError from err, if any wraps one.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
