package freezer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/INLOpen/xtra/numeric"
)

// Error kinds. Every error a Reader produces while serving a request is an
// *Error whose Kind is one of these; errors returned by an Each callback are
// passed through unchanged.
var (
	ErrBlockRange   = errors.New("invalid block range")
	ErrOpenFile     = errors.New("open file")
	ErrSeekFile     = errors.New("seek file")
	ErrReadFile     = errors.New("read file")
	ErrConversion   = numeric.ErrConversion
	ErrFileMetadata = errors.New("file metadata")
	ErrBlockOffset  = errors.New("block offset")
	ErrDecompress   = errors.New("decompress record")
	ErrDecode       = errors.New("decode record")
	ErrCancelled    = errors.New("request cancelled")
)

// Error carries the kind of failure, where it happened and its cause.
type Error struct {
	Kind  error
	Path  string
	Block uint64
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Path != "" {
		fmt.Fprintf(&sb, " %s", e.Path)
	}
	if e.Block != 0 || e.Kind == ErrDecode || e.Kind == ErrDecompress || e.Kind == ErrBlockOffset {
		fmt.Fprintf(&sb, " (block %d)", e.Block)
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, path string, block uint64, err error) *Error {
	return &Error{Kind: kind, Path: path, Block: block, Err: err}
}

// IsRangeError reports whether err rejects the requested block range.
func IsRangeError(err error) bool {
	return errors.Is(err, ErrBlockRange)
}

// Cancelled wraps the error of a done ctx as an ErrCancelled *Error for the
// block the request stopped at. It returns nil while ctx is live.
func Cancelled(ctx context.Context, block uint64) error {
	if err := ctx.Err(); err != nil {
		return newError(ErrCancelled, "", block, err)
	}
	return nil
}

// KindOf returns the kind of a freezer error, or nil if err is not one.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return nil
}
