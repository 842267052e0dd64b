package rlp

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/INLOpen/xtra/numeric"
)

// LevelTrace is the slog level used for per-node decoder tracing.
const LevelTrace = slog.LevelDebug - 4

// Decoder is implemented by types that populate themselves from a Stream.
type Decoder interface {
	DecodeRLP(s *Stream) error
}

// Stream is a pull decoder over one RLP encoded value. It keeps a stack of
// the nodes on the path from the root to the cursor, each holding only its
// unconsumed remainder. Members are parsed lazily as they are requested.
//
// Scalar nodes are popped as soon as their remainder reaches zero. Lists are
// popped by Next returning false or by End, so the stack height always
// equals the current nesting depth.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	input  []byte
	stack  []Node
	logger *slog.Logger
}

// NewStream returns a Stream reading b. Returned byte slices alias b.
func NewStream(b []byte) *Stream {
	return &Stream{input: b, stack: make([]Node, 0, 8)}
}

// WithLogger enables trace output for every node pushed or popped when the
// logger accepts LevelTrace.
func (s *Stream) WithLogger(logger *slog.Logger) *Stream {
	if logger != nil && logger.Enabled(context.Background(), LevelTrace) {
		s.logger = logger
	}
	return s
}

// Reset discards all state and points the stream at b.
func (s *Stream) Reset(b []byte) {
	s.input = b
	s.stack = s.stack[:0]
}

// Depth returns the number of nodes on the stack.
func (s *Stream) Depth() int { return len(s.stack) }

// Done reports whether the whole input has been consumed.
func (s *Stream) Done() bool { return len(s.stack) == 0 && len(s.input) == 0 }

// Remaining returns the unconsumed length of the node in focus.
func (s *Stream) Remaining() (int, error) {
	top := s.top()
	if top == nil {
		return 0, ErrNoSizeHint
	}
	return len(top.Payload), nil
}

func (s *Stream) top() *Node {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

func (s *Stream) trace(msg string, n Node) {
	if s.logger == nil {
		return
	}
	s.logger.Log(context.Background(), LevelTrace, msg, "depth", len(s.stack), "node", n.String())
}

func (s *Stream) pop() {
	n := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.trace("pop", n)
}

// source returns the byte span the next member is parsed from: the focused
// list's remainder, or the top-level input when nothing is in focus.
func (s *Stream) source() (*[]byte, error) {
	top := s.top()
	if top == nil {
		if len(s.input) == 0 {
			return nil, ErrNoInputLeft
		}
		return &s.input, nil
	}
	if !top.Kind.IsList() {
		return nil, fmt.Errorf("%w: %s has %d unread bytes", ErrUnexpectedMatch, top.Kind, len(top.Payload))
	}
	if len(top.Payload) == 0 {
		return nil, ErrNoInputLeft
	}
	return &top.Payload, nil
}

// advance parses the next member and pushes it.
func (s *Stream) advance() (*Node, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	n, rest, err := Parse(*src)
	if err != nil {
		return nil, err
	}
	*src = rest
	s.stack = append(s.stack, n)
	s.trace("push", n)
	return s.top(), nil
}

// Kind reports the kind and payload size of the next value without
// consuming it. A partly consumed byte string in focus is reported as is.
func (s *Stream) Kind() (Kind, int, error) {
	if top := s.top(); top != nil && !top.Kind.IsList() {
		return top.Kind, len(top.Payload), nil
	}
	src, err := s.source()
	if err != nil {
		return 0, 0, err
	}
	n, _, err := Parse(*src)
	if err != nil {
		return 0, 0, err
	}
	return n.Kind, len(n.Payload), nil
}

// Enter descends into the next member, which must be a list.
func (s *Stream) Enter() error {
	n, err := s.advance()
	if err != nil {
		return err
	}
	if !n.Kind.IsList() {
		return fmt.Errorf("%w: want list, got %s", ErrUnexpectedMatch, n.Kind)
	}
	return nil
}

// Next reports whether the focused list has another member. When it has
// none the list is popped and Next returns false, ending a sequence.
func (s *Stream) Next() (bool, error) {
	top := s.top()
	if top == nil {
		return false, ErrNoSizeHint
	}
	if !top.Kind.IsList() {
		return false, fmt.Errorf("%w: sequence step on %s", ErrUnexpectedMatch, top.Kind)
	}
	if len(top.Payload) == 0 {
		s.pop()
		return false, nil
	}
	return true, nil
}

// More reports whether the focused list still has members. It never pops
// and is meant for optional trailing fields.
func (s *Stream) More() bool {
	top := s.top()
	return top != nil && top.Kind == List && len(top.Payload) > 0
}

// Field asserts that a fixed-arity list in focus holds another member.
// Unlike Next, exhaustion is an error.
func (s *Stream) Field() error {
	_, err := s.source()
	return err
}

// End closes the focused list, which must be fully consumed.
func (s *Stream) End() error {
	top := s.top()
	if top == nil {
		return ErrNoInputLeft
	}
	if !top.Kind.IsList() {
		return fmt.Errorf("%w: end of list on %s", ErrUnexpectedMatch, top.Kind)
	}
	if len(top.Payload) != 0 {
		return fmt.Errorf("%w: list has %d trailing bytes", ErrUnexpectedMatch, len(top.Payload))
	}
	s.pop()
	return nil
}

// scalar returns the byte string to read from: the partly consumed one in
// focus, or the next member.
func (s *Stream) scalar() (*Node, error) {
	if top := s.top(); top != nil && !top.Kind.IsList() {
		return top, nil
	}
	n, err := s.advance()
	if err != nil {
		return nil, err
	}
	if n.Kind.IsList() {
		return nil, fmt.Errorf("%w: want byte string, got %s", ErrUnexpectedMatch, n.Kind)
	}
	return n, nil
}

// take consumes up to width low-order bytes of the focused string.
func (s *Stream) take(width int) ([]byte, error) {
	n, err := s.scalar()
	if err != nil {
		return nil, err
	}
	b := n.Payload
	if len(b) > width {
		n.Payload = b[:len(b)-width]
		b = b[len(b)-width:]
	} else {
		n.Payload = nil
	}
	s.release()
	return b, nil
}

// release pops the focused byte string once nothing is left of it.
func (s *Stream) release() {
	if top := s.top(); top != nil && !top.Kind.IsList() && len(top.Payload) == 0 {
		s.pop()
	}
}

// Uint8 consumes the lowest-order byte of the focused string.
func (s *Stream) Uint8() (uint8, error) {
	b, err := s.take(1)
	if err != nil || len(b) == 0 {
		return 0, err
	}
	return b[0], nil
}

// Uint32 consumes up to four low-order bytes of the focused string.
func (s *Stream) Uint32() (uint32, error) {
	b, err := s.take(4)
	if err != nil {
		return 0, err
	}
	return numeric.Uint32EndBE(b), nil
}

// Uint64 consumes up to eight low-order bytes of the focused string.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.take(8)
	if err != nil {
		return 0, err
	}
	return numeric.Uint64EndBE(b), nil
}

// Array fills dst with exactly len(dst) bytes. An empty string yields zeros.
func (s *Stream) Array(dst []byte) error {
	n, err := s.scalar()
	if err != nil {
		return err
	}
	if n.Kind == EmptyString {
		clear(dst)
		s.release()
		return nil
	}
	if len(n.Payload) < len(dst) {
		return fmt.Errorf("%w: want %d bytes, string has %d", ErrConversion, len(dst), len(n.Payload))
	}
	b, err := s.take(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// Bytes consumes the rest of the focused string. The result aliases the input.
func (s *Stream) Bytes() ([]byte, error) {
	n, err := s.scalar()
	if err != nil {
		return nil, err
	}
	b := n.Payload
	if b == nil {
		b = []byte{}
	}
	n.Payload = nil
	s.release()
	return b, nil
}

// BigInt consumes the rest of the focused string as a big-endian integer.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// Raw consumes the next member and returns its complete encoding.
func (s *Stream) Raw() ([]byte, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	item, rest, err := Split(*src)
	if err != nil {
		return nil, err
	}
	*src = rest
	return item, nil
}

// Skip discards the next member.
func (s *Stream) Skip() error {
	_, err := s.Raw()
	return err
}

// Decode hands the stream to v.
func (s *Stream) Decode(v Decoder) error {
	return v.DecodeRLP(s)
}

// DecodeBytes decodes b into v and requires b to hold exactly one value.
func DecodeBytes(b []byte, v Decoder) error {
	s := NewStream(b)
	if err := v.DecodeRLP(s); err != nil {
		return err
	}
	if !s.Done() {
		return fmt.Errorf("%w: %d bytes left after value", ErrUnexpectedMatch, len(s.input))
	}
	return nil
}
