// Package types holds the record shapes stored in the freezer and decodes
// them from an rlp.Stream.
package types

import (
	"fmt"
	"math/big"

	"github.com/INLOpen/xtra/rlp"
	"github.com/ethereum/go-ethereum/common"
)

// fields reads the members of a fixed-arity list in order. The first
// failure is kept, annotated with the field name, and every later read
// becomes a no-op.
type fields struct {
	s   *rlp.Stream
	err error
}

func (f *fields) fail(name string, err error) {
	if err != nil && f.err == nil {
		f.err = fmt.Errorf("%s: %w", name, err)
	}
}

func (f *fields) enter(name string) {
	if f.err == nil {
		f.fail(name, f.s.Enter())
	}
}

func (f *fields) end(name string) error {
	if f.err == nil {
		f.fail(name, f.s.End())
	}
	return f.err
}

func (f *fields) uint64(name string, v *uint64) {
	if f.err == nil {
		var err error
		*v, err = f.s.Uint64()
		f.fail(name, err)
	}
}

func (f *fields) big(name string, v **big.Int) {
	if f.err == nil {
		var err error
		*v, err = f.s.BigInt()
		f.fail(name, err)
	}
}

func (f *fields) bytes(name string, v *[]byte) {
	if f.err == nil {
		b, err := f.s.Bytes()
		f.fail(name, err)
		*v = common.CopyBytes(b)
	}
}

func (f *fields) array(name string, dst []byte) {
	if f.err == nil {
		f.fail(name, f.s.Array(dst))
	}
}

// address reads an optional recipient: the empty string means none.
func (f *fields) address(name string, v **common.Address) {
	if f.err != nil {
		return
	}
	b, err := f.s.Bytes()
	switch {
	case err != nil:
		f.fail(name, err)
	case len(b) == 0:
		*v = nil
	case len(b) == common.AddressLength:
		a := common.BytesToAddress(b)
		*v = &a
	default:
		f.fail(name, fmt.Errorf("%w: address of %d bytes", rlp.ErrConversion, len(b)))
	}
}

// list walks a variable-length list, calling each once per member.
func (f *fields) list(name string, each func(s *rlp.Stream) error) {
	if f.err == nil {
		f.fail(name, decodeList(f.s, each))
	}
}

func (f *fields) more() bool {
	return f.err == nil && f.s.More()
}

func decodeList(s *rlp.Stream, each func(s *rlp.Stream) error) error {
	if err := s.Enter(); err != nil {
		return err
	}
	for i := 0; ; i++ {
		ok, err := s.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := each(s); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
}
