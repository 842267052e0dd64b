// Package rlp parses Recursive Length Prefix encoded data without copying
// and drives typed decoding through a pull-style Stream.
package rlp

import (
	"encoding/hex"
	"fmt"

	"github.com/INLOpen/xtra/numeric"
)

// Kind identifies the shape of a parsed node.
type Kind uint8

const (
	Bytes Kind = iota
	List
	EmptyString
	EmptyList
)

func (k Kind) String() string {
	switch k {
	case Bytes:
		return "Bytes"
	case List:
		return "List"
	case EmptyString:
		return "EmptyString"
	case EmptyList:
		return "EmptyList"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsList reports whether nodes of this kind hold list members.
func (k Kind) IsList() bool { return k == List || k == EmptyList }

// Node is one RLP item. Payload borrows from the parsed buffer: for Bytes it
// is the string content, for List the raw encoded members, which are parsed
// only when the list is entered. The empty markers carry no payload.
type Node struct {
	Kind    Kind
	Payload []byte
}

func (n Node) String() string {
	switch n.Kind {
	case Bytes, List:
		const max = 32
		if len(n.Payload) > max {
			return fmt.Sprintf("%s(%s...+%d)", n.Kind, hex.EncodeToString(n.Payload[:max]), len(n.Payload)-max)
		}
		return fmt.Sprintf("%s(%s)", n.Kind, hex.EncodeToString(n.Payload))
	default:
		return n.Kind.String()
	}
}

// Parse recognizes the single item at the front of b and returns it together
// with the bytes that follow it. List contents are not parsed.
func Parse(b []byte) (Node, []byte, error) {
	if len(b) == 0 {
		return Node{}, nil, ErrNoInputLeft
	}
	switch p := b[0]; {
	case p == 0x80:
		return Node{Kind: EmptyString}, b[1:], nil
	case p == 0xc0:
		return Node{Kind: EmptyList}, b[1:], nil
	case p <= 0x7f:
		return Node{Kind: Bytes, Payload: b[:1:1]}, b[1:], nil
	case p <= 0xb7:
		return span(b, Bytes, 1, uint64(p-0x80))
	case p <= 0xbf:
		return longSpan(b, Bytes, int(p-0xb7))
	case p <= 0xf7:
		return span(b, List, 1, uint64(p-0xc0))
	default:
		return longSpan(b, List, int(p-0xf7))
	}
}

func longSpan(b []byte, kind Kind, lenOfLen int) (Node, []byte, error) {
	if len(b) <= lenOfLen {
		return Node{}, nil, fmt.Errorf("%w: %s length field needs %d bytes, %d available", ErrNoMatch, kind, lenOfLen, len(b)-1)
	}
	size := numeric.UintBEPadded(b[1 : 1+lenOfLen])
	return span(b, kind, 1+lenOfLen, size)
}

func span(b []byte, kind Kind, header int, size uint64) (Node, []byte, error) {
	avail := len(b) - header
	if size > uint64(avail) {
		return Node{}, nil, fmt.Errorf("%w: %s declares %d bytes, %d available", ErrNoMatch, kind, size, avail)
	}
	end := header + int(size)
	return Node{Kind: kind, Payload: b[header:end:end]}, b[end:], nil
}

// DecodeAll parses every top-level item in b.
func DecodeAll(b []byte) ([]Node, error) {
	var nodes []Node
	total := len(b)
	for len(b) > 0 {
		n, rest, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("item %d at byte %d: %w", len(nodes), total-len(b), err)
		}
		nodes = append(nodes, n)
		b = rest
	}
	return nodes, nil
}

// Split returns the encoded bytes of the item at the front of b and the rest.
func Split(b []byte) (item, rest []byte, err error) {
	_, rest, err = Parse(b)
	if err != nil {
		return nil, nil, err
	}
	return b[: len(b)-len(rest) : len(b)-len(rest)], rest, nil
}
