package freezer

import (
	"github.com/INLOpen/xtra/compressors"
)

// decompressor turns stored records into RLP items.
type decompressor struct {
	codec compressors.Compressor
}

// apply decompresses rec for compressed categories and returns it
// unchanged, without copying, for the others.
func (d decompressor) apply(cat Category, rec []byte) ([]byte, error) {
	if !cat.Compressed() {
		return rec, nil
	}
	out, err := d.codec.Decompress(rec)
	if err != nil {
		decompressErrors.Add(1)
		return nil, err
	}
	return out, nil
}

// wrapRaw prefixes a bare value with its RLP string header so it decodes
// like any other record.
func wrapRaw(v []byte) []byte {
	var out []byte
	switch n := len(v); {
	case n < 56:
		out = make([]byte, 0, n+1)
		out = append(out, 0x80+byte(n))
	default:
		var lenBytes []byte
		for x := n; x > 0; x >>= 8 {
			lenBytes = append([]byte{byte(x)}, lenBytes...)
		}
		out = make([]byte, 0, n+1+len(lenBytes))
		out = append(out, 0xb7+byte(len(lenBytes)))
		out = append(out, lenBytes...)
	}
	return append(out, v...)
}
