package types

import (
	"math/big"

	"github.com/INLOpen/xtra/rlp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TotalDifficulty is the accumulated chain difficulty up to a block.
type TotalDifficulty struct {
	Value *big.Int
}

func (d *TotalDifficulty) DecodeRLP(s *rlp.Stream) error {
	v, err := s.BigInt()
	if err != nil {
		return err
	}
	d.Value = v
	return nil
}

func (d TotalDifficulty) String() string {
	if d.Value == nil {
		return "0"
	}
	return d.Value.String()
}

func (d TotalDifficulty) MarshalText() ([]byte, error) {
	if d.Value == nil {
		return []byte("0x0"), nil
	}
	return (*hexutil.Big)(d.Value).MarshalText()
}

// BlockHash is the canonical hash of a block. The freezer stores it as 32
// raw bytes, which the reader presents as an RLP string.
type BlockHash common.Hash

func (h *BlockHash) DecodeRLP(s *rlp.Stream) error {
	return s.Array(h[:])
}

func (h BlockHash) Hex() string { return common.Hash(h).Hex() }

func (h BlockHash) MarshalText() ([]byte, error) {
	return common.Hash(h).MarshalText()
}
