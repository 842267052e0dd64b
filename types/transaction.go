package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/INLOpen/xtra/rlp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction envelope types.
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
)

// ErrTxTypeEmpty is returned for a typed transaction envelope with no bytes.
var ErrTxTypeEmpty = errors.New("typed transaction too short")

// AccessTuple is one entry of an access list.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// Transaction is a transaction as stored in a block body. Legacy
// transactions are lists; typed ones are byte strings holding the type
// byte followed by the encoded payload. Types this package does not know
// keep their envelope in Raw and leave every other field unset.
type Transaction struct {
	Type       uint8
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *big.Int
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         *common.Address
	Value      *big.Int
	Data       []byte
	AccessList []AccessTuple

	BlobFeeCap *big.Int
	BlobHashes []common.Hash

	V, R, S *big.Int

	Raw []byte
}

func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	kind, _, err := s.Kind()
	if err != nil {
		return err
	}
	if kind.IsList() {
		tx.Type = LegacyTxType
		return tx.decodeLegacy(s)
	}
	envelope, err := s.Bytes()
	if err != nil {
		return err
	}
	return tx.decodeTyped(envelope)
}

func (tx *Transaction) decodeLegacy(s *rlp.Stream) error {
	f := fields{s: s}
	f.enter("tx")
	f.uint64("nonce", &tx.Nonce)
	f.big("gasPrice", &tx.GasPrice)
	f.uint64("gas", &tx.Gas)
	f.address("to", &tx.To)
	f.big("value", &tx.Value)
	f.bytes("input", &tx.Data)
	f.big("v", &tx.V)
	f.big("r", &tx.R)
	f.big("s", &tx.S)
	return f.end("tx")
}

func (tx *Transaction) decodeTyped(envelope []byte) error {
	if len(envelope) == 0 {
		return ErrTxTypeEmpty
	}
	tx.Type = envelope[0]
	s := rlp.NewStream(envelope[1:])
	f := fields{s: s}

	switch tx.Type {
	case AccessListTxType:
		f.enter("tx")
		f.big("chainId", &tx.ChainID)
		f.uint64("nonce", &tx.Nonce)
		f.big("gasPrice", &tx.GasPrice)
		f.uint64("gas", &tx.Gas)
		f.address("to", &tx.To)
		f.big("value", &tx.Value)
		f.bytes("input", &tx.Data)
		f.list("accessList", tx.decodeAccessTuple)
	case DynamicFeeTxType, BlobTxType:
		f.enter("tx")
		f.big("chainId", &tx.ChainID)
		f.uint64("nonce", &tx.Nonce)
		f.big("maxPriorityFeePerGas", &tx.GasTipCap)
		f.big("maxFeePerGas", &tx.GasFeeCap)
		f.uint64("gas", &tx.Gas)
		f.address("to", &tx.To)
		f.big("value", &tx.Value)
		f.bytes("input", &tx.Data)
		f.list("accessList", tx.decodeAccessTuple)
		if tx.Type == BlobTxType {
			f.big("maxFeePerBlobGas", &tx.BlobFeeCap)
			f.list("blobVersionedHashes", func(s *rlp.Stream) error {
				var h common.Hash
				if err := s.Array(h[:]); err != nil {
					return err
				}
				tx.BlobHashes = append(tx.BlobHashes, h)
				return nil
			})
		}
	default:
		tx.Raw = common.CopyBytes(envelope)
		return nil
	}
	f.big("v", &tx.V)
	f.big("r", &tx.R)
	f.big("s", &tx.S)
	if err := f.end("tx"); err != nil {
		return fmt.Errorf("type %d: %w", tx.Type, err)
	}
	if !s.Done() {
		return fmt.Errorf("type %d: %w: trailing bytes after payload", tx.Type, rlp.ErrUnexpectedMatch)
	}
	return nil
}

func (tx *Transaction) decodeAccessTuple(s *rlp.Stream) error {
	var at AccessTuple
	f := fields{s: s}
	f.enter("accessTuple")
	f.array("address", at.Address[:])
	f.list("storageKeys", func(s *rlp.Stream) error {
		var key common.Hash
		if err := s.Array(key[:]); err != nil {
			return err
		}
		at.StorageKeys = append(at.StorageKeys, key)
		return nil
	})
	if err := f.end("accessTuple"); err != nil {
		return err
	}
	tx.AccessList = append(tx.AccessList, at)
	return nil
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	type transaction struct {
		Type       hexutil.Uint64  `json:"type"`
		ChainID    *hexutil.Big    `json:"chainId,omitempty"`
		Nonce      hexutil.Uint64  `json:"nonce"`
		GasPrice   *hexutil.Big    `json:"gasPrice,omitempty"`
		GasTipCap  *hexutil.Big    `json:"maxPriorityFeePerGas,omitempty"`
		GasFeeCap  *hexutil.Big    `json:"maxFeePerGas,omitempty"`
		Gas        hexutil.Uint64  `json:"gas"`
		To         *common.Address `json:"to"`
		Value      *hexutil.Big    `json:"value"`
		Data       hexutil.Bytes   `json:"input"`
		AccessList []AccessTuple   `json:"accessList,omitempty"`
		BlobFeeCap *hexutil.Big    `json:"maxFeePerBlobGas,omitempty"`
		BlobHashes []common.Hash   `json:"blobVersionedHashes,omitempty"`
		V          *hexutil.Big    `json:"v"`
		R          *hexutil.Big    `json:"r"`
		S          *hexutil.Big    `json:"s"`
	}
	if tx.Raw != nil {
		return json.Marshal(struct {
			Type hexutil.Uint64 `json:"type"`
			Raw  hexutil.Bytes  `json:"raw"`
		}{hexutil.Uint64(tx.Type), tx.Raw})
	}
	return json.Marshal(transaction{
		Type:       hexutil.Uint64(tx.Type),
		ChainID:    (*hexutil.Big)(tx.ChainID),
		Nonce:      hexutil.Uint64(tx.Nonce),
		GasPrice:   (*hexutil.Big)(tx.GasPrice),
		GasTipCap:  (*hexutil.Big)(tx.GasTipCap),
		GasFeeCap:  (*hexutil.Big)(tx.GasFeeCap),
		Gas:        hexutil.Uint64(tx.Gas),
		To:         tx.To,
		Value:      (*hexutil.Big)(tx.Value),
		Data:       tx.Data,
		AccessList: tx.AccessList,
		BlobFeeCap: (*hexutil.Big)(tx.BlobFeeCap),
		BlobHashes: tx.BlobHashes,
		V:          (*hexutil.Big)(tx.V),
		R:          (*hexutil.Big)(tx.R),
		S:          (*hexutil.Big)(tx.S),
	})
}
