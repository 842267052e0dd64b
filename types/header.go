package types

import (
	"encoding/json"
	"math/big"

	"github.com/INLOpen/xtra/rlp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BloomLength is the size of a header's log bloom filter.
const BloomLength = 256

// Bloom is the log bloom filter of a header.
type Bloom [BloomLength]byte

func (b Bloom) MarshalText() ([]byte, error) {
	return hexutil.Bytes(b[:]).MarshalText()
}

// BlockNonce is the proof-of-work nonce of a header.
type BlockNonce [8]byte

func (n BlockNonce) MarshalText() ([]byte, error) {
	return hexutil.Bytes(n[:]).MarshalText()
}

// Uint64 returns the nonce as an integer.
func (n BlockNonce) Uint64() uint64 {
	return new(big.Int).SetBytes(n[:]).Uint64()
}

// Header is a block header. The fields after Nonce were added by later forks
// and are nil for headers that predate them.
type Header struct {
	ParentHash  common.Hash
	UncleHash   common.Hash
	Coinbase    common.Address
	Root        common.Hash
	TxHash      common.Hash
	ReceiptHash common.Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       BlockNonce

	BaseFee          *big.Int
	WithdrawalsHash  *common.Hash
	BlobGasUsed      *uint64
	ExcessBlobGas    *uint64
	ParentBeaconRoot *common.Hash
	RequestsHash     *common.Hash
}

func (h *Header) DecodeRLP(s *rlp.Stream) error {
	f := fields{s: s}
	f.enter("header")
	f.array("parentHash", h.ParentHash[:])
	f.array("sha3Uncles", h.UncleHash[:])
	f.array("miner", h.Coinbase[:])
	f.array("stateRoot", h.Root[:])
	f.array("transactionsRoot", h.TxHash[:])
	f.array("receiptsRoot", h.ReceiptHash[:])
	f.array("logsBloom", h.Bloom[:])
	f.big("difficulty", &h.Difficulty)
	f.big("number", &h.Number)
	f.uint64("gasLimit", &h.GasLimit)
	f.uint64("gasUsed", &h.GasUsed)
	f.uint64("timestamp", &h.Time)
	f.bytes("extraData", &h.Extra)
	f.array("mixHash", h.MixDigest[:])
	f.array("nonce", h.Nonce[:])

	if f.more() {
		f.big("baseFeePerGas", &h.BaseFee)
	}
	if f.more() {
		h.WithdrawalsHash = new(common.Hash)
		f.array("withdrawalsRoot", h.WithdrawalsHash[:])
	}
	if f.more() {
		h.BlobGasUsed = new(uint64)
		f.uint64("blobGasUsed", h.BlobGasUsed)
	}
	if f.more() {
		h.ExcessBlobGas = new(uint64)
		f.uint64("excessBlobGas", h.ExcessBlobGas)
	}
	if f.more() {
		h.ParentBeaconRoot = new(common.Hash)
		f.array("parentBeaconBlockRoot", h.ParentBeaconRoot[:])
	}
	if f.more() {
		h.RequestsHash = new(common.Hash)
		f.array("requestsHash", h.RequestsHash[:])
	}
	return f.end("header")
}

func (h *Header) MarshalJSON() ([]byte, error) {
	type header struct {
		ParentHash       common.Hash     `json:"parentHash"`
		UncleHash        common.Hash     `json:"sha3Uncles"`
		Coinbase         common.Address  `json:"miner"`
		Root             common.Hash     `json:"stateRoot"`
		TxHash           common.Hash     `json:"transactionsRoot"`
		ReceiptHash      common.Hash     `json:"receiptsRoot"`
		Bloom            Bloom           `json:"logsBloom"`
		Difficulty       *hexutil.Big    `json:"difficulty"`
		Number           *hexutil.Big    `json:"number"`
		GasLimit         hexutil.Uint64  `json:"gasLimit"`
		GasUsed          hexutil.Uint64  `json:"gasUsed"`
		Time             hexutil.Uint64  `json:"timestamp"`
		Extra            hexutil.Bytes   `json:"extraData"`
		MixDigest        common.Hash     `json:"mixHash"`
		Nonce            BlockNonce      `json:"nonce"`
		BaseFee          *hexutil.Big    `json:"baseFeePerGas,omitempty"`
		WithdrawalsHash  *common.Hash    `json:"withdrawalsRoot,omitempty"`
		BlobGasUsed      *hexutil.Uint64 `json:"blobGasUsed,omitempty"`
		ExcessBlobGas    *hexutil.Uint64 `json:"excessBlobGas,omitempty"`
		ParentBeaconRoot *common.Hash    `json:"parentBeaconBlockRoot,omitempty"`
		RequestsHash     *common.Hash    `json:"requestsHash,omitempty"`
	}
	return json.Marshal(header{
		ParentHash:       h.ParentHash,
		UncleHash:        h.UncleHash,
		Coinbase:         h.Coinbase,
		Root:             h.Root,
		TxHash:           h.TxHash,
		ReceiptHash:      h.ReceiptHash,
		Bloom:            h.Bloom,
		Difficulty:       (*hexutil.Big)(h.Difficulty),
		Number:           (*hexutil.Big)(h.Number),
		GasLimit:         hexutil.Uint64(h.GasLimit),
		GasUsed:          hexutil.Uint64(h.GasUsed),
		Time:             hexutil.Uint64(h.Time),
		Extra:            h.Extra,
		MixDigest:        h.MixDigest,
		Nonce:            h.Nonce,
		BaseFee:          (*hexutil.Big)(h.BaseFee),
		WithdrawalsHash:  h.WithdrawalsHash,
		BlobGasUsed:      (*hexutil.Uint64)(h.BlobGasUsed),
		ExcessBlobGas:    (*hexutil.Uint64)(h.ExcessBlobGas),
		ParentBeaconRoot: h.ParentBeaconRoot,
		RequestsHash:     h.RequestsHash,
	})
}
