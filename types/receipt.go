package types

import (
	"encoding/json"
	"fmt"

	"github.com/INLOpen/xtra/rlp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Receipt status values.
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// Log is an event emitted during transaction execution, in storage form.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

func (l *Log) DecodeRLP(s *rlp.Stream) error {
	l.Topics = []common.Hash{}
	f := fields{s: s}
	f.enter("log")
	f.array("address", l.Address[:])
	f.list("topics", func(s *rlp.Stream) error {
		var topic common.Hash
		if err := s.Array(topic[:]); err != nil {
			return err
		}
		l.Topics = append(l.Topics, topic)
		return nil
	})
	f.bytes("data", (*[]byte)(&l.Data))
	return f.end("log")
}

// Receipt is a transaction receipt in storage form. Receipts created before
// Byzantium carry the intermediate state root in PostState; later ones
// carry a status code instead.
type Receipt struct {
	PostState         []byte
	Status            uint64
	CumulativeGasUsed uint64
	Logs              []*Log
}

func (r *Receipt) DecodeRLP(s *rlp.Stream) error {
	var postStateOrStatus []byte
	r.Logs = []*Log{}

	f := fields{s: s}
	f.enter("receipt")
	f.bytes("postStateOrStatus", &postStateOrStatus)
	f.uint64("cumulativeGasUsed", &r.CumulativeGasUsed)
	f.list("logs", func(s *rlp.Stream) error {
		l := new(Log)
		if err := l.DecodeRLP(s); err != nil {
			return err
		}
		r.Logs = append(r.Logs, l)
		return nil
	})
	if err := f.end("receipt"); err != nil {
		return err
	}
	return r.setStatus(postStateOrStatus)
}

func (r *Receipt) setStatus(b []byte) error {
	switch {
	case len(b) == 0:
		r.Status = ReceiptStatusFailed
	case len(b) == 1 && b[0] == 0x01:
		r.Status = ReceiptStatusSuccessful
	case len(b) == common.HashLength:
		r.PostState = b
	default:
		return fmt.Errorf("postStateOrStatus: %w: %d bytes", rlp.ErrConversion, len(b))
	}
	return nil
}

func (r *Receipt) MarshalJSON() ([]byte, error) {
	type receipt struct {
		PostState         hexutil.Bytes   `json:"root,omitempty"`
		Status            *hexutil.Uint64 `json:"status,omitempty"`
		CumulativeGasUsed hexutil.Uint64  `json:"cumulativeGasUsed"`
		Logs              []*Log          `json:"logs"`
	}
	enc := receipt{
		PostState:         r.PostState,
		CumulativeGasUsed: hexutil.Uint64(r.CumulativeGasUsed),
		Logs:              r.Logs,
	}
	if len(r.PostState) == 0 {
		status := hexutil.Uint64(r.Status)
		enc.Status = &status
	}
	return json.Marshal(enc)
}

// Receipts holds every receipt of one block.
type Receipts []*Receipt

func (rs *Receipts) DecodeRLP(s *rlp.Stream) error {
	*rs = Receipts{}
	return decodeList(s, func(s *rlp.Stream) error {
		r := new(Receipt)
		if err := r.DecodeRLP(s); err != nil {
			return err
		}
		*rs = append(*rs, r)
		return nil
	})
}
