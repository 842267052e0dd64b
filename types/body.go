package types

import (
	"encoding/json"

	"github.com/INLOpen/xtra/rlp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Withdrawal is a validator withdrawal carried in post-Shanghai bodies.
type Withdrawal struct {
	Index     uint64
	Validator uint64
	Address   common.Address
	Amount    uint64
}

func (w *Withdrawal) DecodeRLP(s *rlp.Stream) error {
	f := fields{s: s}
	f.enter("withdrawal")
	f.uint64("index", &w.Index)
	f.uint64("validatorIndex", &w.Validator)
	f.array("address", w.Address[:])
	f.uint64("amount", &w.Amount)
	return f.end("withdrawal")
}

func (w *Withdrawal) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index     hexutil.Uint64 `json:"index"`
		Validator hexutil.Uint64 `json:"validatorIndex"`
		Address   common.Address `json:"address"`
		Amount    hexutil.Uint64 `json:"amount"`
	}{hexutil.Uint64(w.Index), hexutil.Uint64(w.Validator), w.Address, hexutil.Uint64(w.Amount)})
}

// Body is the content of a block apart from its header. Withdrawals is nil
// for bodies that predate them.
type Body struct {
	Transactions []*Transaction `json:"transactions"`
	Uncles       []*Header      `json:"uncles"`
	Withdrawals  []*Withdrawal  `json:"withdrawals,omitempty"`
}

func (b *Body) DecodeRLP(s *rlp.Stream) error {
	b.Transactions = []*Transaction{}
	b.Uncles = []*Header{}

	f := fields{s: s}
	f.enter("body")
	f.list("transactions", func(s *rlp.Stream) error {
		tx := new(Transaction)
		if err := tx.DecodeRLP(s); err != nil {
			return err
		}
		b.Transactions = append(b.Transactions, tx)
		return nil
	})
	f.list("uncles", func(s *rlp.Stream) error {
		h := new(Header)
		if err := h.DecodeRLP(s); err != nil {
			return err
		}
		b.Uncles = append(b.Uncles, h)
		return nil
	})
	if f.more() {
		b.Withdrawals = []*Withdrawal{}
		f.list("withdrawals", func(s *rlp.Stream) error {
			w := new(Withdrawal)
			if err := w.DecodeRLP(s); err != nil {
				return err
			}
			b.Withdrawals = append(b.Withdrawals, w)
			return nil
		})
	}
	return f.end("body")
}
