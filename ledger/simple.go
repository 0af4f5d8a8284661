package ledger

import (
	"encoding/binary"
	"fmt"
	"maps"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/chainlength"
)

// Simple is a toy balance-accumulator ledger. It is deliberately not an EVM
// or UTXO ledger: the multiverse only cares that State is immutable and that
// ApplyBlock is deterministic, so a minimal account model is enough to
// exercise reconstruction (spec §4.4, property P6) honestly.
type Simple struct {
	length   chainlength.T
	params   Params
	balances map[uint64]int64
}

// NewGenesis builds the genesis state (chain length zero) from a contents
// payload whose fragments must all be FragmentInitial (any number of them,
// including none, which yields an empty balance map), mirroring Ledger::new(genesis_id, genesis_block.contents.iter()) in the
// source.
func NewGenesis(params Params, contents block.Contents) (*Simple, error) {
	s := &Simple{length: chainlength.Zero, params: params, balances: map[uint64]int64{}}
	for _, f := range contents.Iter() {
		if f.Tag != block.FragmentInitial {
			return nil, fmt.Errorf("ledger: genesis contents must carry only initial fragments, got %s", f.Tag)
		}
		if err := s.applyInitial(f.Payload); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Simple) ChainLength() chainlength.T { return s.length }

func (s *Simple) LedgerParameters() Params { return s.params }

// ApplyBlock applies contents on top of s and returns the resulting state.
// s is left untouched: State implementations must be immutable.
func (s *Simple) ApplyBlock(params Params, contents block.Contents, evalCtx block.EvalContext) (State, error) {
	if s.length != 0 && s.length.Next() != evalCtx.ChainLength {
		return nil, fmt.Errorf("ledger: non-contiguous apply: state at %s, block claims %s", s.length, evalCtx.ChainLength)
	}
	if params.MaxFragmentsPerBlock > 0 && len(contents.Fragments) > params.MaxFragmentsPerBlock {
		return nil, fmt.Errorf("ledger: block carries %d fragments, limit is %d", len(contents.Fragments), params.MaxFragmentsPerBlock)
	}
	next := &Simple{
		length:   evalCtx.ChainLength,
		params:   s.params,
		balances: maps.Clone(s.balances),
	}
	for _, f := range contents.Iter() {
		switch f.Tag {
		case block.FragmentInitial:
			if err := next.applyInitial(f.Payload); err != nil {
				return nil, err
			}
		case block.FragmentTransfer:
			if err := next.applyTransfer(f.Payload); err != nil {
				return nil, err
			}
		case block.FragmentStakeDelegation, block.FragmentPoolRegistration, block.FragmentPoolRetirement,
			block.FragmentUpdateProposal, block.FragmentUpdateVote:
			// Accepted but inert in this toy ledger: consensus/leadership
			// bookkeeping is out of scope (spec §1).
		case block.FragmentReserved:
			return nil, fmt.Errorf("ledger: fragment tag %s is reserved, not a valid payload", f.Tag)
		default:
			return nil, fmt.Errorf("ledger: unknown fragment tag %d", f.Tag)
		}
	}
	return next, nil
}

// Balance returns an account's balance, for tests and the bench CLI.
func (s *Simple) Balance(account uint64) int64 {
	return s.balances[account]
}

func (s *Simple) applyInitial(payload []byte) error {
	if len(payload)%16 != 0 {
		return fmt.Errorf("ledger: malformed initial fragment, %d bytes", len(payload))
	}
	for i := 0; i < len(payload); i += 16 {
		account := binary.BigEndian.Uint64(payload[i : i+8])
		balance := int64(binary.BigEndian.Uint64(payload[i+8 : i+16]))
		s.balances[account] = balance
	}
	return nil
}

func (s *Simple) applyTransfer(payload []byte) error {
	if len(payload) != 20 {
		return fmt.Errorf("ledger: malformed transfer fragment, %d bytes", len(payload))
	}
	from := binary.BigEndian.Uint64(payload[0:8])
	to := binary.BigEndian.Uint64(payload[8:16])
	amount := int64(binary.BigEndian.Uint32(payload[16:20]))
	if s.balances[from] < amount {
		return fmt.Errorf("ledger: account %d has insufficient balance for transfer of %d", from, amount)
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}

// EncodeInitial builds a FragmentInitial payload from an account->balance
// allocation, for building genesis blocks in tests and the bench CLI.
func EncodeInitial(alloc map[uint64]int64) []byte {
	out := make([]byte, 0, 16*len(alloc))
	for account, balance := range alloc {
		var rec [16]byte
		binary.BigEndian.PutUint64(rec[0:8], account)
		binary.BigEndian.PutUint64(rec[8:16], uint64(balance))
		out = append(out, rec[:]...)
	}
	return out
}

// EncodeTransfer builds a FragmentTransfer payload.
func EncodeTransfer(from, to uint64, amount uint32) []byte {
	var rec [20]byte
	binary.BigEndian.PutUint64(rec[0:8], from)
	binary.BigEndian.PutUint64(rec[8:16], to)
	binary.BigEndian.PutUint32(rec[16:20], amount)
	return rec[:]
}
