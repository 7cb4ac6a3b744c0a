// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package consensus implements the OP-stack block validation rules.
//
// The checks are the hardfork-gated structural, economic and commitment
// rules a block must satisfy before and after execution. Execution itself,
// fork choice and transaction pool admission are the caller's concern.
package consensus

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/trie"

	"github.com/ethereum-optimism/op-consensus/consensus/misc/eip1559"
	"github.com/ethereum-optimism/op-consensus/consensus/misc/eip4844"
	"github.com/ethereum-optimism/op-consensus/core/types"
	"github.com/ethereum-optimism/op-consensus/params"
)

// BlockExecutionResult is the output of running a block's transactions,
// produced by the execution collaborator and verified here against the
// header's commitments.
type BlockExecutionResult struct {
	Receipts types.Receipts
	GasUsed  uint64
}

// OpBeacon validates blocks against the OP-stack consensus rules.
//
// The chain configuration is shared read-only; all methods are pure
// functions of their arguments and safe for concurrent use.
type OpBeacon struct {
	config *params.ChainConfig
}

// New creates an OP-stack consensus validator with the given chain
// configuration.
func New(config *params.ChainConfig) *OpBeacon {
	return &OpBeacon{config: config}
}

// Config returns the chain configuration the validator was created with.
func (o *OpBeacon) Config() *params.ChainConfig { return o.config }

// ValidateHeader checks the self-contained header rules: the gas fields are
// internally consistent and the base fee is present once the fee market is
// active.
func (o *OpBeacon) ValidateHeader(header *types.Header) error {
	if header.GasUsed > header.GasLimit {
		return &GasUsedExceedsLimitError{GasUsed: header.GasUsed, GasLimit: header.GasLimit}
	}
	if header.GasLimit > params.MaxGasLimit {
		return fmt.Errorf("%w: have %d, max %d", ErrGasLimitTooHigh, header.GasLimit, params.MaxGasLimit)
	}
	if o.config.IsBedrock(header.Number) && header.BaseFee == nil {
		return ErrBaseFeeMissing
	}
	// Once Holocene is active, the extra-data must be a well-formed fee
	// parameter block, since the next block derives its base fee from it.
	if o.config.IsHolocene(header.Time) {
		if err := eip1559.ValidateHolocene1559Params(header.Extra); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidHoloceneParams, err)
		}
	}
	return nil
}

// ValidateHeaderAgainstParent checks the rules linking a header to its
// already-validated parent: hash/number linkage, timestamp ordering, the
// base fee derivation and the blob gas transition. The parent must be the
// sealed header the candidate claims as ancestor.
func (o *OpBeacon) ValidateHeaderAgainstParent(header, parent *types.Header) error {
	if want := parent.Hash(); header.ParentHash != want {
		return &ParentHashMismatchError{Got: header.ParentHash, Expected: want}
	}
	if want := parent.Number.Uint64() + 1; header.Number.Uint64() != want {
		return &ParentNumberMismatchError{Got: header.Number.Uint64(), Expected: want}
	}
	if o.config.IsBedrock(header.Number) {
		if header.Time <= parent.Time {
			return fmt.Errorf("%w: have %d, parent %d", ErrTimestampInPast, header.Time, parent.Time)
		}
	}
	// Base fee derivation. Once Holocene is active on the parent, the
	// adjustment parameters come from the parent's extra-data; CalcBaseFee
	// picks the right formula either way. A malformed parameter block means
	// no expected fee can be derived, which is reported as a missing base
	// fee.
	if header.BaseFee == nil {
		return ErrBaseFeeMissing
	}
	expected, err := eip1559.CalcBaseFee(o.config, parent, header.Time)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBaseFeeMissing, err)
	}
	if header.BaseFee.Cmp(expected) != 0 {
		return &BaseFeeDiffError{Got: header.BaseFee, Expected: expected}
	}
	// Blob gas transition, only when a blob schedule covers the header's
	// timestamp.
	if blobConfig := o.config.BlobConfig(header.Time); blobConfig != nil {
		if header.ExcessBlobGas == nil {
			return ErrMissingExcessBlobGas
		}
		if header.BlobGasUsed == nil {
			return ErrMissingBlobGasUsed
		}
		if max := blobConfig.MaxBlobGasPerBlock(); *header.BlobGasUsed > max {
			return &BlobGasUsedExceedsLimitError{BlobGasUsed: *header.BlobGasUsed, Limit: max}
		}
		if *header.BlobGasUsed%params.BlobTxBlobGasPerBlob != 0 {
			return fmt.Errorf("%w: have %d, blob gas per blob %d", ErrBlobGasUsedNotMultiple, *header.BlobGasUsed, params.BlobTxBlobGasPerBlob)
		}
		if expected := eip4844.CalcExcessBlobGas(o.config, parent, header.Time); *header.ExcessBlobGas != expected {
			return &ExcessBlobGasDiffError{Got: *header.ExcessBlobGas, Expected: expected}
		}
	}
	return nil
}

// ValidateBodyAgainstHeader checks that a block body matches the
// commitments of the header it was transmitted with.
func (o *OpBeacon) ValidateBodyAgainstHeader(body *types.Body, header *types.Header) error {
	if hash := types.CalcUncleHash(body.Uncles); hash != header.UncleHash {
		return &OmmersHashDiffError{Got: hash, Expected: header.UncleHash}
	}
	if root := types.DeriveSha(types.Transactions(body.Transactions), trie.NewStackTrie(nil)); root != header.TxHash {
		return &TxRootDiffError{Got: root, Expected: header.TxHash}
	}
	switch {
	case header.WithdrawalsHash == nil:
		if body.Withdrawals != nil {
			return ErrUnexpectedWithdrawals
		}
	case body.Withdrawals == nil:
		return ErrMissingWithdrawals
	case o.config.IsIsthmus(header.Time):
		// The root commits to the withdrawals predeploy storage and is
		// checked against post-execution state elsewhere. The in-body list
		// stays empty.
		if len(body.Withdrawals) != 0 {
			return ErrWithdrawalsNotEmpty
		}
	default:
		if root := types.DeriveSha(types.Withdrawals(body.Withdrawals), trie.NewStackTrie(nil)); root != *header.WithdrawalsHash {
			return &WithdrawalsRootDiffError{Got: root, Expected: *header.WithdrawalsHash}
		}
	}
	if header.BlobGasUsed != nil {
		if total := types.TotalBlobGas(types.Transactions(body.Transactions)); total != *header.BlobGasUsed {
			return &BlobGasUsedDiffError{Got: *header.BlobGasUsed, Expected: total}
		}
	} else if types.TotalBlobGas(types.Transactions(body.Transactions)) > 0 {
		return ErrMissingBlobGasUsed
	}
	return nil
}

// ValidateBlockPreExecution checks the structural rules of a sealed block
// before its transactions are executed.
//
// The withdrawal and blob rules are tiered by hardfork and deliberately
// return early: a block on an earlier fork is never evaluated against the
// rules of a later one, since those reference header fields the earlier
// fork does not populate.
func (o *OpBeacon) ValidateBlockPreExecution(block *types.Block) error {
	if hash := types.CalcUncleHash(block.Uncles()); hash != block.UncleHash() {
		return &OmmersHashDiffError{Got: hash, Expected: block.UncleHash()}
	}
	if root := types.DeriveSha(block.Transactions(), trie.NewStackTrie(nil)); root != block.TxHash() {
		return &TxRootDiffError{Got: root, Expected: block.TxHash()}
	}
	if o.config.IsShanghai(block.Time()) {
		withdrawals := block.Withdrawals()
		if withdrawals == nil {
			return fmt.Errorf("failed to verify block %d: %w", block.NumberU64(), ErrMissingWithdrawals)
		}
		if len(withdrawals) != 0 {
			return fmt.Errorf("failed to verify block %d: %w", block.NumberU64(), ErrWithdrawalsNotEmpty)
		}
	} else {
		if block.Withdrawals() != nil {
			return fmt.Errorf("failed to verify block %d: %w", block.NumberU64(), ErrUnexpectedWithdrawals)
		}
		return nil
	}

	if !o.config.IsCancun(block.Time()) {
		return nil
	}
	if err := o.validateBlobGas(block); err != nil {
		return err
	}

	if o.config.IsIsthmus(block.Time()) {
		// The withdrawals root carries the storage root of the withdrawals
		// predeploy, verified against post-execution state elsewhere. Only
		// its presence is a pre-execution rule.
		if block.Header().WithdrawalsHash == nil {
			return fmt.Errorf("failed to verify block %d: %w", block.NumberU64(), ErrMissingWithdrawalsRoot)
		}
	} else {
		// Canyon is active here, otherwise the shanghai tier would have
		// returned already.
		root := block.Header().WithdrawalsHash
		if root == nil {
			return ErrMissingWithdrawalsRoot
		}
		if *root != types.EmptyWithdrawalsHash {
			return &WithdrawalsRootDiffError{Got: *root, Expected: types.EmptyWithdrawalsHash}
		}
	}
	return nil
}

// validateBlobGas checks the blob gas accounting of a post-Cancun block
// against its transactions.
func (o *OpBeacon) validateBlobGas(block *types.Block) error {
	header := block.Header()
	if header.BlobGasUsed == nil {
		return ErrMissingBlobGasUsed
	}
	if header.ExcessBlobGas == nil {
		return ErrMissingExcessBlobGas
	}
	total := types.TotalBlobGas(block.Transactions())
	if blobConfig := o.config.BlobConfig(block.Time()); blobConfig != nil {
		if max := blobConfig.MaxBlobGasPerBlock(); total > max {
			return &BlobGasUsedExceedsLimitError{BlobGasUsed: total, Limit: max}
		}
	}
	if total != *header.BlobGasUsed {
		return &BlobGasUsedDiffError{Got: *header.BlobGasUsed, Expected: total}
	}
	return nil
}

// ValidateHeaderWithTotalDifficulty checks the post-merge header sentinels:
// zero nonce, empty uncle root and bounded extra-data. On the OP stack the
// Bedrock activation number marks the merge transition, so the caller must
// only pass post-Bedrock headers; anything earlier is a contract violation
// and panics. The total difficulty itself is unused, difficulty is fixed
// post-merge.
func (o *OpBeacon) ValidateHeaderWithTotalDifficulty(header *types.Header, td *big.Int) error {
	if !o.config.IsBedrock(header.Number) {
		panic("pre-bedrock header passed to post-merge validation")
	}
	if header.Nonce != (types.BlockNonce{}) {
		return ErrMergeNonceNotZero
	}
	if header.UncleHash != types.EmptyUncleHash {
		return ErrMergeUncleRootNotEmpty
	}
	if uint64(len(header.Extra)) > params.MaximumExtraDataSize {
		return fmt.Errorf("%w: %d > %d", ErrExtraDataTooLong, len(header.Extra), params.MaximumExtraDataSize)
	}
	return nil
}

// ValidateBlockPostExecution checks an executed block's header commitments
// against the execution output: total gas used, the logs bloom and the
// receipts root. The receipts root is always recomputed from the receipt
// contents, it is never taken from a cache.
func (o *OpBeacon) ValidateBlockPostExecution(block *types.Block, result *BlockExecutionResult) error {
	header := block.Header()
	if result.GasUsed != header.GasUsed {
		return &GasUsedDiffError{Got: result.GasUsed, Expected: header.GasUsed}
	}
	if bloom := types.CreateBloom(result.Receipts); bloom != header.Bloom {
		return &BloomDiffError{Got: bloom, Expected: header.Bloom}
	}
	if root := types.CalcReceiptsRoot(result.Receipts, o.config, header.Time); root != header.ReceiptHash {
		return &ReceiptRootDiffError{Got: root, Expected: header.ReceiptHash}
	}
	return nil
}
