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

package consensus

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ethereum-optimism/op-consensus/core/types"
)

// The validator reports every rule failure as one of the errors below. The
// taxonomy is closed: callers may rely on errors.Is and errors.As to decide
// whether to reject a block, drop a peer, or halt sync.
var (
	// ErrBaseFeeMissing is returned when a header past the London/Bedrock
	// transition carries no base fee, or when the parent's Holocene
	// parameter block cannot be decoded. An undecodable parameter block is
	// treated as a missing base fee since no expected fee can be derived.
	ErrBaseFeeMissing = errors.New("header is missing base fee")

	// ErrTimestampInPast is returned when a header's timestamp is not
	// strictly greater than its parent's.
	ErrTimestampInPast = errors.New("header timestamp not after parent")

	// ErrGasLimitTooHigh is returned when a header's gas limit exceeds the
	// protocol maximum.
	ErrGasLimitTooHigh = errors.New("header gas limit above maximum")

	// ErrMergeNonceNotZero is returned when a post-Bedrock header carries a
	// non-zero nonce.
	ErrMergeNonceNotZero = errors.New("nonce not zero after merge transition")

	// ErrMergeUncleRootNotEmpty is returned when a post-Bedrock header does
	// not commit to an empty uncle list.
	ErrMergeUncleRootNotEmpty = errors.New("uncle root not empty after merge transition")

	// ErrExtraDataTooLong is returned when the header extra-data exceeds the
	// protocol bound.
	ErrExtraDataTooLong = errors.New("header extra-data too long")

	// ErrUnexpectedWithdrawals is returned when a pre-Shanghai block carries
	// a withdrawals list.
	ErrUnexpectedWithdrawals = errors.New("withdrawals present before shanghai")

	// ErrMissingWithdrawals is returned when a post-Shanghai block carries
	// no withdrawals list.
	ErrMissingWithdrawals = errors.New("body is missing withdrawals")

	// ErrWithdrawalsNotEmpty is returned when a block body carries
	// withdrawal entries. Withdrawals are processed through the bridge, so
	// the in-body list is always empty once Shanghai/Canyon is active.
	ErrWithdrawalsNotEmpty = errors.New("body withdrawals list not empty")

	// ErrMissingWithdrawalsRoot is returned when a header past the relevant
	// fork carries no withdrawals root.
	ErrMissingWithdrawalsRoot = errors.New("header is missing withdrawalsRoot")

	// ErrMissingBlobGasUsed and ErrMissingExcessBlobGas are returned when a
	// header inside a blob fork lacks the blob accounting fields.
	ErrMissingBlobGasUsed   = errors.New("header is missing blobGasUsed")
	ErrMissingExcessBlobGas = errors.New("header is missing excessBlobGas")

	// ErrBlobGasUsedNotMultiple is returned when a header declares a blob
	// gas figure that is not a whole number of blobs.
	ErrBlobGasUsedNotMultiple = errors.New("header blobGasUsed not a multiple of blob gas per blob")

	// ErrInvalidHoloceneParams is returned when a Holocene-active header does
	// not carry a well-formed fee parameter block in its extra-data.
	ErrInvalidHoloceneParams = errors.New("invalid holocene fee parameters")
)

// ParentHashMismatchError is returned when a header does not reference the
// hash of its supposed parent.
type ParentHashMismatchError struct {
	Got, Expected common.Hash
}

func (e *ParentHashMismatchError) Error() string {
	return fmt.Sprintf("parent hash mismatch: have %x, want %x", e.Got, e.Expected)
}

// ParentNumberMismatchError is returned when a header's number is not the
// parent's number plus one.
type ParentNumberMismatchError struct {
	Got, Expected uint64
}

func (e *ParentNumberMismatchError) Error() string {
	return fmt.Sprintf("parent number mismatch: have %d, want %d", e.Got, e.Expected)
}

// GasUsedExceedsLimitError is returned when a header reports more gas used
// than its own gas limit.
type GasUsedExceedsLimitError struct {
	GasUsed, GasLimit uint64
}

func (e *GasUsedExceedsLimitError) Error() string {
	return fmt.Sprintf("gas used %d exceeds gas limit %d", e.GasUsed, e.GasLimit)
}

// BaseFeeDiffError is returned when the header base fee does not match the
// fee derived from the parent.
type BaseFeeDiffError struct {
	Got, Expected *big.Int
}

func (e *BaseFeeDiffError) Error() string {
	return fmt.Sprintf("invalid baseFee: have %s, want %s", e.Got, e.Expected)
}

// ExcessBlobGasDiffError is returned when the header's excess blob gas does
// not match the value derived from the parent.
type ExcessBlobGasDiffError struct {
	Got, Expected uint64
}

func (e *ExcessBlobGasDiffError) Error() string {
	return fmt.Sprintf("invalid excessBlobGas: have %d, want %d", e.Got, e.Expected)
}

// BlobGasUsedDiffError is returned when the header's blob gas used does not
// match the total blob gas of the body's transactions.
type BlobGasUsedDiffError struct {
	Got, Expected uint64
}

func (e *BlobGasUsedDiffError) Error() string {
	return fmt.Sprintf("invalid blobGasUsed: have %d, want %d", e.Got, e.Expected)
}

// BlobGasUsedExceedsLimitError is returned when the blob gas consumed by a
// block exceeds the per-block maximum of the active blob schedule.
type BlobGasUsedExceedsLimitError struct {
	BlobGasUsed, Limit uint64
}

func (e *BlobGasUsedExceedsLimitError) Error() string {
	return fmt.Sprintf("blob gas used %d exceeds maximum allowance %d", e.BlobGasUsed, e.Limit)
}

// OmmersHashDiffError is returned when the uncle hash recomputed from the
// body does not match the header's declared one.
type OmmersHashDiffError struct {
	Got, Expected common.Hash
}

func (e *OmmersHashDiffError) Error() string {
	return fmt.Sprintf("invalid uncle hash: have %x, want %x", e.Got, e.Expected)
}

// TxRootDiffError is returned when the transactions root recomputed from the
// body does not match the header's declared one.
type TxRootDiffError struct {
	Got, Expected common.Hash
}

func (e *TxRootDiffError) Error() string {
	return fmt.Sprintf("invalid transaction root: have %x, want %x", e.Got, e.Expected)
}

// WithdrawalsRootDiffError is returned when the header's withdrawals root
// does not match the required value for the active fork.
type WithdrawalsRootDiffError struct {
	Got, Expected common.Hash
}

func (e *WithdrawalsRootDiffError) Error() string {
	return fmt.Sprintf("invalid withdrawals root: have %x, want %x", e.Got, e.Expected)
}

// ReceiptRootDiffError is returned when the receipts root recomputed from
// the execution result does not match the header's declared one.
type ReceiptRootDiffError struct {
	Got, Expected common.Hash
}

func (e *ReceiptRootDiffError) Error() string {
	return fmt.Sprintf("invalid receipt root: have %x, want %x", e.Got, e.Expected)
}

// GasUsedDiffError is returned when the gas consumed by execution does not
// match the header's declared gas used.
type GasUsedDiffError struct {
	Got, Expected uint64
}

func (e *GasUsedDiffError) Error() string {
	return fmt.Sprintf("invalid gas used: have %d, want %d", e.Got, e.Expected)
}

// BloomDiffError is returned when the logs bloom recomputed from the
// receipts does not match the header's declared one.
type BloomDiffError struct {
	Got, Expected types.Bloom
}

func (e *BloomDiffError) Error() string {
	return fmt.Sprintf("invalid bloom: have %x, want %x", e.Got, e.Expected)
}
