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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ethereum-optimism/op-consensus/consensus/misc/eip1559"
	"github.com/ethereum-optimism/op-consensus/core/types"
	"github.com/ethereum-optimism/op-consensus/params"
)

// Fork schedule used throughout the tests: Shanghai/Canyon at 1000,
// Cancun/Ecotone at 2000, Holocene at 3000, Isthmus at 4000.
func testConfig() *params.ChainConfig {
	return &params.ChainConfig{
		ChainID:      big.NewInt(901),
		BedrockBlock: big.NewInt(0),
		RegolithTime: u64(0),
		ShanghaiTime: u64(1000),
		CanyonTime:   u64(1000),
		CancunTime:   u64(2000),
		EcotoneTime:  u64(2000),
		HoloceneTime: u64(3000),
		IsthmusTime:  u64(4000),
		Optimism: &params.OptimismConfig{
			EIP1559Elasticity:        6,
			EIP1559Denominator:       50,
			EIP1559DenominatorCanyon: u64(250),
		},
		BlobScheduleConfig: &params.BlobScheduleConfig{
			Cancun: params.DefaultCancunBlobConfig,
		},
	}
}

func u64(val uint64) *uint64 { return &val }

func TestValidateHeader(t *testing.T) {
	validator := New(testConfig())
	header := &types.Header{
		Number:   big.NewInt(100),
		GasLimit: 30_000_000,
		GasUsed:  21_000,
		Time:     1000,
		BaseFee:  big.NewInt(100),
	}
	if err := validator.ValidateHeader(header); err != nil {
		t.Errorf("valid header rejected: %v", err)
	}

	bad := *header
	bad.GasUsed = bad.GasLimit + 1
	var gasErr *GasUsedExceedsLimitError
	if err := validator.ValidateHeader(&bad); !errors.As(err, &gasErr) {
		t.Errorf("gas used over limit: have %v, want GasUsedExceedsLimitError", err)
	}

	bad = *header
	bad.GasLimit = params.MaxGasLimit + 1
	if err := validator.ValidateHeader(&bad); !errors.Is(err, ErrGasLimitTooHigh) {
		t.Errorf("gas limit over max: have %v, want ErrGasLimitTooHigh", err)
	}

	bad = *header
	bad.BaseFee = nil
	if err := validator.ValidateHeader(&bad); !errors.Is(err, ErrBaseFeeMissing) {
		t.Errorf("missing base fee: have %v, want ErrBaseFeeMissing", err)
	}

	// Holocene-active headers must carry a well-formed fee parameter block.
	holocene := *header
	holocene.Time = 3000
	holocene.Extra = eip1559.EncodeHolocene1559Params(250, 6)
	if err := validator.ValidateHeader(&holocene); err != nil {
		t.Errorf("valid holocene header rejected: %v", err)
	}
	for _, extra := range [][]byte{
		nil,
		{0x01, 0x02},
		eip1559.EncodeHolocene1559Params(250, 0), // inconsistent pair
	} {
		holocene.Extra = extra
		if err := validator.ValidateHeader(&holocene); !errors.Is(err, ErrInvalidHoloceneParams) {
			t.Errorf("extra %x: have %v, want ErrInvalidHoloceneParams", extra, err)
		}
	}
}

// makeParent returns a sealed pre-Holocene parent whose gas usage sits
// exactly at the gas target, so the child's expected base fee equals the
// parent's.
func makeParent() *types.Header {
	return &types.Header{
		Number:     big.NewInt(100),
		GasLimit:   30_000_000,
		GasUsed:    5_000_000, // elasticity 6 puts the target at 5M
		Time:       1000,
		Difficulty: new(big.Int),
		BaseFee:    big.NewInt(100),
	}
}

func makeChild(parent *types.Header) *types.Header {
	return &types.Header{
		ParentHash: parent.Hash(),
		Number:     new(big.Int).Add(parent.Number, big.NewInt(1)),
		GasLimit:   parent.GasLimit,
		GasUsed:    21_000,
		Time:       parent.Time + 2,
		Difficulty: new(big.Int),
		BaseFee:    big.NewInt(100),
	}
}

func TestValidateHeaderAgainstParent(t *testing.T) {
	validator := New(testConfig())
	parent := makeParent()

	if err := validator.ValidateHeaderAgainstParent(makeChild(parent), parent); err != nil {
		t.Errorf("valid child rejected: %v", err)
	}

	// Wrong parent hash.
	child := makeChild(parent)
	child.ParentHash = common.HexToHash("0xdeadbeef")
	var hashErr *ParentHashMismatchError
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.As(err, &hashErr) {
		t.Errorf("parent hash: have %v, want ParentHashMismatchError", err)
	}

	// Wrong number.
	child = makeChild(parent)
	child.Number = big.NewInt(200)
	var numErr *ParentNumberMismatchError
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.As(err, &numErr) {
		t.Errorf("parent number: have %v, want ParentNumberMismatchError", err)
	}

	// Timestamp not increasing.
	child = makeChild(parent)
	child.Time = parent.Time
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.Is(err, ErrTimestampInPast) {
		t.Errorf("timestamp: have %v, want ErrTimestampInPast", err)
	}

	// Wrong base fee. The parent sits at its gas target, so the expected
	// fee is unchanged.
	child = makeChild(parent)
	child.BaseFee = big.NewInt(101)
	var feeErr *BaseFeeDiffError
	err := validator.ValidateHeaderAgainstParent(child, parent)
	if !errors.As(err, &feeErr) {
		t.Fatalf("base fee: have %v, want BaseFeeDiffError", err)
	}
	if feeErr.Got.Cmp(big.NewInt(101)) != 0 || feeErr.Expected.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("base fee diff: got %v/%v, want 101/100", feeErr.Got, feeErr.Expected)
	}

	// Missing base fee.
	child = makeChild(parent)
	child.BaseFee = nil
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.Is(err, ErrBaseFeeMissing) {
		t.Errorf("missing base fee: have %v, want ErrBaseFeeMissing", err)
	}
}

func TestValidateHeaderAgainstParentHolocene(t *testing.T) {
	validator := New(testConfig())

	// Holocene active on the parent: the fee parameters come from the
	// parent's extra-data.
	parent := makeParent()
	parent.Time = 3000
	parent.Extra = eip1559.EncodeHolocene1559Params(50, 6)
	parent.GasUsed = 5_000_000 // at target for elasticity 6

	child := makeChild(parent)
	child.Time = parent.Time + 2
	child.BlobGasUsed = u64(0)
	child.ExcessBlobGas = u64(0)
	if err := validator.ValidateHeaderAgainstParent(child, parent); err != nil {
		t.Errorf("valid holocene child rejected: %v", err)
	}

	// A malformed parameter block reads as a missing base fee.
	parent.Extra = []byte{0x01, 0x02}
	child = makeChild(parent)
	child.Time = parent.Time + 2
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.Is(err, ErrBaseFeeMissing) {
		t.Errorf("malformed extra: have %v, want ErrBaseFeeMissing", err)
	}

	// A decodable parameter block whose elasticity exceeds the parent gas
	// limit leaves a zero gas target. The expected fee carries over from the
	// parent instead of crashing the derivation.
	parent = makeParent()
	parent.Time = 3000
	parent.Extra = eip1559.EncodeHolocene1559Params(50, 40_000_000)
	parent.GasUsed = 21_000

	child = makeChild(parent)
	child.Time = parent.Time + 2
	child.BlobGasUsed = u64(0)
	child.ExcessBlobGas = u64(0)
	if err := validator.ValidateHeaderAgainstParent(child, parent); err != nil {
		t.Errorf("zero gas target: have %v, want fee carried over", err)
	}

	child.BaseFee = big.NewInt(101)
	var feeErr *BaseFeeDiffError
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.As(err, &feeErr) {
		t.Errorf("zero gas target wrong fee: have %v, want BaseFeeDiffError", err)
	}
}

func TestValidateHeaderAgainstParentBlobGas(t *testing.T) {
	validator := New(testConfig())
	parent := makeParent()
	parent.Time = 2000 // cancun active
	parent.BlobGasUsed = u64(0)
	parent.ExcessBlobGas = u64(0)

	child := makeChild(parent)
	child.BlobGasUsed = u64(0)
	child.ExcessBlobGas = u64(0)
	if err := validator.ValidateHeaderAgainstParent(child, parent); err != nil {
		t.Errorf("valid blob child rejected: %v", err)
	}

	child = makeChild(parent)
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.Is(err, ErrMissingExcessBlobGas) {
		t.Errorf("missing excess blob gas: have %v, want ErrMissingExcessBlobGas", err)
	}

	child = makeChild(parent)
	child.BlobGasUsed = u64(0)
	child.ExcessBlobGas = u64(params.BlobTxBlobGasPerBlob)
	var blobErr *ExcessBlobGasDiffError
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.As(err, &blobErr) {
		t.Errorf("wrong excess blob gas: have %v, want ExcessBlobGasDiffError", err)
	}

	// Declared blob gas above the schedule maximum.
	child = makeChild(parent)
	child.ExcessBlobGas = u64(0)
	child.BlobGasUsed = u64(params.DefaultCancunBlobConfig.MaxBlobGasPerBlock() + params.BlobTxBlobGasPerBlob)
	var limitErr *BlobGasUsedExceedsLimitError
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.As(err, &limitErr) {
		t.Errorf("blob gas over max: have %v, want BlobGasUsedExceedsLimitError", err)
	}

	// Declared blob gas that is not a whole number of blobs.
	child = makeChild(parent)
	child.ExcessBlobGas = u64(0)
	child.BlobGasUsed = u64(params.BlobTxBlobGasPerBlob - 1)
	if err := validator.ValidateHeaderAgainstParent(child, parent); !errors.Is(err, ErrBlobGasUsedNotMultiple) {
		t.Errorf("non-multiple blob gas: have %v, want ErrBlobGasUsedNotMultiple", err)
	}
}

// emptyBlock seals a block with no transactions or uncles at the given
// timestamp, committing to the canonical empty roots.
func emptyBlock(time uint64, mod func(*types.Header)) *types.Block {
	header := &types.Header{
		Number:     big.NewInt(100),
		GasLimit:   30_000_000,
		Time:       time,
		Difficulty: new(big.Int),
		BaseFee:    big.NewInt(100),
		TxHash:     types.EmptyTxsHash,
		UncleHash:  types.EmptyUncleHash,
	}
	if mod != nil {
		mod(header)
	}
	return types.NewBlockWithHeader(header)
}

func TestValidateBlockPreExecutionTiers(t *testing.T) {
	validator := New(testConfig())

	// Pre-Shanghai: no withdrawals allowed, and nothing past the shanghai
	// tier is evaluated even though the header lacks all later fields.
	if err := validator.ValidateBlockPreExecution(emptyBlock(500, nil)); err != nil {
		t.Errorf("pre-shanghai block rejected: %v", err)
	}
	withdrawn := emptyBlock(500, nil).WithBody(types.Body{Withdrawals: []*types.Withdrawal{{Index: 1}}})
	if err := validator.ValidateBlockPreExecution(withdrawn); !errors.Is(err, ErrUnexpectedWithdrawals) {
		t.Errorf("pre-shanghai withdrawals: have %v, want ErrUnexpectedWithdrawals", err)
	}

	// Shanghai tier: the withdrawals list must be present and empty. A
	// passing block returns before the cancun tier, so the missing blob
	// fields are not an error.
	empty := emptyBlock(1500, nil).WithBody(types.Body{Withdrawals: []*types.Withdrawal{}})
	if err := validator.ValidateBlockPreExecution(empty); err != nil {
		t.Errorf("shanghai block rejected: %v", err)
	}
	if err := validator.ValidateBlockPreExecution(emptyBlock(1500, nil)); !errors.Is(err, ErrMissingWithdrawals) {
		t.Errorf("missing withdrawals: have %v, want ErrMissingWithdrawals", err)
	}
	nonEmpty := emptyBlock(1500, nil).WithBody(types.Body{Withdrawals: []*types.Withdrawal{{Index: 1}}})
	if err := validator.ValidateBlockPreExecution(nonEmpty); !errors.Is(err, ErrWithdrawalsNotEmpty) {
		t.Errorf("non-empty withdrawals: have %v, want ErrWithdrawalsNotEmpty", err)
	}

	// Cancun tier, pre-Isthmus: blob accounting plus the empty canyon
	// withdrawals root.
	cancun := func(mod func(*types.Header)) *types.Block {
		return emptyBlock(2500, func(h *types.Header) {
			h.BlobGasUsed = u64(0)
			h.ExcessBlobGas = u64(0)
			root := types.EmptyWithdrawalsHash
			h.WithdrawalsHash = &root
			if mod != nil {
				mod(h)
			}
		}).WithBody(types.Body{Withdrawals: []*types.Withdrawal{}})
	}
	if err := validator.ValidateBlockPreExecution(cancun(nil)); err != nil {
		t.Errorf("cancun block rejected: %v", err)
	}
	if err := validator.ValidateBlockPreExecution(cancun(func(h *types.Header) { h.BlobGasUsed = nil })); !errors.Is(err, ErrMissingBlobGasUsed) {
		t.Errorf("missing blobGasUsed: have %v, want ErrMissingBlobGasUsed", err)
	}
	var blobDiff *BlobGasUsedDiffError
	if err := validator.ValidateBlockPreExecution(cancun(func(h *types.Header) { h.BlobGasUsed = u64(params.BlobTxBlobGasPerBlob) })); !errors.As(err, &blobDiff) {
		t.Errorf("blobGasUsed mismatch: have %v, want BlobGasUsedDiffError", err)
	}
	var rootDiff *WithdrawalsRootDiffError
	if err := validator.ValidateBlockPreExecution(cancun(func(h *types.Header) {
		root := common.HexToHash("0x01")
		h.WithdrawalsHash = &root
	})); !errors.As(err, &rootDiff) {
		t.Errorf("non-empty withdrawals root: have %v, want WithdrawalsRootDiffError", err)
	}
	if err := validator.ValidateBlockPreExecution(cancun(func(h *types.Header) { h.WithdrawalsHash = nil })); !errors.Is(err, ErrMissingWithdrawalsRoot) {
		t.Errorf("missing canyon withdrawals root: have %v, want ErrMissingWithdrawalsRoot", err)
	}

	// Isthmus: the withdrawals root carries a storage root, only presence
	// is required here.
	isthmus := func(mod func(*types.Header)) *types.Block {
		return emptyBlock(4500, func(h *types.Header) {
			h.BlobGasUsed = u64(0)
			h.ExcessBlobGas = u64(0)
			root := common.HexToHash("0x6d79818c675f03e8f7d4b0f06945a0b913cff9d0e0b46dbe6c01b28ce4a3cb47")
			h.WithdrawalsHash = &root
			if mod != nil {
				mod(h)
			}
		}).WithBody(types.Body{Withdrawals: []*types.Withdrawal{}})
	}
	if err := validator.ValidateBlockPreExecution(isthmus(nil)); err != nil {
		t.Errorf("isthmus block rejected: %v", err)
	}
	if err := validator.ValidateBlockPreExecution(isthmus(func(h *types.Header) { h.WithdrawalsHash = nil })); !errors.Is(err, ErrMissingWithdrawalsRoot) {
		t.Errorf("missing isthmus withdrawals root: have %v, want ErrMissingWithdrawalsRoot", err)
	}
}

func TestValidateBlockPreExecutionRoots(t *testing.T) {
	validator := New(testConfig())

	block := emptyBlock(500, func(h *types.Header) { h.UncleHash = common.HexToHash("0x01") })
	var ommersErr *OmmersHashDiffError
	if err := validator.ValidateBlockPreExecution(block); !errors.As(err, &ommersErr) {
		t.Errorf("ommers hash: have %v, want OmmersHashDiffError", err)
	}

	block = emptyBlock(500, func(h *types.Header) { h.TxHash = common.HexToHash("0x02") })
	var txErr *TxRootDiffError
	if err := validator.ValidateBlockPreExecution(block); !errors.As(err, &txErr) {
		t.Errorf("tx root: have %v, want TxRootDiffError", err)
	}
}

func TestValidateBodyAgainstHeader(t *testing.T) {
	validator := New(testConfig())
	header := &types.Header{
		Number:    big.NewInt(100),
		Time:      500,
		TxHash:    types.EmptyTxsHash,
		UncleHash: types.EmptyUncleHash,
	}
	if err := validator.ValidateBodyAgainstHeader(&types.Body{}, header); err != nil {
		t.Errorf("empty body rejected: %v", err)
	}
	if err := validator.ValidateBodyAgainstHeader(&types.Body{Withdrawals: []*types.Withdrawal{}}, header); !errors.Is(err, ErrUnexpectedWithdrawals) {
		t.Errorf("unexpected withdrawals: have %v, want ErrUnexpectedWithdrawals", err)
	}

	// Canyon: the body's (empty) withdrawal list must re-derive the
	// header's root.
	canyonHeader := *header
	canyonHeader.Time = 1500
	root := types.EmptyWithdrawalsHash
	canyonHeader.WithdrawalsHash = &root
	if err := validator.ValidateBodyAgainstHeader(&types.Body{Withdrawals: []*types.Withdrawal{}}, &canyonHeader); err != nil {
		t.Errorf("canyon body rejected: %v", err)
	}
	if err := validator.ValidateBodyAgainstHeader(&types.Body{}, &canyonHeader); !errors.Is(err, ErrMissingWithdrawals) {
		t.Errorf("missing withdrawals: have %v, want ErrMissingWithdrawals", err)
	}
	var rootDiff *WithdrawalsRootDiffError
	if err := validator.ValidateBodyAgainstHeader(&types.Body{Withdrawals: []*types.Withdrawal{{Index: 1}}}, &canyonHeader); !errors.As(err, &rootDiff) {
		t.Errorf("withdrawals root: have %v, want WithdrawalsRootDiffError", err)
	}

	// Isthmus: the root is a storage commitment, the body list just has to
	// be empty.
	isthmusHeader := canyonHeader
	isthmusHeader.Time = 4500
	storage := common.HexToHash("0x03")
	isthmusHeader.WithdrawalsHash = &storage
	if err := validator.ValidateBodyAgainstHeader(&types.Body{Withdrawals: []*types.Withdrawal{}}, &isthmusHeader); err != nil {
		t.Errorf("isthmus body rejected: %v", err)
	}
	if err := validator.ValidateBodyAgainstHeader(&types.Body{Withdrawals: []*types.Withdrawal{{Index: 1}}}, &isthmusHeader); !errors.Is(err, ErrWithdrawalsNotEmpty) {
		t.Errorf("isthmus withdrawals: have %v, want ErrWithdrawalsNotEmpty", err)
	}
}

func TestValidateHeaderWithTotalDifficulty(t *testing.T) {
	validator := New(testConfig())
	header := &types.Header{
		Number:    big.NewInt(100),
		UncleHash: types.EmptyUncleHash,
	}
	if err := validator.ValidateHeaderWithTotalDifficulty(header, common.Big0); err != nil {
		t.Errorf("valid header rejected: %v", err)
	}

	bad := *header
	bad.Nonce = types.EncodeNonce(1)
	if err := validator.ValidateHeaderWithTotalDifficulty(&bad, common.Big0); !errors.Is(err, ErrMergeNonceNotZero) {
		t.Errorf("nonce: have %v, want ErrMergeNonceNotZero", err)
	}

	bad = *header
	bad.UncleHash = common.HexToHash("0x04")
	if err := validator.ValidateHeaderWithTotalDifficulty(&bad, common.Big0); !errors.Is(err, ErrMergeUncleRootNotEmpty) {
		t.Errorf("uncle root: have %v, want ErrMergeUncleRootNotEmpty", err)
	}

	bad = *header
	bad.Extra = make([]byte, params.MaximumExtraDataSize+1)
	if err := validator.ValidateHeaderWithTotalDifficulty(&bad, common.Big0); !errors.Is(err, ErrExtraDataTooLong) {
		t.Errorf("extra data: have %v, want ErrExtraDataTooLong", err)
	}
}

func TestValidateHeaderWithTotalDifficultyPreBedrock(t *testing.T) {
	config := testConfig()
	config.BedrockBlock = big.NewInt(1000)
	validator := New(config)

	defer func() {
		if recover() == nil {
			t.Error("pre-bedrock header did not panic")
		}
	}()
	validator.ValidateHeaderWithTotalDifficulty(&types.Header{Number: big.NewInt(5)}, common.Big0)
}

func testReceipts() types.Receipts {
	nonce := uint64(7)
	version := uint64(1)
	return types.Receipts{
		&types.Receipt{
			Type:              types.DepositTxType,
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: 50_000,
			Logs: []*types.Log{{
				Address: common.HexToAddress("0x4200000000000000000000000000000000000015"),
				Topics:  []common.Hash{common.HexToHash("0x05")},
			}},
			DepositNonce:          &nonce,
			DepositReceiptVersion: &version,
		},
		&types.Receipt{
			Type:              types.DynamicFeeTxType,
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: 71_000,
		},
	}
}

func TestValidateBlockPostExecution(t *testing.T) {
	validator := New(testConfig())
	receipts := testReceipts()

	block := emptyBlock(1500, func(h *types.Header) {
		h.GasUsed = 71_000
		h.Bloom = types.CreateBloom(receipts)
		h.ReceiptHash = types.CalcReceiptsRoot(receipts, validator.Config(), 1500)
	})
	result := &BlockExecutionResult{Receipts: receipts, GasUsed: 71_000}
	if err := validator.ValidateBlockPostExecution(block, result); err != nil {
		t.Errorf("valid block rejected: %v", err)
	}

	// Gas used mismatch.
	var gasErr *GasUsedDiffError
	if err := validator.ValidateBlockPostExecution(block, &BlockExecutionResult{Receipts: receipts, GasUsed: 70_000}); !errors.As(err, &gasErr) {
		t.Errorf("gas used: have %v, want GasUsedDiffError", err)
	}

	// Receipt root mismatch.
	bad := emptyBlock(1500, func(h *types.Header) {
		h.GasUsed = 71_000
		h.Bloom = types.CreateBloom(receipts)
		h.ReceiptHash = common.HexToHash("0x06")
	})
	var rootErr *ReceiptRootDiffError
	if err := validator.ValidateBlockPostExecution(bad, result); !errors.As(err, &rootErr) {
		t.Errorf("receipt root: have %v, want ReceiptRootDiffError", err)
	}

	// Bloom mismatch.
	bad = emptyBlock(1500, func(h *types.Header) {
		h.GasUsed = 71_000
		h.ReceiptHash = types.CalcReceiptsRoot(receipts, validator.Config(), 1500)
	})
	var bloomErr *BloomDiffError
	if err := validator.ValidateBlockPostExecution(bad, result); !errors.As(err, &bloomErr) {
		t.Errorf("bloom: have %v, want BloomDiffError", err)
	}
}

func TestReceiptsRootDepositGatingAcrossCanyon(t *testing.T) {
	validator := New(testConfig())
	receipts := testReceipts()

	// Pre-Canyon the deposit fields stay out of the commitment, so a header
	// derived from the stripped encoding validates even though the fields
	// are populated in memory.
	preRoot := types.CalcReceiptsRoot(receipts.StripDepositFields(), validator.Config(), 500)
	block := emptyBlock(500, func(h *types.Header) {
		h.GasUsed = 71_000
		h.Bloom = types.CreateBloom(receipts)
		h.ReceiptHash = preRoot
	})
	result := &BlockExecutionResult{Receipts: receipts, GasUsed: 71_000}
	if err := validator.ValidateBlockPostExecution(block, result); err != nil {
		t.Errorf("pre-canyon block rejected: %v", err)
	}

	// The same header fails after Canyon, where the fields are committed.
	postBlock := emptyBlock(1500, func(h *types.Header) {
		h.GasUsed = 71_000
		h.Bloom = types.CreateBloom(receipts)
		h.ReceiptHash = preRoot
	})
	var rootErr *ReceiptRootDiffError
	if err := validator.ValidateBlockPostExecution(postBlock, result); !errors.As(err, &rootErr) {
		t.Errorf("post-canyon block: have %v, want ReceiptRootDiffError", err)
	}
}
