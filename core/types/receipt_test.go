// Copyright 2019 The go-ethereum Authors
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

package types

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/op-consensus/params"
)

func sampleReceipts() Receipts {
	nonce := uint64(4012)
	version := uint64(1)
	return Receipts{
		&Receipt{
			Type:              DepositTxType,
			Status:            ReceiptStatusSuccessful,
			CumulativeGasUsed: 50_000,
			Logs: []*Log{{
				Address: common.HexToAddress("0x4200000000000000000000000000000000000015"),
				Topics:  []common.Hash{common.HexToHash("0x22")},
				Data:    []byte{0x01, 0x02},
			}},
			DepositNonce:          &nonce,
			DepositReceiptVersion: &version,
		},
		&Receipt{
			Type:              DynamicFeeTxType,
			Status:            ReceiptStatusSuccessful,
			CumulativeGasUsed: 71_000,
			Logs:              []*Log{},
		},
	}
}

func TestDepositReceiptEncoding(t *testing.T) {
	receipts := sampleReceipts()

	var withVersion bytes.Buffer
	receipts.EncodeIndex(0, &withVersion)

	// Without the receipt version, the deposit fields are left out of the
	// encoding even when the nonce is populated.
	stripped := *receipts[0]
	stripped.DepositReceiptVersion = nil
	var withoutVersion bytes.Buffer
	Receipts{&stripped}.EncodeIndex(0, &withoutVersion)

	require.NotEqual(t, withVersion.Bytes(), withoutVersion.Bytes())
	require.Equal(t, byte(DepositTxType), withVersion.Bytes()[0])
	require.Equal(t, byte(DepositTxType), withoutVersion.Bytes()[0])

	// A non-deposit receipt never carries the fields.
	var dynamic bytes.Buffer
	receipts.EncodeIndex(1, &dynamic)
	require.Equal(t, byte(DynamicFeeTxType), dynamic.Bytes()[0])
}

func TestStripDepositFields(t *testing.T) {
	receipts := sampleReceipts()
	stripped := receipts.StripDepositFields()

	require.Len(t, stripped, len(receipts))
	require.Nil(t, stripped[0].DepositNonce)
	require.Nil(t, stripped[0].DepositReceiptVersion)
	// Originals are untouched.
	require.NotNil(t, receipts[0].DepositNonce)
	require.NotNil(t, receipts[0].DepositReceiptVersion)
	// Receipts without deposit fields are shared.
	require.Same(t, receipts[1], stripped[1])
}

func TestCalcReceiptsRootDepositGating(t *testing.T) {
	canyonTime := uint64(1000)
	config := &params.ChainConfig{
		ChainID:      big.NewInt(901),
		BedrockBlock: big.NewInt(0),
		ShanghaiTime: &canyonTime,
		CanyonTime:   &canyonTime,
	}
	receipts := sampleReceipts()

	preCanyon := CalcReceiptsRoot(receipts, config, canyonTime-1)
	postCanyon := CalcReceiptsRoot(receipts, config, canyonTime)

	// The deposit fields only enter the commitment once Canyon is active.
	require.NotEqual(t, preCanyon, postCanyon)

	// Pre-Canyon the root matches the one over stripped receipts.
	require.Equal(t, CalcReceiptsRoot(receipts.StripDepositFields(), config, canyonTime-1), preCanyon)

	// Pure function: recomputing yields the identical root.
	require.Equal(t, preCanyon, CalcReceiptsRoot(receipts, config, canyonTime-1))
	require.Equal(t, postCanyon, CalcReceiptsRoot(receipts, config, canyonTime))
}

func TestReceiptEncodeDecodeRoundTrip(t *testing.T) {
	receipts := sampleReceipts()
	for i, r := range receipts {
		enc, err := r.MarshalBinary()
		require.NoError(t, err, "receipt %d", i)

		var dec Receipt
		require.NoError(t, dec.UnmarshalBinary(enc), "receipt %d", i)
		require.Equal(t, r.Type, dec.Type)
		require.Equal(t, r.Status, dec.Status)
		require.Equal(t, r.CumulativeGasUsed, dec.CumulativeGasUsed)
		if r.Type == DepositTxType {
			require.Equal(t, r.DepositNonce, dec.DepositNonce)
			require.Equal(t, r.DepositReceiptVersion, dec.DepositReceiptVersion)
		}
	}
}
