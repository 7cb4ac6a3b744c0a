// Copyright 2023 The go-ethereum Authors
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

package eip4844

import (
	"math/big"

	"github.com/ethereum-optimism/op-consensus/core/types"
	"github.com/ethereum-optimism/op-consensus/params"
)

// CalcExcessBlobGas calculates the excess blob gas after applying the set of
// blobs on top of the excess blob gas. The parent fields default to zero when
// the parent predates the blob fork.
func CalcExcessBlobGas(config *params.ChainConfig, parent *types.Header, headTimestamp uint64) uint64 {
	var (
		parentExcessBlobGas uint64
		parentBlobGasUsed   uint64
	)
	if parent.ExcessBlobGas != nil {
		parentExcessBlobGas = *parent.ExcessBlobGas
		if parent.BlobGasUsed != nil {
			parentBlobGasUsed = *parent.BlobGasUsed
		}
	}
	blobConfig := config.BlobConfig(headTimestamp)
	if blobConfig == nil {
		return 0
	}
	excessBlobGas := parentExcessBlobGas + parentBlobGasUsed
	target := blobConfig.TargetBlobGasPerBlock()
	if excessBlobGas < target {
		return 0
	}
	return excessBlobGas - target
}

// CalcBlobFee calculates the blobfee from the header's excess blob gas field.
func CalcBlobFee(config *params.ChainConfig, header *types.Header) *big.Int {
	blobConfig := config.BlobConfig(header.Time)
	if blobConfig == nil {
		panic("calculating blob fee on unsupported fork")
	}
	var excessBlobGas uint64
	if header.ExcessBlobGas != nil {
		excessBlobGas = *header.ExcessBlobGas
	}
	return fakeExponential(
		big.NewInt(params.BlobTxMinBlobGasprice),
		new(big.Int).SetUint64(excessBlobGas),
		new(big.Int).SetUint64(blobConfig.UpdateFraction),
	)
}

// fakeExponential approximates factor * e ** (numerator / denominator) using
// Taylor expansion.
func fakeExponential(factor, numerator, denominator *big.Int) *big.Int {
	var (
		output = new(big.Int)
		accum  = new(big.Int).Mul(factor, denominator)
	)
	for i := 1; accum.Sign() > 0; i++ {
		output.Add(output, accum)

		accum.Mul(accum, numerator)
		accum.Div(accum, denominator)
		accum.Div(accum, big.NewInt(int64(i)))
	}
	return output.Div(output, denominator)
}
