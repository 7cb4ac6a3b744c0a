// Copyright 2021 The go-ethereum Authors
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

package eip1559

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ethereum-optimism/op-consensus/core/types"
	"github.com/ethereum-optimism/op-consensus/params"
)

// CalcBaseFee calculates the basefee of the header. The time parameter is the
// timestamp of the block to calculate the base fee for. Once Holocene is
// active on the parent, the adjustment parameters come from the parent's
// extra-data instead of the chain configuration; a malformed parameter block
// is returned as an error, never applied.
func CalcBaseFee(config *params.ChainConfig, parent *types.Header, time uint64) (*big.Int, error) {
	if config.IsHolocene(parent.Time) {
		denominator, elasticity, err := DecodeHolocene1559Params(parent.Extra)
		if err != nil {
			return nil, err
		}
		if denominator == 0 {
			// A zeroed parameter block means the chain's canonical constants apply.
			return calcBaseFee(config, parent, config.BaseFeeChangeDenominator(time), config.ElasticityMultiplier()), nil
		}
		return calcBaseFee(config, parent, uint64(denominator), uint64(elasticity)), nil
	}
	return calcBaseFee(config, parent, config.BaseFeeChangeDenominator(time), config.ElasticityMultiplier()), nil
}

// calcBaseFee applies the EIP-1559 adjustment formula with the given
// denominator and elasticity multiplier.
func calcBaseFee(config *params.ChainConfig, parent *types.Header, denominator, elasticity uint64) *big.Int {
	// If the parent block carries no base fee, this is the first EIP-1559
	// block: return the initial base fee.
	if parent.BaseFee == nil {
		return new(big.Int).SetUint64(params.InitialBaseFee)
	}
	if elasticity == 0 || denominator == 0 {
		return new(big.Int).Set(parent.BaseFee)
	}
	parentGasTarget := parent.GasLimit / elasticity
	// An elasticity above the parent gas limit yields a zero target, which
	// admits no adjustment. The fee carries over, matching NextBlockBaseFee.
	// If the parent gasUsed is the same as the target, the baseFee remains
	// unchanged as well.
	if parentGasTarget == 0 || parent.GasUsed == parentGasTarget {
		return new(big.Int).Set(parent.BaseFee)
	}

	var (
		num   = new(big.Int)
		denom = new(big.Int)
	)

	if parent.GasUsed > parentGasTarget {
		// If the parent block used more gas than its target, the baseFee should increase.
		// max(1, parentBaseFee * gasUsedDelta / parentGasTarget / baseFeeChangeDenominator)
		num.SetUint64(parent.GasUsed - parentGasTarget)
		num.Mul(num, parent.BaseFee)
		num.Div(num, denom.SetUint64(parentGasTarget))
		num.Div(num, denom.SetUint64(denominator))
		if num.Cmp(common.Big1) < 0 {
			return num.Add(parent.BaseFee, common.Big1)
		}
		return num.Add(parent.BaseFee, num)
	} else {
		// Otherwise if the parent block used less gas than its target, the baseFee should decrease.
		// max(0, parentBaseFee * gasUsedDelta / parentGasTarget / baseFeeChangeDenominator)
		num.SetUint64(parentGasTarget - parent.GasUsed)
		num.Mul(num, parent.BaseFee)
		num.Div(num, denom.SetUint64(parentGasTarget))
		num.Div(num, denom.SetUint64(denominator))

		baseFee := num.Sub(parent.BaseFee, num)
		if baseFee.Cmp(common.Big0) < 0 {
			baseFee = common.Big0
		}
		return baseFee
	}
}
