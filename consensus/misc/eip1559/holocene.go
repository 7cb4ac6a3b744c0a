// Copyright 2024 The go-ethereum Authors
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
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ethereum-optimism/op-consensus/params"
)

// Once Holocene activates, the header extra-data carries the EIP-1559
// adjustment parameters in a fixed layout:
//
//	extraData = version(1) ++ denominator(4, big-endian) ++ elasticity(4, big-endian)
//
// A parameter block with both values zero selects the chain's canonical
// constants. A zero denominator combined with a non-zero elasticity (or vice
// versa) has no defined fee formula and is rejected.

// EncodeHolocene1559Params encodes the EIP-1559 parameters into the Holocene
// extra-data format.
func EncodeHolocene1559Params(denominator, elasticity uint32) []byte {
	r := make([]byte, params.HoloceneExtraDataLength)
	r[0] = params.HoloceneExtraDataVersion
	binary.BigEndian.PutUint32(r[1:5], denominator)
	binary.BigEndian.PutUint32(r[5:9], elasticity)
	return r
}

// DecodeHolocene1559Params extracts the EIP-1559 parameters from the Holocene
// extra-data format. An error is returned when the field has the wrong
// length, an unknown version byte, or an inconsistent parameter pair.
func DecodeHolocene1559Params(extra []byte) (denominator, elasticity uint32, err error) {
	if len(extra) != params.HoloceneExtraDataLength {
		return 0, 0, fmt.Errorf("invalid extraData length: have %d, want %d", len(extra), params.HoloceneExtraDataLength)
	}
	if extra[0] != params.HoloceneExtraDataVersion {
		return 0, 0, fmt.Errorf("invalid extraData version byte: have %d, want %d", extra[0], params.HoloceneExtraDataVersion)
	}
	denominator = binary.BigEndian.Uint32(extra[1:5])
	elasticity = binary.BigEndian.Uint32(extra[5:9])
	if (denominator == 0) != (elasticity == 0) {
		return 0, 0, fmt.Errorf("invalid extraData params: denominator %d, elasticity %d", denominator, elasticity)
	}
	return denominator, elasticity, nil
}

// ValidateHolocene1559Params checks that the header extra-data is a
// well-formed Holocene parameter block.
func ValidateHolocene1559Params(extra []byte) error {
	_, _, err := DecodeHolocene1559Params(extra)
	return err
}

// NextBlockBaseFee computes the expected base fee of the block following
// parent using the supplied adjustment parameters. It is the fixed-width
// counterpart of calcBaseFee used where the inputs are known to be 64-bit.
func NextBlockBaseFee(parentBaseFee, parentGasUsed, parentGasLimit, denominator, elasticity uint64) uint64 {
	if elasticity == 0 || denominator == 0 {
		return parentBaseFee
	}
	gasTarget := parentGasLimit / elasticity
	if gasTarget == 0 || parentGasUsed == gasTarget {
		return parentBaseFee
	}
	var (
		baseFee = uint256.NewInt(parentBaseFee)
		num     = new(uint256.Int)
	)
	if parentGasUsed > gasTarget {
		num.SetUint64(parentGasUsed - gasTarget)
		num.Mul(num, baseFee)
		num.Div(num, uint256.NewInt(gasTarget))
		num.Div(num, uint256.NewInt(denominator))
		if num.IsZero() {
			num.SetOne()
		}
		return num.Add(baseFee, num).Uint64()
	}
	num.SetUint64(gasTarget - parentGasUsed)
	num.Mul(num, baseFee)
	num.Div(num, uint256.NewInt(gasTarget))
	num.Div(num, uint256.NewInt(denominator))
	if num.Cmp(baseFee) > 0 {
		return 0
	}
	return new(uint256.Int).Sub(baseFee, num).Uint64()
}
