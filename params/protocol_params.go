// Copyright 2015 The go-ethereum Authors
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

package params

const (
	GasLimitBoundDivisor uint64 = 1024    // The bound divisor of the gas limit, used in update calculations.
	MinGasLimit          uint64 = 5000    // Minimum the gas limit may ever be.
	MaxGasLimit          uint64 = 0x7fffffffffffffff // Maximum the gas limit (2^63-1).

	MaximumExtraDataSize uint64 = 32 // Maximum size extra data may be after Genesis.

	InitialBaseFee = 1000000000 // Initial base fee for EIP-1559 blocks.

	DefaultBaseFeeChangeDenominator = 8 // Bounds the amount the base fee can change between blocks.
	DefaultElasticityMultiplier     = 2 // Bounds the maximum gas limit an EIP-1559 block may have.

	BlobTxBlobGasPerBlob  = 1 << 17 // Gas consumption of a single data blob (== blob byte size).
	BlobTxMinBlobGasprice = 1       // Minimum gas price for data blobs.

	// HoloceneExtraDataLength is the expected byte length of the EIP-1559
	// parameter block carried in the header extra-data once Holocene is
	// active: one version byte followed by the 4-byte denominator and the
	// 4-byte elasticity multiplier, both big-endian.
	HoloceneExtraDataLength = 9

	// HoloceneExtraDataVersion is the only version byte currently defined for
	// the Holocene extra-data format.
	HoloceneExtraDataVersion = 0x00
)
