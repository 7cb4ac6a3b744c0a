// Copyright 2016 The go-ethereum Authors
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

import (
	"fmt"
	"math/big"
)

// Chain configurations for well-known OP-stack networks. The configuration is
// shared read-only by every validation call for the lifetime of the process.
var (
	// OPMainnetChainConfig is the chain parameters of OP Mainnet.
	OPMainnetChainConfig = &ChainConfig{
		ChainID:      big.NewInt(10),
		BedrockBlock: big.NewInt(105_235_063),
		RegolithTime: newUint64(0),
		ShanghaiTime: newUint64(1704992401),
		CanyonTime:   newUint64(1704992401),
		CancunTime:   newUint64(1710374401),
		EcotoneTime:  newUint64(1710374401),
		HoloceneTime: newUint64(1736445601),
		IsthmusTime:  newUint64(1746806401),
		Optimism: &OptimismConfig{
			EIP1559Elasticity:        6,
			EIP1559Denominator:       50,
			EIP1559DenominatorCanyon: newUint64(250),
		},
		BlobScheduleConfig: &BlobScheduleConfig{
			Cancun: DefaultCancunBlobConfig,
		},
	}

	// BaseMainnetChainConfig is the chain parameters of Base Mainnet.
	BaseMainnetChainConfig = &ChainConfig{
		ChainID:      big.NewInt(8453),
		BedrockBlock: big.NewInt(0),
		RegolithTime: newUint64(0),
		ShanghaiTime: newUint64(1704992401),
		CanyonTime:   newUint64(1704992401),
		CancunTime:   newUint64(1710374401),
		EcotoneTime:  newUint64(1710374401),
		HoloceneTime: newUint64(1736445601),
		IsthmusTime:  newUint64(1746806401),
		Optimism: &OptimismConfig{
			EIP1559Elasticity:        6,
			EIP1559Denominator:       50,
			EIP1559DenominatorCanyon: newUint64(250),
		},
		BlobScheduleConfig: &BlobScheduleConfig{
			Cancun: DefaultCancunBlobConfig,
		},
	}

	// AllDevChainConfig contains every protocol change active from genesis,
	// for use in tests and ephemeral devnets.
	AllDevChainConfig = &ChainConfig{
		ChainID:      big.NewInt(901),
		BedrockBlock: big.NewInt(0),
		RegolithTime: newUint64(0),
		ShanghaiTime: newUint64(0),
		CanyonTime:   newUint64(0),
		CancunTime:   newUint64(0),
		EcotoneTime:  newUint64(0),
		HoloceneTime: newUint64(0),
		IsthmusTime:  newUint64(0),
		Optimism: &OptimismConfig{
			EIP1559Elasticity:        6,
			EIP1559Denominator:       50,
			EIP1559DenominatorCanyon: newUint64(250),
		},
		BlobScheduleConfig: &BlobScheduleConfig{
			Cancun: DefaultCancunBlobConfig,
		},
	}
)

// DefaultCancunBlobConfig is the blob market parameters introduced with the
// Ecotone (Cancun-equivalent) fork.
var DefaultCancunBlobConfig = &BlobConfig{
	Target:         3,
	Max:            6,
	UpdateFraction: 3338477,
}

// ChainConfig is the core config which determines the blockchain settings.
//
// ChainConfig is stored in the database on a per block basis. This means
// that any network, identified by its genesis block, can have its own
// set of configuration options.
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"` // chainId identifies the current chain and is used for replay protection

	// BedrockBlock marks the transition to the post-merge rule set. On OP-stack
	// chains the Bedrock activation number plays the role the terminal total
	// difficulty plays on L1.
	BedrockBlock *big.Int `json:"bedrockBlock,omitempty"`

	// Fork scheduling was switched from blocks to timestamps at Bedrock.
	RegolithTime *uint64 `json:"regolithTime,omitempty"` // Regolith switch time (nil = no fork, 0 = already on regolith)
	ShanghaiTime *uint64 `json:"shanghaiTime,omitempty"` // Shanghai switch time (nil = no fork, 0 = already on shanghai)
	CanyonTime   *uint64 `json:"canyonTime,omitempty"`   // Canyon switch time (nil = no fork, 0 = already on canyon)
	CancunTime   *uint64 `json:"cancunTime,omitempty"`   // Cancun switch time (nil = no fork, 0 = already on cancun)
	EcotoneTime  *uint64 `json:"ecotoneTime,omitempty"`  // Ecotone switch time (nil = no fork, 0 = already on ecotone)
	HoloceneTime *uint64 `json:"holoceneTime,omitempty"` // Holocene switch time (nil = no fork, 0 = already on holocene)
	IsthmusTime  *uint64 `json:"isthmusTime,omitempty"`  // Isthmus switch time (nil = no fork, 0 = already on isthmus)

	// Optimism config, nil if not active
	Optimism *OptimismConfig `json:"optimism,omitempty"`

	// BlobScheduleConfig holds the blob fee market parameters per fork.
	BlobScheduleConfig *BlobScheduleConfig `json:"blobSchedule,omitempty"`
}

// OptimismConfig is the optimism config.
type OptimismConfig struct {
	EIP1559Elasticity        uint64  `json:"eip1559Elasticity"`
	EIP1559Denominator       uint64  `json:"eip1559Denominator"`
	EIP1559DenominatorCanyon *uint64 `json:"eip1559DenominatorCanyon,omitempty"`
}

// BlobConfig specifies the target and max blobs per block for the associated
// fork, along with the update fraction steering the blob base fee.
type BlobConfig struct {
	Target         int    `json:"target"`
	Max            int    `json:"max"`
	UpdateFraction uint64 `json:"baseFeeUpdateFraction"`
}

// MaxBlobGasPerBlock returns the max blob gas the config permits in a block.
func (bc *BlobConfig) MaxBlobGasPerBlock() uint64 {
	return uint64(bc.Max) * BlobTxBlobGasPerBlob
}

// TargetBlobGasPerBlock returns the per-block blob gas target.
func (bc *BlobConfig) TargetBlobGasPerBlock() uint64 {
	return uint64(bc.Target) * BlobTxBlobGasPerBlob
}

// BlobScheduleConfig determines the blob fee market parameters per fork.
type BlobScheduleConfig struct {
	Cancun *BlobConfig `json:"cancun,omitempty"`
}

// Description returns a human-readable description of ChainConfig.
func (c *ChainConfig) Description() string {
	var banner string
	banner += fmt.Sprintf("Chain ID:  %v\n", c.ChainID)
	banner += "Pre-Merge hard forks (block based):\n"
	if c.BedrockBlock != nil {
		banner += fmt.Sprintf(" - Bedrock:  #%-8v\n", c.BedrockBlock)
	}
	banner += "Merge-onwards hard forks (timestamp based):\n"
	if c.RegolithTime != nil {
		banner += fmt.Sprintf(" - Regolith: @%-10v\n", *c.RegolithTime)
	}
	if c.CanyonTime != nil {
		banner += fmt.Sprintf(" - Canyon:   @%-10v\n", *c.CanyonTime)
	}
	if c.EcotoneTime != nil {
		banner += fmt.Sprintf(" - Ecotone:  @%-10v\n", *c.EcotoneTime)
	}
	if c.HoloceneTime != nil {
		banner += fmt.Sprintf(" - Holocene: @%-10v\n", *c.HoloceneTime)
	}
	if c.IsthmusTime != nil {
		banner += fmt.Sprintf(" - Isthmus:  @%-10v\n", *c.IsthmusTime)
	}
	return banner
}

// IsBedrock returns whether num is either equal to the Bedrock fork block or greater.
func (c *ChainConfig) IsBedrock(num *big.Int) bool {
	return isBlockForked(c.BedrockBlock, num)
}

// IsRegolith returns whether time is either equal to the Regolith fork time or greater.
func (c *ChainConfig) IsRegolith(time uint64) bool {
	return isTimestampForked(c.RegolithTime, time)
}

// IsShanghai returns whether time is either equal to the Shanghai fork time or greater.
func (c *ChainConfig) IsShanghai(time uint64) bool {
	return isTimestampForked(c.ShanghaiTime, time)
}

// IsCanyon returns whether time is either equal to the Canyon fork time or greater.
func (c *ChainConfig) IsCanyon(time uint64) bool {
	return isTimestampForked(c.CanyonTime, time)
}

// IsCancun returns whether time is either equal to the Cancun fork time or greater.
func (c *ChainConfig) IsCancun(time uint64) bool {
	return isTimestampForked(c.CancunTime, time)
}

// IsEcotone returns whether time is either equal to the Ecotone fork time or greater.
func (c *ChainConfig) IsEcotone(time uint64) bool {
	return isTimestampForked(c.EcotoneTime, time)
}

// IsHolocene returns whether time is either equal to the Holocene fork time or greater.
func (c *ChainConfig) IsHolocene(time uint64) bool {
	return isTimestampForked(c.HoloceneTime, time)
}

// IsIsthmus returns whether time is either equal to the Isthmus fork time or greater.
func (c *ChainConfig) IsIsthmus(time uint64) bool {
	return isTimestampForked(c.IsthmusTime, time)
}

// IsOptimism returns whether the node is an optimism node.
func (c *ChainConfig) IsOptimism() bool {
	return c.Optimism != nil
}

// BlobConfig returns the blob market parameters active at the given timestamp,
// or nil when no blob fork is scheduled or active yet.
func (c *ChainConfig) BlobConfig(time uint64) *BlobConfig {
	if c.BlobScheduleConfig == nil {
		return nil
	}
	if c.IsCancun(time) {
		return c.BlobScheduleConfig.Cancun
	}
	return nil
}

// BaseFeeChangeDenominator bounds the amount the base fee can change between blocks.
// The time parameter is the timestamp of the block to determine which fork rules
// to use.
func (c *ChainConfig) BaseFeeChangeDenominator(time uint64) uint64 {
	if c.Optimism != nil {
		if c.IsCanyon(time) && c.Optimism.EIP1559DenominatorCanyon != nil {
			return *c.Optimism.EIP1559DenominatorCanyon
		}
		return c.Optimism.EIP1559Denominator
	}
	return DefaultBaseFeeChangeDenominator
}

// ElasticityMultiplier bounds the maximum gas limit an EIP-1559 block may have.
func (c *ChainConfig) ElasticityMultiplier() uint64 {
	if c.Optimism != nil {
		return c.Optimism.EIP1559Elasticity
	}
	return DefaultElasticityMultiplier
}

// CheckConfigForkOrder checks if chain forks are scheduled in the right order,
// catching configurations where the OP forks and their L1 equivalents drift
// apart.
func (c *ChainConfig) CheckConfigForkOrder() error {
	type fork struct {
		name      string
		timestamp *uint64 // forks scheduled by timestamp
		optional  bool    // if true, the fork may be nil and next fork is still allowed
	}
	var lastFork fork
	for _, cur := range []fork{
		{name: "regolithTime", timestamp: c.RegolithTime, optional: true},
		{name: "canyonTime", timestamp: c.CanyonTime},
		{name: "ecotoneTime", timestamp: c.EcotoneTime},
		{name: "holoceneTime", timestamp: c.HoloceneTime},
		{name: "isthmusTime", timestamp: c.IsthmusTime},
	} {
		if lastFork.name != "" {
			// Next one must be higher number
			if lastFork.timestamp == nil && cur.timestamp != nil {
				return fmt.Errorf("unsupported fork ordering: %v not enabled, but %v enabled at timestamp %v",
					lastFork.name, cur.name, *cur.timestamp)
			}
			if lastFork.timestamp != nil && cur.timestamp != nil && *lastFork.timestamp > *cur.timestamp {
				return fmt.Errorf("unsupported fork ordering: %v enabled at timestamp %v, but %v enabled at timestamp %v",
					lastFork.name, *lastFork.timestamp, cur.name, *cur.timestamp)
			}
		}
		// If it was optional and not set, then ignore it
		if !cur.optional || cur.timestamp != nil {
			lastFork = cur
		}
	}
	// Canyon is the Shanghai-equivalent fork and Ecotone the Cancun-equivalent
	// one; both pairs must activate at the same instant.
	if !configTimestampEqual(c.ShanghaiTime, c.CanyonTime) {
		return fmt.Errorf("unsupported fork configuration: shanghaiTime %v must equal canyonTime %v", ptrString(c.ShanghaiTime), ptrString(c.CanyonTime))
	}
	if !configTimestampEqual(c.CancunTime, c.EcotoneTime) {
		return fmt.Errorf("unsupported fork configuration: cancunTime %v must equal ecotoneTime %v", ptrString(c.CancunTime), ptrString(c.EcotoneTime))
	}
	if c.IsthmusTime != nil && c.BlobScheduleConfig == nil {
		return fmt.Errorf("unsupported fork configuration: missing blob schedule for isthmus fork")
	}
	if c.CancunTime != nil && (c.BlobScheduleConfig == nil || c.BlobScheduleConfig.Cancun == nil) {
		return fmt.Errorf("unsupported fork configuration: missing blob schedule for cancun fork")
	}
	return nil
}

// isBlockForked returns whether a fork scheduled at block s is active at the
// given head block.
func isBlockForked(s, head *big.Int) bool {
	if s == nil || head == nil {
		return false
	}
	return s.Cmp(head) <= 0
}

// isTimestampForked returns whether a fork scheduled at timestamp s is active
// at the given head timestamp. Activation is inclusive of the fork instant.
func isTimestampForked(s *uint64, head uint64) bool {
	if s == nil {
		return false
	}
	return *s <= head
}

func configTimestampEqual(x, y *uint64) bool {
	if x == nil {
		return y == nil
	}
	if y == nil {
		return x == nil
	}
	return *x == *y
}

func newUint64(val uint64) *uint64 { return &val }

func ptrString(x *uint64) string {
	if x == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%d", *x)
}
