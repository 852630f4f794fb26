// Copyright (C) 2022-2025 Advanced Micro Devices, Inc.
// SPDX-License-Identifier: Apache-2.0

package fingerprint

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// FeatureSet is the ISA feature-flag bitset occupying the low 32 bits of the
// fingerprint. Bits without a name below are carried but unnamed; they still
// participate in compatibility matching.
type FeatureSet uint32

const (
	FeatureConv FeatureSet = 1 << iota
	FeatureDepthwiseConv
	FeatureTransposedConv
	FeatureMaxPool
	FeatureAvgPool
	FeatureElementwiseAdd
	FeatureElementwiseMult
	FeatureReLU
	FeatureReLU6
	FeatureLeakyReLU
	FeaturePReLU
	FeatureHardSigmoid
	FeatureHardSwish
	FeatureFC
	FeatureConcat
	FeatureReshape
	FeatureSoftmax
	FeatureArgMax
	FeatureChannelAugmentation
	FeatureDepthwiseDSP
	FeatureLowPowerMode
	FeatureSaveArgMax
)

var featureNames = map[FeatureSet]string{
	FeatureConv:                "conv",
	FeatureDepthwiseConv:       "depthwise-conv",
	FeatureTransposedConv:      "transposed-conv",
	FeatureMaxPool:             "max-pool",
	FeatureAvgPool:             "avg-pool",
	FeatureElementwiseAdd:      "elew-add",
	FeatureElementwiseMult:     "elew-mult",
	FeatureReLU:                "relu",
	FeatureReLU6:               "relu6",
	FeatureLeakyReLU:           "leaky-relu",
	FeaturePReLU:               "prelu",
	FeatureHardSigmoid:         "hard-sigmoid",
	FeatureHardSwish:           "hard-swish",
	FeatureFC:                  "fc",
	FeatureConcat:              "concat",
	FeatureReshape:             "reshape",
	FeatureSoftmax:             "softmax",
	FeatureArgMax:              "argmax",
	FeatureChannelAugmentation: "channel-augmentation",
	FeatureDepthwiseDSP:        "depthwise-dsp",
	FeatureLowPowerMode:        "low-power",
	FeatureSaveArgMax:          "save-argmax",
}

// featureByName is the inverse of featureNames, built once at init.
var featureByName = func() map[string]FeatureSet {
	m := make(map[string]FeatureSet, len(featureNames))
	for bit, name := range featureNames {
		m[name] = bit
	}
	return m
}()

// Has reports whether every bit in want is set.
func (s FeatureSet) Has(want FeatureSet) bool {
	return s&want == want
}

// Set returns the named features as a set, for listing and diffing against
// another target's features. Unnamed bits are omitted.
func (s FeatureSet) Set() mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	for bit, name := range featureNames {
		if s&bit != 0 {
			out.Add(name)
		}
	}
	return out
}

// Names returns the named features in a stable sorted order.
func (s FeatureSet) Names() []string {
	names := s.Set().ToSlice()
	sort.Strings(names)
	return names
}

// FeatureFromName returns the bit for a feature name.
func FeatureFromName(name string) (FeatureSet, bool) {
	bit, ok := featureByName[name]
	return bit, ok
}

// Missing returns the named features present in want but not in s.
func (s FeatureSet) Missing(want FeatureSet) []string {
	diff := want.Set().Difference(s.Set()).ToSlice()
	sort.Strings(diff)
	return diff
}
