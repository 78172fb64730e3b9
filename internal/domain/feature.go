package domain

import (
	"encoding/json"
	"fmt"
)

// Feature identifies an SDK capability that may be disabled per network.
type Feature int

const (
	FeatureBridge Feature = iota
	FeatureFlashblocks
	FeatureGiwaID
	FeatureDojang
	FeatureFaucet
	FeatureTokens
)

var featureNames = [...]string{
	FeatureBridge:      "bridge",
	FeatureFlashblocks: "flashblocks",
	FeatureGiwaID:      "giwaId",
	FeatureDojang:      "dojang",
	FeatureFaucet:      "faucet",
	FeatureTokens:      "tokens",
}

// AllFeatures returns the fixed feature set in summary order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureBridge,
		FeatureFlashblocks,
		FeatureGiwaID,
		FeatureDojang,
		FeatureFaucet,
		FeatureTokens,
	}
}

func (f Feature) String() string {
	if f < 0 || int(f) >= len(featureNames) {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// ParseFeature maps a wire name such as "giwaId" to its Feature.
func ParseFeature(name string) (Feature, error) {
	for i, n := range featureNames {
		if n == name {
			return Feature(i), nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", name)
}

// Features maps each feature to its availability on the current network.
// Missing entries are unavailable.
type Features map[Feature]bool

// Available reports whether f is usable.
func (fs Features) Available(f Feature) bool {
	return fs[f]
}

// CountAvailable returns how many of the given features are available.
func (fs Features) CountAvailable(features ...Feature) int {
	n := 0
	for _, f := range features {
		if fs.Available(f) {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the set keyed by feature name.
func (fs Features) MarshalJSON() ([]byte, error) {
	out := make(map[string]bool, len(fs))
	for f, ok := range fs {
		out[f.String()] = ok
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a name-keyed object. Unknown names are ignored so a
// newer gateway can announce features this build does not probe.
func (fs *Features) UnmarshalJSON(data []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Features, len(raw))
	for name, ok := range raw {
		f, err := ParseFeature(name)
		if err != nil {
			continue
		}
		out[f] = ok
	}
	*fs = out
	return nil
}
