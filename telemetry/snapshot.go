package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/stem/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds every stem's parameters and growth state.
// Geometry is not stored; it is rebuilt from the state on load.
type Snapshot struct {
	Version int `json:"version"`

	NoiseKind string `json:"noise_kind"`
	NoiseSeed int64  `json:"noise_seed"`

	Tick int32 `json:"tick"`

	Stems []StemState `json:"stems"`
}

// StemState holds one stem's persistent state.
type StemState struct {
	ID     uint32     `json:"id"`
	Name   string     `json:"name"`
	Base   [3]float64 `json:"base"`
	Params ParamsJSON `json:"params"`

	CurrentLength float64 `json:"current_length"`
	MaxLength     float64 `json:"max_length"`
	Roughness     float64 `json:"roughness"`
	Thickness     float64 `json:"thickness"`
}

// ParamsJSON is the JSON form of components.Params.
type ParamsJSON struct {
	Age          float64 `json:"age"`
	RateOfGrowth float64 `json:"rate_of_growth"`
	Roughness    float64 `json:"roughness"`
	Thickness    float64 `json:"thickness"`
}

// NewStemState captures a stem for a snapshot.
func NewStemState(id uint32, name string, base [3]float64, params components.Params, state components.GrowthState) StemState {
	return StemState{
		ID:   id,
		Name: name,
		Base: base,
		Params: ParamsJSON{
			Age:          params.Age,
			RateOfGrowth: params.RateOfGrowth,
			Roughness:    params.Roughness,
			Thickness:    params.Thickness,
		},
		CurrentLength: state.CurrentLength,
		MaxLength:     state.MaxLength,
		Roughness:     state.Roughness,
		Thickness:     state.Thickness,
	}
}

// ToParams returns the stem's parameters, clamped into range.
func (s StemState) ToParams() components.Params {
	return components.Params{
		Age:          s.Params.Age,
		RateOfGrowth: s.Params.RateOfGrowth,
		Roughness:    s.Params.Roughness,
		Thickness:    s.Params.Thickness,
	}.Clamped()
}

// ToGrowthState returns the stem's growth record, bounded for a stem
// with the given target length that grows at most step per tick.
func (s StemState) ToGrowthState(target, step float64) components.GrowthState {
	return components.GrowthState{
		CurrentLength: s.CurrentLength,
		MaxLength:     s.MaxLength,
		Roughness:     s.Roughness,
		Thickness:     s.Thickness,
	}.Clamped(target, step)
}

// SaveSnapshot writes a snapshot to dir/snapshot_<tick>.json.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d (want %d)", snapshot.Version, SnapshotVersion)
	}

	return &snapshot, nil
}
