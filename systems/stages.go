package systems

// Stage describes one step of the stem tick for display.
type Stage struct {
	Key         string // Matches the telemetry phase key
	Label       string
	Description string
	PerStem     bool // Runs once per live stem rather than once per tick
}

// StageTable holds stage metadata in tick order so the perf panel and
// the log tables label phases the same way.
type StageTable struct {
	stages []Stage
	byKey  map[string]int
}

// NewStageTable returns the stages of the stem tick.
func NewStageTable() *StageTable {
	return newStageTable(
		Stage{Key: "growth", Label: "Growth", Description: "Advance length and regenerate centerlines", PerStem: true},
		Stage{Key: "mesh", Label: "Tube mesh", Description: "Loft tubes around regenerated centerlines", PerStem: true},
		Stage{Key: "cleanup", Label: "Cleanup", Description: "Remove despawned stems"},
		Stage{Key: "telemetry", Label: "Telemetry", Description: "Flush growth rows and window stats"},
	)
}

func newStageTable(stages ...Stage) *StageTable {
	t := &StageTable{byKey: make(map[string]int, len(stages))}
	for _, s := range stages {
		if i, ok := t.byKey[s.Key]; ok {
			t.stages[i] = s
			continue
		}
		t.byKey[s.Key] = len(t.stages)
		t.stages = append(t.stages, s)
	}
	return t
}

// Lookup returns the stage with the given key.
func (t *StageTable) Lookup(key string) (Stage, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return Stage{}, false
	}
	return t.stages[i], true
}

// Label returns the display label for key, or key itself when unknown.
func (t *StageTable) Label(key string) string {
	if s, ok := t.Lookup(key); ok {
		return s.Label
	}
	return key
}

// Stages returns a copy of the stages in tick order.
func (t *StageTable) Stages() []Stage {
	return append([]Stage(nil), t.stages...)
}

// PerStem returns the keys of stages that run once per stem.
func (t *StageTable) PerStem() []string {
	var keys []string
	for _, s := range t.stages {
		if s.PerStem {
			keys = append(keys, s.Key)
		}
	}
	return keys
}
