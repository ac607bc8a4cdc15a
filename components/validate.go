package components

import "fmt"

// Validate checks that the buffers are aligned and every index is in range.
func (m *TubeMesh) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n {
		return fmt.Errorf("normals: have %d, want %d", len(m.Normals), n)
	}
	if len(m.UVs) != n {
		return fmt.Errorf("uvs: have %d, want %d", len(m.UVs), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("indices: length %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("indices[%d]: %d out of range for %d vertices", i, idx, n)
		}
	}
	return nil
}
