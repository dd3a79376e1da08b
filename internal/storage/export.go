package storage

import (
	"encoding/json"
	"io"
	"strings"
)

type ExportData struct {
	Run       RunMetadata  `json:"run"`
	Bonds     []BondRecord `json:"bonds"`
	Equations []string     `json:"equations"`
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	bonds, err := s.LoadBonds(runID)
	if err != nil {
		return nil, err
	}
	text, err := s.LoadEquations(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{Run: *meta, Bonds: bonds, Equations: []string{}}
	for _, line := range strings.Split(text, "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		data.Equations = append(data.Equations, line)
	}
	return data, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
