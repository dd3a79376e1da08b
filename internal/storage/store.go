package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/config"
	"github.com/san-kum/bondsim/internal/derive"
)

const (
	metadataFile  = "metadata.json"
	bondsFile     = "bonds.csv"
	equationsFile = "equations.txt"
	modelFile     = "model.yaml"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// safeName keeps a model name inside the store: path separators and dots
// become underscores.
func safeName(model string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.':
			return '_'
		}
		return r
	}, model)
	if name == "" {
		return "model"
	}
	return name
}

type RunMetadata struct {
	ID          string            `json:"id"`
	Model       string            `json:"model"`
	Timestamp   time.Time         `json:"timestamp"`
	Bonds       int               `json:"bonds"`
	Equations   int               `json:"equations"`
	Resolved    int               `json:"resolved"`
	Unresolved  int               `json:"unresolved"`
	Passes      map[string]int    `json:"passes"`
	Diagnostics []string          `json:"diagnostics,omitempty"`
	Derivatives map[string]string `json:"derivatives"`
}

// BondRecord is one row of bonds.csv.
type BondRecord struct {
	Number      int    `json:"number"`
	Source      string `json:"source"`
	Dest        string `json:"dest"`
	PowerToDest bool   `json:"power_to_dest"`
	Causality   string `json:"causality"`
}

// Save writes one derivation under a fresh run id: metadata, the assigned
// bonds, the equations as text and a model file that reloads with its
// causality.
func (s *Store) Save(model string, d *derive.Derivation) (string, error) {
	model = safeName(model)
	runID := fmt.Sprintf("%s_%s", model, strings.SplitN(uuid.NewString(), "-", 2)[0])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Model:       model,
		Timestamp:   time.Now(),
		Bonds:       len(d.Graph.Bonds()),
		Passes:      make(map[string]int),
		Derivatives: make(map[string]string),
	}
	if d.Causality != nil {
		for p, n := range d.Causality.Assigned {
			meta.Passes[p.String()] = n
		}
		for _, diag := range d.Causality.Diagnostics {
			meta.Diagnostics = append(meta.Diagnostics, diag.String())
		}
	}
	if d.System != nil {
		meta.Equations = len(d.System.Equations)
	}
	if d.Report != nil {
		meta.Resolved = len(d.Report.Resolved())
		meta.Unresolved = len(d.Report.Unresolved())
		for _, st := range d.Report.States {
			if st.Resolved {
				meta.Derivatives[st.Derivative] = st.Expr.String()
			}
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeBonds(filepath.Join(runDir, bondsFile), d.Graph); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, equationsFile), []byte(EquationsText(d)), 0644); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, modelFile), config.FromGraph(model, d.Graph)); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeBonds(path string, g *bond.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"number", "source", "dest", "power_to_dest", "causality"}); err != nil {
		return err
	}
	for _, b := range g.Bonds() {
		row := []string{
			strconv.Itoa(b.Number),
			b.Source.Name,
			b.Dest.Name,
			strconv.FormatBool(b.PowerToDest),
			b.Causality.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// EquationsText renders the generated equations followed by the state
// equations, one per line.
func EquationsText(d *derive.Derivation) string {
	var sb strings.Builder
	if d.System != nil {
		sb.WriteString("# equations\n")
		for _, eq := range d.System.Equations {
			sb.WriteString(eq.String())
			sb.WriteByte('\n')
		}
	}
	if d.Report != nil {
		sb.WriteString("\n# state equations\n")
		for _, st := range d.Report.States {
			sb.WriteString(st.Text)
			sb.WriteByte('\n')
		}
		if len(d.Report.Auxiliary) > 0 {
			sb.WriteString("\n# efforts and flows\n")
			for _, a := range d.Report.Auxiliary {
				sb.WriteString(a.Text)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadBonds(runID string) ([]BondRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, bondsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []BondRecord{}, nil
	}

	out := make([]BondRecord, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 5 {
			return nil, fmt.Errorf("%s line %d: expected 5 fields, got %d", bondsFile, i+2, len(rec))
		}
		num, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", bondsFile, i+2, err)
		}
		power, err := strconv.ParseBool(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", bondsFile, i+2, err)
		}
		out = append(out, BondRecord{
			Number:      num,
			Source:      rec[1],
			Dest:        rec[2],
			PowerToDest: power,
			Causality:   rec[4],
		})
	}
	return out, nil
}

func (s *Store) LoadEquations(runID string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, equationsFile))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadModel reads the saved model file, causality included.
func (s *Store) LoadModel(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, modelFile))
}
