package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/bondsim/internal/analysis"
	"github.com/san-kum/bondsim/internal/bond"
	"github.com/san-kum/bondsim/internal/causality"
	"github.com/san-kum/bondsim/internal/config"
	"github.com/san-kum/bondsim/internal/derive"
	"github.com/san-kum/bondsim/internal/export"
	"github.com/san-kum/bondsim/internal/storage"
	"github.com/san-kum/bondsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	theme      string
	noSave     bool
	reportAll  bool
	noFallback bool
	writePath  string
	outPath    string
	params     map[string]string
	input      string
	output     string
	freqMin    float64
	freqMax    float64
	points     int
	svgPath    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bondsim",
		Short: "bond graph causality and state equation derivation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".bondsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	deriveCmd := &cobra.Command{
		Use:   "derive [model|file]",
		Short: "assign causality and derive state equations",
		Args:  cobra.ExactArgs(1),
		RunE:  runDerive,
	}
	deriveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	deriveCmd.Flags().BoolVar(&reportAll, "all", false, "also report solved efforts and flows")
	deriveCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "leave bonds undetermined instead of defaulting them")

	causalityCmd := &cobra.Command{
		Use:   "causality [model|file]",
		Short: "assign causality only",
		Args:  cobra.ExactArgs(1),
		RunE:  runCausality,
	}
	causalityCmd.Flags().BoolVar(&noFallback, "no-fallback", false, "leave bonds undetermined instead of defaulting them")
	causalityCmd.Flags().StringVar(&writePath, "write", "", "save the model with its causality to this file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in models",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [model|file]",
		Short: "modes and frequency response of the derived model",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeModel,
	}
	analyzeCmd.Flags().StringToStringVarP(&params, "param", "p", nil, "parameter override, name=value")
	analyzeCmd.Flags().StringVar(&input, "input", "", "source driving the response (default first)")
	analyzeCmd.Flags().StringVar(&output, "output", "", "state observed (default first)")
	analyzeCmd.Flags().Float64Var(&freqMin, "fmin", 0, "lowest frequency in Hz")
	analyzeCmd.Flags().Float64Var(&freqMax, "fmax", 0, "highest frequency in Hz")
	analyzeCmd.Flags().IntVar(&points, "points", 0, "number of frequencies")
	analyzeCmd.Flags().StringVar(&svgPath, "svg", "", "also write the gain plot to this SVG file")

	viewCmd := &cobra.Command{
		Use:   "view [model|file]",
		Short: "browse a derivation interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  viewModel,
	}

	rootCmd.AddCommand(deriveCmd, causalityCmd, presetsCmd, listCmd, showCmd, exportJSONCmd, analyzeCmd, viewCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadModel resolves arg as a model file when it exists, else as a preset.
func loadModel(arg string) (*config.Config, *bond.Graph, error) {
	if _, err := os.Stat(arg); err == nil {
		cfg, err := config.Load(arg)
		if err != nil {
			return nil, nil, err
		}
		g, err := cfg.Graph()
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", arg, err)
		}
		return cfg, g, nil
	}

	registry := derive.NewRegistry()
	g, err := registry.GetModel(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (available: %s)", err, strings.Join(registry.ListModels(), ", "))
	}
	return config.GetPreset(arg), g, nil
}

func deriveOptions(cfg *config.Config) derive.Options {
	return derive.Options{
		Causality: causality.Options{DisableFallback: noFallback || cfg.Causality.DisableFallback},
		Logger:    newLogger(),
	}
}

func runDerive(cmd *cobra.Command, args []string) error {
	cfg, g, err := loadModel(args[0])
	if err != nil {
		return err
	}

	d, err := derive.Run(cmd.Context(), g, deriveOptions(cfg))
	if err != nil {
		if d != nil && d.Causality != nil {
			fmt.Print(viz.RenderPartial(d.Graph, d.Causality))
		}
		return err
	}

	fmt.Println(viz.BoxWithTitle(cfg.Name+" bonds", strings.TrimRight(viz.RenderBonds(d.Graph), "\n"), 60))
	fmt.Print(viz.RenderSummary(d.Causality))
	fmt.Print(viz.RenderDiagnostics(d.Causality))
	fmt.Println()
	fmt.Print(viz.RenderReport(d, reportAll || cfg.Causality.ReportAll))

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Name, d)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func runCausality(cmd *cobra.Command, args []string) error {
	cfg, g, err := loadModel(args[0])
	if err != nil {
		return err
	}

	opts := deriveOptions(cfg)
	opts.Causality.Logger = opts.Logger
	res, err := causality.New(opts.Causality).Assign(g)
	if err != nil {
		fmt.Print(viz.RenderPartial(g, res))
		return err
	}
	fmt.Print(viz.RenderBonds(g))
	fmt.Print(viz.RenderSummary(res))
	fmt.Print(viz.RenderDiagnostics(res))

	if writePath != "" {
		saved := config.FromGraph(cfg.Name, g)
		saved.Params = cfg.Params
		saved.Analysis = cfg.Analysis
		if err := config.Save(writePath, saved); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", writePath)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	registry := derive.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBONDS\tPARAMS")
	for _, name := range registry.ListModels() {
		cfg := config.GetPreset(name)
		keys := make([]string, 0, len(cfg.Params))
		for k := range cfg.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, len(cfg.Bonds), strings.Join(keys, " "))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tBONDS\tEQS\tRESOLVED\tUNRESOLVED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bonds,
			run.Equations,
			run.Resolved,
			run.Unresolved,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	text, err := st.LoadEquations(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run:   %s\nmodel: %s\ntime:  %s\n", meta.ID, meta.Model, meta.Timestamp.Format("2006-01-02 15:04:05"))
	for _, d := range meta.Diagnostics {
		fmt.Printf("! %s\n", d)
	}
	fmt.Println()
	fmt.Print(text)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.ExportJSON(os.Stdout, data)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.ExportJSON(f, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}

func analyzeModel(cmd *cobra.Command, args []string) error {
	cfg, g, err := loadModel(args[0])
	if err != nil {
		return err
	}
	values, err := mergeParams(cfg.Params, params)
	if err != nil {
		return err
	}

	d, err := derive.Run(cmd.Context(), g, deriveOptions(cfg))
	if err != nil {
		return err
	}
	sym, err := analysis.Extract(d.System, d.Report)
	if err != nil {
		return err
	}
	ss, err := sym.Eval(values)
	if err != nil {
		return fmt.Errorf("evaluate model (set parameters with -p name=value): %w", err)
	}

	modes, err := ss.Modes()
	if err != nil {
		return err
	}
	stable, err := ss.Stable()
	if err != nil {
		return err
	}
	fmt.Println(viz.BoxWithTitle(cfg.Name+" modes", strings.TrimRight(viz.RenderModes(modes), "\n"), 60))
	fmt.Printf("stable: %t\n\n", stable)

	a := cfg.Analysis
	if cmd.Flags().Changed("input") {
		a.Input = input
	}
	if cmd.Flags().Changed("output") {
		a.Output = output
	}
	if freqMin > 0 {
		a.FreqMin = freqMin
	}
	if freqMax > 0 {
		a.FreqMax = freqMax
	}
	if points > 0 {
		a.Points = points
	}

	if len(ss.Inputs) == 0 {
		fmt.Println("no inputs, skipping frequency response")
		return nil
	}
	in, err := ss.InputIndex(a.Input)
	if err != nil {
		return err
	}
	out, err := ss.StateIndex(a.Output)
	if err != nil {
		return err
	}

	resp, err := ss.FrequencyResponse(in, out, analysis.LogFrequencies(a.FreqMin, a.FreqMax, a.Points))
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%s -> %s", ss.Inputs[in], ss.States[out])
	fmt.Println(viz.PlotResponse(resp, caption, 80, 15))

	if svgPath != "" {
		svg := export.ResponseToSVG(resp, 800, 400, "#00ff00")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	return nil
}

func mergeParams(base map[string]float64, overrides map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, s := range overrides {
		var v float64
		if _, err := fmt.Sscanf(s, "%g", &v); err != nil {
			return nil, fmt.Errorf("parameter %s: %q is not a number", k, s)
		}
		out[k] = v
	}
	return out, nil
}

func viewModel(cmd *cobra.Command, args []string) error {
	cfg, g, err := loadModel(args[0])
	if err != nil {
		return err
	}
	d, err := derive.Run(cmd.Context(), g, deriveOptions(cfg))
	if err != nil {
		return err
	}
	return viz.RunViewer(cfg.Name, d)
}
