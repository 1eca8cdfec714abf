// Command reappt runs the reappointment analysis over a directory of
// yearly appointment CSV files and writes the derived datasets, the
// regression report, and a run summary to an output directory.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"reappt/internal/config"
	"reappt/pkg/engine"
	"reappt/pkg/parser"
	"reappt/pkg/report"
	"reappt/pkg/schema"
)

var yearInFilename = regexp.MustCompile(`(20\d{2})`)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		inputDir   string
		outputDir  string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "reappt",
		Short: "Reappointment trend analysis over yearly appointment archives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return run(cfg, logger, inputDir, outputDir, strict)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config")
	cmd.Flags().StringVar(&inputDir, "input", ".", "directory of yearly appointment CSV files")
	cmd.Flags().StringVar(&outputDir, "out", "analysis", "output directory")
	cmd.Flags().BoolVar(&strict, "strict", false, "halt instead of skipping batches with unresolvable columns")
	return cmd
}

func run(cfg *config.Config, logger *zap.Logger, inputDir, outputDir string, strict bool) error {
	files, err := findYearlyFiles(inputDir, cfg.Years)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no yearly CSV files in %s for %d-%d", inputDir, cfg.Years.Min, cfg.Years.Max)
	}

	normalizer := schema.NewNormalizer(cfg.Years, logger.Named("schema"))

	var (
		batches    [][]schema.AppointmentRecord
		batchStats []schema.BatchStats
		skipped    []string
	)
	for _, f := range files {
		data, err := os.ReadFile(f.path)
		if err != nil {
			return fmt.Errorf("read %s: %w", f.path, err)
		}
		rows, err := parser.Parse(data)
		if err != nil {
			if strict {
				return fmt.Errorf("parse %s: %w", f.path, err)
			}
			skipped = append(skipped, fmt.Sprintf("%s: %v", filepath.Base(f.path), err))
			logger.Warn("skipping unparseable file", zap.String("file", f.path), zap.Error(err))
			continue
		}
		for _, w := range rows.Warnings {
			logger.Warn("csv row issue", zap.String("file", filepath.Base(f.path)),
				zap.Int("row", w.Row), zap.String("issue", w.Message))
		}

		records, stats, err := normalizer.NormalizeBatch(schema.Batch{Year: f.year, Rows: rows.Records})
		if err != nil {
			var reqErr *schema.RequiredColumnsError
			if errors.As(err, &reqErr) && !strict {
				skipped = append(skipped, reqErr.Error())
				logger.Warn("skipping batch", zap.Error(err))
				continue
			}
			return err
		}
		batches = append(batches, records)
		batchStats = append(batchStats, stats)
	}

	combined := schema.Combine(batches...)
	if len(combined) == 0 {
		return errors.New("no records survived normalization")
	}

	pipeline := engine.NewPipeline(engine.Config{
		Years:             cfg.Years,
		MinAppointments:   cfg.MinAppointments,
		SignificanceLevel: cfg.SignificanceLevel,
		OutlierThreshold:  cfg.OutlierThreshold,
	}, logger.Named("pipeline"))

	res, err := pipeline.Run(combined)
	if err != nil {
		return err
	}

	if err := writeOutputs(outputDir, res, batchStats, skipped); err != nil {
		return err
	}
	logger.Info("analysis written", zap.String("dir", outputDir))
	return nil
}

type yearlyFile struct {
	path string
	year int
}

// findYearlyFiles scans a directory for CSV files carrying a year inside
// the analysis range in their name, one batch per file.
func findYearlyFiles(dir string, years schema.YearRange) ([]yearlyFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []yearlyFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		m := yearInFilename.FindString(e.Name())
		if m == "" {
			continue
		}
		year, _ := strconv.Atoi(m)
		if !years.Contains(year) {
			continue
		}
		files = append(files, yearlyFile{path: filepath.Join(dir, e.Name()), year: year})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].year < files[j].year })
	return files, nil
}

func writeOutputs(dir string, res *engine.Result, batchStats []schema.BatchStats, skipped []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"resolved_records.csv", func(f *os.File) error { return report.WriteRecords(f, res.Records) }},
		{"org_year_totals.csv", func(f *os.File) error { return report.WriteCounts(f, res.Totals, report.TotalsHeader) }},
		{"org_year_reappointments.csv", func(f *os.File) error { return report.WriteCounts(f, res.Reapps, report.ReappsHeader) }},
		{"org_year_rates.csv", func(f *os.File) error { return report.WriteRates(f, res.Rates) }},
		{"yearly_max_rates.csv", func(f *os.File) error { return report.WriteExtrema(f, res.Extrema) }},
		{"annual_proportions.csv", func(f *os.File) error { return report.WriteProportions(f, res.Proportions) }},
		{"analysis.json", func(f *os.File) error { return report.ExportJSON(f, res) }},
		{"summary.txt", func(f *os.File) error {
			return report.BuildSummary(batchStats, skipped, res).WriteText(f)
		}},
	}

	for _, w := range writers {
		f, err := os.Create(filepath.Join(dir, w.name))
		if err != nil {
			return err
		}
		if err := w.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", w.name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
