package marker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/evalhq/marker/config"
)

const (
	reportFileName  = "report.json"
	summaryFileName = "summary.json"
)

// FileSink writes the detailed report and the summary report as two JSON
// documents. Both writes fully replace whatever a previous run left.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "."
	}
	return &FileSink{dir: dir}
}

// summaryDocument is the standalone summary artifact: aggregate view plus
// the run configuration it was produced under.
type summaryDocument struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Policy      config.RunPolicy `json:"policy"`
	BatchSize   int              `json:"batch_size"`
	Counts      Counts           `json:"counts"`
	Summary     *Summary         `json:"summary"`
}

func (s *FileSink) WriteReport(_ context.Context, report *Report) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	if err := writeDocument(filepath.Join(s.dir, reportFileName), report); err != nil {
		return err
	}

	doc := summaryDocument{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		Policy:      report.Policy,
		BatchSize:   report.BatchSize,
		Counts:      report.Counts,
		Summary:     report.Summary,
	}
	if err := writeDocument(filepath.Join(s.dir, summaryFileName), doc); err != nil {
		return err
	}

	zap.S().Infow("report files written", "dir", s.dir)
	return nil
}

func writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
