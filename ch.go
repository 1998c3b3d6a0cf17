package marker

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ClickHouse/clickhouse-go/v2/lib/proto"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/evalhq/marker/config"
)

func openClickhouse(
	host, port, database, username, password string,
) (driver.Conn, *proto.ServerHandshake, error) {
	zap.S().Debug("opening connection to the ClickHouse")
	conn, err := clickhouse.Open(
		&clickhouse.Options{
			Addr: []string{fmt.Sprintf("%s:%s", host, port)},
			Auth: clickhouse.Auth{
				Database: database,
				Username: username,
				Password: password,
			},
		},
	)
	if err != nil {
		return nil, nil, err
	}
	version, err := conn.ServerVersion()
	if err != nil {
		return nil, nil, err
	}
	return conn, version, nil
}

// ClickhouseSource reads the whole record collection from one table.
type ClickhouseSource struct {
	conn driver.Conn
	cfg  config.SourceConfig
}

func NewClickhouseSource(
	cfg config.SourceConfig,
) (*ClickhouseSource, *proto.ServerHandshake, error) {
	conn, version, err := openClickhouse(
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.Credentials.Username,
		cfg.Credentials.Password,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return &ClickhouseSource{conn: conn, cfg: cfg}, version, nil
}

// FetchAll retrieves every record from the source table in id order. The
// whole collection is held in memory; there is no pagination.
func (s *ClickhouseSource) FetchAll(ctx context.Context) ([]Record, error) {
	query := fmt.Sprintf(
		"SELECT id, question, answer, category, language FROM %s ORDER BY id",
		s.cfg.Table,
	)
	zap.S().Debugw("selecting the record collection", "query", query)

	var records []Record
	err := retry.Do(
		func() error {
			records = records[:0]
			if err := s.conn.Select(ctx, &records, query); err != nil {
				zap.S().Errorw("selecting records from the database", "error", err)
				return err
			}
			return nil
		},
		retry.Attempts(uint(s.cfg.SelectRetries)+1),
		retry.Context(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return records, nil
}

// outcomeRow is the flattened per-record row written to ClickHouse. A
// failed outcome keeps the all-zero/blank score placeholder.
type outcomeRow struct {
	RunID                  string    `ch:"run_id"`
	RecordID               string    `ch:"record_id"`
	Question               string    `ch:"question"`
	Answer                 string    `ch:"answer"`
	Category               string    `ch:"category"`
	Completeness           float64   `ch:"completeness"`
	Accuracy               float64   `ch:"accuracy"`
	Clarity                float64   `ch:"clarity"`
	Usefulness             float64   `ch:"usefulness"`
	OverallScore           float64   `ch:"overall_score"`
	Reasoning              string    `ch:"reasoning"`
	ImprovementSuggestions string    `ch:"improvement_suggestions"`
	Success                bool      `ch:"success"`
	FailureReason          string    `ch:"failure_reason"`
	CompletedAt            time.Time `ch:"completed_at"`
}

func newOutcomeRow(runID string, o Outcome) outcomeRow {
	row := outcomeRow{
		RunID:         runID,
		RecordID:      o.RecordID,
		Question:      o.Question,
		Answer:        o.Answer,
		Category:      o.Category,
		Success:       o.Success,
		FailureReason: o.FailureReason,
		CompletedAt:   o.CompletedAt,
	}
	if o.Verdict != nil {
		row.Completeness = o.Verdict.Completeness
		row.Accuracy = o.Verdict.Accuracy
		row.Clarity = o.Verdict.Clarity
		row.Usefulness = o.Verdict.Usefulness
		row.OverallScore = o.Verdict.OverallScore
		row.Reasoning = o.Verdict.Reasoning
		row.ImprovementSuggestions = o.Verdict.ImprovementSuggestions
	}
	return row
}

type summaryRow struct {
	RunID            string    `ch:"run_id"`
	GeneratedAt      time.Time `ch:"generated_at"`
	Policy           string    `ch:"policy"`
	BatchSize        int32     `ch:"batch_size"`
	Total            int32     `ch:"total_records"`
	Succeeded        int32     `ch:"successful_evaluations"`
	Failed           int32     `ch:"failed_evaluations"`
	MeanCompleteness float64   `ch:"mean_completeness"`
	MeanAccuracy     float64   `ch:"mean_accuracy"`
	MeanClarity      float64   `ch:"mean_clarity"`
	MeanUsefulness   float64   `ch:"mean_usefulness"`
	MeanOverall      float64   `ch:"mean_overall"`
}

func newSummaryRow(report *Report) summaryRow {
	row := summaryRow{
		RunID:       report.RunID,
		GeneratedAt: report.GeneratedAt,
		Policy:      string(report.Policy),
		BatchSize:   int32(report.BatchSize),
		Total:       int32(report.Counts.Total),
		Succeeded:   int32(report.Counts.Succeeded),
		Failed:      int32(report.Counts.Failed),
	}
	if report.Summary != nil {
		row.MeanCompleteness = float64(report.Summary.MeanCompleteness)
		row.MeanAccuracy = float64(report.Summary.MeanAccuracy)
		row.MeanClarity = float64(report.Summary.MeanClarity)
		row.MeanUsefulness = float64(report.Summary.MeanUsefulness)
		row.MeanOverall = float64(report.Summary.MeanOverall)
	}
	return row
}

// ClickhouseSink persists outcome rows and one summary row per run.
type ClickhouseSink struct {
	conn driver.Conn
	cfg  config.SinkConfig
}

func NewClickhouseSink(
	cfg config.SinkConfig,
) (*ClickhouseSink, *proto.ServerHandshake, error) {
	conn, version, err := openClickhouse(
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.Credentials.Username,
		cfg.Credentials.Password,
	)
	if err != nil {
		return nil, nil, err
	}
	return &ClickhouseSink{conn: conn, cfg: cfg}, version, nil
}

func (s *ClickhouseSink) InitTables(ctx context.Context) error {
	outcomeDDL := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s
        (
            run_id String,
            record_id String,
            question String,
            answer String,
            category String,
            completeness Float64,
            accuracy Float64,
            clarity Float64,
            usefulness Float64,
            overall_score Float64,
            reasoning String,
            improvement_suggestions String,
            success Bool,
            failure_reason String,
            completed_at DateTime64
        )
        ENGINE = MergeTree
        ORDER BY completed_at
    `, s.cfg.OutcomeTable)
	if err := s.conn.Exec(ctx, outcomeDDL); err != nil {
		return err
	}

	summaryDDL := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s
        (
            run_id String,
            generated_at DateTime64,
            policy String,
            batch_size Int32,
            total_records Int32,
            successful_evaluations Int32,
            failed_evaluations Int32,
            mean_completeness Float64,
            mean_accuracy Float64,
            mean_clarity Float64,
            mean_usefulness Float64,
            mean_overall Float64
        )
        ENGINE = MergeTree
        ORDER BY generated_at
    `, s.cfg.SummaryTable)
	return s.conn.Exec(ctx, summaryDDL)
}

func (s *ClickhouseSink) WriteReport(ctx context.Context, report *Report) error {
	zap.S().Debugw(
		"inserting the report to the database",
		"outcomes", len(report.Outcomes),
	)

	batch, err := s.conn.PrepareBatch(
		ctx,
		fmt.Sprintf("INSERT INTO %s", s.cfg.OutcomeTable),
	)
	if err != nil {
		return err
	}
	for _, o := range report.Outcomes {
		row := newOutcomeRow(report.RunID, o)
		if err := batch.AppendStruct(&row); err != nil {
			return err
		}
	}
	if err := batch.Send(); err != nil {
		return err
	}

	summaries, err := s.conn.PrepareBatch(
		ctx,
		fmt.Sprintf("INSERT INTO %s", s.cfg.SummaryTable),
	)
	if err != nil {
		return err
	}
	row := newSummaryRow(report)
	if err := summaries.AppendStruct(&row); err != nil {
		return err
	}
	return summaries.Send()
}
