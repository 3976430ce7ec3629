package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummaryResults outputs an ingest summary, dispatching based on the output format configured.
func WriteSummaryResults(summary schema.IngestSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeSummary(w, summary, cfg, duration)
	}, successMessage(cfg.Output))
}

func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	default:
		return "Wrote table"
	}
}

func writeSummary(w io.Writer, summary schema.IngestSummary, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSummaryJSON(w, summary, duration); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSummaryCSV(w, summary); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeSummaryTable(w, summary, cfg, duration)
	}
	return nil
}

// writeSummaryTable writes the phase table, the run line and the top models table.
func writeSummaryTable(w io.Writer, summary schema.IngestSummary, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, contract.HeaderColor.Sprint("Fetch phases")); err != nil {
		return err
	}
	phases := tablewriter.NewWriter(w)
	phases.Header([]string{"Phase", "Metric", "Limit", "Fetched", "Unique", "Status", "Time", "Error"})
	var phaseRows [][]string
	for _, p := range summary.Phases {
		phaseRows = append(phaseRows, []string{
			p.Name,
			p.Metric,
			strconv.Itoa(p.Limit),
			strconv.Itoa(p.Fetched),
			strconv.Itoa(p.Unique),
			contract.GetColorLabel(p.Status),
			p.Duration.Round(time.Millisecond).String(),
			contract.TruncateText(p.Err, 40),
		})
	}
	if err := phases.Bulk(phaseRows); err != nil {
		return err
	}
	if err := phases.Render(); err != nil {
		return err
	}

	run := summary.Run
	if _, err := fmt.Fprintf(w, "Run %s: fetched %d, inserted %d, updated %d, errors %d (%s)\n",
		run.RunID, run.FetchedCount, run.InsertedCount, run.UpdatedCount, run.ErrorCount,
		contract.Deref(run.LogMessage, "running")); err != nil {
		return err
	}

	if len(summary.Top) > 0 {
		if _, err := fmt.Fprintln(w, contract.HeaderColor.Sprint("Top models")); err != nil {
			return err
		}
		top := tablewriter.NewWriter(w)
		top.Header([]string{"Rank", "Model", "Downloads", "Likes", "Task", "Library"})
		top.Configure(func(c *tablewriter.Config) {
			c.Row.Alignment.Global = tw.AlignRight
		})
		idWidth := GetMaxTableIDWidth(cfg)
		var topRows [][]string
		for i, m := range summary.Top {
			topRows = append(topRows, []string{
				strconv.Itoa(i + 1),
				contract.TruncateText(m.ModelID, idWidth),
				strconv.FormatInt(m.Downloads, 10),
				strconv.FormatInt(m.Likes, 10),
				contract.Deref(m.PipelineTag, "-"),
				contract.Deref(m.LibraryName, "-"),
			})
		}
		if err := top.Bulk(topRows); err != nil {
			return err
		}
		if err := top.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Completed in %v. Store backend: %s\n", duration.Round(time.Millisecond), cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// jsonPhase adds the plain status label to a phase result.
type jsonPhase struct {
	Label string `json:"label"`
	schema.PhaseResult
}

// writeSummaryJSON writes the summary in JSON format.
func writeSummaryJSON(w io.Writer, summary schema.IngestSummary, duration time.Duration) error {
	phases := make([]jsonPhase, len(summary.Phases))
	for i, p := range summary.Phases {
		phases[i] = jsonPhase{Label: contract.GetPlainLabel(p.Status), PhaseResult: p}
	}
	top := summary.Top
	if top == nil {
		top = []schema.ModelRecord{}
	}

	output := struct {
		Run        schema.PipelineRun   `json:"run"`
		Phases     []jsonPhase          `json:"phases"`
		Top        []schema.ModelRecord `json:"top"`
		DurationMs int64                `json:"duration_ms"`
	}{
		Run:        summary.Run,
		Phases:     phases,
		Top:        top,
		DurationMs: duration.Milliseconds(),
	}
	return writeJSON(w, output)
}

// writeSummaryCSV writes the top models of a summary in CSV format, one row per model.
func writeSummaryCSV(w io.Writer, summary schema.IngestSummary) error {
	header := []string{
		"rank",
		"model_id",
		"downloads",
		"likes",
		"pipeline_tag",
		"library_name",
		"author",
		"run_id",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, m := range summary.Top {
			rec := []string{
				strconv.Itoa(i + 1),
				m.ModelID,
				strconv.FormatInt(m.Downloads, 10),
				strconv.FormatInt(m.Likes, 10),
				contract.Deref(m.PipelineTag, ""),
				contract.Deref(m.LibraryName, ""),
				contract.Deref(m.Author, ""),
				summary.Run.RunID,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
