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
)

// WriteRunResults outputs the run audit log, dispatching based on the output format configured.
func WriteRunResults(runs []schema.PipelineRun, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		switch cfg.Output {
		case schema.JSONOut:
			if runs == nil {
				runs = []schema.PipelineRun{}
			}
			return writeJSON(w, runs)
		case schema.CSVOut:
			return writeRunsCSV(w, runs)
		default:
			return writeRunsTable(w, runs)
		}
	}, successMessage(cfg.Output))
}

// runDuration returns the elapsed time of a finished run, or "-".
func runDuration(run schema.PipelineRun) string {
	if run.EndTime == nil {
		return "-"
	}
	return run.EndTime.Sub(run.StartTime).Round(time.Millisecond).String()
}

func writeRunsTable(w io.Writer, runs []schema.PipelineRun) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Started", "Duration", "Fetched", "Inserted", "Updated", "Errors", "Message"})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			r.RunID,
			r.StartTime.Format(contract.DateTimeFormat),
			runDuration(r),
			strconv.Itoa(r.FetchedCount),
			strconv.Itoa(r.InsertedCount),
			strconv.Itoa(r.UpdatedCount),
			strconv.Itoa(r.ErrorCount),
			contract.TruncateText(contract.Deref(r.LogMessage, "running"), 40),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs\n", len(runs))
	return err
}

func writeRunsCSV(w io.Writer, runs []schema.PipelineRun) error {
	header := []string{
		"run_id",
		"start_time",
		"end_time",
		"fetched_count",
		"inserted_count",
		"updated_count",
		"error_count",
		"log_message",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			end := ""
			if r.EndTime != nil {
				end = r.EndTime.Format(contract.DateTimeFormat)
			}
			rec := []string{
				r.RunID,
				r.StartTime.Format(contract.DateTimeFormat),
				end,
				strconv.Itoa(r.FetchedCount),
				strconv.Itoa(r.InsertedCount),
				strconv.Itoa(r.UpdatedCount),
				strconv.Itoa(r.ErrorCount),
				contract.Deref(r.LogMessage, ""),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
