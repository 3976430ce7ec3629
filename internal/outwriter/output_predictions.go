package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/hubtrend/internal/contract"
	"github.com/huangsam/hubtrend/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePredictionResults outputs recorded predictions, dispatching based on the output format configured.
func WritePredictionResults(predictions []schema.TrendPrediction, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		switch cfg.Output {
		case schema.JSONOut:
			if predictions == nil {
				predictions = []schema.TrendPrediction{}
			}
			return writeJSON(w, predictions)
		case schema.CSVOut:
			return writePredictionsCSV(w, predictions)
		default:
			return writePredictionsTable(w, predictions, cfg)
		}
	}, successMessage(cfg.Output))
}

func writePredictionsTable(w io.Writer, predictions []schema.TrendPrediction, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Model", "Probability", "Growth %", "Downloads Δ"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	idWidth := GetMaxTableIDWidth(cfg)
	var data [][]string
	for _, p := range predictions {
		data = append(data, []string{
			p.PredictionDate.Format(contract.DateFormat),
			contract.TruncateText(p.ModelID, idWidth),
			strconv.FormatFloat(p.Probability, 'f', 3, 64),
			strconv.FormatFloat(p.GrowthYesterday, 'f', 2, 64),
			strconv.FormatInt(p.DownloadsYesterday, 10),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d predictions\n", len(predictions))
	return err
}

func writePredictionsCSV(w io.Writer, predictions []schema.TrendPrediction) error {
	header := []string{
		"prediction_date",
		"model_id",
		"probability",
		"growth_yesterday",
		"downloads_yesterday",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range predictions {
			rec := []string{
				p.PredictionDate.Format(contract.DateFormat),
				p.ModelID,
				strconv.FormatFloat(p.Probability, 'f', -1, 64),
				strconv.FormatFloat(p.GrowthYesterday, 'f', -1, 64),
				strconv.FormatInt(p.DownloadsYesterday, 10),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
