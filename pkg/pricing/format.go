package pricing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pario-ai/costscope/pkg/models"
)

// FormatCurrency renders a dollar amount with enough precision for sub-cent
// per-request costs.
func FormatCurrency(v float64) string {
	switch {
	case v == 0:
		return "$0.00"
	case v < 0.01:
		return fmt.Sprintf("$%.7f", v)
	default:
		return fmt.Sprintf("$%.4f", v)
	}
}

// WriteCSV writes a comparison as CSV with one row per model.
func WriteCSV(w io.Writer, costs []models.ModelCost, cached bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Model", "Total Cost", "Input Cost", "Output Cost", "Storage Cost", "Cached"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	cachedStr := "No"
	if cached {
		cachedStr = "Yes"
	}
	for _, c := range costs {
		b := c.Breakdown
		row := []string{
			c.Model.Name,
			strconv.FormatFloat(b.TotalCost, 'f', 6, 64),
			strconv.FormatFloat(b.InputCost, 'f', 6, 64),
			strconv.FormatFloat(b.OutputCost, 'f', 6, 64),
			strconv.FormatFloat(b.StorageCost, 'f', 6, 64),
			cachedStr,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
