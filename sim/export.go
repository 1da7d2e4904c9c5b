package sim

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SeriesRow joins the load and dropped samples taken at one monitor tick.
type SeriesRow struct {
	Time    float64 `json:"time"`
	Load    float64 `json:"load"`
	Dropped int     `json:"dropped"`
}

var seriesColumns = []string{"time", "load_percent", "dropped"}

// SeriesRows zips the monitor's two series. Both are sampled on the same
// ticks, so they have equal length.
func SeriesRows(m *Monitor) []SeriesRow {
	load, dropped := m.LoadSeries(), m.DroppedSeries()
	rows := make([]SeriesRow, 0, len(load))
	for i := range load {
		row := SeriesRow{Time: load[i].Time, Load: load[i].Value}
		if i < len(dropped) {
			row.Dropped = int(dropped[i].Value)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteSeriesCSV writes rows with a header line.
func WriteSeriesCSV(w io.Writer, rows []SeriesRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(seriesColumns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range rows {
		row := []string{
			strconv.FormatFloat(r.Time, 'f', -1, 64),
			strconv.FormatFloat(r.Load, 'f', -1, 64),
			strconv.Itoa(r.Dropped),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// seriesReport is the JSON document written by WriteSeriesJSON.
type seriesReport struct {
	Summary Summary     `json:"summary"`
	Series  []SeriesRow `json:"series"`
}

// WriteSeriesJSON writes the summary and rows as one indented JSON document.
func WriteSeriesJSON(w io.Writer, summary Summary, rows []SeriesRow) error {
	data, err := json.MarshalIndent(seriesReport{Summary: summary, Series: rows}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling series: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ExportSeries writes the simulator's series to path. The format follows the
// extension: .csv or .json.
func ExportSeries(sim *Simulator, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".json" {
		return fmt.Errorf("unsupported output format %q (use .csv or .json)", ext)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows := SeriesRows(sim.Monitor())
	if ext == ".csv" {
		return WriteSeriesCSV(file, rows)
	}
	return WriteSeriesJSON(file, sim.Summary(), rows)
}
