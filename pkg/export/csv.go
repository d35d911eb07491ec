package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jakechorley/rider-rota/pkg/db"
)

// Marker fills the cell of a slot a worker holds
const Marker = "x"

// Grid lays a stored run out as rows: a header of slot labels, one row per worker
// with a marker in each slot held, then occupancy, target and max summary rows
func Grid(run *db.ScheduleRun, assignments []db.ScheduleAssignment) [][]string {
	header := append([]string{"Worker"}, run.Labels...)
	header = append(header, "Kind", "Method", "Preferred")
	rows := [][]string{header}

	for _, a := range assignments {
		row := make([]string, 0, len(header))
		row = append(row, fmt.Sprintf("Worker %d", a.Worker+1))
		for _, label := range run.Labels {
			cell := ""
			if slices.Contains(a.Slots, label) {
				cell = Marker
			}
			row = append(row, cell)
		}
		row = append(row, a.Kind, a.Method, strconv.FormatBool(a.Preferred))
		rows = append(rows, row)
	}

	rows = append(rows,
		summaryRow("Occupancy", run.Occupancy),
		summaryRow("Target", run.Targets),
		summaryRow("Max", run.Max),
	)

	return rows
}

func summaryRow(name string, values []int) []string {
	row := []string{name}
	for _, v := range values {
		row = append(row, strconv.Itoa(v))
	}
	return row
}

// WriteCSV writes the run's grid as CSV
func WriteCSV(w io.Writer, run *db.ScheduleRun, assignments []db.ScheduleAssignment) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Grid(run, assignments)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
