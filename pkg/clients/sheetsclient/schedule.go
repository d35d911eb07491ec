package sheetsclient

import (
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// PublishSchedule writes the grid to the named tab, creating the tab when it does not
// exist and replacing its contents when it does
func (c *Client) PublishSchedule(spreadsheetID, tabTitle string, grid [][]string) error {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Context(c.ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	exists := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == tabTitle {
			exists = true
			break
		}
	}

	sheetRange := quoteTab(tabTitle)
	if exists {
		_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, sheetRange, &sheets.ClearValuesRequest{}).
			Context(c.ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to clear tab %s: %w", tabTitle, err)
		}
	} else if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
		return err
	}

	_, err = c.service.Spreadsheets.Values.Update(spreadsheetID, sheetRange+"!A1", &sheets.ValueRange{
		Values: toValues(grid),
	}).ValueInputOption("RAW").Context(c.ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write tab %s: %w", tabTitle, err)
	}

	return nil
}

// quoteTab quotes a tab title for use in A1 notation
func quoteTab(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func toValues(grid [][]string) [][]interface{} {
	values := make([][]interface{}, len(grid))
	for i, row := range grid {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return values
}
