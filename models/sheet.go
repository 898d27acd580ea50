package models

// Grid is the raw rectangular range read from the spreadsheet.
// Cells are string, float64, bool or nil (unformatted value render mode).
type Grid [][]interface{}

// Header returns the first row of the grid or nil
func (g Grid) Header() []interface{} {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Rows returns the grid without its header row
func (g Grid) Rows() [][]interface{} {
	if len(g) <= 1 {
		return [][]interface{}{}
	}
	return g[1:]
}

// DisplayLine is one human readable line of the sheet summary
type DisplayLine struct {
	Text string `json:"text"`
}

// SheetDataResponse is returned by GET /get-sheet-data
type SheetDataResponse struct {
	Success      bool          `json:"success"`
	Values       Quote         `json:"values"`
	DisplayLines []DisplayLine `json:"displayLines"`
	TotalPrice   int64         `json:"totalPrice"`
}

// SheetTableResponse is returned by GET /get-sheet-table
type SheetTableResponse struct {
	Headers []interface{}   `json:"headers"`
	Rows    [][]interface{} `json:"rows"`
}

// FormValues holds the calculator widget input posted to /update-sheet.
// Keys are widget field names (value1, value2, ...), values are written as-is.
type FormValues map[string]interface{}

// ErrorResponse is the JSON body sent on failures
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
