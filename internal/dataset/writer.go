package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the frame as normalized CSV: schema column order, ISO dates, integer years.
func WriteCSV(f *Frame, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(f.Columns()); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}
	for _, row := range f.Rows(0) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("could not write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
