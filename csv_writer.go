package barometer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Reading is one compensated temperature and pressure sample.
type Reading struct {
	Time        time.Time
	Temperature int32 // 0.1 °C
	Pressure    int32 // Pa
}

type CSVWriter struct {
	writer *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		writer: csv.NewWriter(w),
	}
}

// WriteHeader writes the column names.
func (cw *CSVWriter) WriteHeader() error {
	if err := cw.writer.Write([]string{"timestamp", "temperature_c", "pressure_pa", "pressure_mmhg"}); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

func (cw *CSVWriter) WriteReading(r Reading) error {
	if err := cw.writer.Write([]string{
		r.Time.Format(time.RFC3339),
		strconv.FormatFloat(Celsius(r.Temperature), 'f', 1, 64),
		strconv.Itoa(int(r.Pressure)),
		strconv.FormatFloat(PaToMmHg(r.Pressure), 'f', 2, 64),
	}); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	cw.writer.Flush()
	return cw.writer.Error()
}
