package quote

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"fetched_at", "currency", "house", "name", "buy", "sell", "updated_at"}

// AppendCSV appends the quote set to the history CSV at path, writing the
// header only when the file is new.
func AppendCSV(path string, quotes []Quote, fetchedAt time.Time) error {
	if len(quotes) == 0 {
		return fmt.Errorf("no quotes to append")
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	stamp := fetchedAt.UTC().Format(time.RFC3339)
	for _, q := range quotes {
		row := []string{
			stamp,
			q.Currency,
			q.House,
			q.Name,
			strconv.FormatFloat(q.Buy, 'f', -1, 64),
			strconv.FormatFloat(q.Sell, 'f', -1, 64),
			q.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
