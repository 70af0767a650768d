package gexlog

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
)

// Tail reads the log's header and its last n data rows (all rows when
// n <= 0). A missing log yields no rows and no error.
func Tail(path string, n int) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "gexlog: open log")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "gexlog: read log")
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	header, rows := records[0], records[1:]
	if n > 0 && len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return header, rows, nil
}
