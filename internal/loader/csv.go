package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/milkbench-cli/internal/record"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool { return hasExt(filename, ".csv", ".tsv") }

func (csvLoader) Load(path string, opt Options) ([]record.RawObservation, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromTable(header, rows), nil
}

// sniffDelimiter uses tab for .tsv files and otherwise picks whichever of
// ';' and ',' appears more often in the header line. Italian exports that
// use decimal commas are semicolon-separated.
func sniffDelimiter(path string) rune {
	if hasExt(path, ".tsv") {
		return '\t'
	}
	f, err := os.Open(path)
	if err != nil {
		return ','
	}
	defer f.Close()
	line, _ := bufio.NewReader(f).ReadString('\n')
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
