package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Source is one parsed input file: the header row (as read, order preserved)
// and the data rows keyed by normalized header name.
type Source struct {
	Headers []string
	Records []Record
}

type Reader interface {
	Read(path string) (*Source, error)
}

func ReaderForFormat(format string, delimiter rune) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{Delimiter: delimiter}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat maps a file extension to a reader format when no explicit
// format was given.
func InferFormat(path, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
