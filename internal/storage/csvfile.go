package storage

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"csvmanager/internal/domain"
)

// ── CSV File Codec ──────────────────────────────────────────
// Reads and writes a header-first, comma-delimited file.
// Writes always replace the whole file.

// CSVDocument is the parsed content of a CSV file.
type CSVDocument struct {
	Columns domain.ColumnSet
	Rows    [][]string
	CRLF    bool // file used \r\n line endings; writes keep the convention
}

// LoadCSV reads path and returns its rows and header.
// A missing or empty file yields no rows and no columns, not an error.
func LoadCSV(path string) ([][]string, domain.ColumnSet, error) {
	doc, err := ReadCSVDocument(path)
	if err != nil {
		return nil, nil, err
	}
	return doc.Rows, doc.Columns, nil
}

// SaveCSV overwrites path with a header line followed by one line per row.
func SaveCSV(path string, rows [][]string, columns domain.ColumnSet) error {
	return WriteCSVDocument(path, &CSVDocument{Columns: columns, Rows: rows})
}

// ReadCSVDocument reads and parses the file at path.
func ReadCSVDocument(path string) (*CSVDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &CSVDocument{}, nil
		}
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	doc, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return doc, nil
}

func parseCSV(data []byte) (*CSVDocument, error) {
	doc := &CSVDocument{}
	if i := bytes.IndexByte(data, '\n'); i > 0 && data[i-1] == '\r' {
		doc.CRLF = true
	}

	// Spreadsheet exports often start with a UTF-8 BOM; drop it so the
	// first column name is not polluted.
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), unicode.UTF8BOM.NewDecoder()))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	doc.Columns = domain.ColumnSet(header)
	if err := doc.Columns.Validate(); err != nil {
		return nil, err
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != len(header) {
			line, _ := reader.FieldPos(0)
			return nil, &domain.RowShapeError{Line: line, Want: len(header), Got: len(record)}
		}
		doc.Rows = append(doc.Rows, record)
	}
	return doc, nil
}

// WriteCSVDocument serializes doc and atomically replaces the file at path.
func WriteCSVDocument(path string, doc *CSVDocument) error {
	data, err := encodeCSV(doc)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return nil
}

func encodeCSV(doc *CSVDocument) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.UseCRLF = doc.CRLF
	eol := "\n"
	if doc.CRLF {
		eol = "\r\n"
	}

	if err := writeRecord(writer, &buf, doc.Columns, eol); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, row := range doc.Rows {
		if len(row) != len(doc.Columns) {
			return nil, fmt.Errorf("row %d: %w", i, &domain.RowShapeError{Want: len(doc.Columns), Got: len(row)})
		}
		if err := writeRecord(writer, &buf, row, eol); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRecord writes one record. A lone empty field is quoted: csv.Writer
// would emit a blank line, which readers skip.
func writeRecord(writer *csv.Writer, buf *bytes.Buffer, record []string, eol string) error {
	if len(record) == 1 && record[0] == "" {
		writer.Flush()
		if err := writer.Error(); err != nil {
			return err
		}
		buf.WriteString(`""` + eol)
		return nil
	}
	return writer.Write(record)
}

// WriteFileAtomic writes data to a temp file in the target directory,
// syncs it, then renames it over path. Readers see the old or the new
// content, never a partial file.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
