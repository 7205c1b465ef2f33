package io

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/antscheduler/pkg/dag"
	apperrors "github.com/matzehuels/antscheduler/pkg/errors"
)

// minFields is the number of fields a row needs to describe an operation.
const minFields = 3

type record struct {
	line  int
	op    dag.Operation
	preds []string
}

// ReadCSV decodes the CSV graph format from r.
//
// Blank and short rows are skipped and reported on logger as warnings; a nil
// logger discards them. Non-integer durations or resources fail with
// ErrCodeInvalidInput, repeated names wrap dag.ErrDuplicateOperation and
// unknown predecessors wrap dag.ErrUnknownOperation. ReadCSV does not check
// for cycles; see [dag.Graph.Validate].
func ReadCSV(r io.Reader, logger *log.Logger) (*dag.Graph, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "read csv")
	}
	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	// csv.Reader drops empty lines on its own; report them between records.
	var offset int64
	consumed := 0
	warnBlank := func(upTo int) {
		for n := consumed + 1; n <= upTo && n <= len(lines); n++ {
			if strings.TrimSpace(lines[n-1]) == "" {
				logger.Warn("skipping blank row", "line", n)
			}
		}
	}

	var records []record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			warnBlank(len(lines))
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "read csv")
		}
		line, _ := cr.FieldPos(0)
		warnBlank(line - 1)
		next := cr.InputOffset()
		consumed += bytes.Count(data[offset:next], []byte("\n"))
		offset = next
		if len(row) < minFields {
			logger.Warn("skipping incomplete row", "line", line, "fields", len(row))
			continue
		}
		rec, err := parseRow(line, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	g := dag.New(nil)
	for _, rec := range records {
		if err := g.AddOperation(rec.op); err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
	}
	for _, rec := range records {
		for _, p := range rec.preds {
			if err := g.AddPrecedence(p, rec.op.ID); err != nil {
				return nil, fmt.Errorf("line %d: %w", rec.line, err)
			}
		}
	}
	logger.Debug("graph loaded", "operations", g.Len(), "edges", g.EdgeCount())
	return g, nil
}

func parseRow(line int, row []string) (record, error) {
	name := strings.TrimSpace(row[0])
	if err := apperrors.ValidateOperationID(name); err != nil {
		return record{}, fmt.Errorf("line %d: %w", line, err)
	}
	duration, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return record{}, apperrors.New(apperrors.ErrCodeInvalidInput, "line %d: operation %q: bad duration %q", line, name, row[1])
	}
	resource, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return record{}, apperrors.New(apperrors.ErrCodeInvalidInput, "line %d: operation %q: bad resource %q", line, name, row[2])
	}
	rec := record{
		line: line,
		op:   dag.Operation{ID: name, Duration: duration, Resource: resource},
	}
	if len(row) > minFields {
		rec.preds = strings.Fields(row[3])
	}
	return rec, nil
}

// ImportCSV reads the CSV graph file at path.
func ImportCSV(path string, logger *log.Logger) (*dag.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, logger)
}

// WriteCSV encodes g in the CSV graph format, one row per operation in
// handle order. Reading the output back yields an equal graph.
func WriteCSV(g *dag.Graph, w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, op := range g.Operations() {
		row := []string{op.ID, strconv.Itoa(op.Duration), strconv.Itoa(op.Resource)}
		if preds := g.PredecessorIDs(op.ID); len(preds) > 0 {
			row = append(row, strings.Join(preds, " "))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
