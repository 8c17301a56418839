// PTRA: Patient Trajectory Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"adtra/trajectory"

	"go.uber.org/zap"
)

//The ADNIMERGE table is a csv file with a header and one row per patient per visit. Of its many columns, we use the
//patient ID (PTID), the visit code (VISCODE), the elapsed study month (Month), the diagnosis at the visit (DX), the
//baseline diagnosis (DX_bl), and a few demographic and biomarker columns (AGE, PTGENDER, Hippocampus, MMSE).

// Table is a delimited file held in memory. Tables are not modified after they are created; cleaning steps return new
// tables.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of a column in the table header.
func (t *Table) Column(name string) (int, error) {
	for i, label := range t.Header {
		if label == name {
			return i, nil
		}
	}
	return -1, &MissingColumnError{Column: name}
}

// readTable parses a csv file with a header line into a table. Rows shorter than the header are padded with empty
// values.
func readTable(file string) (*Table, error) {
	info, err := os.Stat(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TableNotFoundError{Path: file, Err: err}
		}
		return nil, fmt.Errorf("failed to access %s: %w", file, err)
	}
	if info.IsDir() {
		return nil, &TableNotFoundError{Path: file}
	}
	csvFile, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer csvFile.Close()
	reader := csv.NewReader(csvFile)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", file, err)
	}
	table := &Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// cleanTable returns a copy of a table with whitespace removed around the column labels and around the values of the
// given string columns. Columns that are not present are ignored.
func cleanTable(t *Table, stringColumns []string) *Table {
	header := make([]string, len(t.Header))
	for i, label := range t.Header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(label, "\ufeff"))
	}
	cleaned := &Table{Header: header, Rows: make([][]string, len(t.Rows))}
	trim := []int{}
	for _, column := range stringColumns {
		if i, err := cleaned.Column(column); err == nil {
			trim = append(trim, i)
		}
	}
	for r, row := range t.Rows {
		newRow := make([]string, len(row))
		copy(newRow, row)
		for _, i := range trim {
			if i < len(newRow) {
				newRow[i] = strings.TrimSpace(newRow[i])
			}
		}
		cleaned.Rows[r] = newRow
	}
	return cleaned
}

// LoadMergeTable reads the merge table and applies a light cleaning pass.
func LoadMergeTable(file string, cfg *Config) (*Table, error) {
	table, err := readTable(file)
	if err != nil {
		return nil, err
	}
	return cleanTable(table, cfg.Columns.Trim), nil
}

// parseNumber coerces a table value to a number. Values that are not numeric become NaN.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// visitColumns holds the indices of the columns that make up a visit.
type visitColumns struct {
	pid, visCode, month, dx, dxBaseline, age, sex, hippocampus, mmse int
}

// lookupVisitColumns finds all columns needed for a visit, reporting the first one that is missing.
func lookupVisitColumns(t *Table, cols ColumnsConfig) (visitColumns, error) {
	var vc visitColumns
	lookups := []struct {
		name  string
		index *int
	}{
		{cols.PatientID, &vc.pid},
		{cols.BaselineDiagnosis, &vc.dxBaseline},
		{cols.Diagnosis, &vc.dx},
		{cols.VisitCode, &vc.visCode},
		{cols.Month, &vc.month},
		{cols.Age, &vc.age},
		{cols.Sex, &vc.sex},
		{cols.Hippocampus, &vc.hippocampus},
		{cols.MMSE, &vc.mmse},
	}
	for _, l := range lookups {
		i, err := t.Column(l.name)
		if err != nil {
			return vc, err
		}
		*l.index = i
	}
	return vc, nil
}

// ParseVisits converts the rows of a cleaned merge table into visits. The elapsed month and the numeric fields are
// coerced to numbers.
func ParseVisits(t *Table, cols ColumnsConfig) ([]*trajectory.Visit, error) {
	vc, err := lookupVisitColumns(t, cols)
	if err != nil {
		return nil, err
	}
	visits := make([]*trajectory.Visit, 0, len(t.Rows))
	for _, row := range t.Rows {
		visits = append(visits, &trajectory.Visit{
			PID:         row[vc.pid],
			VisCode:     row[vc.visCode],
			Month:       parseNumber(row[vc.month]),
			DX:          row[vc.dx],
			DXBaseline:  row[vc.dxBaseline],
			Age:         parseNumber(row[vc.age]),
			Sex:         row[vc.sex],
			Hippocampus: parseNumber(row[vc.hippocampus]),
			MMSE:        parseNumber(row[vc.mmse]),
		})
	}
	return visits, nil
}

// LoadStudy reads the merge table at the given path and groups its visits into patient histories.
func LoadStudy(file string, cfg *Config, logger *zap.Logger) (*trajectory.Study, error) {
	logger.Info("Reading merge table", zap.String("path", file))
	table, err := LoadMergeTable(file, cfg)
	if err != nil {
		return nil, err
	}
	visits, err := ParseVisits(table, cfg.Columns)
	if err != nil {
		return nil, err
	}
	study := trajectory.NewStudy(visits)
	logger.Info("Parsed merge table",
		zap.Int("rows", len(table.Rows)),
		zap.Int("visits", len(study.Visits)),
		zap.Int("patients", len(study.Patients)))
	return study, nil
}
