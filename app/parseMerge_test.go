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
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const mergeHeader = " PTID ,VISCODE,Month,DX,DX_bl,AGE,PTGENDER,Hippocampus,MMSE\n"

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "merge.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	return cfg
}

func TestReadTableNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")
	_, err := readTable(missing)
	var notFound *TableNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, missing, notFound.Path)
	assert.Contains(t, err.Error(), "merge table not found at")

	_, err = readTable(t.TempDir())
	assert.True(t, errors.As(err, &notFound))
}

func TestReadTablePadsShortRows(t *testing.T) {
	table, err := readTable(writeFile(t, "a,b,c\n1,2\n4,5,6\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, table.Header)
	assert.Equal(t, [][]string{{"1", "2", ""}, {"4", "5", "6"}}, table.Rows)
}

func TestCleanTableReturnsNewTable(t *testing.T) {
	raw := &Table{
		Header: []string{"\ufeff PTID", " DX ", "PTGENDER"},
		Rows:   [][]string{{" 011_S_0002 ", " CN ", " Male "}},
	}
	cleaned := cleanTable(raw, []string{"DX", "VISCODE"})
	assert.Equal(t, []string{"PTID", "DX", "PTGENDER"}, cleaned.Header)
	assert.Equal(t, []string{" 011_S_0002 ", "CN", " Male "}, cleaned.Rows[0])
	// the input table is left untouched
	assert.Equal(t, " DX ", raw.Header[1])
	assert.Equal(t, " CN ", raw.Rows[0][1])
}

func TestParseVisits(t *testing.T) {
	path := writeFile(t, mergeHeader+
		"P1, bl ,0, CN ,CN,74.3,Male,8000,30\n"+
		"P1,m12,12,,CN,74.3,Male,,29\n"+
		"P1,m24,not a number,MCI,CN,74.3,Male,7500,27\n")
	cfg := defaultConfig(t)
	table, err := LoadMergeTable(path, cfg)
	require.NoError(t, err)
	visits, err := ParseVisits(table, cfg.Columns)
	require.NoError(t, err)
	require.Len(t, visits, 3)

	bl := visits[0]
	assert.Equal(t, "P1", bl.PID)
	assert.Equal(t, "bl", bl.VisCode)
	assert.Equal(t, 0.0, bl.Month)
	assert.Equal(t, "CN", bl.DX)
	assert.Equal(t, "CN", bl.DXBaseline)
	assert.InDelta(t, 74.3, bl.Age, 1e-9)
	assert.Equal(t, "Male", bl.Sex)
	assert.Equal(t, 8000.0, bl.Hippocampus)
	assert.Equal(t, 30.0, bl.MMSE)

	assert.False(t, visits[1].HasDiagnosis())
	assert.True(t, math.IsNaN(visits[1].Hippocampus))
	assert.False(t, visits[2].HasMonth())
}

func TestParseVisitsMissingColumn(t *testing.T) {
	table := &Table{Header: []string{"PTID", "VISCODE", "Month", "DX_bl"}}
	_, err := ParseVisits(table, defaultConfig(t).Columns)
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "DX", missing.Column)
	assert.Equal(t, "column 'DX' not found", err.Error())
}

func TestLoadStudy(t *testing.T) {
	path := writeFile(t, mergeHeader+
		"P2,m12,12,Dementia,CN,70,Female,,\n"+
		"P1,bl,0,CN,CN,74,Male,,\n"+
		"P2,bl,0,CN,CN,70,Female,,\n")
	study, err := LoadStudy(path, defaultConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, study.Patients, 2)
	assert.Equal(t, "P2", study.Patients[0].PID)
	assert.Equal(t, "bl", study.Patients[0].Visits[0].VisCode)
	assert.Len(t, study.Visits, 3)
}

func TestLoadStudyHeaderOnly(t *testing.T) {
	study, err := LoadStudy(writeFile(t, mergeHeader), defaultConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, study.Patients)
}

func TestLoadStudyEmptyFile(t *testing.T) {
	_, err := LoadStudy(writeFile(t, ""), defaultConfig(t), zap.NewNop())
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "PTID", missing.Column)
}
