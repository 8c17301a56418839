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

package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"adtra/trajectory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	r, err := NewRenderer(filepath.Join(t.TempDir(), "figures"), 4, 3, 1)
	require.NoError(t, err)
	return r
}

func baselineRows() []trajectory.BaselineRow {
	return []trajectory.BaselineRow{
		{PID: "P1", Label: trajectory.UnimpairedToMild, Group: "CN -> MCI", Sex: "Female", Age: 71},
		{PID: "P2", Label: trajectory.UnimpairedToMild, Group: "CN -> MCI", Sex: "Male", Age: 75},
		{PID: "P3", Label: trajectory.ImpairedToAdvanced, Group: "MCI -> Dementia", Sex: "Male", Age: 79},
		{PID: "P4", Label: trajectory.NoConversion, Group: "Non-converter", Sex: "Female", Age: math.NaN()},
		{PID: "P5", Label: trajectory.NoConversion, Group: "Non-converter", Sex: "Female", Age: 68},
	}
}

func assertFile(t *testing.T, path string) {
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCohortCharts(t *testing.T) {
	r := newTestRenderer(t)
	vocab := trajectory.DefaultVocabulary()
	rows := baselineRows()

	path, err := r.CohortCounts(vocab, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "cohort-counts.png"), path)
	assertFile(t, path)

	path, err = r.SexSplit(vocab, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "cohort-sex-split.png"), path)
	assertFile(t, path)

	path, err = r.AgeByCohort(vocab, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "cohort-age.png"), path)
	assertFile(t, path)
}

func TestCohortChartsNoData(t *testing.T) {
	r := newTestRenderer(t)
	vocab := trajectory.DefaultVocabulary()

	_, err := r.CohortCounts(vocab, nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.SexSplit(vocab, nil)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = r.AgeByCohort(vocab, []trajectory.BaselineRow{{PID: "P1", Sex: "Male", Age: math.NaN()}})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestProgressionTimes(t *testing.T) {
	r := newTestRenderer(t)
	rows := []trajectory.TimingRow{
		{Group: "CN -> MCI", Years: 2, Sex: "Female"},
		{Group: "CN -> MCI", Years: 3.5, Sex: "Male"},
		{Group: "CN -> MCI", Years: 4, Sex: "Male"},
		{Group: "MCI -> Dementia", Years: 1, Sex: "Female"},
	}

	path, err := r.ProgressionTimes(rows, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "progression-times.png"), path)
	assertFile(t, path)

	path, err = r.ProgressionTimes(rows, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Dir, "progression-times-by-sex.png"), path)
	assertFile(t, path)

	_, err = r.ProgressionTimes(nil, true)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestDecline(t *testing.T) {
	r := newTestRenderer(t)
	points := []trajectory.DeclinePoint{{Month: 0, Change: 0, N: 2}, {Month: 12, Change: -0.05, N: 2}, {Month: 24, Change: -0.1, N: 1}}
	curves := []*trajectory.DeclineCurve{
		{Biomarker: "Hippocampus", Sex: "Female", Points: points},
		{Biomarker: "MMSE", Sex: "Female", Points: points},
		{Biomarker: "Hippocampus", Sex: "Male", Points: points[:2]},
	}

	paths, err := r.Decline(curves, 48)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(r.Dir, "decline-female.png"),
		filepath.Join(r.Dir, "decline-male.png"),
	}, paths)
	for _, path := range paths {
		assertFile(t, path)
	}

	paths, err = r.Decline([]*trajectory.DeclineCurve{{Biomarker: "MMSE", Points: points}}, 48)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(r.Dir, "decline.png")}, paths)

	_, err = r.Decline(nil, 48)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "female", fileName("Female"))
	assert.Equal(t, "not-reported", fileName(" Not reported "))
	assert.Equal(t, "unknown", fileName(""))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0.0, offset(0, 1))
	assert.InDelta(t, -0.15, offset(0, 2), 1e-9)
	assert.InDelta(t, 0.15, offset(1, 2), 1e-9)
}

func TestDeclineBySexKeepsOverallChart(t *testing.T) {
	r := newTestRenderer(t)
	study := trajectory.NewStudy([]*trajectory.Visit{
		{PID: "P1", VisCode: "bl", Month: 0, DX: "LMCI", DXBaseline: "LMCI", Hippocampus: 7000, MMSE: 28},
		{PID: "P1", VisCode: "m12", Month: 12, DX: "Dementia", DXBaseline: "LMCI", Hippocampus: 6300, MMSE: 21},
		{PID: "P2", VisCode: "bl", Month: 0, DX: "LMCI", DXBaseline: "LMCI", Sex: "Male", Hippocampus: 6000, MMSE: 27},
		{PID: "P2", VisCode: "m12", Month: 12, DX: "Dementia", DXBaseline: "LMCI", Sex: "Male", Hippocampus: 5700, MMSE: 22},
	})
	vocab, pids := trajectory.DefaultVocabulary(), []string{"P1", "P2"}

	overall, err := r.Decline(trajectory.DeclineCurves(study, pids, vocab, 48, false), 48)
	require.NoError(t, err)
	bySex, err := r.Decline(trajectory.DeclineCurves(study, pids, vocab, 48, true), 48)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(r.Dir, "decline.png")}, overall)
	assert.Equal(t, []string{
		filepath.Join(r.Dir, "decline-male.png"),
		filepath.Join(r.Dir, "decline-unknown.png"),
	}, bySex)
	assert.NotContains(t, bySex, overall[0])
}
