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
	"fmt"
	"math"

	"adtra/trajectory"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// CohortCounts plots the number of patients per cohort.
func (r *Renderer) CohortCounts(vocab trajectory.Vocabulary, rows []trajectory.BaselineRow) (string, error) {
	labels, names := cohortGroups(vocab, rows)
	if len(labels) == 0 {
		return "", ErrNoData
	}
	counts := map[trajectory.Label]int{}
	for _, row := range rows {
		counts[row.Label]++
	}
	values := make(plotter.Values, len(labels))
	for i, l := range labels {
		values[i] = float64(counts[l])
	}
	p := newPlot("Patients per progression group", "Progression", "Number of patients")
	bars, err := plotter.NewBarChart(values, vg.Points(barWidth*2))
	if err != nil {
		return "", err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return r.save(p, "cohort-counts.png")
}

// SexSplit plots the number of patients per cohort and sex as grouped bars.
func (r *Renderer) SexSplit(vocab trajectory.Vocabulary, rows []trajectory.BaselineRow) (string, error) {
	labels, names := cohortGroups(vocab, rows)
	if len(labels) == 0 {
		return "", ErrNoData
	}
	split := trajectory.SexSplit(rows)
	sexSet := map[string]bool{}
	for _, row := range rows {
		sexSet[row.Sex] = true
	}
	sexes := sortedKeys(sexSet)
	p := newPlot("Sex split per progression group", "Progression", "Number of patients")
	for i, sex := range sexes {
		values := make(plotter.Values, len(labels))
		for j, l := range labels {
			values[j] = float64(split[l][sex])
		}
		bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
		if err != nil {
			return "", err
		}
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Points(barWidth * (float64(i) - float64(len(sexes)-1)/2))
		p.Add(bars)
		p.Legend.Add(sex, bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)
	return r.save(p, "cohort-sex-split.png")
}

// AgeByCohort plots the distribution of the baseline age per cohort and sex as box plots.
func (r *Renderer) AgeByCohort(vocab trajectory.Vocabulary, rows []trajectory.BaselineRow) (string, error) {
	labels, names := cohortGroups(vocab, rows)
	ages := map[trajectory.Label]map[string]plotter.Values{}
	sexSet := map[string]bool{}
	for _, row := range rows {
		if math.IsNaN(row.Age) {
			continue
		}
		if _, ok := ages[row.Label]; !ok {
			ages[row.Label] = map[string]plotter.Values{}
		}
		ages[row.Label][row.Sex] = append(ages[row.Label][row.Sex], row.Age)
		sexSet[row.Sex] = true
	}
	if len(sexSet) == 0 {
		return "", ErrNoData
	}
	sexes := sortedKeys(sexSet)
	p := newPlot("Baseline age per progression group and sex", "Progression", "Age at baseline")
	for i, sex := range sexes {
		for j, l := range labels {
			values := ages[l][sex]
			if len(values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(j)+offset(i, len(sexes)), values)
			if err != nil {
				return "", fmt.Errorf("age box plot for %s: %w", names[j], err)
			}
			box.FillColor = plotutil.SoftColors[i%len(plotutil.SoftColors)]
			p.Add(box)
		}
		p.Legend.Add(sex, swatch{color: plotutil.SoftColors[i%len(plotutil.SoftColors)]})
	}
	p.Legend.Top = true
	p.NominalX(names...)
	return r.save(p, "cohort-age.png")
}
