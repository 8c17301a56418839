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
	"image/color"

	"adtra/trajectory"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var pointColor = color.Gray{Y: 96}

// ProgressionTimes plots the time to progression per cohort as box plots, overlaid with the individual converters as
// jittered points. With bySex, each cohort gets one box per sex.
func (r *Renderer) ProgressionTimes(rows []trajectory.TimingRow, bySex bool) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoData
	}
	groups := []string{}
	groupIndex := map[string]int{}
	sexSet := map[string]bool{}
	for _, row := range rows {
		if _, ok := groupIndex[row.Group]; !ok {
			groupIndex[row.Group] = len(groups)
			groups = append(groups, row.Group)
		}
		sexSet[row.Sex] = true
	}
	sexes := []string{""}
	if bySex {
		sexes = sortedKeys(sexSet)
	}
	sexIndex := map[string]int{}
	for i, sex := range sexes {
		sexIndex[sex] = i
	}
	values := make([][]plotter.Values, len(groups))
	for i := range values {
		values[i] = make([]plotter.Values, len(sexes))
	}
	var points plotter.XYs
	for _, row := range rows {
		g, s := groupIndex[row.Group], 0
		if bySex {
			s = sexIndex[row.Sex]
		}
		values[g][s] = append(values[g][s], row.Years)
		points = append(points, plotter.XY{X: float64(g) + offset(s, len(sexes)) + r.jitter(), Y: row.Years})
	}

	title, name := "Time to progression", "progression-times.png"
	if bySex {
		title, name = "Time to progression by sex", "progression-times-by-sex.png"
	}
	p := newPlot(title, "Progression", "Years since baseline")
	for s, sex := range sexes {
		fill := plotutil.SoftColors[s%len(plotutil.SoftColors)]
		for g := range groups {
			if len(values[g][s]) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(g)+offset(s, len(sexes)), values[g][s])
			if err != nil {
				return "", fmt.Errorf("progression box plot for %s: %w", groups[g], err)
			}
			box.FillColor = fill
			p.Add(box)
		}
		if bySex {
			p.Legend.Add(sex, swatch{color: fill})
		}
	}
	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return "", err
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)
	p.Legend.Top = true
	p.NominalX(groups...)
	return r.save(p, name)
}

// Decline plots decline curves, one line per biomarker, with the relative change against the study month. Curves of
// different sexes go to separate charts: decline.png for curves over all patients, decline-<sex>.png otherwise.
func (r *Renderer) Decline(curves []*trajectory.DeclineCurve, maxMonth float64) ([]string, error) {
	if len(curves) == 0 {
		return nil, ErrNoData
	}
	sexes := []string{}
	bySex := map[string][]*trajectory.DeclineCurve{}
	for _, c := range curves {
		if _, ok := bySex[c.Sex]; !ok {
			sexes = append(sexes, c.Sex)
		}
		bySex[c.Sex] = append(bySex[c.Sex], c)
	}
	paths := []string{}
	for _, sex := range sexes {
		path, err := r.decline(bySex[sex], sex, maxMonth)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (r *Renderer) decline(curves []*trajectory.DeclineCurve, sex string, maxMonth float64) (string, error) {
	title, name := "Biomarker decline relative to baseline", "decline.png"
	if sex != "" {
		title, name = fmt.Sprintf("Biomarker decline relative to baseline (%s)", sex), "decline-"+fileName(sex)+".png"
	}
	p := newPlot(title, "Months since baseline", "Relative change")
	for i, c := range curves {
		xys := make(plotter.XYs, len(c.Points))
		for j, pt := range c.Points {
			xys[j] = plotter.XY{X: pt.Month, Y: pt.Change}
		}
		line, scatter, err := plotter.NewLinePoints(xys)
		if err != nil {
			return "", fmt.Errorf("decline curve for %s: %w", c.Biomarker, err)
		}
		line.Color = plotutil.Color(i)
		scatter.GlyphStyle.Color = plotutil.Color(i)
		scatter.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(line, scatter)
		p.Legend.Add(c.Biomarker, line, scatter)
	}
	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: maxMonth, Y: 0}})
	if err != nil {
		return "", err
	}
	zero.Color = pointColor
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(zero)
	p.X.Min, p.X.Max = 0, maxMonth
	p.Legend.Top = true
	return r.save(p, name)
}
