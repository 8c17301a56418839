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

// Package chart renders exploratory charts of progression cohorts to PNG files.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"adtra/trajectory"

	"github.com/valyala/fastrand"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart has nothing to show.
var ErrNoData = errors.New("no data to plot")

const (
	boxWidth    = 20 // points
	barWidth    = 30 // points
	groupSpread = 0.6
	jitterWidth = 0.15
)

// Renderer writes charts to an output directory.
type Renderer struct {
	Dir           string
	Width, Height vg.Length
	rng           fastrand.RNG
}

// NewRenderer creates the output directory and a renderer writing charts of the given size in inches to it. The seed
// fixes the jitter of point overlays so that repeated runs produce identical charts; it must not be 0.
func NewRenderer(dir string, widthInches, heightInches float64, seed uint32) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create chart directory %s: %w", dir, err)
	}
	r := &Renderer{Dir: dir, Width: vg.Length(widthInches) * vg.Inch, Height: vg.Length(heightInches) * vg.Inch}
	r.rng.Seed(seed)
	return r, nil
}

// save writes a plot as a PNG file to the renderer's directory and returns its path.
func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	path := filepath.Join(r.Dir, name)
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return path, nil
}

// jitter returns a random offset in [-jitterWidth/2, jitterWidth/2).
func (r *Renderer) jitter() float64 {
	return (float64(r.rng.Uint32n(1000))/1000 - 0.5) * jitterWidth
}

// newPlot creates a plot with a title, axis labels, and a background grid.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

// offset spreads n members of a group around the group's location.
func offset(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	step := groupSpread / float64(n)
	return (float64(i) - float64(n-1)/2) * step
}

// swatch is a legend thumbnail filled with a single color.
type swatch struct {
	color color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

// sortedKeys returns the keys of a set in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// fileName turns a label into a file name fragment, e.g. "Female" into "female".
func fileName(label string) string {
	name := strings.ToLower(strings.TrimSpace(label))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, name)
	if name == "" {
		return "unknown"
	}
	return name
}

// cohortGroups returns the display names of the labels that occur in rows, in label order.
func cohortGroups(vocab trajectory.Vocabulary, rows []trajectory.BaselineRow) ([]trajectory.Label, []string) {
	present := map[trajectory.Label]bool{}
	for _, row := range rows {
		present[row.Label] = true
	}
	labels := []trajectory.Label{}
	names := []string{}
	for _, l := range trajectory.Labels {
		if present[l] {
			labels = append(labels, l)
			names = append(names, vocab.CohortName(l))
		}
	}
	return labels, names
}
