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

package trajectory

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Collecting progression timings for cohorts

// MonthsPerYear converts elapsed study months to years.
const MonthsPerYear = 12.0

// Event is the first visit of a patient at which a qualifying diagnosis was recorded.
type Event struct {
	PID   string
	Visit *Visit
}

// Months returns the elapsed study months from baseline to the event.
func (e *Event) Months() float64 {
	return e.Visit.Month
}

// FirstEvents selects for each given patient the chronologically first visit that passes all filters. Histories are
// sorted by elapsed month, so the first passing visit with a known month is the first event. Patients without such a
// visit are left out. The result follows the order of pids.
func FirstEvents(study *Study, pids []string, filters ...VisitFilter) []*Event {
	events := []*Event{}
	for _, pid := range pids {
		p, ok := study.GetPatient(pid)
		if !ok {
			continue
		}
		for _, v := range p.Visits {
			if v.HasMonth() && visitPasses(v, filters) {
				events = append(events, &Event{PID: pid, Visit: v})
				break
			}
		}
	}
	return events
}

// EventMonths collects the elapsed months of a list of events.
func EventMonths(events []*Event) []float64 {
	months := make([]float64, len(events))
	for i, e := range events {
		months[i] = e.Months()
	}
	return months
}

// Summary contains descriptive statistics of the time to an event.
type Summary struct {
	N                      int
	Mean, Median, Min, Max float64
}

// Summarize computes mean, median, minimum, and maximum of a list of values. It returns false when there are no values,
// in which case none of the statistics are defined.
func Summarize(values []float64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Summary{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: median(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
	}, true
}

// median of a sorted, non-empty list: the middle value, or the mean of the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Years converts a summary expressed in months to years.
func (s Summary) Years() Summary {
	return Summary{
		N:      s.N,
		Mean:   s.Mean / MonthsPerYear,
		Median: s.Median / MonthsPerYear,
		Min:    s.Min / MonthsPerYear,
		Max:    s.Max / MonthsPerYear,
	}
}

// Timing holds the time to progression of one cohort.
type Timing struct {
	Label   Label
	Name    string
	Cohort  []string //patients in the cohort
	Events  []*Event //first qualifying visit per converter
	Summary Summary  //in months
	OK      bool     //false when there are no converters
}

// timingQuery describes how to find the qualifying event of a cohort.
type timingQuery struct {
	label   Label
	cohort  []string
	filters []VisitFilter
}

// timingQueries returns the event definitions of the converter cohorts. Baseline visits are excluded for impaired
// patients, the same way as during classification.
func (c *Classification) timingQueries() []timingQuery {
	vocab := c.Vocabulary
	return []timingQuery{
		{label: UnimpairedToMild, cohort: c.UnimpairedToMild,
			filters: []VisitFilter{DiagnosisFilter(vocab.Mild)}},
		{label: UnimpairedToAdvanced, cohort: c.UnimpairedToAdvanced,
			filters: []VisitFilter{DiagnosisFilter(vocab.Advanced)}},
		{label: ImpairedToAdvanced, cohort: c.ImpairedToAdvanced,
			filters: []VisitFilter{DiagnosisFilter(vocab.Advanced), ExcludeVisitCodeFilter(vocab.BaselineVisit)}},
	}
}

// EstimateTimings computes the time from baseline to the first qualifying visit for each converter cohort.
func EstimateTimings(study *Study, c *Classification) []*Timing {
	timings := []*Timing{}
	for _, q := range c.timingQueries() {
		events := FirstEvents(study, q.cohort, q.filters...)
		summary, ok := Summarize(EventMonths(events))
		timings = append(timings, &Timing{
			Label:   q.label,
			Name:    c.Vocabulary.CohortName(q.label),
			Cohort:  q.cohort,
			Events:  events,
			Summary: summary,
			OK:      ok,
		})
	}
	return timings
}

// TimingRow is one converter in a tidy table for plotting time to progression.
type TimingRow struct {
	Group string
	Years float64
	Sex   string
}

// TimingRows flattens timings into one row per converter, with the elapsed time in years.
func TimingRows(timings []*Timing) []TimingRow {
	rows := []TimingRow{}
	for _, t := range timings {
		for _, e := range t.Events {
			rows = append(rows, TimingRow{Group: t.Name, Years: e.Months() / MonthsPerYear, Sex: e.Visit.SexOrUnknown()})
		}
	}
	return rows
}

// BaselineRow is one patient in a tidy table of baseline demographics per cohort.
type BaselineRow struct {
	PID   string
	Label Label
	Group string
	Sex   string
	Age   float64
}

// BaselineRows collects the demographics at the baseline-coded visit of every labeled patient. Patients without a
// baseline-coded visit are left out.
func BaselineRows(study *Study, c *Classification) []BaselineRow {
	rows := []BaselineRow{}
	for _, p := range study.Patients {
		label, ok := c.Labels[p.PID]
		if !ok {
			continue
		}
		v := p.baselineVisit(c.Vocabulary.BaselineVisit)
		if v == nil {
			continue
		}
		rows = append(rows, BaselineRow{
			PID:   p.PID,
			Label: label,
			Group: c.Vocabulary.CohortName(label),
			Sex:   v.SexOrUnknown(),
			Age:   v.Age,
		})
	}
	return rows
}

// ConverterRows keeps the rows of patients with a label other than NoConversion.
func ConverterRows(rows []BaselineRow) []BaselineRow {
	result := []BaselineRow{}
	for _, r := range rows {
		if r.Label != NoConversion {
			result = append(result, r)
		}
	}
	return result
}

// SexSplit counts, per cohort label, the number of patients of each sex.
func SexSplit(rows []BaselineRow) map[Label]map[string]int {
	split := map[Label]map[string]int{}
	for _, r := range rows {
		if _, ok := split[r.Label]; !ok {
			split[r.Label] = map[string]int{}
		}
		split[r.Label][r.Sex]++
	}
	return split
}
