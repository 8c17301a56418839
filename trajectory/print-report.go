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
	"fmt"
	"io"
	"sort"
	"strings"
)

// Printing of cohorts and progression timings

// PrintClassification prints the cohort counts of a classification in a human-readable format.
func PrintClassification(w io.Writer, c *Classification) {
	vocab := c.Vocabulary
	fmt.Fprintf(w, "Patients with baseline diagnosis %s: %d\n", vocab.Unimpaired, len(c.Unimpaired))
	fmt.Fprintf(w, "%s patients that progressed (to %s or %s): %d\n", vocab.Unimpaired, vocab.Mild, vocab.Advanced,
		len(c.Progressed))
	fmt.Fprintf(w, "Patients [%s]: %d\n", vocab.CohortName(UnimpairedToMild), len(c.UnimpairedToMild))
	fmt.Fprintf(w, "Patients [%s]: %d\n", vocab.CohortName(UnimpairedToAdvanced), len(c.UnimpairedToAdvanced))
	fmt.Fprintf(w, "Patients %s -> %s without ever being diagnosed %s: %d\n", vocab.Unimpaired, vocab.Advanced,
		vocab.Mild, len(c.Skippers))
	if len(c.Skippers) > 0 {
		fmt.Fprintf(w, "IDs of these patients: %s\n", strings.Join(c.Skippers, ", "))
	}
	fmt.Fprintf(w, "Patients with baseline diagnosis %s: %d\n", strings.Join(vocab.ImpairedBaseline, " or "),
		len(c.Impaired))
	fmt.Fprintf(w, "Patients [%s]: %d\n", vocab.CohortName(ImpairedToAdvanced), len(c.ImpairedToAdvanced))
	fmt.Fprintln(w, "Final cohort labels:")
	counts := c.Counts()
	for _, l := range Labels {
		fmt.Fprintf(w, "  %-20s %d\n", vocab.CohortName(l), counts[l])
	}
}

// PrintTiming prints the time to progression of a cohort in years, or a message when there are no converters.
func PrintTiming(w io.Writer, t *Timing) {
	if !t.OK {
		fmt.Fprintf(w, "No patients [%s] found.\n", t.Name)
		return
	}
	years := t.Summary.Years()
	fmt.Fprintf(w, "Found %d patients [%s].\n", years.N, t.Name)
	fmt.Fprintf(w, "  Mean time to progression:   %.2f years\n", years.Mean)
	fmt.Fprintf(w, "  Median time to progression: %.2f years\n", years.Median)
	fmt.Fprintf(w, "  Fastest progression:        %.2f years\n", years.Min)
	fmt.Fprintf(w, "  Slowest progression:        %.2f years\n", years.Max)
}

// PrintSexSplit prints the number of patients per sex for each converter cohort.
func PrintSexSplit(w io.Writer, vocab Vocabulary, rows []BaselineRow) {
	split := SexSplit(rows)
	for _, l := range Labels {
		counts, ok := split[l]
		if !ok || l == NoConversion {
			continue
		}
		sexes := []string{}
		for sex := range counts {
			sexes = append(sexes, sex)
		}
		sort.Strings(sexes)
		parts := []string{}
		for _, sex := range sexes {
			parts = append(parts, fmt.Sprintf("%s: %d", sex, counts[sex]))
		}
		fmt.Fprintf(w, "  %-20s %s\n", vocab.CohortName(l), strings.Join(parts, ", "))
	}
}
