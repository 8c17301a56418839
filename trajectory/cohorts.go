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

// Classification holds the progression cohorts of a study. All ID lists are in order of first appearance in the study.
type Classification struct {
	Vocabulary           Vocabulary
	Unimpaired           []string         //patients with an unimpaired baseline diagnosis
	Impaired             []string         //patients with a mild impairment baseline diagnosis
	Progressed           []string         //unimpaired patients with any mild or advanced visit
	UnimpairedToMild     []string         //unimpaired patients with a mild visit
	UnimpairedToAdvanced []string         //unimpaired patients with an advanced visit
	ImpairedToAdvanced   []string         //impaired patients with an advanced non-baseline visit
	Skippers             []string         //unimpaired patients reaching the advanced stage without a mild visit
	Labels               map[string]Label //final cohort label per patient
	order                []string
}

// labelPrecedence ranks the cohort labels from strongest to weakest. A patient that satisfies several transitions gets
// the strongest one, so a patient first diagnosed mild and later advanced ends up in UnimpairedToAdvanced.
var labelPrecedence = []Label{UnimpairedToAdvanced, ImpairedToAdvanced, UnimpairedToMild}

// Classify partitions the patients of a study into progression cohorts. Every patient of the study gets exactly one
// label; patients that match none of the transitions are NoConversion.
func Classify(study *Study, vocab Vocabulary) *Classification {
	c := &Classification{Vocabulary: vocab, Labels: map[string]Label{}}
	c.Unimpaired = ApplyPatientFilters(study, BaselineDiagnosisFilter(vocab.Unimpaired))
	c.Impaired = ApplyPatientFilters(study, BaselineDiagnosisFilter(vocab.ImpairedBaseline...))
	inA := MemberFilter(c.Unimpaired)
	inB := MemberFilter(c.Impaired)
	c.Progressed = ApplyPatientFilters(study, inA, AnyVisit(DiagnosisFilter(vocab.Mild, vocab.Advanced)))
	c.UnimpairedToMild = ApplyPatientFilters(study, inA, AnyVisit(DiagnosisFilter(vocab.Mild)))
	c.UnimpairedToAdvanced = ApplyPatientFilters(study, inA, AnyVisit(DiagnosisFilter(vocab.Advanced)))
	// a transition cannot have happened at the baseline visit
	c.ImpairedToAdvanced = ApplyPatientFilters(study, inB,
		AnyVisit(DiagnosisFilter(vocab.Advanced), ExcludeVisitCodeFilter(vocab.BaselineVisit)))
	c.Skippers = difference(c.UnimpairedToAdvanced, c.UnimpairedToMild)
	members := map[Label]map[string]bool{
		UnimpairedToMild:     toSet(c.UnimpairedToMild),
		ImpairedToAdvanced:   toSet(c.ImpairedToAdvanced),
		UnimpairedToAdvanced: toSet(c.UnimpairedToAdvanced),
	}
	for _, p := range study.Patients {
		label := NoConversion
		for _, l := range labelPrecedence {
			if members[l][p.PID] {
				label = l
				break
			}
		}
		c.Labels[p.PID] = label
		c.order = append(c.order, p.PID)
	}
	return c
}

// Members returns the IDs of the patients with the given final label.
func (c *Classification) Members(l Label) []string {
	pids := []string{}
	for _, pid := range c.order {
		if c.Labels[pid] == l {
			pids = append(pids, pid)
		}
	}
	return pids
}

// Counts returns the number of patients per final label.
func (c *Classification) Counts() map[Label]int {
	counts := map[Label]int{}
	for _, l := range c.Labels {
		counts[l]++
	}
	return counts
}

// Converters returns the number of patients with a label other than NoConversion.
func (c *Classification) Converters() int {
	return len(c.Labels) - len(c.Members(NoConversion))
}
