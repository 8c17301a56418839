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
	"math"
	"sort"
)

// Visit represents one row of the merge table: a single study visit of a single patient. Numeric fields that could not
// be parsed from the input are NaN, missing diagnoses are the empty string.
type Visit struct {
	PID         string  //patient ID, stable across visits
	VisCode     string  //visit code, e.g. bl, m06, m12
	Month       float64 //elapsed study months since baseline
	DX          string  //diagnosis at this visit
	DXBaseline  string  //baseline diagnosis, repeated on every row of a patient
	Age         float64 //age at baseline
	Sex         string  //e.g. Male, Female
	Hippocampus float64 //hippocampal volume
	MMSE        float64 //mini mental state examination score
}

// HasMonth checks if the elapsed study month of a visit is known.
func (v *Visit) HasMonth() bool {
	return !math.IsNaN(v.Month)
}

// HasDiagnosis checks if a diagnosis was recorded at this visit.
func (v *Visit) HasDiagnosis() bool {
	return v.DX != ""
}

// UnknownSex is the sex reported for visits without a recorded sex.
const UnknownSex = "Unknown"

// SexOrUnknown returns the recorded sex of the patient at this visit, or UnknownSex when it is missing.
func (v *Visit) SexOrUnknown() string {
	if v.Sex == "" {
		return UnknownSex
	}
	return v.Sex
}

// Patient represents the history of one patient: all visits that share a patient ID.
type Patient struct {
	PID        string   //patient ID
	BaselineDX string   //first non-empty baseline diagnosis of the patient's rows, in input order
	Visits     []*Visit //visits sorted by elapsed month, visits with unknown month last
}

// baselineVisit returns the first visit with the given baseline visit code, or nil when the patient has none.
func (p *Patient) baselineVisit(code string) *Visit {
	for _, v := range p.Visits {
		if v.VisCode == code {
			return v
		}
	}
	return nil
}

// monthLess orders visits by elapsed month. Unknown months are larger than any known month.
func monthLess(v1, v2 *Visit) bool {
	if !v1.HasMonth() {
		return false
	}
	if !v2.HasMonth() {
		return true
	}
	return v1.Month < v2.Month
}

// SortVisits orders a patient's history by elapsed month. The sort is stable so visits with equal months keep their
// input order.
func SortVisits(p *Patient) {
	visits := p.Visits
	sort.SliceStable(visits, func(i, j int) bool {
		return monthLess(visits[i], visits[j])
	})
}

// Study contains all visit records parsed from the input together with the patient histories derived from them.
type Study struct {
	Visits   []*Visit            //all visits in input order
	Patients []*Patient          //patients in order of first appearance
	PIDMap   map[string]*Patient //maps patient ID onto its history
}

// NewStudy groups visits into patient histories. Visits without a patient ID are dropped. The visits themselves are
// shared, not copied, and are never modified.
func NewStudy(visits []*Visit) *Study {
	study := &Study{PIDMap: map[string]*Patient{}}
	for _, v := range visits {
		if v.PID == "" {
			continue
		}
		study.Visits = append(study.Visits, v)
		patient, ok := study.PIDMap[v.PID]
		if !ok {
			patient = &Patient{PID: v.PID}
			study.PIDMap[v.PID] = patient
			study.Patients = append(study.Patients, patient)
		}
		if patient.BaselineDX == "" {
			patient.BaselineDX = v.DXBaseline
		}
		patient.Visits = append(patient.Visits, v)
	}
	for _, p := range study.Patients {
		SortVisits(p)
	}
	return study
}

// GetPatient retrieves the history of the patient with the given ID.
func (s *Study) GetPatient(pid string) (*Patient, bool) {
	p, ok := s.PIDMap[pid]
	return p, ok
}

// Vocabulary fixes the diagnosis labels and visit codes used by the input data.
type Vocabulary struct {
	Unimpaired       string   //baseline diagnosis of cognitively normal patients, e.g. CN
	ImpairedBaseline []string //baseline diagnoses counted as mild impairment, e.g. EMCI, LMCI
	Mild             string   //visit diagnosis of mild cognitive impairment, e.g. MCI
	Advanced         string   //visit diagnosis of the advanced stage, e.g. Dementia
	BaselineVisit    string   //visit code of the baseline visit, e.g. bl
}

// DefaultVocabulary returns the ADNIMERGE labels.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Unimpaired:       "CN",
		ImpairedBaseline: []string{"EMCI", "LMCI"},
		Mild:             "MCI",
		Advanced:         "Dementia",
		BaselineVisit:    "bl",
	}
}

// Label is the progression cohort of a patient.
type Label int

const (
	NoConversion Label = iota
	UnimpairedToMild
	ImpairedToAdvanced
	UnimpairedToAdvanced
)

// Labels lists all cohort labels in display order.
var Labels = []Label{NoConversion, UnimpairedToMild, ImpairedToAdvanced, UnimpairedToAdvanced}

// CohortName returns the display name of a label in terms of the vocabulary, e.g. "CN -> MCI".
func (vocab Vocabulary) CohortName(l Label) string {
	switch l {
	case UnimpairedToMild:
		return vocab.Unimpaired + " -> " + vocab.Mild
	case ImpairedToAdvanced:
		return vocab.Mild + " -> " + vocab.Advanced
	case UnimpairedToAdvanced:
		return vocab.Unimpaired + " -> " + vocab.Advanced
	default:
		return "Non-converter"
	}
}
