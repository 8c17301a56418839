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

// PatientFilter prescribes a function type for selecting patients from a study, e.g. patients with a specific baseline
// diagnosis or patients of a specific sex.
type PatientFilter func(p *Patient) bool

// VisitFilter is a type to define a visit filter function. Such filters take as input a visit and return a bool that
// determines if the visit passes the filter or not.
type VisitFilter func(v *Visit) bool

// ApplyPatientFilters returns the IDs of all patients that pass every given filter, in order of first appearance.
func ApplyPatientFilters(study *Study, filters ...PatientFilter) []string {
	pids := []string{}
	for _, p := range study.Patients {
		keep := true
		for _, filter := range filters {
			if !filter(p) {
				keep = false
				break
			}
		}
		if keep {
			pids = append(pids, p.PID)
		}
	}
	return pids
}

// visitPasses checks a visit against a list of visit filters.
func visitPasses(v *Visit, filters []VisitFilter) bool {
	for _, filter := range filters {
		if !filter(v) {
			return false
		}
	}
	return true
}

// AnyVisit turns a list of visit filters into a patient filter that accepts patients with at least one visit passing
// all visit filters.
func AnyVisit(filters ...VisitFilter) PatientFilter {
	return func(p *Patient) bool {
		for _, v := range p.Visits {
			if visitPasses(v, filters) {
				return true
			}
		}
		return false
	}
}

// BaselineDiagnosisFilter keeps patients whose baseline diagnosis is one of the given labels.
func BaselineDiagnosisFilter(labels ...string) PatientFilter {
	return func(p *Patient) bool {
		for _, l := range labels {
			if p.BaselineDX == l {
				return true
			}
		}
		return false
	}
}

// MemberFilter keeps patients whose ID occurs in the given list.
func MemberFilter(pids []string) PatientFilter {
	members := toSet(pids)
	return func(p *Patient) bool {
		return members[p.PID]
	}
}

// DiagnosisFilter keeps visits with one of the given diagnoses. Visits without a recorded diagnosis never pass.
func DiagnosisFilter(labels ...string) VisitFilter {
	return func(v *Visit) bool {
		if !v.HasDiagnosis() {
			return false
		}
		for _, l := range labels {
			if v.DX == l {
				return true
			}
		}
		return false
	}
}

// ExcludeVisitCodeFilter removes visits with the given visit code, e.g. baseline visits.
func ExcludeVisitCodeFilter(code string) VisitFilter {
	return func(v *Visit) bool {
		return v.VisCode != code
	}
}

// toSet maps every ID in a list onto true.
func toSet(pids []string) map[string]bool {
	set := make(map[string]bool, len(pids))
	for _, pid := range pids {
		set[pid] = true
	}
	return set
}

// difference returns the IDs of pids1 that do not occur in pids2, keeping the order of pids1.
func difference(pids1, pids2 []string) []string {
	exclude := toSet(pids2)
	result := []string{}
	for _, pid := range pids1 {
		if !exclude[pid] {
			result = append(result, pid)
		}
	}
	return result
}
