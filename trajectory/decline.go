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

	"gonum.org/v1/gonum/stat"
)

// Decline of biomarkers relative to baseline, e.g. to see whether hippocampal volume or the MMSE score declines first
// in patients that progress to the advanced stage.

// Biomarker names a measurement on a visit.
type Biomarker struct {
	Name  string
	Value func(v *Visit) float64
}

// DeclineBiomarkers are the measurements for which decline curves are computed.
var DeclineBiomarkers = []Biomarker{
	{Name: "Hippocampus", Value: func(v *Visit) float64 { return v.Hippocampus }},
	{Name: "MMSE", Value: func(v *Visit) float64 { return v.MMSE }},
}

// DeclinePoint is the mean relative change of a biomarker at one study month.
type DeclinePoint struct {
	Month  float64
	Change float64 //mean of (x - x_bl) / x_bl, e.g. -0.2 for a 20% decline
	N      int     //nr of visits averaged
}

// DeclineCurve is the mean relative change of one biomarker over time, optionally for one sex only.
type DeclineCurve struct {
	Biomarker string
	Sex       string //empty when the curve covers all patients
	Points    []DeclinePoint
}

type declineKey struct {
	biomarker, sex string
	month          float64
}

// DeclineCurves computes, for the given patients, the relative change of each biomarker with respect to the patient's
// baseline-coded visit, averaged per study month in [0, maxMonth]. Patients without a baseline-coded visit, missing
// values, and zero baseline values are skipped. With bySex, a separate curve is computed per sex, with visits without
// a recorded sex under UnknownSex.
func DeclineCurves(study *Study, pids []string, vocab Vocabulary, maxMonth float64, bySex bool) []*DeclineCurve {
	changes := map[declineKey][]float64{}
	sexes := map[string]bool{}
	for _, pid := range pids {
		p, ok := study.GetPatient(pid)
		if !ok {
			continue
		}
		bl := p.baselineVisit(vocab.BaselineVisit)
		if bl == nil {
			continue
		}
		for _, v := range p.Visits {
			if !v.HasMonth() || v.Month < 0 || v.Month > maxMonth {
				continue
			}
			sex := ""
			if bySex {
				sex = v.SexOrUnknown()
				sexes[sex] = true
			}
			for _, b := range DeclineBiomarkers {
				base, x := b.Value(bl), b.Value(v)
				if math.IsNaN(base) || math.IsNaN(x) || base == 0 {
					continue
				}
				key := declineKey{biomarker: b.Name, sex: sex, month: v.Month}
				changes[key] = append(changes[key], (x-base)/base)
			}
		}
	}
	sexList := []string{""}
	if bySex {
		sexList = []string{}
		for sex := range sexes {
			sexList = append(sexList, sex)
		}
		sort.Strings(sexList)
	}
	curves := []*DeclineCurve{}
	for _, sex := range sexList {
		for _, b := range DeclineBiomarkers {
			curve := &DeclineCurve{Biomarker: b.Name, Sex: sex}
			for key, values := range changes {
				if key.biomarker == b.Name && key.sex == sex {
					curve.Points = append(curve.Points, DeclinePoint{Month: key.month, Change: stat.Mean(values, nil), N: len(values)})
				}
			}
			if len(curve.Points) == 0 {
				continue
			}
			sort.Slice(curve.Points, func(i, j int) bool { return curve.Points[i].Month < curve.Points[j].Month })
			curves = append(curves, curve)
		}
	}
	return curves
}
