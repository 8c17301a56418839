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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"adtra/app"
	"adtra/chart"
	"adtra/trajectory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

/*
Adtra is a tool for analysing disease progression in the ADNIMERGE table of the Alzheimer's Disease Neuroimaging
Initiative.

Usage:
	adtra [--csv-path path]

Example:
	adtra --csv-path ~/data/ADNIMERGE_11Nov2025.csv

The flags are:

--csv-path path
	The path to the ADNIMERGE csv file. When not given, the path is taken from the environment variable
	ALZHEIMER_MERGE_CSV, or else defaults to share/dataset/ADNIMERGE_11Nov2025.csv in the working directory.

The tool classifies every patient into one progression group: CN -> MCI, MCI -> Dementia, CN -> Dementia, or
Non-converter. It prints the size of the groups and the time to progression, in years since baseline, of the
converters. Charts of the groups, their demographics, the time to progression, and the decline of hippocampal volume
and MMSE score are written as PNG files to the figures directory.
*/

func main() {
	var csvPath string
	cmd := &cobra.Command{
		Use:           "adtra",
		Short:         "Cohort progression analysis of the ADNIMERGE table",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), csvPath)
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv-path", "", "path to the ADNIMERGE csv file (overrides "+app.MergeCSVEnvVar+")")
	if err := cmd.Execute(); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}

// report prints an error in a human-readable format.
func report(w io.Writer, err error) {
	var notFound *app.TableNotFoundError
	var missing *app.MissingColumnError
	switch {
	case errors.As(err, &notFound):
		fmt.Fprintf(w, "Error: merge table not found at '%s'.\n", notFound.Path)
		fmt.Fprintf(w, "Pass the path with --csv-path or set the environment variable %s.\n", app.MergeCSVEnvVar)
	case errors.As(err, &missing):
		fmt.Fprintf(w, "Error: column '%s' not found in the merge table.\n", missing.Column)
	default:
		fmt.Fprintf(w, "unexpected error: %v\n", err)
	}
}

// run executes the analysis pipeline with the default configuration.
func run(out io.Writer, csvPath string) error {
	cfg, err := app.DefaultConfig()
	if err != nil {
		return err
	}
	return analyse(out, cfg, csvPath)
}

// analyse executes the analysis pipeline. A failing step aborts the steps that follow it. Panics are returned as
// errors.
func analyse(out io.Writer, cfg *app.Config, csvPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	logger, err := app.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	path, err := cfg.ResolveDataPath(csvPath)
	if err != nil {
		return err
	}
	study, err := app.LoadStudy(path, cfg, logger)
	if err != nil {
		return err
	}
	vocab := cfg.Vocabulary()
	classification := trajectory.Classify(study, vocab)
	trajectory.PrintClassification(out, classification)
	timings := trajectory.EstimateTimings(study, classification)
	for _, t := range timings {
		trajectory.PrintTiming(out, t)
	}
	baseline := trajectory.BaselineRows(study, classification)
	converters := trajectory.ConverterRows(baseline)
	fmt.Fprintln(out, "Sex split of the converters:")
	trajectory.PrintSexSplit(out, vocab, converters)
	return renderCharts(out, cfg, logger, study, classification, timings, converters)
}

// renderCharts writes all charts. Charts without data are skipped with a message.
func renderCharts(out io.Writer, cfg *app.Config, logger *zap.Logger, study *trajectory.Study,
	c *trajectory.Classification, timings []*trajectory.Timing, converters []trajectory.BaselineRow) error {
	r, err := chart.NewRenderer(cfg.Charts.OutputDir, cfg.Charts.WidthInches, cfg.Charts.HeightInches, cfg.Charts.JitterSeed)
	if err != nil {
		return err
	}
	timingRows := trajectory.TimingRows(timings)
	renders := []struct {
		name   string
		render func() ([]string, error)
	}{
		{"cohort counts", single(func() (string, error) { return r.CohortCounts(c.Vocabulary, converters) })},
		{"sex split", single(func() (string, error) { return r.SexSplit(c.Vocabulary, converters) })},
		{"age per cohort", single(func() (string, error) { return r.AgeByCohort(c.Vocabulary, converters) })},
		{"time to progression", single(func() (string, error) { return r.ProgressionTimes(timingRows, false) })},
		{"time to progression by sex", single(func() (string, error) { return r.ProgressionTimes(timingRows, true) })},
		{"decline", func() ([]string, error) {
			pids := c.Members(trajectory.ImpairedToAdvanced)
			return r.Decline(trajectory.DeclineCurves(study, pids, c.Vocabulary, cfg.Charts.DeclineMaxMonth, false),
				cfg.Charts.DeclineMaxMonth)
		}},
		{"decline by sex", func() ([]string, error) {
			pids := c.Members(trajectory.ImpairedToAdvanced)
			return r.Decline(trajectory.DeclineCurves(study, pids, c.Vocabulary, cfg.Charts.DeclineMaxMonth, true),
				cfg.Charts.DeclineMaxMonth)
		}},
	}
	for _, rc := range renders {
		paths, err := rc.render()
		if errors.Is(err, chart.ErrNoData) {
			fmt.Fprintf(out, "Chart %s: no data to plot\n", rc.name)
			continue
		}
		if err != nil {
			return err
		}
		for _, path := range paths {
			logger.Info("Wrote chart", zap.String("chart", rc.name), zap.String("path", path))
		}
	}
	return nil
}

func single(f func() (string, error)) func() ([]string, error) {
	return func() ([]string, error) {
		path, err := f()
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
}
