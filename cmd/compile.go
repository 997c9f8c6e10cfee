/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gocadinp/InputParameters"
	"github.com/notargets/gocadinp/assembler"
	"github.com/notargets/gocadinp/logger"
	"github.com/notargets/gocadinp/types"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type CompileJob struct {
	ModelFile  string
	OutputFile string // empty for a check only run
	Verbose    bool
}

type JobResult struct {
	CompileJob
	Model   *InputParameters.ModelFile
	Options assembler.Options // as compiled, defaults applied
	Result  *assembler.Result
}

// CompileCmd represents the compile command
var CompileCmd = &cobra.Command{
	Use:   "compile model.yaml [model.hcl ...]",
	Short: "Compile model files into solver input files",
	Long: `Compile each model file into a solver input file written next to it with the .dat extension,
or to the file named by --output when a single model is given. Diagnostics are printed per model.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output != "" && len(args) > 1 {
			return fmt.Errorf("--output needs a single model file, have %d", len(args))
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		jobs := make([]CompileJob, len(args))
		for i, file := range args {
			jobs[i] = CompileJob{ModelFile: file, OutputFile: outputPath(file, output), Verbose: verbose}
		}
		return run(cmd, jobs)
	},
}

func init() {
	rootCmd.AddCommand(CompileCmd)
	CompileCmd.Flags().StringP("output", "o", "", "output file, only with a single model file")
	CompileCmd.Flags().BoolP("verbose", "v", false, "print the parsed model options")
	addRunFlags(CompileCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("profile", "", "write a cpu or mem profile of the run to the current directory")
	cmd.Flags().IntP("jobs", "j", 4, "number of model files compiled at the same time")
}

// run compiles every job and reports its diagnostics, failing when any model has an Error diagnostic
func run(cmd *cobra.Command, jobs []CompileJob) (err error) {
	var (
		prof, _  = cmd.Flags().GetString("profile")
		limit, _ = cmd.Flags().GetInt("jobs")
		log      *logger.Logger
	)
	switch strings.ToLower(prof) {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	default:
		return fmt.Errorf("unknown profile %q, use cpu or mem", prof)
	}
	if log, err = newLogger(); err != nil {
		return
	}
	defer log.Sync()

	results, err := CompileAll(context.Background(), jobs, limit, log)
	if err != nil {
		return
	}
	var failed int
	for _, jr := range results {
		report(cmd.OutOrStdout(), jr, log)
		if jr.Result.Diagnostics.HasErrors() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d model(s) have errors", failed, len(results))
	}
	return
}

/*
CompileAll runs the jobs concurrently, at most limit at a time. Every model is parsed into its own
arena, so compiles share nothing. Results come back in job order; the first failing job cancels the
ones not yet started and its error is returned.
*/
func CompileAll(ctx context.Context, jobs []CompileJob, limit int, log *logger.Logger) ([]*JobResult, error) {
	if limit < 1 {
		limit = 1
	}
	results := make([]*JobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			jr, err := compileOne(job, log.With("model", job.ModelFile))
			if err != nil {
				return fmt.Errorf("%s: %w", job.ModelFile, err)
			}
			results[i] = jr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func compileOne(job CompileJob, log *logger.Logger) (jr *JobResult, err error) {
	var (
		mf   *InputParameters.ModelFile
		m    *types.Model
		opts assembler.Options
		r    *assembler.Result
	)
	if mf, err = InputParameters.ReadModelFile(job.ModelFile); err != nil {
		return
	}
	if m, opts, err = mf.Build(); err != nil {
		return
	}
	opts = applyDefaults(opts)
	if r, err = assembler.New(log).Compile(m, opts); err != nil {
		return
	}
	if job.OutputFile != "" {
		if err = os.WriteFile(job.OutputFile, []byte(r.Text), 0o644); err != nil {
			return
		}
		log.Debug("written", "file", job.OutputFile, "bytes", len(r.Text))
	}
	return &JobResult{CompileJob: job, Model: mf, Options: opts, Result: r}, nil
}

// outputPath is the explicit output when given, otherwise the model path with a .dat extension
func outputPath(modelFile, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(modelFile, filepath.Ext(modelFile)) + ".dat"
}

// report prints one model, the parsed model and options first when the job is verbose
func report(w io.Writer, jr *JobResult, log *logger.Logger) {
	if jr.Verbose && jr.Model != nil {
		jr.Model.Print(w)
		jr.Options.Print(w)
	}
	for _, d := range jr.Result.Diagnostics {
		fmt.Fprintf(w, "%s: %s\n", jr.ModelFile, d)
		if d.Severity == types.SeverityWarning {
			log.Warn(d.Message, "model", jr.ModelFile)
		}
	}
	status := "ok"
	if jr.Result.Diagnostics.HasErrors() {
		status = "errors"
	}
	target := jr.OutputFile
	if target == "" {
		target = "not written"
	}
	fmt.Fprintf(w, "%s: %d elements, %d couplings, %s (%s)\n", jr.ModelFile, jr.Result.Elements,
		jr.Result.Couplings, status, target)
}
