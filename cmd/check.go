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
	"github.com/spf13/cobra"
)

// CheckCmd represents the check command
var CheckCmd = &cobra.Command{
	Use:   "check model.yaml [model.hcl ...]",
	Short: "Compile model files without writing output",
	Long: `Parse and compile each model file and print its diagnostics. Nothing is written.
The command fails when any model has an Error diagnostic.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		jobs := make([]CompileJob, len(args))
		for i, file := range args {
			jobs[i] = CompileJob{ModelFile: file, Verbose: verbose}
		}
		return run(cmd, jobs)
	},
}

func init() {
	rootCmd.AddCommand(CheckCmd)
	CheckCmd.Flags().BoolP("verbose", "v", false, "print the parsed model options")
	addRunFlags(CheckCmd)
}
