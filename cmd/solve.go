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
	"fmt"
	"io/ioutil"
	"os"

	"github.com/notargets/gofem3d/InputParameters"
	"github.com/notargets/gofem3d/mesh"
	"github.com/notargets/gofem3d/model_problems/ReactionDiffusion3D"
	"github.com/notargets/gofem3d/writefiles"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type ModelSolve struct {
	GridFile   string
	ICFile     string
	OutputPath string
	NProc      int
	Profile    bool
}

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Reaction-diffusion solver, reads a tetrahedral mesh and writes a VTK time series",
	Long:  `Reaction-diffusion solver, reads a tetrahedral mesh and writes a VTK time series`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("solve called")
		ms := &ModelSolve{}
		if ms.GridFile, err = cmd.Flags().GetString("gridFile"); err != nil {
			panic(err)
		}
		if ms.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		ms.OutputPath, _ = cmd.Flags().GetString("outputPath")
		ms.NProc, _ = cmd.Flags().GetInt("nproc")
		ms.Profile, _ = cmd.Flags().GetBool("profile")
		ip := processInput(ms)
		RunSolve(ms, ip)
	},
}

func processInput(ms *ModelSolve) (ip *InputParameters.Parameters) {
	var (
		err      error
		willExit bool
	)
	if len(ms.GridFile) == 0 {
		err := fmt.Errorf("must supply a grid file (-F, --gridFile) in DOLFIN (.xml) format")
		fmt.Printf("error: %s\n", err.Error())
		willExit = true
	}
	if len(ms.ICFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Cube Test Case"
D: 30.
Tau: 500.
Jin: 0.5
Dt: 100.
FinalTime: 10000.
InfluxTag: 30
SolverMethod: CG
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(ms.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.Parameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	if ms.NProc > 0 {
		ip.MaxProcs = ms.NProc
	}
	if len(ms.OutputPath) != 0 {
		ip.OutputPath = ms.OutputPath
	}
	return
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringP("gridFile", "F", "", "Grid file to read in DOLFIN (.xml) format")
	solveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- D (diffusivity)\n\t- Tau (decay time constant)")
	solveCmd.Flags().StringP("outputPath", "o", "", "path of the output PVD collection, overrides OutputPath in the input file")
	solveCmd.Flags().IntP("nproc", "n", 0, "number of goroutines used for assembly, default is the CPU count")
	solveCmd.Flags().Bool("profile", false, "write a CPU profile of the run")
}

func RunSolve(ms *ModelSolve, ip *InputParameters.Parameters) {
	var (
		err error
	)
	if ms.Profile {
		defer profile.Start(profile.CPUProfile).Stop()
	}
	msh, err := mesh.ReadMeshFile(ms.GridFile)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	msh.PrintStatistics()
	out := ip.OutputPath
	if len(out) == 0 {
		out = "solution.pvd"
	}
	writer, err := writefiles.NewPVDWriter(out, msh)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	c, err := ReactionDiffusion3D.New(msh, ip, writer)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	ip.Print()
	if err = c.Run(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	if err = writer.Close(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}
