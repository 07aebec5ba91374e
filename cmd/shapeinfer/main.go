// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// shapeinfer loads a graph description from a YAML file, infers the types of all its nodes, and prints them.
//
// Usage:
//
//	shapeinfer [-parallelism=N] [-progress] [-quant] <graph.yaml>
//
// See testdata/upsample.yaml for an example of graph description.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gomlx/shapeinfer/graph"
	"github.com/gomlx/shapeinfer/relations"
	"github.com/gomlx/shapeinfer/ui/commandline"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

var (
	flagParallelism = flag.Int("parallelism", -2, "Maximum number of nodes evaluated in parallel in each "+
		"inference pass. 0 evaluates them inline, -1 means unlimited, and -2 uses the number of CPUs.")
	flagProgress = flag.Bool("progress", false, "Display a progress bar over the inference passes.")
	flagQuant    = flag.Bool("quant", false, "Include the quantization parameters of the nodes in the report.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		klog.Errorf("Missing graph description file to read from. See 'shapeinfer -help'")
		os.Exit(1)
	}
	if len(args) > 1 {
		klog.Errorf("Too many arguments. See 'shapeinfer -help'.")
		os.Exit(1)
	}

	g := must.M1(LoadGraphFile(args[0]))
	err := infer(g)
	writeReport(os.Stdout, g, *flagQuant)
	if err != nil {
		klog.Errorf("Shape inference failed: %+v", err)
		os.Exit(1)
	}
}

// infer runs the inference on g, configured by the flags.
func infer(g *graph.Graph) error {
	inferrer := graph.NewInferrer(relations.NewRegistry())
	if *flagParallelism != -2 {
		inferrer.WithParallelism(*flagParallelism)
	}
	if *flagProgress {
		fmt.Println()
		inferrer.WithProgress(commandline.NewProgressBar(os.Stdout))
	}
	return inferrer.Infer(g)
}
