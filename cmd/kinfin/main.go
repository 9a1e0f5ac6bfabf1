// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  main.go
//
// ==========================================================================

// Command kinfin is the analyse sub-command CLI surface of the cluster
// analysis engine. It stays deliberately thin: it reads flags, loads
// tunables, and hands everything to kinfin.Run and kinfin.WriteReport.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/genomehubs/kinfin/internal/kinlog"
	"github.com/genomehubs/kinfin/internal/reportfmt"
	"github.com/genomehubs/kinfin/kinfin"
)

func main() {
	fs := flag.NewFlagSet("analyse", flag.ExitOnError)

	clusterFile := fs.String("cluster_file", "", "path to the OG cluster file (required)")
	configFile := fs.String("config_file", "", "path to the taxon-attribute config (required)")
	configJSON := fs.Bool("config_json", false, "treat config_file as the JSON variant")
	taxonIndexFile := fs.String("taxon_index_file", "", "TAXON->IDX map, required with -config_json")
	nodesDBFile := fs.String("nodes_db", "", "optional NCBI-style nodes database (plain or gzip)")
	treeFile := fs.String("tree_file", "", "optional Newick tree file")
	outDir := fs.String("out", "", "output directory (required)")
	tunablesFile := fs.String("tunables", "", "optional YAML/TOML tunables override file")

	fuzzyCount := fs.Int("fuzzy_count", 0, "override fuzzy_count (0 = use default/tunables)")
	fuzzyFraction := fs.Float64("fuzzy_fraction", 0, "override fuzzy_fraction")
	fuzzyMin := fs.Int("fuzzy_min", -1, "override fuzzy_min")
	fuzzyMax := fs.Int("fuzzy_max", -1, "override fuzzy_max")
	minProteomes := fs.Int("min_proteomes", 0, "override min_proteomes")
	test := fs.String("test", "", "override test: mannwhitneyu|welch|ttest|ks|kruskal")
	repetitions := fs.Int("repetitions", 0, "override repetitions")
	taxranks := fs.String("taxranks", "", "comma-separated taxrank override")
	inferSingletons := fs.Bool("infer_singletons", false, "rejected by this CLI: singleton inference needs a protein-id universe this command takes no input for")
	plotFormat := fs.String("plot_format", "", "override plot_format: png|pdf|svg (data only; no image is rendered)")
	seed := fs.Uint64("seed", 0, "RNG seed for the rarefaction sampler")

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "analyse" {
		args = args[1:]
	}
	fs.Parse(args)

	if *clusterFile == "" || *configFile == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: kinfin analyse -cluster_file F -config_file F -out DIR [tunables...]")
		os.Exit(2)
	}

	cfg, err := kinfin.LoadTunables(*tunablesFile)
	if err != nil {
		kinlog.Fatal("%s", err)
	}

	if *fuzzyCount > 0 {
		cfg.FuzzyCount = *fuzzyCount
	}
	if *fuzzyFraction > 0 {
		cfg.FuzzyFraction = *fuzzyFraction
	}
	if *fuzzyMin >= 0 {
		cfg.FuzzyMin = *fuzzyMin
	}
	if *fuzzyMax >= 0 {
		cfg.FuzzyMax = *fuzzyMax
	}
	if *minProteomes > 0 {
		cfg.MinProteomes = *minProteomes
	}
	if *test != "" {
		cfg.Test = kinfin.TestKind(*test)
	}
	if *repetitions > 0 {
		cfg.Repetitions = *repetitions
	}
	if *taxranks != "" {
		cfg.Taxranks = splitComma(*taxranks)
	}
	if *plotFormat != "" {
		cfg.PlotFormat = kinfin.PlotFormat(*plotFormat)
	}
	cfg.InferSingletons = *inferSingletons
	cfg.Seed = *seed

	if err := cfg.Validate(); err != nil {
		kinlog.Fatal("%s", err)
	}

	in := kinfin.RunInputs{
		ClusterFile:    *clusterFile,
		ConfigFile:     *configFile,
		ConfigIsJSON:   *configJSON,
		TaxonIndexFile: *taxonIndexFile,
		NodesDBFile:    *nodesDBFile,
		TreeFile:       *treeFile,
	}

	run, err := kinfin.Run(in, cfg)
	if err != nil {
		kinlog.Fatal("%s", err)
	}

	if err := kinfin.WriteReport(*outDir, run, cfg); err != nil {
		kinlog.Fatal("%s", err)
	}

	kinlog.Info("wrote report for %s and %s to %s (%s)",
		reportfmt.Count(len(run.Clusters), "cluster"),
		reportfmt.Count(len(run.Proteomes), "proteome"),
		*outDir, kinfin.WorkersHint(cfg))
}

func splitComma(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
