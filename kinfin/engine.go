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
// File Name:  engine.go
//
// ==========================================================================

package kinfin

import (
	"fmt"
	"os"
)

// RunInputs names the files the analyse subcommand reads.
type RunInputs struct {
	ClusterFile    string
	ConfigFile     string
	ConfigIsJSON   bool
	TaxonIndexFile string // required alongside ConfigIsJSON
	NodesDBFile    string // optional; gzip auto-detected
	TreeFile       string // optional Newick string file
}

// RunResult is the finalised, analysed state one run of the engine
// produces: everything the report writer needs and nothing it mutates.
type RunResult struct {
	Proteomes []Proteome
	Attrs     []string
	ALOs      *ALOCollection
	Clusters  []*Cluster
	Pairwise  []PairwiseTestRow
	Rarefaction map[string]map[string][]RarefactionPoint
	Tree      *Tree
	Summary   Summary
}

// Run executes the single-pass batch pipeline: parse inputs, build the
// protein/cluster collections, build the ALO collection, analyse every
// cluster, sample rarefaction curves, and return the finalised state for
// the report writer. It never writes to outdir itself — callers decide
// whether/where to call WriteReport.
func Run(in RunInputs, cfg Config) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configRecords, err := loadConfigRecords(in)
	if err != nil {
		return nil, err
	}

	var nodesDB *NodesDB
	if in.NodesDBFile != "" {
		f, err := os.Open(in.NodesDBFile)
		if err != nil {
			return nil, &IOError{Op: "open", Path: in.NodesDBFile, Err: err}
		}
		defer f.Close()
		nodesDB, err = OpenNodesDB(f)
		if err != nil {
			return nil, err
		}
	}

	proteomes, attrs, err := BuildProteomes(configRecords, cfg.Taxranks, nodesDB)
	if err != nil {
		return nil, err
	}
	proteomeIndex := ProteomeIndex(proteomes)

	clusterFile, err := os.Open(in.ClusterFile)
	if err != nil {
		return nil, &IOError{Op: "open", Path: in.ClusterFile, Err: err}
	}
	defer clusterFile.Close()

	depth := cfg.resolvedChannelDepth()
	recs, errc := StreamClusterFile(clusterFile, depth)
	clusters, proteins, excluded, err := BuildCollections(recs, errc, proteomeIndex)
	if err != nil {
		return nil, err
	}

	alos := BuildALOCollection(proteomes, attrs)

	pairwise, err := Analyse(clusters, alos, cfg)
	if err != nil {
		return nil, err
	}

	rarefaction := Rarefy(alos, clusters, cfg)

	var tree *Tree
	if in.TreeFile != "" {
		data, err := os.ReadFile(in.TreeFile)
		if err != nil {
			return nil, &IOError{Op: "read", Path: in.TreeFile, Err: err}
		}
		tree, err = ParseNewick(string(data), proteomeIndex)
		if err != nil {
			return nil, err
		}
		if err := tree.ResolveOutgroup(proteomes); err != nil {
			return nil, err
		}
		for _, c := range clusters {
			tree.AccumulateCluster(c)
		}
	}

	summary := BuildSummary(proteomes, proteins, clusters, excluded)

	return &RunResult{
		Proteomes:   proteomes,
		Attrs:       attrs,
		ALOs:        alos,
		Clusters:    clusters,
		Pairwise:    pairwise,
		Rarefaction: rarefaction,
		Tree:        tree,
		Summary:     summary,
	}, nil
}

func loadConfigRecords(in RunInputs) ([]ConfigRecord, error) {
	f, err := os.Open(in.ConfigFile)
	if err != nil {
		return nil, &IOError{Op: "open", Path: in.ConfigFile, Err: err}
	}
	defer f.Close()

	if !in.ConfigIsJSON {
		return ParseConfigCSV(f)
	}

	if in.TaxonIndexFile == "" {
		return nil, &ConfigError{Msg: "JSON config variant requires a taxon-index map file"}
	}
	idxFile, err := os.Open(in.TaxonIndexFile)
	if err != nil {
		return nil, &IOError{Op: "open", Path: in.TaxonIndexFile, Err: err}
	}
	defer idxFile.Close()

	taxonIndex, err := parseTaxonIndexMap(idxFile)
	if err != nil {
		return nil, err
	}
	return ParseConfigJSON(f, taxonIndex)
}

// WorkersHint surfaces the resolved concurrency knobs for CLI diagnostic
// output; purely informational.
func WorkersHint(cfg Config) string {
	return fmt.Sprintf("shards=%d channel_depth=%d", cfg.resolvedShardCount(), cfg.resolvedChannelDepth())
}
