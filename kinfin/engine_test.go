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
// File Name:  engine_test.go
//
// ==========================================================================

package kinfin

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

func TestRunEndToEndCSVConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFixture(t, dir, "config.csv", "TAXON,genus\nA,Foo\nB,Foo\nC,Bar\n")
	clusterPath := writeFixture(t, dir, "clusters.txt", "OG1: A.1 B.1\nOG2: C.1\n")

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	cfg.Repetitions = 2
	result, err := Run(RunInputs{ClusterFile: clusterPath, ConfigFile: configPath}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Proteomes) != 3 {
		t.Fatalf("got %d proteomes, want 3", len(result.Proteomes))
	}
	if len(result.Clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(result.Clusters))
	}
	if result.Summary.ProteomeCount != 3 {
		t.Errorf("summary.proteome_count = %d, want 3", result.Summary.ProteomeCount)
	}
	if !result.ALOs.HasAttribute("genus") {
		t.Error("expected the genus attribute to be present in the ALO collection")
	}
}

func TestRunEndToEndWithTree(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFixture(t, dir, "config.csv", "TAXON,genus,OUT\nA,Foo,0\nB,Foo,0\nC,Bar,1\n")
	clusterPath := writeFixture(t, dir, "clusters.txt", "OG1: A.1 B.1\nOG2: C.1\n")
	treePath := writeFixture(t, dir, "tree.nwk", "((A,B),C);")

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	result, err := Run(RunInputs{
		ClusterFile: clusterPath,
		ConfigFile:  configPath,
		TreeFile:    treePath,
	}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tree == nil {
		t.Fatal("expected a parsed tree in the run result")
	}
	if result.Tree.OutgroupID == 0 && len(result.Tree.Nodes) == 0 {
		t.Fatal("expected the tree to carry nodes")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFixture(t, dir, "config.csv", "TAXON\nA\n")
	clusterPath := writeFixture(t, dir, "clusters.txt", "OG1: A.1\n")

	cfg := DefaultConfig()
	cfg.Repetitions = 0
	if _, err := Run(RunInputs{ClusterFile: clusterPath, ConfigFile: configPath}, cfg); err == nil {
		t.Fatal("expected Validate's error to short-circuit Run")
	}
}

func TestRunMissingClusterFileIsIOError(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFixture(t, dir, "config.csv", "TAXON\nA\n")
	cfg := DefaultConfig()
	_, err := Run(RunInputs{ClusterFile: filepath.Join(dir, "missing.txt"), ConfigFile: configPath}, cfg)
	if err == nil {
		t.Fatal("expected an error for a missing cluster file")
	}
	if _, ok := err.(*IOError); !ok {
		t.Errorf("expected *IOError, got %T", err)
	}
}

func TestWorkersHintFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShardCount = 4
	cfg.ChannelDepth = 64
	got := WorkersHint(cfg)
	want := "shards=4 channel_depth=64"
	if got != want {
		t.Errorf("WorkersHint() = %q, want %q", got, want)
	}
}
