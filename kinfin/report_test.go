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
// File Name:  report_test.go
//
// ==========================================================================

package kinfin

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReportProducesOnlyTabularArtefacts(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFixture(t, dir, "config.csv", "TAXON,genus\nA,Foo\nB,Foo\nC,Bar\n")
	clusterPath := writeFixture(t, dir, "clusters.txt", "OG1: A.1 B.1\nOG2: C.1\n")

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	cfg.Repetitions = 2
	result, err := Run(RunInputs{ClusterFile: clusterPath, ConfigFile: configPath}, cfg)
	if err != nil {
		t.Fatalf("unexpected error running the pipeline: %v", err)
	}

	outdir := filepath.Join(dir, "out")
	if err := WriteReport(outdir, result, cfg); err != nil {
		t.Fatalf("unexpected error writing the report: %v", err)
	}

	entries, err := os.ReadDir(outdir)
	if err != nil {
		t.Fatalf("unexpected error reading outdir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected WriteReport to produce at least one artefact")
	}
	// per-attribute artefacts live in one sub-directory per attribute; check
	// every file in the tree, not the directories themselves.
	err = filepath.WalkDir(outdir, func(path string, e os.DirEntry, err error) error {
		if err != nil || e.IsDir() {
			return err
		}
		ext := filepath.Ext(e.Name())
		if ext != ".tsv" && ext != ".txt" && ext != ".json" {
			t.Errorf("unexpected non-tabular artefact %s (plot rendering is out of scope here)", e.Name())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error walking outdir: %v", err)
	}
}

func TestWriteReportIsIdempotentAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFixture(t, dir, "config.csv", "TAXON\nA\nB\n")
	clusterPath := writeFixture(t, dir, "clusters.txt", "OG1: A.1 B.1\n")

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	result, err := Run(RunInputs{ClusterFile: clusterPath, ConfigFile: configPath}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outdir := filepath.Join(dir, "out")
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a leftover stale file from a prior run should not survive WriteReport,
	// since it removes and recreates outdir before writing.
	stalePath := filepath.Join(outdir, "stale.tsv")
	if err := os.WriteFile(stalePath, []byte("leftover"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := WriteReport(outdir, result, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(stalePath); err == nil {
		t.Error("expected WriteReport to remove stale files from a prior run")
	}
}
