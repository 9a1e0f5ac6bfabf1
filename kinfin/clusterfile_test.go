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
// File Name:  clusterfile_test.go
//
// ==========================================================================

package kinfin

import (
	"strings"
	"testing"
)

func drainCluster(t *testing.T, recs <-chan RawClusterLine, errc <-chan error) ([]RawClusterLine, error) {
	t.Helper()
	var out []RawClusterLine
	for r := range recs {
		out = append(out, r)
	}
	return out, <-errc
}

func TestStreamClusterFileBasic(t *testing.T) {
	input := "# comment\nOG1: A.1 B.1\n\nOG2: A.7\n"
	recs, errc := StreamClusterFile(strings.NewReader(input), 4)
	lines, err := drainCluster(t, recs, errc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d records, want 2", len(lines))
	}
	if lines[0].ID != "OG1" || len(lines[0].Proteins) != 2 {
		t.Errorf("unexpected first record: %+v", lines[0])
	}
	if lines[1].ID != "OG2" || len(lines[1].Proteins) != 1 {
		t.Errorf("unexpected second record: %+v", lines[1])
	}
}

func TestStreamClusterFileDuplicateID(t *testing.T) {
	input := "OG1: A.1\nOG1: B.1\n"
	recs, errc := StreamClusterFile(strings.NewReader(input), 4)
	_, err := drainCluster(t, recs, errc)
	if err == nil {
		t.Fatal("expected an error for duplicate cluster id")
	}
	if _, ok := err.(*InputError); !ok {
		t.Errorf("expected *InputError, got %T", err)
	}
}

func TestStreamClusterFileMalformedProtein(t *testing.T) {
	input := "OG1: noDot\n"
	recs, errc := StreamClusterFile(strings.NewReader(input), 4)
	_, err := drainCluster(t, recs, errc)
	if err == nil {
		t.Fatal("expected an error for protein id missing '.'")
	}
}

func TestProteinPrefix(t *testing.T) {
	if got := ProteinPrefix("A.1"); got != "A" {
		t.Errorf("ProteinPrefix(A.1) = %q, want A", got)
	}
	if got := ProteinPrefix("noDot"); got != "noDot" {
		t.Errorf("ProteinPrefix(noDot) = %q, want noDot", got)
	}
}
