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
// File Name:  analyser_test.go
//
// ==========================================================================

package kinfin

import (
	"math"
	"testing"
)

// buildTestProteomes constructs proteomes directly from a TAXON->attribute
// map, bypassing config-file parsing, for analyser-focused tests.
func buildTestProteomes(levelByTaxon map[string]string, attrName string) ([]Proteome, []string, map[string]ProteomeID) {
	var taxa []string
	for t := range levelByTaxon {
		taxa = append(taxa, t)
	}
	// deterministic order for test readability; IDX assigned by sorted taxon.
	sortStrings(taxa)

	proteomes := make([]Proteome, len(taxa))
	index := make(map[string]ProteomeID, len(taxa))
	for i, taxon := range taxa {
		p := Proteome{
			ID:      ProteomeID(i),
			TaxonID: taxon,
			Index:   i,
			LevelByAttribute: map[string]string{
				AttributeAll:   LevelAll,
				AttributeTaxon: taxon,
				attrName:       levelByTaxon[taxon],
			},
		}
		proteomes[i] = p
		index[taxon] = p.ID
	}
	return proteomes, []string{AttributeAll, AttributeTaxon, attrName}, index
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func buildTestCluster(id ClusterID, counts map[ProteomeID]int) *Cluster {
	c := &Cluster{
		ID:                     id,
		ProteinCountByProteome: map[ProteomeID]int{},
		ProteomeIDs:            map[ProteomeID]struct{}{},
	}
	total := 0
	for pid, n := range counts {
		c.ProteinCountByProteome[pid] = n
		c.ProteomeIDs[pid] = struct{}{}
		total += n
		for i := 0; i < n; i++ {
			c.Proteins = append(c.Proteins, ProteinID("x"))
		}
	}
	c.ProteinCount = total
	c.ProteomeCount = len(counts)
	c.Singleton = total == 1
	return c
}

func TestAnalyseTwoProteomeSpecificCluster(t *testing.T) {
	proteomes, attrs, idx := buildTestProteomes(map[string]string{"A": "x", "B": "x"}, "g")
	alos := BuildALOCollection(proteomes, attrs)
	c := buildTestCluster("OG1", map[ProteomeID]int{idx["A"]: 1, idx["B"]: 1})

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	if _, err := Analyse([]*Cluster{c}, alos, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ClusterTypeByAttribute["g"] != ClusterSpecific {
		t.Errorf("cluster_type_by_attribute[g] = %v, want specific", c.ClusterTypeByAttribute["g"])
	}
	if c.ClusterTypeByAttribute[AttributeTaxon] != ClusterShared {
		t.Errorf("cluster_type_by_attribute[TAXON] = %v, want shared", c.ClusterTypeByAttribute[AttributeTaxon])
	}
	if c.ClusterTypeByAttribute[AttributeAll] != ClusterSpecific {
		t.Errorf("cluster_type_by_attribute[all] = %v, want specific", c.ClusterTypeByAttribute[AttributeAll])
	}
	if got := c.CoverageByLevelByAttribute["g"]["x"]; got != 1.0 {
		t.Errorf("coverage(g,x) = %v, want 1.0", got)
	}
}

func TestAnalyseSingletonCluster(t *testing.T) {
	proteomes, attrs, idx := buildTestProteomes(map[string]string{"A": "x", "B": "x"}, "g")
	alos := BuildALOCollection(proteomes, attrs)
	c := buildTestCluster("OG2", map[ProteomeID]int{idx["A"]: 1})

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	if _, err := Analyse([]*Cluster{c}, alos, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, attr := range attrs {
		if c.ClusterTypeByAttribute[attr] != ClusterSingleton {
			t.Errorf("cluster_type_by_attribute[%s] = %v, want singleton", attr, c.ClusterTypeByAttribute[attr])
		}
	}
	if c.ProteinMedian != 1 {
		t.Errorf("protein_median = %v, want 1", c.ProteinMedian)
	}
}

func TestAnalyseSharedEnrichedVsDepleted(t *testing.T) {
	proteomes, attrs, idx := buildTestProteomes(map[string]string{
		"A": "x", "B": "x", "C": "y", "D": "y",
	}, "g")
	alos := BuildALOCollection(proteomes, attrs)
	c := buildTestCluster("OG3", map[ProteomeID]int{
		idx["A"]: 3, idx["B"]: 2, idx["C"]: 1, idx["D"]: 1,
	})

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	cfg.MinProteomes = 2
	if _, err := Analyse([]*Cluster{c}, alos, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ClusterTypeByAttribute["g"] != ClusterShared {
		t.Fatalf("cluster_type_by_attribute[g] = %v, want shared", c.ClusterTypeByAttribute["g"])
	}

	aloX := alos.ALOOf("g", "x")
	testX := aloX.TestByCluster[c.ID]
	if testX.Degenerate {
		t.Fatal("level x representation test unexpectedly degenerate")
	}
	wantRatio := math.Log2(2.5 / 1.0)
	if math.Abs(testX.Log2Ratio-wantRatio) > 1e-9 {
		t.Errorf("log2 ratio at x = %v, want %v", testX.Log2Ratio, wantRatio)
	}

	aloY := alos.ALOOf("g", "y")
	testY := aloY.TestByCluster[c.ID]
	if testY.Degenerate {
		t.Fatal("level y representation test unexpectedly degenerate")
	}
	if math.Abs(testY.Log2Ratio+wantRatio) > 1e-9 {
		t.Errorf("log2 ratio at y = %v, want %v (inverse of x)", testY.Log2Ratio, -wantRatio)
	}
}

func TestAnalyseCoverageArithmetic(t *testing.T) {
	proteomes, attrs, idx := buildTestProteomes(map[string]string{
		"A": "x", "B": "x", "C": "x", "D": "x",
	}, "g")
	alos := BuildALOCollection(proteomes, attrs)
	c := buildTestCluster("OG5", map[ProteomeID]int{idx["A"]: 1, idx["C"]: 1})

	cfg := DefaultConfig()
	cfg.ShardCount = 1
	if _, err := Analyse([]*Cluster{c}, alos, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.CoverageByLevelByAttribute["g"]["x"]; got != 0.5 {
		t.Errorf("coverage = %v, want 0.50", got)
	}
}

func TestClassifyCardinalityFuzzy1to1(t *testing.T) {
	cfg := DefaultConfig()
	v := []float64{1, 1, 1, 1, 2}
	if got := classifyCardinality(v, cfg); got != CardinalityFuzzy1to1 {
		t.Errorf("classifyCardinality(%v) = %v, want fuzzy_1to1", v, got)
	}

	v2 := []float64{1, 1, 1, 1, 25}
	if got := classifyCardinality(v2, cfg); got != CardinalityNone {
		t.Errorf("classifyCardinality(%v) = %v, want none", v2, got)
	}
}

func TestClassifyCardinalityTrue1to1(t *testing.T) {
	cfg := DefaultConfig()
	v := []float64{1, 1, 1}
	if got := classifyCardinality(v, cfg); got != CardinalityTrue1to1 {
		t.Errorf("classifyCardinality(%v) = %v, want true_1to1", v, got)
	}
}
