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
// File Name:  summary.go
//
// ==========================================================================

package kinfin

import (
	"encoding/json"
	"io"
	"sort"
)

// ProteomeSummary is one proteome's inclusion counters for summary.json.
type ProteomeSummary struct {
	TaxonID            string `json:"taxon_id"`
	ProteinCount       int    `json:"protein_count"`
	ClusteredCount     int    `json:"clustered_protein_count"`
	SingletonCount     int    `json:"singleton_protein_count"`
	ExcludedCount      int    `json:"excluded_protein_count"`
}

// Summary is the top-level structure written to summary.json, including a
// per-reason exclusion breakdown.
type Summary struct {
	ProteomeCount      int                      `json:"proteome_count"`
	ClusterCount       int                      `json:"cluster_count"`
	SingletonClusters  int                      `json:"singleton_cluster_count"`
	ProteinCount       int                      `json:"protein_count"`
	ExcludedProteinCount int                    `json:"excluded_protein_count"`
	ExcludedByReason   map[ExcludedReason]int    `json:"excluded_by_reason"`
	Proteomes          []ProteomeSummary         `json:"proteomes"`
	IncludedProteins   []ProteinID               `json:"included_proteins"`
	ExcludedProteins    []ExcludedProtein         `json:"excluded_proteins"`
}

// BuildSummary tallies the run-level totals summary.json reports,
// including a per-reason breakdown of unmatched cluster-file protein ids.
func BuildSummary(proteomes []Proteome, proteins *ProteinCollection, clusters []*Cluster, excluded []ExcludedProtein) Summary {
	singletonClusters := 0
	for _, c := range clusters {
		if c.Singleton {
			singletonClusters++
		}
	}

	byReason := map[ExcludedReason]int{}
	for _, e := range excluded {
		byReason[e.Reason]++
	}

	perProteome := make(map[ProteomeID]*ProteomeSummary, len(proteomes))
	summaries := make([]ProteomeSummary, len(proteomes))
	for i, p := range proteomes {
		summaries[i] = ProteomeSummary{TaxonID: p.TaxonID}
		perProteome[p.ID] = &summaries[i]
	}

	included := make([]ProteinID, 0, len(proteins.ByID))
	for pid, protein := range proteins.ByID {
		included = append(included, pid)
		if ps, ok := perProteome[protein.Proteome]; ok {
			ps.ProteinCount++
		}
	}
	sort.Slice(included, func(i, j int) bool { return included[i] < included[j] })

	for _, c := range clusters {
		for proteomeID, cnt := range c.ProteinCountByProteome {
			ps, ok := perProteome[proteomeID]
			if !ok {
				continue
			}
			if c.Singleton {
				ps.SingletonCount += cnt
			} else {
				ps.ClusteredCount += cnt
			}
		}
	}

	// ExcludedUnknownProteome carries no resolvable proteome id by
	// definition; per-proteome excluded counts are left at zero for those
	// and only the run-level total/by-reason counters see them.

	sort.Slice(excluded, func(i, j int) bool {
		if excluded[i].ClusterID != excluded[j].ClusterID {
			return excluded[i].ClusterID < excluded[j].ClusterID
		}
		return excluded[i].ProteinID < excluded[j].ProteinID
	})

	return Summary{
		ProteomeCount:        len(proteomes),
		ClusterCount:         len(clusters),
		SingletonClusters:    singletonClusters,
		ProteinCount:         len(proteins.ByID),
		ExcludedProteinCount: len(excluded),
		ExcludedByReason:     byReason,
		Proteomes:            summaries,
		IncludedProteins:     included,
		ExcludedProteins:     excluded,
	}
}

// WriteJSON serializes the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
