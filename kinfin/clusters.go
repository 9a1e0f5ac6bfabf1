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
// File Name:  clusters.go
//
// ==========================================================================

package kinfin

import "sort"

// ExcludedReason names why a protein id from the cluster file did not enter
// the run.
type ExcludedReason string

const (
	ExcludedUnknownProteome ExcludedReason = "unknown_proteome"
)

// ExcludedProtein records one protein id the cluster collection dropped.
type ExcludedProtein struct {
	ProteinID ProteinID
	ClusterID ClusterID
	Reason    ExcludedReason
}

// ProteinCollection maps protein id to its parsed record. Only proteomes
// listed in the config are retained.
type ProteinCollection struct {
	ByID map[ProteinID]*Protein
}

// BuildCollections drains the raw cluster-line stream, joining each protein
// id's proteome prefix against proteomeIndex, and produces the cluster
// collection and protein collection in one pass. Proteins whose prefix has
// no match are recorded as excluded and do not enter any cluster.
//
// BuildCollections does not infer singleton clusters for proteins the
// cluster file never mentions; InferSingletons does that separately, given
// the full universe of known protein ids.
func BuildCollections(recs <-chan RawClusterLine, errc <-chan error, proteomeIndex map[string]ProteomeID) ([]*Cluster, *ProteinCollection, []ExcludedProtein, error) {
	clusters := make([]*Cluster, 0, 1024)
	proteins := &ProteinCollection{ByID: map[ProteinID]*Protein{}}
	var excluded []ExcludedProtein

	for rec := range recs {
		c := &Cluster{
			ID:                     rec.ID,
			ProteinCountByProteome: map[ProteomeID]int{},
			ProteomeIDs:            map[ProteomeID]struct{}{},
		}
		for _, pid := range rec.Proteins {
			prefix := ProteinPrefix(pid)
			proteomeID, ok := proteomeIndex[prefix]
			if !ok {
				excluded = append(excluded, ExcludedProtein{ProteinID: pid, ClusterID: rec.ID, Reason: ExcludedUnknownProteome})
				continue
			}
			proteins.ByID[pid] = &Protein{ID: pid, Proteome: proteomeID}
			c.Proteins = append(c.Proteins, pid)
			c.ProteinCountByProteome[proteomeID]++
			c.ProteomeIDs[proteomeID] = struct{}{}
		}
		c.ProteinCount = len(c.Proteins)
		c.ProteomeCount = len(c.ProteomeIDs)
		c.Singleton = c.ProteinCount == 1
		clusters = append(clusters, c)
	}

	if err := <-errc; err != nil {
		return nil, nil, nil, err
	}

	if len(proteins.ByID) == 0 {
		return nil, nil, nil, &InputError{Msg: "no protein survived referential filtering against the config"}
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ID < clusters[j].ID })

	return clusters, proteins, excluded, nil
}

// InferSingletons synthesizes one new singleton cluster per proteome-joined
// protein that appears in universe but not in any existing cluster's
// membership. universe is typically every protein id a FASTA/annotation
// source names; clusters and proteins are mutated in place (proteins gains
// the synthesized entries, clusters gains one *Cluster per orphan).
func InferSingletons(clusters []*Cluster, proteins *ProteinCollection, universe map[ProteinID]ProteomeID) []*Cluster {
	clustered := map[ProteinID]struct{}{}
	for _, c := range clusters {
		for _, p := range c.Proteins {
			clustered[p] = struct{}{}
		}
	}

	orphans := make([]ProteinID, 0)
	for pid := range universe {
		if _, in := clustered[pid]; !in {
			orphans = append(orphans, pid)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })

	for _, pid := range orphans {
		proteomeID := universe[pid]
		c := &Cluster{
			ID:                     ClusterID(pid),
			Proteins:               []ProteinID{pid},
			ProteinCount:           1,
			ProteinCountByProteome: map[ProteomeID]int{proteomeID: 1},
			ProteomeIDs:            map[ProteomeID]struct{}{proteomeID: {}},
			ProteomeCount:          1,
			Singleton:              true,
		}
		proteins.ByID[pid] = &Protein{ID: pid, Proteome: proteomeID}
		clusters = append(clusters, c)
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].ID < clusters[j].ID })
	return clusters
}
