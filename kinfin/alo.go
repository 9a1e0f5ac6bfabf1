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
// File Name:  alo.go
//
// ==========================================================================

package kinfin

import "sort"

// TestRecord carries one representation-test outcome for a cluster at one
// ALO. Degenerate is set when min_proteomes was not met or the test could
// not be computed; PValue etc. are then meaningless and must be rendered
// "N/A".
type TestRecord struct {
	PValue     float64
	Log2Ratio  float64
	MeanIn     float64
	MeanOut    float64
	Degenerate bool
}

// ALO is one attribute-level aggregate: the proteome set that owns this
// (attribute, level) pair, plus per-cluster status/type/cardinality/test
// state the analyser fills in.
type ALO struct {
	Attribute string
	Level     string
	Proteomes map[ProteomeID]struct{}

	StatusByCluster      map[ClusterID]ClusterStatus
	TypeByCluster        map[ClusterID]ClusterType
	CardinalityByCluster map[ClusterID]Cardinality
	TestByCluster        map[ClusterID]TestRecord
	CoverageByCluster    map[ClusterID]float64

	// ProteinCountByProteomeByCluster[clusterID][proteomeID] is the
	// cluster's protein count at this ALO's proteomes, restricted to
	// proteomes present in the cluster (zero entries are omitted).
	ProteinCountByProteomeByCluster map[ClusterID]map[ProteomeID]int
}

func newALO(attribute, level string, proteomes map[ProteomeID]struct{}) *ALO {
	return &ALO{
		Attribute:                      attribute,
		Level:                          level,
		Proteomes:                      proteomes,
		StatusByCluster:                map[ClusterID]ClusterStatus{},
		TypeByCluster:                  map[ClusterID]ClusterType{},
		CardinalityByCluster:           map[ClusterID]Cardinality{},
		TestByCluster:                  map[ClusterID]TestRecord{},
		CoverageByCluster:              map[ClusterID]float64{},
		ProteinCountByProteomeByCluster: map[ClusterID]map[ProteomeID]int{},
	}
}

// ALOCollection indexes proteome sets and ALOs by attribute then level, and
// provides the query operations the analyser and report writer use.
type ALOCollection struct {
	Attributes                  []string // lexicographically ordered
	proteomesByLevelByAttribute map[string]map[string]map[ProteomeID]struct{}
	aloByLevelByAttribute       map[string]map[string]*ALO
}

// BuildALOCollection partitions the proteome universe by every declared
// attribute. The partition invariant — levels of the same attribute are
// disjoint and their union is the full proteome set — holds by
// construction, since every proteome carries exactly one level value per
// attribute.
func BuildALOCollection(proteomes []Proteome, attributes []string) *ALOCollection {
	sortedAttrs := append([]string(nil), attributes...)
	sort.Strings(sortedAttrs)

	c := &ALOCollection{
		Attributes:                  sortedAttrs,
		proteomesByLevelByAttribute: map[string]map[string]map[ProteomeID]struct{}{},
		aloByLevelByAttribute:       map[string]map[string]*ALO{},
	}

	for _, attr := range sortedAttrs {
		levelSets := map[string]map[ProteomeID]struct{}{}
		for _, p := range proteomes {
			level := p.LevelByAttribute[attr]
			if levelSets[level] == nil {
				levelSets[level] = map[ProteomeID]struct{}{}
			}
			levelSets[level][p.ID] = struct{}{}
		}
		c.proteomesByLevelByAttribute[attr] = levelSets

		alos := map[string]*ALO{}
		for level, set := range levelSets {
			alos[level] = newALO(attr, level, set)
		}
		c.aloByLevelByAttribute[attr] = alos
	}

	return c
}

// ProteomesOf returns the proteome ids belonging to (attribute, level).
func (c *ALOCollection) ProteomesOf(attribute, level string) map[ProteomeID]struct{} {
	return c.proteomesByLevelByAttribute[attribute][level]
}

// IterLevels returns the levels of attribute in lexicographic order, the
// ordering every report artefact depends on for deterministic output.
func (c *ALOCollection) IterLevels(attribute string) []string {
	levels := c.aloByLevelByAttribute[attribute]
	out := make([]string, 0, len(levels))
	for l := range levels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// ALOOf returns the ALO for (attribute, level), or nil if it doesn't exist.
func (c *ALOCollection) ALOOf(attribute, level string) *ALO {
	return c.aloByLevelByAttribute[attribute][level]
}

// HasAttribute reports whether attribute was declared for this run, used
// to validate downstream report requests; an unknown attribute in an
// output request is a ConfigError.
func (c *ALOCollection) HasAttribute(attribute string) bool {
	_, ok := c.aloByLevelByAttribute[attribute]
	return ok
}
