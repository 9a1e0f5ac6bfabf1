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
// File Name:  analyser.go
//
// ==========================================================================

package kinfin

import (
	"math"
	"sort"
	"sync"

	"github.com/genomehubs/kinfin/internal/stats"
)

// levelCounts holds, for one (cluster, attribute, level), the strictly
// positive per-proteome counts restricted to that level's proteomes —
// computed once per cluster/attribute pass and reused by the cardinality,
// inside-vs-outside, and pairwise steps.
type levelCounts struct {
	proteomeCount int // |proteomes at this level|
	present       map[ProteomeID]int
	positive      []float64 // values only, for the statistical tests
}

// Analyse runs the full per-cluster pass over every cluster and every
// (attribute, level): classification, coverage, cardinality, the
// inside-vs-outside representation test, and the all-pairs level test.
// Clusters are sharded across workers; each shard accumulates into its own
// ALO delta collection and the deltas are folded into alos afterward, so
// results are identical to a single-threaded pass.
func Analyse(clusters []*Cluster, alos *ALOCollection, cfg Config) ([]PairwiseTestRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shardCount := cfg.resolvedShardCount()
	if shardCount > len(clusters) && len(clusters) > 0 {
		shardCount = len(clusters)
	}
	if shardCount < 1 {
		shardCount = 1
	}

	shards := make([][]*Cluster, shardCount)
	for i, c := range clusters {
		shards[i%shardCount] = append(shards[i%shardCount], c)
	}

	type shardResult struct {
		alos     *ALOCollection
		pairwise []PairwiseTestRow
	}
	results := make([]shardResult, shardCount)

	var wg sync.WaitGroup
	for s := 0; s < shardCount; s++ {
		s := s
		wg.Add(1)
		go func() {
			defer wg.Done()
			delta := newALODelta(alos)
			var pw []PairwiseTestRow
			for _, c := range shards[s] {
				pw = append(pw, analyseCluster(c, alos, delta, cfg)...)
			}
			results[s] = shardResult{alos: delta, pairwise: pw}
		}()
	}
	wg.Wait()

	var allPairwise []PairwiseTestRow
	for _, r := range results {
		mergeALODelta(alos, r.alos)
		allPairwise = append(allPairwise, r.pairwise...)
	}

	sort.Slice(allPairwise, func(i, j int) bool {
		if allPairwise[i].ClusterID != allPairwise[j].ClusterID {
			return allPairwise[i].ClusterID < allPairwise[j].ClusterID
		}
		if allPairwise[i].Level1 != allPairwise[j].Level1 {
			return allPairwise[i].Level1 < allPairwise[j].Level1
		}
		return allPairwise[i].Level2 < allPairwise[j].Level2
	})

	return allPairwise, nil
}

// newALODelta builds a parallel ALOCollection shaped exactly like alos
// (same attributes, levels, and proteome sets) but with empty per-cluster
// maps, so a worker can accumulate into it without racing other workers.
func newALODelta(alos *ALOCollection) *ALOCollection {
	delta := &ALOCollection{
		Attributes:                  alos.Attributes,
		proteomesByLevelByAttribute: alos.proteomesByLevelByAttribute,
		aloByLevelByAttribute:       map[string]map[string]*ALO{},
	}
	for attr, levels := range alos.aloByLevelByAttribute {
		m := map[string]*ALO{}
		for level, alo := range levels {
			m[level] = newALO(attr, level, alo.Proteomes)
		}
		delta.aloByLevelByAttribute[attr] = m
	}
	return delta
}

// mergeALODelta folds a worker's per-cluster writes into the canonical
// collection. Per-cluster keys are disjoint across shards, so the merge is
// a plain key copy — no arithmetic reconciliation needed, and the merge is
// associative regardless of shard execution order.
func mergeALODelta(dst, src *ALOCollection) {
	for attr, levels := range src.aloByLevelByAttribute {
		for level, from := range levels {
			to := dst.aloByLevelByAttribute[attr][level]
			for id, v := range from.StatusByCluster {
				to.StatusByCluster[id] = v
			}
			for id, v := range from.TypeByCluster {
				to.TypeByCluster[id] = v
			}
			for id, v := range from.CardinalityByCluster {
				to.CardinalityByCluster[id] = v
			}
			for id, v := range from.TestByCluster {
				to.TestByCluster[id] = v
			}
			for id, v := range from.CoverageByCluster {
				to.CoverageByCluster[id] = v
			}
			for id, v := range from.ProteinCountByProteomeByCluster {
				to.ProteinCountByProteomeByCluster[id] = v
			}
		}
	}
}

func analyseCluster(c *Cluster, alos *ALOCollection, delta *ALOCollection, cfg Config) []PairwiseTestRow {
	c.ClusterTypeByAttribute = map[string]ClusterType{}
	c.CoverageByLevelByAttribute = map[string]map[string]float64{}

	var pairwise []PairwiseTestRow

	for _, attr := range alos.Attributes {
		levels := alos.IterLevels(attr)
		perLevel := make(map[string]levelCounts, len(levels))
		presentLevels := 0

		for _, level := range levels {
			proteomeSet := alos.ProteomesOf(attr, level)
			present := map[ProteomeID]int{}
			var positive []float64
			for pid := range proteomeSet {
				if cnt, ok := c.ProteinCountByProteome[pid]; ok && cnt > 0 {
					present[pid] = cnt
					positive = append(positive, float64(cnt))
				}
			}
			lc := levelCounts{proteomeCount: len(proteomeSet), present: present, positive: positive}
			perLevel[level] = lc

			alo := delta.ALOOf(attr, level)
			status := StatusAbsent
			if len(present) > 0 {
				status = StatusPresent
				presentLevels++
			}
			alo.StatusByCluster[c.ID] = status
			coverage := 0.0
			if lc.proteomeCount > 0 {
				coverage = float64(len(present)) / float64(lc.proteomeCount)
			}
			alo.CoverageByCluster[c.ID] = coverage
			alo.ProteinCountByProteomeByCluster[c.ID] = present

			if c.CoverageByLevelByAttribute[attr] == nil {
				c.CoverageByLevelByAttribute[attr] = map[string]float64{}
			}
			c.CoverageByLevelByAttribute[attr][level] = coverage
		}

		clusterType := ClusterShared
		switch {
		case c.Singleton:
			clusterType = ClusterSingleton
		case presentLevels == 1:
			clusterType = ClusterSpecific
		}
		c.ClusterTypeByAttribute[attr] = clusterType

		for _, level := range levels {
			lc := perLevel[level]
			alo := delta.ALOOf(attr, level)
			alo.TypeByCluster[c.ID] = clusterType

			if len(lc.present) == 0 {
				continue // absent: no cardinality, no test
			}
			if !c.Singleton && len(lc.positive) > 2 {
				if card := classifyCardinality(lc.positive, cfg); card != CardinalityNone {
					alo.CardinalityByCluster[c.ID] = card
				}
			}

			if clusterType == ClusterShared {
				outside := outsidePositiveCounts(c, lc.present, alos.ProteomesOf(attr, level))
				rec := runRepresentationTest(lc.positive, outside, cfg)
				alo.TestByCluster[c.ID] = rec
			}
		}

		for i := 0; i < len(levels); i++ {
			for j := i + 1; j < len(levels); j++ {
				a, b := perLevel[levels[i]], perLevel[levels[j]]
				if len(a.positive) < cfg.MinProteomes || len(b.positive) < cfg.MinProteomes {
					continue
				}
				result, err := stats.Run(cfg.Test.statsKind(), a.positive, b.positive)
				row := PairwiseTestRow{ClusterID: c.ID, Level1: levels[i], Level2: levels[j]}
				if err != nil {
					row.Degenerate = true
				} else {
					row.PValue = result.PValue
					row.Log2Ratio = result.Log2Ratio
					row.MeanIn = result.MeanIn
					row.MeanOut = result.MeanOut
				}
				pairwise = append(pairwise, row)
			}
		}

		if attr == AttributeAll {
			c.ProteinMedian = median(perLevel[LevelAll].positive)
			mean, sd := meanStdDev(perLevel[LevelAll].positive)
			c.ProteinSpanMean = mean
			c.ProteinSpanSD = sd
		}
	}

	return pairwise
}

func outsidePositiveCounts(c *Cluster, present map[ProteomeID]int, levelProteomes map[ProteomeID]struct{}) []float64 {
	var out []float64
	for pid, cnt := range c.ProteinCountByProteome {
		if cnt <= 0 {
			continue
		}
		if _, inLevel := levelProteomes[pid]; inLevel {
			continue
		}
		out = append(out, float64(cnt))
	}
	return out
}

func runRepresentationTest(inside, outside []float64, cfg Config) TestRecord {
	if len(inside) < cfg.MinProteomes || len(outside) < cfg.MinProteomes {
		return TestRecord{Degenerate: true}
	}
	result, err := stats.Run(cfg.Test.statsKind(), inside, outside)
	if err != nil {
		return TestRecord{Degenerate: true}
	}
	return TestRecord{PValue: result.PValue, Log2Ratio: result.Log2Ratio, MeanIn: result.MeanIn, MeanOut: result.MeanOut}
}

// classifyCardinality classifies a cluster's per-proteome protein counts at
// one level as true-1-to-1, fuzzy-1-to-1, or neither. v must already be
// filtered to strictly positive counts with len(v) > 2.
func classifyCardinality(v []float64, cfg Config) Cardinality {
	allOnes := true
	for _, x := range v {
		if x != 1 {
			allOnes = false
			break
		}
	}
	if allOnes {
		return CardinalityTrue1to1
	}

	fuzzyCount := float64(cfg.FuzzyCount)
	matches := 0
	var remainder []float64
	for _, x := range v {
		if x == fuzzyCount {
			matches++
		} else {
			remainder = append(remainder, x)
		}
	}
	fraction := float64(matches) / float64(len(v))
	if fraction < cfg.FuzzyFraction {
		return CardinalityNone
	}
	for _, x := range remainder {
		if x == fuzzyCount || x < float64(cfg.FuzzyMin) || x > float64(cfg.FuzzyMax) {
			return CardinalityNone
		}
	}
	return CardinalityFuzzy1to1
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sorted := append([]float64(nil), v...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func meanStdDev(v []float64) (float64, float64) {
	if len(v) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))
	if len(v) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range v {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(v)-1))
}
