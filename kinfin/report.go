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
// File Name:  report.go
//
// ==========================================================================

// Report writing covers every tabular artefact the engine produces. Plot
// rendering is deliberately out of scope here, so this writer emits the
// .tsv data a plotting step would consume and stops there — no image
// files are produced.

package kinfin

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// WriteReport renders every report artefact into outdir. outdir is removed
// and recreated so a fatal error partway through never leaves a mixed
// old/new state, and every individual writer creates then closes its own
// file.
func WriteReport(outdir string, run *RunResult, cfg Config) error {
	if err := os.RemoveAll(outdir); err != nil {
		return &IOError{Op: "remove", Path: outdir, Err: err}
	}
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: outdir, Err: err}
	}

	taxonByProteome := make(map[ProteomeID]string, len(run.Proteomes))
	for _, p := range run.Proteomes {
		taxonByProteome[p.ID] = p.TaxonID
	}

	if err := writeClusterSizeDistribution(outdir, run.Clusters); err != nil {
		return err
	}
	if err := writeClusterCountsByTaxon(outdir, run.Clusters, run.Proteomes, taxonByProteome); err != nil {
		return err
	}

	for _, attr := range run.Attrs {
		attrDir := filepath.Join(outdir, attr)
		if err := os.MkdirAll(attrDir, 0o755); err != nil {
			return &IOError{Op: "mkdir", Path: attrDir, Err: err}
		}
		levels := run.ALOs.IterLevels(attr)

		if err := writeAttributeMetrics(attrDir, attr, levels, run, taxonByProteome); err != nil {
			return err
		}
		if err := writeClusterSummary(attrDir, attr, levels, run); err != nil {
			return err
		}
		for _, level := range levels {
			if err := writeClusterMetrics(attrDir, attr, level, run, taxonByProteome); err != nil {
				return err
			}
			if err := writeCluster1to1s(attrDir, attr, level, run); err != nil {
				return err
			}
		}
		if err := writePairwiseRepresentationTest(attrDir, attr, run.Pairwise); err != nil {
			return err
		}
		if err := writeRarefactionCurves(attrDir, attr, run.Rarefaction[attr]); err != nil {
			return err
		}
	}

	if run.Tree != nil {
		if err := writeTreeArtefacts(outdir, run.Tree); err != nil {
			return err
		}
	}

	summaryPath := filepath.Join(outdir, "summary.json")
	f, err := os.Create(summaryPath)
	if err != nil {
		return &IOError{Op: "create", Path: summaryPath, Err: err}
	}
	defer f.Close()
	if err := run.Summary.WriteJSON(f); err != nil {
		return &IOError{Op: "write", Path: summaryPath, Err: err}
	}
	return nil
}

func createTSV(path string) (*bufio.Writer, *os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, &IOError{Op: "create", Path: path, Err: err}
	}
	return bufio.NewWriter(f), f, nil
}

func finishTSV(w *bufio.Writer, f *os.File, path string) error {
	if err := w.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return f.Close()
}

func writeRow(w *bufio.Writer, cols ...string) {
	w.WriteString(strings.Join(cols, "\t"))
	w.WriteByte('\n')
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

// naOrF renders a test cell: "N/A" for degenerate results, else a
// fixed-point number.
func naOrF(v float64, degenerate bool) string {
	if degenerate {
		return "N/A"
	}
	return ftoa(v)
}

func writeClusterSizeDistribution(outdir string, clusters []*Cluster) error {
	path := filepath.Join(outdir, "cluster_size_distribution.tsv")
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}
	writeRow(w, "#cluster_size", "cluster_count")

	counts := map[int]int{}
	for _, c := range clusters {
		counts[c.ProteinCount]++
	}
	sizes := make([]int, 0, len(counts))
	for size := range counts {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		writeRow(w, itoa(size), itoa(counts[size]))
	}
	return finishTSV(w, f, path)
}

func writeClusterCountsByTaxon(outdir string, clusters []*Cluster, proteomes []Proteome, taxonByProteome map[ProteomeID]string) error {
	path := filepath.Join(outdir, "cluster_counts_by_taxon.txt")
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}

	header := make([]string, 0, len(proteomes)+1)
	header = append(header, "#ID")
	for _, p := range proteomes {
		header = append(header, p.TaxonID)
	}
	writeRow(w, header...)

	for _, c := range clusters {
		row := make([]string, 0, len(proteomes)+1)
		row = append(row, string(c.ID))
		for _, p := range proteomes {
			row = append(row, itoa(c.ProteinCountByProteome[p.ID]))
		}
		writeRow(w, row...)
	}
	return finishTSV(w, f, path)
}

func writeAttributeMetrics(attrDir, attr string, levels []string, run *RunResult, taxonByProteome map[ProteomeID]string) error {
	path := filepath.Join(attrDir, attr+".attribute_metrics.txt")
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}
	writeRow(w, "#level", "cluster_total_count", "cluster_singleton_count", "cluster_specific_count",
		"cluster_shared_count", "cluster_absent_count", "protein_count", "protein_span_mean",
		"protein_span_sd", "true_1to1_specific_count", "fuzzy_1to1_specific_count",
		"true_1to1_shared_count", "fuzzy_1to1_shared_count", "TAXON_count", "TAXON_taxa")

	for _, level := range levels {
		alo := run.ALOs.ALOOf(attr, level)
		var singleton, specific, shared, absent, proteinCount int
		var trueSpecific, fuzzySpecific, trueShared, fuzzyShared int
		var spanValues []float64

		for _, c := range run.Clusters {
			status := alo.StatusByCluster[c.ID]
			if status != StatusPresent {
				absent++
				continue
			}
			clusterType := alo.TypeByCluster[c.ID]
			switch clusterType {
			case ClusterSingleton:
				singleton++
			case ClusterSpecific:
				specific++
			case ClusterShared:
				shared++
			}
			for _, cnt := range alo.ProteinCountByProteomeByCluster[c.ID] {
				proteinCount += cnt
				spanValues = append(spanValues, float64(cnt))
			}
			switch alo.CardinalityByCluster[c.ID] {
			case CardinalityTrue1to1:
				if clusterType == ClusterSpecific {
					trueSpecific++
				} else if clusterType == ClusterShared {
					trueShared++
				}
			case CardinalityFuzzy1to1:
				if clusterType == ClusterSpecific {
					fuzzySpecific++
				} else if clusterType == ClusterShared {
					fuzzyShared++
				}
			}
		}

		spanMean, spanSD := meanStdDev(spanValues)

		taxaIDs := make([]string, 0, len(alo.Proteomes))
		for pid := range alo.Proteomes {
			taxaIDs = append(taxaIDs, taxonByProteome[pid])
		}
		sort.Strings(taxaIDs)

		writeRow(w, level,
			itoa(singleton+specific+shared+absent),
			itoa(singleton), itoa(specific), itoa(shared), itoa(absent),
			itoa(proteinCount), ftoa(spanMean), ftoa(spanSD),
			itoa(trueSpecific), itoa(fuzzySpecific), itoa(trueShared), itoa(fuzzyShared),
			itoa(len(alo.Proteomes)), strings.Join(taxaIDs, ","))
	}
	return finishTSV(w, f, path)
}

func writeClusterSummary(attrDir, attr string, levels []string, run *RunResult) error {
	path := filepath.Join(attrDir, attr+".cluster_summary.txt")
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}

	header := []string{"#cluster_id", "cluster_protein_count", "protein_median_count", "TAXON_count",
		"attribute", "attribute_cluster_type", "protein_span_mean", "protein_span_sd"}
	for _, level := range levels {
		header = append(header, level+"_count")
		if attr != AttributeTaxon {
			header = append(header, level+"_median", level+"_cov")
		}
	}
	writeRow(w, header...)

	for _, c := range run.Clusters {
		row := []string{string(c.ID), itoa(c.ProteinCount), ftoa(c.ProteinMedian),
			itoa(c.ProteomeCount), attr, string(c.ClusterTypeByAttribute[attr]),
			ftoa(c.ProteinSpanMean), ftoa(c.ProteinSpanSD)}
		for _, level := range levels {
			alo := run.ALOs.ALOOf(attr, level)
			counts := alo.ProteinCountByProteomeByCluster[c.ID]
			sum := 0
			var values []float64
			for _, cnt := range counts {
				sum += cnt
				values = append(values, float64(cnt))
			}
			row = append(row, itoa(sum))
			if attr != AttributeTaxon {
				row = append(row, ftoa(median(values)), ftoa(c.CoverageByLevelByAttribute[attr][level]))
			}
		}
		writeRow(w, row...)
	}
	return finishTSV(w, f, path)
}

func writeClusterMetrics(attrDir, attr, level string, run *RunResult, taxonByProteome map[ProteomeID]string) error {
	path := filepath.Join(attrDir, fmt.Sprintf("%s.%s.cluster_metrics.txt", attr, level))
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}
	writeRow(w, "#cluster_id", "status", "cluster_type", "protein_count", "proteome_count",
		"mean_in", "mean_out", "log2_ratio", "pvalue", "coverage", "inside_count", "outside_count",
		"inside_taxa", "outside_taxa")

	alo := run.ALOs.ALOOf(attr, level)
	for _, c := range run.Clusters {
		status := alo.StatusByCluster[c.ID]
		clusterType := alo.TypeByCluster[c.ID]
		test := alo.TestByCluster[c.ID]
		coverage := alo.CoverageByCluster[c.ID]
		counts := alo.ProteinCountByProteomeByCluster[c.ID]

		proteinCount := 0
		insideTaxa := make([]string, 0, len(counts))
		for pid := range counts {
			proteinCount += counts[pid]
			insideTaxa = append(insideTaxa, taxonByProteome[pid])
		}
		sort.Strings(insideTaxa)

		var outsideTaxa []string
		for pid, cnt := range c.ProteinCountByProteome {
			if cnt <= 0 {
				continue
			}
			if _, inside := counts[pid]; inside {
				continue
			}
			outsideTaxa = append(outsideTaxa, taxonByProteome[pid])
		}
		sort.Strings(outsideTaxa)

		_, hasTest := alo.TestByCluster[c.ID]
		degenerate := !hasTest
		if hasTest {
			degenerate = test.Degenerate
		}

		writeRow(w, string(c.ID), string(status), string(clusterType), itoa(proteinCount),
			itoa(len(counts)), naOrF(test.MeanIn, degenerate), naOrF(test.MeanOut, degenerate),
			naOrF(test.Log2Ratio, degenerate), naOrF(test.PValue, degenerate), ftoa(coverage),
			itoa(len(insideTaxa)), itoa(len(outsideTaxa)),
			strings.Join(insideTaxa, ","), strings.Join(outsideTaxa, ","))
	}
	return finishTSV(w, f, path)
}

func writeCluster1to1s(attrDir, attr, level string, run *RunResult) error {
	path := filepath.Join(attrDir, fmt.Sprintf("%s.%s.cluster_1to1s.txt", attr, level))
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}
	writeRow(w, "#cluster_id", "cluster_type", "cardinality")

	alo := run.ALOs.ALOOf(attr, level)
	for _, c := range run.Clusters {
		card, ok := alo.CardinalityByCluster[c.ID]
		if !ok {
			continue
		}
		writeRow(w, string(c.ID), string(alo.TypeByCluster[c.ID]), string(card))
	}
	return finishTSV(w, f, path)
}

func writePairwiseRepresentationTest(attrDir, attr string, rows []PairwiseTestRow) error {
	path := filepath.Join(attrDir, attr+".pairwise_representation_test.txt")
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}
	writeRow(w, "#cluster_id", "level_1", "level_2", "mean_in", "mean_out", "log2_ratio", "pvalue")
	for _, r := range rows {
		writeRow(w, string(r.ClusterID), r.Level1, r.Level2,
			naOrF(r.MeanIn, r.Degenerate), naOrF(r.MeanOut, r.Degenerate),
			naOrF(r.Log2Ratio, r.Degenerate), naOrF(r.PValue, r.Degenerate))
	}
	return finishTSV(w, f, path)
}

func writeRarefactionCurves(attrDir, attr string, byLevel map[string][]RarefactionPoint) error {
	path := filepath.Join(attrDir, attr+".rarefaction_curve.tsv")
	w, f, err := createTSV(path)
	if err != nil {
		return err
	}
	writeRow(w, "#level", "sample_size", "median", "min", "max")

	levels := make([]string, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Strings(levels)

	for _, level := range levels {
		for _, point := range byLevel[level] {
			writeRow(w, level, itoa(point.SampleSize), ftoa(point.Median), itoa(point.Min), itoa(point.Max))
		}
	}
	return finishTSV(w, f, path)
}

func writeTreeArtefacts(outdir string, t *Tree) error {
	treeDir := filepath.Join(outdir, "tree")
	if err := os.MkdirAll(treeDir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: treeDir, Err: err}
	}

	nwkPath := filepath.Join(treeDir, "tree.nwk")
	if err := os.WriteFile(nwkPath, []byte(t.WriteNewick()+"\n"), 0o644); err != nil {
		return &IOError{Op: "write", Path: nwkPath, Err: err}
	}
	asciiPath := filepath.Join(treeDir, "tree.txt")
	if err := os.WriteFile(asciiPath, []byte(t.WriteASCII()), 0o644); err != nil {
		return &IOError{Op: "write", Path: asciiPath, Err: err}
	}

	nodeMetricsPath := filepath.Join(treeDir, "tree.node_metrics.txt")
	w, f, err := createTSV(nodeMetricsPath)
	if err != nil {
		return err
	}
	writeRow(w, "#node", "proteome_count", "absent", "singleton", "specific", "shared",
		"apomorphic_singletons", "apomorphic_non_singletons",
		"synapomorphic_complete_presence", "synapomorphic_partial_absence")
	for _, node := range t.Nodes {
		writeRow(w, node.Name, itoa(len(node.Proteomes)), itoa(node.Absent), itoa(node.SingletonCount),
			itoa(node.SpecificCount), itoa(node.SharedCount), itoa(node.ApomorphicSingletons),
			itoa(node.ApomorphicNonSingletons), itoa(node.SynapomorphicCompletePresence),
			itoa(node.SynapomorphicPartialAbsence))
	}
	if err := finishTSV(w, f, nodeMetricsPath); err != nil {
		return err
	}

	clusterMetricsPath := filepath.Join(treeDir, "tree.cluster_metrics.txt")
	w, f, err = createTSV(clusterMetricsPath)
	if err != nil {
		return err
	}
	writeRow(w, "#cluster_id", "node", "kind", "coverage", "child_coverages", "proteome_count")
	for _, node := range t.Nodes {
		for _, rec := range node.Synapomorphies {
			writeRow(w, string(rec.ClusterID), rec.NodeName, rec.Kind, ftoa(rec.Coverage),
				strings.Join(rec.ChildCoverages, ";"), itoa(len(rec.Proteomes)))
		}
	}
	return finishTSV(w, f, clusterMetricsPath)
}

