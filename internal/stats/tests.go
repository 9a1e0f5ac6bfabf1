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
// File Name:  tests.go
//
// ==========================================================================

// Package stats implements the representation tests the cluster analyser
// runs to compare per-proteome protein counts inside a level against counts
// outside it (or against a paired level). Each test is a pure function over
// two count vectors, dispatched through a tagged-variant Kind.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Kind names one of the five supported representation tests.
type Kind int

const (
	MannWhitneyU Kind = iota
	Welch
	TTest
	KolmogorovSmirnov
	KruskalWallis
)

// ErrDegenerate is returned when a test cannot be run: too few samples, or
// zero variance where the test requires some. Callers report this as a
// degenerate test and render "N/A" in-band rather than failing the run.
var ErrDegenerate = errors.New("stats: degenerate input")

// Result carries the fields every representation test row needs.
type Result struct {
	PValue    float64
	Log2Ratio float64
	MeanIn    float64
	MeanOut   float64
}

// Run dispatches to the requested test kind. inside and outside must already
// be filtered to strictly-positive counts and have at least minProteomes
// entries each; Run itself only rejects an empty vector with ErrDegenerate
// and checks for the constant-vectors shortcut, and otherwise trusts the
// caller's filtering (the analyser enforces
// min_proteomes before calling).
func Run(kind Kind, inside, outside []float64) (Result, error) {
	if len(inside) == 0 || len(outside) == 0 {
		return Result{}, ErrDegenerate
	}

	meanIn := stat.Mean(inside, nil)
	meanOut := stat.Mean(outside, nil)

	if constantEqual(inside, outside) {
		return Result{PValue: 1.0, Log2Ratio: 0, MeanIn: meanIn, MeanOut: meanOut}, nil
	}

	log2Ratio := math.Log2(meanIn / meanOut)

	var p float64
	var err error
	switch kind {
	case MannWhitneyU:
		p, err = mannWhitneyU(inside, outside)
	case Welch:
		p, err = welchTTest(inside, outside)
	case TTest:
		p, err = studentTTest(inside, outside)
	case KolmogorovSmirnov:
		p, err = kolmogorovSmirnov(inside, outside)
	case KruskalWallis:
		p, err = kruskalWallis(inside, outside)
	default:
		p, err = mannWhitneyU(inside, outside)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{PValue: p, Log2Ratio: log2Ratio, MeanIn: meanIn, MeanOut: meanOut}, nil
}

func constantEqual(a, b []float64) bool {
	if !isConstant(a) || !isConstant(b) {
		return false
	}
	return a[0] == b[0]
}

func isConstant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// rank assigns average ranks to combined values, returning ranks for a then
// for b, in that order, alongside the tie correction term sum(t^3 - t) over
// every group of t tied values, used by the normal approximation.
func rank(a, b []float64) (ranksA, ranksB []float64, tieCorrection float64) {
	n := len(a) + len(b)
	type item struct {
		val    float64
		fromA  bool
		origin int
	}
	items := make([]item, 0, n)
	for i, v := range a {
		items = append(items, item{v, true, i})
	}
	for i, v := range b {
		items = append(items, item{v, false, i})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].val < items[j].val })

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j < n && items[j].val == items[i].val {
			j++
		}
		tieCount := j - i
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		if tieCount > 1 {
			t := float64(tieCount)
			tieCorrection += t*t*t - t
		}
		i = j
	}

	ranksA = make([]float64, 0, len(a))
	ranksB = make([]float64, 0, len(b))
	for idx, it := range items {
		if it.fromA {
			ranksA = append(ranksA, ranks[idx])
		} else {
			ranksB = append(ranksB, ranks[idx])
		}
	}
	return ranksA, ranksB, tieCorrection
}

// mannWhitneyU runs the two-sided Mann-Whitney U test using the normal
// approximation with tie correction; suitable for the sample sizes kinfin
// deals with (per-proteome counts within a level, typically small).
func mannWhitneyU(a, b []float64) (float64, error) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 1 || n2 < 1 {
		return 0, ErrDegenerate
	}

	ranksA, _, tieCorrection := rank(a, b)
	var rSum float64
	for _, r := range ranksA {
		rSum += r
	}

	u1 := rSum - n1*(n1+1)/2
	muU := n1 * n2 / 2

	n := n1 + n2
	if n < 2 {
		return 0, ErrDegenerate
	}
	sigmaU := math.Sqrt((n1 * n2 / 12) * ((n + 1) - tieCorrection/(n*(n-1))))
	if sigmaU == 0 {
		return 1.0, nil
	}

	z := (u1 - muU) / sigmaU
	// continuity correction toward the mean
	if z > 0 {
		z = (u1 - 0.5 - muU) / sigmaU
	} else if z < 0 {
		z = (u1 + 0.5 - muU) / sigmaU
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * (1 - normal.CDF(math.Abs(z)))
	return clampP(p), nil
}

func welchTTest(a, b []float64) (float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, ErrDegenerate
	}
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	nA, nB := float64(len(a)), float64(len(b))

	se2 := varA/nA + varB/nB
	if se2 <= 0 {
		return 0, ErrDegenerate
	}
	t := (meanA - meanB) / math.Sqrt(se2)

	dof := se2 * se2 / ((varA*varA)/(nA*nA*(nA-1)) + (varB*varB)/(nB*nB*(nB-1)))
	if math.IsNaN(dof) || dof <= 0 {
		return 0, ErrDegenerate
	}

	student := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	p := 2 * (1 - student.CDF(math.Abs(t)))
	return clampP(p), nil
}

func studentTTest(a, b []float64) (float64, error) {
	if len(a) < 2 || len(b) < 2 {
		return 0, ErrDegenerate
	}
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	nA, nB := float64(len(a)), float64(len(b))

	dof := nA + nB - 2
	pooled := ((nA-1)*varA + (nB-1)*varB) / dof
	if pooled <= 0 {
		return 0, ErrDegenerate
	}
	se := math.Sqrt(pooled * (1/nA + 1/nB))
	t := (meanA - meanB) / se

	student := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	p := 2 * (1 - student.CDF(math.Abs(t)))
	return clampP(p), nil
}

// kolmogorovSmirnov runs the two-sample KS test using the asymptotic
// Kolmogorov distribution for the p-value.
func kolmogorovSmirnov(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrDegenerate
	}
	sa := append([]float64(nil), a...)
	sb := append([]float64(nil), b...)
	sort.Float64s(sa)
	sort.Float64s(sb)

	combined := append(append([]float64(nil), sa...), sb...)
	sort.Float64s(combined)

	var d float64
	for _, x := range combined {
		cdfA := ecdf(sa, x)
		cdfB := ecdf(sb, x)
		diff := math.Abs(cdfA - cdfB)
		if diff > d {
			d = diff
		}
	}

	nA, nB := float64(len(a)), float64(len(b))
	ne := nA * nB / (nA + nB)
	lambda := (math.Sqrt(ne) + 0.12 + 0.11/math.Sqrt(ne)) * d

	p := ksAsymptoticP(lambda)
	return clampP(p), nil
}

func ecdf(sorted []float64, x float64) float64 {
	idx := sort.SearchFloat64s(sorted, x+1e-12)
	return float64(idx) / float64(len(sorted))
}

func ksAsymptoticP(lambda float64) float64 {
	if lambda < 0.2 {
		return 1.0
	}
	sum := 0.0
	for k := 1; k <= 100; k++ {
		term := 2 * math.Pow(-1, float64(k-1)) * math.Exp(-2*float64(k)*float64(k)*lambda*lambda)
		sum += term
	}
	if sum < 0 {
		sum = 0
	}
	if sum > 1 {
		sum = 1
	}
	return sum
}

// kruskalWallis runs the Kruskal-Wallis H test for the two-group case
// (equivalent in spirit to Mann-Whitney, but computed via the H statistic
// against the chi-squared distribution as the original reference offers
// this as a distinct alternative test).
func kruskalWallis(a, b []float64) (float64, error) {
	n1, n2 := float64(len(a)), float64(len(b))
	if n1 < 1 || n2 < 1 {
		return 0, ErrDegenerate
	}
	ranksA, ranksB, tieCorrection := rank(a, b)

	n := n1 + n2
	var rSumA, rSumB float64
	for _, r := range ranksA {
		rSumA += r
	}
	for _, r := range ranksB {
		rSumB += r
	}

	h := (12 / (n * (n + 1))) * (rSumA*rSumA/n1 + rSumB*rSumB/n2) - 3*(n+1)
	if tieCorrection > 0 {
		correction := 1 - tieCorrection/(n*n*n-n)
		if correction > 0 {
			h /= correction
		}
	}
	if h < 0 {
		h = 0
	}

	chi2 := distuv.ChiSquared{K: 1}
	p := 1 - chi2.CDF(h)
	return clampP(p), nil
}

func clampP(p float64) float64 {
	if math.IsNaN(p) {
		return 1.0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
