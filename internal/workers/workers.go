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
// File Name:  workers.go
//
// ==========================================================================

// Package workers sizes the engine's concurrency knobs: how many shards the
// cluster analyser and rarefaction sampler split work across, and how deep
// the streaming channels the parsers feed should be buffered. The teacher
// package hardcodes a single chanDepth constant; kinfin generalizes that
// constant into a function of the host it is running on.
package workers

import (
	"github.com/klauspost/cpuid"
	"github.com/pbnjay/memory"
)

// DefaultShardCount returns the number of worker shards the analyser and
// rarefaction sampler should use when the caller has not pinned a count.
// It mirrors runtime.NumCPU but goes through cpuid so a future port to a
// systems language queries the same topology information kinfin does.
func DefaultShardCount() int {
	n := cpuid.CPU.LogicalCores
	if n < 1 {
		n = 1
	}
	if n > 32 {
		n = 32
	}
	return n
}

// DefaultChannelDepth returns a buffer depth for the channel the cluster
// file streamer feeds, scaled with free system memory so a
// constrained host doesn't over-buffer and a large host doesn't
// under-pipeline. Bounded to a sane range regardless of host size.
func DefaultChannelDepth() int {
	const minDepth = 64
	const maxDepth = 8192
	free := memory.FreeMemory()
	// one channel slot per 4 MiB of free memory, rounded to the bounds.
	depth := int(free / (4 * 1024 * 1024))
	if depth < minDepth {
		depth = minDepth
	}
	if depth > maxDepth {
		depth = maxDepth
	}
	return depth
}
