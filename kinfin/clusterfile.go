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
// File Name:  clusterfile.go
//
// ==========================================================================

package kinfin

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RawClusterLine is one parsed, not-yet-joined cluster record: its id and
// the protein ids named on its line, in file order. Streaming parse and
// proteome join are kept as separate steps so the reader has no
// proteome-set dependency and can run before the config file is loaded.
type RawClusterLine struct {
	ID       ClusterID
	Proteins []ProteinID
}

// StreamClusterFile reads the cluster file format: one cluster per line,
// "<cluster_id>: <pid>( <pid>)*". Blank lines and lines starting with '#'
// are ignored. It streams records through a channel so a multi-gigabyte
// cluster file never sits fully in memory before the join step.
//
// Fatal malformation (duplicate cluster id, unparsable line) is reported
// through errc and the record channel is closed; callers must drain recs
// until closed before inspecting errc.
func StreamClusterFile(r io.Reader, channelDepth int) (<-chan RawClusterLine, <-chan error) {
	if channelDepth < 1 {
		channelDepth = 64
	}
	recs := make(chan RawClusterLine, channelDepth)
	errc := make(chan error, 1)

	go func() {
		defer close(recs)
		defer close(errc)

		seen := make(map[ClusterID]struct{})
		scanr := bufio.NewScanner(r)
		// cluster lines can be very long (thousands of paralogs); raise
		// the scanner's buffer accordingly.
		const bufSize = 8 * 1024 * 1024
		scanr.Buffer(make([]byte, 0, 64*1024), bufSize)

		lineNo := 0
		for scanr.Scan() {
			lineNo++
			line := scanr.Text()
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				continue
			}

			idx := strings.Index(line, ":")
			if idx < 0 {
				errc <- &InputError{Msg: fmt.Sprintf("malformed cluster line %d: missing ':'", lineNo)}
				return
			}
			id := ClusterID(strings.TrimSpace(line[:idx]))
			if id == "" {
				errc <- &InputError{Msg: fmt.Sprintf("malformed cluster line %d: empty cluster id", lineNo)}
				return
			}
			if _, dup := seen[id]; dup {
				errc <- &InputError{Msg: fmt.Sprintf("duplicate cluster id %q at line %d", id, lineNo)}
				return
			}
			seen[id] = struct{}{}

			rest := strings.TrimSpace(line[idx+1:])
			var proteins []ProteinID
			if rest != "" {
				fields := strings.Fields(rest)
				proteins = make([]ProteinID, 0, len(fields))
				for _, f := range fields {
					if !strings.Contains(f, ".") {
						errc <- &InputError{Msg: fmt.Sprintf("malformed protein id %q at line %d: missing '.'", f, lineNo)}
						return
					}
					proteins = append(proteins, ProteinID(f))
				}
			}

			recs <- RawClusterLine{ID: id, Proteins: proteins}
		}
		if err := scanr.Err(); err != nil {
			errc <- &InputError{Msg: fmt.Sprintf("reading cluster file: %s", err)}
		}
	}()

	return recs, errc
}

// ProteinPrefix returns the proteome-prefix portion of a protein id: the
// text before the first '.'.
func ProteinPrefix(id ProteinID) string {
	s := string(id)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}
