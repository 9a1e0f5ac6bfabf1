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
// File Name:  reportfmt.go
//
// ==========================================================================

// Package reportfmt holds the small display-formatting helper the run
// summary line uses: pluralizing nouns. Built on github.com/gedex/inflector
// for English inflection.
package reportfmt

import (
	"fmt"

	"github.com/gedex/inflector"
)

// Count renders "<n> <noun>" with the noun pluralized when n != 1, e.g.
// Count(1, "cluster") == "1 cluster", Count(3, "cluster") == "3 clusters".
func Count(n int, noun string) string {
	word := noun
	if n != 1 {
		word = inflector.Pluralize(noun)
	}
	return fmt.Sprintf("%d %s", n, word)
}
