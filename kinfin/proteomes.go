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
// File Name:  proteomes.go
//
// ==========================================================================

package kinfin

import (
	"sort"

	"github.com/genomehubs/kinfin/internal/kinlog"
)

// BuildProteomes turns parsed config records into the run's Proteome arena
// plus the ordered list of attribute names that exist for this run,
// synthesizing the "all" and "TAXON" attributes and, when any record
// carries a TAXID, the requested taxrank attributes.
func BuildProteomes(records []ConfigRecord, taxranks []string, nodesDB *NodesDB) ([]Proteome, []string, error) {
	if len(records) == 0 {
		return nil, nil, &InputError{Msg: "config has no proteome records"}
	}

	userAttrSet := map[string]struct{}{}
	anyTaxID := false
	for _, rec := range records {
		for k := range rec.Attributes {
			userAttrSet[k] = struct{}{}
		}
		if rec.HasTaxID {
			anyTaxID = true
		}
	}

	var userAttrs []string
	for k := range userAttrSet {
		userAttrs = append(userAttrs, k)
	}
	sort.Strings(userAttrs)

	if anyTaxID && nodesDB == nil {
		kinlog.Warning("TAXID column present but no nodes database supplied; taxrank attributes will be %s", NotAvailable)
	}

	attributes := []string{AttributeAll, AttributeTaxon}
	attributes = append(attributes, userAttrs...)
	if anyTaxID {
		attributes = append(attributes, taxranks...)
	}

	sorted := append([]ConfigRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].IDX < sorted[j].IDX })

	proteomes := make([]Proteome, 0, len(sorted))
	for i, rec := range sorted {
		p := Proteome{
			ID:               ProteomeID(i),
			TaxonID:          rec.Taxon,
			Index:            rec.IDX,
			Outgroup:         rec.Outgroup,
			LevelByAttribute: map[string]string{},
		}
		if rec.HasTaxID {
			p.NCBITaxID = rec.TaxID
			p.HasTaxID = true
		}

		p.LevelByAttribute[AttributeAll] = LevelAll
		p.LevelByAttribute[AttributeTaxon] = rec.Taxon
		for _, attr := range userAttrs {
			p.LevelByAttribute[attr] = rec.Attributes[attr]
		}

		if anyTaxID {
			var ranks map[string]string
			if nodesDB != nil && rec.HasTaxID {
				ranks = nodesDB.Lineage(rec.TaxID, taxranks)
			} else {
				ranks = map[string]string{}
				for _, r := range taxranks {
					ranks[r] = NotAvailable
				}
			}
			for _, r := range taxranks {
				p.LevelByAttribute[r] = ranks[r]
			}
		}

		proteomes = append(proteomes, p)
	}

	return proteomes, attributes, nil
}

// ProteomeIndex builds a lookup from TAXON string to ProteomeID, used when
// joining cluster-file protein prefixes to proteomes.
func ProteomeIndex(proteomes []Proteome) map[string]ProteomeID {
	idx := make(map[string]ProteomeID, len(proteomes))
	for _, p := range proteomes {
		idx[p.TaxonID] = p.ID
	}
	return idx
}
