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
// File Name:  proteomes_test.go
//
// ==========================================================================

package kinfin

import "testing"

func TestBuildProteomesSynthesizesAllAndTaxon(t *testing.T) {
	records := []ConfigRecord{
		{Taxon: "A", IDX: 0, HasIDX: true, Attributes: map[string]string{"genus": "Foo"}},
		{Taxon: "B", IDX: 1, HasIDX: true, Attributes: map[string]string{"genus": "Bar"}},
	}
	proteomes, attrs, err := BuildProteomes(records, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proteomes) != 2 {
		t.Fatalf("got %d proteomes, want 2", len(proteomes))
	}
	wantAttrs := map[string]bool{AttributeAll: true, AttributeTaxon: true, "genus": true}
	if len(attrs) != len(wantAttrs) {
		t.Fatalf("got attrs %v, want 3 entries", attrs)
	}
	for _, a := range attrs {
		if !wantAttrs[a] {
			t.Errorf("unexpected attribute %q", a)
		}
	}

	a := proteomes[0]
	if a.TaxonID != "A" || a.LevelByAttribute[AttributeAll] != LevelAll || a.LevelByAttribute[AttributeTaxon] != "A" {
		t.Errorf("unexpected proteome A: %+v", a)
	}
	if a.LevelByAttribute["genus"] != "Foo" {
		t.Errorf("genus level = %q, want Foo", a.LevelByAttribute["genus"])
	}
}

func TestBuildProteomesEmptyRecordsIsFatal(t *testing.T) {
	if _, _, err := BuildProteomes(nil, nil, nil); err == nil {
		t.Fatal("expected an error for an empty record set")
	}
}

func TestBuildProteomesMissingTaxIDFallsBackToNotAvailable(t *testing.T) {
	records := []ConfigRecord{
		{Taxon: "A", IDX: 0, HasIDX: true, HasTaxID: true, TaxID: 9606, Attributes: map[string]string{}},
	}
	proteomes, attrs, err := BuildProteomes(records, []string{"phylum"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, a := range attrs {
		if a == "phylum" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected phylum attribute to be synthesized, got %v", attrs)
	}
	if proteomes[0].LevelByAttribute["phylum"] != NotAvailable {
		t.Errorf("phylum level = %q, want %q (no nodes database supplied)", proteomes[0].LevelByAttribute["phylum"], NotAvailable)
	}
}

func TestProteomeIndexMapsTaxonToID(t *testing.T) {
	proteomes := []Proteome{{ID: 0, TaxonID: "A"}, {ID: 1, TaxonID: "B"}}
	idx := ProteomeIndex(proteomes)
	if idx["A"] != 0 || idx["B"] != 1 {
		t.Errorf("unexpected index: %+v", idx)
	}
}
