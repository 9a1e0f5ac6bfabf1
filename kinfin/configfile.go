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
// File Name:  configfile.go
//
// ==========================================================================

package kinfin

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConfigRecord is one parsed row of the taxon-attribute config, before
// proteomes are built: the reserved columns split out, the remaining
// columns kept as a name->value map for the caller to turn into
// user-defined attributes.
type ConfigRecord struct {
	Taxon      string
	IDX        int
	HasIDX     bool
	TaxID      int64
	HasTaxID   bool
	Outgroup   bool
	Attributes map[string]string
}

// ParseConfigCSV reads the CSV config variant: a header row naming at
// least TAXON, optional IDX/TAXID/OUT columns, and any number of
// user-attribute columns. Values are comma-separated and trimmed. Header
// lines may start with '#'.
func ParseConfigCSV(r io.Reader) ([]ConfigRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var header []string
	for header == nil {
		row, err := reader.Read()
		if err == io.EOF {
			return nil, &InputError{Msg: "config file has no header row"}
		}
		if err != nil {
			return nil, &InputError{Msg: fmt.Sprintf("reading config header: %s", err)}
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		header = make([]string, len(row))
		for i, h := range row {
			header[i] = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(h), "#"))
		}
		break
	}

	taxonCol := -1
	idxCol, taxidCol, outCol := -1, -1, -1
	for i, h := range header {
		switch h {
		case "TAXON":
			taxonCol = i
		case ReservedIDX:
			idxCol = i
		case ReservedTAXID:
			taxidCol = i
		case ReservedOUT:
			outCol = i
		}
	}
	if taxonCol < 0 {
		return nil, &InputError{Msg: "config file missing required TAXON column"}
	}

	var records []ConfigRecord
	seenTaxon := make(map[string]struct{})
	rowN := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InputError{Msg: fmt.Sprintf("reading config row %d: %s", rowN, err)}
		}
		rowN++
		if len(row) != len(header) {
			return nil, &InputError{Msg: fmt.Sprintf("config row %d has %d columns, expected %d", rowN, len(row), len(header))}
		}

		taxon := strings.TrimSpace(row[taxonCol])
		if taxon == "" {
			return nil, &InputError{Msg: fmt.Sprintf("config row %d has empty TAXON", rowN)}
		}
		if _, dup := seenTaxon[taxon]; dup {
			return nil, &ConfigError{Msg: fmt.Sprintf("duplicate TAXON value %q", taxon)}
		}
		seenTaxon[taxon] = struct{}{}

		rec := ConfigRecord{Taxon: taxon, Attributes: map[string]string{}}

		if idxCol >= 0 {
			v := strings.TrimSpace(row[idxCol])
			if v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					return nil, &InputError{Msg: fmt.Sprintf("config row %d: IDX %q is not an integer", rowN, v)}
				}
				rec.IDX, rec.HasIDX = n, true
			}
		}
		if taxidCol >= 0 {
			v := strings.TrimSpace(row[taxidCol])
			if v != "" {
				n, err := strconv.ParseInt(v, 10, 64)
				if err != nil {
					return nil, &InputError{Msg: fmt.Sprintf("config row %d: TAXID %q is not an integer", rowN, v)}
				}
				rec.TaxID, rec.HasTaxID = n, true
			}
		}
		if outCol >= 0 {
			v := strings.TrimSpace(row[outCol])
			rec.Outgroup = v == "1"
		}

		for i, h := range header {
			if i == taxonCol || i == idxCol || i == taxidCol || i == outCol {
				continue
			}
			rec.Attributes[h] = strings.TrimSpace(row[i])
		}

		records = append(records, rec)
	}

	if !hasIDXInAny(records) {
		for i := range records {
			records[i].IDX = i
			records[i].HasIDX = true
		}
	}

	return records, nil
}

func hasIDXInAny(records []ConfigRecord) bool {
	for _, r := range records {
		if r.HasIDX {
			return true
		}
	}
	return false
}

// jsonConfigRow models one element of the JSON config variant: a flat
// object carrying the same field names as the CSV header, plus arbitrary
// user attributes.
type jsonConfigRow map[string]any

// ParseConfigJSON reads the JSON config variant and its companion taxon-
// index map (TAXON -> IDX).
func ParseConfigJSON(r io.Reader, taxonIndex map[string]int) ([]ConfigRecord, error) {
	var rows []jsonConfigRow
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, &InputError{Msg: fmt.Sprintf("reading JSON config: %s", err)}
	}

	var records []ConfigRecord
	seenTaxon := make(map[string]struct{})
	for i, row := range rows {
		taxonRaw, ok := row["TAXON"]
		if !ok {
			return nil, &InputError{Msg: fmt.Sprintf("JSON config row %d missing TAXON", i)}
		}
		taxon := fmt.Sprintf("%v", taxonRaw)
		if _, dup := seenTaxon[taxon]; dup {
			return nil, &ConfigError{Msg: fmt.Sprintf("duplicate TAXON value %q", taxon)}
		}
		seenTaxon[taxon] = struct{}{}

		idx, ok := taxonIndex[taxon]
		if !ok {
			return nil, &InputError{Msg: fmt.Sprintf("taxon-index map has no entry for TAXON %q", taxon)}
		}

		rec := ConfigRecord{Taxon: taxon, IDX: idx, HasIDX: true, Attributes: map[string]string{}}

		if v, ok := row[ReservedTAXID]; ok {
			n, err := toInt64(v)
			if err != nil {
				return nil, &InputError{Msg: fmt.Sprintf("JSON config row %d: TAXID is not an integer", i)}
			}
			rec.TaxID, rec.HasTaxID = n, true
		}
		if v, ok := row[ReservedOUT]; ok {
			n, _ := toInt64(v)
			rec.Outgroup = n == 1
		}

		for k, v := range row {
			if k == "TAXON" || k == ReservedIDX || k == ReservedTAXID || k == ReservedOUT {
				continue
			}
			rec.Attributes[k] = fmt.Sprintf("%v", v)
		}

		records = append(records, rec)
	}

	return records, nil
}

// parseTaxonIndexMap reads the JSON config variant's companion TAXON -> IDX
// map file.
func parseTaxonIndexMap(r io.Reader) (map[string]int, error) {
	var raw map[string]int
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, &InputError{Msg: fmt.Sprintf("reading taxon-index map: %s", err)}
	}
	return raw, nil
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
