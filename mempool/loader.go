// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	// parentSeparator separates the parent ids inside the parents field.
	parentSeparator = ";"

	// minRecordFields is the number of fields of a record without the
	// parents column.
	minRecordFields = 3

	// maxRecordFields is the number of fields of a record with the parents
	// column.
	maxRecordFields = 4
)

// ParseRecord converts a single mempool record of the form
// txid,fee,weight[,parent_txids] into a transaction descriptor.  The fee is
// in satoshi and the parents are separated by semicolons.
func ParseRecord(fields []string) (TxDesc, error) {
	if len(fields) < minRecordFields || len(fields) > maxRecordFields {
		str := fmt.Sprintf("record has %d fields, want %d or %d",
			len(fields), minRecordFields, maxRecordFields)
		return TxDesc{}, ruleError(ErrMalformedRecord, str)
	}

	id := strings.TrimSpace(fields[0])
	if id == "" {
		return TxDesc{}, ruleError(ErrMalformedRecord, "record has an "+
			"empty txid")
	}

	fee, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		str := fmt.Sprintf("bad fee for %s: %v", id, err)
		return TxDesc{}, ruleError(ErrMalformedRecord, str)
	}
	weight, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
	if err != nil {
		str := fmt.Sprintf("bad weight for %s: %v", id, err)
		return TxDesc{}, ruleError(ErrMalformedRecord, str)
	}
	if fee < 0 || weight < 0 {
		str := fmt.Sprintf("transaction %s has negative fee %d or "+
			"weight %d", id, fee, weight)
		return TxDesc{}, ruleError(ErrNegativeValue, str)
	}

	var parents []string
	if len(fields) == maxRecordFields {
		for _, parent := range strings.Split(fields[3], parentSeparator) {
			parents = append(parents, strings.TrimSpace(parent))
		}
	}

	return TxDesc{
		ID:        id,
		Fee:       btcutil.Amount(fee),
		Weight:    weight,
		ParentIDs: NormalizeParentIDs(parents),
	}, nil
}

// Load reads every mempool record from r into a new pool.  Records have no
// header line.  The first malformed record aborts the load and the returned
// error names its line.
func Load(r io.Reader) (*Pool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	pool := New(0)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, ruleError(ErrMalformedRecord, err.Error())
		}
		line, _ := reader.FieldPos(0)

		desc, err := ParseRecord(fields)
		if err != nil {
			return nil, lineError(line, err)
		}
		if _, err := pool.Add(desc); err != nil {
			return nil, lineError(line, err)
		}
	}

	log.Debugf("Loaded %d %s", pool.Count(),
		pickNoun(pool.Count(), "transaction", "transactions"))
	return pool, nil
}

// LoadFile loads the mempool records stored in the named file.
func LoadFile(path string) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Infof("Loading mempool from %s", path)
	return Load(f)
}

// lineError prefixes the description of a rule error with the line number
// it was found on.
func lineError(line int, err error) error {
	var rerr RuleError
	if !errors.As(err, &rerr) {
		return fmt.Errorf("line %d: %w", line, err)
	}
	str := fmt.Sprintf("line %d: %s", line, rerr.Description)
	return ruleError(rerr.ErrorCode, str)
}
