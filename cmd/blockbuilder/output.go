// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/blockbuilder/mining"
)

// writeBlock writes the committed transaction ids of the selection to w, one
// per line in commit order.
func writeBlock(w io.Writer, sel *mining.Selection) error {
	bw := bufio.NewWriter(w)
	for _, id := range sel.IDs {
		if _, err := bw.WriteString(id); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeBlockFile writes the selection to the named file, replacing any
// previous content.
func writeBlockFile(path string, sel *mining.Selection) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeBlock(f, sel); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeSummary writes the remaining weight and the total fee of the
// selection.
func writeSummary(w io.Writer, sel *mining.Selection) error {
	_, err := fmt.Fprintf(w, "Remaining weight %d\nTotal fee %d\n",
		sel.RemainingWeight, int64(sel.TotalFee))
	return err
}
