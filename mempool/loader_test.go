// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// TestParseRecord ensures single records are parsed or rejected as
// expected.
func TestParseRecord(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   TxDesc
		code   ErrorCode
		fail   bool
	}{
		{
			name:   "root with empty parents",
			fields: []string{"a", "10", "100", ""},
			want:   TxDesc{ID: "a", Fee: 10, Weight: 100},
		},
		{
			name:   "root without parents column",
			fields: []string{"a", "10", "100"},
			want:   TxDesc{ID: "a", Fee: 10, Weight: 100},
		},
		{
			name:   "two parents",
			fields: []string{" c ", "3", "30", "a;b"},
			want: TxDesc{ID: "c", Fee: 3, Weight: 30,
				ParentIDs: []string{"a", "b"}},
		},
		{
			name:   "too few fields",
			fields: []string{"a", "10"},
			code:   ErrMalformedRecord,
			fail:   true,
		},
		{
			name:   "too many fields",
			fields: []string{"a", "10", "100", "", "x"},
			code:   ErrMalformedRecord,
			fail:   true,
		},
		{
			name:   "empty id",
			fields: []string{"", "10", "100", ""},
			code:   ErrMalformedRecord,
			fail:   true,
		},
		{
			name:   "fractional fee",
			fields: []string{"a", "1.5", "100", ""},
			code:   ErrMalformedRecord,
			fail:   true,
		},
		{
			name:   "bad weight",
			fields: []string{"a", "1", "heavy", ""},
			code:   ErrMalformedRecord,
			fail:   true,
		},
		{
			name:   "negative weight",
			fields: []string{"a", "1", "-4", ""},
			code:   ErrNegativeValue,
			fail:   true,
		},
	}

	for _, test := range tests {
		desc, err := ParseRecord(test.fields)
		if test.fail {
			require.Truef(t, IsErrorCode(err, test.code),
				"%s: got error %v, want %v", test.name, err,
				test.code)
			continue
		}
		require.NoError(t, err, test.name)
		require.Equalf(t, test.want, desc, "%s: got %s", test.name,
			spew.Sdump(desc))
	}
}

// TestLoad ensures a whole mempool stream is loaded in order.
func TestLoad(t *testing.T) {
	const records = "a,10,100,\n" +
		"b,5,50,a\n" +
		"c,100,1000,\n" +
		"d,7,20,z;a\n"

	pool, err := Load(strings.NewReader(records))
	require.NoError(t, err)
	require.Equal(t, 4, pool.Count())

	d, ok := pool.Lookup("d")
	require.True(t, ok)
	require.Equal(t, Handle(3), d)
	require.Equal(t, []string{"z", "a"}, pool.Desc(d).ParentIDs)
	require.Equal(t, btcutil.Amount(7), pool.Desc(d).Fee)
	require.Equal(t, int64(20), pool.Desc(d).Weight)
	require.Equal(t, PhaseLoaded, pool.Phase())
}

// TestLoadErrors ensures load failures carry the offending line.
func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		records string
		code    ErrorCode
		line    string
	}{
		{
			name:    "bad fee",
			records: "a,10,100,\nb,x,50,a\n",
			code:    ErrMalformedRecord,
			line:    "line 2",
		},
		{
			name:    "duplicate",
			records: "a,10,100,\nb,1,1,\na,1,1,\n",
			code:    ErrDuplicateTx,
			line:    "line 3",
		},
		{
			name:    "bare quote",
			records: "a,10,100,\"x\n",
			code:    ErrMalformedRecord,
			line:    "line 1",
		},
	}

	for _, test := range tests {
		_, err := Load(strings.NewReader(test.records))
		require.Truef(t, IsErrorCode(err, test.code), "%s: got %v",
			test.name, err)
		require.Contains(t, err.Error(), test.line, test.name)
	}
}

// TestLoadFile ensures records are read from disk and a missing file is
// reported.
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mempool.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,1,2,\n"), 0600))

	pool, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, pool.Count())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
