// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mempool provides the candidate transaction pool a block template is
built from.

The pool is a flat arena of transaction descriptors addressed by stable
integer handles.  Relationships between transactions, both the direct parent
ids and the derived ancestor chains, are expressed through ids and handles
rather than pointers, so shared ancestors never create ownership cycles.

A pool moves through three phases.  It is loaded, either one descriptor at a
time through Add or from a CSV stream through Load, then resolved and
aggregated by the txgraph package, and finally consumed by one of the
selectors in the mining package which owns the inclusion flags for the
duration of its pass.

Mempool Records

Load expects one transaction per line, without a header:

	txid,fee,weight,parent_txids

The fee is in satoshi, the weight in weight units, and parent_txids is a
semicolon separated list that is left empty for transactions without
unconfirmed parents.

Errors

Errors returned by this package are either the raw errors provided by
underlying calls or of type mempool.RuleError.  The ErrorCode field of a
RuleError identifies the specific failure.
*/
package mempool
