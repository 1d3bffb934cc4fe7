// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mining selects the transactions of a block template from a resolved
and aggregated mempool.Pool.

Every candidate is treated as a bundle made of the transaction and its whole
ancestor chain, since a transaction can only be mined together with its
unconfirmed ancestors.  Two selectors are provided:

  - SelectGreedy orders bundles by chain fee rate and commits each one that
    fits and does not overlap an earlier bundle.  It is fast but may leave
    capacity unused.
  - SelectKnapsack solves the 0/1 knapsack problem over the bundles with a
    dynamic programming table whose weight axis is quantized by a scale
    divisor.  Its memory use is proportional to the number of candidates
    times the quantized capacity, so the scale has to be chosen with care.

Both selectors own the inclusion flags of the pool for the duration of their
pass and return a Selection listing the committed transactions, ancestors
first, together with the unscaled total fee and the remaining capacity.

Quantization

Bundle weights and the capacity are both rounded up when divided by the
scale.  A set of bundles that fits the quantized capacity may therefore weigh
slightly more than the real limit, so while the table is walked back every
bundle is also checked against the unused real capacity and skipped when it
does not fit.  Selections never exceed the real limit.
*/
package mining
