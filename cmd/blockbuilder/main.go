// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"

	"github.com/btcsuite/blockbuilder/internal/log"
	"github.com/btcsuite/blockbuilder/mempool"
	"github.com/btcsuite/blockbuilder/mempool/txgraph"
	"github.com/btcsuite/blockbuilder/mining"
)

// buildBlock loads the mempool named by the configuration and selects the
// transactions of a block from it.
func buildBlock(cfg *config) (*mining.Selection, error) {
	strategy, err := mining.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	pool, err := mempool.LoadFile(cfg.InFile)
	if err != nil {
		return nil, err
	}

	resolveCfg := txgraph.DefaultResolveConfig()
	resolveCfg.Strict = cfg.Strict
	stats, err := txgraph.Resolve(pool, resolveCfg)
	if err != nil {
		return nil, err
	}
	if err := txgraph.Aggregate(pool); err != nil {
		return nil, err
	}
	log.BldrLog.Debugf("Resolved %d transactions, longest chain %d, %d "+
		"dangling parent references", pool.Count(), stats.MaxChainLen,
		stats.DanglingEdges)

	return mining.Select(pool, cfg.policy(), strategy)
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Load configuration and parse command line.
	cfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()
	defer os.Stdout.Sync()

	sel, err := buildBlock(cfg)
	if err != nil {
		log.BldrLog.Errorf("Failed to build block: %v", err)
		return err
	}

	if err := writeBlockFile(cfg.OutFile, sel); err != nil {
		log.BldrLog.Errorf("Failed to write %s: %v", cfg.OutFile, err)
		return err
	}
	log.BldrLog.Infof("Wrote %d transaction ids to %s (digest %v)",
		len(sel.IDs), cfg.OutFile, sel.Digest())

	return writeSummary(os.Stdout, sel)
}

func main() {
	if err := realMain(); err != nil {
		if errors.Is(err, errShowSubsystems) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
