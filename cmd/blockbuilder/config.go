// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/btcsuite/blockbuilder/internal/log"
	"github.com/btcsuite/blockbuilder/internal/version"
	"github.com/btcsuite/blockbuilder/mining"
	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultInFile      = "mempool.csv"
	defaultOutFile     = "block.txt"
	defaultStrategy    = "knapsack"
	defaultLogLevel    = "info"
	defaultLogDirname  = "logs"
	defaultLogFilename = "blockbuilder.log"
)

var (
	defaultHomeDir = btcutil.AppDataDir("blockbuilder", false)
	defaultLogDir  = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// config defines the configuration options for blockbuilder.
//
// See loadConfig for details on the configuration load process.
type config struct {
	InFile          string `short:"i" long:"infile" description:"File containing the mempool records"`
	OutFile         string `short:"o" long:"outfile" description:"File the selected transaction ids are written to"`
	Strategy        string `short:"s" long:"strategy" description:"Selection strategy {greedy, knapsack}"`
	MaxWeight       int64  `long:"maxweight" description:"Maximum total weight of the selected transactions"`
	Scale           int64  `long:"scale" description:"Divisor applied to weights before the knapsack table is built -- Use 0 to choose one automatically"`
	AutoScaleFactor int    `long:"autoscalefactor" description:"Knapsack table columns per transaction when the scale is chosen automatically"`
	MaxTableCells   int64  `long:"maxtablecells" description:"Upper bound on the number of cells of the knapsack table"`
	Workers         int    `long:"workers" description:"Number of goroutines filling each knapsack row -- Use 1 to fill rows sequentially"`
	Strict          bool   `long:"strict" description:"Fail on parent ids that are not in the mempool instead of treating them as confirmed"`
	DebugLevel      string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir          string `long:"logdir" description:"Directory to log output"`
	NoFileLogging   bool   `long:"nofilelogging" description:"Disable file logging"`
	ShowVersion     bool   `short:"V" long:"version" description:"Display version information and exit"`
}

// policy returns the selection policy described by the configuration.
func (cfg *config) policy() *mining.Policy {
	return &mining.Policy{
		BlockMaxWeight:  cfg.MaxWeight,
		KnapsackScale:   cfg.Scale,
		AutoScaleFactor: cfg.AutoScaleFactor,
		MaxTableCells:   cfg.MaxTableCells,
		Workers:         cfg.Workers,
	}
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.  An appropriate error is returned if anything is
// invalid.
func parseAndSetDebugLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") &&
		!strings.Contains(debugLevel, "=") {
		if !log.ValidLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, debugLevel)
		}
		log.SetLogLevels(debugLevel)
		return nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues and update the log levels accordingly.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(logLevelPair, "=")
		if len(fields) != 2 {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return fmt.Errorf(str, logLevelPair)
		}

		subsysID, logLevel := fields[0], fields[1]
		if !validSubsystem(subsysID) {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return fmt.Errorf(str, subsysID, log.SupportedSubsystems())
		}
		if !log.ValidLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return fmt.Errorf(str, logLevel)
		}
		log.SetLogLevel(subsysID, logLevel)
	}

	return nil
}

// validSubsystem returns whether subsysID names a logging subsystem.
func validSubsystem(subsysID string) bool {
	for _, id := range log.SupportedSubsystems() {
		if id == subsysID {
			return true
		}
	}
	return false
}

// errShowSubsystems is returned by loadConfig after the supported subsystems
// were listed.
var errShowSubsystems = errors.New("subsystems listed")

// loadConfig initializes and parses the config using the passed command line
// options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Parse the command line options and overwrite the default settings
//  3. Validate the result and set up logging
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		InFile:          defaultInFile,
		OutFile:         defaultOutFile,
		Strategy:        defaultStrategy,
		MaxWeight:       mining.DefaultBlockMaxWeight,
		Scale:           mining.DefaultKnapsackScale,
		AutoScaleFactor: mining.DefaultAutoScaleFactor,
		MaxTableCells:   mining.DefaultMaxTableCells,
		Workers:         runtime.NumCPU(),
		DebugLevel:      defaultLogLevel,
		LogDir:          defaultLogDir,
	}

	// Parse command line options.
	parser := flags.NewParser(&cfg, flags.Default)
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, nil, err
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		fmt.Printf("blockbuilder version %s (Go version %s %s/%s)\n",
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		os.Exit(0)
	}

	funcName := "loadConfig"
	fail := func(err error) (*config, []string, error) {
		err = fmt.Errorf("%s: %w", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return nil, nil, err
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		return nil, nil, errShowSubsystems
	}

	if _, err := mining.ParseStrategy(cfg.Strategy); err != nil {
		return fail(err)
	}
	if cfg.MaxWeight < 0 {
		return fail(fmt.Errorf("the maximum block weight [%d] is "+
			"negative", cfg.MaxWeight))
	}
	if cfg.AutoScaleFactor <= 0 {
		return fail(fmt.Errorf("the auto scale factor [%d] must be "+
			"positive", cfg.AutoScaleFactor))
	}
	if cfg.MaxTableCells <= 0 {
		return fail(fmt.Errorf("the maximum table size [%d] must be "+
			"positive", cfg.MaxTableCells))
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	// Ensure the specified mempool file exists.
	if !fileExists(cfg.InFile) {
		return fail(fmt.Errorf("the specified mempool file [%v] does "+
			"not exist", cfg.InFile))
	}

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	if !cfg.NoFileLogging && cfg.LogDir != "" {
		logFile := filepath.Join(cfg.LogDir, defaultLogFilename)
		if err := log.InitLogRotator(logFile); err != nil {
			return fail(err)
		}
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return fail(err)
	}

	return &cfg, remainingArgs, nil
}
