/*
Package main implements the catalog search server and CLI [DBG] application.

catalogserve ranks a small, fixed product catalog against free-text queries,
classifies items into category tabs and CSE tracks, and proposes query
completions from a keyword index and a synonym table. It can operate as a
MessagePack IPC server for the storefront, or as a CLI for testing and
debugging.

# Usage

Start the server with the default catalog:

	catalogserve

Use a custom catalog and enable debug mode:

	catalogserve -catalog /path/to/catalog.yaml -d

Run in CLI mode for interactive testing:

	catalogserve -c -limit 10

The catalog is a YAML, JSON or msgpack document with an "items" list:

	items:
	  - id: ml-stock
	    title: Machine Learning Stock Predictor
	    category: CSE
	    tags: [ML, Python]
	    price: 4999

# Configuration

Runtime configuration lives in catalogserve.toml, created with defaults if it
doesn't exist:

	[search]
	full_query_bonus = 12
	term_bonus = 4
	tag_bonus = 3

	[suggest]
	popular_limit = 6
	max_results = 10

	[synonyms]
	ar = ["augmented reality", "vr"]

# IPC Protocol

The server communicates via MessagePack over stdin/stdout; see package
server for the message shapes. Logs are written to stderr.

# Command Line Flags

	-catalog string
	    Catalog file (default from config)
	-config string
	    Config file (default: <config dir>/catalogserve.toml)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of results to print in CLI mode
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/catalogserve/internal/cli"
	"github.com/bastiangx/catalogserve/internal/logger"
	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/bastiangx/catalogserve/pkg/analytics"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/engine"
	"github.com/bastiangx/catalogserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "catalogserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only wires packages together; it implements no search logic.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	catalogPath := flag.String("catalog", "", "Catalog file (YAML, JSON or msgpack)")
	configPath := flag.String("config", "", "Config file path")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of results to print in CLI mode (0 for all)")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// stdout is reserved for msgpack frames in server mode
	if !*cliMode {
		log.SetOutput(os.Stderr)
	}
	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	appConfig, activeConfig := loadConfig(pathResolver, *configPath)
	log.Debugf("Using config file: (%s), config dir: %s", config.GetActiveConfigPath(activeConfig), pathResolver.ConfigDir())

	wanted := appConfig.Server.Catalog
	if *catalogPath != "" {
		wanted = *catalogPath
	}
	resolvedCatalog := pathResolver.ResolveCatalog(wanted)

	cat, err := catalog.Load(resolvedCatalog)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Debugf("Loaded catalog: %s (%d items)", resolvedCatalog, cat.Len())

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.SetReportTimestamp(false)
		analyticsLog := logger.NewWithConfig("analytics", log.InfoLevel, false, false, log.LogfmtFormatter)
		eng := engine.New(cat,
			engine.WithLogger(logger.New("engine")),
			engine.WithEmitter(analytics.NewLogEmitter(analyticsLog), appConfig.Analytics.MinQueryLen),
			engine.WithConfig(appConfig),
		)
		inputHandler := cli.NewInputHandler(eng, *limit, appConfig.CLI.ShowSuggestions)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	eng := engine.New(cat,
		engine.WithLogger(logger.NewWithWriter(os.Stderr, "engine")),
		engine.WithEmitter(analytics.NewLogEmitter(logger.NewWithWriter(os.Stderr, "analytics")), appConfig.Analytics.MinQueryLen),
		engine.WithConfig(appConfig),
	)
	srv := server.NewServer(eng, appConfig)

	showStartupInfo(resolvedCatalog, cat.Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// loadConfig prefers -config, else the resolver's config path.
func loadConfig(pr *utils.PathResolver, custom string) (*config.Config, string) {
	if custom != "" {
		cfg, path, err := config.LoadConfigWithPriority(custom)
		if err != nil {
			log.Warnf("Failed to load config: %v. Using built-in defaults...", err)
			return config.DefaultConfig(), ""
		}
		return cfg, path
	}

	path, err := pr.GetConfigPath(config.FileName)
	if err != nil {
		log.Warnf("Failed to determine config path: (%v). Using built-in defaults...", err)
		return config.DefaultConfig(), ""
	}
	cfg, err := config.InitConfig(path)
	if err != nil {
		log.Warnf("Failed to load config: %v. Using built-in defaults...", err)
		return config.DefaultConfig(), ""
	}
	return cfg, path
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ catalogserve ] catalog search & classification")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(catalogPath string, items int) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("catalog: ( %s ), items: %d", catalogPath, items)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
