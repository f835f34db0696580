package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/parley-im/parley/internal/config"
	"github.com/parley-im/parley/internal/domain"
	"github.com/parley-im/parley/internal/log"
	"github.com/parley-im/parley/internal/store"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("parleyctl %s\n", Version)
		return
	}

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.Setup(&cfg.Logging)
	if err != nil {
		// Fall back to a null logger if file logging fails
		logger = log.Null()
	}
	slog.SetDefault(logger)

	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "paths":
		return runPaths(cfg)
	case "config":
		return runConfig(cfg)
	case "scope":
		return runScope(args[1:])
	case "selection":
		return runSelection(cfg, args[1:])
	case "selections":
		return runSelections(cfg)
	case "clear-selection":
		return runClearSelection(cfg, args[1:])
	case "wipe":
		return runWipe(cfg, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Println("parleyctl - maintenance tool for parley local state")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  parleyctl paths                       print config and data locations")
	fmt.Println("  parleyctl config                      print the effective configuration")
	fmt.Println("  parleyctl scope [address]             print the cache scope for an address")
	fmt.Println("  parleyctl selection [address]         show the persisted group selection")
	fmt.Println("  parleyctl selections                  list every persisted selection")
	fmt.Println("  parleyctl clear-selection [address]   remove the persisted selection")
	fmt.Println("  parleyctl clear-selection --all       remove every persisted selection")
	fmt.Println("  parleyctl wipe --yes                  delete all local data")
}

func runPaths(cfg *config.Config) error {
	fmt.Printf("config: %s\n", config.GetConfigPath())
	fmt.Printf("data:   %s\n", cfg.GetDataPath())
	fmt.Printf("log:    %s\n", cfg.Logging.File)
	return nil
}

func runConfig(cfg *config.Config) error {
	fmt.Printf("relay.url:          %s\n", cfg.Relay.URL)
	fmt.Printf("chat.default_group: %s\n", cfg.Chat.DefaultGroup)
	fmt.Printf("chat.page_size:     %d\n", cfg.Chat.PageSize)
	fmt.Printf("storage.data_dir:   %s\n", cfg.Storage.DataDir)
	fmt.Printf("logging.file:       %s\n", cfg.Logging.File)
	fmt.Printf("logging.level:      %s\n", cfg.Logging.Level)
	return nil
}

func runScope(args []string) error {
	address := ""
	if len(args) > 0 {
		address = args[0]
	}
	fmt.Println(domain.ScopeID(address))
	return nil
}

func runSelection(cfg *config.Config, args []string) error {
	address := ""
	if len(args) > 0 {
		address = args[0]
	}
	scope := domain.ScopeID(address)

	kv, err := store.Open(cfg.GetDataPath())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()

	id, ok := kv.Get(domain.SelectionKey(scope))
	if !ok {
		fmt.Printf("no selection persisted for scope %s\n", scope)
		return nil
	}
	fmt.Printf("scope %s: group %s\n", scope, id)
	return nil
}

func runSelections(cfg *config.Config) error {
	kv, err := store.Open(cfg.GetDataPath())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()

	keys, err := kv.Keys(domain.SelectionKey(""))
	if err != nil {
		return fmt.Errorf("failed to list selections: %w", err)
	}
	if len(keys) == 0 {
		fmt.Println("no selections persisted")
		return nil
	}
	for _, key := range keys {
		if id, ok := kv.Get(key); ok {
			fmt.Printf("%s: group %s\n", key, id)
		}
	}
	return nil
}

func runClearSelection(cfg *config.Config, args []string) error {
	address := ""
	if len(args) > 0 {
		address = args[0]
	}

	kv, err := store.Open(cfg.GetDataPath())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()

	if address == "--all" {
		if err := kv.DeletePrefix(domain.SelectionKey("")); err != nil {
			return fmt.Errorf("failed to clear selections: %w", err)
		}
		fmt.Println("cleared all selections")
		return nil
	}

	scope := domain.ScopeID(address)
	if err := kv.Delete(domain.SelectionKey(scope)); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	fmt.Printf("cleared selection for scope %s\n", scope)
	return nil
}

func runWipe(cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] != "--yes" {
		return fmt.Errorf("wipe deletes %s; pass --yes to confirm", cfg.GetDataPath())
	}
	if err := cfg.ClearData(); err != nil {
		return fmt.Errorf("failed to wipe data: %w", err)
	}
	fmt.Println("local data wiped")
	return nil
}
