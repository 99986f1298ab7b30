// mcp-codebase-browser is an MCP server exposing browse, search, edit and
// backup tools over a directory of source files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvanek/mcp-codebase-browser/internal/backup"
	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
	"github.com/mvanek/mcp-codebase-browser/internal/config"
	"github.com/mvanek/mcp-codebase-browser/internal/mcp"
	"github.com/mvanek/mcp-codebase-browser/internal/search"
)

var (
	version   = "0.1.0"
	cfgFile   string
	logLevel  string
	logFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mcp-codebase-browser",
	Short: "MCP server for browsing, searching and editing a codebase",
	Long: `mcp-codebase-browser is an MCP server that exposes a directory of
source files to MCP clients: file listing and CRUD, line-oriented
editing, text search with heuristic code-block context, named backup
snapshots and a staging area for assembling large files across calls.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mcp-codebase-browser %s\n", version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server",
	Run: func(cmd *cobra.Command, args []string) {
		stdio, _ := cmd.Flags().GetBool("stdio")
		watch, _ := cmd.Flags().GetBool("watch")
		runServe(stdio, watch)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the codebase",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern, _ := cmd.Flags().GetString("pattern")
		limit, _ := cmd.Flags().GetInt("limit")
		runSearch(args[0], pattern, limit)
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show a project overview",
	Run: func(cmd *cobra.Command, args []string) {
		runOverview()
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runConfigInit()
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runConfigValidate()
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot management",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a named snapshot of the codebase",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		note, _ := cmd.Flags().GetString("note")
		runBackupCreate(args[0], note)
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots",
	Run: func(cmd *cobra.Command, args []string) {
		runBackupList()
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a snapshot over the codebase",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBackupRestore(args[0])
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBackupDelete(args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default .mcp-codebase-browser/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	serveCmd.Flags().Bool("stdio", false, "use stdio transport (for MCP)")
	serveCmd.Flags().Bool("watch", true, "watch the codebase for external changes")

	searchCmd.Flags().StringP("pattern", "p", "", "comma-separated glob patterns")
	searchCmd.Flags().IntP("limit", "l", 20, "maximum results")

	backupCreateCmd.Flags().StringP("note", "n", "", "note stored with the snapshot")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(backupCmd)
}

func setupLogging() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// openProject loads config and opens the codebase store for the current
// directory.
func openProject() (string, *config.Config, *codebase.Store) {
	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("cannot determine working directory", "error", err)
		os.Exit(1)
	}

	configPath := config.ConfigPath(cwd)
	if cfgFile != "" {
		configPath = cfgFile
	}

	cfg, warnings, err := config.LoadFile(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	store, err := codebase.NewStore(config.CodebaseRoot(cwd, cfg), cfg.Codebase.CreateIfMissing)
	if err != nil {
		slog.Error("failed to open codebase", "error", err)
		os.Exit(1)
	}

	return cwd, cfg, store
}

func openBackups(projectRoot string, cfg *config.Config, store *codebase.Store) *backup.Manager {
	backups, err := backup.NewManager(store, config.BackupDir(projectRoot, cfg), config.CatalogDBPath(projectRoot))
	if err != nil {
		slog.Error("failed to open backup catalog", "error", err)
		os.Exit(1)
	}
	return backups
}

func runServe(stdio, watch bool) {
	cwd, cfg, store := openProject()
	slog.Info("starting MCP server", "stdio", stdio, "codebase", store.Root())

	backups := openBackups(cwd, cfg, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		if err := backups.Close(); err != nil {
			slog.Warn("failed to close backup catalog", "error", err)
		}
		slog.Info("shutdown complete")
		os.Exit(0)
	}()

	defer func() {
		signal.Stop(sigChan)
		backups.Close()
	}()

	if watch {
		watcher, err := codebase.NewWatcher(store, 500*time.Millisecond)
		if err != nil {
			slog.Warn("failed to create file watcher, overview cache may go stale", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx); err != nil {
					slog.Warn("file watcher stopped", "error", err)
				}
			}()
		}
	}

	server, err := mcp.New(mcp.Config{
		Config:  cfg,
		Store:   store,
		Backups: backups,
	})
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if stdio {
		slog.Info("MCP server running (press Ctrl+C to stop)")
		if err := server.ServeStdio(); err != nil {
			if ctx.Err() != nil {
				slog.Info("server stopped")
			} else {
				slog.Error("server error", "error", err)
				os.Exit(1)
			}
		}
	} else {
		fmt.Println("Only the stdio transport is implemented. Use --stdio for MCP.")
		os.Exit(1)
	}
}

func runSearch(term, pattern string, limit int) {
	_, cfg, store := openProject()

	searcher := search.New(store, cfg)
	result, err := searcher.Search(context.Background(), term, search.Options{
		Pattern:    pattern,
		MaxResults: limit,
	})
	if err != nil {
		slog.Error("search failed", "error", err)
		os.Exit(1)
	}

	if result.TotalMatches == 0 {
		fmt.Println("No results found")
		return
	}

	for _, fr := range result.Results {
		for _, m := range fr.Matches {
			fmt.Printf("\n=== %s:%d ===\n", fr.File, m.LineNumber)
			if len(m.Block) == 0 {
				fmt.Printf("%4d  %s\n", m.LineNumber, m.Content)
				continue
			}
			for i, line := range m.Block {
				fmt.Printf("%4d  %s\n", m.BlockStart+i, line)
			}
		}
	}
	if result.Truncated {
		fmt.Println("\n(results truncated)")
	}
}

func runOverview() {
	_, _, store := openProject()

	overview, err := store.Overview()
	if err != nil {
		slog.Error("failed to build overview", "error", err)
		os.Exit(1)
	}

	output, _ := json.MarshalIndent(overview, "", "  ")
	fmt.Println(string(output))
}

func runConfigInit() {
	cwd, _ := os.Getwd()
	cfg := config.DefaultConfig()

	if err := config.Save(cwd, cfg); err != nil {
		slog.Error("failed to save config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Created config at %s\n", config.ConfigPath(cwd))
}

func runConfigValidate() {
	cwd, _ := os.Getwd()

	configPath := config.ConfigPath(cwd)
	if cfgFile != "" {
		configPath = cfgFile
	}

	cfg, warnings, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	errs := config.Validate(cfg)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("Error: %v\n", e)
		}
		os.Exit(1)
	}

	fmt.Println("Configuration is valid")
	fmt.Printf("Codebase root: %s\n", config.CodebaseRoot(cwd, cfg))
	fmt.Printf("Backup dir:    %s\n", config.BackupDir(cwd, cfg))
}

func runBackupCreate(name, note string) {
	cwd, cfg, store := openProject()
	backups := openBackups(cwd, cfg, store)
	defer backups.Close()

	snap, err := backups.Create(name, note)
	if err != nil {
		slog.Error("failed to create backup", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Created snapshot %s: %d files, %d bytes\n", snap.Name, snap.FileCount, snap.SizeBytes)
}

func runBackupList() {
	cwd, cfg, store := openProject()
	backups := openBackups(cwd, cfg, store)
	defer backups.Close()

	snapshots, err := backups.List()
	if err != nil {
		slog.Error("failed to list backups", "error", err)
		os.Exit(1)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots")
		return
	}

	for _, s := range snapshots {
		fmt.Printf("%-20s %s  %6d files  %10d bytes", s.Name, s.CreatedAt.Format("2006-01-02 15:04:05"), s.FileCount, s.SizeBytes)
		if s.Note != "" {
			fmt.Printf("  %s", s.Note)
		}
		fmt.Println()
	}
}

func runBackupRestore(name string) {
	cwd, cfg, store := openProject()
	backups := openBackups(cwd, cfg, store)
	defer backups.Close()

	snap, err := backups.Restore(name)
	if err != nil {
		slog.Error("failed to restore backup", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Restored snapshot %s (%d files)\n", snap.Name, snap.FileCount)
}

func runBackupDelete(name string) {
	cwd, cfg, store := openProject()
	backups := openBackups(cwd, cfg, store)
	defer backups.Close()

	if err := backups.Delete(name); err != nil {
		slog.Error("failed to delete backup", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Deleted snapshot %s\n", name)
}
