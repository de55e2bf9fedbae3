package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"augur/internal/api"
	"augur/internal/cache"
	"augur/internal/config"
	"augur/internal/export"
	"augur/internal/prefs"
	"augur/internal/session"
	"augur/internal/tui"
	"augur/internal/util"
)

const version = "0.1.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "augur",
	Short: "Terminal dashboard for the stock-prediction platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		// The TUI owns stdout; logs go to the rotating file.
		log := util.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
		util.SetDefault(log)

		store, err := openPrefs()
		if err != nil {
			return err
		}

		client, err := api.NewClient(cfg.Server.BaseURL, store.AdminSecret(), log)
		if err != nil {
			return err
		}

		var snapshots *cache.Store
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.CachePath), 0o755); err == nil {
			snapshots, err = cache.Open(cfg.Storage.CachePath)
			if err != nil {
				log.Warn("opening snapshot cache, offline fallback disabled", "error", err)
			}
		}
		if snapshots != nil {
			defer snapshots.Close()
		}

		m := tui.New(tui.Options{
			Client:  client,
			Session: session.NewManager(client, log),
			Prefs:   store,
			Cache:   snapshots,
			Log:     log,
			Refresh: time.Duration(cfg.UI.RefreshSeconds) * time.Second,
		})

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err = p.Run()
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached snapshots to parquet files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		log := util.NewLogger(cfg.Logging.Level)

		days, _ := cmd.Flags().GetInt("days")
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Storage.ExportDir
		}

		snapshots, err := cache.Open(cfg.Storage.CachePath)
		if err != nil {
			return fmt.Errorf("opening snapshot cache: %w", err)
		}
		defer snapshots.Close()

		exp := &export.Exporter{Cache: snapshots, OutDir: outDir, Log: log}
		counts, err := exp.Run(context.Background(), time.Now().AddDate(0, 0, -days))
		if err != nil {
			return err
		}

		sections := make([]string, 0, len(counts))
		for s := range counts {
			sections = append(sections, s)
		}
		sort.Strings(sections)
		for _, s := range sections {
			fmt.Printf("%s: %d rows\n", s, counts[s])
		}
		return nil
	},
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the stored admin secret",
}

var secretSetCmd = &cobra.Command{
	Use:   "set <secret>",
	Short: "Store the admin secret in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		if err := store.SetAdminSecret(args[0]); err != nil {
			return err
		}
		fmt.Println("admin secret stored")
		return nil
	},
}

var secretClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored admin secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openPrefs()
		if err != nil {
			return err
		}
		if err := store.ClearAdminSecret(); err != nil {
			return err
		}
		fmt.Println("admin secret removed")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the augur version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("augur %s\n", version)
	},
}

func openPrefs() (*prefs.Store, error) {
	path, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return prefs.NewStore(path), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
	exportCmd.Flags().Int("days", 7, "export snapshots from the last N days")
	exportCmd.Flags().String("out", "", "output directory (defaults to storage.export_dir)")
	secretCmd.AddCommand(secretSetCmd, secretClearCmd)
	rootCmd.AddCommand(exportCmd, secretCmd, versionCmd)
}

func main() {
	// Local overrides for development; missing .env is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
