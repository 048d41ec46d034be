package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/taskstore/internal/cliconfig"
	"github.com/bft-labs/taskstore/pkg/log"
	"github.com/bft-labs/taskstore/pkg/persist"
	"github.com/bft-labs/taskstore/pkg/result"
	"github.com/bft-labs/taskstore/pkg/store"
	"github.com/bft-labs/taskstore/plugins/snapshotwatcher"
)

const longHelp = `
Manage a persisted task list from the command line.

Highlights:
  - Every mutation goes through the taskstore library's action layer; the
    CLI only renders the Results it gets back.
  - State survives restarts via a JSON snapshot or an embedded Badger
    database; configure via file, env, or flags.
  - 'watch' keeps running and prints state as it changes, including
    external edits to the snapshot file.
`

var exampleUsage = strings.TrimSpace(`
  taskstore add "Buy milk"
  taskstore list --all
  taskstore done 1
  taskstore --backend badger --data-dir /tmp/tasks add "Try badger"
  taskstore watch
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var logger log.Logger = log.NewNoopLogger()

	root := &cobra.Command{
		Use:           "taskstore",
		Short:         "Manage a persisted task list from the command line",
		Long:          strings.TrimSpace(longHelp),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Precedence: flags > env > file > defaults.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger = cliconfig.Logger(cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $HOME/.taskstore/config.toml)")
	root.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for persisted snapshots")
	root.PersistentFlags().StringVar(&cfg.Backend, "backend", cfg.Backend, "persistence backend: file or badger")
	root.PersistentFlags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "batch snapshot writes over this interval (0 = write on every commit)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&cfg.UseUUIDs, "uuids", cfg.UseUUIDs, "mint UUID task ids instead of sequential numbers")
	root.PersistentFlags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload when the snapshot file changes externally (file backend)")

	root.AddCommand(
		addCmd(&cfg, &logger),
		listCmd(&cfg, &logger),
		doneCmd(&cfg, &logger),
		rmCmd(&cfg, &logger),
		pickCmd(&cfg, &logger),
		watchCmd(&cfg, &logger),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// withStore opens the configured store, runs fn, and tears everything down.
func withStore(cfg *cliconfig.Config, logger *log.Logger, extra []store.Option, fn func(ctx context.Context, st *store.Store) error) error {
	ctx := context.Background()

	var (
		repo   persist.Repository
		closer func() error
	)
	switch cfg.Backend {
	case cliconfig.BackendBadger:
		br, err := persist.NewBadgerRepository(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open badger: %w", err)
		}
		repo = br
		closer = br.Close
	default:
		fr := persist.NewFileRepository(cfg.DataDir)
		repo = fr
		if cfg.Watch {
			extra = append(extra,
				snapshotwatcher.WithSnapshotWatcher(snapshotwatcher.DefaultConfig(fr.Path())))
		}
	}

	opts := []store.Option{
		store.WithLogger(*logger),
		store.WithRepository(repo),
	}
	if cfg.Debounce > 0 {
		opts = append(opts, store.WithDebounce(cfg.Debounce))
	}
	if cfg.UseUUIDs {
		opts = append(opts, store.WithUUIDs())
	}
	opts = append(opts, extra...)

	st, err := store.New(opts...)
	if err != nil {
		return err
	}
	if err := st.Start(ctx); err != nil {
		return err
	}

	runErr := fn(ctx, st)

	if err := st.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if closer != nil {
		if err := closer(); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}

// renderErr converts a failed Result into a CLI error. Surfacing domain
// failures to the user is the presentation layer's job, not the store's.
func renderErr[T any](res result.Result[T]) error {
	if res.Code != "" {
		return fmt.Errorf("%s (%s)", res.Message, res.Code)
	}
	return fmt.Errorf("%s", res.Message)
}

func addCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, logger, nil, func(ctx context.Context, st *store.Store) error {
				res := st.Create(ctx, store.CreatePayload{Name: args[0]})
				if !res.OK() {
					return renderErr(res)
				}
				fmt.Printf("created %s  %s\n", res.Data.ID, res.Data.Name)
				return nil
			})
		},
	}
}

func listCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, logger, nil, func(ctx context.Context, st *store.Store) error {
				snap := st.State()
				tasks := snap.Tasks
				if !all {
					tasks = store.Active(snap)
				}
				if len(tasks) == 0 {
					fmt.Println("no tasks")
					return nil
				}
				for _, t := range tasks {
					printTask(t, snap.SelectedID)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include completed tasks")
	return cmd
}

func doneCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task's completion flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, logger, nil, func(ctx context.Context, st *store.Store) error {
				res := st.ToggleCompleted(ctx, args[0])
				if !res.OK() {
					return renderErr(res)
				}
				printTask(res.Data, "")
				return nil
			})
		},
	}
}

func rmCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, logger, nil, func(ctx context.Context, st *store.Store) error {
				res := st.Delete(ctx, args[0])
				if !res.OK() {
					return renderErr(res)
				}
				fmt.Printf("deleted %s  %s\n", res.Data.ID, res.Data.Name)
				return nil
			})
		},
	}
}

func pickCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "pick <id>",
		Short: "Select a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cfg, logger, nil, func(ctx context.Context, st *store.Store) error {
				res := st.SelectTask(ctx, args[0])
				if !res.OK() {
					return renderErr(res)
				}
				fmt.Printf("selected %s  %s\n", res.Data.ID, res.Data.Name)
				return nil
			})
		},
	}
}

func watchCmd(cfg *cliconfig.Config, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run until interrupted, printing state as it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Backend != cliconfig.BackendFile {
				return fmt.Errorf("watch requires the file backend")
			}
			cfg.Watch = true
			path := persist.NewFileRepository(cfg.DataDir).Path()
			return withStore(cfg, logger, nil, func(ctx context.Context, st *store.Store) error {
				unsubscribe := st.Subscribe(func(snap store.Snapshot) {
					fmt.Printf("-- version %d, %d task(s) --\n", snap.Version, snap.Len())
					for _, t := range snap.Tasks {
						printTask(t, snap.SelectedID)
					}
				})
				defer unsubscribe()

				snap := st.State()
				fmt.Printf("watching %s (%d task(s), ctrl-c to stop)\n", path, snap.Len())
				for _, t := range snap.Tasks {
					printTask(t, snap.SelectedID)
				}

				sig := make(chan os.Signal, 1)
				signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
				<-sig
				return nil
			})
		},
	}
}

func printTask(t store.Task, selectedID string) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	suffix := ""
	if t.ID == selectedID {
		suffix = "  *"
	}
	fmt.Printf("[%s] %-4s %s%s\n", mark, t.ID, t.Name, suffix)
}
