/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/poptran/internal/store"
)

var (
	cacheProvider string
	cacheLimit    int
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and prune the translation memory",
	Long: `Translations are remembered per text, language pair and provider and are
served again without a network call. Use these commands to inspect the
memory, mark single entries stale, or drop them.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered translations, most recently used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			entries, err := db.ListMemory(cmd.Context(), store.MemoryFilter{
				Provider: cacheProvider,
				Limit:    cacheLimit,
			})
			if err != nil {
				return fmt.Errorf("failed to list translation memory: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Translation memory is empty.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPAIR\tPROVIDER\tSERVED BY\tHITS\tLAST USED\tSTALE\tTEXT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s>%s\t%s\t%s\t%d\t%s\t%t\t%s\n",
					e.ID, e.SourceLang, e.TargetLang, e.Provider, e.ServiceUsed,
					e.UsageCount, e.LastUsed.Local().Format("2006-01-02 15:04"),
					e.Invalidated, snippet(e.SourceText))
			}
			return w.Flush()
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the translation memory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			stats, err := db.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read translation memory stats: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "entries\t%d\n", stats.TotalEntries)
			fmt.Fprintf(w, "active\t%d\n", stats.ActiveEntries)
			fmt.Fprintf(w, "stale\t%d\n", stats.InvalidEntries)
			fmt.Fprintf(w, "hits\t%d\n", stats.TotalUsage)

			providers := make([]string, 0, len(stats.ByProvider))
			for p := range stats.ByProvider {
				providers = append(providers, p)
			}
			sort.Strings(providers)
			for _, p := range providers {
				fmt.Fprintf(w, "  %s\t%d\n", p, stats.ByProvider[p])
			}
			return w.Flush()
		})
	},
}

// entryCommand builds a subcommand that applies op to one entry ID.
func entryCommand(use, short, done string, op func(cmd *cobra.Command, db *store.Store, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(db *store.Store) error {
				if err := op(cmd, db, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, args[0])
				return nil
			})
		},
	}
}

var cacheDeleteCmd = entryCommand("delete", "Drop one remembered translation", "Deleted",
	func(cmd *cobra.Command, db *store.Store, id string) error {
		return db.DeleteMemory(cmd.Context(), id)
	})

var cacheInvalidateCmd = entryCommand("invalidate", "Stop serving one remembered translation but keep it", "Invalidated",
	func(cmd *cobra.Command, db *store.Store, id string) error {
		return db.InvalidateMemory(cmd.Context(), id)
	})

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every remembered translation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			n, err := db.ClearMemory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear translation memory: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %d translations.\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheListCmd.Flags().StringVarP(&cacheProvider, "provider", "p", "", "Only show entries for this provider")
	cacheListCmd.Flags().IntVarP(&cacheLimit, "limit", "n", 0, "Show at most n entries (0 for all)")

	cacheCmd.AddCommand(cacheListCmd, cacheStatsCmd, cacheDeleteCmd, cacheInvalidateCmd, cacheClearCmd)
}
