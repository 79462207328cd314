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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/poptran/internal"
	"github.com/valpere/poptran/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent translation requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		var records []internal.TranslationRequest
		err := withStore(func(db *store.Store) (err error) {
			records, err = db.ListHistory(cmd.Context(), historyLimit)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No translation history.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tSOURCE\tTARGET\tPROVIDER\tSERVED BY\tTEXT\tRESULT")
		for _, r := range records {
			outcome := snippet(r.Translation)
			if r.Error != "" {
				outcome = "error: " + snippet(r.Error)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Timestamp.Format("2006-01-02 15:04"), r.SourceLang, r.TargetLang,
				r.Provider, r.ServedBy, snippet(r.SourceText), outcome)
		}
		return w.Flush()
	},
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show (0 for all)")
}
