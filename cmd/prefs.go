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
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/valpere/poptran/internal/store"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the remembered languages and provider",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			prefs, err := db.GetPreferences(cmd.Context(), defaultPreferences())
			if err != nil {
				return fmt.Errorf("failed to load preferences: %w", err)
			}
			printPreferences(cmd.OutOrStdout(), prefs)
			return nil
		})
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one preference (sourceLang, targetLang, translationService)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			if err := db.SetPreference(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to save preference: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		})
	},
}

var prefsSwapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Swap source and target languages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.Store) error {
			prefs, err := db.SwapLanguages(cmd.Context(), defaultPreferences())
			if errors.Is(err, store.ErrSwapAutoSource) {
				fmt.Fprintln(cmd.OutOrStdout(), "Source language is auto-detect, nothing to swap.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to swap languages: %w", err)
			}
			printPreferences(cmd.OutOrStdout(), prefs)
			return nil
		})
	},
}

func printPreferences(w io.Writer, p store.Preferences) {
	fmt.Fprintf(w, "%-20s %s\n", store.KeySourceLang, p.SourceLang)
	fmt.Fprintf(w, "%-20s %s\n", store.KeyTargetLang, p.TargetLang)
	fmt.Fprintf(w, "%-20s %s\n", store.KeyTranslationService, p.Service)
}

func init() {
	rootCmd.AddCommand(prefsCmd)

	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd, prefsSwapCmd)
}
