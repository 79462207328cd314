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
	"strings"

	"github.com/spf13/cobra"
)

var phoneticCmd = &cobra.Command{
	Use:   "phonetic <text...>",
	Short: "Look up the IPA transcription of English text",
	Long: `Look up the IPA transcription of English text in the dictionary service.
Texts longer than 10 words are not transcribed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ipa := newEnricher().Enrich(cmd.Context(), strings.Join(args, " "), true)
		if ipa == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "No transcription found.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "/%s/\n", ipa)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(phoneticCmd)
}
