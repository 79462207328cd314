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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/poptran/internal"
	"github.com/valpere/poptran/internal/store"
	"github.com/valpere/poptran/internal/translator"
)

// failureNotice is the only failure users see; details go to the debug log.
const failureNotice = "Translation failed. Please check your internet connection or try another service."

// errTranslationFailed is returned after failureNotice has been printed.
var errTranslationFailed = errors.New("translation failed")

var (
	inputFile  string
	sourceLang string
	targetLang string
	provider   string
	jsonOutput bool
	noCache    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text with the selected provider",
	Long: `Translate text with one provider. When the provider fails the request falls
back along a fixed chain:

  google          google
  gemini          gemini -> google
  libretranslate  mirror 1 -> mirror 2 -> mirror 3 -> google
  mymemory        mymemory
  googlecloud     googlecloud -> google

Text comes from the arguments, from --input, or from stdin. Languages and
provider default to the last selection; explicit flags are remembered.
English text gets a phonetic transcription when the provider has none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := readText(cmd, args)
		if err != nil {
			return err
		}

		db, err := openStore()
		if err != nil {
			logger.Warn("continuing without database", zap.Error(err))
		} else {
			defer db.Close()
		}

		prefs := defaultPreferences()
		if db != nil {
			if prefs, err = db.GetPreferences(ctx, prefs); err != nil {
				logger.Warn("failed to load preferences", zap.Error(err))
				prefs = defaultPreferences()
			}
		}

		var selected store.Preferences
		if cmd.Flags().Changed("source") {
			prefs.SourceLang, selected.SourceLang = sourceLang, sourceLang
		}
		if cmd.Flags().Changed("target") {
			prefs.TargetLang, selected.TargetLang = targetLang, targetLang
		}
		if cmd.Flags().Changed("provider") {
			prefs.Service, selected.Service = provider, provider
		}
		if db != nil {
			if err := db.SavePreferences(ctx, selected); err != nil {
				logger.Warn("failed to save preferences", zap.Error(err))
			}
		}

		providerName := translator.ResolveProvider(prefs.Service)

		if db != nil && !noCache {
			cached, found, err := db.GetCachedResult(ctx, text, prefs.SourceLang, prefs.TargetLang, providerName)
			if err != nil {
				logger.Warn("translation memory lookup failed", zap.Error(err))
			} else if found {
				logger.Debug("using cached translation", zap.String("provider", providerName))
				return render(cmd.OutOrStdout(), cached)
			}
		}

		a, err := buildAdapter(providerName)
		if err != nil {
			return err
		}

		res, err := a.Translate(ctx, text, prefs.SourceLang, prefs.TargetLang, providerName)

		if db != nil {
			record := internal.TranslationRequest{
				ID:         uuid.New().String(),
				SourceText: text,
				SourceLang: prefs.SourceLang,
				TargetLang: prefs.TargetLang,
				Provider:   providerName,
				Timestamp:  time.Now(),
			}
			if err != nil {
				record.Error = err.Error()
			} else {
				record.ServedBy = res.ServiceName
				record.Translation = res.Translation
			}
			if saveErr := db.SaveRequest(ctx, record); saveErr != nil {
				logger.Warn("failed to save history", zap.Error(saveErr))
			}
		}

		if err != nil {
			logger.Debug("translation failed", zap.String("provider", providerName), zap.Error(err))
			fmt.Fprintln(cmd.ErrOrStderr(), failureNotice)
			return errTranslationFailed
		}

		if db != nil && !noCache {
			if err := db.SaveToMemory(ctx, text, prefs.SourceLang, prefs.TargetLang, providerName, res); err != nil {
				logger.Warn("failed to save translation memory", zap.Error(err))
			}
		}

		return render(cmd.OutOrStdout(), res)
	},
}

// readText takes the text from the arguments, the input file or stdin, in
// that order.
func readText(cmd *cobra.Command, args []string) (string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case inputFile != "":
		b, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		text = string(b)
	default:
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(b)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("nothing to translate")
	}
	return text, nil
}

func render(w io.Writer, res *translator.Result) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	if res.SourcePhonetic != "" {
		fmt.Fprintf(w, "/%s/\n", res.SourcePhonetic)
	}
	fmt.Fprintln(w, res.Translation)
	if res.TargetPhonetic != "" {
		fmt.Fprintf(w, "/%s/\n", res.TargetPhonetic)
	}
	if res.DetectedLanguage != "" {
		fmt.Fprintf(w, "[%s, detected: %s]\n", res.ServiceName, translator.LanguageName(res.DetectedLanguage))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read text to translate from a file")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", translator.AutoDetect, "Source language code (auto to detect)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code")
	translateCmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider: "+strings.Join(translator.Providers(), ", "))
	translateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the translation memory")
}
