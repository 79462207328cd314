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
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/poptran/internal/adapter"
	"github.com/valpere/poptran/internal/detector"
	"github.com/valpere/poptran/internal/phonetic"
	"github.com/valpere/poptran/internal/store"
	"github.com/valpere/poptran/internal/translator"
)

// serviceConfig reads the provider settings stored under section.
func serviceConfig(section string) translator.ServiceConfig {
	return translator.ServiceConfig{
		Credentials: viper.GetString(section + ".credentials"),
		APIKey:      viper.GetString(section + ".api_key"),
		Model:       viper.GetString(section + ".model"),
		BaseURL:     viper.GetString(section + ".base_url"),
		Email:       viper.GetString(section + ".email"),
		Timeout:     viper.GetDuration("timeout"),
	}
}

func newEnricher() *phonetic.Enricher {
	return phonetic.New(phonetic.Config{
		BaseURL: viper.GetString("dictionary.base_url"),
		Timeout: viper.GetDuration("timeout"),
	}, logger)
}

// buildAdapter constructs every provider from configuration. The local
// language detector is only built for Gemini, the one provider that needs it.
func buildAdapter(provider string) (*adapter.Adapter, error) {
	var langDetector translator.LanguageDetector
	if translator.ResolveProvider(provider) == translator.ProviderGemini {
		det, err := detector.New(viper.GetString("detector"))
		if err != nil {
			return nil, err
		}
		if det != nil {
			langDetector = det
			logger.Debug("language detector ready", zap.String("backend", det.Backend()))
		}
	}

	services := adapter.Services{
		Google:         translator.NewGoogleService(serviceConfig("google")),
		Gemini:         translator.NewGeminiService(serviceConfig("gemini"), langDetector),
		LibreTranslate: translator.NewLibreTranslateMirrors(viper.GetStringSlice("libretranslate.mirrors"), serviceConfig("libretranslate")),
		MyMemory:       translator.NewMyMemoryService(serviceConfig("mymemory")),
		GoogleCloud:    translator.NewGoogleCloudService(serviceConfig("googlecloud")),
	}

	return adapter.New(services, newEnricher(), logger), nil
}

// openStore opens the SQLite database, creating its directory if needed.
func openStore() (*store.Store, error) {
	dbPath := viper.GetString("db")
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func defaultPreferences() store.Preferences {
	return store.Preferences{
		SourceLang: viper.GetString("source_lang"),
		TargetLang: viper.GetString("target_lang"),
		Service:    viper.GetString("provider"),
	}
}

// withStore opens the database for the duration of fn.
func withStore(fn func(db *store.Store) error) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
