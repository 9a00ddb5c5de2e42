// Command formz renders schema-driven tables and validates form values from
// files. It is a thin demo shell over the formz, table and bridge packages.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/formz"
	"github.com/zoobzio/formz/bridge"
)

var verbose bool

func main() {
	loadEnv()

	rootCmd := &cobra.Command{
		Use:   "formz",
		Short: "Schema-driven table and form state tools",
		Long: `formz drives the formz state core from the command line.

Commands:
  formz table      Render rows through a column schema
  formz validate   Validate a values file against required fields

Environment Variables:
  FORMZ_VERBOSE    Log lifecycle signals to stderr (true/false)
  FORMZ_TIMEOUT    Validator timeout (default: 2s)

Variables are also read from ./.env and ~/.formz.env when present.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				hookSignals()
			}
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if verbose {
				capitan.Shutdown()
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", getEnv("FORMZ_VERBOSE", "") == "true", "Log lifecycle signals")

	rootCmd.AddCommand(newTableCmd(), newValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv reads optional .env files. Variables already set win.
func loadEnv() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}
	if home, err := os.UserHomeDir(); err == nil {
		_ = godotenv.Load(filepath.Join(home, ".formz.env"))
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return d
	}
	return fallback
}

// signalContext is canceled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// codecFor picks a codec from the file extension.
func codecFor(path string) formz.Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formz.YAMLCodec{}
	default:
		return formz.JSONCodec{}
	}
}

func hookSignals() {
	capitan.Hook(formz.StorePhaseChanged, func(_ context.Context, e *capitan.Event) {
		oldPhase, _ := formz.KeyOldPhase.From(e)
		newPhase, _ := formz.KeyNewPhase.From(e)
		log.Printf("[PHASE] %s -> %s", oldPhase, newPhase)
	})
	capitan.Hook(formz.ValidationStarted, func(_ context.Context, e *capitan.Event) {
		id, _ := formz.KeyStoreID.From(e)
		log.Printf("[VALIDATING] store=%s", id)
	})
	capitan.Hook(formz.ValidationSucceeded, func(_ context.Context, e *capitan.Event) {
		count, _ := formz.KeyErrorCount.From(e)
		elapsed, _ := formz.KeyDuration.From(e)
		log.Printf("[VALIDATED] errors=%d took=%s", count, elapsed)
	})
	capitan.Hook(formz.ValidationFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := formz.KeyError.From(e)
		log.Printf("[VALIDATOR FAILED] %s", msg)
	})
	capitan.Hook(bridge.BridgeReloading, func(_ context.Context, e *capitan.Event) {
		gen, _ := bridge.KeyGeneration.From(e)
		log.Printf("[LOADING] generation=%d", gen)
	})
	capitan.Hook(bridge.BridgeLoaded, func(_ context.Context, e *capitan.Event) {
		gen, _ := bridge.KeyGeneration.From(e)
		log.Printf("[LOADED] generation=%d", gen)
	})
	capitan.Hook(bridge.BridgeFailed, func(_ context.Context, e *capitan.Event) {
		msg, _ := formz.KeyError.From(e)
		log.Printf("[LOAD FAILED] %s", msg)
	})
}
