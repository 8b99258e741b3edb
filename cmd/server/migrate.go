package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/services"
	"github.com/soaringjerry/Persona/internal/store"
)

var importPath string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import a legacy results dump and upgrade unversioned records",
	Long: `Bring stored results up to the current schema.

With --import, results exported by the browser-only app (a JSON array of
{timestamp, testAnswers, testScores}) are written to the configured store first.
Every stored record without a schema version is then rewritten as version 1.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := openRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		if importPath != "" {
			f, err := os.Open(importPath)
			if err != nil {
				return err
			}
			n, err := importLegacy(ctx, f, rt.results.Engine(), rt.gateway, rt.log)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("import %s: %w", importPath, err)
			}
			rt.log.Info("legacy results imported", zap.String("file", importPath), zap.Int("count", n))
		}

		n, err := upgradeStored(ctx, rt.backend, rt.gateway)
		if err != nil {
			return err
		}
		rt.log.Info("schema upgrade complete", zap.Int("upgraded", n))
		fmt.Fprintf(cmd.OutOrStdout(), "upgraded %d record(s)\n", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&importPath, "import", "", "Legacy JSON dump to import")
}

// legacyResult is the record shape kept by the browser-only app.
type legacyResult struct {
	Timestamp   int64                 `json:"timestamp"`
	TestAnswers []models.AnswerChoice `json:"testAnswers"`
	TestScores  []models.TraitLetter  `json:"testScores"`
}

// importLegacy saves every usable entry of a legacy dump. Entries whose scores
// are missing or do not line up with the answers are rescored. Entries that
// still fail validation are logged and skipped.
func importLegacy(ctx context.Context, r io.Reader, engine *services.ScoringEngine, gw *store.Gateway, log *zap.Logger) (int, error) {
	var dump []legacyResult
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return 0, fmt.Errorf("decode dump: %w", err)
	}
	imported := 0
	for _, lr := range dump {
		rec := models.TestResult{Timestamp: lr.Timestamp, Answers: lr.TestAnswers, TraitLetters: lr.TestScores}
		if len(rec.TraitLetters) != len(rec.Answers) {
			letters, err := engine.ScoreAnswers(rec.Answers)
			if err != nil {
				log.Warn("skipping legacy result", zap.Int64("timestamp", lr.Timestamp), zap.Error(err))
				continue
			}
			rec.TraitLetters = letters
		}
		out := gw.Save(ctx, rec)
		if !out.Success {
			if errors.Is(out.Err, store.ErrInvalidRecord) {
				log.Warn("skipping legacy result", zap.Int64("timestamp", lr.Timestamp), zap.Error(out.Err))
				continue
			}
			return imported, out.Err
		}
		imported++
	}
	return imported, nil
}

// upgradeStored rewrites version 0 records through the gateway, which stamps
// the current version.
func upgradeStored(ctx context.Context, backend store.Backend, gw *store.Gateway) (int, error) {
	rs, err := backend.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored results: %w", err)
	}
	n := 0
	for _, r := range rs {
		if r.SchemaVersion != 0 {
			continue
		}
		if out := gw.Save(ctx, r); !out.Success {
			return n, fmt.Errorf("upgrade %d: %w", r.Timestamp, out.Err)
		}
		n++
	}
	return n, nil
}
