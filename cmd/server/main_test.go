package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/soaringjerry/Persona/internal/bank"
	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/services"
	"github.com/soaringjerry/Persona/internal/store"
)

func answersJSON(n int, c models.AnswerChoice) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = `"` + string(c) + `"`
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestImportLegacy(t *testing.T) {
	ctx := context.Background()
	engine := services.NewScoringEngine(bank.Default())
	backend := store.NewMemoryBackend()
	gw := store.NewGateway(backend, nil)
	core, logs := observer.New(zap.WarnLevel)

	n := engine.Bank().Len()
	dump := `[
		{"timestamp": 1700000000000, "testAnswers": ` + answersJSON(n, models.ChoiceA) + `},
		{"timestamp": 1700000001000, "testAnswers": ["A", "B"], "testScores": ["E", "I"]},
		{"timestamp": 1700000002000, "testAnswers": ["A"]},
		{"timestamp": 0, "testAnswers": [], "testScores": []}
	]`
	got, err := importLegacy(ctx, strings.NewReader(dump), engine, gw, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, logs.Len())

	full := gw.Get(ctx, 1700000000000)
	require.True(t, full.Success)
	require.NotNil(t, full.Data)
	want, err := engine.ScoreAnswers(full.Data.Answers)
	require.NoError(t, err)
	assert.Equal(t, want, full.Data.TraitLetters)
	assert.Equal(t, models.CurrentSchemaVersion, full.Data.SchemaVersion)

	kept := gw.Get(ctx, 1700000001000)
	require.True(t, kept.Success)
	require.NotNil(t, kept.Data)
	assert.Equal(t, []models.TraitLetter{"E", "I"}, kept.Data.TraitLetters)
}

func TestImportLegacyRejectsBadJSON(t *testing.T) {
	_, err := importLegacy(context.Background(), strings.NewReader("{"),
		services.NewScoringEngine(bank.Default()), store.NewGateway(store.NewMemoryBackend(), nil), zap.NewNop())
	assert.Error(t, err)
}

func TestUpgradeStored(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	legacy := models.TestResult{Timestamp: 10, Answers: []models.AnswerChoice{"A"}, TraitLetters: []models.TraitLetter{"E"}}
	current := models.TestResult{SchemaVersion: 1, Timestamp: 20, Answers: []models.AnswerChoice{"B"}, TraitLetters: []models.TraitLetter{"I"}}
	require.NoError(t, backend.Put(ctx, legacy))
	require.NoError(t, backend.Put(ctx, current))

	n, err := upgradeStored(ctx, backend, store.NewGateway(backend, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	r, ok, err := backend.Get(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.CurrentSchemaVersion, r.SchemaVersion)

	n, err = upgradeStored(ctx, backend, store.NewGateway(backend, nil))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTypeColorCoversTemperaments(t *testing.T) {
	for _, pt := range models.AllPersonalityTypes() {
		s := string(pt)
		var key string
		if s[1] == 'S' {
			key = s[1:2] + s[3:4]
		} else {
			key = s[1:3]
		}
		assert.Same(t, temperament[key], typeColor(pt), s)
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Contains(t, buf.String(), "no results stored")

	buf.Reset()
	printHistory(&buf, []services.HistoryEntry{{
		Timestamp:   1700000000000,
		SubmittedAt: time.UnixMilli(1700000000000).UTC(),
		Type:        "INTJ",
		Answered:    70,
	}})
	out := buf.String()
	assert.Contains(t, out, "1700000000000")
	assert.Contains(t, out, "INTJ")
	assert.Contains(t, out, "1 result(s)")
}

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		configPath, verbose = "", false
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestHashPasswordCommand(t *testing.T) {
	h := strings.TrimSpace(execute(t, "", "hash-password", "s3cret"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("s3cret")))

	h = strings.TrimSpace(execute(t, "from-stdin\n", "hash-password"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("from-stdin")))
}

func TestMigrateThenListAndExport(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "persona.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
storage:
  driver: bolt
  path: `+filepath.Join(dir, "persona.db")+`
logging:
  level: error
`), 0o644))

	n := bank.Default().Len()
	dumpPath := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(dumpPath, []byte(`[{"timestamp": 1700000000000, "testAnswers": `+answersJSON(n, models.ChoiceB)+`}]`), 0o644))

	out := execute(t, "", "migrate", "--config", cfgPath, "--import", dumpPath)
	assert.Contains(t, out, "upgraded 0 record(s)")

	out = execute(t, "", "results", "--config", cfgPath)
	assert.Contains(t, out, "1700000000000")
	assert.Contains(t, out, "1 result(s)")

	csvPath := filepath.Join(dir, "out.csv")
	execute(t, "", "export", "--config", cfgPath, "--format", "long", "--out", csvPath)
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "timestamp,question_no,answer,trait_letter", lines[0])
	assert.Len(t, lines, n+1)
}
