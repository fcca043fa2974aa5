package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/soaringjerry/kuesioner/internal/services"
)

const surveyCSV = "Responden,Q1,Q2\nR1,SS,S\nR2,S,S\nR3,CTS,STS\n"

func setup(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"KUESIONER_DATA", "KUESIONER_SHEET", "KUESIONER_DB_PATH", "KUESIONER_MIGRATIONS_DIR", "KUESIONER_LOG_LEVEL",
		"KUESIONER_QUESTIONS", "KUESIONER_JWT_SECRET", "KUESIONER_ADMIN_PASSWORD_HASH", "KUESIONER_TOKEN_TTL"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(surveyCSV), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func TestRootReadsQueryFromStdin(t *testing.T) {
	data := setup(t)
	out, err := runCLI(t, "Q10\n", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "4.17\n", out)

	out, err = runCLI(t, "q13", "--data", data)
	require.NoError(t, err)
	assert.Equal(t, "positif=4:66.7|netral=0:0.0|negatif=2:33.3\n", out)
}

func TestUnknownQueryFails(t *testing.T) {
	data := setup(t)
	out, err := runCLI(t, "q14\n", "--data", data)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, services.IsCode(err, services.ErrorUnknownQuery))
}

func TestMissingDataFileFails(t *testing.T) {
	setup(t)
	_, err := runCLI(t, "q1\n", "--data", filepath.Join(t.TempDir(), "data_kuesioner.xlsx"))
	require.Error(t, err)
	assert.True(t, services.IsCode(err, services.ErrorLoad))
}

func TestQuerySubcommandAndHistory(t *testing.T) {
	data := setup(t)
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := runCLI(t, "", "query", "q3", "--data", data, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Q1|1|33.3\n", out)

	_, err = runCLI(t, "", "query", "nope", "--data", data, "--db", db)
	require.Error(t, err)

	out, err = runCLI(t, "", "history", "--db", db, "--data", data)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "q3")
	assert.Contains(t, lines[0], "Q1|1|33.3")
}

func TestHistoryRequiresDB(t *testing.T) {
	data := setup(t)
	_, err := runCLI(t, "", "history", "--data", data)
	assert.Error(t, err)
}

func TestQueriesSummaryExport(t *testing.T) {
	data := setup(t)

	out, err := runCLI(t, "", "queries")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 13)

	out, err = runCLI(t, "", "summary", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, `"respondents": 3`)
	assert.Contains(t, out, `"mean_score": 4.17`)

	out, err = runCLI(t, "", "export", "--format", "long", "--data", data)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "respondent_id,question,label,score,sentiment\n"))
}

func TestHashPassword(t *testing.T) {
	setup(t)
	out, err := runCLI(t, "rahasia\n", "hash-password")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("rahasia")))

	_, err = runCLI(t, "\n", "hash-password")
	assert.Error(t, err)
}
