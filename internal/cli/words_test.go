package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wordlist/internal/listing"
)

// cliRun executes the root command against db and returns stdout, stderr
// and the error.
func cliRun(t *testing.T, db string, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--db", db}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "words.db")
}

var seededLines = []string{
	"0\t2\tAdapter",
	"1\t1\tAndroid",
	"2\t5\tAndroid Studio",
	"3\t10\tAndroidPerformance",
	"4\t4\tAsyncTask",
	"5\t8\tData model",
	"6\t3\tListView",
	"7\t11\tOnClickListener",
	"8\t7\tSQLOpenHelper",
	"9\t6\tSQLiteDatabase",
	"10\t9\tViewHolder",
}

func TestListCommand_Seeded(t *testing.T) {
	out, stderr, err := cliRun(t, testDB(t), "list")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(seededLines, "\n")+"\n", out)
	assert.Contains(t, stderr, "creating word table")
	assert.Contains(t, stderr, "run_id=")
}

func TestListCommand_JSON(t *testing.T) {
	out, _, err := cliRun(t, testDB(t), "list", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []listing.Row `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 11)
	assert.Equal(t, listing.Row{Position: 0, ID: 2, Text: "Adapter"}, resp.Data[0])
}

func TestListCommand_EmptySeedFromConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "wordlist.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("seed: []\n"), 0644))

	out, _, err := cliRun(t, filepath.Join(dir, "w.db"), "--config", configPath, "list")
	require.NoError(t, err)
	assert.Equal(t, "No words.\n", out)
}

func TestShowCommand(t *testing.T) {
	out, _, err := cliRun(t, testDB(t), "show", "10")
	require.NoError(t, err)
	assert.Equal(t, "10\t9\tViewHolder\n", out)
}

func TestShowCommand_OutOfRange(t *testing.T) {
	_, _, err := cliRun(t, testDB(t), "show", "11")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "no word at position 11")
}

func TestShowCommand_OutOfRangeJSON(t *testing.T) {
	out, _, err := cliRun(t, testDB(t), "show", "99", "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestShowCommand_BadPosition(t *testing.T) {
	_, _, err := cliRun(t, testDB(t), "show", "first")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid position")
}

func TestShowCommand_MissingArg(t *testing.T) {
	_, _, err := cliRun(t, testDB(t), "show")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestZebraRoundTrip(t *testing.T) {
	db := testDB(t)

	out, _, err := cliRun(t, db, "add", "Zebra")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	out, _, err = cliRun(t, db, "count")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	out, _, err = cliRun(t, db, "show", "11")
	require.NoError(t, err)
	assert.Equal(t, "11\t12\tZebra\n", out)

	out, _, err = cliRun(t, db, "delete", "12")
	require.NoError(t, err)
	assert.Equal(t, "Deleted word 12\n", out)

	out, _, err = cliRun(t, db, "count")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)
}

func TestAddCommand_JSON(t *testing.T) {
	out, _, err := cliRun(t, testDB(t), "add", "Zebra", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"id":12,"text":"Zebra"}}`, out)
}

func TestEditCommand_ByID(t *testing.T) {
	db := testDB(t)

	out, _, err := cliRun(t, db, "edit", "2", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Updated word 2\n", out)

	out, _, err = cliRun(t, db, "search", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed\n", out)

	out, _, err = cliRun(t, db, "show", "0")
	require.NoError(t, err)
	assert.Equal(t, "0\t1\tAndroid\n", out)
}

func TestEditCommand_ByPosition(t *testing.T) {
	db := testDB(t)

	out, stderr, err := cliRun(t, db, "-v", "edit", "--at", "0", "Zulu")
	require.NoError(t, err)
	assert.Equal(t, "Updated word 2\n", out)
	assert.Contains(t, stderr, "row changed")

	out, _, err = cliRun(t, db, "show", "10")
	require.NoError(t, err)
	assert.Equal(t, "10\t2\tZulu\n", out)
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"unknown id", []string{"edit", "9999", "ghost"}, ExitFailure, "no word with id 9999"},
		{"bad id", []string{"edit", "abc", "ghost"}, ExitCommandError, "invalid id"},
		{"zero id", []string{"edit", "0", "ghost"}, ExitCommandError, "invalid id"},
		{"missing text", []string{"edit", "2"}, ExitCommandError, "edit takes <id> <text>"},
		{"position out of range", []string{"edit", "--at", "50", "ghost"}, ExitFailure, "no word at position 50"},
		{"position with id", []string{"edit", "--at", "0", "2", "ghost"}, ExitCommandError, "exactly one argument"},
		{"negative position", []string{"edit", "--at=-3", "ghost"}, ExitCommandError, "invalid position -3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := cliRun(t, testDB(t), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeleteCommand_ByPosition(t *testing.T) {
	db := testDB(t)

	out, stderr, err := cliRun(t, db, "-v", "delete", "--at", "0")
	require.NoError(t, err)
	assert.Equal(t, "Deleted word 2\n", out)
	assert.Contains(t, stderr, "row removed")

	out, _, err = cliRun(t, db, "show", "0")
	require.NoError(t, err)
	assert.Equal(t, "0\t1\tAndroid\n", out)
}

func TestDeleteCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"unknown id", []string{"delete", "9999"}, ExitFailure, "no word with id 9999"},
		{"no target", []string{"delete"}, ExitCommandError, "delete takes <id> or --at <position>"},
		{"both targets", []string{"delete", "--at", "0", "2"}, ExitCommandError, "not both"},
		{"position out of range", []string{"delete", "--at", "11"}, ExitFailure, "no word at position 11"},
		{"bad id", []string{"delete", "x"}, ExitCommandError, "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := cliRun(t, testDB(t), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeleteCommand_IDNotReused(t *testing.T) {
	db := testDB(t)

	_, _, err := cliRun(t, db, "delete", "11")
	require.NoError(t, err)

	out, _, err := cliRun(t, db, "add", "Again")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)
}

func TestSearchCommand(t *testing.T) {
	db := testDB(t)

	out, _, err := cliRun(t, db, "search", "android")
	require.NoError(t, err)
	assert.Equal(t, "Android\nAndroid Studio\nAndroidPerformance\n", out)

	out, _, err = cliRun(t, db, "search", "zzz")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = cliRun(t, db, "search", "")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 11)
}

func TestSearchCommand_JSONNoMatch(t *testing.T) {
	out, _, err := cliRun(t, testDB(t), "search", "%", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":[]}`, out)
}

func TestResetCommand(t *testing.T) {
	db := testDB(t)

	_, _, err := cliRun(t, db, "add", "Zebra")
	require.NoError(t, err)

	out, stderr, err := cliRun(t, db, "reset")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)
	assert.Contains(t, stderr, "destroy all old data")

	out, _, err = cliRun(t, db, "search", "Zebra")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestResetCommand_UnavailableDatabaseJSON(t *testing.T) {
	out, _, err := cliRun(t, "/nonexistent/dir/w.db", "reset", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to reset database")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeStore, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Details)
}

func TestSchemaVersionBumpDropsData(t *testing.T) {
	db := testDB(t)

	_, _, err := cliRun(t, db, "add", "Zebra")
	require.NoError(t, err)

	out, stderr, err := cliRun(t, db, "--schema-version", "2", "count")
	require.NoError(t, err)
	assert.Equal(t, "11\n", out)
	assert.Contains(t, stderr, "upgrading database")

	// Same version again keeps data
	_, _, err = cliRun(t, db, "--schema-version", "2", "add", "Zebra")
	require.NoError(t, err)
	out, _, err = cliRun(t, db, "--schema-version", "2", "count")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)
}
