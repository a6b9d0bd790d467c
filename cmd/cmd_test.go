package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inspectDocument = `{"results": [
  {"query": "sample1_R1", "taxon": {"reachedRank": "species", "identifier": "bacillus-subtilis", "percIdentity": 99.1, "bitScore": 512,
    "taxonomy": "d__bacteria;g__bacillus;s__bacillus_subtilis",
    "consensusBeans": [{"rank": "species", "identifier": "bacillus-subtilis", "occurrences": 8, "accessions": ["A1"]}]}},
  {"query": "sample1_R2"}
]}`

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blutils.consensus.json")
	require.NoError(t, os.WriteFile(path, []byte(inspectDocument), 0o644))
	return path
}

func TestInspectTable(t *testing.T) {
	out, err := run(t, "inspect", writeDocument(t), "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "blutils.consensus.json: 2 results in 1 pages")
	assert.Contains(t, out, "sample1_R1")
	assert.Contains(t, out, "No significant match")
}

func TestInspectGroupedOmit(t *testing.T) {
	out, err := run(t, "inspect", writeDocument(t), "--no-color", "--mode", "taxonomy", "--unmatched", "omit")
	require.NoError(t, err)
	assert.Contains(t, out, "1 results in 1 groups")
	assert.NotContains(t, out, "sample1_R2")
}

func TestInspectDetail(t *testing.T) {
	out, err := run(t, "inspect", writeDocument(t), "--no-color", "--detail", "--query", "sample1_R1")
	require.NoError(t, err)
	assert.Contains(t, out, "OCCURRENCES")
	assert.Contains(t, out, "Bacillus subtilis")

	_, err = run(t, "inspect", writeDocument(t), "--detail", "--query", "nope")
	assert.Error(t, err)
}

func TestInspectErrors(t *testing.T) {
	_, err := run(t, "inspect", writeDocument(t), "--mode", "heatmap")
	assert.Error(t, err)

	_, err = run(t, "inspect", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestVersionJSON(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	out, err := run(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info["version"])
}
