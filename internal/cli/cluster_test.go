package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeanspp/codec"
)

const pointsCSV = `id,x,y
a,0,0
b,0,1
c,10,0
d,10,1
`

type decodedReport struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	BestRun     int          `json:"best_run"`
	Inertia     []float64    `json:"inertia"`
	Centroids   [][]float64  `json:"centroids"`
	Sizes       []int        `json:"sizes"`
	Assignments []assignment `json:"assignments"`
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decodeReport(t *testing.T, data []byte) decodedReport {
	t.Helper()

	var r decodedReport
	require.NoError(t, codec.Default.Unmarshal(data, &r))
	return r
}

func TestCluster(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "points.csv", pointsCSV)

	stdout, _, err := execute(t, "cluster",
		"--root", dir,
		"--k", "2",
		"--runs", "3",
		"--converge-dist", "0.01",
		"--log-level", "error",
		"--assignments",
		"points.csv",
	)
	require.NoError(t, err)

	r := decodeReport(t, []byte(stdout))
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "converged", r.Status)
	assert.Len(t, r.Inertia, 3)
	assert.ElementsMatch(t, [][]float64{{0, 0.5}, {10, 0.5}}, r.Centroids)
	assert.Equal(t, []int{2, 2}, r.Sizes)

	require.Len(t, r.Assignments, 4)
	assert.Equal(t, "a", r.Assignments[0].ID)
	assert.Equal(t, r.Assignments[0].Cluster, r.Assignments[1].Cluster)
	assert.Equal(t, r.Assignments[2].Cluster, r.Assignments[3].Cluster)
	assert.NotEqual(t, r.Assignments[0].Cluster, r.Assignments[2].Cluster)
}

func TestCluster_ConfigFileAndOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "points.jsonl", `{"id":"a","vector":[0,0]}
{"id":"b","vector":[0,1]}
{"id":"c","vector":[10,0]}
{"id":"d","vector":[10,1]}
`)
	out := filepath.Join(dir, "result.json")
	cfgPath := writeFile(t, dir, "cluster.yaml", `
source:
  root: `+dir+`
input:
  name: points.jsonl
clustering:
  k: 3
  runs: 2
  converge_dist: 0.01
resources:
  memory_limit_bytes: 67108864
log:
  format: json
  level: info
output:
  codec: json
  indent: false
`)

	stdout, stderr, err := execute(t, "cluster", "-c", cfgPath, "--k", "2", "-o", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `"msg":"dataset loaded"`)
	assert.Contains(t, stderr, `"memory_limit":67108864`)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	r := decodeReport(t, data)
	assert.Len(t, r.Centroids, 2)
	assert.Len(t, r.Inertia, 2)
	assert.Empty(t, r.Assignments)
}

func TestCluster_Prefix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "train"), 0o755))
	writeFile(t, dir, "train/part-0.csv", "0,0\n0,1\n")
	writeFile(t, dir, "train/part-1.csv", "10,0\n10,1\n")

	stdout, _, err := execute(t, "cluster",
		"--root", dir,
		"--prefix", "train/",
		"--id-column=false",
		"--k", "1",
		"--log-level", "error",
	)
	require.NoError(t, err)

	r := decodeReport(t, []byte(stdout))
	assert.Equal(t, [][]float64{{5, 0.5}}, r.Centroids)
	assert.Equal(t, []int{4}, r.Sizes)
}

func TestCluster_Metrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "points.csv", pointsCSV)

	_, stderr, err := execute(t, "cluster",
		"--root", dir,
		"--metrics-addr", "127.0.0.1:0",
		"points.csv",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "serving metrics")
}

func TestCluster_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "points.csv", pointsCSV)

	tests := []struct {
		name string
		args []string
	}{
		{"no input", []string{"cluster", "--root", dir}},
		{"missing blob", []string{"cluster", "--root", dir, "nope.csv"}},
		{"bad policy", []string{"cluster", "--root", dir, "--empty-cluster", "ignore", "points.csv"}},
		{"k too large", []string{"cluster", "--root", dir, "--k", "9", "points.csv"}},
		{"too many args", []string{"cluster", "a.csv", "b.csv"}},
		{"missing config", []string{"cluster", "-c", filepath.Join(dir, "nope.yaml"), "points.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "kmeanspp ")
}
