package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

// fakeSuite profiles against the fake counter without real-time priority.
const fakeSuite = `
runs: 4
counter: fake
priority: 0
period: 1ms
workloads: [empty, sin]
`

// testContext writes suite to a temporary file and returns a context whose
// globals point at it. An empty db disables storage.
func testContext(t *testing.T, suite, db string) (context.Context, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")

	if err := os.WriteFile(path, []byte(suite), 0o600); err != nil {
		t.Fatal(err)
	}

	if db == "" {
		db = storeDisabled
	} else {
		db = filepath.Join(dir, db)
	}

	var stdout bytes.Buffer

	ctx := WithGlobals(context.Background(), Globals{
		Suite:  path,
		DB:     db,
		Config: filepath.Join(dir, "config.yaml"),
		Stdout: &stdout,
	})

	return ctx, &stdout
}
