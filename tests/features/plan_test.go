// Package features_test verifies end-to-end CLI command behavior.
package features_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// projectRoot walks up from the test's working directory to the
// directory containing main.go.
func projectRoot(t *testing.T) string {
	t.Helper()

	root, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, statErr := os.Stat(filepath.Join(root, "main.go")); statErr == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			require.Fail(t, "could not find project root")
		}
		root = parent
	}
}

func TestFeature_PlanCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping feature test in short mode")
	}

	cmd := exec.Command("go", "run", "main.go", "plan")
	cmd.Dir = projectRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "plan command failed: %s", output)

	require.Contains(t, string(output), "Request budget")
	require.Contains(t, string(output), "wired.com")
}

func TestFeature_VersionCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping feature test in short mode")
	}

	cmd := exec.Command("go", "run", "main.go", "version")
	cmd.Dir = projectRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "version command failed: %s", output)
	require.Contains(t, string(output), "newsdigest version")
}
