package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SAMPLER_SEED", "SAMPLER_MAX_ATTEMPTS", "SAMPLER_DISCRIMINATOR",
		"SPACE_FILE", "COMMAND_PREFIX",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "ERROR")
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestPrintsEveryCombination(t *testing.T) {
	isolateEnv(t)

	code, stdout, _ := run(t, "twitter", "--seed", "5")
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 8)

	seen := make(map[string]bool)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "python cnn4nlp.py --corpus_path=data/twitter.pkl"), line)
		assert.Contains(t, line, "--img_prefix=twitter,,")
		assert.False(t, seen[line], "duplicate command %s", line)
		seen[line] = true
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SAMPLER_SEED", "99")

	_, first, _ := run(t, "twitter", "--count", "4")
	_, second, _ := run(t, "twitter", "--count", "4")
	assert.Equal(t, first, second)
}

func TestCapacityExceededExitCode(t *testing.T) {
	isolateEnv(t)

	code, stdout, stderr := run(t, "twitter", "--count", "9")
	assert.Equal(t, exitCapacityExceeded, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "requested 9, available 8")
	assert.Contains(t, stderr, "batch_size=4")
}

func TestMalformedDiscriminatorExitCode(t *testing.T) {
	isolateEnv(t)

	code, _, stderr := run(t, "twitter", "--discriminator", "depth")
	assert.Equal(t, exitMalformed, code)
	assert.Contains(t, stderr, "depth")
}

func TestUnsatisfiableExitCode(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "collapsed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parameters:\n  - name: epochs\n    values: [10, 10]\n"), 0o644))

	code, _, stderr := run(t, "epochs", "--space", path, "--max-attempts", "20")
	assert.Equal(t, exitUnsatisfiable, code)
	assert.Contains(t, stderr, "consecutive duplicate draws")
}

func TestSpaceFileAndReport(t *testing.T) {
	isolateEnv(t)
	t.Setenv("COMMAND_PREFIX", "python train.py")

	path := filepath.Join(t.TempDir(), "space.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discriminator: layers
parameters:
  - name: layers
    values: [1, 2]
  - name: use_bn
    values: [true, false]
discriminated:
  - name: widths
    values:
      1: [8]
      2: [8, 4]
`), 0o644))

	code, stdout, stderr := run(t, "mnist", "--space", path, "--report", "--seed", "3")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, stdout, "python train.py --layers 2 --use_bn --widths 8 4 --img_prefix=mnist,,layers=2,,use_bn=,,widths=8,4")
	assert.Contains(t, stdout, "python train.py --layers 1 --widths 8 --img_prefix=mnist,,layers=1,,widths=8")
	assert.Contains(t, stderr, "coverage: 4 samples of 4 combinations")
}

func TestRunIDTagsLogsOnly(t *testing.T) {
	isolateEnv(t)
	t.Setenv("LOG_LEVEL", "INFO")

	id := "0190a5f2-7c1e-7d3a-9b2f-4e6c8a1d2b3c"
	code, tagged, stderr := run(t, "twitter", "--seed", "8", "--count", "3", "--run-id", id)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "run "+id)

	_, untagged, _ := run(t, "twitter", "--seed", "8", "--count", "3")
	assert.Equal(t, tagged, untagged)
}

func TestInvalidRunID(t *testing.T) {
	isolateEnv(t)

	code, stdout, stderr := run(t, "twitter", "--run-id", "batch-7")
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `run ID "batch-7" is not a UUID`)
}

func TestRequiresName(t *testing.T) {
	isolateEnv(t)

	code, _, stderr := run(t)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "accepts 1 arg")
}

func TestInvalidEnvConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SAMPLER_MAX_ATTEMPTS", "none")

	code, _, stderr := run(t, "twitter")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "SAMPLER_MAX_ATTEMPTS")
}
