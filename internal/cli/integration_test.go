package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gomdmath/internal/cli"
)

const testDocument = "# Title\n\nSee below.\n\n$$E = mc^2$$\n\nInline $x$ stays.\n\n```\n$$not math$$\n```\n"

const testRewritten = "# Title\n\nSee below.\n\n@math(uuid:m0)\n\nInline $x$ stays.\n\n```\n$$not math$$\n```\n"

// setup writes testDocument and a config selecting sequential identifiers.
func setup(t *testing.T) (dir, doc, cfgFile string) {
	t.Helper()

	dir = t.TempDir()
	doc = filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte(testDocument), 0o644))

	cfgFile = filepath.Join(t.TempDir(), "gomdmath.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("id_scheme: sequential\n"), 0o644))
	return dir, doc, cfgFile
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIntegration_ExtractReport(t *testing.T) {
	t.Parallel()

	dir, doc, cfgFile := setup(t)

	stdout, _, err := execute(t, "", "extract", "--config", cfgFile, "--color", "never", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "doc.md (1 block)")
	assert.Contains(t, stdout, "5:1  m0  $$E = mc^2$$")
	assert.Contains(t, stdout, "1 block extracted from 1 file")

	content, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, testDocument, string(content), "report mode must not write")
	assert.NoFileExists(t, doc+".mathstore.json")
}

func TestIntegration_ExtractWrite(t *testing.T) {
	t.Parallel()

	dir, doc, cfgFile := setup(t)

	_, _, err := execute(t, "", "extract", "--config", cfgFile, "--color", "never", "--write", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, testRewritten, string(content))

	sidecar, err := os.ReadFile(doc + ".mathstore.json")
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), `"id": "m0"`)
	assert.Contains(t, string(sidecar), `"source": "$$E = mc^2$$"`)

	// A second run finds nothing new and keeps the store.
	stdout, _, err := execute(t, "", "extract", "--config", cfgFile, "--color", "never", "--write", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No display math found")

	restored, _, err := execute(t, "", "restore", doc)
	require.NoError(t, err)
	assert.Equal(t, testDocument, restored)
}

func TestIntegration_ExtractDryRun(t *testing.T) {
	t.Parallel()

	dir, doc, cfgFile := setup(t)

	stdout, _, err := execute(t, "", "extract", "--config", cfgFile, "--color", "never", "--dry-run", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "-$$E = mc^2$$")
	assert.Contains(t, stdout, "+@math(uuid:m0)")
	assert.Contains(t, stdout, "1 file changed")

	content, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, testDocument, string(content))
	assert.NoFileExists(t, doc+".mathstore.json")
}

func TestIntegration_ExtractJSON(t *testing.T) {
	t.Parallel()

	dir, _, cfgFile := setup(t)

	stdout, _, err := execute(t, "", "extract", "--config", cfgFile, "--format", "json", dir)
	require.NoError(t, err)

	var output struct {
		Files []struct {
			Path        string `json:"path"`
			Occurrences []struct {
				ID     string `json:"id"`
				Line   int    `json:"line"`
				Source string `json:"source"`
			} `json:"occurrences"`
		} `json:"files"`
		Summary struct {
			MathExtracted int `json:"mathExtracted"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &output))

	require.Len(t, output.Files, 1)
	require.Len(t, output.Files[0].Occurrences, 1)
	assert.Equal(t, "m0", output.Files[0].Occurrences[0].ID)
	assert.Equal(t, 5, output.Files[0].Occurrences[0].Line)
	assert.Equal(t, 1, output.Summary.MathExtracted)
}

func TestIntegration_ExtractInvalidFormat(t *testing.T) {
	t.Parallel()

	dir, _, cfgFile := setup(t)

	_, _, err := execute(t, "", "extract", "--config", cfgFile, "--format", "sarif", dir)
	require.Error(t, err)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestIntegration_RenderStdin(t *testing.T) {
	t.Parallel()

	_, _, cfgFile := setup(t)

	stdout, stderr, err := execute(t, testDocument, "render", "--config", cfgFile, "-")
	require.NoError(t, err)

	assert.Equal(t, testRewritten, stdout)
	assert.Contains(t, stderr, `"source": "$$E = mc^2$$"`)
}

func TestIntegration_RenderRestoreVerify(t *testing.T) {
	t.Parallel()

	dir, doc, cfgFile := setup(t)
	out := filepath.Join(dir, "out.md")
	store := filepath.Join(dir, "math.yml")

	_, _, err := execute(t, "", "render", "--config", cfgFile, doc, "--store", store, "--output", out)
	require.NoError(t, err)

	rendered, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testRewritten, string(rendered))

	storeContent, err := os.ReadFile(store)
	require.NoError(t, err)
	assert.Contains(t, string(storeContent), "id: m0")

	stdout, _, err := execute(t, "", "verify", out, "--store", store)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok (1 placeholders)")

	restored, _, err := execute(t, "", "restore", out, "--store", store)
	require.NoError(t, err)
	assert.Equal(t, testDocument, restored)
}

func TestIntegration_VerifyMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	store := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(doc, []byte("a @math(uuid:zz) b\n"), 0o644))
	require.NoError(t, os.WriteFile(store,
		[]byte(`{"version": 1, "records": [{"id": "m0", "source": "$$x$$"}]}`), 0o644))

	stdout, _, err := execute(t, "", "verify", doc, "--store", store)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrVerifyFailed)
	assert.Equal(t, cli.ExitFindings, cli.ExitCode(err))
	assert.Contains(t, stdout, "missing record: @math(uuid:zz)")
	assert.Contains(t, stdout, "orphaned record: @math(uuid:m0)")

	restored, _, err := execute(t, "", "restore", doc, "--store", store)
	require.Error(t, err)
	assert.ErrorIs(t, err, cli.ErrVerifyFailed)
	assert.Equal(t, "a @math(uuid:zz) b\n", restored)
}

func TestIntegration_RestoreMissingStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte("plain\n"), 0o644))

	_, _, err := execute(t, "", "restore", doc)
	require.Error(t, err)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")

	_, _, err := execute(t, "", "init", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "id_scheme: uuid")

	_, _, err = execute(t, "", "init", "--output", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "", "init", "--output", path, "--force", "--format", "json")
	require.NoError(t, err)

	// The generated file is a valid configuration.
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte(testDocument), 0o644))
	_, _, err = execute(t, "", "extract", "--config", path, "--color", "never", doc)
	require.NoError(t, err)
}

func TestIntegration_RestoreFromBackup(t *testing.T) {
	t.Parallel()

	dir, doc, cfgFile := setup(t)

	_, _, err := execute(t, "", "extract", "--config", cfgFile, "--color", "never", "--write", "--backups", dir)
	require.NoError(t, err)
	require.FileExists(t, doc+".gomdmath.bak")

	_, _, err = execute(t, "", "restore", "--config", cfgFile, "--from-backup", doc)
	require.NoError(t, err)

	content, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, testDocument, string(content))
	assert.NoFileExists(t, doc+".gomdmath.bak")
	assert.FileExists(t, doc+".mathstore.json", "the store is kept")

	_, _, err = execute(t, "", "restore", "--config", cfgFile, "--from-backup", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backup found")
}
