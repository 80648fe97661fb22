package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitej-a/Innobyte-services/internal/config"
)

type fakeRemote struct {
	pushedDir string
	pulled    string
	files     map[string][]byte
}

func (f *fakeRemote) Push(_ context.Context, dir string) (string, error) {
	f.pushedDir = dir
	f.files = map[string][]byte{}
	for _, name := range []string{"users.csv", "transactions.csv", "budget.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		f.files[name] = data
	}
	return "backups/abc/", nil
}

func (f *fakeRemote) Pull(_ context.Context, prefix, dir string) ([]string, error) {
	f.pulled = prefix
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	var paths []string
	for name, data := range f.files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func TestBackupRestore_ViaRemote(t *testing.T) {
	remote := &fakeRemote{}

	src := newHarness(t, func(c *config.Config) { c.S3.Bucket = "ledger" })
	src.app.remoteFn = func(context.Context) (Remote, error) { return remote, nil }
	src.login(t, "alice")
	src.mustRun(t, "set-budget 100 food")
	src.mustRun(t, "transact 40 expense food 6 2024")

	dir := filepath.Join(t.TempDir(), "out")
	out := src.mustRun(t, "backup "+dir+" --s3")
	assert.Contains(t, out, filepath.Join(dir, "users.csv"))
	assert.Contains(t, out, "Uploaded to s3://ledger/backups/abc/")
	assert.Equal(t, dir, remote.pushedDir)

	dst := newHarness(t)
	dst.app.remoteFn = func(context.Context) (Remote, error) { return remote, nil }
	restoreDir := filepath.Join(t.TempDir(), "in")
	out = dst.mustRun(t, "restore "+restoreDir+" --s3 backups/abc/")
	assert.Contains(t, out, "Downloaded 3 files from backups/abc/")
	assert.Contains(t, out, "users : 1 rows\ntransactions : 1 rows\nbudget : 1 rows\n")
	assert.Equal(t, "backups/abc/", remote.pulled)

	dst.mustRun(t, "login alice alice-pw")
	assert.Equal(t, "food : 60\n", dst.mustRun(t, "budgets"))
	assert.Equal(t, "expense : 40\nsavings : -40\n", dst.mustRun(t, "report --year 2024"))
}

func TestBackup_LocalOnly(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	out := h.mustRun(t, "backup "+dir)
	assert.Contains(t, out, "Wrote "+filepath.Join(dir, "budget.csv"))
}

func TestBackup_S3NotConfigured(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 1, h.run(t, "backup "+t.TempDir()+" --s3"))
	assert.Contains(t, h.errOut.String(), "no S3 bucket configured")
}

func TestRestore_EmptyDir(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.mustRun(t, "restore "+t.TempDir()), "Nothing to restore")
}

func TestRestore_RemoteError(t *testing.T) {
	h := newHarness(t)
	h.app.remoteFn = func(context.Context) (Remote, error) { return nil, errors.New("dial tcp: refused") }

	require.Equal(t, 1, h.run(t, "restore "+t.TempDir()+" --s3 backups/x/"))
	assert.Contains(t, h.errOut.String(), "refused")
}
