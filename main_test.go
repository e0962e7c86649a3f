package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woodb/rural/clipboard"
	"github.com/woodb/rural/config"
	"github.com/woodb/rural/storage/storagetest"
)

type harness struct {
	home      string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	store     *storagetest.Store
	clipboard []string
	clipErr   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		home:  t.TempDir(),
		store: storagetest.New("my-bucket"),
	}
}

func (h *harness) run(stdin string, args ...string) int {
	e := &env{
		stdin:  strings.NewReader(stdin),
		stdout: &h.stdout,
		stderr: &h.stderr,
		lookupEnv: func(key string) (string, bool) {
			if key == "HOME" && len(h.home) > 0 {
				return h.home, true
			}
			return "", false
		},
		connect: h.store.Connect,
		clipboard: clipboard.Func(func(text string) error {
			h.clipboard = append(h.clipboard, text)
			return h.clipErr
		}),
	}
	return run(context.Background(), e, args)
}

func (h *harness) configure(t *testing.T, c config.Config) {
	t.Helper()
	require.NoError(t, config.Save(config.Path(h.home), c))
}

func (h *harness) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMissingConfig(t *testing.T) {
	h := newHarness(t)

	code := h.run("", h.file(t, "report.pdf", "x"))
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "rural has not yet been configured")
	assert.Contains(t, h.stderr.String(), "rural configure")
	assert.Zero(t, h.store.Connections())
}

func TestNoHome(t *testing.T) {
	h := newHarness(t)
	h.home = ""

	code := h.run("", "report.pdf")
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), config.ErrUnsupportedEnvironment.Error())
}

func TestConfigureCommand(t *testing.T) {
	h := newHarness(t)

	code := h.run("AKIAEXAMPLE\nsecretkey123\nmy-bucket\n", "configure")
	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "AWS Access Key ID: ")

	c, err := config.Load(config.Path(h.home))
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "SECRETKEY123",
		Bucket:    "my-bucket",
	}, c)
	assert.Zero(t, h.store.Connections())
}

func TestConfigureOverwrites(t *testing.T) {
	h := newHarness(t)
	h.configure(t, config.Config{AccessKey: "OLD", SecretKey: "OLD", Bucket: "old", Endpoint: "http://old"})

	code := h.run("new\nnew\nnew-bucket\n", "--configure")
	require.Equal(t, 0, code, h.stderr.String())

	c, err := config.Load(config.Path(h.home))
	require.NoError(t, err)
	assert.Equal(t, config.Config{AccessKey: "NEW", SecretKey: "NEW", Bucket: "new-bucket"}, c)
}

func TestUpload(t *testing.T) {
	for _, args := range [][]string{{}, {"upload"}} {
		t.Run(strings.Join(append([]string{"rural"}, args...), " "), func(t *testing.T) {
			h := newHarness(t)
			h.configure(t, config.Config{AccessKey: "AKIAEXAMPLE", SecretKey: "SECRETKEY123", Bucket: "my-bucket"})
			path := h.file(t, "report.pdf", "%PDF-1.4")

			code := h.run("", append(args, path)...)
			require.Equal(t, 0, code, h.stderr.String())

			obj := h.store.Object("my-bucket", "report.pdf")
			require.NotNil(t, obj)
			assert.True(t, obj.PublicRead)

			url := strings.TrimSpace(h.stdout.String())
			assert.Contains(t, url, "X-Amz-Expires=86400")
			assert.Equal(t, []string{url}, h.clipboard)
		})
	}
}

func TestConfigureThenUpload(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "report.pdf", "x")

	code := h.run("AKIAEXAMPLE\nsecretkey123\nmy-bucket\n", "--configure", path)
	require.Equal(t, 0, code, h.stderr.String())

	require.NotNil(t, h.store.Object("my-bucket", "report.pdf"))
	require.Len(t, h.store.Creds, 1)
	assert.Equal(t, "SECRETKEY123", h.store.Creds[0].SecretKey)
	assert.Len(t, h.clipboard, 1)
}

func TestIncompleteConfig(t *testing.T) {
	h := newHarness(t)
	h.configure(t, config.Config{AccessKey: "AKIAEXAMPLE", Bucket: "my-bucket"})

	code := h.run("", h.file(t, "report.pdf", "x"))
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), config.ErrConfigIncomplete.Error())
	assert.Zero(t, h.store.Connections())
}

func TestBucketNotFound(t *testing.T) {
	h := newHarness(t)
	h.configure(t, config.Config{AccessKey: "A", SecretKey: "S", Bucket: "missing"})

	code := h.run("", h.file(t, "report.pdf", "x"))
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "bucket not found")
	assert.Empty(t, h.clipboard)
}

func TestClipboardFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.clipErr = errors.New("no display")
	h.configure(t, config.Config{AccessKey: "A", SecretKey: "S", Bucket: "my-bucket"})

	code := h.run("", h.file(t, "report.pdf", "x"))
	assert.Equal(t, 0, code)
	assert.Contains(t, h.stdout.String(), "X-Amz-Expires=86400")
	assert.Contains(t, h.stderr.String(), "no display")
}

func TestUploadFileNamedLikeCommand(t *testing.T) {
	h := newHarness(t)
	h.configure(t, config.Config{AccessKey: "A", SecretKey: "S", Bucket: "my-bucket"})

	code := h.run("", "upload", h.file(t, "configure", "x"))
	require.Equal(t, 0, code, h.stderr.String())
	assert.NotNil(t, h.store.Object("my-bucket", "configure"))
}

func TestHelpMentionsUploadCommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, 0, h.run("", "--help"))
	assert.Contains(t, h.stdout.String(), "rural upload <name>")
}

func TestArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no filename", args: nil},
		{name: "upload without filename", args: []string{"upload"}},
		{name: "two filenames", args: []string{"a.txt", "b.txt"}},
		{name: "bad log level", args: []string{"--log-level", "loud", "a.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			assert.Equal(t, 1, h.run("", tt.args...))
			assert.Zero(t, h.store.Connections())
		})
	}
}
