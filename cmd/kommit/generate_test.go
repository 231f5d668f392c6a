package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/helixml/kommit/application/service"
	domaincommit "github.com/helixml/kommit/domain/commit"
	domainservice "github.com/helixml/kommit/domain/service"
	"github.com/helixml/kommit/infrastructure/enricher"
)

// completionFake answers OpenAI-style chat completions by model.
func completionFake(t *testing.T, status int, replies map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"rejected"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": body.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": replies[body.Model]},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setCompletionEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("COMPLETION_ENDPOINT_PROVIDER", "openai")
	t.Setenv("COMPLETION_ENDPOINT_BASE_URL", baseURL)
	t.Setenv("COMPLETION_ENDPOINT_API_KEY", "test-key")
	t.Setenv("LOG_LEVEL", "ERROR")
}

func TestRunGenerate_TextFromStdin(t *testing.T) {
	srv := completionFake(t, 0, map[string]string{
		enricher.DefaultChunkModel:  "Add greeting",
		enricher.DefaultFusionModel: "<think>short</think>Add greeting to main",
	})
	setCompletionEnv(t, srv.URL)

	var out bytes.Buffer
	err := runGenerate(context.Background(), generateFlags{format: formatText}, strings.NewReader("+fmt.Println(\"hi\")\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Add greeting to main\n", out.String())
}

func TestRunGenerate_JSONWithChunks(t *testing.T) {
	srv := completionFake(t, 0, map[string]string{
		enricher.DefaultChunkModel:  "Add greeting",
		enricher.DefaultFusionModel: "Add greeting to main",
	})
	setCompletionEnv(t, srv.URL)

	var out bytes.Buffer
	flags := generateFlags{format: formatJSON, showChunks: true}
	require.NoError(t, runGenerate(context.Background(), flags, strings.NewReader("+x\n"), &out))

	var got generateOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Add greeting to main", got.Message)
	assert.Equal(t, 1, got.Chunks)
	assert.Equal(t, []string{"Add greeting"}, got.Summaries)
	assert.Empty(t, got.Error)
}

func TestRunGenerate_PayloadTooLargeJSON(t *testing.T) {
	srv := completionFake(t, http.StatusRequestEntityTooLarge, nil)
	setCompletionEnv(t, srv.URL)

	var out bytes.Buffer
	err := runGenerate(context.Background(), generateFlags{format: formatJSON}, strings.NewReader("+x\n"), &out)
	assert.ErrorIs(t, err, errReported)

	var got generateOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, service.MessagePayloadTooLarge, got.Message)
	assert.Equal(t, "payload_too_large", got.Error)
}

func TestRunGenerate_ProviderFailureText(t *testing.T) {
	srv := completionFake(t, http.StatusInternalServerError, nil)
	setCompletionEnv(t, srv.URL)

	var out bytes.Buffer
	err := runGenerate(context.Background(), generateFlags{format: formatText}, strings.NewReader("+x\n"), &out)
	require.Error(t, err)
	assert.Equal(t, service.MessageProviderFailure, err.Error())
	assert.Empty(t, out.String())
}

func TestRunGenerate_UnknownFormat(t *testing.T) {
	err := runGenerate(context.Background(), generateFlags{format: "xml"}, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown format")
}

func TestReadDiff_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "change.diff")
	require.NoError(t, os.WriteFile(path, []byte("+line\n"), 0o644))

	diff, sha, err := readDiff(context.Background(), generateFlags{file: path}, strings.NewReader("ignored"), nil)
	require.NoError(t, err)
	assert.Equal(t, "+line\n", diff)
	assert.Empty(t, sha)
}

func TestReadDiff_DashReadsStdin(t *testing.T) {
	diff, _, err := readDiff(context.Background(), generateFlags{file: "-"}, strings.NewReader("+stdin\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "+stdin\n", diff)
}

func TestReadDiff_MissingFile(t *testing.T) {
	_, _, err := readDiff(context.Background(), generateFlags{file: filepath.Join(t.TempDir(), "nope")}, nil, nil)
	assert.ErrorContains(t, err, "read diff file")
}

func TestReadDiff_Commit(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# kommit\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	hash, err := wt.Commit("Add readme", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	diff, sha, err := readDiff(context.Background(), generateFlags{commitRev: "HEAD", repo: dir}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), sha)
	assert.Contains(t, diff, "+# kommit")
}

func TestReadDiff_CommitOutsideRepository(t *testing.T) {
	_, _, err := readDiff(context.Background(), generateFlags{commitRev: "HEAD", repo: t.TempDir()}, nil, nil)
	assert.ErrorContains(t, err, "read commit HEAD")
}

func TestWriteResult_YAML(t *testing.T) {
	result := service.NewResult("Fix typo", []domaincommit.Summary{domaincommit.NewSummary(0, "Fix typo")}, 1)

	var out bytes.Buffer
	require.NoError(t, writeResult(&out, generateFlags{format: formatYAML}, result, "abc123"))

	var got generateOutput
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Fix typo", got.Message)
	assert.Equal(t, "abc123", got.Commit)
	assert.Nil(t, got.Summaries)
}

func TestWriteResult_TextWithChunks(t *testing.T) {
	result := service.NewResult("Add parser", []domaincommit.Summary{
		domaincommit.NewSummary(0, "Add lexer"),
		domaincommit.NewSummary(1, "Add parser"),
	}, 2)

	var out bytes.Buffer
	require.NoError(t, writeResult(&out, generateFlags{format: formatText, showChunks: true}, result, ""))

	text := out.String()
	assert.Contains(t, text, "Summary")
	assert.Contains(t, text, "Add lexer")
	assert.True(t, strings.HasSuffix(text, "\nAdd parser\n"))
	assert.Less(t, strings.Index(text, "Add lexer"), strings.LastIndex(text, "Add parser"))
}

func TestWriteFailure(t *testing.T) {
	err := writeFailure(&bytes.Buffer{}, formatText, domainservice.ErrPayloadTooLarge)
	assert.EqualError(t, err, service.MessagePayloadTooLarge)

	err = writeFailure(&bytes.Buffer{}, formatText, service.ErrClientClosed)
	assert.True(t, errors.Is(err, service.ErrClientClosed))
}
