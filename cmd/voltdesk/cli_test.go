package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"voltdesk/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI with an isolated config file and returns stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VOLTDESK_API_URL", "")
	t.Setenv("VOLTDESK_TIMEOUT", "")
	t.Setenv("VOLTDESK_DEBUG", "")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	hasConfig := false
	for _, a := range args {
		if a == "--config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append([]string{"--config", cfgPath}, args...)
	}

	var out, errOut bytes.Buffer
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := execute(context.Background(), a, root)
	return out.String(), err
}

type recorded struct {
	path string
	body map[string]interface{}
}

// fakeBackend answers every endpoint and records JSON bodies.
func fakeBackend(t *testing.T, status int, reply string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{path: r.URL.Path}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &rec.body)
		}
		calls = append(calls, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if r.URL.Path == "/docs/upload" && status == http.StatusOK {
			_, _ = w.Write([]byte(`{"session_id":"s1","message":"'manual.pdf' 처리 완료!"}`))
			return
		}
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestAskCmd(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{"answer":"V=IR 입니다"}`)

	out, err := executeCommand(t, "--api-url", srv.URL, "ask", "--raw", "옴의", "법칙?")
	require.NoError(t, err)
	assert.Contains(t, out, "V=IR 입니다")

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/chat", call.path)
	assert.Equal(t, "옴의 법칙?", call.body["message"])
	assert.Equal(t, []interface{}{map[string]interface{}{"role": "user", "content": "옴의 법칙?"}}, call.body["history"])
}

func TestAskCmd_BackendDetail(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusTooManyRequests, `{"detail":"rate limited"}`)

	_, err := executeCommand(t, "--api-url", srv.URL, "ask", "--raw", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, strings.HasPrefix(err.Error(), "오류: "))
}

func TestAskCmd_BlankMessage(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{"answer":"x"}`)

	_, err := executeCommand(t, "--api-url", srv.URL, "ask", "   ")
	require.Error(t, err)
	assert.Empty(t, *calls)
}

func TestDocCmd(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{"answer":"220V 입니다"}`)
	pdf := filepath.Join(t.TempDir(), "manual.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0644))

	out, err := executeCommand(t, "--api-url", srv.URL, "doc", "--raw", pdf, "정격", "전압은?")
	require.NoError(t, err)
	assert.Contains(t, out, "처리 완료")
	assert.Contains(t, out, "220V 입니다")

	require.Len(t, *calls, 2)
	assert.Equal(t, "/docs/upload", (*calls)[0].path)
	assert.Equal(t, "/docs/query", (*calls)[1].path)
	assert.Equal(t, "s1", (*calls)[1].body["session_id"])
	assert.Equal(t, "정격 전압은?", (*calls)[1].body["message"])
}

func TestDocCmd_UploadFailure(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusBadRequest, `{"detail":"PDF 파일만 업로드할 수 있습니다."}`)
	pdf := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(pdf, []byte("hi"), 0644))

	_, err := executeCommand(t, "--api-url", srv.URL, "doc", pdf, "질문")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF 파일만")
	assert.Len(t, *calls, 1, "no query after a failed upload")
}

func TestCalcOhmsCmd(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{"I":3,"P":36}`)

	out, err := executeCommand(t, "--api-url", srv.URL, "calc", "ohms", "--V", "12", "--R", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "\"P\": 36")

	require.Len(t, *calls, 1)
	assert.Equal(t, "/calculate/ohms", (*calls)[0].path)
	assert.Equal(t, map[string]interface{}{"V": 12.0, "I": nil, "R": 4.0}, (*calls)[0].body)
}

func TestCalcOhmsCmd_InvalidNumber(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{}`)

	_, err := executeCommand(t, "--api-url", srv.URL, "calc", "ohms", "--V", "twelve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
	assert.Empty(t, *calls)
}

func TestCalcRLCCmd_Defaults(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{"Z":"100.0 Ω"}`)

	out, err := executeCommand(t, "--api-url", srv.URL, "calc", "rlc")
	require.NoError(t, err)
	assert.Contains(t, out, "100.0 Ω")

	require.Len(t, *calls, 1)
	assert.Equal(t, map[string]interface{}{
		"R": 100.0, "L": 0.01, "C": 0.0001, "f": 60.0, "mode": "직렬",
	}, (*calls)[0].body)
}

func TestCalcRLCCmd_Overrides(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{}`)

	_, err := executeCommand(t, "--api-url", srv.URL, "calc", "rlc", "--R", "", "--f", "1000", "--mode", "병렬")
	require.NoError(t, err)

	body := (*calls)[0].body
	assert.Nil(t, body["R"])
	assert.Equal(t, 1000.0, body["f"])
	assert.Equal(t, "병렬", body["mode"])
}

func TestCalcRLCCmd_BadMode(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{}`)

	_, err := executeCommand(t, "--api-url", srv.URL, "calc", "rlc", "--mode", "series")
	require.Error(t, err)
	assert.Empty(t, *calls)
}

func TestFailedCommandClosesLogFile(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{}`)
	logDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := "logging:\n  debug_mode: true\n  dir: " + logDir + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := executeCommand(t, "--config", cfgPath, "--api-url", srv.URL, "calc", "rlc", "--mode", "series")
	require.Error(t, err)
	assert.Empty(t, *calls)

	assert.False(t, logging.IsDebugMode(), "log file left open after a failed command")
	_, statErr := os.Stat(filepath.Join(logDir, "voltdesk.log"))
	assert.NoError(t, statErr)
}

func TestCalcCmd_BackendError(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusInternalServerError, `{"detail":"division by zero"}`)

	_, err := executeCommand(t, "--api-url", srv.URL, "calc", "ohms", "--V", "1")
	require.Error(t, err)
}

func TestPingCmd(t *testing.T) {
	srv, calls := fakeBackend(t, http.StatusOK, `{"message":"전기 챗봇 API 서버"}`)

	out, err := executeCommand(t, "--api-url", srv.URL, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, srv.URL)
	assert.Contains(t, out, "전기 챗봇 API 서버")
	assert.Equal(t, "/", (*calls)[0].path)
}

func TestPingCmd_Unreachable(t *testing.T) {
	srv, _ := fakeBackend(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	_, err := executeCommand(t, "--api-url", url, "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voltdesk", "config.yaml")

	out, err := executeCommand(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = executeCommand(t, "--config", path, "config", "init")
	require.Error(t, err, "init must not overwrite without --force")

	_, err = executeCommand(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, err = executeCommand(t, "--config", path, "--api-url", "http://127.0.0.1:8000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://127.0.0.1:8000")
	assert.Contains(t, out, "mode: 직렬")
}

func TestInvalidAPIURL(t *testing.T) {
	_, err := executeCommand(t, "--api-url", "ftp://example.com", "ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
