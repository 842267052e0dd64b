package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/INLOpen/xtra/config"
	"github.com/INLOpen/xtra/sys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMetricsServer_Routes(t *testing.T) {
	cfg := config.Default().Debug
	s := NewMetricsServer(cfg, discardLogger())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	for _, path := range []string{"/metrics", "/debug/pprof/", "/viz/"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestMetricsServer_DisabledRoutes(t *testing.T) {
	cfg := config.DebugConfig{MetricsEnabled: true}
	s := NewMetricsServer(cfg, discardLogger())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/debug/pprof/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "memstats")
}

func TestMetricsServer_OpenFiles(t *testing.T) {
	s := NewMetricsServer(config.DebugConfig{MetricsEnabled: true}, discardLogger())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "headers.cidx")
	require.NoError(t, os.WriteFile(path, []byte{0, 0, 0, 0, 0, 0}, 0o644))
	sys.SetDebugMode(true)
	f, err := sys.Open(path)
	sys.SetDebugMode(false)
	require.NoError(t, err)

	var got struct {
		Open  []string `json:"open"`
		Count int      `json:"count"`
	}
	resp, err := http.Get(ts.URL + "/debug/files")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Contains(t, got.Open, path)

	require.NoError(t, f.Close())
	resp, err = http.Get(ts.URL + "/debug/files")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.NotContains(t, got.Open, path)
}

func TestMetricsServer_StartStop(t *testing.T) {
	s := NewMetricsServer(config.DebugConfig{ListenAddress: "127.0.0.1:0", MetricsEnabled: true}, discardLogger())
	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.started
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestSystemCollector(t *testing.T) {
	sc := NewSystemCollector(os.TempDir(), 20*time.Millisecond, discardLogger())
	sc.collect()
	assert.Greater(t, sc.memUsagePercent.Value(), 0.0)
	assert.Greater(t, sc.diskUsage.Value(), 0.0)
	assert.Greater(t, sc.diskFree.Value(), int64(0))

	sc.Start()
	time.Sleep(50 * time.Millisecond)
	sc.Stop()
	sc.Stop()

	// Publishing again reuses the registered variables.
	again := NewSystemCollector(os.TempDir(), time.Second, discardLogger())
	assert.Same(t, sc.memUsagePercent, again.memUsagePercent)
}

func TestCheckMemory(t *testing.T) {
	m, err := CheckMemory(1024)
	require.NoError(t, err)
	assert.Greater(t, m.Available, uint64(0))
	assert.True(t, m.Fits())

	assert.False(t, MemoryCheck{Needed: 80, Available: 100}.Fits())
	assert.True(t, MemoryCheck{Needed: 75, Available: 100}.Fits())
	assert.Contains(t, MemoryCheck{Needed: 1, Available: 2}.String(), "1 bytes")
}
