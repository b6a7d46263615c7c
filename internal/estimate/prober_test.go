package estimate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProber() *HeadProber {
	return NewHeadProber(ProberConfig{
		Workers:       4,
		Timeout:       2 * time.Second,
		Retries:       1,
		BackoffBase:   time.Millisecond,
		DisableJitter: true,
	})
}

func TestProbeReadsContentLength(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "1024")
	}))
	defer srv.Close()

	results := testProber().Probe(context.Background(), []string{srv.URL + "/a.tif"})
	require.Len(t, results, 1)
	size := results[srv.URL+"/a.tif"]
	require.NotNil(t, size)
	assert.Equal(t, int64(1024), *size)
}

func TestProbeMissingHeaderIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Raw response without Content-Length; the Go server would otherwise
		// add one automatically.
		hj, ok := w.(http.Hijacker)
		require.True(t, ok)
		conn, buf, err := hj.Hijack()
		require.NoError(t, err)
		buf.WriteString("HTTP/1.1 200 OK\r\nConnection: close\r\n\r\n")
		buf.Flush()
		conn.Close()
	}))
	defer srv.Close()

	results := testProber().Probe(context.Background(), []string{srv.URL})
	require.Len(t, results, 1)
	assert.Nil(t, results[srv.URL])
}

func TestProbeCompletedResponseIsFinal(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	results := testProber().Probe(context.Background(), []string{srv.URL})
	assert.Nil(t, results[srv.URL])
	// A completed 5xx response is final; no retry happens.
	assert.Equal(t, int64(1), attempts.Load())
}

func TestProbeRetriesTransportFailure(t *testing.T) {
	var attempts atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			// Hijack and slam the connection to force a transport error.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Header().Set("Content-Length", "64")
	}))
	defer srv.Close()

	results := testProber().Probe(context.Background(), []string{srv.URL})
	size := results[srv.URL]
	require.NotNil(t, size)
	assert.Equal(t, int64(64), *size)
	assert.Equal(t, int64(2), attempts.Load())
}

func TestProbeFailureIsolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(2048))
	}))
	defer srv.Close()

	good := srv.URL + "/good.tif"
	// Nothing listens on this port; the probe fails fast on every attempt.
	bad := "http://127.0.0.1:1/bad.tif"

	results := testProber().Probe(context.Background(), []string{good, bad})
	require.Len(t, results, 2)

	size := results[good]
	require.NotNil(t, size)
	assert.Equal(t, int64(2048), *size)
	assert.Nil(t, results[bad])
}

func TestProbeUnparseableHref(t *testing.T) {
	results := testProber().Probe(context.Background(), []string{"not a url", ""})
	assert.Nil(t, results["not a url"])
	assert.Nil(t, results[""])
}

func TestProbeEmptyBatch(t *testing.T) {
	results := testProber().Probe(context.Background(), nil)
	assert.Empty(t, results)
}

func TestProbeStalledRequestDoesNotBlockSiblings(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer slow.Close()
	defer close(release)

	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "10")
	}))
	defer fast.Close()

	p := NewHeadProber(ProberConfig{
		Workers:       2,
		Timeout:       200 * time.Millisecond,
		Retries:       0,
		BackoffBase:   time.Millisecond,
		DisableJitter: true,
	})

	start := time.Now()
	results := p.Probe(context.Background(), []string{slow.URL, fast.URL})
	elapsed := time.Since(start)

	require.NotNil(t, results[fast.URL])
	assert.Equal(t, int64(10), *results[fast.URL])
	assert.Nil(t, results[slow.URL])
	// The stalled probe is bounded by its own timeout, not the batch.
	assert.Less(t, elapsed, 2*time.Second)
}

func TestBackoffDelayDoubling(t *testing.T) {
	p := NewHeadProber(ProberConfig{BackoffBase: 100 * time.Millisecond, DisableJitter: true})
	assert.Equal(t, 100*time.Millisecond, p.backoffDelay(1))
	assert.Equal(t, 200*time.Millisecond, p.backoffDelay(2))
	assert.Equal(t, 400*time.Millisecond, p.backoffDelay(3))
}

func TestBackoffJitterBounds(t *testing.T) {
	p := NewHeadProber(ProberConfig{BackoffBase: 100 * time.Millisecond})
	for range 50 {
		d := p.backoffDelay(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.Less(t, d, 150*time.Millisecond)
	}
}
