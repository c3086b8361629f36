package adminhttp

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/volatixdb/volatix/internal/keyspace"
	"github.com/volatixdb/volatix/internal/value"
)

func TestMetricsAndHealthz(t *testing.T) {
	ks := keyspace.New(keyspace.DefaultOptions())
	require.NoError(t, ks.Insert("k", value.FromInt(1)))
	ks.Get("k")
	ks.Get("missing")

	srv, err := Start("127.0.0.1:0", ks)
	require.NoError(t, err)
	defer srv.Shutdown(context.Background())

	addr := srv.Addr
	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = http.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "volatix_hits_total")
}
