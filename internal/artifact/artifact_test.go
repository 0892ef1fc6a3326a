package artifact

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFilePutReplacesAtomically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	store := NewFile(dir)

	loc, err := store.Put(context.Background(), DefaultName, []byte(`[1]`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultName), loc)

	_, err = store.Put(context.Background(), DefaultName, []byte(`[1,2]`))
	require.NoError(t, err)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFilePutHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFile(t.TempDir()).Put(ctx, DefaultName, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

type s3Request struct {
	method string
	path   string
	body   string
}

func fakeS3(t *testing.T, bucketExists bool) (*httptest.Server, *[]s3Request) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []s3Request
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, s3Request{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		if r.Method == http.MethodHead && !bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestMinioPut(t *testing.T) {
	srv, requests := fakeS3(t, true)

	store, err := NewMinio(context.Background(), MinioConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "sourcing",
		Region:    "us-east-1",
		Prefix:    "runs/2024",
	}, zap.NewNop())
	require.NoError(t, err)

	loc, err := store.Put(context.Background(), DefaultName, []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "s3://sourcing/runs/2024/batch_results.json", loc)

	var puts []s3Request
	for _, r := range *requests {
		if r.method == http.MethodPut {
			puts = append(puts, r)
		}
	}
	require.Len(t, puts, 1)
	assert.Equal(t, "/sourcing/runs/2024/batch_results.json", puts[0].path)
}

func TestMinioCreatesMissingBucket(t *testing.T) {
	srv, requests := fakeS3(t, false)

	_, err := NewMinio(context.Background(), MinioConfig{
		Endpoint: strings.TrimPrefix(srv.URL, "http://"),
		Bucket:   "sourcing",
		Region:   "us-east-1",
	}, nil)
	require.NoError(t, err)

	var created bool
	for _, r := range *requests {
		if r.method == http.MethodPut && strings.TrimSuffix(r.path, "/") == "/sourcing" {
			created = true
		}
	}
	assert.True(t, created)
}

func TestNewMinioRequiresBucket(t *testing.T) {
	_, err := NewMinio(context.Background(), MinioConfig{Endpoint: "localhost:9000"}, nil)
	assert.Error(t, err)
}
