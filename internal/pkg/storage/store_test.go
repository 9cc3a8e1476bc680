package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreIsContentAddressed(t *testing.T) {
	store := NewMemoryStore("https://gateway.test/cas/")
	ctx := context.Background()

	a, err := store.PutFile(ctx, "a.jpg", "image/jpeg", []byte("same bytes"))
	require.NoError(t, err)
	b, err := store.PutFile(ctx, "b.jpg", "image/jpeg", []byte("same bytes"))
	require.NoError(t, err)
	c, err := store.PutFile(ctx, "c.jpg", "image/jpeg", []byte("other bytes"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, SchemeCAS))
	assert.Equal(t, 2, store.Len())

	data, ok := store.Get(a)
	require.True(t, ok)
	assert.Equal(t, "same bytes", string(data))

	_, key := SplitLocator(a)
	assert.Equal(t, "https://gateway.test/cas/"+key, store.URL(a))
}

func TestMemoryStorePutJSON(t *testing.T) {
	store := NewMemoryStore("https://gateway.test")
	loc, err := store.PutJSON(context.Background(), "metadata.json", map[string]string{"name": "Test"})
	require.NoError(t, err)

	data, ok := store.Get(loc)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Test"}`, string(data))
}

func TestSplitLocator(t *testing.T) {
	scheme, key := SplitLocator("ipfs://bafy123")
	assert.Equal(t, SchemeIPFS, scheme)
	assert.Equal(t, "bafy123", key)

	scheme, key = SplitLocator("plain")
	assert.Empty(t, scheme)
	assert.Equal(t, "plain", key)
}

func TestPinningStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-jwt", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/pinning/pinFileToIPFS":
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			body, _ := io.ReadAll(file)
			assert.Equal(t, "cover.png", header.Filename)
			assert.Equal(t, "png-bytes", string(body))
			_, _ = w.Write([]byte(`{"IpfsHash":"bafyfile","PinSize":9}`))
		case "/pinning/pinJSONToIPFS":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, map[string]any{"name": "Test"}, req["pinataContent"])
			_, _ = w.Write([]byte(`{"IpfsHash":"bafyjson"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewPinningStore(srv.URL, "secret-jwt", "https://gw.test/")
	ctx := context.Background()

	loc, err := store.PutFile(ctx, "cover.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafyfile", loc)
	assert.Equal(t, "https://gw.test/ipfs/bafyfile", store.URL(loc))

	loc, err = store.PutJSON(ctx, "metadata.json", map[string]string{"name": "Test"})
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafyjson", loc)
}

func TestPinningStoreFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad jwt"}`))
	}))
	defer srv.Close()

	store := NewPinningStore(srv.URL, "wrong", srv.URL)
	_, err := store.PutFile(context.Background(), "a.mp3", "audio/mpeg", []byte("x"))
	assert.ErrorContains(t, err, "401")
}
