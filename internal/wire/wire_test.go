package wire

import (
	"Mintora/internal/api/config"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Backend = StorageMemory
	cfg.Coin.Protocol = "local"
	return cfg
}

func TestBuildApplicationInMemory(t *testing.T) {
	app, err := BuildApplication(&Infrastructure{}, devConfig())
	require.NoError(t, err)

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.CronMgr)
	assert.Nil(t, app.KafkaManager)
	assert.Nil(t, app.Producer)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/content", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"count":0,"data":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/content", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuildApplicationRejectsUnknownBackends(t *testing.T) {
	cfg := devConfig()
	cfg.Storage.Backend = "s3"
	_, err := BuildApplication(&Infrastructure{}, cfg)
	assert.Error(t, err)

	cfg = devConfig()
	cfg.Predictor.Scorer = "oracle"
	_, err = BuildApplication(&Infrastructure{}, cfg)
	assert.Error(t, err)

	cfg = devConfig()
	cfg.Coin.SeedPurchaseWei = "lots"
	_, err = BuildApplication(&Infrastructure{}, cfg)
	assert.Error(t, err)
}
