package feature_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/environment"
	"github.com/dmitrymomot/flagkit/pkg/feature"
)

func newTestHandler(t *testing.T, opts ...feature.ServiceOption) http.Handler {
	t.Helper()
	svc, err := feature.NewService(testCatalog(t), environment.Static(environment.Production), opts...)
	require.NoError(t, err)
	return feature.Middleware()(feature.NewHandler(svc, nil))
}

func doRequest(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeFlag(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandler(t *testing.T) {
	t.Parallel()

	t.Run("list in catalog order", func(t *testing.T) {
		t.Parallel()
		w := doRequest(newTestHandler(t), http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var flags []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flags))
		require.Len(t, flags, 5)
		assert.Equal(t, "checkout-v2", flags[0]["name"])
		assert.Equal(t, "loose", flags[4]["name"])
		assert.Equal(t, "unset", flags[4]["state"])
	})

	t.Run("get one", func(t *testing.T) {
		t.Parallel()
		w := doRequest(newTestHandler(t), http.MethodGet, "/checkout-v2?ff_checkout-v2=on", "")
		require.Equal(t, http.StatusOK, w.Code)

		out := decodeFlag(t, w)
		assert.Equal(t, "on", out["state"])
		assert.Equal(t, "off", out["preferred_state"])
		assert.Equal(t, "query", out["source"])
		assert.Equal(t, "local", out["storage"])
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		assert.Equal(t, http.StatusNotFound, doRequest(h, http.MethodGet, "/missing", "").Code)
		assert.Equal(t, http.StatusNotFound, doRequest(h, http.MethodPut, "/missing/override", `{"value":"on"}`).Code)
		assert.Equal(t, http.StatusNotFound, doRequest(h, http.MethodDelete, "/missing/override", "").Code)
	})

	t.Run("set and clear override", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		w := doRequest(h, http.MethodPut, "/checkout-v2/override", `{"value":"enabled"}`)
		require.Equal(t, http.StatusOK, w.Code)
		out := decodeFlag(t, w)
		assert.Equal(t, "on", out["state"])
		assert.Equal(t, "persisted", out["source"])

		w = doRequest(h, http.MethodGet, "/checkout-v2", "")
		assert.Equal(t, "on", decodeFlag(t, w)["state"])

		w = doRequest(h, http.MethodDelete, "/checkout-v2/override", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = doRequest(h, http.MethodDelete, "/checkout-v2/override", "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(h, http.MethodGet, "/checkout-v2", "")
		assert.Equal(t, "off", decodeFlag(t, w)["state"])
	})

	t.Run("unsupported storage", func(t *testing.T) {
		t.Parallel()
		w := doRequest(newTestHandler(t), http.MethodPut, "/static/override", `{"value":"on"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("cookie flag without cookie store", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		w := doRequest(h, http.MethodPut, "/new-search/override", `{"value":"on"}`)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doRequest(h, http.MethodGet, "/new-search", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "off", decodeFlag(t, w)["state"])
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		assert.Equal(t, http.StatusBadRequest, doRequest(h, http.MethodPut, "/checkout-v2/override", `{"value":"maybe"}`).Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(h, http.MethodPut, "/checkout-v2/override", `not json`).Code)
		assert.Equal(t, http.StatusBadRequest, doRequest(h, http.MethodPut, "/checkout-v2/override",
			`{"value":"`+strings.Repeat("x", 2048)+`"}`).Code)
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		t.Parallel()
		store := &MockOverrideStore{}
		store.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dial tcp 10.0.0.1: refused"))
		h := newTestHandler(t, feature.WithStore(feature.StorageLocal, store))

		w := doRequest(h, http.MethodPut, "/checkout-v2/override", `{"value":"on"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "10.0.0.1")
	})
}
