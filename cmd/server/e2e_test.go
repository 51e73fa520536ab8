package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/handler"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/app"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/schema"
)

func TestIntegration(t *testing.T) {
	// 1. Setup DB
	repo, err := sqlite.NewSQLiteRepository("file:e2e?mode=memory&cache=shared")
	require.NoError(t, err)

	// 2. Setup App
	cfg := &config.Config{JWTSecret: "e2e-secret", SettingsCollection: "settings", FrontendURL: "http://localhost:3000/admin"}
	a := app.NewWithStore(cfg, zerolog.Nop(), schema.Default(), repo)
	defer a.Close()

	server := httptest.NewServer(a.Handler())
	defer server.Close()

	token, _, err := handler.SignToken([]byte(cfg.JWTSecret), "owner@example.com", time.Hour)
	require.NoError(t, err)

	client := server.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	send := func(method, path string, payload any) *http.Response {
		t.Helper()
		var body bytes.Buffer
		if payload != nil {
			require.NoError(t, json.NewEncoder(&body).Encode(payload))
		}
		req, err := http.NewRequest(method, server.URL+path, &body)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		resp, err := client.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	// TEST 1: API without a session is rejected
	resp, err := client.Get(server.URL + "/api/v1/me")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// TEST 2: Create records
	resp = send(http.MethodPost, "/api/v1/content/experience", map[string]any{
		"company":      "Acme",
		"position":     "Engineer",
		"period":       "2020 - 2023",
		"achievements": "Shipped v2, Cut costs",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, []any{"Shipped v2", "Cut costs"}, created["achievements"])

	resp = send(http.MethodPost, "/api/v1/content/experience", map[string]any{
		"company": "Initech", "position": "Lead", "period": "2023 - now", "order": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// TEST 3: List comes back in display order
	resp = send(http.MethodGet, "/api/v1/content/experience", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Records   []map[string]any `json:"records"`
		NextOrder int              `json:"next_order"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Records, 2)
	assert.Equal(t, "Acme", list.Records[0]["company"])
	assert.Equal(t, "Initech", list.Records[1]["company"], "ties keep storage order")
	assert.Equal(t, 1, list.NextOrder)

	// TEST 4: Partial update keeps other fields
	resp = send(http.MethodPut, "/api/v1/content/experience/"+id, map[string]any{"order": 3, "location": "Remote"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	assert.EqualValues(t, 3, updated["order"])
	assert.Equal(t, "Acme", updated["company"])
	assert.Equal(t, "Remote", updated["location"])

	// TEST 5: Settings overlay defaults
	resp = send(http.MethodPut, "/api/v1/settings/about", map[string]any{"title": "Who I am"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var settings struct {
		Settings map[string]any `json:"settings"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settings))
	assert.Equal(t, "Who I am", settings.Settings["title"])
	assert.Equal(t, "About Me", settings.Settings["subtitle"])

	// TEST 6: Delete
	resp = send(http.MethodDelete, "/api/v1/content/experience/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// TEST 7: Export (Dump)
	snap, err := a.Export(t.Context())
	require.NoError(t, err)
	assert.Len(t, snap.Collections["experience"], 1)
	assert.Contains(t, snap.Settings, "about")
}
