package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shouni/go-dungeon-buddy/pkg/config"
)

const paladinPage = `<html><head><title>Paladin</title></head><body>
<div id="pageAttrs"><div class="col-md-3 attrName">Hit Die</div><div class="value">d10</div></div>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/compendium/dnd5e/searchbook/":
			if r.URL.Query().Get("terms") == "paladin" {
				http.Redirect(w, r, "/compendium/dnd5e/Paladin", http.StatusFound)
				return
			}
			_, _ = w.Write([]byte(`<html><head><title>Search</title></head><body><ul></ul></body></html>`))
		case "/compendium/dnd5e/Paladin":
			if ua := r.Header.Get("User-Agent"); ua != "buddy-test" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(paladinPage))
		case "/compendium/compendium/globalsearch/dnd5e":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"value":"Paladin"},{"value":"Paladin: Oath of Vengeance"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// newSlowListingSite は n 件の候補を持つ一覧を返し、各候補ページの応答を delay だけ遅らせます。
func newSlowListingSite(t *testing.T, n int, delay time.Duration) *httptest.Server {
	t.Helper()

	var listing strings.Builder
	listing.WriteString(`<html><head><title>Search</title></head><body><ul>`)
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&listing, `<li><span></span><a href="/compendium/dnd5e/Fire%%20%d">Fire %d</a></li>`, i, i)
	}
	listing.WriteString(`</ul></body></html>`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/compendium/dnd5e/searchbook/" {
			_, _ = w.Write([]byte(listing.String()))
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/compendium/dnd5e/")
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		fmt.Fprintf(w, `<html><head><title>%s</title></head><body></body></html>`, name)
	}))
	t.Cleanup(server.Close)
	return server
}

func newApp(t *testing.T, baseURL string, logger *zap.Logger, overrides ...func(*config.Config)) *App {
	t.Helper()

	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.UserAgent = "buddy-test"
	cfg.TimeoutSec = 5
	for _, override := range overrides {
		override(&cfg)
	}
	app, err := Build(cfg, logger)
	require.NoError(t, err)
	return app
}

func TestBuild_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.BaseURL = "ftp://roll20.net"

	_, err := Build(cfg, nil)
	assert.Error(t, err)
}

func TestApp_LookupTerm(t *testing.T) {
	site := newSite(t)
	core, logs := observer.New(zapcore.DebugLevel)
	app := newApp(t, site.URL, zap.New(core))

	got, err := app.LookupTerm(context.Background(), "paladin")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Paladin","Hit Die":"d10"}`, got)

	assert.NotZero(t, logs.FilterMessage("lookup").Len())
	assert.NotZero(t, logs.FilterMessage("http get").Len())

	got, err = app.LookupTerm(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	_, err = app.LookupTerm(context.Background(), "   ")
	assert.Error(t, err)
}

func TestApp_LookupTerm_ManySlowCandidates(t *testing.T) {
	const candidates = 8
	site := newSlowListingSite(t, candidates, 300*time.Millisecond)

	t.Run("only the per-request timeout applies by default", func(t *testing.T) {
		app := newApp(t, site.URL, nil, func(cfg *config.Config) { cfg.TimeoutSec = 1 })

		got, err := app.LookupTerm(context.Background(), "fire")
		require.NoError(t, err)

		var entries []map[string]map[string]string
		require.NoError(t, json.Unmarshal([]byte(got), &entries))
		require.Len(t, entries, candidates)
		assert.Equal(t, "Fire 8", entries[candidates-1]["Fire 8"]["title"])
	})

	t.Run("configured overall timeout bounds the whole lookup", func(t *testing.T) {
		app := newApp(t, site.URL, nil, func(cfg *config.Config) {
			cfg.TimeoutSec = 1
			cfg.OverallTimeoutSec = 1
		})

		_, err := app.LookupTerm(context.Background(), "fire")
		assert.Error(t, err)
	})
}

func TestApp_SuggestTerms(t *testing.T) {
	site := newSite(t)
	app := newApp(t, site.URL, nil)

	got, err := app.SuggestTerms(context.Background(), "pal")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paladin", "Paladin: Oath of Vengeance"}, got)
}

func TestApp_LookupAll(t *testing.T) {
	site := newSite(t)
	app := newApp(t, site.URL, nil)

	results := app.LookupAll(context.Background(), []string{"paladin", "", "nothing"})
	require.Len(t, results, 2)
	assert.Equal(t, "paladin", results[0].Term)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, `{"title":"Paladin","Hit Die":"d10"}`, results[0].JSON)
	assert.Equal(t, "[]", results[1].JSON)
}
