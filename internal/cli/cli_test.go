package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/pickteum-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pickteumctl", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"publish-scheduled", "feed", "categories"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "Command %s should exist", name)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestFeedCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	feedCmd, _, err := cmd.Find([]string{"feed"})
	require.NoError(t, err)

	for flag, def := range map[string]string{"category": "all", "limit": "10", "pages": "1"} {
		f := feedCmd.Flags().Lookup(flag)
		require.NotNil(t, f, "flag %s", flag)
		assert.Equal(t, def, f.DefValue)
	}
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	all := []string{"a", "b", "c", "d", "e"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/articles":
			page, _ := strconv.Atoi(r.URL.Query().Get("page"))
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			start, end := (page-1)*limit, page*limit
			if start > len(all) {
				start = len(all)
			}
			if end > len(all) {
				end = len(all)
			}
			articles := make([]models.ArticleSummary, 0)
			for _, id := range all[start:end] {
				articles = append(articles, models.ArticleSummary{
					ID: id, Slug: id, Title: "Title " + id, Date: "2025.03.15",
					Category: &models.CategoryLabel{Name: "정치", Color: "#ef4444"},
				})
			}
			json.NewEncoder(w).Encode(models.FeedPage{Articles: articles, HasMore: end < len(all)})
		case "/api/categories":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"categories": []models.Category{{Name: "정치", Color: "#ef4444", SortOrder: 1}},
			})
		case "/api/posts/publish-scheduled":
			if r.Header.Get("X-Cron-Token") != "cron-secret" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			w.Write([]byte(`{"success":true,"publishedCount":3}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PICKTEUM_TOKEN", "")
	t.Setenv("PICKTEUM_CRON_TOKEN", "")

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestFeedCommand_Text(t *testing.T) {
	srv := newAPI(t)

	out, err := run(t, "feed", "--server", srv.URL, "--limit", "2", "--pages", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Title a")
	assert.Contains(t, out, "Title d")
	assert.NotContains(t, out, "Title e")
	assert.Contains(t, out, "more available after page 2")
}

func TestFeedCommand_AllPagesJSON(t *testing.T) {
	srv := newAPI(t)

	out, err := run(t, "feed", "--server", srv.URL, "--limit", "2", "--pages", "0", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Articles []models.ArticleSummary `json:"articles"`
			HasMore  bool                    `json:"hasMore"`
			Pages    int                     `json:"pages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.Articles, 5)
	assert.False(t, resp.Data.HasMore)
	assert.Equal(t, 3, resp.Data.Pages)
}

func TestFeedCommand_InvalidLimit(t *testing.T) {
	_, err := run(t, "feed", "--limit", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPublishScheduledCommand(t *testing.T) {
	srv := newAPI(t)

	_, err := run(t, "publish-scheduled", "--server", srv.URL)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err), "missing credentials is a usage error")

	_, err = run(t, "publish-scheduled", "--server", srv.URL, "--cron-token", "wrong")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err), "rejected token is a server failure")

	out, err := run(t, "publish-scheduled", "--server", srv.URL, "--cron-token", "cron-secret")
	require.NoError(t, err)
	assert.Equal(t, "published 3 article(s)\n", out)
}

func TestCategoriesCommand(t *testing.T) {
	srv := newAPI(t)

	out, err := run(t, "categories", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "정치")
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "categories", "--format", "yaml")
	require.Error(t, err)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", assert.AnError)))
}
