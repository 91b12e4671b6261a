package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	historyapp "github.com/wms/backend/internal/application/history"
	"github.com/wms/backend/internal/domain/history"
	"github.com/wms/backend/internal/domain/shared"
)

type fakeHistoryRepo struct {
	entries     []history.Entry
	lastArticle string
	lastFilter  shared.Filter
}

func (f *fakeHistoryRepo) Append(context.Context, *history.Entry) error {
	return nil
}

func (f *fakeHistoryRepo) FindAll(_ context.Context, filter shared.Filter) ([]history.Entry, error) {
	f.lastFilter = filter
	return f.entries, nil
}

func (f *fakeHistoryRepo) FindByArticle(_ context.Context, articleOld string, filter shared.Filter) ([]history.Entry, error) {
	f.lastArticle = articleOld
	f.lastFilter = filter
	return f.entries, nil
}

func (f *fakeHistoryRepo) Count(context.Context) (int64, error) {
	return int64(len(f.entries)), nil
}

func newHistoryRouter(t *testing.T, repo *fakeHistoryRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewHistoryHandler(historyapp.NewService(repo, nil)).RegisterRoutes(api)
	return engine
}

func TestHistoryHandlerList(t *testing.T) {
	repo := &fakeHistoryRepo{
		entries: []history.Entry{
			{
				ID:         uuid.New(),
				RecordedAt: time.Now(),
				UserName:   "scanner",
				ArticleOld: "100234",
				Quantity:   20,
				TargetSlot: "TGT-11",
			},
		},
	}

	t.Run("lists entries with pagination meta", func(t *testing.T) {
		engine := newHistoryRouter(t, repo)

		w := doJSON(t, engine, http.MethodGet, "/api/v1/history", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		entries := resp.Data.([]any)
		require.Len(t, entries, 1)
		assert.Equal(t, "100234", entries[0].(map[string]any)["article_old"])
	})

	t.Run("narrows to one article via query", func(t *testing.T) {
		engine := newHistoryRouter(t, repo)

		w := doJSON(t, engine, http.MethodGet, "/api/v1/history?article=100234", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "100234", repo.lastArticle)
	})

	t.Run("passes paging and ordering through", func(t *testing.T) {
		engine := newHistoryRouter(t, repo)

		w := doJSON(t, engine, http.MethodGet,
			"/api/v1/history?page=2&page_size=50&order_by=article_old&order_dir=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, repo.lastFilter.Page)
		assert.Equal(t, 50, repo.lastFilter.PageSize)
		assert.Equal(t, "article_old", repo.lastFilter.OrderBy)
		assert.Equal(t, "asc", repo.lastFilter.OrderDir)
	})

	t.Run("rejects an unknown order column", func(t *testing.T) {
		engine := newHistoryRouter(t, repo)

		w := doJSON(t, engine, http.MethodGet, "/api/v1/history?order_by=secrets", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
