package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bookingapp "github.com/wms/backend/internal/application/booking"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/history"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

type fakeSource struct {
	items []booking.Item
}

func (f *fakeSource) FetchByBox(context.Context, string) ([]booking.Item, error) {
	return f.items, nil
}

func (f *fakeSource) FetchByOrder(context.Context, string) ([]booking.Item, error) {
	return f.items, nil
}

type fakeGateway struct {
	batches [][]booking.BookingItem
}

func (f *fakeGateway) BookItems(_ context.Context, items []booking.BookingItem) ([]booking.BookingItem, error) {
	f.batches = append(f.batches, items)
	return items, nil
}

type fakeScale struct {
	gross decimal.Decimal
	tare  decimal.Decimal
}

func (f *fakeScale) MeasureGross(context.Context) (decimal.Decimal, error) {
	return f.gross, nil
}

func (f *fakeScale) MeasureTare(context.Context) (decimal.Decimal, error) {
	return f.tare, nil
}

type fakeTares struct {
	tares map[string]decimal.Decimal
}

func (f *fakeTares) RegisteredTare(_ context.Context, binCode string) (decimal.Decimal, bool, error) {
	tare, ok := f.tares[binCode]
	return tare, ok, nil
}

func (f *fakeTares) Register(_ context.Context, binCode string, tare decimal.Decimal) error {
	if f.tares == nil {
		f.tares = make(map[string]decimal.Decimal)
	}
	f.tares[binCode] = tare
	return nil
}

type fakeSettings struct {
	percentage int
}

func (f *fakeSettings) Load(context.Context) (booking.ToleranceSettings, error) {
	return booking.ToleranceSettings{Percentage: f.percentage}, nil
}

func (f *fakeSettings) Save(_ context.Context, settings booking.ToleranceSettings) error {
	f.percentage = settings.Percentage
	return nil
}

func newSessionRouter(t *testing.T, quantities ...int64) (*gin.Engine, *fakeGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	items := make([]booking.Item, 0, len(quantities))
	for i, q := range quantities {
		item, err := booking.NewItem(
			fmt.Sprintf("1002%02d", i), fmt.Sprintf("A-1002%02d", i),
			"Test article", q, []string{"SRC-01"})
		require.NoError(t, err)
		item.BoxNumber = "BOX-7"
		items = append(items, *item)
	}

	gateway := &fakeGateway{}
	service := bookingapp.NewSessionService(bookingapp.SessionServiceConfig{
		Source:   &fakeSource{items: items},
		Gateway:  gateway,
		Scale:    &fakeScale{gross: decimal.NewFromFloat(2.0), tare: decimal.NewFromFloat(1.0)},
		Tares:    &fakeTares{tares: map[string]decimal.Decimal{"BIN001": decimal.NewFromFloat(1.2)}},
		Settings: &fakeSettings{percentage: 10},
		Ledger:   history.NewLedger(),
	})

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewSessionHandler(service).RegisterRoutes(api)
	return engine, gateway
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func openTestSession(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/v1/booking/sessions", gin.H{
		"box_number": "BOX-7",
		"user_name":  "scanner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	return data["id"].(string)
}

func TestSessionHandlerOpen(t *testing.T) {
	t.Run("opens a session for a box", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/booking/sessions", gin.H{
			"box_number": "BOX-7",
			"user_name":  "scanner",
		})

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, float64(1), data["total_items"])
	})

	t.Run("rejects both box and order", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)

		w := doJSON(t, engine, http.MethodPost, "/api/v1/booking/sessions", gin.H{
			"box_number":   "BOX-7",
			"order_number": "ORD-1",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/booking/sessions",
			bytes.NewReader([]byte("{not json")))
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionHandlerGet(t *testing.T) {
	t.Run("returns the session state", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodGet, "/api/v1/booking/sessions/"+id, nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "BOX-7", data["box_number"])
	})

	t.Run("rejects a malformed ID", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)

		w := doJSON(t, engine, http.MethodGet, "/api/v1/booking/sessions/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404s for an unknown session", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)

		w := doJSON(t, engine, http.MethodGet,
			"/api/v1/booking/sessions/6f1f66a3-318f-4ae9-9b8e-6b02771fbc6a", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestSessionHandlerBooking(t *testing.T) {
	t.Run("books the item and submits the batch", func(t *testing.T) {
		engine, gateway := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/targets", gin.H{"slots": []string{"TGT-11"}})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/confirm", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, true, data["booked"])
		assert.Equal(t, true, data["completed"])
		require.Len(t, gateway.batches, 1)
		assert.Equal(t, int64(100), gateway.batches[0][0].Quantity)
	})

	t.Run("confirm without a target is rejected", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/confirm", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("manual shortfall inside tolerance raises a prompt", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/mode", gin.H{"mode": "manual"})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/quantity", gin.H{"quantity": 95})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/targets", gin.H{"slots": []string{"TGT-11"}})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/confirm", nil)
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]any)
		assert.Equal(t, false, data["booked"])
		prompt := data["prompt"].(map[string]any)
		assert.Equal(t, "shortage", prompt["kind"])
	})

	t.Run("prompt resolution books with a correction", func(t *testing.T) {
		engine, gateway := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/mode", gin.H{"mode": "manual"})
		doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/quantity", gin.H{"quantity": 95})
		doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/targets", gin.H{"slots": []string{"TGT-11"}})
		doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/confirm", nil)

		w := doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/correction", gin.H{
				"action": "adjust",
				"reason": "loss",
			})
		require.Equal(t, http.StatusOK, w.Code)

		require.Len(t, gateway.batches, 1)
		booked := gateway.batches[0][0]
		require.NotNil(t, booked.Correction)
		assert.Equal(t, booking.CorrectionTypeShortage, booked.Correction.Type)
	})

	t.Run("invalid correction action fails binding", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/correction", gin.H{"action": "ignore"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid mode fails binding", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodPut,
			"/api/v1/booking/sessions/"+id+"/mode", gin.H{"mode": "psychic"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionHandlerWeighing(t *testing.T) {
	t.Run("runs the scale workflow end to end", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)
		base := "/api/v1/booking/sessions/" + id

		w := doJSON(t, engine, http.MethodPut, base+"/mode", gin.H{"mode": "scale"})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, http.MethodPost, base+"/weighing/scan", gin.H{"bin_code": "BIN001"})
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		weighing := resp.Data.(map[string]any)["weighing"].(map[string]any)
		assert.Equal(t, true, weighing["has_bin_tare"])

		w = doJSON(t, engine, http.MethodPost, base+"/weighing/tare/bin", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, engine, http.MethodPost, base+"/weighing/weigh", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp = decodeResponse(t, w)
		weighing = resp.Data.(map[string]any)["weighing"].(map[string]any)
		// (2.0 - 1.2) / 0.2 = 4
		assert.Equal(t, float64(4), weighing["candidate"])

		w = doJSON(t, engine, http.MethodPost, base+"/weighing/accept", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("weighing outside scale mode is a state error", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)

		w := doJSON(t, engine, http.MethodPost,
			"/api/v1/booking/sessions/"+id+"/weighing/weigh", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("manual tare must be positive", func(t *testing.T) {
		engine, _ := newSessionRouter(t, 100)
		id := openTestSession(t, engine)
		base := "/api/v1/booking/sessions/" + id

		doJSON(t, engine, http.MethodPut, base+"/mode", gin.H{"mode": "scale"})

		w := doJSON(t, engine, http.MethodPut, base+"/weighing/tare", gin.H{"tare_weight": -1.0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionHandlerCancel(t *testing.T) {
	engine, gateway := newSessionRouter(t, 100)
	id := openTestSession(t, engine)

	w := doJSON(t, engine, http.MethodPost,
		"/api/v1/booking/sessions/"+id+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["closed"])
	assert.Empty(t, gateway.batches)
}
