package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"push-dispatch-backend/config"
	"push-dispatch-backend/internal/api"
	"push-dispatch-backend/internal/broker"
	"push-dispatch-backend/internal/db"
	"push-dispatch-backend/internal/dispatch"
	"push-dispatch-backend/internal/model"
	"push-dispatch-backend/internal/store"
)

type capturedJob struct {
	topic   string
	key     string
	payload []byte
}

// captureGateway is a broker stand-in that records each published job as
// its JSON wire form.
type captureGateway struct {
	jobs []capturedJob
}

func (g *captureGateway) Enqueue(_ context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	g.jobs = append(g.jobs, capturedJob{topic: topic, key: key, payload: data})
	return nil
}

type stubStatus struct{}

func (stubStatus) Healthy(context.Context) error { return nil }
func (stubStatus) URL() string                   { return "nats://test:4222" }

// TestPushDispatchLifecycle walks the whole surface end to end: a tenant
// registers devices, groups users into a tag, dispatches a push to the
// group, and the ledger plus the outbound queue reflect it.
func TestPushDispatchLifecycle(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	client := model.ApiClient{
		BundleID: "com.example.shop",
		Name:     "Shop",
		Token:    "shop-token",
		Status:   true,
	}
	require.NoError(t, testDB.Create(&client).Error)

	appStore := store.NewGormStore(testDB)
	gw := &captureGateway{}
	topics := broker.Topics{
		PushDispatch:   "push.dispatch",
		DeliveryEvents: "push.delivery",
		UserEvents:     "push.user-events",
	}
	dispatcher := dispatch.NewDispatcher(appStore, gw, topics.PushDispatch, zerolog.Nop())
	handler := api.NewHandler(appStore, dispatcher, gw, stubStatus{}, topics, zerolog.Nop())
	router := api.NewRouter(handler, appStore, &config.ServerConfig{
		RateLimitPerSec: 10000,
		RateLimitBurst:  10000,
		CacheTTLSeconds: 1,
	})

	call := func(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", "shop-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("Step 1: devices register", func(t *testing.T) {
		for i, dev := range []struct {
			user   int
			device string
			token  string
		}{
			{user: 1, device: "dev-1", token: "fcm-1"},
			{user: 2, device: "dev-2", token: "fcm-2"},
		} {
			w, resp := call(http.MethodPost, "/api/notification/devices/register", map[string]any{
				"app_user_id": dev.user,
				"device_id":   dev.device,
				"push_token":  dev.token,
				"platform":    "android",
			})
			require.Equal(t, http.StatusOK, w.Code, "registration %d", i)
			assert.Equal(t, true, resp["success"])
		}

		// One registry event per registration.
		var events int
		for _, j := range gw.jobs {
			if j.topic == "push.user-events" {
				events++
			}
		}
		assert.Equal(t, 2, events)
	})

	t.Run("Step 2: tag is created and populated", func(t *testing.T) {
		w, resp := call(http.MethodPost, "/api/notification/tags", map[string]any{"name": "customers"})
		require.Equal(t, http.StatusCreated, w.Code)
		data := resp["data"].(map[string]any)
		tagID := int64(data["id"].(float64))
		require.NotZero(t, tagID)

		w, resp = call(http.MethodPost, "/api/notification/tags/"+strconv.FormatInt(tagID, 10)+"/users", map[string]any{
			"user_ids": []int{1, 2},
		})
		require.Equal(t, http.StatusOK, w.Code)
		added := resp["data"].(map[string]any)["added"].(float64)
		assert.Equal(t, float64(2), added)
	})

	t.Run("Step 3: group push lands in ledger and queue", func(t *testing.T) {
		w, resp := call(http.MethodPost, "/api/notification/push/send-to-group", map[string]any{
			"tag": "customers",
			"message": map[string]any{
				"title": "Weekly deals",
				"body":  "Fresh offers inside",
			},
			"meta": map[string]any{"channel": "marketing", "route": "/deals"},
		})
		require.Equal(t, http.StatusAccepted, w.Code)

		data := resp["data"].(map[string]any)
		pushID := data["push_id"].(string)
		assert.Regexp(t, `^push_\d{10}$`, pushID)
		assert.Equal(t, float64(2), data["target_users"].(float64))

		var msg model.Message
		require.NoError(t, testDB.Where("bundle_id = ?", "com.example.shop").First(&msg).Error)
		assert.Equal(t, model.AudienceTag, msg.AudienceType)
		assert.Equal(t, model.StatusScheduled, msg.Status)
		assert.Equal(t, "marketing", msg.Category)
		assert.Equal(t, "Weekly deals", msg.Title)

		var dispatched []capturedJob
		for _, j := range gw.jobs {
			if j.topic == "push.dispatch" {
				dispatched = append(dispatched, j)
			}
		}
		require.Len(t, dispatched, 1)
		assert.Equal(t, pushID, dispatched[0].key)

		var job dispatch.PushJob
		require.NoError(t, json.Unmarshal(dispatched[0].payload, &job))
		assert.Equal(t, "com.example.shop", job.BundleID)
		assert.Equal(t, msg.ID, job.MessageID)
	})

	t.Run("Step 4: a device deactivation stops device sends", func(t *testing.T) {
		w, _ := call(http.MethodPost, "/api/notification/devices/deactivate", map[string]any{
			"device_id": "dev-2",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var dev model.Device
		require.NoError(t, testDB.
			Where("bundle_id = ? AND device_id = ?", "com.example.shop", "dev-2").
			First(&dev).Error)
		assert.Equal(t, model.TokenInactive, dev.TokenStatus)
	})
}
