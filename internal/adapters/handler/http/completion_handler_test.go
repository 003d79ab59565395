package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/gbocchetta/habitflow-engine/internal/adapters/handler/http"
	"github.com/gbocchetta/habitflow-engine/internal/adapters/repository"
	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/gbocchetta/habitflow-engine/internal/core/services"
	"github.com/gbocchetta/habitflow-engine/internal/core/workers"
)

type completionTestEnv struct {
	router         *gin.Engine
	habitRepo      *repository.InMemoryHabitRepository
	completionRepo *repository.InMemoryCompletionRepository
}

func setupCompletionRouter() completionTestEnv {
	gin.SetMode(gin.TestMode)

	habitRepo := repository.NewInMemoryHabitRepository()
	completionRepo := repository.NewInMemoryCompletionRepository()
	worker := workers.NewStreakWorker(habitRepo, completionRepo)
	svc := services.NewCompletionService(completionRepo, habitRepo, worker)
	handler := adapterHTTP.NewCompletionHandler(svc)

	r := gin.New()
	group := r.Group("/api/v1")
	group.Use(testAuth())
	handler.RegisterRoutes(group)

	return completionTestEnv{router: r, habitRepo: habitRepo, completionRepo: completionRepo}
}

func seedCheckboxHabit(t *testing.T, env completionTestEnv, userID string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, "Meditate", "", "#FF5733", "", "", domain.TrackingCheckbox, "", 1)
	require.NoError(t, err)
	require.NoError(t, env.habitRepo.Create(context.Background(), h))
	return h
}

func TestCompletionHandler_Toggle(t *testing.T) {
	t.Run("Success: 200 with completed record", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10"}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body)

		assert.Equal(t, http.StatusOK, w.Code)

		var record domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.True(t, record.Completed)
		assert.Equal(t, h.ID, record.HabitID)
		assert.NotEmpty(t, record.ID)
	})

	t.Run("Success: second toggle inverts the same record", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10"}`, h.ID)

		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body)
		require.Equal(t, http.StatusOK, w.Code)
		var first domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

		w = doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body)
		require.Equal(t, http.StatusOK, w.Code)
		var second domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

		assert.Equal(t, first.ID, second.ID, "toggling must not mint a new record per flip")
		assert.False(t, second.Completed)
	})

	t.Run("Fail: 400 for malformed date", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "10/03/2024"}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 404 for unknown habit", func(t *testing.T) {
		env := setupCompletionRouter()

		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1",
			`{"habit_id": "ghost", "date": "2024-03-10"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 403 for someone else's habit", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10"}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-2", body)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCompletionHandler_SetCount(t *testing.T) {
	t.Run("Success: 200 with counted record", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10", "count": 12}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/count", "user-1", body)

		assert.Equal(t, http.StatusOK, w.Code)

		var record domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.Equal(t, 12, record.Count)
		assert.True(t, record.Completed)
	})

	t.Run("Edge Case: count zero clears completion", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10", "count": 0}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/count", "user-1", body)

		assert.Equal(t, http.StatusOK, w.Code)

		var record domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.Equal(t, 0, record.Count)
		assert.False(t, record.Completed)
	})

	t.Run("Fail: 400 for negative count", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10", "count": -5}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/count", "user-1", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCompletionHandler_Status(t *testing.T) {
	t.Run("Success: recorded day", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10", "count": 7}`, h.ID)
		require.Equal(t, http.StatusOK,
			doJSON(env.router, "POST", "/api/v1/completions/count", "user-1", body).Code)

		w := doJSON(env.router, "GET",
			"/api/v1/completions/status?habit_id="+h.ID+"&date=2024-03-10", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var status services.DayStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.True(t, status.Completed)
		assert.Equal(t, 7, status.Count)
	})

	t.Run("Success: silent day reads as zero, not an error", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		w := doJSON(env.router, "GET",
			"/api/v1/completions/status?habit_id="+h.ID+"&date=2024-03-10", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var status services.DayStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.False(t, status.Completed)
		assert.Equal(t, 0, status.Count)
	})

	t.Run("Fail: 400 without habit_id", func(t *testing.T) {
		env := setupCompletionRouter()

		w := doJSON(env.router, "GET", "/api/v1/completions/status?date=2024-03-10", "user-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCompletionHandler_List(t *testing.T) {
	t.Run("Success: range query returns recorded days", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		for _, d := range []string{"2024-03-08", "2024-03-09", "2024-03-10"} {
			body := fmt.Sprintf(`{"habit_id": %q, "date": %q}`, h.ID, d)
			require.Equal(t, http.StatusOK,
				doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body).Code)
		}

		w := doJSON(env.router, "GET",
			"/api/v1/completions?habit_id="+h.ID+"&from=2024-03-08&to=2024-03-09", "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)

		var list []*domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 2, "range end is inclusive and clips the 10th")
	})

	t.Run("Fail: 403 for someone else's habit", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		w := doJSON(env.router, "GET", "/api/v1/completions?habit_id="+h.ID, "user-2", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCompletionHandler_Delete(t *testing.T) {
	t.Run("Success: 204 No Content", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10"}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body)
		require.Equal(t, http.StatusOK, w.Code)

		var record domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))

		w = doJSON(env.router, "DELETE", "/api/v1/completions/"+record.ID, "user-1", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Fail: 404 for unknown record", func(t *testing.T) {
		env := setupCompletionRouter()

		w := doJSON(env.router, "DELETE", "/api/v1/completions/ghost", "user-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 403 deleting someone else's record", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10"}`, h.ID)
		w := doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body)
		require.Equal(t, http.StatusOK, w.Code)

		var record domain.Completion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))

		w = doJSON(env.router, "DELETE", "/api/v1/completions/"+record.ID, "user-2", "")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCompletionHandler_Sync(t *testing.T) {
	t.Run("Success: returns deltas after a timestamp", func(t *testing.T) {
		env := setupCompletionRouter()
		h := seedCheckboxHabit(t, env, "user-1")

		cutoff := time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)

		body := fmt.Sprintf(`{"habit_id": %q, "date": "2024-03-10"}`, h.ID)
		require.Equal(t, http.StatusOK,
			doJSON(env.router, "POST", "/api/v1/completions/toggle", "user-1", body).Code)

		w := doJSON(env.router, "GET", "/api/v1/completions/sync?since="+cutoff, "user-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"changes"`)
		assert.Contains(t, w.Body.String(), h.ID)
	})

	t.Run("Fail: 400 for malformed since", func(t *testing.T) {
		env := setupCompletionRouter()

		w := doJSON(env.router, "GET", "/api/v1/completions/sync?since=yesterday", "user-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
