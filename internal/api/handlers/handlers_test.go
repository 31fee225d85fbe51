package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/internal/services"
	"github.com/courtedge/courtedge/pkg/config"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return fmt.Errorf("%w: cache key %s", models.ErrNotFound, key)
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok, nil
}

type stubProvider struct {
	logs      map[int][]models.GameLogEntry
	snapshots map[int]models.LiveGameSnapshot
}

func (s *stubProvider) GetPlayerGameLogs(ctx context.Context, playerID int, statType models.StatType, count int) ([]models.GameLogEntry, error) {
	return s.logs[playerID], nil
}

func (s *stubProvider) GetPlayerSeasonAverage(ctx context.Context, playerID int) (models.PlayerBaseline, error) {
	return models.PlayerBaseline{}, fmt.Errorf("%w: player %d", models.ErrNotFound, playerID)
}

func (s *stubProvider) GetLiveBoxScore(ctx context.Context, gameID int) (models.LiveGameSnapshot, error) {
	snap, ok := s.snapshots[gameID]
	if !ok {
		return models.LiveGameSnapshot{}, fmt.Errorf("%w: game %d", models.ErrNotFound, gameID)
	}
	return snap, nil
}

func (s *stubProvider) GetLiveGameIDs(ctx context.Context) ([]int, error) {
	ids := make([]int, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	return ids, nil
}

func testRouter(provider *stubProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		StatsCacheTTL:         time.Hour,
		LiveCacheTTL:          5 * time.Minute,
		ParlayConfidenceFloor: 58,
		ParlayMaxLegs:         3,
		BlowoutThreshold:      20,
		FoulTroubleThreshold:  4,
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cache := newMemoryCache()
	stats := services.NewStatsService(provider, cache, cfg, logger)
	baselines := services.NewBaselineService(cache, logger)
	analyzer := services.NewAnalyzerService(stats, cfg, logger)
	halftime := services.NewHalftimeService(stats, baselines, cache, cfg, logger)

	router := gin.New()
	router.POST("/props/analyze", NewPropsHandler(analyzer).AnalyzeProps)
	router.GET("/games/live", NewGamesHandler(stats).ListLiveGames)
	router.GET("/games/:gameId/halftime", NewHalftimeHandler(halftime).GetProjection)
	router.GET("/games/:gameId/halftime/cached", NewHalftimeHandler(halftime).GetCachedProjection)
	return router
}

func overProp(playerID int, line float64) map[string]interface{} {
	return map[string]interface{}{
		"player_id": playerID,
		"stat_type": "points",
		"line":      line,
		"direction": "over",
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeProps_Endpoint(t *testing.T) {
	logs := make([]models.GameLogEntry, 10)
	for i := range logs {
		logs[i] = models.GameLogEntry{StatValue: 27, MinutesPlayed: 35}
	}
	router := testRouter(&stubProvider{logs: map[int][]models.GameLogEntry{1: logs}})

	w := postJSON(t, router, "/props/analyze", map[string]interface{}{
		"props": []interface{}{overProp(1, 20.5)},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			RunID   string                      `json:"run_id"`
			Results []models.PropAnalysisResult `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.RunID)
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, models.TierStrongBet, resp.Data.Results[0].Recommendation)
}

func TestAnalyzeProps_EmptySlipRejected(t *testing.T) {
	router := testRouter(&stubProvider{})

	w := postJSON(t, router, "/props/analyze", map[string]interface{}{"props": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeProps_TooManyProps(t *testing.T) {
	router := testRouter(&stubProvider{})

	props := make([]interface{}, 26)
	for i := range props {
		props[i] = overProp(i+1, 10.5)
	}
	w := postJSON(t, router, "/props/analyze", map[string]interface{}{"props": props})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjection_GameNotLive(t *testing.T) {
	router := testRouter(&stubProvider{snapshots: map[int]models.LiveGameSnapshot{}})

	req := httptest.NewRequest(http.MethodGet, "/games/404/halftime", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProjection_InvalidGameID(t *testing.T) {
	router := testRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/games/abc/halftime", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProjection_WithLine(t *testing.T) {
	snap := models.LiveGameSnapshot{
		GameID:         15907,
		Period:         models.PeriodSecondQuarter,
		ElapsedMinutes: 24,
		Home: models.LiveTeamLine{
			TeamAbbrev: "BOS", Points: 58,
			FGM: 22, FGA: 45, FG3M: 8, FG3A: 20, FTM: 6, FTA: 8, Turnovers: 7,
			QuarterPts: []int{30, 28},
		},
		Away: models.LiveTeamLine{
			TeamAbbrev: "NYK", Points: 52,
			FGM: 20, FGA: 44, FG3M: 5, FG3A: 16, FTM: 7, FTA: 9, Turnovers: 8,
			QuarterPts: []int{25, 27},
		},
	}
	router := testRouter(&stubProvider{snapshots: map[int]models.LiveGameSnapshot{15907: snap}})

	req := httptest.NewRequest(http.MethodGet, "/games/15907/halftime?line=215.5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data models.HalftimeProjection `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 110, resp.Data.FirstHalfTotal)
	assert.NotZero(t, resp.Data.TotalsEdge)
	require.NotNil(t, resp.Data.LiveLine)
	assert.Equal(t, 215.5, *resp.Data.LiveLine)
}

func TestGetCachedProjection_NotFound(t *testing.T) {
	router := testRouter(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/games/15907/halftime/cached", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLiveGames(t *testing.T) {
	router := testRouter(&stubProvider{snapshots: map[int]models.LiveGameSnapshot{
		1: {GameID: 1}, 2: {GameID: 2},
	}})

	req := httptest.NewRequest(http.MethodGet, "/games/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			GameIDs []int `json:"game_ids"`
		} `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Meta.Count)
	assert.ElementsMatch(t, []int{1, 2}, resp.Data.GameIDs)
}
