package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/courtedge/courtedge/internal/models"
	"github.com/courtedge/courtedge/pkg/config"
)

// BallDontLieClient talks to the balldontlie NBA API. Every request passes
// through a shared token bucket sized to the provider's rate limit and a
// circuit breaker that sheds load once the upstream starts failing.
type BallDontLieClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewBallDontLieClient(cfg *config.Config, logger *logrus.Logger) *BallDontLieClient {
	perMinute := cfg.APIRateLimitPerMin
	if perMinute <= 0 {
		perMinute = 30
	}

	settings := gobreaker.Settings{
		Name:    "balldontlie",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.CircuitBreakerThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &BallDontLieClient{
		httpClient: &http.Client{Timeout: cfg.ExternalAPITimeout},
		baseURL:    strings.TrimRight(cfg.BallDontLieBaseURL, "/"),
		apiKey:     cfg.BallDontLieAPIKey,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

type statsResponse struct {
	Data []statLine `json:"data"`
	Meta struct {
		NextCursor *int `json:"next_cursor"`
	} `json:"meta"`
}

type statLine struct {
	Pts  int    `json:"pts"`
	Reb  int    `json:"reb"`
	Ast  int    `json:"ast"`
	Stl  int    `json:"stl"`
	Blk  int    `json:"blk"`
	Fg3m int    `json:"fg3m"`
	Min  string `json:"min"`
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Game struct {
		ID         int    `json:"id"`
		Date       string `json:"date"`
		HomeTeamID int    `json:"home_team_id"`
	} `json:"game"`
	Player struct {
		ID     int `json:"id"`
		TeamID int `json:"team_id"`
	} `json:"player"`
}

// GetPlayerGameLogs fetches a player's most recent games and maps them to
// engine game logs for the requested stat, ordered oldest to newest. An
// empty result is not an error; the scorer's zero-data fallback handles it.
func (c *BallDontLieClient) GetPlayerGameLogs(ctx context.Context, playerID int, statType models.StatType, count int) ([]models.GameLogEntry, error) {
	if count <= 0 {
		count = 20
	}

	params := url.Values{}
	params.Set("player_ids[]", strconv.Itoa(playerID))
	params.Set("per_page", strconv.Itoa(count))
	params.Set("seasons[]", strconv.Itoa(currentSeason()))

	var resp statsResponse
	if err := c.get(ctx, "/stats", params, &resp); err != nil {
		return nil, err
	}

	logs := make([]models.GameLogEntry, 0, len(resp.Data))
	for _, line := range resp.Data {
		value, ok := statValue(line, statType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown stat type %q", models.ErrInvalidInput, statType)
		}
		date, _ := time.Parse("2006-01-02", line.Game.Date)
		logs = append(logs, models.GameLogEntry{
			GameDate:      date,
			Opponent:      line.Team.Abbreviation,
			StatValue:     value,
			MinutesPlayed: ParseMinutes(line.Min),
			HomeGame:      line.Game.HomeTeamID == line.Player.TeamID,
		})
	}

	// The API returns newest first; the engine wants oldest first.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

type seasonAverageResponse struct {
	Data []struct {
		PlayerID int     `json:"player_id"`
		Pts      float64 `json:"pts"`
		Min      string  `json:"min"`
		Games    int     `json:"games_played"`
	} `json:"data"`
}

// GetPlayerSeasonAverage fetches season per-game averages for one player.
// Returns ErrNotFound when the provider has no rows for them.
func (c *BallDontLieClient) GetPlayerSeasonAverage(ctx context.Context, playerID int) (models.PlayerBaseline, error) {
	params := url.Values{}
	params.Set("player_id", strconv.Itoa(playerID))
	params.Set("season", strconv.Itoa(currentSeason()))

	var resp seasonAverageResponse
	if err := c.get(ctx, "/season_averages", params, &resp); err != nil {
		return models.PlayerBaseline{}, err
	}
	if len(resp.Data) == 0 {
		return models.PlayerBaseline{}, fmt.Errorf("%w: no season averages for player %d", models.ErrNotFound, playerID)
	}

	row := resp.Data[0]
	return models.PlayerBaseline{
		PlayerID:       row.PlayerID,
		PointsPerGame:  row.Pts,
		MinutesPerGame: ParseMinutes(row.Min),
	}, nil
}

type liveBoxScoreResponse struct {
	Data []liveGame `json:"data"`
}

type liveGame struct {
	ID            int          `json:"id"`
	Period        int          `json:"period"`
	TimeRemaining string       `json:"time"`
	HomeTeam      liveTeamSide `json:"home_team"`
	VisitorTeam   liveTeamSide `json:"visitor_team"`
}

type liveTeamSide struct {
	Abbreviation string `json:"abbreviation"`
	Score        int    `json:"score"`
	Players      []struct {
		Player struct {
			ID        int    `json:"id"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"player"`
		Min      string `json:"min"`
		Pts      int    `json:"pts"`
		Reb      int    `json:"reb"`
		Ast      int    `json:"ast"`
		Fgm      int    `json:"fgm"`
		Fga      int    `json:"fga"`
		Fg3m     int    `json:"fg3m"`
		Fg3a     int    `json:"fg3a"`
		Ftm      int    `json:"ftm"`
		Fta      int    `json:"fta"`
		Turnover int    `json:"turnover"`
		Pf       int    `json:"pf"`
	} `json:"players"`
}

// GetLiveBoxScore fetches the live box score for one game. Returns
// ErrNotFound when the game is not in today's live slate.
func (c *BallDontLieClient) GetLiveBoxScore(ctx context.Context, gameID int) (models.LiveGameSnapshot, error) {
	var resp liveBoxScoreResponse
	if err := c.get(ctx, "/box_scores/live", url.Values{}, &resp); err != nil {
		return models.LiveGameSnapshot{}, err
	}

	for _, g := range resp.Data {
		if g.ID != gameID {
			continue
		}
		return buildSnapshot(g), nil
	}
	return models.LiveGameSnapshot{}, fmt.Errorf("%w: game %d not live", models.ErrNotFound, gameID)
}

// GetLiveGameIDs lists the game IDs currently live.
func (c *BallDontLieClient) GetLiveGameIDs(ctx context.Context) ([]int, error) {
	var resp liveBoxScoreResponse
	if err := c.get(ctx, "/box_scores/live", url.Values{}, &resp); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(resp.Data))
	for _, g := range resp.Data {
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func buildSnapshot(g liveGame) models.LiveGameSnapshot {
	snap := models.LiveGameSnapshot{
		GameID:         g.ID,
		Period:         models.GamePeriod(g.Period),
		ClockRemaining: g.TimeRemaining,
		ElapsedMinutes: elapsedMinutes(g.Period, g.TimeRemaining),
		Home:           buildTeamLine(g.HomeTeam),
		Away:           buildTeamLine(g.VisitorTeam),
		FetchedAt:      time.Now().UTC(),
	}
	return snap
}

func buildTeamLine(side liveTeamSide) models.LiveTeamLine {
	team := models.LiveTeamLine{
		TeamAbbrev: side.Abbreviation,
		Points:     side.Score,
	}
	for _, p := range side.Players {
		minutes := ParseMinutes(p.Min)
		team.FGM += p.Fgm
		team.FGA += p.Fga
		team.FG3M += p.Fg3m
		team.FG3A += p.Fg3a
		team.FTM += p.Ftm
		team.FTA += p.Fta
		team.Turnovers += p.Turnover
		team.Players = append(team.Players, models.LivePlayerLine{
			PlayerID:      p.Player.ID,
			PlayerName:    strings.TrimSpace(p.Player.FirstName + " " + p.Player.LastName),
			TeamAbbrev:    side.Abbreviation,
			Points:        p.Pts,
			Rebounds:      p.Reb,
			Assists:       p.Ast,
			FGM:           p.Fgm,
			FGA:           p.Fga,
			FG3M:          p.Fg3m,
			FG3A:          p.Fg3a,
			FTM:           p.Ftm,
			FTA:           p.Fta,
			Turnovers:     p.Turnover,
			PersonalFouls: p.Pf,
			Minutes:       minutes,
			OnCourt:       minutes > 0,
		})
	}
	return team
}

func (c *BallDontLieClient) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		reqURL := c.baseURL + path
		if len(params) > 0 {
			reqURL += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: rate limited by upstream", models.ErrProviderUnavailable)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, path)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: unexpected status %d", models.ErrProviderUnavailable, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("BallDontLie request failed")
	}
	return err
}

func statValue(line statLine, statType models.StatType) (float64, bool) {
	switch statType {
	case models.StatPoints:
		return float64(line.Pts), true
	case models.StatRebounds:
		return float64(line.Reb), true
	case models.StatAssists:
		return float64(line.Ast), true
	case models.StatThrees:
		return float64(line.Fg3m), true
	case models.StatSteals:
		return float64(line.Stl), true
	case models.StatBlocks:
		return float64(line.Blk), true
	default:
		return 0, false
	}
}

// ParseMinutes handles the formats the provider emits for playing time:
// "34", "34:12", and ISO-8601 durations like "PT34M12.00S".
func ParseMinutes(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	if strings.HasPrefix(raw, "PT") {
		rest := strings.TrimPrefix(raw, "PT")
		var minutes float64
		if i := strings.Index(rest, "M"); i >= 0 {
			m, err := strconv.ParseFloat(rest[:i], 64)
			if err != nil {
				return 0
			}
			minutes = m
			rest = rest[i+1:]
		}
		if i := strings.Index(rest, "S"); i >= 0 {
			if s, err := strconv.ParseFloat(rest[:i], 64); err == nil {
				minutes += s / 60
			}
		}
		return minutes
	}

	if i := strings.Index(raw, ":"); i >= 0 {
		m, err1 := strconv.ParseFloat(raw[:i], 64)
		s, err2 := strconv.ParseFloat(raw[i+1:], 64)
		if err1 != nil || err2 != nil {
			return 0
		}
		return m + s/60
	}

	m, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return m
}

// elapsedMinutes converts period plus clock remaining to minutes played.
// Clock is time left in the current period.
func elapsedMinutes(period int, clock string) float64 {
	if period <= 0 {
		return 0
	}
	const quarterMinutes = 12.0
	completed := float64(period-1) * quarterMinutes
	return completed + (quarterMinutes - ParseMinutes(clock))
}

// currentSeason returns the balldontlie season key, which rolls over in
// October.
func currentSeason() int {
	now := time.Now()
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}
