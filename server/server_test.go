package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/nim-rl/rl"
)

// firstChooser always plays the lowest-keyed action, which makes every
// machine reply predictable.
type firstChooser struct{}

func (firstChooser) ChooseAction(state rl.State, explore bool) (rl.Action, error) {
	actions := state.Actions()
	if len(actions) == 0 {
		return nil, rl.ErrNoAvailableActions
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].Hash() < actions[j].Hash() })
	return actions[0], nil
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := make(map[string]interface{})
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestHealth(t *testing.T) {
	srv := New("localhost:0", firstChooser{}, nil)
	code, resp := doRequest(t, srv.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", resp["message"])
}

func TestCreateGame(t *testing.T) {
	srv := New("localhost:0", firstChooser{}, nil)

	t.Run("custom board", func(t *testing.T) {
		code, resp := doRequest(t, srv.Handler(), http.MethodPost, "/games",
			map[string]interface{}{"piles": []int{1, 2}})
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, resp["id"])
		require.Equal(t, []interface{}{float64(1), float64(2)}, resp["piles"])
		require.Equal(t, float64(0), resp["player"])
		require.Equal(t, float64(0), resp["human_player"])
		require.NotContains(t, resp, "winner")
	})

	t.Run("default board", func(t *testing.T) {
		code, resp := doRequest(t, srv.Handler(), http.MethodPost, "/games", nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, []interface{}{float64(1), float64(3), float64(5), float64(7)}, resp["piles"])
	})

	t.Run("machine opens when the human sits second", func(t *testing.T) {
		code, resp := doRequest(t, srv.Handler(), http.MethodPost, "/games",
			map[string]interface{}{"piles": []int{1, 2}, "human_player": 1})
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, []interface{}{float64(0), float64(2)}, resp["piles"])
		require.Equal(t, float64(1), resp["player"])
		require.Equal(t, map[string]interface{}{"pile": float64(0), "count": float64(1)}, resp["last_ai_move"])
	})

	t.Run("rejects a bad seat", func(t *testing.T) {
		code, _ := doRequest(t, srv.Handler(), http.MethodPost, "/games",
			map[string]interface{}{"human_player": 5})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("rejects an empty board", func(t *testing.T) {
		code, _ := doRequest(t, srv.Handler(), http.MethodPost, "/games",
			map[string]interface{}{"piles": []int{0, 0}})
		require.Equal(t, http.StatusBadRequest, code)
	})
}

func TestPlayThrough(t *testing.T) {
	srv := New("localhost:0", firstChooser{}, nil)

	_, created := doRequest(t, srv.Handler(), http.MethodPost, "/games",
		map[string]interface{}{"piles": []int{1, 2}})
	id := created["id"].(string)

	// human empties pile 1, the machine is forced to take the last object
	code, resp := doRequest(t, srv.Handler(), http.MethodPost, "/games/"+id+"/move",
		map[string]interface{}{"pile": 1, "count": 2})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []interface{}{float64(0), float64(0)}, resp["piles"])
	require.Equal(t, float64(0), resp["winner"])
	require.Equal(t, true, resp["human_won"])
	require.Equal(t, map[string]interface{}{"pile": float64(0), "count": float64(1)}, resp["last_ai_move"])

	t.Run("finished games reject moves", func(t *testing.T) {
		code, resp := doRequest(t, srv.Handler(), http.MethodPost, "/games/"+id+"/move",
			map[string]interface{}{"pile": 0, "count": 1})
		require.Equal(t, http.StatusBadRequest, code)
		require.Contains(t, resp["error"], "already over")
	})

	t.Run("state survives for later reads", func(t *testing.T) {
		code, resp := doRequest(t, srv.Handler(), http.MethodGet, "/games/"+id, nil)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, float64(0), resp["winner"])
	})

	t.Run("delete ends the session", func(t *testing.T) {
		code, _ := doRequest(t, srv.Handler(), http.MethodDelete, "/games/"+id, nil)
		require.Equal(t, http.StatusOK, code)
		code, _ = doRequest(t, srv.Handler(), http.MethodGet, "/games/"+id, nil)
		require.Equal(t, http.StatusNotFound, code)
	})
}

func TestMoveValidation(t *testing.T) {
	srv := New("localhost:0", firstChooser{}, nil)

	_, created := doRequest(t, srv.Handler(), http.MethodPost, "/games",
		map[string]interface{}{"piles": []int{1, 2}})
	id := created["id"].(string)

	t.Run("pile out of range", func(t *testing.T) {
		code, resp := doRequest(t, srv.Handler(), http.MethodPost, "/games/"+id+"/move",
			map[string]interface{}{"pile": 9, "count": 1})
		require.Equal(t, http.StatusBadRequest, code)
		require.NotEmpty(t, resp["error"])
	})

	t.Run("count out of range", func(t *testing.T) {
		code, _ := doRequest(t, srv.Handler(), http.MethodPost, "/games/"+id+"/move",
			map[string]interface{}{"pile": 0, "count": 5})
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("rejected moves leave the board alone", func(t *testing.T) {
		_, resp := doRequest(t, srv.Handler(), http.MethodGet, "/games/"+id, nil)
		require.Equal(t, []interface{}{float64(1), float64(2)}, resp["piles"])
	})

	t.Run("unknown game", func(t *testing.T) {
		code, _ := doRequest(t, srv.Handler(), http.MethodPost, "/games/nope/move",
			map[string]interface{}{"pile": 0, "count": 1})
		require.Equal(t, http.StatusNotFound, code)
	})
}
