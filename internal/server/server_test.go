package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/venue"
	"github.com/conecourse/editor/pkg/streaming"
)

type fakeSearcher struct {
	res venue.Result
	err error
}

func (f fakeSearcher) Search(context.Context, string) (venue.Result, error) {
	return f.res, f.err
}

func newTestServer(t *testing.T, searcher Searcher) *httptest.Server {
	t.Helper()
	s := New(config.ServerConfig{}, Deps{Searcher: searcher})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestHealthcheck(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchVenue(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		searcher Searcher
		status   int
	}{
		{"found", `{"address":"Pocono"}`, fakeSearcher{res: venue.Result{Address: "Pocono", Latitude: 41, Longitude: -75}}, http.StatusOK},
		{"missing address", `{}`, fakeSearcher{}, http.StatusBadRequest},
		{"bad json", `{`, fakeSearcher{}, http.StatusBadRequest},
		{"not found", `{"address":"nowhere"}`, fakeSearcher{err: venue.ErrNotFound}, http.StatusNotFound},
		{"upstream down", `{"address":"x"}`, fakeSearcher{err: errors.New("dial tcp: refused")}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.searcher)

			resp, err := http.Post(srv.URL+"/search_venue", "application/json", bytes.NewBufferString(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.status == http.StatusOK {
				assert.Equal(t, "Pocono", body["address"])
				assert.Equal(t, 41.0, body["latitude"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func dial(t *testing.T, srv *httptest.Server) *ws.Conn {
	t.Helper()
	c, _, err := ws.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func sendEvent(t *testing.T, c *ws.Conn, name string, payload any) {
	t.Helper()
	data, err := streaming.Marshal(name, payload)
	require.NoError(t, err)
	require.NoError(t, c.WriteMessage(ws.TextMessage, data))
}

// readUntil collects frames until one of type "ack" or "error" for event
// arrives, and returns every frame type seen with the final frame.
func readUntil(t *testing.T, c *ws.Conn, event string) ([]string, map[string]any) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(5*time.Second)))
	var types []string
	for {
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)
		var frame map[string]any
		require.NoError(t, json.Unmarshal(msg, &frame))
		typ, _ := frame["type"].(string)
		types = append(types, typ)
		if (typ == streaming.TypeAck || typ == streaming.TypeError) && frame["for"] == event {
			return types, frame
		}
	}
}

func TestSession_PlaceConeStreamsUpdates(t *testing.T) {
	srv := newTestServer(t, nil)
	c := dial(t, srv)

	sendEvent(t, c, "click", map[string]any{"latlng": map[string]float64{"lat": 39.95, "lng": -75.16}})
	types, ack := readUntil(t, c, "click")

	assert.Equal(t, streaming.TypeAck, ack["type"])
	assert.Contains(t, types, streaming.TypePlaceMarker)
	assert.Contains(t, types, streaming.TypeConeCount)
	assert.Contains(t, types, streaming.TypeUndoRedo)

	sendEvent(t, c, "undo", nil)
	types, ack = readUntil(t, c, "undo")
	assert.Equal(t, true, ack["result"])
	assert.Contains(t, types, streaming.TypeRemoveMarker)
}

func TestSession_ErrorsAreReported(t *testing.T) {
	srv := newTestServer(t, nil)
	c := dial(t, srv)

	sendEvent(t, c, "teleport", nil)
	_, frame := readUntil(t, c, "teleport")
	assert.Equal(t, streaming.TypeError, frame["type"])

	sendEvent(t, c, "copy", nil)
	types, frame := readUntil(t, c, "copy")
	assert.Equal(t, streaming.TypeError, frame["type"])
	assert.Contains(t, types, streaming.TypeWarning)
}

func TestSession_SessionsAreIndependent(t *testing.T) {
	srv := newTestServer(t, nil)
	a := dial(t, srv)
	b := dial(t, srv)

	sendEvent(t, a, "click", map[string]any{"latlng": map[string]float64{"lat": 1, "lng": 1}})
	readUntil(t, a, "click")

	sendEvent(t, b, "stats", nil)
	_, ack := readUntil(t, b, "stats")
	result := ack["result"].(map[string]any)
	assert.Equal(t, 0.0, result["coneCount"])
}

func TestSession_LargeImportDeliversEveryFrame(t *testing.T) {
	s := New(config.ServerConfig{SendBuffer: 8, WriteWait: 5 * time.Second}, Deps{})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	c := dial(t, srv)

	const n = 1200
	cones := make([]map[string]any, n)
	for i := range cones {
		cones[i] = map[string]any{
			"latlng": map[string]float64{"lat": 39.95 + float64(i)*1e-5, "lng": -75.16},
			"type":   "regular_cone",
		}
	}
	data, err := json.Marshal(map[string]any{"cones": cones})
	require.NoError(t, err)

	sendEvent(t, c, "import", map[string]any{"data": string(data)})
	types, ack := readUntil(t, c, "import")

	assert.Equal(t, streaming.TypeAck, ack["type"])
	markers := 0
	for _, typ := range types {
		if typ == streaming.TypePlaceMarker {
			markers++
		}
	}
	assert.Equal(t, n, markers)
}
