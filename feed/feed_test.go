package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmint/nftplay/feed"
)

// feedServer pushes each payload to the first client that connects.
func feedServer(t *testing.T, payloads []string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "done")
		for _, p := range payloads {
			if err := conn.Write(r.Context(), websocket.MessageText, []byte(p)); err != nil {
				return
			}
		}
		// Hold the connection open until the client hangs up.
		conn.Read(r.Context())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClientReceivesEvents(t *testing.T) {
	srv := feedServer(t, []string{
		`{"type":"sale","tokenId":"42","data":{"price":"1.5"},"timestamp":1700000000000}`,
		`{"type":"transfer","tokenId":"42"}`,
		`not json at all`,
		`{"type":"offer","tokenId":"7"}`,
	})

	events := make(chan feed.Event, 8)
	client := feed.NewClient(wsURL(srv), func(ev feed.Event) { events <- ev })
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	assert.Equal(t, feed.StateConnected, client.State())

	var got []feed.Event
	timeout := time.After(5 * time.Second)
	for len(got) < 3 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out with %d events", len(got))
		}
	}

	assert.Equal(t, "sale", got[0].Type)
	assert.Equal(t, "42", got[0].TokenID)
	assert.Equal(t, int64(1700000000000), got[0].Timestamp)
	assert.Equal(t, "1.5", got[0].Data["price"])

	// The missing timestamp is filled in; the malformed frame is skipped.
	assert.Equal(t, "transfer", got[1].Type)
	assert.NotZero(t, got[1].Timestamp)
	assert.Equal(t, "offer", got[2].Type)
}

func TestClientConnectTwice(t *testing.T) {
	srv := feedServer(t, nil)

	client := feed.NewClient(wsURL(srv), nil)
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	assert.Error(t, client.Connect(context.Background()), "a live client refuses a second dial")
}

func TestClientDialFailure(t *testing.T) {
	client := feed.NewClient("ws://127.0.0.1:1/nope", nil)
	err := client.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, feed.StateError, client.State())
	assert.Error(t, client.LastError())
}

func TestClientClose(t *testing.T) {
	srv := feedServer(t, nil)

	client := feed.NewClient(wsURL(srv), nil)
	require.NoError(t, client.Connect(context.Background()))

	client.Close()
	assert.Equal(t, feed.StateDisconnected, client.State())

	// Close with no connection is harmless.
	client.Close()
}
