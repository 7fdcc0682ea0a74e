package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	ex "wpicorr/data/extensions"
	dm "wpicorr/data/models"
)

func TestProgressHubBroadcasts(t *testing.T) {
	hub := NewProgressHub(arbor.NewLogger())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Report(ProgressEvent{
		RunID: "run-1",
		Stock: "TCS",
		Index: 0,
		Total: 2,
		Stage: StageRisk,
		Risk:  &dm.RiskProfile{Symbol: "TCS", Beta: null.FloatFrom(0.8)},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg wsMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	ex.AssertAreEqual(t, "type", "progress", msg.Type)
	ex.AssertAreEqual(t, "stage", StageRisk, msg.Payload.Stage)
	ex.AssertAreEqual(t, "beta", 0.8, msg.Payload.Risk.Beta.Float64)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFanOutReportsToEveryone(t *testing.T) {
	a, b := &recordingReporter{}, &recordingReporter{}
	FanOut{a, b, NewLogReporter(arbor.NewLogger())}.Report(ProgressEvent{Stage: StageBatchStarted})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
}
