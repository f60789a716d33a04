package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
)

type fakeDirectory struct {
	mu        sync.Mutex
	refreshes int
	patches   []map[int]int
}

func (d *fakeDirectory) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshes++
	return nil
}

func (d *fakeDirectory) PatchAvailability(counts map[int]int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.patches = append(d.patches, counts)
}

func (d *fakeDirectory) stats() (int, []map[int]int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshes, d.patches
}

// pushServer upgrades one connection, asserts the join frame, then sends the
// given frames and closes.
func pushServer(t *testing.T, frames []entities.Event) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var join entities.Event
		require.NoError(t, conn.ReadJSON(&join))
		require.Equal(t, entities.EventJoinUser, join.Kind)
		var data entities.JoinUserData
		require.NoError(t, json.Unmarshal(join.Data, &data))
		require.Equal(t, 7, data.UserID)

		for _, frame := range frames {
			require.NoError(t, conn.WriteJSON(frame))
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func frame(t *testing.T, kind entities.EventKind, data any) entities.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return entities.Event{Kind: kind, Data: raw}
}

func TestBridgeHandlesPushEvents(t *testing.T) {
	frames := []entities.Event{
		frame(t, entities.EventAvailabilityUpdate, entities.AvailabilityUpdate{"1": 2, "3": 0}),
		frame(t, entities.EventSpotVacated, entities.SpotEvent{LotID: 1, SpotID: 4}),
		frame(t, entities.EventSpotReserved, entities.SpotEvent{LotID: 1, SpotID: 5}),
		frame(t, entities.EventNewLotAdded, entities.LotAddedEvent{LotID: 9, LocationName: "Station West", MaxSpots: 10}),
		frame(t, entities.EventLotDeleted, entities.LotDeletedEvent{LotID: 2}),
	}
	srv := pushServer(t, frames)
	defer srv.Close()

	dir := &fakeDirectory{}
	rec := notify.NewRecorder()

	bridge, err := Dial(context.Background(), wsURL(srv), 7, dir, rec)
	require.NoError(t, err)
	defer bridge.Close()

	// Run returns once the server closes the connection.
	require.Error(t, bridge.Run(context.Background()))

	refreshes, patches := dir.stats()
	require.Equal(t, 4, refreshes)
	require.Len(t, patches, 1)
	require.Equal(t, map[int]int{1: 2, 3: 0}, patches[0])

	messages := rec.Messages()
	require.Contains(t, messages, "Connected to real-time updates")
	require.Contains(t, messages, "Spot 4 is now available!")
	require.Contains(t, messages, "Spot 5 has been reserved by another user")
	require.Contains(t, messages, "New parking lot added: Station West (10 spots)")
	require.Contains(t, messages, "A parking lot has been removed")
	require.Contains(t, messages, "Disconnected from real-time updates")
}

func TestBridgeCapacityEvents(t *testing.T) {
	frames := []entities.Event{
		frame(t, entities.EventSpotsAvailable, entities.CapacityEvent{
			LotID: 1, AvailableSpots: 3, Message: "Spots available in Central Plaza",
		}),
		frame(t, entities.EventSpotsFull, entities.CapacityEvent{
			LotID: 2, Message: "Riverside Mall is now full",
		}),
	}
	srv := pushServer(t, frames)
	defer srv.Close()

	dir := &fakeDirectory{}
	rec := notify.NewRecorder()

	bridge, err := Dial(context.Background(), wsURL(srv), 7, dir, rec)
	require.NoError(t, err)
	defer bridge.Close()
	require.Error(t, bridge.Run(context.Background()))

	messages := rec.Messages()
	require.Contains(t, messages, "Spots available in Central Plaza (3 spots available)")
	require.Contains(t, messages, "Riverside Mall is now full")

	refreshes, _ := dir.stats()
	require.Equal(t, 2, refreshes)
}

func TestBridgeIgnoresUnknownEvents(t *testing.T) {
	frames := []entities.Event{
		{Kind: "server_rebooted"},
		frame(t, entities.EventSpotVacated, entities.SpotEvent{SpotID: 4}),
	}
	srv := pushServer(t, frames)
	defer srv.Close()

	dir := &fakeDirectory{}
	rec := notify.NewRecorder()

	bridge, err := Dial(context.Background(), wsURL(srv), 7, dir, rec)
	require.NoError(t, err)
	defer bridge.Close()
	require.Error(t, bridge.Run(context.Background()))

	refreshes, _ := dir.stats()
	require.Equal(t, 1, refreshes)
}

func TestBridgeCloseLeavesRoom(t *testing.T) {
	got := make(chan entities.EventKind, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var join entities.Event
		require.NoError(t, conn.ReadJSON(&join))
		require.Equal(t, entities.EventJoinUser, join.Kind)

		var leave entities.Event
		require.NoError(t, conn.ReadJSON(&leave))
		got <- leave.Kind
	}))
	defer srv.Close()

	bridge, err := Dial(context.Background(), wsURL(srv), 7, &fakeDirectory{}, notify.NewRecorder())
	require.NoError(t, err)
	bridge.Close()

	select {
	case kind := <-got:
		require.Equal(t, entities.EventLeaveUser, kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no leave frame before the connection closed")
	}
}

func TestBridgeDialFailure(t *testing.T) {
	srv := pushServer(t, nil)
	srv.Close()

	_, err := Dial(context.Background(), wsURL(srv), 7, &fakeDirectory{}, notify.NewRecorder())
	require.Error(t, err)
}
