// Package realtime subscribes to the backend's push channel and maps each
// event kind to a notification and, where required, a directory refresh. All
// reactions are fire-and-forget; no acknowledgement goes back to the server.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
)

// Directory is the slice of DirectoryService the bridge needs.
type Directory interface {
	Refresh(ctx context.Context) error
	PatchAvailability(counts map[int]int)
}

type Bridge struct {
	conn      *websocket.Conn
	directory Directory
	notifier  notify.Notifier
}

// Dial connects to the push channel and joins the user's room. Connecting
// notifies only; the first data load is the caller's job.
func Dial(ctx context.Context, url string, userID int, directory Directory, notifier notify.Notifier) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial push channel: %w", err)
	}

	join, err := json.Marshal(entities.JoinUserData{UserID: userID})
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteJSON(entities.Event{Kind: entities.EventJoinUser, Data: join}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join push channel: %w", err)
	}

	notifier.Notify(notify.Info, "Connected to real-time updates")
	return &Bridge{conn: conn, directory: directory, notifier: notifier}, nil
}

// Run reads events until the connection drops or ctx is done. Events may
// arrive out of order relative to the user's own in-flight actions; the
// directory refresh is an idempotent full replace, so redundant or
// out-of-order refreshes are harmless.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var event entities.Event
		if err := b.conn.ReadJSON(&event); err != nil {
			b.notifier.Notify(notify.Error, "Disconnected from real-time updates")
			return fmt.Errorf("push channel read: %w", err)
		}
		b.handle(ctx, event)
	}
}

func (b *Bridge) handle(ctx context.Context, event entities.Event) {
	switch event.Kind {
	case entities.EventAvailabilityUpdate:
		var update entities.AvailabilityUpdate
		if err := json.Unmarshal(event.Data, &update); err != nil {
			log.Printf("Bad availability_update payload: %v", err)
			return
		}
		counts := make(map[int]int, len(update))
		for key, available := range update {
			id, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			counts[id] = available
		}
		b.directory.PatchAvailability(counts)

	case entities.EventSpotReserved:
		var data entities.SpotEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Bad spot_reserved payload: %v", err)
			return
		}
		b.notifier.Notify(notify.Warning, fmt.Sprintf("Spot %d has been reserved by another user", data.SpotID))
		b.refresh(ctx)

	case entities.EventSpotVacated:
		var data entities.SpotEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Bad spot_vacated payload: %v", err)
			return
		}
		b.notifier.Notify(notify.Success, fmt.Sprintf("Spot %d is now available!", data.SpotID))
		b.refresh(ctx)

	case entities.EventSpotsAvailable:
		var data entities.CapacityEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Bad spots_available payload: %v", err)
			return
		}
		b.notifier.Notify(notify.Success, fmt.Sprintf("%s (%d spots available)", data.Message, data.AvailableSpots))
		b.refresh(ctx)

	case entities.EventSpotsFull:
		var data entities.CapacityEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Bad spots_full payload: %v", err)
			return
		}
		b.notifier.Notify(notify.Warning, data.Message)
		b.refresh(ctx)

	case entities.EventNewLotAdded:
		var data entities.LotAddedEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			log.Printf("Bad new_lot_added payload: %v", err)
			return
		}
		b.notifier.Notify(notify.Info, fmt.Sprintf("New parking lot added: %s (%d spots)", data.LocationName, data.MaxSpots))
		b.refresh(ctx)

	case entities.EventLotDeleted:
		b.notifier.Notify(notify.Warning, "A parking lot has been removed")
		b.refresh(ctx)

	default:
		log.Printf("Unrecognized push event %q", event.Kind)
	}
}

func (b *Bridge) refresh(ctx context.Context) {
	if err := b.directory.Refresh(ctx); err != nil {
		log.Printf("Directory refresh after push event failed: %v", err)
	}
}

// Close leaves the user's room and closes the connection. Called on logout
// before navigating away.
func (b *Bridge) Close() error {
	b.conn.WriteJSON(entities.Event{Kind: entities.EventLeaveUser})
	b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return b.conn.Close()
}
