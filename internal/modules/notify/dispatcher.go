package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"tourstay/internal/domain"

	"github.com/google/uuid"
)

// Dispatcher delivers booking events after commit: an HTTP webhook to
// the configured automation endpoint plus a broadcast on the websocket
// hub. Delivery is best-effort and at-most-once; a failure is logged
// and never propagated back into the booking flow.
type Dispatcher struct {
	webhookURL string
	client     *http.Client
	hub        *Hub
}

func NewDispatcher(webhookURL string, hub *Hub) *Dispatcher {
	return &Dispatcher{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		hub:        hub,
	}
}

// WebhookPayload is the wire format posted to the automation endpoint.
type WebhookPayload struct {
	DeliveryID string    `json:"delivery_id"`
	Event      string    `json:"event"`
	SentAt     time.Time `json:"sent_at"`

	Reference   string     `json:"reference"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	RoomID      *int64     `json:"room_id,omitempty"`
	DepartureID *int64     `json:"departure_id,omitempty"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Adults      int        `json:"adults"`
	Children    int        `json:"children"`
	Infants     int        `json:"infants"`
	TotalAmount float64    `json:"total_amount"`
	Currency    string     `json:"currency"`
}

func (d *Dispatcher) BookingCreated(ctx context.Context, b *domain.Booking) error {
	if d.hub != nil {
		d.hub.Broadcast(&Event{Type: EventBookingCreated, Payload: b})
	}
	return d.deliver(ctx, EventBookingCreated, b)
}

func (d *Dispatcher) BookingStatusChanged(ctx context.Context, b *domain.Booking, previous domain.BookingStatus) error {
	if d.hub != nil {
		d.hub.Broadcast(&Event{
			Type: EventBookingStatusChanged,
			Payload: map[string]any{
				"booking":         b,
				"previous_status": previous,
			},
		})
	}
	return d.deliver(ctx, EventBookingStatusChanged, b)
}

func (d *Dispatcher) deliver(ctx context.Context, event string, b *domain.Booking) error {
	if d.webhookURL == "" {
		return nil
	}

	payload := WebhookPayload{
		DeliveryID:  uuid.NewString(),
		Event:       event,
		SentAt:      time.Now().UTC(),
		Reference:   b.Reference,
		Type:        string(b.Type),
		Status:      string(b.Status),
		RoomID:      b.RoomID,
		DepartureID: b.DepartureID,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
		Adults:      b.Adults,
		Children:    b.Children,
		Infants:     b.Infants,
		TotalAmount: b.TotalAmount,
		Currency:    b.Currency,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-ID", payload.DeliveryID)

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("webhook_delivery_failed event=%s reference=%s error=%q", event, b.Reference, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("webhook returned status %d", resp.StatusCode)
		log.Printf("webhook_delivery_failed event=%s reference=%s error=%q", event, b.Reference, err)
		return err
	}
	return nil
}
