package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/retirapp/retira-backend/internal/modules/employee"
	"github.com/retirapp/retira-backend/internal/modules/store"
)

// Dispatcher sends pickup lifecycle notifications. Every send is best-effort:
// delivery failures are logged and swallowed, never surfacing to the caller
// of the pickup operation.
type Dispatcher interface {
	// NotifyStorePickup tells a store that an employee scheduled a pickup.
	NotifyStorePickup(ctx context.Context, storeID, pickupToken, pickupDate string, quantity int, employeeName string) error

	// NotifyEmployeePickup tells an employee their pickup was completed or
	// cancelled by the store.
	NotifyEmployeePickup(ctx context.Context, employeeID, status, token, storeName, pickupDate, reason string) error
}

// VAPIDConfig carries the keys used to sign web-push requests.
type VAPIDConfig struct {
	Subject    string
	PublicKey  string
	PrivateKey string
}

// Enabled reports whether both keys are configured.
func (c VAPIDConfig) Enabled() bool {
	return c.PublicKey != "" && c.PrivateKey != ""
}

type webpushDispatcher struct {
	repo      Repository
	employees employee.Repository
	stores    store.Repository
	vapid     VAPIDConfig
	logger    *slog.Logger
}

// NewWebPushDispatcher creates a dispatcher delivering over the Web Push
// protocol with VAPID authentication.
func NewWebPushDispatcher(repo Repository, employees employee.Repository, stores store.Repository, vapid VAPIDConfig, logger *slog.Logger) Dispatcher {
	return &webpushDispatcher{
		repo:      repo,
		employees: employees,
		stores:    stores,
		vapid:     vapid,
		logger:    logger,
	}
}

func (d *webpushDispatcher) NotifyStorePickup(ctx context.Context, storeID, pickupToken, pickupDate string, quantity int, employeeName string) error {
	st, err := d.stores.GetByID(ctx, storeID)
	if err != nil {
		return fmt.Errorf("load store for notification: %w", err)
	}

	who := employeeName
	if who == "" {
		who = "Um funcionário"
	}
	payload := Payload{
		Title: "Novo pedido de retirada",
		Body:  fmt.Sprintf("%s agendou uma retirada para %s.", who, pickupDate),
		Icon:  "/favicon.ico",
		Badge: "/favicon.ico",
		Data: map[string]interface{}{
			"url":          "/",
			"token":        pickupToken,
			"quantity":     quantity,
			"pickupDate":   pickupDate,
			"employeeName": employeeName,
		},
	}
	return d.push(ctx, st.UserID.String(), payload)
}

func (d *webpushDispatcher) NotifyEmployeePickup(ctx context.Context, employeeID, status, token, storeName, pickupDate, reason string) error {
	emp, err := d.employees.GetByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("load employee for notification: %w", err)
	}

	title := "Atualização do seu pedido"
	body := fmt.Sprintf("A loja %s atualizou o status do seu pedido.", storeName)
	switch status {
	case "completed":
		title = "Pedido pronto!"
		body = fmt.Sprintf("A loja %s confirmou a retirada.", storeName)
	case "cancelled":
		title = "Pedido cancelado"
		body = fmt.Sprintf("A loja %s cancelou a retirada.", storeName)
		if reason != "" {
			body = fmt.Sprintf("A loja %s cancelou a retirada: %s", storeName, reason)
		}
	}

	payload := Payload{
		Title: title,
		Body:  body,
		Icon:  "/favicon.ico",
		Badge: "/favicon.ico",
		Data: map[string]interface{}{
			"url":        "/",
			"token":      token,
			"pickupDate": pickupDate,
			"status":     status,
		},
	}
	return d.push(ctx, emp.UserID.String(), payload)
}

// push delivers the payload to every subscription of the target account.
// Per-endpoint failures are logged, dead endpoints pruned, and the overall
// call still succeeds.
func (d *webpushDispatcher) push(ctx context.Context, userID string, payload Payload) error {
	if !d.vapid.Enabled() {
		d.logger.Warn("push skipped, VAPID keys not configured", "user_id", userID)
		return nil
	}

	subs, err := d.repo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load push subscriptions: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      d.vapid.Subject,
			VAPIDPublicKey:  d.vapid.PublicKey,
			VAPIDPrivateKey: d.vapid.PrivateKey,
			TTL:             60,
		})
		if err != nil {
			d.logger.Error("push delivery failed", "endpoint", sub.Endpoint, "error", err)
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			if err := d.repo.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
				d.logger.Error("prune dead subscription failed", "endpoint", sub.Endpoint, "error", err)
			}
		}
		resp.Body.Close()
	}
	return nil
}
