package notification

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/example/moringa-store/internal/domain/order"
	"github.com/example/moringa-store/internal/email"
	"github.com/example/moringa-store/internal/infrastructure/store"
	"github.com/example/moringa-store/internal/invoice"
	"github.com/example/moringa-store/internal/pricing"
	"github.com/example/moringa-store/internal/readmodel"
	"github.com/example/moringa-store/internal/settings"
)

// Mailer is the part of email.Service the handler needs
type Mailer interface {
	SendOrderConfirmation(to string, c email.Confirmation, attachments ...email.Attachment) error
	SendOrderStatus(to string, u email.StatusUpdate) error
}

// Handler turns order events into customer emails
type Handler struct {
	mailer    Mailer
	readStore store.ReadStoreInterface
	settings  settings.Provider
	shop      invoice.Shop
	logger    *slog.Logger
}

func NewHandler(mailer Mailer, readStore store.ReadStoreInterface, provider settings.Provider, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		mailer:    mailer,
		readStore: readStore,
		settings:  provider,
		shop:      invoice.DefaultShop(),
		logger:    logger.With("component", "notifier"),
	}
}

// HandleEvent processes an event delivered by the broker
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal event", "error", err)
		return errors.Wrap(err, "decode event")
	}
	return h.Notify(ctx, event)
}

func (h *Handler) Notify(ctx context.Context, event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(ctx, event)
	case order.EventOrderPaid:
		var e order.OrderPaid
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return errors.Wrap(err, "decode OrderPaid")
		}
		return h.sendStatus(ctx, e.OrderID, order.StatusPaid, "", "")
	case order.EventOrderShipped:
		var e order.OrderShipped
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return errors.Wrap(err, "decode OrderShipped")
		}
		return h.sendStatus(ctx, e.OrderID, order.StatusShipped, e.TrackingNumber, "")
	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return errors.Wrap(err, "decode OrderCancelled")
		}
		return h.sendStatus(ctx, e.OrderID, order.StatusCancelled, "", e.Reason)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(ctx context.Context, event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		h.logger.ErrorContext(ctx, "failed to unmarshal OrderPlaced", "error", err)
		return errors.Wrap(err, "decode OrderPlaced")
	}
	log := h.logger.With("order_id", e.OrderID)
	log.InfoContext(ctx, "processing OrderPlaced")

	conf := email.Confirmation{
		OrderID:          e.OrderID,
		CustomerName:     e.Customer.Name,
		Items:            e.Items,
		Totals:           e.Totals,
		PaymentMethod:    e.PaymentMethod,
		ShippingMethod:   e.ShippingMethod,
		DeliveryEstimate: h.deliveryEstimate(ctx, e.ShippingMethod),
	}

	var attachments []email.Attachment
	pdf, err := invoice.Bytes(h.shop, invoice.FromOrder(&readmodel.OrderReadModel{
		ID:             e.OrderID,
		CartID:         e.CartID,
		Customer:       e.Customer,
		Items:          e.Items,
		Totals:         e.Totals,
		PaymentMethod:  e.PaymentMethod,
		ShippingMethod: e.ShippingMethod,
		Status:         order.StatusPending,
		CreatedAt:      e.PlacedAt,
	}))
	if err != nil {
		// The confirmation still goes out without the invoice.
		log.WarnContext(ctx, "failed to render invoice", "error", err)
	} else {
		attachments = append(attachments, email.Attachment{
			Filename:    invoice.Filename(e.OrderID),
			ContentType: "application/pdf",
			Data:        pdf,
		})
	}

	if err := h.mailer.SendOrderConfirmation(e.Customer.Email, conf, attachments...); err != nil {
		log.ErrorContext(ctx, "failed to send confirmation", "to", e.Customer.Email, "error", err)
		return err
	}
	log.InfoContext(ctx, "order confirmation sent", "to", e.Customer.Email)
	return nil
}

func (h *Handler) deliveryEstimate(ctx context.Context, method pricing.ShippingMethod) string {
	if h.settings == nil {
		return ""
	}
	s, err := h.settings.GetShipping(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "shipping settings unavailable", "error", err)
		return ""
	}
	if method == pricing.ShippingExpress {
		return s.ExpressDeliveryEstimate
	}
	return s.StandardDeliveryEstimate
}

func (h *Handler) sendStatus(ctx context.Context, orderID string, status order.Status, tracking, reason string) error {
	log := h.logger.With("order_id", orderID, "status", status)

	o, ok, err := store.GetAs[readmodel.OrderReadModel](ctx, h.readStore, store.CollectionOrders, orderID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load order", "error", err)
		return nil
	}
	if !ok {
		log.WarnContext(ctx, "order not found, skipping status email")
		return nil
	}

	err = h.mailer.SendOrderStatus(o.Customer.Email, email.StatusUpdate{
		OrderID:        orderID,
		CustomerName:   o.Customer.Name,
		Status:         status,
		TrackingNumber: tracking,
		Reason:         reason,
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to send status email", "to", o.Customer.Email, "error", err)
		return err
	}
	log.InfoContext(ctx, "status email sent", "to", o.Customer.Email)
	return nil
}
