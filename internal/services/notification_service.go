package services

import (
	"errors"
	"fmt"

	"artisanconnect/internal/metrics"
	"artisanconnect/internal/models"
	"artisanconnect/internal/repositories"
	"artisanconnect/internal/sms"
	"artisanconnect/pkg/idempotency"

	"go.uber.org/zap"
)

const notifyScope = "payment_completed"

// Notifier sends the SMS fan-out for a paid order: one message to each
// distinct artisan in the order and one to the customer.
type Notifier struct {
	users  repositories.UserRepository
	orders repositories.OrderRepository
	sender sms.Sender
	ledger idempotency.Store
	logger *zap.Logger
}

// NewNotifier creates a Notifier. ledger guards against sending the same
// order's fan-out twice when a message is redelivered.
func NewNotifier(
	users repositories.UserRepository,
	orders repositories.OrderRepository,
	sender sms.Sender,
	ledger idempotency.Store,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		users:  users,
		orders: orders,
		sender: sender,
		ledger: ledger,
		logger: logger,
	}
}

// NotifyOrder loads the order by ID and runs the fan-out.
func (n *Notifier) NotifyOrder(orderID string) error {
	order, err := n.orders.GetByID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %s for notification: %w", orderID, err)
	}
	return n.NotifyPaymentCompleted(order)
}

// NotifyPaymentCompleted notifies each distinct artisan once, using the first
// line of theirs in the order, then the customer. Every attempt is
// independent; failures are logged and returned joined.
func (n *Notifier) NotifyPaymentCompleted(order *models.Order) error {
	first, err := n.ledger.Claim(notifyScope, order.ID)
	if err != nil {
		n.logger.Warn("notification ledger unavailable, sending anyway", zap.String("order_id", order.OrderID), zap.Error(err))
	} else if !first {
		n.logger.Info("notifications already sent", zap.String("order_id", order.OrderID))
		return nil
	}

	customer, err := n.users.GetByID(order.CustomerID)
	if err != nil {
		// Artisan messages still go out with an empty customer name.
		n.logger.Error("failed to load customer for notification", zap.String("customer_id", order.CustomerID), zap.Error(err))
		customer = &models.User{ID: order.CustomerID}
	}

	var errs []error
	notified := make(map[string]bool)
	for _, item := range order.Items {
		if notified[item.ArtisanID] {
			continue
		}
		notified[item.ArtisanID] = true

		artisan, err := n.users.GetByID(item.ArtisanID)
		if err != nil {
			errs = append(errs, fmt.Errorf("artisan %s: %w", item.ArtisanID, err))
			metrics.Notifications.WithLabelValues("artisan", "failed").Inc()
			continue
		}
		msg := sms.ArtisanPurchaseMessage(customer.Username, item.Name, item.Quantity, item.Subtotal())
		if err := n.send("artisan", artisan, msg); err != nil {
			errs = append(errs, err)
		}
	}

	if err := n.send("customer", customer, sms.CustomerConfirmationMessage(order.OrderID, order.TotalAmount)); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// send delivers one message. A user without a phone is skipped, not retried.
func (n *Notifier) send(audience string, to *models.User, message string) error {
	if to.Phone == "" {
		metrics.Notifications.WithLabelValues(audience, "skipped").Inc()
		n.logger.Debug("no phone on file, skipping sms", zap.String("audience", audience), zap.String("user_id", to.ID))
		return nil
	}

	res, err := n.sender.Send(to.Phone, message)
	if err != nil {
		metrics.Notifications.WithLabelValues(audience, "failed").Inc()
		n.logger.Error("sms notification failed", zap.String("audience", audience), zap.String("user_id", to.ID), zap.Error(err))
		return fmt.Errorf("%s %s: %w", audience, to.ID, err)
	}

	metrics.Notifications.WithLabelValues(audience, "sent").Inc()
	n.logger.Info("sms notification sent",
		zap.String("audience", audience),
		zap.String("user", to.Username),
		zap.Bool("mock", res.Mock),
	)
	return nil
}
