package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"artisanconnect/internal/models"

	"go.uber.org/zap"
)

// NotificationDispatcher hands a completed order to the notification fan-out
// without waiting for it. Dispatch never reports failure to the caller.
type NotificationDispatcher interface {
	Dispatch(order *models.Order)
}

// DeadLetter records fan-outs that did not fully succeed.
type DeadLetter interface {
	Record(orderID string, err error)
}

// Publisher sends a message to a named queue.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// PaymentCompletedEvent is the queue message for a verified payment.
type PaymentCompletedEvent struct {
	OrderID        string `json:"orderId"`
	Receipt        string `json:"receipt"`
	GatewayOrderID string `json:"gatewayOrderId"`
}

// DeadLetterEvent is the queue message for a failed fan-out.
type DeadLetterEvent struct {
	OrderID string `json:"orderId"`
	Error   string `json:"error"`
}

// LogDeadLetter writes failed fan-outs to the log.
type LogDeadLetter struct {
	logger *zap.Logger
}

// NewLogDeadLetter creates a LogDeadLetter.
func NewLogDeadLetter(logger *zap.Logger) *LogDeadLetter {
	return &LogDeadLetter{logger: logger}
}

// Record logs the failure.
func (d *LogDeadLetter) Record(orderID string, err error) {
	d.logger.Error("notification dead letter", zap.String("order_id", orderID), zap.Error(err))
}

// QueueDeadLetter logs failed fan-outs and publishes them to a queue for inspection.
type QueueDeadLetter struct {
	publisher Publisher
	queue     string
	logger    *zap.Logger
}

// NewQueueDeadLetter creates a QueueDeadLetter publishing to queue.
func NewQueueDeadLetter(publisher Publisher, queue string, logger *zap.Logger) *QueueDeadLetter {
	return &QueueDeadLetter{publisher: publisher, queue: queue, logger: logger}
}

// Record logs the failure and publishes it.
func (d *QueueDeadLetter) Record(orderID string, err error) {
	d.logger.Error("notification dead letter", zap.String("order_id", orderID), zap.Error(err))
	body, mErr := json.Marshal(DeadLetterEvent{OrderID: orderID, Error: err.Error()})
	if mErr != nil {
		return
	}
	if pErr := d.publisher.Publish(d.queue, body); pErr != nil {
		d.logger.Error("failed to publish dead letter", zap.String("order_id", orderID), zap.Error(pErr))
	}
}

// AsyncDispatcher runs the fan-out on a goroutine inside the process.
type AsyncDispatcher struct {
	notifier   *Notifier
	deadLetter DeadLetter
	wg         sync.WaitGroup
}

// NewAsyncDispatcher creates an AsyncDispatcher.
func NewAsyncDispatcher(notifier *Notifier, deadLetter DeadLetter) *AsyncDispatcher {
	return &AsyncDispatcher{notifier: notifier, deadLetter: deadLetter}
}

// Dispatch starts the fan-out and returns immediately.
func (d *AsyncDispatcher) Dispatch(order *models.Order) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.deadLetter.Record(order.ID, fmt.Errorf("notification panic: %v", r))
			}
		}()
		if err := d.notifier.NotifyPaymentCompleted(order); err != nil {
			d.deadLetter.Record(order.ID, err)
		}
	}()
}

// Wait blocks until every dispatched fan-out has finished. Used on shutdown.
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}

// QueueDispatcher publishes completed payments to a queue; a consumer runs
// the fan-out. If publishing fails the fan-out runs in-process instead.
type QueueDispatcher struct {
	publisher Publisher
	queue     string
	fallback  NotificationDispatcher
	logger    *zap.Logger
}

// NewQueueDispatcher creates a QueueDispatcher.
func NewQueueDispatcher(publisher Publisher, queue string, fallback NotificationDispatcher, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher, queue: queue, fallback: fallback, logger: logger}
}

// Dispatch publishes a PaymentCompletedEvent.
func (d *QueueDispatcher) Dispatch(order *models.Order) {
	body, err := json.Marshal(PaymentCompletedEvent{
		OrderID:        order.ID,
		Receipt:        order.OrderID,
		GatewayOrderID: order.GatewayOrderID,
	})
	if err == nil {
		err = d.publisher.Publish(d.queue, body)
	}
	if err != nil {
		d.logger.Warn("failed to queue notifications, sending in-process", zap.String("order_id", order.OrderID), zap.Error(err))
		d.fallback.Dispatch(order)
	}
}

// PaymentCompletedHandler returns the queue consumer for PaymentCompletedEvent
// messages. Fan-out failures go to deadLetter and the message is acked.
func PaymentCompletedHandler(notifier *Notifier, deadLetter DeadLetter) func(body []byte) error {
	return func(body []byte) error {
		var evt PaymentCompletedEvent
		if err := json.Unmarshal(body, &evt); err != nil || evt.OrderID == "" {
			deadLetter.Record("", fmt.Errorf("malformed payment event %q: %v", string(body), err))
			return nil
		}
		if err := notifier.NotifyOrder(evt.OrderID); err != nil {
			deadLetter.Record(evt.OrderID, err)
		}
		return nil
	}
}
