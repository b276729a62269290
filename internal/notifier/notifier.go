// Package notifier publishes reservation lifecycle events to RabbitMQ after a
// transaction commits. Delivery is fire-and-forget: a dead broker never rolls
// back a booking, failures are only logged.
package notifier

import (
	"time"

	"github.com/hostelhq/reservation-service/internal/models"
	"github.com/hostelhq/reservation-service/pkg/rabbitmq"
	"go.uber.org/zap"
)

type event struct {
	ReservationID uint                     `json:"reservation_id"`
	Code          string                   `json:"code"`
	OfficeID      uint                     `json:"office_id"`
	Status        models.ReservationStatus `json:"status"`
	CheckInDate   time.Time                `json:"check_in_date"`
	CheckOutDate  time.Time                `json:"check_out_date"`
	TotalBillings int64                    `json:"total_billings"`
	Balance       int64                    `json:"remaining_balance"`
	Amount        int64                    `json:"amount,omitempty"`
}

type Notifier struct {
	publisher *rabbitmq.Publisher
	log       *zap.Logger
}

// New returns a notifier; a nil publisher disables publishing entirely.
func New(publisher *rabbitmq.Publisher, log *zap.Logger) *Notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{publisher: publisher, log: log}
}

func (n *Notifier) ReservationCreated(r *models.Reservation) {
	n.publish("reservation.created", r, 0)
}

func (n *Notifier) ReservationConfirmed(r *models.Reservation) {
	n.publish("reservation.confirmed", r, 0)
}

func (n *Notifier) ReservationExtended(r *models.Reservation) {
	n.publish("reservation.extended", r, 0)
}

func (n *Notifier) ReservationCanceled(r *models.Reservation) {
	n.publish("reservation.canceled", r, 0)
}

func (n *Notifier) PaymentRecorded(r *models.Reservation, amount int64) {
	n.publish("payment.recorded", r, amount)
}

func (n *Notifier) publish(routingKey string, r *models.Reservation, amount int64) {
	if n.publisher == nil || r == nil {
		return
	}
	err := n.publisher.Publish(routingKey, event{
		ReservationID: r.ID,
		Code:          r.Code,
		OfficeID:      r.OfficeID,
		Status:        r.Status,
		CheckInDate:   r.CheckInDate,
		CheckOutDate:  r.CheckOutDate,
		TotalBillings: r.TotalBillings,
		Balance:       r.RemainingBalance,
		Amount:        amount,
	})
	if err != nil {
		n.log.Warn("failed to publish notification",
			zap.String("routing_key", routingKey),
			zap.Uint("reservation_id", r.ID),
			zap.Error(err))
	}
}
