package booking

import (
	"time"

	"stayfinder/internal/domain/property"
	"stayfinder/internal/domain/shared/daterange"
)

type Created struct {
	BookingID       BookingID
	PropertyID      property.PropertyID
	TravelerID      string
	Range           daterange.DateRange
	Guests          int
	TotalPriceCents int64
	At              time.Time
}

func (e Created) EventName() string     { return "booking.created" }
func (e Created) AggregateID() string   { return string(e.BookingID) }
func (e Created) OccurredAt() time.Time { return e.At }

type Accepted struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	At         time.Time
}

func (e Accepted) EventName() string     { return "booking.accepted" }
func (e Accepted) AggregateID() string   { return string(e.BookingID) }
func (e Accepted) OccurredAt() time.Time { return e.At }

type Cancelled struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	By         Role
	Reason     string
	At         time.Time
}

func (e Cancelled) EventName() string     { return "booking.cancelled" }
func (e Cancelled) AggregateID() string   { return string(e.BookingID) }
func (e Cancelled) OccurredAt() time.Time { return e.At }
