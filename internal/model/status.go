package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUnknownValue is returned when parsing an enum name fails.
var ErrUnknownValue = errors.New("unknown value")

// EventStatus is the lifecycle state of a concert.
type EventStatus int

const (
	EventScheduled EventStatus = iota
	EventCancelled
	EventPostponed
	EventCompleted
	EventSoldOut
)

var eventStatusNames = map[EventStatus]string{
	EventScheduled: "SCHEDULED",
	EventCancelled: "CANCELLED",
	EventPostponed: "POSTPONED",
	EventCompleted: "COMPLETED",
	EventSoldOut:   "SOLDOUT",
}

var eventTransitions = map[EventStatus][]EventStatus{
	EventScheduled: {EventPostponed, EventCancelled, EventSoldOut, EventCompleted},
	EventPostponed: {EventScheduled, EventCancelled},
	EventSoldOut:   {EventScheduled, EventCancelled, EventCompleted},
}

func (s EventStatus) String() string {
	if name, ok := eventStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("EventStatus(%d)", int(s))
}

// CanTransition reports whether a concert may move from s to next.
func (s EventStatus) CanTransition(next EventStatus) bool {
	return allowed(eventTransitions[s], next)
}

// Transition returns next if the move is allowed.
func (s EventStatus) Transition(next EventStatus) (EventStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// Terminal reports whether no further transitions are possible.
func (s EventStatus) Terminal() bool {
	return len(eventTransitions[s]) == 0
}

// ParseEventStatus parses a status name case-insensitively.
func ParseEventStatus(name string) (EventStatus, error) {
	return parse(eventStatusNames, name)
}

// TicketStatus is the lifecycle state of a ticket.
type TicketStatus int

const (
	TicketAvailable TicketStatus = iota
	TicketSold
	TicketCheckedIn
	TicketCancelled
	TicketExpired
)

var ticketStatusNames = map[TicketStatus]string{
	TicketAvailable: "AVAILABLE",
	TicketSold:      "SOLD",
	TicketCheckedIn: "CHECKED_IN",
	TicketCancelled: "CANCELLED",
	TicketExpired:   "EXPIRED",
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketAvailable: {TicketSold, TicketCancelled, TicketExpired},
	TicketSold:      {TicketCheckedIn, TicketCancelled, TicketExpired},
}

func (s TicketStatus) String() string {
	if name, ok := ticketStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TicketStatus(%d)", int(s))
}

// CanTransition reports whether a ticket may move from s to next.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	return allowed(ticketTransitions[s], next)
}

// Transition returns next if the move is allowed.
func (s TicketStatus) Transition(next TicketStatus) (TicketStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// ParseTicketStatus parses a status name case-insensitively.
func ParseTicketStatus(name string) (TicketStatus, error) {
	return parse(ticketStatusNames, name)
}

// PaymentStatus is the lifecycle state of a payment.
type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentCompleted
	PaymentFailed
	PaymentRefunded
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentPending:   "PENDING",
	PaymentCompleted: "COMPLETED",
	PaymentFailed:    "FAILED",
	PaymentRefunded:  "REFUNDED",
}

// FAILED -> PENDING is a retry.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {PaymentPending},
}

func (s PaymentStatus) String() string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PaymentStatus(%d)", int(s))
}

// CanTransition reports whether a payment may move from s to next.
func (s PaymentStatus) CanTransition(next PaymentStatus) bool {
	return allowed(paymentTransitions[s], next)
}

// Transition returns next if the move is allowed.
func (s PaymentStatus) Transition(next PaymentStatus) (PaymentStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

// ParsePaymentStatus parses a status name case-insensitively.
func ParsePaymentStatus(name string) (PaymentStatus, error) {
	return parse(paymentStatusNames, name)
}

// PaymentMethod is how an attendee paid.
type PaymentMethod int

const (
	MethodCreditCard PaymentMethod = iota
	MethodDebitCard
	MethodPayPal
	MethodBankTransfer
	MethodCash
)

var paymentMethodNames = map[PaymentMethod]string{
	MethodCreditCard:   "CREDIT_CARD",
	MethodDebitCard:    "DEBIT_CARD",
	MethodPayPal:       "PAYPAL",
	MethodBankTransfer: "BANK_TRANSFER",
	MethodCash:         "CASH",
}

func (m PaymentMethod) String() string {
	if name, ok := paymentMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PaymentMethod(%d)", int(m))
}

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethodNames[m]
	return ok
}

// IsCard reports whether the method needs a card number.
func (m PaymentMethod) IsCard() bool {
	return m == MethodCreditCard || m == MethodDebitCard
}

// ParsePaymentMethod parses a method name case-insensitively.
func ParsePaymentMethod(name string) (PaymentMethod, error) {
	return parse(paymentMethodNames, name)
}

// AttendeeType classifies attendees for pricing and access.
type AttendeeType int

const (
	AttendeeRegular AttendeeType = iota
	AttendeeVIP
	AttendeeStudent
	AttendeeStaff
)

var attendeeTypeNames = map[AttendeeType]string{
	AttendeeRegular: "REGULAR",
	AttendeeVIP:     "VIP",
	AttendeeStudent: "STUDENT",
	AttendeeStaff:   "STAFF",
}

func (t AttendeeType) String() string {
	if name, ok := attendeeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("AttendeeType(%d)", int(t))
}

// Valid reports whether t is a known type.
func (t AttendeeType) Valid() bool {
	_, ok := attendeeTypeNames[t]
	return ok
}

// ParseAttendeeType parses a type name case-insensitively.
func ParseAttendeeType(name string) (AttendeeType, error) {
	return parse(attendeeTypeNames, name)
}

// Channel is the medium a communication was sent over.
type Channel int

const (
	ChannelEmail Channel = iota
	ChannelSMS
	ChannelNotification
	ChannelChat
)

var channelNames = map[Channel]string{
	ChannelEmail:        "EMAIL",
	ChannelSMS:          "SMS",
	ChannelNotification: "NOTIFICATION",
	ChannelChat:         "CHAT",
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Channel(%d)", int(c))
}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	_, ok := channelNames[c]
	return ok
}

// ParseChannel parses a channel name case-insensitively.
func ParseChannel(name string) (Channel, error) {
	return parse(channelNames, name)
}

func allowed[S comparable](targets []S, next S) bool {
	for _, t := range targets {
		if t == next {
			return true
		}
	}
	return false
}

func parse[S comparable](names map[S]string, name string) (S, error) {
	name = strings.TrimSpace(name)
	for v, n := range names {
		if strings.EqualFold(n, name) {
			return v, nil
		}
	}
	var zero S
	return zero, fmt.Errorf("%w: %q", ErrUnknownValue, name)
}
