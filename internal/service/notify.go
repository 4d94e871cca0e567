package service

// Event names broadcast to read-only notification consumers (report screens,
// dashboards). Consumers never write back through this channel.
const (
	EventInvoiceIssued    = "invoice.issued"
	EventPaymentApplied   = "payment.applied"
	EventPaymentReversed  = "payment.reversed"
	EventExpenseRecorded  = "expense.recorded"
	EventExpenseReversed  = "expense.reversed"
)

// EventPublisher fans financial events out to connected consumers. The
// websocket hub implements it; tests plug in a recorder.
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// NopPublisher drops every event; used when no hub is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) {}
