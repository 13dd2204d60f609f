package events

// Event types published by the engine.
const (
	TypeProductCreated  = "PRODUCT_CREATED"
	TypeStockIn         = "STOCK_IN"
	TypeSaleRecorded    = "SALE_RECORDED"
	TypeDebtCreated     = "DEBT_CREATED"
	TypeDebtCancelled   = "DEBT_CANCELLED"
	TypePaymentApplied  = "PAYMENT_APPLIED"
	TypePaymentReversed = "PAYMENT_REVERSED"
)

// Event is one mutation notification.
type Event struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// Subscriber receives events on C until Close is called.
type Subscriber struct {
	C   chan Event
	hub *Hub
}

func (s *Subscriber) Close() {
	s.hub.unregister <- s
}

// Hub maintains the set of active subscribers and fans mutation events
// out to them. Slow subscribers are dropped rather than blocking the
// dispatch loop.
type Hub struct {
	subscribers map[*Subscriber]bool
	broadcast   chan Event
	register    chan *Subscriber
	unregister  chan *Subscriber
}

// NewHub initializes a new Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]bool),
		broadcast:   make(chan Event, 64),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
	}
}

// Run starts the core dispatch loop
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.subscribers[sub] = true
		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.C)
			}
		case event := <-h.broadcast:
			for sub := range h.subscribers {
				select {
				case sub.C <- event:
				default:
					close(sub.C)
					delete(h.subscribers, sub)
				}
			}
		}
	}
}

// Subscribe registers a new subscriber with a small buffer.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{C: make(chan Event, 16), hub: h}
	h.register <- sub
	return sub
}

// Publish queues an event for broadcast. It never blocks the caller
// longer than the broadcast buffer allows.
func (h *Hub) Publish(event Event) {
	h.broadcast <- event
}
