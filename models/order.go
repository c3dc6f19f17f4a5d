package models

// OrderStatus values as reported by the platform API.
type OrderStatus string

const (
	OrderPendingApproval OrderStatus = "PENDING_APPROVAL"
	OrderApproved        OrderStatus = "APPROVED"
	OrderAccepted        OrderStatus = "ACCEPTED"
	OrderRejected        OrderStatus = "REJECTED"
	OrderInTransit       OrderStatus = "IN_TRANSIT"
	OrderFulfilled       OrderStatus = "FULFILLED"
)

// ValidOrderStatus reports whether s is a status the platform knows about.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderPendingApproval, OrderApproved, OrderAccepted, OrderRejected, OrderInTransit, OrderFulfilled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// CourierInfo is dispatch metadata attached once an order physically ships.
type CourierInfo struct {
	CourierName    string `json:"courierName"`
	TrackingNumber string `json:"trackingNumber"`
	DispatchDate   string `json:"dispatchDate"`
}

type Order struct {
	ID              string       `json:"id"`
	Status          OrderStatus  `json:"status"`
	ShippingAddress string       `json:"shippingAddress"`
	DeliveryAddress string       `json:"deliveryAddress,omitempty"`
	CustomerGst     string       `json:"customerGst,omitempty"`
	Items           []OrderItem  `json:"items"`
	TotalAmount     float64      `json:"totalAmount"`
	CreatedAt       string       `json:"createdAt"`
	CourierInfo     *CourierInfo `json:"courierInfo,omitempty"`
}

// CreateOrderRequest is the order-creation payload.
type CreateOrderRequest struct {
	ShippingAddress string             `json:"shippingAddress"`
	CustomerGst     string             `json:"customerGst,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ApprovalActionRequest carries the reviewer comments for approve/reject.
type ApprovalActionRequest struct {
	Comments string `json:"comments"`
}

// AcceptOrderRequest is sent by fulfillment when taking ownership of an order.
type AcceptOrderRequest struct {
	DeliveryAddress string `json:"deliveryAddress"`
}

// CourierInfoRequest attaches courier details at dispatch time.
type CourierInfoRequest struct {
	CourierName    string `json:"courierName"`
	TrackingNumber string `json:"trackingNumber"`
	DispatchDate   string `json:"dispatchDate"`
}
