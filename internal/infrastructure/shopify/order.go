package shopify

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Order is the subset of Shopify's order webhook payload the review
// pipeline reads. Numeric IDs arrive as JSON numbers and are normalized
// to strings.
type Order struct {
	ID             json.Number `json:"id"`
	OrderNumber    json.Number `json:"order_number"`
	Name           string      `json:"name"`
	Tags           string      `json:"tags"`
	Customer       *Customer   `json:"customer"`
	BillingAddress *Address    `json:"billing_address"`
	LineItems      []LineItem  `json:"line_items"`
}

// Customer is the order's customer record
type Customer struct {
	ID        json.Number `json:"id"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
}

// Address is a billing or shipping address
type Address struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LineItem is one purchased product line
type LineItem struct {
	ProductID json.Number `json:"product_id"`
	Title     string      `json:"title"`
	Quantity  int         `json:"quantity"`
}

// ParseOrder decodes an order webhook payload
func ParseOrder(payload []byte) (*Order, error) {
	var o Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// OrderID returns the order's ID as a string
func (o *Order) OrderID() string {
	return o.ID.String()
}

// DisplayNumber returns the human-facing order number, falling back to
// the order name and then "Unknown"
func (o *Order) DisplayNumber() string {
	if n := o.OrderNumber.String(); n != "" && n != "0" {
		return n
	}
	if o.Name != "" {
		return o.Name
	}
	return "Unknown"
}

// DeliveryTag scans the order's tags for one that marks the order as
// delivered. The configured tag is matched case-insensitively alongside
// a few conventional spellings; any tag containing "deliver" also
// counts. Returns the matched tag and whether one was found.
func (o *Order) DeliveryTag(configured string) (string, bool) {
	configured = strings.ToLower(strings.TrimSpace(configured))
	if configured == "" {
		configured = "delivered"
	}
	for _, raw := range strings.Split(o.Tags, ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		switch {
		case tag == configured,
			tag == "delivered",
			tag == "order-delivered",
			tag == "shipped",
			strings.Contains(tag, "deliver"):
			return tag, true
		}
	}
	return "", false
}

// CustomerEmail returns the customer email, falling back to the billing
// address
func (o *Order) CustomerEmail() string {
	if o.Customer != nil && o.Customer.Email != "" {
		return o.Customer.Email
	}
	if o.BillingAddress != nil {
		return o.BillingAddress.Email
	}
	return ""
}

// CustomerPhone returns the customer phone, falling back to the billing
// address
func (o *Order) CustomerPhone() string {
	if o.Customer != nil && o.Customer.Phone != "" {
		return o.Customer.Phone
	}
	if o.BillingAddress != nil {
		return o.BillingAddress.Phone
	}
	return ""
}

// CustomerName returns the customer's full name, degrading to whichever
// part is present and finally to "Customer"
func (o *Order) CustomerName() string {
	if o.Customer != nil {
		first := strings.TrimSpace(o.Customer.FirstName)
		last := strings.TrimSpace(o.Customer.LastName)
		switch {
		case first != "" && last != "":
			return first + " " + last
		case first != "":
			return first
		case last != "":
			return last
		}
	}
	return "Customer"
}

// ProductIDs returns the distinct product IDs across line items,
// skipping custom line items that carry no product
func (o *Order) ProductIDs() []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, item := range o.LineItems {
		id := item.ProductID.String()
		if id == "" || id == "0" {
			continue
		}
		// json.Number of a missing field decodes to ""
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
