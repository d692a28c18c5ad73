package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/events"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/render"
	"go.uber.org/zap"
)

var orderCreatedTpl = template.Must(template.New("orderCreated").Parse(`
<h2>New order {{.OrderID}}</h2>
<p>Customer: <b>{{.CustomerID}}</b></p>
<p>Payment: {{.PaymentID}} ({{.Method}})</p>
<p>Shipment: {{.ShippingID}}</p>
{{- if .Address}}
<p>Ship to: {{.Address}}</p>
{{- end}}
<table>
<tr><th>Product</th><th>Qty</th><th>Subtotal</th></tr>
{{- range .Lines}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Subtotal}}</td></tr>
{{- end}}
</table>
<p>Total: <b>{{.Total}}</b></p>
`))

type line struct {
	Name     string
	Quantity int
	Subtotal string
}

// RenderOrderCreated returns the subject and HTML body announcing an order.
func RenderOrderCreated(o events.OrderCreated) (string, string, error) {
	lines := make([]line, 0, len(o.Items))
	for _, it := range o.Items {
		name := it.Name
		if name == "" {
			name = fmt.Sprintf("product #%d", it.ProductID)
		}
		lines = append(lines, line{Name: name, Quantity: it.Quantity, Subtotal: render.Currency(it.Subtotal())})
	}

	var buf bytes.Buffer
	err := orderCreatedTpl.Execute(&buf, map[string]any{
		"OrderID":    o.OrderID,
		"CustomerID": o.CustomerID,
		"PaymentID":  o.PaymentID,
		"ShippingID": o.ShippingID,
		"Method":     render.PaymentMethodName(o.PaymentMethod),
		"Address":    o.Address,
		"Lines":      lines,
		"Total":      render.Currency(o.TotalAmount),
	})
	if err != nil {
		return "", "", fmt.Errorf("render order %s: %w", o.OrderID, err)
	}
	return "New order " + o.OrderID, buf.String(), nil
}

// Notifier emails the orders inbox for every OrderCreated event.
type Notifier struct {
	sender Sender
	inbox  string
	logger *zap.Logger
}

func NewNotifier(sender Sender, inbox string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, inbox: inbox, logger: logger}
}

// Handle is an events.Handler. Other event types are ignored.
func (n *Notifier) Handle(ctx context.Context, evt events.Received) error {
	if evt.EventType != events.EventOrderCreated {
		return nil
	}
	var order events.OrderCreated
	if err := json.Unmarshal(evt.Data, &order); err != nil {
		return fmt.Errorf("decode %s data: %w", evt.EventType, err)
	}
	subject, body, err := RenderOrderCreated(order)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, Message{To: n.inbox, Subject: subject, HTML: body}); err != nil {
		return err
	}
	n.logger.Info("[notifier] order email sent",
		zap.String("order_id", order.OrderID),
		zap.String("to", n.inbox),
		zap.String("total", order.TotalAmount.String()),
	)
	return nil
}
