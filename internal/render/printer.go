package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/domain"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"
	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled output to w. Colours are dropped when w is not a
// terminal.
type Printer struct {
	w        io.Writer
	r        *lipgloss.Renderer
	title    lipgloss.Style
	label    lipgloss.Style
	panel    lipgloss.Style
	warning  lipgloss.Style
	errStyle lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		r:        r,
		title:    r.NewStyle().Bold(true),
		label:    r.NewStyle().Bold(true).Width(22),
		panel:    r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		warning:  r.NewStyle().Foreground(ColorWarning),
		errStyle: r.NewStyle().Foreground(ColorDanger).Bold(true),
	}
}

func (p *Printer) badge(text string, c lipgloss.Color) string {
	return p.r.NewStyle().Foreground(c).Bold(true).Render(text)
}

func (p *Printer) row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, p.label.Render(label), value)
}

// Order prints an assembled view followed by one line per warning.
func (p *Printer) Order(view domain.OrderView, warnings []lookup.Warning) {
	pay := p.panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		p.title.Render("Payment"),
		p.row("ID", view.Payment.ID),
		p.row("Method", PaymentMethodName(view.Payment.PaymentMethod)),
		p.row("Amount", Currency(view.Payment.Amount)),
		p.row("Status", p.badge(PaymentStatusLabel(view.Payment.Status), PaymentBadge(view.Payment.Status))),
	))
	ship := p.panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		p.title.Render("Shipping"),
		p.row("ID", view.Shipping.ID),
		p.row("Status", p.badge(ShipmentStatusLabel(view.Shipping.Status), ShipmentBadge(view.Shipping.Status))),
		p.row("Estimated delivery", Delivery(view.Shipping.EstimatedDelivery)),
	))

	fmt.Fprintln(p.w, p.title.Render("Order #"+view.OrderID))
	fmt.Fprintln(p.w, view.StatusMessage)
	fmt.Fprintln(p.w, lipgloss.JoinHorizontal(lipgloss.Top, pay, " ", ship))
	p.Warnings(warnings)
}

func (p *Printer) Warnings(warnings []lookup.Warning) {
	for _, w := range warnings {
		fmt.Fprintln(p.w, p.warning.Render("! "+w.Message))
	}
}

// NothingFound prints the notice shown when neither leg produced data.
func (p *Printer) NothingFound(warnings []lookup.Warning) {
	p.Warnings(warnings)
	fmt.Fprintln(p.w, p.errStyle.Render(lookup.ErrNothingFound.Error()))
}

func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.errStyle.Render("error: "+err.Error()))
}

func (p *Printer) Products(products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(p.w, "no products")
		return
	}
	fmt.Fprintln(p.w, p.title.Render(fmt.Sprintf("%-6s %-30s %14s %6s", "ID", "Name", "Price", "Stock")))
	for _, pr := range products {
		stock := fmt.Sprintf("%6d", pr.Stock)
		if pr.Stock == 0 {
			stock = p.badge(stock, ColorDanger)
		}
		fmt.Fprintf(p.w, "%-6d %-30s %14s %s\n", pr.ID, pr.Name, Currency(pr.Price), stock)
	}
}

// Health prints the gateway line and one line per service, sorted by name.
func (p *Printer) Health(report domain.HealthReport) {
	fmt.Fprintln(p.w, p.row("gateway", p.healthBadge(report.Gateway)))
	names := make([]string, 0, len(report.Services))
	for name := range report.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(p.w, p.row(name, p.healthBadge(report.Services[name].Status)))
	}
}

func (p *Printer) healthBadge(status string) string {
	if status == domain.HealthUp {
		return p.badge("up", ColorSuccess)
	}
	return p.badge("down", ColorDanger)
}
