package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/services"

	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
)

const (
	toolCheckInventory   = "check_inventory"
	toolLowStock         = "get_low_stock"
	toolCustomerBalances = "get_customer_balances"
	toolCashierReport    = "get_cashier_report"

	// invoices listed in a report answer; totals cover every row the report
	// returned, which stops at services.ReportLimit (Capped marks that)
	reportSampleSize = 20
)

// Toolbox runs the assistant's function calls. Every tool only reads.
type Toolbox struct {
	products  *services.ProductService
	cashier   *services.CashierService
	customers *services.CustomerService
}

func NewToolbox(products *services.ProductService, cashier *services.CashierService, customers *services.CustomerService) *Toolbox {
	return &Toolbox{products: products, cashier: cashier, customers: customers}
}

// Declarations describes the tools to the model.
func (t *Toolbox) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolCheckInventory,
			Description: "List products with barcode, stock on hand, sold quantity and prices. Use it for ANY question about a product's price, cost or stock.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Optional part of a product name or barcode"},
				},
			},
		},
		{
			Name:        toolLowStock,
			Description: "List products whose stock is at or under their minimum quantity.",
		},
		{
			Name:        toolCustomerBalances,
			Description: "List deferred-payment customers with what they owe. Positive remaining means the customer owes the shop.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"only_owing": {Type: genai.TypeBoolean, Description: "Only customers with a positive balance"},
				},
			},
		},
		{
			Name:        toolCashierReport,
			Description: "Summarize cashier invoices: count, sales total, returns and net for a date range and filters.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from":           {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
					"to":             {Type: genai.TypeString, Description: "End date (YYYY-MM-DD), inclusive"},
					"payment_method": {Type: genai.TypeString, Description: "Exact payment method, e.g. cash or card"},
					"status":         {Type: genai.TypeString, Description: "suspended, normal or all"},
					"return_filter":  {Type: genai.TypeString, Description: "withReturn, withoutReturn or all"},
				},
			},
		},
	}
}

// Call runs one function call and returns the payload sent back to the model.
// Tool failures are reported to the model rather than aborting the chat.
func (t *Toolbox) Call(ctx context.Context, call genai.FunctionCall) map[string]any {
	var (
		result any
		err    error
	)
	switch call.Name {
	case toolCheckInventory:
		result, err = t.inventory(ctx, argString(call.Args, "query"))
	case toolLowStock:
		result, err = t.lowStock(ctx)
	case toolCustomerBalances:
		result, err = t.balances(ctx, argBool(call.Args, "only_owing"))
	case toolCashierReport:
		result, err = t.report(ctx, services.ReportQuery{
			From:          argString(call.Args, "from"),
			To:            argString(call.Args, "to"),
			PaymentMethod: argString(call.Args, "payment_method"),
			Status:        argString(call.Args, "status"),
			ReturnFilter:  argString(call.Args, "return_filter"),
		})
	default:
		err = fmt.Errorf("unknown tool %q", call.Name)
	}
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	// the response has to be plain JSON values, so results travel as text
	b, err := json.Marshal(result)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"result": string(b)}
}

type stockLine struct {
	ID            uint            `json:"id"`
	Barcode       string          `json:"barcode"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Quantity      int             `json:"quantity"`
	MinQuantity   int             `json:"minQuantity"`
	SoldQuantity  int             `json:"soldQuantity"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	OfferPrice    *string         `json:"offerPrice,omitempty"`
}

func toStockLines(products []models.Product, now time.Time) []stockLine {
	out := make([]stockLine, 0, len(products))
	for _, p := range products {
		line := stockLine{
			ID:            p.ID,
			Barcode:       p.Barcode,
			Name:          p.Name,
			Category:      p.Category,
			Quantity:      p.Quantity,
			MinQuantity:   p.MinQuantity,
			SoldQuantity:  p.SoldQuantity,
			SalePrice:     p.SalePrice,
			PurchasePrice: p.PurchasePrice,
		}
		if p.OfferActive(now) {
			s := p.OfferPrice.String()
			line.OfferPrice = &s
		}
		out = append(out, line)
	}
	return out
}

func (t *Toolbox) inventory(ctx context.Context, query string) ([]stockLine, error) {
	products, err := t.products.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query != "" {
		matched := products[:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(p.Barcode, query) {
				matched = append(matched, p)
			}
		}
		products = matched
	}
	return toStockLines(products, time.Now()), nil
}

func (t *Toolbox) lowStock(ctx context.Context) ([]stockLine, error) {
	products, err := t.products.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toStockLines(products, time.Now()), nil
}

type balanceLine struct {
	ID              uint                  `json:"id"`
	Name            string                `json:"name"`
	Phone           string                `json:"phone,omitempty"`
	Status          models.CustomerStatus `json:"status"`
	Remaining       decimal.Decimal       `json:"remaining"`
	LastInvoiceDate *time.Time            `json:"lastInvoiceDate,omitempty"`
}

func (t *Toolbox) balances(ctx context.Context, onlyOwing bool) ([]balanceLine, error) {
	customers, err := t.customers.ListFull(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]balanceLine, 0, len(customers))
	for _, c := range customers {
		if onlyOwing && !c.Remaining.IsPositive() {
			continue
		}
		out = append(out, balanceLine{
			ID:              c.ID,
			Name:            c.Name,
			Phone:           c.Phone,
			Status:          c.Status,
			Remaining:       c.Remaining,
			LastInvoiceDate: c.LastInvoiceDate,
		})
	}
	return out, nil
}

type reportSummary struct {
	Count       int                     `json:"count"`
	GrandTotal  decimal.Decimal         `json:"grandTotal"`
	ReturnTotal decimal.Decimal         `json:"returnTotal"`
	Net         decimal.Decimal         `json:"net"`
	Capped      bool                    `json:"capped"`
	Latest      []models.CashierInvoice `json:"latest"`
}

func (t *Toolbox) report(ctx context.Context, q services.ReportQuery) (*reportSummary, error) {
	rows, err := t.cashier.Report(ctx, q)
	if err != nil {
		return nil, err
	}
	s := &reportSummary{
		Count:       len(rows),
		GrandTotal:  decimal.Zero,
		ReturnTotal: decimal.Zero,
		Capped:      len(rows) >= services.ReportLimit,
	}
	for _, inv := range rows {
		s.GrandTotal = s.GrandTotal.Add(inv.GrandTotal)
		s.ReturnTotal = s.ReturnTotal.Add(inv.ReturnTotal)
	}
	s.Net = s.GrandTotal.Sub(s.ReturnTotal)
	s.Latest = rows
	if len(rows) > reportSampleSize {
		s.Latest = rows[:reportSampleSize]
	}
	return s, nil
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func argBool(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}
