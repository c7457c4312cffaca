package extract

import (
	"context"
	"encoding/json"
	"fmt"
)

// InvoiceLine is one line item extracted from an invoice.
type InvoiceLine struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	Total       float64 `json:"total,omitempty"`
}

// ProcessedInvoice is the structured data extracted from an invoice
// document.
type ProcessedInvoice struct {
	InvoiceNumber string        `json:"invoice_number"`
	Vendor        string        `json:"vendor"`
	Client        string        `json:"client,omitempty"`
	InvoiceDate   string        `json:"invoice_date,omitempty"`
	DueDate       string        `json:"due_date,omitempty"`
	Items         []InvoiceLine `json:"items,omitempty"`
	Subtotal      float64       `json:"subtotal,omitempty"`
	Tax           float64       `json:"tax,omitempty"`
	Total         float64       `json:"total"`
	Currency      string        `json:"currency,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	BankAccount   string        `json:"bank_account,omitempty"`
}

const invoiceSystemPrompt = `You are an expert financial AI assistant. Your task is to extract structured data from the provided invoice text.

Extract the following information:
- Invoice number
- Vendor name
- Client name
- Invoice date (YYYY-MM-DD)
- Due date (YYYY-MM-DD)
- Line items (description, quantity, unit_price, total)
- Subtotal
- Tax amount
- Total amount
- Currency
- Payment method
- Bank account details if available

Return the output as a valid JSON object matching the requested schema. Do not include any explanation, only the JSON.`

// InvoiceExtractor processes invoice documents end to end.
type InvoiceExtractor struct {
	parser *Parser
	llm    Strategy
}

// NewInvoiceExtractor wires a parser and an LLM strategy.
func NewInvoiceExtractor(parser *Parser, llm Strategy) *InvoiceExtractor {
	return &InvoiceExtractor{parser: parser, llm: llm}
}

// Process extracts structured invoice data from the document at path.
func (e *InvoiceExtractor) Process(ctx context.Context, path string) (*ProcessedInvoice, error) {
	text, err := e.parser.ExtractText(path)
	if err != nil {
		return nil, err
	}

	raw, err := e.llm.GenerateJSON(ctx, invoiceSystemPrompt,
		"Extract data from this invoice:\n\n"+truncate(text, maxPromptChars))
	if err != nil {
		return nil, err
	}

	var result ProcessedInvoice
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding extraction result: %v", ErrLLM, err)
	}

	result.InvoiceDate = NormalizeDate(result.InvoiceDate)
	result.DueDate = NormalizeDate(result.DueDate)

	if result.Currency == "" {
		result.Currency = "EUR"
	}

	return &result, nil
}
