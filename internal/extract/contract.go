package extract

import (
	"context"
	"encoding/json"
	"fmt"
)

// ProcessedContract is the structured data extracted from a contract
// document.
type ProcessedContract struct {
	ContractName string            `json:"contract_name"`
	Parties      map[string]string `json:"parties,omitempty"`
	StartDate    string            `json:"start_date,omitempty"`
	EndDate      string            `json:"end_date,omitempty"`
	RenewalType  string            `json:"renewal_type,omitempty"`
	Amount       float64           `json:"amount,omitempty"`
	Currency     string            `json:"currency,omitempty"`
	PaymentTerms string            `json:"payment_terms,omitempty"`
	KeyTerms     []string          `json:"key_terms,omitempty"`
	Summary      string            `json:"summary"`
}

const contractSystemPrompt = `You are an expert legal AI assistant. Your task is to extract structured data from the provided contract text.

Extract the following information:
- Contract name
- Parties involved (Client and Provider)
- Start and End dates (YYYY-MM-DD format)
- Renewal type (automatic, manual, none)
- Contract amount/cost
- Currency
- Payment terms
- Key terms (list of important clauses)
- Brief summary of the contract

Return the output as a valid JSON object matching the requested schema. Do not include any explanation, only the JSON.`

// ContractExtractor processes contract documents end to end: text
// extraction, LLM field extraction, date normalization.
type ContractExtractor struct {
	parser *Parser
	llm    Strategy
}

// NewContractExtractor wires a parser and an LLM strategy.
func NewContractExtractor(parser *Parser, llm Strategy) *ContractExtractor {
	return &ContractExtractor{parser: parser, llm: llm}
}

// Process extracts structured contract data from the document at path.
func (e *ContractExtractor) Process(ctx context.Context, path string) (*ProcessedContract, error) {
	text, err := e.parser.ExtractText(path)
	if err != nil {
		return nil, err
	}

	raw, err := e.llm.GenerateJSON(ctx, contractSystemPrompt,
		"Extract data from this contract:\n\n"+truncate(text, maxPromptChars))
	if err != nil {
		return nil, err
	}

	var result ProcessedContract
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding extraction result: %v", ErrLLM, err)
	}

	result.StartDate = NormalizeDate(result.StartDate)
	result.EndDate = NormalizeDate(result.EndDate)

	if result.Currency == "" {
		result.Currency = "EUR"
	}

	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
