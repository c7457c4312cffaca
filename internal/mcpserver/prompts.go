package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPrompts publishes guided multi-step workflows. Each prompt
// renders a user message walking the assistant through the extract,
// review, confirm, and create sequence with the matching tools.
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(
		mcp.NewPrompt("process-and-create-contract",
			mcp.WithPromptDescription("Process a contract document and create it in GLPI"),
			mcp.WithArgument("file_path",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("Path to the contract document"),
			),
		),
		promptHandler("Contract processing workflow", func(args map[string]string) string {
			return fmt.Sprintf(`Please follow these steps to process the contract document at '%s':

1. Use the 'process_contract' tool to extract data from the document.
2. Present the extracted data to me for review, including the Contract Name, Number, Duration, Renewal Type, SLA Info, Parties, Dates, Cost, and Summary.
3. Ask me for confirmation to proceed with creation.
4. If I confirm, use the 'create_glpi_contract' tool to create the contract in GLPI using the extracted data.
5. Provide the returned Contract ID and any warnings.
`, args["file_path"])
		}),
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("process-and-create-invoice",
			mcp.WithPromptDescription("Process an invoice document and create it in GLPI"),
			mcp.WithArgument("file_path",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("Path to the invoice document"),
			),
		),
		promptHandler("Invoice processing workflow", func(args map[string]string) string {
			return fmt.Sprintf(`Please follow these steps to process the invoice document at '%s':

1. Use the 'process_invoice' tool to extract data from the document.
2. Present the extracted data for review (Vendor, Invoice Number, Dates, Total Amount, Items).
3. Ask for confirmation.
4. If confirmed, use 'create_glpi_invoice' to create it in GLPI.
5. Confirm the creation with the returned ID.
`, args["file_path"])
		}),
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("update-contract-from-document",
			mcp.WithPromptDescription("Update an existing contract from a new document version"),
			mcp.WithArgument("contract_id",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("ID of the contract to update"),
			),
			mcp.WithArgument("file_path",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("Path to the new document version"),
			),
		),
		promptHandler("Contract update workflow", func(args map[string]string) string {
			return fmt.Sprintf(`Please help me update Contract ID %s using the document at '%s':

1. First, use 'get_contract_status' to fetch the current data for Contract %s.
2. Then, use 'process_contract' to extract data from the new document.
3. Compare the current data with the new extracted data. List specifically what has changed (e.g., end date extended, cost increased).
4. Ask me if I want to apply these updates.
5. If yes, use 'update_glpi_contract' to apply the changes.
`, args["contract_id"], args["file_path"], args["contract_id"])
		}),
	)

	s.mcp.AddPrompt(
		mcp.NewPrompt("create-ticket-workflow",
			mcp.WithPromptDescription("Guided support ticket creation"),
			mcp.WithArgument("description",
				mcp.RequiredArgument(),
				mcp.ArgumentDescription("Free-form description of the issue"),
			),
		),
		promptHandler("Ticket creation workflow", func(args map[string]string) string {
			return fmt.Sprintf(`Please help me create a support ticket for this issue: "%s"

1. Analyze the issue description.
2. Suggest an appropriate Title, Ticket Type (Incident/Request), Priority, and Category based on the description.
3. Ask me if these suggestions look correct or if I want to change them.
4. Once confirmed, use 'create_ticket' to create the ticket in GLPI.
`, args["description"])
		}),
	)
}

// promptHandler adapts a text-rendering function to the mcp-go prompt
// handler shape.
func promptHandler(description string, render func(args map[string]string) string) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(render(req.Params.Arguments))),
		}), nil
	}
}
