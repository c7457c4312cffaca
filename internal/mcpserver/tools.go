package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools declares the full tool surface. Handlers live in the
// handlers_*.go files next to the domain they serve.
func (s *Server) registerTools() {
	// Document processing.
	s.mcp.AddTool(mcp.NewTool("process_contract",
		mcp.WithDescription("Process a contract document and extract structured data"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path to the contract document"),
		),
	), s.handleProcessContract)

	s.mcp.AddTool(mcp.NewTool("process_invoice",
		mcp.WithDescription("Process an invoice document and extract structured data"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path to the invoice document"),
		),
	), s.handleProcessInvoice)

	// Contract management.
	s.mcp.AddTool(mcp.NewTool("create_glpi_contract",
		mcp.WithDescription("Create a new contract in GLPI, optionally attaching the source document"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Contract name")),
		mcp.WithString("begin_date", mcp.Description("Start date (YYYY-MM-DD)")),
		mcp.WithString("num", mcp.Description("Contract number/reference")),
		mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD)")),
		mcp.WithNumber("renewal_type", mcp.Description("Renewal type (0=none, 1=auto, 2=manual)")),
		mcp.WithNumber("cost", mcp.Description("Contract cost")),
		mcp.WithString("comment", mcp.Description("Additional comments")),
		mcp.WithNumber("suppliers_id", mcp.Description("Supplier ID")),
		mcp.WithNumber("contracttypes_id", mcp.Description("Contract type ID")),
		mcp.WithNumber("states_id", mcp.Description("Contract state ID")),
		mcp.WithString("file_path", mcp.Description("Optional source document to attach to the created contract")),
	), s.handleCreateContract)

	s.mcp.AddTool(mcp.NewTool("update_glpi_contract",
		mcp.WithDescription("Update an existing contract in GLPI"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Contract ID")),
		mcp.WithString("name", mcp.Description("Updated name")),
		mcp.WithString("begin_date", mcp.Description("Updated start date")),
		mcp.WithString("end_date", mcp.Description("Updated end date")),
		mcp.WithNumber("cost", mcp.Description("Updated cost")),
		mcp.WithString("comment", mcp.Description("Updated comments")),
		mcp.WithNumber("states_id", mcp.Description("Updated state ID")),
	), s.handleUpdateContract)

	s.mcp.AddTool(mcp.NewTool("get_contract_status",
		mcp.WithDescription("Get contract details and status"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Contract ID")),
	), s.handleGetContract)

	// Invoice management.
	s.mcp.AddTool(mcp.NewTool("create_glpi_invoice",
		mcp.WithDescription("Create a new invoice in GLPI, optionally attaching the source document"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Invoice name/description")),
		mcp.WithNumber("value", mcp.Required(), mcp.Description("Invoice total amount")),
		mcp.WithString("number", mcp.Description("Invoice number")),
		mcp.WithString("begin_date", mcp.Description("Invoice date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Description("Due date (YYYY-MM-DD)")),
		mcp.WithNumber("suppliers_id", mcp.Description("Supplier ID")),
		mcp.WithString("comment", mcp.Description("Additional notes")),
		mcp.WithString("file_path", mcp.Description("Optional source document to attach to the created invoice")),
	), s.handleCreateInvoice)

	s.mcp.AddTool(mcp.NewTool("update_glpi_invoice",
		mcp.WithDescription("Update an existing invoice in GLPI"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Invoice ID")),
		mcp.WithString("name", mcp.Description("Updated name")),
		mcp.WithString("begin_date", mcp.Description("Updated invoice date")),
		mcp.WithString("end_date", mcp.Description("Updated due date")),
		mcp.WithNumber("value", mcp.Description("Updated amount")),
		mcp.WithString("comment", mcp.Description("Updated notes")),
	), s.handleUpdateInvoice)

	s.mcp.AddTool(mcp.NewTool("get_invoice_status",
		mcp.WithDescription("Get invoice details and status"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Invoice ID")),
	), s.handleGetInvoice)

	// Ticket management.
	s.mcp.AddTool(mcp.NewTool("create_ticket",
		mcp.WithDescription("Create a new support ticket in GLPI"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Ticket title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Ticket description")),
		mcp.WithNumber("type", mcp.Description("Ticket type (1=incident, 2=request)")),
		mcp.WithNumber("priority", mcp.Description("Priority (1-5)")),
		mcp.WithNumber("urgency", mcp.Description("Urgency (1-5)")),
		mcp.WithNumber("impact", mcp.Description("Impact (1-5)")),
		mcp.WithNumber("category", mcp.Description("Category ID")),
		mcp.WithNumber("requesttypes_id", mcp.Description("Request source ID")),
	), s.handleCreateTicket)

	s.mcp.AddTool(mcp.NewTool("update_ticket",
		mcp.WithDescription("Update an existing ticket in GLPI"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Ticket ID")),
		mcp.WithString("name", mcp.Description("Updated title")),
		mcp.WithString("content", mcp.Description("Updated description")),
		mcp.WithNumber("status", mcp.Description("Updated status")),
		mcp.WithNumber("priority", mcp.Description("Updated priority")),
	), s.handleUpdateTicket)

	s.mcp.AddTool(mcp.NewTool("get_ticket_status",
		mcp.WithDescription("Get ticket details and status"),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Ticket ID")),
	), s.handleGetTicket)

	// Folder access.
	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List the root directories this server is allowed to access"),
	), s.handleListFolders)

	s.mcp.AddTool(mcp.NewTool("read_path_allowed",
		mcp.WithDescription("List allowed files (PDF, TXT, DOC, DOCX) in a directory or in all allowed roots"),
		mcp.WithString("path", mcp.Description("Optional absolute path to scan; defaults to all allowed roots")),
	), s.handleReadPathAllowed)

	// Batch processing.
	s.mcp.AddTool(mcp.NewTool("batch_process_contracts",
		mcp.WithDescription("Process every allowed contract document in a folder: extract, create in GLPI, and attach the source file"),
		mcp.WithString("path", mcp.Description("Optional allowed path to scan; defaults to all allowed roots")),
	), s.handleBatchContracts)
}
