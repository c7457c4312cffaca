package glpi

// ContractInput is the writable field set for GLPI contracts.
// Zero-valued optional fields are omitted from the request.
type ContractInput struct {
	Name            string  `json:"name"`
	Num             string  `json:"num,omitempty"`
	BeginDate       string  `json:"begin_date,omitempty"` // YYYY-MM-DD
	EndDate         string  `json:"end_date,omitempty"`   // YYYY-MM-DD
	RenewalType     int     `json:"renewal"`              // 0=none, 1=auto, 2=manual
	Cost            float64 `json:"cost,omitempty"`
	Comment         string  `json:"comment,omitempty"`
	SuppliersID     int     `json:"suppliers_id,omitempty"`
	ContractTypesID int     `json:"contracttypes_id,omitempty"`
	StatesID        int     `json:"states_id,omitempty"`
}

// Contract is a GLPI contract record as read back from the API.
type Contract struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Num        string  `json:"num,omitempty"`
	BeginDate  string  `json:"begin_date,omitempty"`
	EndDate    string  `json:"end_date,omitempty"`
	Cost       float64 `json:"cost,omitempty"`
	StatesID   int     `json:"states_id,omitempty"`
	Comment    string  `json:"comment,omitempty"`
	LastUpdate string  `json:"date_mod,omitempty"`
}

// InvoiceInput is the writable field set for invoices. GLPI tracks these
// under the Budget itemtype.
type InvoiceInput struct {
	Name        string  `json:"name"`
	Number      string  `json:"num,omitempty"`
	BeginDate   string  `json:"begin_date,omitempty"` // invoice date
	EndDate     string  `json:"end_date,omitempty"`   // due date
	Value       float64 `json:"value"`
	SuppliersID int     `json:"suppliers_id,omitempty"`
	Comment     string  `json:"comment,omitempty"`
}

// Invoice is an invoice record as read back from the API.
type Invoice struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Number    string  `json:"num,omitempty"`
	BeginDate string  `json:"begin_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Comment   string  `json:"comment,omitempty"`
}

// TicketInput is the writable field set for tickets.
type TicketInput struct {
	Name           string `json:"name"`
	Content        string `json:"content"`
	Type           int    `json:"type"`     // 1=incident, 2=request
	Priority       int    `json:"priority"` // 1-5
	Urgency        int    `json:"urgency,omitempty"`
	Impact         int    `json:"impact,omitempty"`
	CategoriesID   int    `json:"itilcategories_id,omitempty"`
	RequestTypesID int    `json:"requesttypes_id,omitempty"`
}

// Ticket is a ticket record as read back from the API.
type Ticket struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Content  string `json:"content,omitempty"`
	Status   int    `json:"status"`
	Priority int    `json:"priority"`
	Date     string `json:"date,omitempty"`
	DateMod  string `json:"date_mod,omitempty"`
}

// Document is a GLPI document record.
type Document struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Filename     string `json:"filename,omitempty"`
	Mime         string `json:"mime,omitempty"`
	DateCreation string `json:"date_creation,omitempty"`
	DateMod      string `json:"date_mod,omitempty"`
}
