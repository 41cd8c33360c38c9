// internal/domain/models.go
package domain

import "time"

// CampaignType distinguishes the two ingestion pipelines sharing one table.
type CampaignType string

const (
	CampaignTypeLive    CampaignType = "LIVE"
	CampaignTypeProduct CampaignType = "PRODUCT"
)

// CampaignRecord is one campaign's performance for one report date.
// Uniqueness is (campaign_id, report_date); repeated uploads overwrite in place.
type CampaignRecord struct {
	ID            int64        `json:"id" db:"id"`
	CampaignID    int64        `json:"campaign_id" db:"campaign_id"`
	CampaignGroup string       `json:"campaign_group" db:"campaign_group"`
	CampaignName  string       `json:"campaign_name" db:"campaign_name"`
	ReportDate    string       `json:"report_date" db:"report_date"`
	CampaignType  CampaignType `json:"campaign_type" db:"campaign_type"`
	Cost          float64      `json:"cost" db:"cost"`
	NetCost       float64      `json:"net_cost" db:"net_cost"`
	LiveViews     int64        `json:"live_views" db:"live_views"`
	OrdersSKU     int64        `json:"orders_sku" db:"orders_sku"`
	GrossRevenue  float64      `json:"gross_revenue" db:"gross_revenue"`
	ROI           float64      `json:"roi" db:"roi"`
	// ROAS is a generated column owned by the database; it is read on
	// queries and never supplied on writes.
	ROAS       float64   `json:"roas" db:"roas"`
	Currency   string    `json:"currency" db:"currency"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by" db:"uploaded_by"`
}

// OperationKind tags entries in the append-only operation log.
type OperationKind string

const (
	OperationUpload      OperationKind = "upload"
	OperationUpdate      OperationKind = "update"
	OperationDelete      OperationKind = "delete"
	OperationManualEntry OperationKind = "manual_entry"
)

// OperationLogEntry is an audit record of one data-changing operation.
type OperationLogEntry struct {
	ID         int64          `json:"id" db:"id"`
	Kind       OperationKind  `json:"kind" db:"kind"`
	ReportDate string         `json:"report_date" db:"report_date"`
	Actor      string         `json:"actor" db:"actor"`
	Details    map[string]any `json:"details" db:"-"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// DashboardFilter narrows KPI queries by date range and pipeline.
type DashboardFilter struct {
	From         string       `json:"from"`
	To           string       `json:"to"`
	CampaignType CampaignType `json:"campaign_type"`
}

// DashboardSummary aggregates the KPI headline numbers.
type DashboardSummary struct {
	RecordCount  int     `json:"record_count" db:"record_count"`
	TotalCost    float64 `json:"total_cost" db:"total_cost"`
	TotalNetCost float64 `json:"total_net_cost" db:"total_net_cost"`
	TotalRevenue float64 `json:"total_revenue" db:"total_revenue"`
	TotalOrders  int64   `json:"total_orders" db:"total_orders"`
	AverageROAS  float64 `json:"average_roas" db:"average_roas"`
}

// TrendPoint is one day of the cost/revenue trend chart.
type TrendPoint struct {
	Date    string  `json:"date" db:"date"`
	Cost    float64 `json:"cost" db:"cost"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Orders  int64   `json:"orders" db:"orders"`
}

// GroupSummary rolls campaign records up by campaign group.
type GroupSummary struct {
	Group   string  `json:"group" db:"campaign_group"`
	Cost    float64 `json:"cost" db:"cost"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Orders  int64   `json:"orders" db:"orders"`
	ROAS    float64 `json:"roas" db:"roas"`
}

// Contact is a CRM contact row.
type Contact struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Company   string    `json:"company" db:"company"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactFilter holds list filters for contact browsing.
type ContactFilter struct {
	Search string
	Status string
	Limit  int
	Offset int
}

// TicketStatus values for the support subsystem.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

// Ticket is a support ticket.
type Ticket struct {
	ID             int64     `json:"id" db:"id"`
	Subject        string    `json:"subject" db:"subject"`
	Description    string    `json:"description" db:"description"`
	Status         string    `json:"status" db:"status"`
	Priority       string    `json:"priority" db:"priority"`
	RequesterEmail string    `json:"requester_email" db:"requester_email"`
	AssigneeEmail  string    `json:"assignee_email" db:"assignee_email"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// TicketMessage is one chat message on a ticket. Clients poll with the
// last seen message id.
type TicketMessage struct {
	ID          int64     `json:"id" db:"id"`
	TicketID    int64     `json:"ticket_id" db:"ticket_id"`
	SenderEmail string    `json:"sender_email" db:"sender_email"`
	Body        string    `json:"body" db:"body"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
