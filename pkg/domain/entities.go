// Package domain defines the record types, closed value sets and seed data
// managed by the Warburtons OS mini-apps.
package domain

// AppID identifies a mini-app hosted by the desktop shell.
type AppID string

// Mini-app identifiers. They double as URL segments and shell catalog ids.
const (
	// AppProductionSchedule manages production line schedules.
	AppProductionSchedule AppID = "production-schedule"
	// AppHolidayPlanner manages employee holiday requests.
	AppHolidayPlanner AppID = "holiday-planner"
	// AppEngineeringRepairs manages equipment repair tickets.
	AppEngineeringRepairs AppID = "engineering-repairs"
	// AppProfitLoss manages ledger transactions.
	AppProfitLoss AppID = "profit-loss"
	// AppInventory manages stock counts.
	AppInventory AppID = "inventory"
	// AppUsers manages user accounts.
	AppUsers AppID = "users"
	// AppKPI manages key performance indicators.
	AppKPI AppID = "kpi"
)

// Storage keys, one persisted JSON array per mini-app.
const (
	KeyProductionLines = "warburtons-production-lines"
	KeyHolidays        = "warburtons-holidays"
	KeyRepairs         = "warburtons-repairs"
	KeyTransactions    = "warburtons-transactions"
	KeyInventory       = "warburtons-inventory"
	KeyUsers           = "warburtons-users"
	KeyKPIs            = "warburtons-kpis"
	// KeySession holds the logged-in user's display name and role.
	KeySession = "warburtons-user"
)

// LineStatus is the running state of a production line.
type LineStatus string

// Production line states.
const (
	LineRunning     LineStatus = "running"
	LineStopped     LineStatus = "stopped"
	LineMaintenance LineStatus = "maintenance"
)

// ProductionLine is one scheduled line in the production schedule.
type ProductionLine struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    LineStatus `json:"status"`
	Product   string     `json:"product"`
	Target    int        `json:"target"`
	Actual    int        `json:"actual"`
	Shift     string     `json:"shift"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
}

// HolidayType classifies a holiday request.
type HolidayType string

// Holiday request types.
const (
	HolidayAnnual   HolidayType = "annual"
	HolidaySick     HolidayType = "sick"
	HolidayPersonal HolidayType = "personal"
	HolidayOther    HolidayType = "other"
)

// HolidayStatus is the approval state of a holiday request.
type HolidayStatus string

// Holiday approval states.
const (
	HolidayPending  HolidayStatus = "pending"
	HolidayApproved HolidayStatus = "approved"
	HolidayRejected HolidayStatus = "rejected"
)

// HolidayRequest is one employee absence request.
type HolidayRequest struct {
	ID           string        `json:"id"`
	EmployeeName string        `json:"employeeName"`
	Department   string        `json:"department"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Type         HolidayType   `json:"type"`
	Status       HolidayStatus `json:"status"`
	Notes        string        `json:"notes"`
}

// Priority ranks the urgency of a repair.
type Priority string

// Repair priorities.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// RepairStatus is the progress of a repair ticket.
type RepairStatus string

// Repair states.
const (
	RepairPending    RepairStatus = "pending"
	RepairInProgress RepairStatus = "in-progress"
	RepairCompleted  RepairStatus = "completed"
)

// Repair is an engineering repair ticket.
type Repair struct {
	ID            string       `json:"id"`
	Equipment     string       `json:"equipment"`
	Issue         string       `json:"issue"`
	Priority      Priority     `json:"priority"`
	Status        RepairStatus `json:"status"`
	AssignedTo    string       `json:"assignedTo"`
	ReportedBy    string       `json:"reportedBy"`
	ReportedDate  string       `json:"reportedDate"`
	CompletedDate string       `json:"completedDate,omitempty"`
	Notes         string       `json:"notes"`
	Parts         []string     `json:"parts"`
}

// IsCriticalOpen reports whether the repair counts towards the critical badge.
// Completed repairs are never critical.
func (r Repair) IsCriticalOpen() bool {
	return r.Priority == PriorityCritical && r.Status != RepairCompleted
}

// LedgerCategory separates income from spend.
type LedgerCategory string

// Ledger categories.
const (
	LedgerRevenue LedgerCategory = "revenue"
	LedgerExpense LedgerCategory = "expense"
)

// LedgerTransaction is one profit and loss entry.
type LedgerTransaction struct {
	ID          string         `json:"id"`
	Date        string         `json:"date"`
	Category    LedgerCategory `json:"category"`
	Type        string         `json:"type"`
	Amount      float64        `json:"amount"`
	Description string         `json:"description"`
}

// InventoryItem is one counted stock line.
type InventoryItem struct {
	ID        string  `json:"id"`
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	MinStock  float64 `json:"minStock"`
	Location  string  `json:"location"`
	LastCount string  `json:"lastCount"`
	Notes     string  `json:"notes"`
}

// IsLowStock reports whether the item is at or below its minimum stock level.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinStock
}

// KPICategory groups indicators on the dashboard.
type KPICategory string

// KPI categories.
const (
	KPIProduction KPICategory = "production"
	KPIQuality    KPICategory = "quality"
	KPISafety     KPICategory = "safety"
	KPIEfficiency KPICategory = "efficiency"
)

// Trend is the recent direction of an indicator.
type Trend string

// KPI trends.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// KPIStatus rates an indicator against its target.
type KPIStatus string

// KPI states.
const (
	KPIOnTrack  KPIStatus = "on-track"
	KPIAtRisk   KPIStatus = "at-risk"
	KPIOffTrack KPIStatus = "off-track"
)

// KPI is a key performance indicator.
type KPI struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    KPICategory `json:"category"`
	Target      float64     `json:"target"`
	Actual      float64     `json:"actual"`
	Unit        string      `json:"unit"`
	Trend       Trend       `json:"trend"`
	Status      KPIStatus   `json:"status"`
	LastUpdated string      `json:"lastUpdated"`
}

// Progress returns actual as a percentage of target clamped to [0, 100].
// A zero target has no meaningful ratio and reports 0.
func (k KPI) Progress() float64 {
	if k.Target == 0 {
		return 0
	}
	p := k.Actual / k.Target * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

// Role is a user's access level.
type Role string

// User roles.
const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleOperator   Role = "operator"
)

// AccountStatus marks whether a user may sign in.
type AccountStatus string

// Account states.
const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// UserAccount is a managed user.
type UserAccount struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Role        Role          `json:"role"`
	Department  string        `json:"department"`
	Status      AccountStatus `json:"status"`
	LastLogin   string        `json:"lastLogin"`
	Permissions []string      `json:"permissions"`
}
