package view

import (
	"fmt"
	"strings"

	"warburtonsos/pkg/domain"
)

// ProductionLines projects the production schedule.
var ProductionLines = Projection[domain.ProductionLine]{
	Kind: domain.ProductionLines,
	Columns: []Column{
		{"name", "Line"}, {"status", "Status"}, {"product", "Product"}, {"target", "Target"},
		{"actual", "Actual"}, {"shift", "Shift"}, {"time", "Time"},
	},
	Cells: func(l domain.ProductionLine) []Cell {
		return []Cell{
			{Text: l.Name},
			{Text: string(l.Status), Class: string(l.Status)},
			{Text: l.Product},
			{Text: FormatNumber(float64(l.Target))},
			{Text: FormatNumber(float64(l.Actual))},
			{Text: l.Shift},
			{Text: strings.TrimSpace(l.StartTime + " - " + l.EndTime)},
		}
	},
	Badges: func(lines []domain.ProductionLine) []Badge {
		return statusBadges(lines, func(l domain.ProductionLine) string { return string(l.Status) }, []statusLabel{
			{string(domain.LineRunning), "Running"},
			{string(domain.LineMaintenance), "Maintenance"},
			{string(domain.LineStopped), "Stopped"},
		})
	},
}

// Holidays projects the holiday planner.
var Holidays = Projection[domain.HolidayRequest]{
	Kind: domain.Holidays,
	Columns: []Column{
		{"employeeName", "Employee"}, {"department", "Department"}, {"dateRange", "Date Range"},
		{"type", "Type"}, {"status", "Status"}, {"notes", "Notes"},
	},
	Cells: func(h domain.HolidayRequest) []Cell {
		return []Cell{
			{Text: h.EmployeeName},
			{Text: h.Department},
			{Text: FormatDate(h.StartDate) + " - " + FormatDate(h.EndDate)},
			{Text: string(h.Type)},
			{Text: string(h.Status), Class: string(h.Status)},
			notesCell(h.Notes),
		}
	},
	Badges: func(hs []domain.HolidayRequest) []Badge {
		return statusBadges(hs, func(h domain.HolidayRequest) string { return string(h.Status) }, []statusLabel{
			{string(domain.HolidayPending), "Pending"},
			{string(domain.HolidayApproved), "Approved"},
			{string(domain.HolidayRejected), "Rejected"},
		})
	},
}

// Repairs projects the engineering repairs log.
var Repairs = Projection[domain.Repair]{
	Kind: domain.Repairs,
	Columns: []Column{
		{"equipment", "Equipment"}, {"issue", "Issue"}, {"priority", "Priority"}, {"status", "Status"},
		{"assignedTo", "Assigned To"}, {"reported", "Reported"}, {"parts", "Parts"},
	},
	Cells: func(r domain.Repair) []Cell {
		return []Cell{
			{Text: r.Equipment},
			{Text: r.Issue},
			{Text: string(r.Priority), Class: string(r.Priority)},
			{Text: string(r.Status), Class: string(r.Status)},
			{Text: r.AssignedTo},
			{Text: strings.TrimSpace(FormatDate(r.ReportedDate) + " " + byLine(r.ReportedBy))},
			{Text: strings.Join(r.Parts, ", ")},
		}
	},
	Highlight: domain.Repair.IsCriticalOpen,
	Badges: func(rs []domain.Repair) []Badge {
		return []Badge{
			{Label: "Critical", Summary: "Critical Issues", Class: string(domain.PriorityCritical), Value: itoa(countWhere(rs, domain.Repair.IsCriticalOpen))},
			{Label: "Completed", Summary: "Completed Repairs", Class: string(domain.RepairCompleted), Value: itoa(countWhere(rs, func(r domain.Repair) bool {
				return r.Status == domain.RepairCompleted
			}))},
		}
	},
}

func byLine(name string) string {
	if name == "" {
		return ""
	}
	return "by " + name
}

// LedgerTotals sums a transaction list.
type LedgerTotals struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// SumLedger computes revenue, expenses and net profit.
func SumLedger(txs []domain.LedgerTransaction) LedgerTotals {
	var t LedgerTotals
	for _, tx := range txs {
		switch tx.Category {
		case domain.LedgerRevenue:
			t.Revenue += tx.Amount
		case domain.LedgerExpense:
			t.Expenses += tx.Amount
		}
	}
	t.Profit = t.Revenue - t.Expenses
	return t
}

// Transactions projects the profit and loss ledger.
var Transactions = Projection[domain.LedgerTransaction]{
	Kind: domain.Transactions,
	Columns: []Column{
		{"date", "Date"}, {"category", "Category"}, {"type", "Type"}, {"amount", "Amount"}, {"description", "Description"},
	},
	Cells: func(tx domain.LedgerTransaction) []Cell {
		return []Cell{
			{Text: FormatDate(tx.Date)},
			{Text: string(tx.Category), Class: string(tx.Category)},
			{Text: tx.Type},
			{Text: FormatMoney(tx.Amount), Class: string(tx.Category)},
			{Text: tx.Description},
		}
	},
	Badges: func(txs []domain.LedgerTransaction) []Badge {
		t := SumLedger(txs)
		return []Badge{
			{Label: "Total Revenue", Value: FormatMoney(t.Revenue), Class: string(domain.LedgerRevenue)},
			{Label: "Total Expenses", Value: FormatMoney(t.Expenses), Class: string(domain.LedgerExpense)},
			{Label: "Net Profit", Value: FormatMoney(t.Profit), Class: "profit"},
		}
	},
}

// Inventory projects the inventory count; low stock rows are highlighted.
var Inventory = Projection[domain.InventoryItem]{
	Kind: domain.Inventory,
	Columns: []Column{
		{"sku", "SKU"}, {"name", "Name"}, {"category", "Category"}, {"quantity", "Quantity"},
		{"minStock", "Min Stock"}, {"location", "Location"}, {"lastCount", "Last Count"},
	},
	Cells: func(i domain.InventoryItem) []Cell {
		qty := Cell{Text: strings.TrimSpace(FormatNumber(i.Quantity) + " " + i.Unit)}
		if i.IsLowStock() {
			qty.Class = "low-stock"
		}
		return []Cell{
			{Text: i.SKU},
			{Text: i.Name},
			{Text: i.Category},
			qty,
			{Text: strings.TrimSpace(FormatNumber(i.MinStock) + " " + i.Unit)},
			{Text: i.Location},
			{Text: FormatDate(i.LastCount)},
		}
	},
	Highlight: domain.InventoryItem.IsLowStock,
	Badges: func(items []domain.InventoryItem) []Badge {
		return []Badge{{Label: "Low Stock", Summary: "Low Stock Items", Class: "low-stock", Value: itoa(countWhere(items, domain.InventoryItem.IsLowStock))}}
	},
}

// KPIs projects the KPI dashboard.
var KPIs = Projection[domain.KPI]{
	Kind: domain.KPIs,
	Columns: []Column{
		{"name", "KPI"}, {"category", "Category"}, {"target", "Target"}, {"actual", "Actual"},
		{"progress", "Progress"}, {"trend", "Trend"}, {"status", "Status"}, {"lastUpdated", "Last Updated"},
	},
	Cells: func(k domain.KPI) []Cell {
		return []Cell{
			{Text: k.Name},
			{Text: string(k.Category), Class: string(k.Category)},
			{Text: strings.TrimSpace(FormatNumber(k.Target) + " " + k.Unit)},
			{Text: strings.TrimSpace(FormatNumber(k.Actual) + " " + k.Unit)},
			{Text: fmt.Sprintf("%.0f%%", k.Progress())},
			{Text: string(k.Trend), Class: "trend-" + string(k.Trend)},
			{Text: string(k.Status), Class: string(k.Status)},
			{Text: FormatDateTime(k.LastUpdated)},
		}
	},
	Highlight: func(k domain.KPI) bool { return k.Status == domain.KPIOffTrack },
	Badges: func(ks []domain.KPI) []Badge {
		return statusBadges(ks, func(k domain.KPI) string { return string(k.Status) }, []statusLabel{
			{string(domain.KPIOnTrack), "On Track"},
			{string(domain.KPIAtRisk), "At Risk"},
			{string(domain.KPIOffTrack), "Off Track"},
		})
	},
}

// Users projects user management.
var Users = Projection[domain.UserAccount]{
	Kind: domain.Users,
	Columns: []Column{
		{"name", "Name"}, {"email", "Email"}, {"role", "Role"}, {"department", "Department"},
		{"status", "Status"}, {"lastLogin", "Last Login"},
	},
	Cells: func(u domain.UserAccount) []Cell {
		return []Cell{
			{Text: u.Name},
			{Text: u.Email},
			{Text: string(u.Role), Class: string(u.Role)},
			{Text: u.Department},
			{Text: string(u.Status), Class: string(u.Status)},
			{Text: FormatDateTime(u.LastLogin)},
		}
	},
	Badges: func(us []domain.UserAccount) []Badge {
		return statusBadges(us, func(u domain.UserAccount) string { return string(u.Status) }, []statusLabel{
			{string(domain.AccountActive), "Active"},
			{string(domain.AccountInactive), "Inactive"},
		})
	},
}

type statusLabel struct {
	value string
	label string
}

func statusBadges[T any](items []T, status func(T) string, labels []statusLabel) []Badge {
	out := make([]Badge, 0, len(labels))
	for _, l := range labels {
		want := l.value
		out = append(out, Badge{
			Label: l.label,
			Class: l.value,
			Value: itoa(countWhere(items, func(it T) bool { return status(it) == want })),
		})
	}
	return out
}
