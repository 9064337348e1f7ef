package domain

import "slices"

// LineStatuses lists the production line states in dropdown order.
func LineStatuses() []LineStatus {
	return []LineStatus{LineRunning, LineStopped, LineMaintenance}
}

// Valid reports whether s is a known line state.
func (s LineStatus) Valid() bool { return slices.Contains(LineStatuses(), s) }

// HolidayTypes lists the holiday request types in dropdown order.
func HolidayTypes() []HolidayType {
	return []HolidayType{HolidayAnnual, HolidaySick, HolidayPersonal, HolidayOther}
}

// Valid reports whether t is a known holiday type.
func (t HolidayType) Valid() bool { return slices.Contains(HolidayTypes(), t) }

// HolidayStatuses lists the approval states in dropdown order.
func HolidayStatuses() []HolidayStatus {
	return []HolidayStatus{HolidayPending, HolidayApproved, HolidayRejected}
}

// Valid reports whether s is a known approval state.
func (s HolidayStatus) Valid() bool { return slices.Contains(HolidayStatuses(), s) }

// Priorities lists repair priorities from least to most urgent.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return slices.Contains(Priorities(), p) }

// RepairStatuses lists repair states in workflow order.
func RepairStatuses() []RepairStatus {
	return []RepairStatus{RepairPending, RepairInProgress, RepairCompleted}
}

// Valid reports whether s is a known repair state.
func (s RepairStatus) Valid() bool { return slices.Contains(RepairStatuses(), s) }

// LedgerCategories lists the ledger categories.
func LedgerCategories() []LedgerCategory {
	return []LedgerCategory{LedgerRevenue, LedgerExpense}
}

// Valid reports whether c is a known ledger category.
func (c LedgerCategory) Valid() bool { return slices.Contains(LedgerCategories(), c) }

// KPICategories lists the KPI categories.
func KPICategories() []KPICategory {
	return []KPICategory{KPIProduction, KPIQuality, KPISafety, KPIEfficiency}
}

// Valid reports whether c is a known KPI category.
func (c KPICategory) Valid() bool { return slices.Contains(KPICategories(), c) }

// Trends lists the KPI trends.
func Trends() []Trend { return []Trend{TrendUp, TrendDown, TrendStable} }

// Valid reports whether t is a known trend.
func (t Trend) Valid() bool { return slices.Contains(Trends(), t) }

// KPIStatuses lists KPI states from best to worst.
func KPIStatuses() []KPIStatus {
	return []KPIStatus{KPIOnTrack, KPIAtRisk, KPIOffTrack}
}

// Valid reports whether s is a known KPI state.
func (s KPIStatus) Valid() bool { return slices.Contains(KPIStatuses(), s) }

// Roles lists user roles from most to least privileged.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleSupervisor, RoleOperator}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return slices.Contains(Roles(), r) }

// AccountStatuses lists account states.
func AccountStatuses() []AccountStatus {
	return []AccountStatus{AccountActive, AccountInactive}
}

// Valid reports whether s is a known account state.
func (s AccountStatus) Valid() bool { return slices.Contains(AccountStatuses(), s) }
