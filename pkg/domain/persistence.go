package domain

import (
	"fmt"
	"slices"
	"time"
)

// Kind describes how one record type is stored, seeded and copied. Record
// stores and views are generic over T and take everything type specific from
// the Kind.
type Kind[T any] struct {
	App   AppID
	Title string
	// Key is the storage key holding the JSON array of records.
	Key string
	// Noun names a single record in user prompts.
	Noun  string
	Seed  func(now time.Time) []T
	Blank func(now time.Time) T
	Clone func(T) T
	ID    func(T) string
	SetID func(*T, string)
}

// DeletePrompt returns the confirmation question asked before a delete.
func (k Kind[T]) DeletePrompt() string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", k.Noun)
}

// SeedList returns cloned seed records.
func (k Kind[T]) SeedList(now time.Time) []T {
	seed := k.Seed(now)
	out := make([]T, len(seed))
	for i, rec := range seed {
		out[i] = k.Clone(rec)
	}
	return out
}

// ProductionLines describes production schedule records.
var ProductionLines = Kind[ProductionLine]{
	App:   AppProductionSchedule,
	Title: "Production Schedule",
	Key:   KeyProductionLines,
	Noun:  "production line",
	Seed:  seedProductionLines,
	Blank: func(time.Time) ProductionLine { return ProductionLine{Status: LineStopped} },
	Clone: func(l ProductionLine) ProductionLine { return l },
	ID:    func(l ProductionLine) string { return l.ID },
	SetID: func(l *ProductionLine, id string) { l.ID = id },
}

// Holidays describes holiday planner records.
var Holidays = Kind[HolidayRequest]{
	App:   AppHolidayPlanner,
	Title: "Holiday Planner",
	Key:   KeyHolidays,
	Noun:  "holiday request",
	Seed:  seedHolidays,
	Blank: func(time.Time) HolidayRequest {
		return HolidayRequest{Type: HolidayAnnual, Status: HolidayPending}
	},
	Clone: func(h HolidayRequest) HolidayRequest { return h },
	ID:    func(h HolidayRequest) string { return h.ID },
	SetID: func(h *HolidayRequest, id string) { h.ID = id },
}

// Repairs describes engineering repair records.
var Repairs = Kind[Repair]{
	App:   AppEngineeringRepairs,
	Title: "Engineering Repairs",
	Key:   KeyRepairs,
	Noun:  "repair record",
	Seed:  seedRepairs,
	Blank: func(now time.Time) Repair {
		return Repair{
			Priority:     PriorityMedium,
			Status:       RepairPending,
			ReportedDate: isoTimestamp(now),
			Parts:        []string{},
		}
	},
	Clone: cloneRepair,
	ID:    func(r Repair) string { return r.ID },
	SetID: func(r *Repair, id string) { r.ID = id },
}

// Transactions describes profit and loss ledger records.
var Transactions = Kind[LedgerTransaction]{
	App:   AppProfitLoss,
	Title: "Profit & Loss",
	Key:   KeyTransactions,
	Noun:  "transaction",
	Seed:  seedTransactions,
	Blank: func(now time.Time) LedgerTransaction {
		return LedgerTransaction{Date: now.UTC().Format(time.DateOnly), Category: LedgerRevenue}
	},
	Clone: func(t LedgerTransaction) LedgerTransaction { return t },
	ID:    func(t LedgerTransaction) string { return t.ID },
	SetID: func(t *LedgerTransaction, id string) { t.ID = id },
}

// Inventory describes inventory count records.
var Inventory = Kind[InventoryItem]{
	App:   AppInventory,
	Title: "Inventory Count",
	Key:   KeyInventory,
	Noun:  "inventory item",
	Seed:  seedInventory,
	Blank: func(now time.Time) InventoryItem { return InventoryItem{LastCount: isoTimestamp(now)} },
	Clone: func(i InventoryItem) InventoryItem { return i },
	ID:    func(i InventoryItem) string { return i.ID },
	SetID: func(i *InventoryItem, id string) { i.ID = id },
}

// Users describes user management records.
var Users = Kind[UserAccount]{
	App:   AppUsers,
	Title: "User Management",
	Key:   KeyUsers,
	Noun:  "user",
	Seed:  seedUsers,
	Blank: func(now time.Time) UserAccount {
		return UserAccount{
			Role:        RoleOperator,
			Status:      AccountActive,
			LastLogin:   isoTimestamp(now),
			Permissions: []string{},
		}
	},
	Clone: cloneUser,
	ID:    func(u UserAccount) string { return u.ID },
	SetID: func(u *UserAccount, id string) { u.ID = id },
}

// KPIs describes KPI dashboard records.
var KPIs = Kind[KPI]{
	App:   AppKPI,
	Title: "KPI Dashboard",
	Key:   KeyKPIs,
	Noun:  "KPI",
	Seed:  seedKPIs,
	Blank: func(now time.Time) KPI {
		return KPI{
			Category:    KPIProduction,
			Trend:       TrendStable,
			Status:      KPIOnTrack,
			LastUpdated: isoTimestamp(now),
		}
	},
	Clone: func(k KPI) KPI { return k },
	ID:    func(k KPI) string { return k.ID },
	SetID: func(k *KPI, id string) { k.ID = id },
}

func cloneRepair(r Repair) Repair {
	cp := r
	cp.Parts = slices.Clone(r.Parts)
	return cp
}

func cloneUser(u UserAccount) UserAccount {
	cp := u
	cp.Permissions = slices.Clone(u.Permissions)
	return cp
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
