package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRepairIsCriticalOpen(t *testing.T) {
	cases := []struct {
		priority Priority
		status   RepairStatus
		want     bool
	}{
		{PriorityCritical, RepairPending, true},
		{PriorityCritical, RepairInProgress, true},
		{PriorityCritical, RepairCompleted, false},
		{PriorityHigh, RepairPending, false},
	}
	for _, tc := range cases {
		r := Repair{Priority: tc.priority, Status: tc.status}
		if got := r.IsCriticalOpen(); got != tc.want {
			t.Fatalf("%s/%s: expected %v, got %v", tc.priority, tc.status, tc.want, got)
		}
	}
}

func TestInventoryIsLowStockIncludesThreshold(t *testing.T) {
	if !(InventoryItem{Quantity: 50, MinStock: 50}).IsLowStock() {
		t.Fatalf("quantity equal to minimum should be low stock")
	}
	if (InventoryItem{Quantity: 51, MinStock: 50}).IsLowStock() {
		t.Fatalf("quantity above minimum should not be low stock")
	}
}

func TestKPIProgressClamps(t *testing.T) {
	cases := []struct {
		kpi  KPI
		want float64
	}{
		{KPI{Target: 100, Actual: 50}, 50},
		{KPI{Target: 100, Actual: 250}, 100},
		{KPI{Target: 100, Actual: -5}, 0},
		{KPI{Target: 0, Actual: 1}, 0},
	}
	for _, tc := range cases {
		if got := tc.kpi.Progress(); got != tc.want {
			t.Fatalf("progress(%v/%v): expected %v, got %v", tc.kpi.Actual, tc.kpi.Target, tc.want, got)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if !RepairInProgress.Valid() || RepairStatus("in progress").Valid() {
		t.Fatalf("repair status validity mismatch")
	}
	if !KPIOffTrack.Valid() || KPIStatus("late").Valid() {
		t.Fatalf("kpi status validity mismatch")
	}
	if len(Roles()) != 4 || Roles()[0] != RoleAdmin {
		t.Fatalf("unexpected role order %v", Roles())
	}
	if !HolidayOther.Valid() || !LedgerExpense.Valid() || !TrendStable.Valid() {
		t.Fatalf("expected known values to be valid")
	}
}

func TestCloneDetachesSlices(t *testing.T) {
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	repairs := Repairs.SeedList(now)
	cp := Repairs.Clone(repairs[0])
	cp.Parts[0] = "changed"
	if repairs[0].Parts[0] == "changed" {
		t.Fatalf("repair clone aliases parts slice")
	}

	users := Users.SeedList(now)
	ucp := Users.Clone(users[0])
	ucp.Permissions = append(ucp.Permissions[:0], "x")
	if users[0].Permissions[0] == "x" {
		t.Fatalf("user clone aliases permissions slice")
	}
}

func TestSeedListsMatchKnownDefaults(t *testing.T) {
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	if got := len(ProductionLines.SeedList(now)); got != 2 {
		t.Fatalf("expected 2 production lines, got %d", got)
	}
	if got := len(KPIs.SeedList(now)); got != 4 {
		t.Fatalf("expected 4 kpis, got %d", got)
	}
	inv := Inventory.SeedList(now)
	if inv[0].LastCount != "2024-03-12T10:00:00.000Z" {
		t.Fatalf("unexpected lastCount %q", inv[0].LastCount)
	}
	for _, r := range Repairs.SeedList(now) {
		if r.Priority == PriorityCritical {
			t.Fatalf("seed repairs should not contain critical records")
		}
	}
}

func TestBlankDefaults(t *testing.T) {
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	r := Repairs.Blank(now)
	if r.Priority != PriorityMedium || r.Status != RepairPending || r.ID != "" {
		t.Fatalf("unexpected blank repair %+v", r)
	}
	if tx := Transactions.Blank(now); tx.Date != "2024-03-12" || tx.Category != LedgerRevenue {
		t.Fatalf("unexpected blank transaction %+v", tx)
	}
	if u := Users.Blank(now); u.Role != RoleOperator || u.Status != AccountActive {
		t.Fatalf("unexpected blank user %+v", u)
	}
	if l := ProductionLines.Blank(now); l.Status != LineStopped {
		t.Fatalf("unexpected blank line %+v", l)
	}
}

func TestDeletePrompt(t *testing.T) {
	if got := Repairs.DeletePrompt(); got != "Are you sure you want to delete this repair record?" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestRecordJSONKeepsStoredFieldNames(t *testing.T) {
	payload, err := json.Marshal(InventoryItem{ID: "x", MinStock: 5, LastCount: "2024"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"minStock":5`, `"lastCount":"2024"`, `"sku":""`} {
		if !strings.Contains(string(payload), field) {
			t.Fatalf("expected %s in %s", field, payload)
		}
	}
	repair, _ := json.Marshal(Repair{ID: "r"})
	if strings.Contains(string(repair), "completedDate") {
		t.Fatalf("empty completedDate should be omitted: %s", repair)
	}
}
