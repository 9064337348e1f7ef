package domain

import "time"

func seedProductionLines(time.Time) []ProductionLine {
	return []ProductionLine{
		{
			ID:        "1",
			Name:      "BP1",
			Status:    LineRunning,
			Product:   "White Bread",
			Target:    1000,
			Actual:    850,
			Shift:     "Morning",
			StartTime: "06:00",
			EndTime:   "14:00",
		},
		{
			ID:        "2",
			Name:      "BP2",
			Status:    LineMaintenance,
			Product:   "Wholemeal Bread",
			Target:    800,
			Actual:    600,
			Shift:     "Morning",
			StartTime: "06:00",
			EndTime:   "14:00",
		},
	}
}

func seedHolidays(time.Time) []HolidayRequest {
	return []HolidayRequest{
		{
			ID:           "1",
			EmployeeName: "John Smith",
			Department:   "Production",
			StartDate:    "2024-03-15",
			EndDate:      "2024-03-22",
			Type:         HolidayAnnual,
			Status:       HolidayApproved,
			Notes:        "Family vacation",
		},
		{
			ID:           "2",
			EmployeeName: "Sarah Johnson",
			Department:   "Engineering",
			StartDate:    "2024-04-01",
			EndDate:      "2024-04-05",
			Type:         HolidayPersonal,
			Status:       HolidayPending,
			Notes:        "Personal appointment",
		},
	}
}

func seedRepairs(time.Time) []Repair {
	return []Repair{
		{
			ID:           "1",
			Equipment:    "BP1 Mixer",
			Issue:        "Unusual noise from main bearing",
			Priority:     PriorityHigh,
			Status:       RepairInProgress,
			AssignedTo:   "Mike Thompson",
			ReportedBy:   "John Smith",
			ReportedDate: "2024-03-10T08:30:00",
			Notes:        "Bearing replacement required",
			Parts:        []string{"Main Bearing Assembly", "Seal Kit"},
		},
		{
			ID:           "2",
			Equipment:    "MG1 Conveyor",
			Issue:        "Belt misalignment",
			Priority:     PriorityMedium,
			Status:       RepairPending,
			AssignedTo:   "Sarah Wilson",
			ReportedBy:   "David Brown",
			ReportedDate: "2024-03-11T09:15:00",
			Notes:        "Belt needs adjustment and tensioning",
			Parts:        []string{"Tensioner Spring"},
		},
	}
}

func seedTransactions(time.Time) []LedgerTransaction {
	return []LedgerTransaction{
		{ID: "1", Date: "2024-03-01", Category: LedgerRevenue, Type: "Sales", Amount: 50000, Description: "Bread sales"},
		{ID: "2", Date: "2024-03-01", Category: LedgerExpense, Type: "Raw Materials", Amount: 20000, Description: "Flour and ingredients"},
	}
}

func seedInventory(now time.Time) []InventoryItem {
	counted := isoTimestamp(now)
	return []InventoryItem{
		{
			ID:        "1",
			SKU:       "FL001",
			Name:      "Strong White Flour",
			Category:  "Raw Materials",
			Quantity:  2500,
			Unit:      "kg",
			MinStock:  1000,
			Location:  "Warehouse A",
			LastCount: counted,
			Notes:     "Main bread flour",
		},
		{
			ID:        "2",
			SKU:       "YE001",
			Name:      "Active Dry Yeast",
			Category:  "Raw Materials",
			Quantity:  100,
			Unit:      "kg",
			MinStock:  50,
			Location:  "Cold Storage B",
			LastCount: counted,
			Notes:     "Keep refrigerated",
		},
	}
}

func seedUsers(time.Time) []UserAccount {
	return []UserAccount{
		{
			ID:          "1",
			Name:        "John Smith",
			Email:       "john.smith@warburtons.com",
			Role:        RoleManager,
			Department:  "Production",
			Status:      AccountActive,
			LastLogin:   "2024-03-10T09:30:00",
			Permissions: []string{"production.view", "production.edit", "reports.view"},
		},
		{
			ID:          "2",
			Name:        "Sarah Johnson",
			Email:       "sarah.johnson@warburtons.com",
			Role:        RoleSupervisor,
			Department:  "Engineering",
			Status:      AccountActive,
			LastLogin:   "2024-03-11T08:15:00",
			Permissions: []string{"maintenance.view", "maintenance.edit"},
		},
	}
}

func seedKPIs(now time.Time) []KPI {
	updated := isoTimestamp(now)
	return []KPI{
		{ID: "1", Name: "Production Output", Category: KPIProduction, Target: 10000, Actual: 9800, Unit: "units", Trend: TrendUp, Status: KPIOnTrack, LastUpdated: updated},
		{ID: "2", Name: "Quality Score", Category: KPIQuality, Target: 98, Actual: 97.5, Unit: "%", Trend: TrendStable, Status: KPIOnTrack, LastUpdated: updated},
		{ID: "3", Name: "Safety Incidents", Category: KPISafety, Target: 0, Actual: 1, Unit: "incidents", Trend: TrendUp, Status: KPIOffTrack, LastUpdated: updated},
		{ID: "4", Name: "OEE", Category: KPIEfficiency, Target: 85, Actual: 82, Unit: "%", Trend: TrendDown, Status: KPIAtRisk, LastUpdated: updated},
	}
}
