package seed

import (
	"time"

	"github.com/frahmantamala/sakti/internal/auth"
	approvalDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/approval"
	crDatamodel "github.com/frahmantamala/sakti/internal/core/datamodel/changerequest"
	"github.com/frahmantamala/sakti/internal/user"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// Accounts mirrors the mock credential table so both login modes resolve to
// the same user ids.
func Accounts() []user.Account {
	var accounts []user.Account
	for _, u := range auth.MockUsers() {
		accounts = append(accounts, user.Account{User: u, Password: auth.MockPassword})
	}
	return accounts
}

func ChangeRequests() []*crDatamodel.ChangeRequest {
	return []*crDatamodel.ChangeRequest{
		{
			ID: "CR-001", Title: "Update Server Configuration", Dinas: "Infrastructure",
			Catalog: "Infrastructure", SubCatalog: "Server", BMDID: "BMD-001",
			Status: "Approved", Type: "standard", RequestedBy: "usr-teknisi", CreatedAt: day("2024-01-10"),
			Notes: "Configuration changes to improve production server performance and security.",
			AffectedAssets: []crDatamodel.AffectedAsset{
				{BMDID: "BMD-001", AssetName: "Server Dell PowerEdge R740"},
				{BMDID: "BMD-045", AssetName: "Network Switch Cisco Catalyst"},
				{BMDID: "BMD-089", AssetName: "Storage Array NetApp"},
			},
			Inspection: &crDatamodel.Inspection{
				ID: "INS-2024-001", InspectionDate: day("2024-01-16"),
				Result:        "OS update and security patches required",
				EstimatedCost: "Rp 5,000,000", EstimatedDuration: "4 hours",
				ImpactScore: 7, LikelihoodScore: 6, ExposureScore: 8, RiskScore: 42,
			},
			Schedule: &crDatamodel.Schedule{
				ScheduledDate: day("2025-01-25"), ScheduledTime: "22:00 - 02:00",
				Implementer: "Tim Infrastruktur", BackoutPlan: "Restore from snapshot if issues occur",
			},
			Tracking: []crDatamodel.StatusEvent{
				{Status: "Submitted", Actor: "John Doe", OccurredAt: day("2024-01-10")},
				{Status: "Inspected", Actor: "Jane Smith", OccurredAt: day("2024-01-16")},
				{Status: "Approved", Actor: "Manager A", OccurredAt: day("2024-01-20")},
				{Status: "Scheduled", Actor: "System", OccurredAt: day("2024-01-22")},
			},
		},
		{
			ID: "CR-002", Title: "Network Switch Upgrade", Dinas: "Network",
			Catalog: "Network", SubCatalog: "Switch", BMDID: "BMD-045",
			Status: "Scheduled", Type: "minor", RequestedBy: "usr-teknisi", CreatedAt: day("2024-01-12"),
			Notes: "Upgrade network switches to support higher bandwidth requirements.",
			AffectedAssets: []crDatamodel.AffectedAsset{
				{BMDID: "BMD-045", AssetName: "Network Switch Cisco Catalyst"},
				{BMDID: "BMD-046", AssetName: "Network Switch Cisco Catalyst 2"},
			},
			Inspection: &crDatamodel.Inspection{
				ID: "INS-2024-002", InspectionDate: day("2024-01-18"),
				Result:        "Firmware upgrade and configuration backup needed",
				EstimatedCost: "Rp 3,500,000", EstimatedDuration: "2 hours",
				ImpactScore: 5, LikelihoodScore: 4, ExposureScore: 6, RiskScore: 30,
			},
			Schedule: &crDatamodel.Schedule{
				ScheduledDate: day("2025-01-28"), ScheduledTime: "23:00 - 01:00",
				Implementer: "Tim Network", BackoutPlan: "Rollback to previous firmware",
			},
			Tracking: []crDatamodel.StatusEvent{
				{Status: "Submitted", Actor: "John Doe", OccurredAt: day("2024-01-12")},
				{Status: "Inspected", Actor: "Jane Smith", OccurredAt: day("2024-01-18")},
				{Status: "Scheduled", Actor: "System", OccurredAt: day("2024-01-22")},
			},
		},
		{
			ID: "CR-003", Title: "Deploy New Application", Dinas: "Application",
			Catalog: "Application", SubCatalog: "Web Service", BMDID: "BMD-100",
			Status: "Implementing", Type: "standard", RequestedBy: "usr-teknisi", CreatedAt: day("2024-01-15"),
			Notes: "Deploy new microservice application to production environment.",
			AffectedAssets: []crDatamodel.AffectedAsset{
				{BMDID: "BMD-100", AssetName: "Application Server"},
				{BMDID: "BMD-101", AssetName: "Load Balancer"},
			},
			Inspection: &crDatamodel.Inspection{
				ID: "INS-2024-003", InspectionDate: day("2024-01-20"),
				Result:        "Environment ready, dependencies verified",
				EstimatedCost: "Rp 2,000,000", EstimatedDuration: "1 hour",
				ImpactScore: 8, LikelihoodScore: 3, ExposureScore: 7, RiskScore: 56,
			},
			Schedule: &crDatamodel.Schedule{
				ScheduledDate: day("2025-01-20"), ScheduledTime: "14:00 - 15:00",
				Implementer: "Tim Development", BackoutPlan: "Revert to previous version",
			},
			Tracking: []crDatamodel.StatusEvent{
				{Status: "Submitted", Actor: "Developer A", OccurredAt: day("2024-01-15")},
				{Status: "Inspected", Actor: "QA Team", OccurredAt: day("2024-01-20")},
				{Status: "Approved", Actor: "Manager B", OccurredAt: day("2024-01-20")},
				{Status: "Implementing", Actor: "Tim Development", OccurredAt: day("2024-01-20")},
			},
		},
		{
			ID: "CR-004", Title: "Database Migration & Optimization", Dinas: "Database",
			Catalog: "Database", SubCatalog: "PostgreSQL", BMDID: "BMD-200",
			Status: "Submitted", Type: "major", RequestedBy: "usr-teknisi", CreatedAt: day("2024-01-22"),
			Notes: "Migrate database to new cluster and optimize performance.",
			AffectedAssets: []crDatamodel.AffectedAsset{
				{BMDID: "BMD-200", AssetName: "PostgreSQL Primary"},
				{BMDID: "BMD-201", AssetName: "PostgreSQL Replica"},
			},
			Inspection: &crDatamodel.Inspection{
				ID: "INS-2024-004", InspectionDate: day("2024-01-22"),
				Result:        "Data backup required, index optimization recommended",
				EstimatedCost: "Rp 8,000,000", EstimatedDuration: "6 hours",
				ImpactScore: 9, LikelihoodScore: 5, ExposureScore: 8, RiskScore: 72,
			},
			Tracking: []crDatamodel.StatusEvent{
				{Status: "Submitted", Actor: "DBA Team", OccurredAt: day("2024-01-22")},
			},
		},
	}
}

func Approvals() []*approvalDatamodel.Approval {
	rejected := "Migrasi ditunda sampai rencana backup disetujui."
	decider := "usr-kabid"
	decidedAt := day("2024-01-16")

	return []*approvalDatamodel.Approval{
		{ID: 1, CRID: "TCK-STD-0006", Title: "Check AC", Status: "NEED APPROVAL", Type: "minor",
			Description: "Pengecekan kondisi AC di ruang server untuk memastikan suhu optimal.",
			RequestedBy: "John Doe", RequestedDate: day("2024-01-15"), Department: "IT Operations"},
		{ID: 2, CRID: "TCK-MIN-0004", Title: "Upgrade Inch Monitor", Status: "NEED APPROVAL", Type: "minor",
			Description: "Upgrade monitor dari 21 inch ke 27 inch untuk tim development.",
			RequestedBy: "Jane Smith", RequestedDate: day("2024-01-14"), Department: "Development"},
		{ID: 3, CRID: "TCK-STD-0003", Title: "Update Template Notifikasi Email", Status: "APPROVED", Type: "standard",
			Description: "Memperbarui template email notifikasi sesuai branding terbaru.",
			RequestedBy: "Admin", RequestedDate: day("2024-01-13"), Department: "Marketing",
			DecidedBy: &decider, DecidedAt: &decidedAt},
		{ID: 4, CRID: "TCK-STD-0005", Title: "Penyesuaian Batas Maksimal Lampiran Tiket", Status: "APPROVED", Type: "standard",
			Description: "Meningkatkan batas maksimal lampiran dari 5MB ke 10MB.",
			RequestedBy: "Support Team", RequestedDate: day("2024-01-12"), Department: "Support",
			DecidedBy: &decider, DecidedAt: &decidedAt},
		{ID: 5, CRID: "TCK-STD-0004", Title: "Penambahan Kategori Layanan Baru di SILADAN", Status: "APPROVED", Type: "standard",
			Description: "Menambahkan kategori layanan baru untuk mempermudah klasifikasi tiket.",
			RequestedBy: "Manager", RequestedDate: day("2024-01-11"), Department: "Operations",
			DecidedBy: &decider, DecidedAt: &decidedAt},
		{ID: 6, CRID: "TCK-MAJ-0001", Title: "Database Migration", Status: "REJECTED", Type: "major",
			Description: "Migrasi database dari MySQL ke PostgreSQL.",
			RequestedBy: "DBA Team", RequestedDate: day("2024-01-10"), Department: "Database",
			DecidedBy: &decider, DecidedAt: &decidedAt, Reason: &rejected},
	}
}
