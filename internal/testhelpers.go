package internal

import (
	"fmt"
	"time"
)

// CreateTestRecord creates a consent record with sample data
func CreateTestRecord(id string) *ConsentRecord {
	created := time.Date(2025, 9, 4, 10, 0, 0, 0, time.UTC)
	return &ConsentRecord{
		ID:          id,
		ApprovalURL: "https://approve.example/" + id,
		Status:      DefaultRecordStatus,
		Checks:      0,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// CreateTestRecordWithStatus creates a checked consent record
func CreateTestRecordWithStatus(id, status string, checks int) *ConsentRecord {
	rec := CreateTestRecord(id)
	rec.Status = status
	rec.Checks = checks
	rec.UpdatedAt = rec.CreatedAt.Add(time.Duration(checks) * time.Minute)
	return rec
}

// CreateTestRecords creates n records, newest first like Journal.List
func CreateTestRecords(n int) []*ConsentRecord {
	records := make([]*ConsentRecord, 0, n)
	for i := n; i > 0; i-- {
		rec := CreateTestRecord(fmt.Sprintf("consent-%03d", i))
		rec.CreatedAt = rec.CreatedAt.Add(time.Duration(i) * time.Hour)
		rec.UpdatedAt = rec.CreatedAt
		records = append(records, rec)
	}
	return records
}
