package timeentry

import (
	"sort"
	"time"
)

// EntryType distinguishes the two punch directions.
type EntryType string

const (
	TypeClockIn  EntryType = "CLOCK_IN"
	TypeClockOut EntryType = "CLOCK_OUT"
)

// Method records how a punch was captured. It is provenance only.
type Method string

const (
	MethodFace     Method = "FACE"
	MethodPIN      Method = "PIN"
	MethodAdmin    Method = "ADMIN"
	MethodRecovery Method = "RECOVERY"
)

// TimeEntry is a single clock punch. Entries are never mutated by clock actions;
// corrections append new ADMIN entries.
type TimeEntry struct {
	ID           string
	CompanyID    string
	EmployeeID   string
	EmployeeName string
	Type         EntryType
	Timestamp    time.Time
	Method       Method
	SnapshotURL  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t EntryType) IsValid() bool {
	return t == TypeClockIn || t == TypeClockOut
}

func (m Method) IsValid() bool {
	switch m {
	case MethodFace, MethodPIN, MethodAdmin, MethodRecovery:
		return true
	}
	return false
}

// Before reports whether t is stored ahead of other. Ties on Timestamp fall back
// to CreatedAt, then ID, so a clock-out fixed at the exact clock-in instant still
// follows the clock-in it closes.
func (t TimeEntry) Before(other TimeEntry) bool {
	if !t.Timestamp.Equal(other.Timestamp) {
		return t.Timestamp.Before(other.Timestamp)
	}
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.Before(other.CreatedAt)
	}
	return t.ID < other.ID
}

// SortChronological orders entries by timestamp, created_at, id, the same order
// TimeEntryRepository.ListByRange returns.
func SortChronological(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Before(entries[j])
	})
}
