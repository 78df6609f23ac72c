// model/loan.go
package model

import "time"

type LoanStatus string

const (
	LoanPending    LoanStatus = "PENDIENTE"
	LoanInProgress LoanStatus = "EN_CURSO"
	LoanReturned   LoanStatus = "DEVUELTO"
)

func ParseLoanStatus(s string) (LoanStatus, bool) {
	switch LoanStatus(s) {
	case LoanPending, LoanInProgress, LoanReturned:
		return LoanStatus(s), true
	}
	return "", false
}

func LoanStatuses() []LoanStatus {
	return []LoanStatus{LoanPending, LoanInProgress, LoanReturned}
}

// Date layouts at the public boundary. Loan request/return dates travel as
// dd/mm/yyyy; the report filter range travels as yyyy-mm-dd. The split comes
// from the original desktop system and is kept as-is.
const (
	LoanDateLayout   = "02/01/2006"
	FilterDateLayout = "2006-01-02"
)

type Loan struct {
	Identifier   string       `json:"identifier" db:"identifier"`
	ReaderID     string       `json:"reader_id" db:"reader_id"`
	LibrarianID  string       `json:"librarian_id" db:"librarian_id"`
	MaterialID   string       `json:"material_id" db:"material_id"`
	MaterialKind MaterialKind `json:"material_kind" db:"material_kind"`
	RequestDate  time.Time    `json:"request_date" db:"request_date"`
	ReturnDate   *time.Time   `json:"return_date,omitempty" db:"return_date"`
	Status       LoanStatus   `json:"status" db:"status"`
}

// LoanRecord is the eagerly joined row handed to reporting callers, so they
// never see a half-resolved reference.
type LoanRecord struct {
	Identifier    string       `json:"identifier" db:"identifier"`
	ReaderID      string       `json:"reader_id" db:"reader_id"`
	ReaderName    string       `json:"reader_name" db:"reader_name"`
	Zone          Zone         `json:"zone" db:"zone"`
	LibrarianID   string       `json:"librarian_id" db:"librarian_id"`
	LibrarianName string       `json:"librarian_name" db:"librarian_name"`
	MaterialID    string       `json:"material_id" db:"material_id"`
	MaterialKind  MaterialKind `json:"material_kind" db:"material_kind"`
	MaterialName  string       `json:"material_name" db:"material_name"`
	RequestDate   time.Time    `json:"request_date" db:"request_date"`
	ReturnDate    *time.Time   `json:"return_date,omitempty" db:"return_date"`
	Status        LoanStatus   `json:"status" db:"status"`
}

// ZoneStatistics is one row of the per-zone loan report. Every defined zone
// gets a row even when all counters are zero.
type ZoneStatistics struct {
	Zone       Zone `json:"zone"`
	Total      int  `json:"total"`
	Pending    int  `json:"pending"`
	InProgress int  `json:"in_progress"`
	Returned   int  `json:"returned"`
}

// PendingMaterial is a material with its pending-loan tally.
type PendingMaterial struct {
	MaterialID   string       `json:"material_id" db:"material_id"`
	MaterialKind MaterialKind `json:"material_kind" db:"material_kind"`
	MaterialName string       `json:"material_name" db:"material_name"`
	PendingCount int          `json:"pending_count" db:"pending_count"`
}

// PendingLoan is one supporting row for the pending-material drill-down.
// RequestDate is already formatted as dd/mm/yyyy.
type PendingLoan struct {
	ReaderName    string `json:"reader_name"`
	LibrarianName string `json:"librarian_name"`
	RequestDate   string `json:"request_date"`
}
