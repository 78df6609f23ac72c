package loan

type CreateLoanReq struct {
	ReaderID    string `json:"reader_id" validate:"required"`
	LibrarianID string `json:"librarian_id"` // defaults to the authenticated librarian
	MaterialID  string `json:"material_id" validate:"required"`
	RequestDate string `json:"request_date" validate:"required"` // dd/mm/yyyy
	State       string `json:"state" validate:"required"`
}

type ChangeStateReq struct {
	State string `json:"state" validate:"required"`
}

type ReturnReq struct {
	ReturnDate string `json:"return_date" validate:"required"` // dd/mm/yyyy
}

type ModifyLoanReq struct {
	ReaderID    string `json:"reader_id" validate:"required"`
	LibrarianID string `json:"librarian_id" validate:"required"`
	MaterialID  string `json:"material_id" validate:"required"`
	RequestDate string `json:"request_date" validate:"required"` // dd/mm/yyyy
	ReturnDate  string `json:"return_date"`                      // optional, dd/mm/yyyy
	State       string `json:"state" validate:"required"`
}
