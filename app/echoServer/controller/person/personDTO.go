package person

type RegisterReaderReq struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address"`
	Zone    string `json:"zone" validate:"required"`
	Status  string `json:"status"`
}

type RegisterLibrarianReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
