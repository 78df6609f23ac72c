package material

type RegisterBookReq struct {
	Title string `json:"title" validate:"required,max=255"`
	Pages int    `json:"pages" validate:"required,gt=0,lte=10000"`
}

type RegisterItemReq struct {
	Description string  `json:"description" validate:"required,min=2,max=500"`
	WeightKg    float64 `json:"weight_kg" validate:"required,gt=0,lte=1000"`
	Dimensions  string  `json:"dimensions" validate:"max=100"`
}
