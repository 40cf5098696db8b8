package transport

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateProductRequest uses pointers so a missing field can be told apart
// from a zero value.
type CreateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

type PatchProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// Empty reports whether the request changes nothing.
func (r PatchProductRequest) Empty() bool {
	return r.Name == nil && r.Price == nil && r.Description == nil
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CheckoutResponse struct {
	Message string  `json:"message"`
	Total   float64 `json:"total"`
}
