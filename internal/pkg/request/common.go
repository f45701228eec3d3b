package request

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams holds page-based pagination parameters shared by list endpoints.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// WindowParams holds the offset-style pagination window used by the booking
// and item-request feeds. The page index is derived as from/size using integer
// division, so from should be a multiple of size; other values collapse to the
// page of the preceding multiple.
type WindowParams struct {
	From int `form:"from,default=0" binding:"omitempty,min=0"`
	Size int `form:"size,default=10" binding:"omitempty,min=1,max=100"`
}
