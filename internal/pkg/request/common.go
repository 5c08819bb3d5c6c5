package request

// ByIDRequest binds the `:id` path parameter shared by most entity endpoints.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate exists so ByIDRequest satisfies validators that expect it; the
// binding tags already cover the checks.
func (r *ByIDRequest) Validate() error {
	return nil
}
