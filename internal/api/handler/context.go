package handler

// messageResponse is the standard envelope for success and failure messages.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type idsRequest struct {
	Ids []string `json:"ids" validate:"required,min=1,dive,required"`
}

// optionalIdsRequest is idsRequest without the presence requirement; used by
// delete-unverified where omitting ids means "all unverified users".
type optionalIdsRequest struct {
	Ids []string `json:"ids"`
}
