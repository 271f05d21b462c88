package dto

// CredentialsRequest is the shared register/login payload.
type CredentialsRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
