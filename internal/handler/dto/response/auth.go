package response

import "reserva-api/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string                      `json:"access_token"`
	ExpiresIn   int                         `json:"expires_in"`
	User        *queries.AuthorizedUserView `json:"user"`
}
