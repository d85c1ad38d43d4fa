package main

import (
	"net/http"

	"storefront/internal/auth"

	"github.com/google/uuid"
)

// createGuestSessionHandler godoc
//
//	@Summary		Create guest session
//	@Description	Issues a signed token for an anonymous shopper; the token subject keys the shopper's cart
//	@Tags			session
//	@Produce		json
//	@Success		201	{object}	map[string]string
//	@Router			/session/guest [post]
func (app *application) createGuestSessionHandler(w http.ResponseWriter, r *http.Request) {
	subject := "guest:" + uuid.NewString()

	token, err := app.authenticator.GenerateSessionToken(subject, auth.RoleShopper)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{
		"token":   token,
		"subject": subject,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}
