package middleware

import (
	"net/http"

	canopyauth "github.com/canopyhq/canopyauth"
)

// RequireOrganization admits ORGANIZATION sessions only.
func RequireOrganization(engine *canopyauth.Engine) func(http.Handler) http.Handler {
	return Guard(engine, canopyauth.RoleOrganization)
}

// RequireCompany admits COMPANY sessions only.
func RequireCompany(engine *canopyauth.Engine) func(http.Handler) http.Handler {
	return Guard(engine, canopyauth.RoleCompany)
}

// RequireValidator admits VALIDATOR sessions only.
func RequireValidator(engine *canopyauth.Engine) func(http.Handler) http.Handler {
	return Guard(engine, canopyauth.RoleValidator)
}
