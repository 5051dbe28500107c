package http

import (
	"net/http"

	"github.com/DurgarajC07/hrms-saas/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// tokenIdentity is the subset of claims the attendance endpoints need. The
// identity module issues the token; this layer only reads it.
type tokenIdentity struct {
	EmployeeID string
	CompanyID  string
	Role       user.Role
}

func identityFromRequest(r *http.Request) (tokenIdentity, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return tokenIdentity{}, user.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return tokenIdentity{}, user.ErrInvalidToken
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return tokenIdentity{}, user.ErrInvalidToken
	}

	role, _ := claims["role"].(string)

	return tokenIdentity{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Role:       user.Role(role),
	}, nil
}
