package policy

import (
	"strings"

	"github.com/orderhub/authz-gateway/internal/domain/token"
	"github.com/orderhub/authz-gateway/internal/infra/permissions"
)

// Context keys present on every allow decision.
const (
	ContextKeyID        = "id"
	ContextKeyRole      = "role"
	ContextKeyCompanies = "companies"
)

// Evaluate applies the endpoint's rules in a fixed order and returns the
// first failing rule's deny, or an allow carrying the resolved user context.
// It performs no I/O and trusts that the record was resolved for the given
// principal.
func Evaluate(
	principal *token.Principal,
	record *permissions.Record,
	resource ResourceRequest,
	endpoint EndpointPolicy,
) *Decision {
	if endpoint.SelfField != "" {
		if resource.Params[endpoint.SelfField] != principal.ID {
			return Denied(ReasonIdentityMismatch)
		}
	}

	if endpoint.RequireCompany {
		// A missing company id means the caller never identified the
		// resource; the membership rule fails closed rather than being
		// skipped.
		if resource.CompanyID == "" || !containsCompany(record.Companies, resource.CompanyID) {
			return Denied(ReasonNoCompanyAccess)
		}
	}

	if endpoint.RequiredRole != "" {
		if record.Role != endpoint.RequiredRole {
			return Denied(ReasonInsufficientRole)
		}
	}

	return Allowed(map[string]string{
		ContextKeyID:        record.ID,
		ContextKeyRole:      record.Role,
		ContextKeyCompanies: strings.Join(record.Companies, ","),
	})
}

func containsCompany(companies []string, companyID string) bool {
	for _, c := range companies {
		if c == companyID {
			return true
		}
	}
	return false
}
