package policy

// Reason enumerates why an authorization run ended in a deny. Reasons are
// internal audit detail; transports collapse them to an opaque unauthorized
// response.
type Reason string

const (
	ReasonMissingToken           Reason = "missing_token"
	ReasonTokenInvalid           Reason = "token_invalid"
	ReasonPermissionLookupFailed Reason = "permission_lookup_failed"
	ReasonPermissionNotFound     Reason = "permission_not_found"
	ReasonIdentityMismatch       Reason = "identity_mismatch"
	ReasonNoCompanyAccess        Reason = "no_company_access"
	ReasonInsufficientRole       Reason = "insufficient_role"
)

// Decision is the terminal outcome of an authorization run. On allow, Context
// carries the resolved user attributes handed to the downstream handler. It is
// never mutated after construction.
type Decision struct {
	Allow   bool              `json:"allow"`
	Context map[string]string `json:"context,omitempty"`
	Reason  Reason            `json:"reason,omitempty"`
}

func Allowed(context map[string]string) *Decision {
	return &Decision{Allow: true, Context: context}
}

func Denied(reason Reason) *Decision {
	return &Decision{Allow: false, Reason: reason}
}

// ResourceRequest is the slice of the inbound path relevant to authorization,
// derived once per request.
type ResourceRequest struct {
	CompanyID string
	UserID    string
	Params    map[string]string
}

// EndpointPolicy selects which evaluation rules apply to an endpoint. The
// zero value applies no rules.
type EndpointPolicy struct {
	// SelfField names the path parameter that must equal the principal id.
	SelfField string
	// RequireCompany enforces company membership against the company_id
	// path parameter.
	RequireCompany bool
	// RequiredRole, when set, must equal the permission record's role.
	RequiredRole string
}
