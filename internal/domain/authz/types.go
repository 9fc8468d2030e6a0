package authz

import (
	"github.com/orderhub/authz-gateway/internal/domain/policy"
	"github.com/orderhub/authz-gateway/internal/domain/token"
	"github.com/orderhub/authz-gateway/internal/infra/permissions"
)

// Input is everything the pipeline needs for one authorization run. Endpoint
// selection of evaluation rules is caller configuration, never hardcoded in
// the pipeline.
type Input struct {
	// Token is the Authorization header value, with or without the
	// "Bearer " prefix.
	Token    string
	Resource policy.ResourceRequest
	Endpoint policy.EndpointPolicy
}

// request is the mutable carrier threaded through the pipeline stages. Each
// stage either enriches it and continues, or short-circuits with a terminal
// decision.
type request struct {
	correlationID string
	raw           string
	resource      policy.ResourceRequest
	endpoint      policy.EndpointPolicy
	principal     *token.Principal
	record        *permissions.Record
}
