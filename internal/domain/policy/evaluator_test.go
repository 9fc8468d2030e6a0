package policy_test

import (
	"testing"

	"github.com/orderhub/authz-gateway/internal/domain/policy"
	"github.com/orderhub/authz-gateway/internal/domain/token"
	"github.com/orderhub/authz-gateway/internal/infra/permissions"
)

func managerRecord() *permissions.Record {
	return &permissions.Record{
		ID:        "u1",
		Role:      "Manager",
		Companies: []string{"c1", "c2"},
	}
}

func orderResource() policy.ResourceRequest {
	return policy.ResourceRequest{
		CompanyID: "c1",
		UserID:    "u1",
		Params: map[string]string{
			"company_id": "c1",
			"user_id":    "u1",
		},
	}
}

func fullPolicy() policy.EndpointPolicy {
	return policy.EndpointPolicy{
		SelfField:      "user_id",
		RequireCompany: true,
		RequiredRole:   "Manager",
	}
}

func TestEvaluate_AllowWithFullContext(t *testing.T) {
	principal := &token.Principal{ID: "u1"}

	decision := policy.Evaluate(principal, managerRecord(), orderResource(), fullPolicy())

	if !decision.Allow {
		t.Fatalf("expected allow, got deny with reason %q", decision.Reason)
	}
	if decision.Context[policy.ContextKeyID] != "u1" {
		t.Errorf("expected id u1, got %q", decision.Context[policy.ContextKeyID])
	}
	if decision.Context[policy.ContextKeyRole] != "Manager" {
		t.Errorf("expected role Manager, got %q", decision.Context[policy.ContextKeyRole])
	}
	if decision.Context[policy.ContextKeyCompanies] != "c1,c2" {
		t.Errorf("expected companies c1,c2, got %q", decision.Context[policy.ContextKeyCompanies])
	}
}

func TestEvaluate_IdentityMismatch(t *testing.T) {
	// The record would satisfy company and role checks, but the token
	// subject is not the user addressed by the path.
	principal := &token.Principal{ID: "u2"}

	decision := policy.Evaluate(principal, managerRecord(), orderResource(), fullPolicy())

	if decision.Allow {
		t.Fatal("expected deny for subject mismatch")
	}
	if decision.Reason != policy.ReasonIdentityMismatch {
		t.Errorf("expected reason %q, got %q", policy.ReasonIdentityMismatch, decision.Reason)
	}
}

func TestEvaluate_NoCompanyAccess(t *testing.T) {
	principal := &token.Principal{ID: "u1"}
	record := &permissions.Record{
		ID:        "u1",
		Role:      "Manager",
		Companies: []string{"c2"},
	}

	decision := policy.Evaluate(principal, record, orderResource(), fullPolicy())

	if decision.Allow {
		t.Fatal("expected deny for missing company membership")
	}
	if decision.Reason != policy.ReasonNoCompanyAccess {
		t.Errorf("expected reason %q, got %q", policy.ReasonNoCompanyAccess, decision.Reason)
	}
}

func TestEvaluate_InsufficientRole(t *testing.T) {
	principal := &token.Principal{ID: "u1"}
	record := &permissions.Record{
		ID:        "u1",
		Role:      "Clerk",
		Companies: []string{"c1", "c2"},
	}

	decision := policy.Evaluate(principal, record, orderResource(), fullPolicy())

	if decision.Allow {
		t.Fatal("expected deny for role mismatch")
	}
	if decision.Reason != policy.ReasonInsufficientRole {
		t.Errorf("expected reason %q, got %q", policy.ReasonInsufficientRole, decision.Reason)
	}
}

func TestEvaluate_CaseSensitiveComparisons(t *testing.T) {
	principal := &token.Principal{ID: "u1"}
	record := &permissions.Record{
		ID:        "u1",
		Role:      "manager",
		Companies: []string{"c1"},
	}

	decision := policy.Evaluate(principal, record, orderResource(), fullPolicy())

	if decision.Allow {
		t.Fatal("expected deny: role comparison must be case-sensitive")
	}
	if decision.Reason != policy.ReasonInsufficientRole {
		t.Errorf("expected reason %q, got %q", policy.ReasonInsufficientRole, decision.Reason)
	}
}

func TestEvaluate_SelfFieldOnly(t *testing.T) {
	// Partner surface: the company id in the path must equal the token
	// subject, and no membership or role rule applies.
	principal := &token.Principal{ID: "c1"}
	record := &permissions.Record{ID: "c1"}
	resource := policy.ResourceRequest{
		CompanyID: "c1",
		Params:    map[string]string{"company_id": "c1", "id": "o1"},
	}
	endpoint := policy.EndpointPolicy{SelfField: "company_id"}

	decision := policy.Evaluate(principal, record, resource, endpoint)

	if !decision.Allow {
		t.Fatalf("expected allow, got deny with reason %q", decision.Reason)
	}
}

func TestEvaluate_MissingCompanyDeniesWhenRequired(t *testing.T) {
	// No company id on the request at all: the membership rule must fail
	// closed, never fall through to the role rule.
	principal := &token.Principal{ID: "u1"}
	record := &permissions.Record{ID: "u1", Role: "Manager"}
	resource := policy.ResourceRequest{
		UserID: "u1",
		Params: map[string]string{"user_id": "u1"},
	}
	endpoint := policy.EndpointPolicy{
		RequireCompany: true,
		RequiredRole:   "Manager",
	}

	decision := policy.Evaluate(principal, record, resource, endpoint)

	if decision.Allow {
		t.Fatal("expected deny when company id is missing")
	}
	if decision.Reason != policy.ReasonNoCompanyAccess {
		t.Fatalf("expected reason %q, got %q", policy.ReasonNoCompanyAccess, decision.Reason)
	}
}
