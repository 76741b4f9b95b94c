package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RelationshipService manages the relationships that gate transfers
type RelationshipService struct {
	repo      business.RelationshipRepository
	scope     TransactionScope
	directory *Directory
	audit     shared.AuditSink
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(
	repo business.RelationshipRepository,
	scope TransactionScope,
	directory *Directory,
	audit shared.AuditSink,
) *RelationshipService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &RelationshipService{repo: repo, scope: scope, directory: directory, audit: audit}
}

// CreateRequest asks the target business for a relationship. Only one
// relationship may ever exist per pair, in either direction and any status.
func (s *RelationshipService) CreateRequest(ctx context.Context, actor shared.Actor, req CreateRelationshipRequest) (*RelationshipResponse, error) {
	if err := actor.Require("manage business relationships", shared.RoleOwner); err != nil {
		return nil, err
	}
	rel, err := business.NewRelationship(actor.TenantID, req.TargetBusinessID)
	if err != nil {
		return nil, err
	}
	target, err := s.directory.GetBusiness(ctx, req.TargetBusinessID)
	if err != nil {
		return nil, notFoundBusiness(err, req.TargetBusinessID)
	}

	existing, err := s.repo.FindBetween(ctx, actor.TenantID, req.TargetBusinessID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, pairExistsError(existing)
	}
	if err := s.repo.Create(ctx, rel); err != nil {
		// a concurrent request for the same pair lost the race on the unique index
		return nil, err
	}

	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Relationship request sent to business '%s' (ID: %s) by %s",
		target.Name, target.ID, actor.DisplayName(),
	)))
	resp := ToRelationshipResponse(rel, actor.TenantID, target.Name)
	return &resp, nil
}

// Accept activates a pending request addressed to the actor's business
func (s *RelationshipService) Accept(ctx context.Context, actor shared.Actor, relationshipID uuid.UUID) (*RelationshipResponse, error) {
	return s.decide(ctx, actor, relationshipID, "accepted", func(r *business.Relationship) error {
		return r.Accept(actor.TenantID)
	})
}

// Reject refuses a pending request addressed to the actor's business.
// A rejected pair can never be requested again.
func (s *RelationshipService) Reject(ctx context.Context, actor shared.Actor, relationshipID uuid.UUID) (*RelationshipResponse, error) {
	return s.decide(ctx, actor, relationshipID, "rejected", func(r *business.Relationship) error {
		return r.Reject(actor.TenantID)
	})
}

func (s *RelationshipService) decide(
	ctx context.Context,
	actor shared.Actor,
	relationshipID uuid.UUID,
	verb string,
	transition func(*business.Relationship) error,
) (*RelationshipResponse, error) {
	if err := actor.Require("manage business relationships", shared.RoleOwner); err != nil {
		return nil, err
	}

	var rel *business.Relationship
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		rel, err = repos.RelationshipRepo().FindByIDForUpdate(ctx, relationshipID)
		if err != nil {
			return notFoundRelationship(err, relationshipID)
		}
		if !rel.Involves(actor.TenantID) {
			return notFoundRelationship(shared.ErrNotFound, relationshipID)
		}
		if err := transition(rel); err != nil {
			return err
		}
		return repos.RelationshipRepo().Save(ctx, rel)
	})
	if err != nil {
		return nil, err
	}

	requester := s.businessName(ctx, rel.RequesterBusinessID)
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Relationship %s with business '%s' (ID: %s) by %s",
		verb, requester, rel.RequesterBusinessID, actor.DisplayName(),
	)))
	resp := ToRelationshipResponse(rel, actor.TenantID, requester)
	return &resp, nil
}

// ListPending lists requests waiting for the actor's business to decide
func (s *RelationshipService) ListPending(ctx context.Context, actor shared.Actor) ([]RelationshipResponse, error) {
	rels, err := s.repo.FindPendingForTarget(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, rels, actor.TenantID), nil
}

// ListActive lists the active relationships of the actor's business
func (s *RelationshipService) ListActive(ctx context.Context, actor shared.Actor) ([]RelationshipResponse, error) {
	rels, err := s.repo.FindActiveFor(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, rels, actor.TenantID), nil
}

// IsActiveBetween reports whether an active relationship links a and b, in either direction
func (s *RelationshipService) IsActiveBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	rel, err := s.repo.FindBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return rel.IsActive(), nil
}

func (s *RelationshipService) toResponses(ctx context.Context, rels []business.Relationship, viewer uuid.UUID) []RelationshipResponse {
	out := make([]RelationshipResponse, len(rels))
	for i := range rels {
		out[i] = ToRelationshipResponse(&rels[i], viewer, s.businessName(ctx, rels[i].Counterpart(viewer)))
	}
	return out
}

func (s *RelationshipService) businessName(ctx context.Context, id uuid.UUID) string {
	b, err := s.directory.GetBusiness(ctx, id)
	if err != nil {
		return id.String()
	}
	return b.Name
}

func pairExistsError(existing *business.Relationship) error {
	return shared.NewDomainError(shared.CodeAlreadyExists,
		fmt.Sprintf("A relationship between these businesses already exists (status: %s)", existing.Status)).
		WithDetail("relationship_id", existing.ID.String()).
		WithDetail("status", string(existing.Status))
}

func notFoundRelationship(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Relationship %s", id)).
			WithDetail("relationship_id", id.String())
	}
	return err
}

func notFoundBusiness(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Business %s", id)).
			WithDetail("business_id", id.String())
	}
	return err
}
