package business

import (
	"context"

	"github.com/cafeops/backend/internal/domain/business"
)

// TransactionScope provides transactional access to relationship persistence
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes repositories bound to one transaction
type TransactionalRepositories interface {
	RelationshipRepo() business.RelationshipRepository
}

// NoOpTransactionScope runs without a transaction; useful with mocked repositories.
type NoOpTransactionScope struct {
	relationshipRepo business.RelationshipRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(relationshipRepo business.RelationshipRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{relationshipRepo: relationshipRepo}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RelationshipRepo returns the relationship repository
func (s *NoOpTransactionScope) RelationshipRepo() business.RelationshipRepository {
	return s.relationshipRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
