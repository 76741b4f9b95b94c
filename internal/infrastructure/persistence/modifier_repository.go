package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const modifierCountColumn = "(SELECT COUNT(*) FROM modifiers WHERE modifiers.group_id = modifier_groups.id) AS modifier_count"

// GormModifierRepository implements ModifierRepository using GORM
type GormModifierRepository struct {
	db *gorm.DB
}

// NewGormModifierRepository creates a new GormModifierRepository
func NewGormModifierRepository(db *gorm.DB) *GormModifierRepository {
	return &GormModifierRepository{db: db}
}

type modifierGroupRow struct {
	models.ModifierGroupModel
	ModifierCount int
}

func (row *modifierGroupRow) toDomain() *catalog.ModifierGroup {
	g := row.ModifierGroupModel.ToDomain()
	g.ModifierCount = row.ModifierCount
	return g
}

// FindGroupByIDForTenant finds a group with its modifier count
func (r *GormModifierRepository) FindGroupByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.ModifierGroup, error) {
	var rows []modifierGroupRow
	if err := r.db.WithContext(ctx).
		Model(&models.ModifierGroupModel{}).
		Select("modifier_groups.*, "+modifierCountColumn).
		Where("modifier_groups.tenant_id = ? AND modifier_groups.id = ?", tenantID, id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// FindGroupsForTenant lists groups with their modifier counts
func (r *GormModifierRepository) FindGroupsForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.ModifierGroup, error) {
	var rows []modifierGroupRow
	query := r.db.WithContext(ctx).
		Model(&models.ModifierGroupModel{}).
		Select("modifier_groups.*, "+modifierCountColumn).
		Where("modifier_groups.tenant_id = ?", tenantID)
	if v, ok := filter.Filters["is_active"]; ok {
		query = query.Where("modifier_groups.is_active = ?", v)
	}
	query = applyPage(query, filter, ModifierGroupSortFields, "name")

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	groups := make([]catalog.ModifierGroup, len(rows))
	for i := range rows {
		groups[i] = *rows[i].toDomain()
	}
	return groups, nil
}

// SaveGroup creates or updates a group
func (r *GormModifierRepository) SaveGroup(ctx context.Context, group *catalog.ModifierGroup) error {
	return r.db.WithContext(ctx).Save(models.ModifierGroupModelFromDomain(group)).Error
}

// FindByIDForTenant loads a modifier with its items and group name
func (r *GormModifierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Modifier, error) {
	var model models.ModifierModel
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGroup lists the modifiers of a group by name
func (r *GormModifierRepository) FindByGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]catalog.Modifier, error) {
	var rows []models.ModifierModel
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Items").
		Where("tenant_id = ? AND group_id = ?", tenantID, groupID).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Modifier, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// NameExistsInGroup checks modifier name uniqueness within a group
func (r *GormModifierRepository) NameExistsInGroup(ctx context.Context, groupID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.ModifierModel{}).
		Where("group_id = ? AND name = ?", groupID, name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the modifier and its items
func (r *GormModifierRepository) Create(ctx context.Context, modifier *catalog.Modifier) error {
	model := &models.ModifierModel{}
	model.FromDomain(modifier)
	model.Items = models.ModifierItemModelsFromDomain(modifier)
	if err := r.db.WithContext(ctx).Omit("Group").Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "A modifier with this name already exists in the group")
		}
		return err
	}
	return nil
}

// Update saves the modifier header; items are fixed at creation
func (r *GormModifierRepository) Update(ctx context.Context, modifier *catalog.Modifier) error {
	model := &models.ModifierModel{}
	model.FromDomain(modifier)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "A modifier with this name already exists in the group")
		}
		return err
	}
	return nil
}

// FindAssignment finds the assignment of a modifier to a product
func (r *GormModifierRepository) FindAssignment(ctx context.Context, productID, modifierID uuid.UUID) (*catalog.ProductModifier, error) {
	var model models.ProductModifierModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND modifier_id = ?", productID, modifierID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

type assignedModifierRow struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	ModifierID   uuid.UUID
	CreatedAt    time.Time
	ModifierName string
	GroupName    string
	PriceExtra   decimal.Decimal
}

// FindForProduct lists the modifiers assigned to a product with display fields
func (r *GormModifierRepository) FindForProduct(ctx context.Context, productID uuid.UUID) ([]catalog.AssignedModifier, error) {
	var rows []assignedModifierRow
	if err := r.db.WithContext(ctx).
		Table("product_modifiers AS pm").
		Select("pm.id, pm.product_id, pm.modifier_id, pm.created_at, m.name AS modifier_name, g.name AS group_name, m.price_extra").
		Joins("JOIN modifiers AS m ON m.id = pm.modifier_id").
		Joins("JOIN modifier_groups AS g ON g.id = m.group_id").
		Where("pm.product_id = ?", productID).
		Order("g.name ASC, m.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]catalog.AssignedModifier, len(rows))
	for i, row := range rows {
		out[i] = catalog.AssignedModifier{
			ProductModifier: catalog.ProductModifier{
				ID:         row.ID,
				ProductID:  row.ProductID,
				ModifierID: row.ModifierID,
				CreatedAt:  row.CreatedAt,
			},
			ModifierName: row.ModifierName,
			GroupName:    row.GroupName,
			PriceExtra:   row.PriceExtra,
		}
	}
	return out, nil
}

// Assign records a modifier assignment
func (r *GormModifierRepository) Assign(ctx context.Context, pm *catalog.ProductModifier) error {
	model := &models.ProductModifierModel{
		ID:         pm.ID,
		ProductID:  pm.ProductID,
		ModifierID: pm.ModifierID,
		CreatedAt:  pm.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Modifier is already assigned to the product")
		}
		return err
	}
	return nil
}

// Unassign removes a modifier assignment
func (r *GormModifierRepository) Unassign(ctx context.Context, productID, modifierID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("product_id = ? AND modifier_id = ?", productID, modifierID).
		Delete(&models.ProductModifierModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormModifierRepository implements ModifierRepository
var _ catalog.ModifierRepository = (*GormModifierRepository)(nil)
