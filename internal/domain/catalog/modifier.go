package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ModifierGroup groups modifiers offered together ("Size", "Extras")
type ModifierGroup struct {
	shared.TenantAggregateRoot
	Name          string
	Description   string
	AllowMultiple bool
	IsRequired    bool
	IsActive      bool
	ModifierCount int // read-only, filled by queries
}

// ModifierGroupDetails carries the editable fields of a group
type ModifierGroupDetails struct {
	Name          string
	Description   string
	AllowMultiple bool
	IsRequired    bool
}

// NewModifierGroup creates an active group
func NewModifierGroup(tenantID uuid.UUID, d ModifierGroupDetails) (*ModifierGroup, error) {
	g := &ModifierGroup{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := g.Update(d); err != nil {
		return nil, err
	}
	return g, nil
}

// Update replaces the editable fields
func (g *ModifierGroup) Update(d ModifierGroupDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("Modifier group name cannot be empty")
	}
	g.Name = name
	g.Description = strings.TrimSpace(d.Description)
	g.AllowMultiple = d.AllowMultiple
	g.IsRequired = d.IsRequired
	g.IncrementVersion()
	return nil
}

// SetActive toggles availability of the group
func (g *ModifierGroup) SetActive(active bool) {
	g.IsActive = active
	g.IncrementVersion()
}

// ModifierItem is the stock effect of a modifier on one inventory item.
// Positive quantities consume more of the item, negative ones consume less.
type ModifierItem struct {
	ID              uuid.UUID
	ModifierID      uuid.UUID
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        decimal.Decimal
}

// ModifierItemLine is a requested modifier item
type ModifierItemLine struct {
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
}

// Modifier is an optional add-on applied to a product
type Modifier struct {
	shared.TenantAggregateRoot
	GroupID     uuid.UUID
	GroupName   string // read-only, filled by queries
	Name        string
	Description string
	PriceExtra  decimal.Decimal
	IsActive    bool
	Items       []ModifierItem
}

// ModifierDetails carries the editable fields of a modifier
type ModifierDetails struct {
	Name        string
	Description string
	PriceExtra  decimal.Decimal
}

// NewModifier creates an active modifier in group with its item effects
func NewModifier(group *ModifierGroup, d ModifierDetails, lines []ModifierItemLine) (*Modifier, error) {
	if len(lines) == 0 {
		return nil, shared.NewValidationError("A modifier needs at least one inventory item")
	}
	m := &Modifier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(group.TenantID),
		GroupID:             group.ID,
		GroupName:           group.Name,
		IsActive:            true,
	}
	if err := m.Update(d); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.InventoryItemID
	}
	if err := CheckDuplicateItems(ids); err != nil {
		return nil, err
	}
	m.Items = make([]ModifierItem, 0, len(lines))
	for _, l := range lines {
		qty := shared.RoundQuantity(l.Quantity)
		if qty.IsZero() {
			return nil, shared.NewValidationError("Modifier item quantity cannot be zero; use positive values to add and negative values to remove").
				WithDetail("item_id", l.InventoryItemID.String())
		}
		m.Items = append(m.Items, ModifierItem{
			ID:              uuid.New(),
			ModifierID:      m.ID,
			InventoryItemID: l.InventoryItemID,
			Quantity:        qty,
		})
	}
	return m, nil
}

// Update replaces the editable fields; item effects are fixed at creation
func (m *Modifier) Update(d ModifierDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("Modifier name cannot be empty")
	}
	if d.PriceExtra.IsNegative() {
		return shared.NewValidationError("Extra price cannot be negative")
	}
	m.Name = name
	m.Description = strings.TrimSpace(d.Description)
	m.PriceExtra = shared.RoundMoney(d.PriceExtra)
	m.IncrementVersion()
	return nil
}

// SetActive toggles availability of the modifier
func (m *Modifier) SetActive(active bool) {
	m.IsActive = active
	m.IncrementVersion()
}

// ItemIDs returns the set of inventory items the modifier touches
func (m *Modifier) ItemIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(m.Items))
	for _, it := range m.Items {
		ids[it.InventoryItemID] = struct{}{}
	}
	return ids
}

// ProductModifier records that a modifier may be applied to a product
type ProductModifier struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	ModifierID uuid.UUID
	CreatedAt  time.Time
}

// AssignedModifier is a ProductModifier joined with display fields
type AssignedModifier struct {
	ProductModifier
	ModifierName string
	GroupName    string
	PriceExtra   decimal.Decimal
}

// Assign checks compatibility and builds the assignment.
// Every item the modifier touches must be an ingredient of the product.
func Assign(p *Product, m *Modifier) (*ProductModifier, error) {
	if missing := MissingIngredients(p, m); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, id := range missing {
			names[i] = id.String()
		}
		return nil, &shared.DomainError{
			Code: shared.CodeIncompatibleModifier,
			Message: fmt.Sprintf("Modifier '%s' is not compatible with product '%s': its items must be ingredients of the product",
				m.Name, p.Name),
			Details: map[string]any{"missing_item_ids": names},
		}
	}
	return &ProductModifier{
		ID:         uuid.New(),
		ProductID:  p.ID,
		ModifierID: m.ID,
		CreatedAt:  time.Now(),
	}, nil
}

// MissingIngredients returns the modifier items absent from the product's
// ingredients, sorted for stable output
func MissingIngredients(p *Product, m *Modifier) []uuid.UUID {
	have := p.IngredientItemIDs()
	var missing []uuid.UUID
	for id := range m.ItemIDs() {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].String() < missing[j].String() })
	return missing
}
