package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockpilot/backend/internal/domain/identity"
	"github.com/stockpilot/backend/internal/domain/inventory"
	"github.com/stockpilot/backend/internal/domain/shared"
	"github.com/stockpilot/backend/internal/infrastructure/persistence/orgscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memProductRepository keeps products in memory and honors scoping the
// way the real repository does
type memProductRepository struct {
	products map[uuid.UUID]*inventory.Product
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: map[uuid.UUID]*inventory.Product{}}
}

func (m *memProductRepository) visible(tc *identity.TenantContext, p *inventory.Product) bool {
	if tc.Unrestricted() {
		return true
	}
	if p.OrganizationID != *tc.OrganizationID() {
		return false
	}
	if branch := tc.BranchID(); branch != nil {
		return p.BranchID == nil || *p.BranchID == *branch
	}
	return true
}

func (m *memProductRepository) FindByID(_ context.Context, tc *identity.TenantContext, id uuid.UUID) (*inventory.Product, error) {
	if tc == nil {
		return nil, orgscope.ErrContextRequired
	}
	p, ok := m.products[id]
	if !ok || !m.visible(tc, p) {
		return nil, shared.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *memProductRepository) FindBySKU(_ context.Context, tc *identity.TenantContext, sku string) (*inventory.Product, error) {
	for _, p := range m.products {
		if p.SKU == sku && m.visible(tc, p) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memProductRepository) List(_ context.Context, tc *identity.TenantContext) ([]inventory.Product, error) {
	if tc == nil {
		return nil, orgscope.ErrContextRequired
	}
	var out []inventory.Product
	for _, p := range m.products {
		if m.visible(tc, p) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepository) ListForOrganization(_ context.Context, organizationID uuid.UUID, _ *uuid.UUID) ([]inventory.Product, error) {
	if organizationID == uuid.Nil {
		return nil, orgscope.ErrExplicitTargetRequired
	}
	var out []inventory.Product
	for _, p := range m.products {
		if p.OrganizationID == organizationID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepository) Create(_ context.Context, p *inventory.Product) error {
	clone := *p
	m.products[p.ID] = &clone
	return nil
}

func (m *memProductRepository) Update(_ context.Context, tc *identity.TenantContext, p *inventory.Product) error {
	existing, ok := m.products[p.ID]
	if !ok || !m.visible(tc, existing) {
		return shared.ErrNotFound
	}
	clone := *p
	m.products[p.ID] = &clone
	return nil
}

// memMovementRepository records created movements
type memMovementRepository struct {
	movements []*inventory.StockMovement
}

func (m *memMovementRepository) FindByID(_ context.Context, _ *identity.TenantContext, _ uuid.UUID) (*inventory.StockMovement, error) {
	return nil, shared.ErrNotFound
}

func (m *memMovementRepository) ListByProduct(_ context.Context, _ *identity.TenantContext, _ uuid.UUID) ([]inventory.StockMovement, error) {
	return nil, nil
}

func (m *memMovementRepository) List(_ context.Context, _ *identity.TenantContext) ([]inventory.StockMovement, error) {
	out := make([]inventory.StockMovement, 0, len(m.movements))
	for _, mv := range m.movements {
		out = append(out, *mv)
	}
	return out, nil
}

func (m *memMovementRepository) Create(_ context.Context, mv *inventory.StockMovement) error {
	m.movements = append(m.movements, mv)
	return nil
}

func scopedContext(t *testing.T, organizationID uuid.UUID, branchID *uuid.UUID) *identity.TenantContext {
	t.Helper()

	tc, err := identity.NewTenantContext(&identity.Profile{
		UserID:         uuid.New(),
		Role:           identity.RoleAdmin,
		OrganizationID: &organizationID,
		BranchID:       branchID,
		Permissions:    identity.FullPermissionSet(),
		Status:         identity.ProfileStatusActive,
	})
	require.NoError(t, err)
	return tc
}

func unrestrictedContext(t *testing.T) *identity.TenantContext {
	t.Helper()

	admin, err := identity.NewSuperAdminProfile("root@example.com", "password-123")
	require.NoError(t, err)
	tc, err := identity.NewTenantContext(admin)
	require.NoError(t, err)
	return tc
}

func newTestService() (*Service, *memProductRepository, *memMovementRepository) {
	products := newMemProductRepository()
	movements := &memMovementRepository{}
	svc := NewService(products, nil, movements, zap.NewNop())
	return svc, products, movements
}

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("nil context is rejected before any data access", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.CreateProduct(ctx, nil, nil, CreateProductInput{SKU: "A", Name: "A"})
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("scoped caller stamps its own organization and branch", func(t *testing.T) {
		svc, products, _ := newTestService()
		orgID := uuid.New()
		branchID := uuid.New()
		tc := scopedContext(t, orgID, &branchID)

		product, err := svc.CreateProduct(ctx, tc, nil, CreateProductInput{
			SKU: "SKU-9", Name: "Beans", Price: decimal.NewFromInt(4),
		})

		require.NoError(t, err)
		assert.Equal(t, orgID, product.OrganizationID)
		require.NotNil(t, product.BranchID)
		assert.Equal(t, branchID, *product.BranchID)
		assert.Len(t, products.products, 1)
	})

	t.Run("unrestricted caller without a target is refused", func(t *testing.T) {
		svc, products, _ := newTestService()

		_, err := svc.CreateProduct(ctx, unrestrictedContext(t), nil, CreateProductInput{SKU: "A", Name: "A"})

		assert.ErrorIs(t, err, orgscope.ErrExplicitTargetRequired)
		assert.Empty(t, products.products)
	})

	t.Run("unrestricted caller with a target writes to that organization", func(t *testing.T) {
		svc, products, _ := newTestService()
		orgID := uuid.New()

		product, err := svc.CreateProduct(ctx, unrestrictedContext(t),
			&orgscope.Target{OrganizationID: orgID},
			CreateProductInput{SKU: "A", Name: "A"})

		require.NoError(t, err)
		assert.Equal(t, orgID, product.OrganizationID)
		assert.Len(t, products.products, 1)
	})
}

func TestService_ListProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("scoped caller sees only its organization", func(t *testing.T) {
		svc, products, _ := newTestService()
		orgA := uuid.New()
		orgB := uuid.New()

		mine, err := inventory.NewProduct(orgA, nil, "A", "Mine", decimal.Zero)
		require.NoError(t, err)
		other, err := inventory.NewProduct(orgB, nil, "B", "Other", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, products.Create(ctx, mine))
		require.NoError(t, products.Create(ctx, other))

		listed, err := svc.ListProducts(ctx, scopedContext(t, orgA, nil), nil)

		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "A", listed[0].SKU)
	})

	t.Run("unrestricted caller targeting an organization sees only it", func(t *testing.T) {
		svc, products, _ := newTestService()
		orgA := uuid.New()
		orgB := uuid.New()

		a, err := inventory.NewProduct(orgA, nil, "A", "A", decimal.Zero)
		require.NoError(t, err)
		b, err := inventory.NewProduct(orgB, nil, "B", "B", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, products.Create(ctx, a))
		require.NoError(t, products.Create(ctx, b))

		listed, err := svc.ListProducts(ctx, unrestrictedContext(t), &orgA)

		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, orgA, listed[0].OrganizationID)
	})
}

func TestService_RecordMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("inbound movement raises the on-hand quantity", func(t *testing.T) {
		svc, products, movements := newTestService()
		orgID := uuid.New()
		tc := scopedContext(t, orgID, nil)

		product, err := inventory.NewProduct(orgID, nil, "SKU", "Beans", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, products.Create(ctx, product))

		_, err = svc.RecordMovement(ctx, tc, nil, CreateMovementInput{
			ProductID:   product.ID,
			WarehouseID: uuid.New(),
			Type:        inventory.MovementIn,
			Quantity:    5,
		})

		require.NoError(t, err)
		assert.Len(t, movements.movements, 1)
		assert.EqualValues(t, 5, products.products[product.ID].Quantity)
	})

	t.Run("outbound movement below zero stock is rejected", func(t *testing.T) {
		svc, products, movements := newTestService()
		orgID := uuid.New()
		tc := scopedContext(t, orgID, nil)

		product, err := inventory.NewProduct(orgID, nil, "SKU", "Beans", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, products.Create(ctx, product))

		_, err = svc.RecordMovement(ctx, tc, nil, CreateMovementInput{
			ProductID:   product.ID,
			WarehouseID: uuid.New(),
			Type:        inventory.MovementOut,
			Quantity:    3,
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Empty(t, movements.movements)
	})

	t.Run("movement against another organization's product reports not found", func(t *testing.T) {
		svc, products, _ := newTestService()
		otherOrg := uuid.New()

		product, err := inventory.NewProduct(otherOrg, nil, "SKU", "Beans", decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, products.Create(ctx, product))

		_, err = svc.RecordMovement(ctx, scopedContext(t, uuid.New(), nil), nil, CreateMovementInput{
			ProductID:   product.ID,
			WarehouseID: uuid.New(),
			Type:        inventory.MovementIn,
			Quantity:    1,
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
