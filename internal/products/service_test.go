package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/bakhasuleiman/wesavefood-backend/internal/stores"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/enums"
	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/jsonstore"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/models"
)

type memBackend struct {
	docs map[string][]byte
}

func (b *memBackend) Read(_ context.Context, name string) ([]byte, string, error) {
	data, ok := b.docs[name]
	if !ok {
		return nil, "", jsonstore.ErrNotFound
	}
	return data, "v1", nil
}

func (b *memBackend) Write(_ context.Context, name string, data []byte, _ string) (string, error) {
	b.docs[name] = data
	return "v1", nil
}

type fakeProductRepo struct {
	order    []string
	products map[string]models.Product
}

func newFakeProductRepo(seed ...models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: map[string]models.Product{}}
	for _, product := range seed {
		repo.order = append(repo.order, product.ID)
		repo.products[product.ID] = product
	}
	return repo
}

func (f *fakeProductRepo) All(_ context.Context) ([]models.Product, error) {
	all := make([]models.Product, 0, len(f.order))
	for _, id := range f.order {
		all = append(all, f.products[id])
	}
	return all, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (f *fakeProductRepo) ByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	all, _ := f.All(ctx)
	owned := make([]models.Product, 0, len(all))
	for _, product := range all {
		if product.StoreID == storeID {
			owned = append(owned, product)
		}
	}
	return owned, nil
}

func (f *fakeProductRepo) Create(_ context.Context, product models.Product) error {
	if _, ok := f.products[product.ID]; ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "product already exists")
	}
	f.order = append(f.order, product.ID)
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, id string, patch func(models.Product) models.Product) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	updated := patch(product)
	f.products[id] = updated
	return updated, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	delete(f.products, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeStoreLoader struct {
	stores []models.Store
}

func (f *fakeStoreLoader) All(_ context.Context) ([]models.Store, error) {
	return f.stores, nil
}

func (f *fakeStoreLoader) FindByUserID(_ context.Context, userID string) (models.Store, bool, error) {
	for _, store := range f.stores {
		if store.UserID == userID {
			return store, true, nil
		}
	}
	return models.Store{}, false, nil
}

func testStores() *fakeStoreLoader {
	return &fakeStoreLoader{stores: []models.Store{
		{ID: "store-1", UserID: "owner-1", Name: "Central Bakery", Address: "Amir Temur 1"},
		{ID: "store-2", UserID: "owner-2", Name: "Corner Grocer", Address: "Navoi 5"},
	}}
}

func newTestService(t *testing.T, repo *fakeProductRepo, stores *fakeStoreLoader) Service {
	t.Helper()
	counter := 0
	svc, err := NewService(repo, stores, func() string {
		counter++
		return fmt.Sprintf("product-%d", counter)
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func catalogSeed() *fakeProductRepo {
	return newFakeProductRepo(
		models.Product{ID: "p1", StoreID: "store-1", Name: "Fresh Bread", OriginalPrice: 10000, DiscountPrice: 7500, Status: enums.ProductStatusAvailable},
		models.Product{ID: "p2", StoreID: "store-1", Name: "Croissant", OriginalPrice: 8000, DiscountPrice: 4000, Status: enums.ProductStatusAvailable},
		models.Product{ID: "p3", StoreID: "store-2", Name: "Milk", OriginalPrice: 6000, DiscountPrice: 5400, Status: enums.ProductStatusAvailable},
		models.Product{ID: "p4", StoreID: "store-2", Name: "Old Bread", OriginalPrice: 10000, DiscountPrice: 5000, Status: enums.ProductStatusSold},
	)
}

func TestCatalogHidesNonAvailableProducts(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	result, err := svc.Catalog(context.Background(), CatalogQuery{})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if result.Total != 3 {
		t.Fatalf("expected 3 available products, got %d", result.Total)
	}
	for _, item := range result.Items {
		if item.ID == "p4" {
			t.Fatal("sold product leaked into the catalog")
		}
	}
}

func TestCatalogFiltersByStore(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	result, err := svc.Catalog(context.Background(), CatalogQuery{StoreID: "store-1"})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 products for store-1, got %d", result.Total)
	}
}

func TestCatalogFiltersByMinDiscount(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	// p1 is 25% off, p2 is 50% off, p3 is 10% off.
	result, err := svc.Catalog(context.Background(), CatalogQuery{MinDiscount: 25})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 products at 25%%+, got %d", result.Total)
	}
	for _, item := range result.Items {
		if item.DiscountPercent < 25 {
			t.Fatalf("item %s below the discount floor: %d", item.ID, item.DiscountPercent)
		}
	}
}

func TestCatalogSearchMatchesStoreName(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	result, err := svc.Catalog(context.Background(), CatalogQuery{Search: "grocer"})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if result.Total != 1 || result.Items[0].ID != "p3" {
		t.Fatalf("expected only the grocer's product, got %+v", result.Items)
	}
	if result.Items[0].StoreName != "Corner Grocer" {
		t.Fatalf("expected store name embedded, got %q", result.Items[0].StoreName)
	}
}

func TestCatalogPagination(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	page, err := svc.Catalog(context.Background(), CatalogQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected total to span all matches, got %d", page.Total)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "p3" {
		t.Fatalf("unexpected page contents: %+v", page.Items)
	}

	past, err := svc.Catalog(context.Background(), CatalogQuery{Limit: 2, Offset: 10})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(past.Items) != 0 || past.Total != 3 {
		t.Fatalf("expected empty page past the end, got %+v", past)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	svc := newTestService(t, newFakeProductRepo(), testStores())

	_, err := svc.Create(context.Background(), "owner-1", CreateProductInput{
		Name:          "  ",
		OriginalPrice: 0,
		DiscountPrice: -5,
		Quantity:      0,
		ExpiryDate:    "tomorrow",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	coded := pkgerrors.As(err)
	if coded == nil {
		t.Fatalf("expected coded error, got %T", err)
	}
	details, ok := coded.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", coded.Details())
	}
	for _, field := range []string{"name", "originalPrice", "discountPrice", "quantity", "expiryDate"} {
		if details[field] == "" {
			t.Fatalf("missing detail for %s: %v", field, details)
		}
	}
}

func TestCreateRejectsDiscountAboveOriginal(t *testing.T) {
	svc := newTestService(t, newFakeProductRepo(), testStores())

	_, err := svc.Create(context.Background(), "owner-1", CreateProductInput{
		Name:          "Bread",
		OriginalPrice: 5000,
		DiscountPrice: 6000,
		Quantity:      1,
		ExpiryDate:    "2025-03-02",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStartsAvailable(t *testing.T) {
	repo := newFakeProductRepo()
	svc := newTestService(t, repo, testStores())

	dto, err := svc.Create(context.Background(), "owner-1", CreateProductInput{
		Name:          "Bread",
		OriginalPrice: 10000,
		DiscountPrice: 7500,
		Quantity:      2,
		ExpiryDate:    "2025-03-02",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.ProductStatusAvailable {
		t.Fatalf("expected available, got %s", dto.Status)
	}
	if dto.StoreID != "store-1" {
		t.Fatalf("expected owner's store id, got %s", dto.StoreID)
	}
	if dto.DiscountPercent != 25 {
		t.Fatalf("expected 25%% discount, got %d", dto.DiscountPercent)
	}
}

func TestCreateWithoutStore(t *testing.T) {
	svc := newTestService(t, newFakeProductRepo(), testStores())

	_, err := svc.Create(context.Background(), "customer-1", CreateProductInput{
		Name:          "Bread",
		OriginalPrice: 10000,
		DiscountPrice: 7500,
		Quantity:      1,
		ExpiryDate:    "2025-03-02",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRejectsOtherStoresProduct(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	name := "Renamed"
	_, err := svc.Update(context.Background(), "owner-2", "p1", UpdateProductInput{Name: &name})
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateValidatesAgainstCurrentValues(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	// p1 has OriginalPrice 10000; raising the discount above it must fail
	// even though the original price is not part of the patch.
	discount := int64(12000)
	_, err := svc.Update(context.Background(), "owner-1", "p1", UpdateProductInput{DiscountPrice: &discount})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAppliesPartialPatch(t *testing.T) {
	repo := catalogSeed()
	svc := newTestService(t, repo, testStores())

	name := "Sourdough"
	quantity := 5
	dto, err := svc.Update(context.Background(), "owner-1", "p1", UpdateProductInput{
		Name:     &name,
		Quantity: &quantity,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "Sourdough" || dto.Quantity != 5 {
		t.Fatalf("patch not applied: %+v", dto)
	}
	if dto.OriginalPrice != 10000 || dto.DiscountPrice != 7500 {
		t.Fatalf("untouched fields changed: %+v", dto)
	}
}

func TestDeleteRejectsOtherStoresProduct(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	err := svc.Delete(context.Background(), "owner-2", "p1")
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

// The composition root hands the service the store repository, not the
// store service; this pins the repository satisfying the loader contract.
func TestNewServiceWithStoreRepository(t *testing.T) {
	backend := &memBackend{docs: map[string][]byte{}}
	storeRepo := stores.NewRepository(jsonstore.NewCollection[models.Store]("stores.json", backend, jsonstore.Options{WriteThrough: true}))
	productRepo := NewRepository(jsonstore.NewCollection[models.Product]("products.json", backend, jsonstore.Options{WriteThrough: true}))

	svc, err := NewService(productRepo, storeRepo, func() string { return "product-1" })
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	result, err := svc.Catalog(context.Background(), CatalogQuery{})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("expected empty catalog, got %d", result.Total)
	}
}

func TestListByOwnerScopesToStore(t *testing.T) {
	svc := newTestService(t, catalogSeed(), testStores())

	owned, err := svc.ListByOwner(context.Background(), "owner-2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(owned) != 2 {
		t.Fatalf("expected 2 products for owner-2, got %d", len(owned))
	}
	for _, product := range owned {
		if product.StoreID != "store-2" {
			t.Fatalf("foreign product in owner listing: %+v", product)
		}
	}
}
