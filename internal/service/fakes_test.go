package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/repository/contract"
	"github.com/emiflair/wazhop/internal/repository/specification"
	"github.com/emiflair/wazhop/internal/repository/unitofwork"
	"github.com/emiflair/wazhop/pkg/payment"
)

// In-memory repositories for service tests. They interpret the same
// specification structs the gorm implementations translate to SQL.

type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]entity.Account
	records  map[uuid.UUID]entity.ReferralRecord
	payouts  map[uuid.UUID]entity.PayoutRequest
	shops    map[uuid.UUID]entity.Shop
	products map[uuid.UUID]entity.Product
	images   map[uuid.UUID]entity.ProductImage
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[uuid.UUID]entity.Account),
		records:  make(map[uuid.UUID]entity.ReferralRecord),
		payouts:  make(map[uuid.UUID]entity.PayoutRequest),
		shops:    make(map[uuid.UUID]entity.Shop),
		products: make(map[uuid.UUID]entity.Product),
		images:   make(map[uuid.UUID]entity.ProductImage),
	}
}

func (s *memStore) putAccount(a *entity.Account) { s.accounts[a.Id] = *a }
func (s *memStore) putShop(sh *entity.Shop)      { s.shops[sh.Id] = *sh }
func (s *memStore) putProduct(p *entity.Product) { s.products[p.Id] = *p }
func (s *memStore) putImage(i *entity.ProductImage) {
	s.images[i.Id] = *i
}
func (s *memStore) putRecord(r *entity.ReferralRecord) { s.records[r.Id] = *r }

func (s *memStore) account(id uuid.UUID) *entity.Account {
	a, ok := s.accounts[id]
	if !ok {
		return nil
	}
	return &a
}

// --- account repository ---

type memAccountRepo struct{ s *memStore }

func (r *memAccountRepo) Create(ctx context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.accounts[a.Id] = *a
	return nil
}

func (r *memAccountRepo) Update(ctx context.Context, a *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.Id]; !ok {
		return fmt.Errorf("account %s does not exist", a.Id)
	}
	r.s.accounts[a.Id] = *a
	return nil
}

func (r *memAccountRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memAccountRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Account
	for _, a := range r.s.accounts {
		a := a
		if matchAccount(&a, specs) {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memAccountRepo) Count(ctx context.Context, specs ...specification.Specification) (int, error) {
	all, err := r.FindAll(ctx, specs...)
	return len(all), err
}

func matchAccount(a *entity.Account, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.ByID:
			if a.Id != s.ID {
				return false
			}
		case specification.ByEmail:
			if a.Email != s.Email {
				return false
			}
		case specification.PaidAccounts:
			if a.Plan == entity.PlanFree {
				return false
			}
		case specification.StatusIs:
			if string(a.SubscriptionStatus) != s.Status {
				return false
			}
		case specification.ExpiryWithin:
			if a.PlanExpiry == nil || !a.PlanExpiry.After(s.From) || a.PlanExpiry.After(s.Until) {
				return false
			}
		case specification.ExpiryPassed:
			if a.PlanExpiry == nil || a.PlanExpiry.After(s.Now) {
				return false
			}
		case specification.NotWarnedForCurrentExpiry:
			if a.ExpiryWarnedFor != nil && a.PlanExpiry != nil && a.ExpiryWarnedFor.Equal(*a.PlanExpiry) {
				return false
			}
		case specification.ReferredBy:
			if a.ReferredBy == nil || *a.ReferredBy != s.ReferrerID {
				return false
			}
		case specification.OrderBy, specification.Pagination:
			// ordering handled by caller, pagination unused in tests
		}
	}
	return true
}

// --- referral repository ---

type memReferralRepo struct{ s *memStore }

func (r *memReferralRepo) CreateRecord(ctx context.Context, rec *entity.ReferralRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.records[rec.Id] = *rec
	return nil
}

func (r *memReferralRepo) UpdateRecord(ctx context.Context, rec *entity.ReferralRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.records[rec.Id]; !ok {
		return fmt.Errorf("record %s does not exist", rec.Id)
	}
	r.s.records[rec.Id] = *rec
	return nil
}

func (r *memReferralRepo) FindOneRecord(ctx context.Context, specs ...specification.Specification) (*entity.ReferralRecord, error) {
	all, err := r.FindAllRecords(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memReferralRepo) FindAllRecords(ctx context.Context, specs ...specification.Specification) ([]*entity.ReferralRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ReferralRecord
	for _, rec := range r.s.records {
		rec := rec
		if matchRecord(&rec, specs) {
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func matchRecord(rec *entity.ReferralRecord, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.ByID:
			if rec.Id != s.ID {
				return false
			}
		case specification.ReferrerOwnedBy:
			if rec.ReferrerId != s.ReferrerID {
				return false
			}
		case specification.ByReferredID:
			if rec.ReferredId != s.ReferredID {
				return false
			}
		}
	}
	return true
}

func (r *memReferralRepo) CreatePayout(ctx context.Context, p *entity.PayoutRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payouts[p.Id] = *p
	return nil
}

func (r *memReferralRepo) FindOnePayout(ctx context.Context, specs ...specification.Specification) (*entity.PayoutRequest, error) {
	all, err := r.FindAllPayouts(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memReferralRepo) FindAllPayouts(ctx context.Context, specs ...specification.Specification) ([]*entity.PayoutRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PayoutRequest
	for _, p := range r.s.payouts {
		p := p
		if matchPayout(&p, specs) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func matchPayout(p *entity.PayoutRequest, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.ByID:
			if p.Id != s.ID {
				return false
			}
		case specification.ReferrerOwnedBy:
			if p.ReferrerId != s.ReferrerID {
				return false
			}
		case specification.OpenPayouts:
			if !p.IsOpen() {
				return false
			}
		}
	}
	return true
}

// --- shop repository ---

type memShopRepo struct{ s *memStore }

func (r *memShopRepo) CreateShop(ctx context.Context, sh *entity.Shop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.shops[sh.Id] = *sh
	return nil
}

func (r *memShopRepo) UpdateShop(ctx context.Context, sh *entity.Shop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shops[sh.Id]; !ok {
		return fmt.Errorf("shop %s does not exist", sh.Id)
	}
	r.s.shops[sh.Id] = *sh
	return nil
}

func (r *memShopRepo) DeleteShop(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.shops, id)
	return nil
}

func (r *memShopRepo) FindAllShops(ctx context.Context, specs ...specification.Specification) ([]*entity.Shop, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Shop
	for _, sh := range r.s.shops {
		sh := sh
		if matchShop(&sh, specs) {
			out = append(out, &sh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func matchShop(sh *entity.Shop, specs []specification.Specification) bool {
	for _, sp := range specs {
		switch s := sp.(type) {
		case specification.ByID:
			if sh.Id != s.ID {
				return false
			}
		case specification.ShopOwnedBy:
			if sh.AccountId != s.AccountID {
				return false
			}
		}
	}
	return true
}

func (r *memShopRepo) CreateProduct(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.Id] = *p
	return nil
}

func (r *memShopRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r *memShopRepo) FindAllProducts(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		p := p
		keep := true
		for _, sp := range specs {
			if s, ok := sp.(specification.ByShopID); ok && p.ShopId != s.ShopID {
				keep = false
			}
		}
		if keep {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memShopRepo) CreateImage(ctx context.Context, img *entity.ProductImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.images[img.Id] = *img
	return nil
}

func (r *memShopRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.images, id)
	return nil
}

func (r *memShopRepo) FindAllImages(ctx context.Context, specs ...specification.Specification) ([]*entity.ProductImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductImage
	for _, img := range r.s.images {
		img := img
		keep := true
		for _, sp := range specs {
			if s, ok := sp.(specification.ByProductID); ok && img.ProductId != s.ProductID {
				keep = false
			}
		}
		if keep {
			out = append(out, &img)
		}
	}
	return out, nil
}

// --- unit of work ---

type memUow struct {
	s *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) AccountRepository() contract.AccountRepository {
	return &memAccountRepo{s: u.s}
}
func (u *memUow) ReferralRepository() contract.ReferralRepository {
	return &memReferralRepo{s: u.s}
}
func (u *memUow) ShopRepository() contract.ShopRepository {
	return &memShopRepo{s: u.s}
}

type memFactory struct{ s *memStore }

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{s: f.s}
}

// --- collaborator fakes ---

type fakeCharger struct {
	mu          sync.Mutex
	chargeErr   error
	verifyErr   error
	chargeCalls []payment.ChargeRequest
	verifyCalls []string
}

func (c *fakeCharger) ChargeSavedMethod(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chargeCalls = append(c.chargeCalls, req)
	if c.chargeErr != nil {
		return nil, c.chargeErr
	}
	return &payment.ChargeResult{TransactionId: "txn-" + uuid.NewString()}, nil
}

func (c *fakeCharger) VerifyTransaction(ctx context.Context, transactionId string) (*payment.ChargeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifyCalls = append(c.verifyCalls, transactionId)
	if c.verifyErr != nil {
		return nil, c.verifyErr
	}
	return &payment.ChargeResult{TransactionId: transactionId}, nil
}

func declined() error { return apperrors.Payment(nil, "card declined") }

type notifierCall struct {
	kind    string
	account entity.Account
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (n *fakeNotifier) record(kind string, a entity.Account) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifierCall{kind: kind, account: a})
}

func (n *fakeNotifier) NotifyExpiryWarning(a entity.Account) { n.record("warning", a) }
func (n *fakeNotifier) NotifyRenewalSuccess(a entity.Account, amount float64) {
	n.record("renewal_success", a)
}
func (n *fakeNotifier) NotifyRenewalFailed(a entity.Account, attempt int, reason string) {
	n.record("renewal_failed", a)
}
func (n *fakeNotifier) NotifySubscriptionExpired(a entity.Account, oldPlan entity.Plan) {
	n.record("expired", a)
}
func (n *fakeNotifier) NotifyPlanDowngraded(a entity.Account, oldPlan entity.Plan) {
	n.record("downgraded", a)
}

func (n *fakeNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, c := range n.calls {
		out = append(out, c.kind)
	}
	return out
}

type planChange struct {
	accountId uuid.UUID
	oldPlan   entity.Plan
	newPlan   entity.Plan
}

type fakePublisher struct {
	mu      sync.Mutex
	changes []planChange
}

func (p *fakePublisher) PublishPlanChange(ctx context.Context, accountId uuid.UUID, oldPlan, newPlan entity.Plan) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, planChange{accountId, oldPlan, newPlan})
	return nil
}

type fakeMediaStore struct {
	mu       sync.Mutex
	deleted  []string
	failKeys map[string]bool
}

func (m *fakeMediaStore) Delete(ctx context.Context, storageKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failKeys[storageKey] {
		return fmt.Errorf("store unavailable for %s", storageKey)
	}
	m.deleted = append(m.deleted, storageKey)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
