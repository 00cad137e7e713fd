package usecase

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
)

type fakeAlertRepo struct {
	mu        sync.Mutex
	alerts    map[string]domain.Alert
	nextID    int
	listErr   error
	updateErr map[string]error
	listCalls int
	updates   []domain.Alert
}

func newFakeAlertRepo(alerts ...domain.Alert) *fakeAlertRepo {
	repo := &fakeAlertRepo{alerts: map[string]domain.Alert{}, updateErr: map[string]error{}}
	for _, alert := range alerts {
		a := alert
		repo.nextID++
		if a.ID == "" {
			a.ID = strconv.Itoa(repo.nextID)
		}
		repo.alerts[a.ID] = a
	}
	return repo
}

func (r *fakeAlertRepo) Create(_ context.Context, alert *domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	alert.ID = strconv.Itoa(r.nextID)
	r.alerts[alert.ID] = *alert
	return nil
}

func (r *fakeAlertRepo) Get(_ context.Context, id string) (*domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &alert, nil
}

func (r *fakeAlertRepo) ListAll(context.Context) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.sorted(func(domain.Alert) bool { return true }), nil
}

func (r *fakeAlertRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(a domain.Alert) bool { return a.OwnerID == ownerID }), nil
}

func (r *fakeAlertRepo) Update(_ context.Context, alert domain.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, alert)
	if err := r.updateErr[alert.ID]; err != nil {
		return err
	}
	stored, ok := r.alerts[alert.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.LastPrice = alert.LastPrice
	r.alerts[alert.ID] = stored
	return nil
}

func (r *fakeAlertRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.alerts, id)
	return nil
}

func (r *fakeAlertRepo) stored(id string) domain.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alerts[id]
}

func (r *fakeAlertRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func (r *fakeAlertRepo) sorted(keep func(domain.Alert) bool) []domain.Alert {
	result := make([]domain.Alert, 0, len(r.alerts))
	for _, alert := range r.alerts {
		if keep(alert) {
			result = append(result, alert)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type fakePriceSource struct {
	mu      sync.Mutex
	prices  map[string]decimal.Decimal
	err     error
	calls   int
	lastIDs []string
	entered chan struct{}
	release chan struct{}
}

func (p *fakePriceSource) Prices(ctx context.Context, tokenIDs []string, vsCurrency string) (map[string]decimal.Decimal, error) {
	p.mu.Lock()
	p.calls++
	p.lastIDs = append([]string(nil), tokenIDs...)
	entered, release := p.entered, p.release
	p.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	result := make(map[string]decimal.Decimal)
	for _, id := range tokenIDs {
		if price, ok := p.prices[id]; ok {
			result[id] = price
		}
	}
	return result, nil
}

func (p *fakePriceSource) set(id string, price string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.prices == nil {
		p.prices = map[string]decimal.Decimal{}
	}
	p.prices[id] = decimal.RequireFromString(price)
}

func (p *fakePriceSource) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type notification struct {
	userID int64
	text   string
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []notification
	errAt map[int64]error
}

func (n *fakeNotifier) Notify(_ context.Context, telegramUserID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: telegramUserID, text: text})
	return n.errAt[telegramUserID]
}

func (n *fakeNotifier) notifications() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]domain.User
	err   error
}

func newFakeUserRepo(telegramIDs ...int64) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[int64]domain.User{}}
	for _, id := range telegramIDs {
		repo.users[id] = domain.User{ID: strconv.FormatInt(id, 10), TelegramUserID: id}
	}
	return repo
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramUserID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.users[telegramUserID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = strconv.FormatInt(user.TelegramUserID, 10)
	r.users[user.TelegramUserID] = *user
	return nil
}

type fakeMarket struct {
	fakePriceSource
	coins       []domain.CoinRef
	currencies  []string
	simple      map[string]map[string]decimal.Decimal
	coin        *domain.CoinDetails
	coinErr     error
	listErr     error
	simpleCalls [][]string
}

func (m *fakeMarket) SupportedCurrencies(context.Context) ([]string, error) {
	return m.currencies, nil
}

func (m *fakeMarket) SimplePrice(_ context.Context, ids, vsCurrencies []string) (map[string]map[string]decimal.Decimal, error) {
	m.simpleCalls = append(m.simpleCalls, ids, vsCurrencies)
	return m.simple, nil
}

func (m *fakeMarket) CoinsList(context.Context) ([]domain.CoinRef, error) {
	return m.coins, m.listErr
}

func (m *fakeMarket) Coin(context.Context, string) (*domain.CoinDetails, error) {
	return m.coin, m.coinErr
}

type fakeHolders struct {
	eth, sol       int64
	err            error
	ethArg, solArg string
}

func (h *fakeHolders) EthereumHolders(_ context.Context, contract string) (int64, error) {
	h.ethArg = contract
	return h.eth, h.err
}

func (h *fakeHolders) SolanaHolders(_ context.Context, mint string) (int64, error) {
	h.solArg = mint
	return h.sol, h.err
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
