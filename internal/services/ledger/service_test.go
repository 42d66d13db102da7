package ledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"celora/internal/models"
	"celora/internal/repositories"
	"celora/internal/services/risk"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCardRepo serves cards from an in-memory table so posted balances stay
// visible to later reads within a test.
type MockCardRepo struct {
	mock.Mock
	cards map[uint]*models.VirtualCard
}

func (m *MockCardRepo) Create(card *models.VirtualCard) error {
	return m.Called(card).Error(0)
}

func (m *MockCardRepo) GetByID(id uint) (*models.VirtualCard, error) {
	args := m.Called(id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	c, ok := m.cards[id]
	if !ok {
		return nil, repositories.ErrCardNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockCardRepo) GetByUserID(userID uint) ([]*models.VirtualCard, error) {
	args := m.Called(userID)
	return nil, args.Error(1)
}

func (m *MockCardRepo) Update(card *models.VirtualCard) error {
	return m.Called(card).Error(0)
}

func (m *MockCardRepo) UpdateStatus(cardID uint, status, reason string) error {
	return m.Called(cardID, status, reason).Error(0)
}

func (m *MockCardRepo) ListActiveIDs() ([]uint, error) {
	args := m.Called()
	ids := make([]uint, 0, len(m.cards))
	for id := range m.cards {
		ids = append(ids, id)
	}
	return ids, args.Error(1)
}

// MockTxRepo keeps created rows so balance computations over the log see
// every status flip applied by the store.
type MockTxRepo struct {
	mock.Mock
	rows   map[uint]*models.Transaction
	nextID uint
}

func newMockTxRepo() *MockTxRepo {
	return &MockTxRepo{rows: make(map[uint]*models.Transaction), nextID: 1}
}

func (m *MockTxRepo) Create(tx *models.Transaction) error {
	args := m.Called(tx)
	if err := args.Error(0); err != nil {
		return err
	}
	tx.ID = m.nextID
	m.nextID++
	cp := *tx
	m.rows[tx.ID] = &cp
	return nil
}

func (m *MockTxRepo) GetByID(id uint) (*models.Transaction, error) {
	args := m.Called(id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	tx, ok := m.rows[id]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (m *MockTxRepo) GetByCardID(cardID uint) ([]models.Transaction, error) {
	args := m.Called(cardID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	var out []models.Transaction
	for _, tx := range m.rows {
		if tx.CardID == cardID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (m *MockTxRepo) GetByCardIDPaged(ctx context.Context, cardID uint, limit, offset int) ([]models.Transaction, error) {
	m.Called(ctx, cardID, limit, offset)
	return m.GetByCardID(cardID)
}

func (m *MockTxRepo) UpdateStatus(id uint, status string) error {
	args := m.Called(id, status)
	if err := args.Error(0); err != nil {
		return err
	}
	tx, ok := m.rows[id]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	tx.Status = status
	return nil
}

func (m *MockTxRepo) AttachRiskAssessment(id uint, score, confidence float64, action string, reasons []string) error {
	args := m.Called(id, score, confidence, action, reasons)
	if err := args.Error(0); err != nil {
		return err
	}
	tx, ok := m.rows[id]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	tx.RiskScore = &score
	tx.RiskConfidence = &confidence
	tx.RiskAction = action
	return nil
}

// MockLedgerStore applies the flip against the mock repositories. Setting
// conflicts fails that many calls with a balance conflict first.
type MockLedgerStore struct {
	mock.Mock
	cards     *MockCardRepo
	txs       *MockTxRepo
	conflicts int
}

func (m *MockLedgerStore) PostTransaction(txID, cardID uint, expected, newBalance decimal.Decimal) error {
	args := m.Called(txID, cardID, expected, newBalance)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.flip(txID, cardID, expected, newBalance, models.TransactionStatusPosted)
}

func (m *MockLedgerStore) ReverseTransaction(txID, cardID uint, expected, newBalance decimal.Decimal) error {
	args := m.Called(txID, cardID, expected, newBalance)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.flip(txID, cardID, expected, newBalance, models.TransactionStatusReversed)
}

func (m *MockLedgerStore) flip(txID, cardID uint, expected, newBalance decimal.Decimal, toStatus string) error {
	if m.conflicts > 0 {
		m.conflicts--
		return repositories.ErrBalanceConflict
	}
	c, ok := m.cards.cards[cardID]
	if !ok {
		return repositories.ErrCardNotFound
	}
	if !c.Balance.Equal(expected) {
		return repositories.ErrBalanceConflict
	}
	c.Balance = newBalance
	tx, ok := m.txs.rows[txID]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	tx.Status = toStatus
	return nil
}

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) ScoreTransaction(ev risk.Event, now time.Time) risk.Assessment {
	args := m.Called(ev, now)
	return args.Get(0).(risk.Assessment)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SecurityAlert(ctx context.Context, userID uint, txRef string, assessment risk.Assessment) {
	m.Called(ctx, userID, txRef, assessment)
}

func (m *MockNotifier) ReconciliationFault(ctx context.Context, cardID uint, delta decimal.Decimal) {
	m.Called(ctx, cardID, delta)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, actorID uint, entityType, entityID, action string, before, after, metadata map[string]interface{}) {
	m.Called(ctx, actorID, entityType, entityID, action, before, after, metadata)
}

type MockEscalator struct {
	mock.Mock
}

func (m *MockEscalator) SuspendForRisk(ctx context.Context, cardID uint, reason string) error {
	return m.Called(ctx, cardID, reason).Error(0)
}

func allowAssessment() risk.Assessment {
	return risk.Assessment{Score: 0.1, Confidence: 0.9, Action: risk.ActionAllow, Reasons: []string{"pattern within normal parameters"}}
}

type harness struct {
	svc       Service
	cards     *MockCardRepo
	txs       *MockTxRepo
	store     *MockLedgerStore
	scorer    *MockScorer
	scoreCall *mock.Call
	notifier  *MockNotifier
	auditor   *MockAuditor
	escalator *MockEscalator
}

// scoreWith replaces the default allow assessment for subsequent postings.
func (h *harness) scoreWith(a risk.Assessment) {
	h.scoreCall.Unset()
	h.scoreCall = h.scorer.On("ScoreTransaction", mock.Anything, mock.Anything).Return(a)
}

func newHarness(t *testing.T, card *models.VirtualCard) *harness {
	t.Helper()

	cards := &MockCardRepo{cards: map[uint]*models.VirtualCard{card.ID: card}}
	txs := newMockTxRepo()
	store := &MockLedgerStore{cards: cards, txs: txs}
	scorer := new(MockScorer)
	notifier := new(MockNotifier)
	auditor := new(MockAuditor)
	escalator := new(MockEscalator)

	cards.On("GetByID", mock.Anything).Return(nil, nil)
	txs.On("Create", mock.Anything).Return(nil)
	txs.On("GetByID", mock.Anything).Return(nil, nil)
	txs.On("GetByCardID", mock.Anything).Return(nil, nil)
	txs.On("UpdateStatus", mock.Anything, mock.Anything).Return(nil)
	txs.On("AttachRiskAssessment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("PostTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("ReverseTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	scoreCall := scorer.On("ScoreTransaction", mock.Anything, mock.Anything).Return(allowAssessment())
	notifier.On("SecurityAlert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	notifier.On("ReconciliationFault", mock.Anything, mock.Anything, mock.Anything).Return()
	auditor.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	escalator.On("SuspendForRisk", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewService(cards, txs, store, scorer, notifier, auditor, nil, nil, Config{}, nil)
	svc.SetEscalator(escalator)

	return &harness{
		svc:       svc,
		cards:     cards,
		txs:       txs,
		store:     store,
		scorer:    scorer,
		scoreCall: scoreCall,
		notifier:  notifier,
		auditor:   auditor,
		escalator: escalator,
	}
}

func activeCard(id, userID uint, balance string) *models.VirtualCard {
	return &models.VirtualCard{
		ID:       id,
		UserID:   userID,
		Currency: "USD",
		Status:   models.CardStatusActive,
		Balance:  decimal.RequireFromString(balance),
	}
}

func TestComputeBalance(t *testing.T) {
	h := newHarness(t, activeCard(1, 1, "0"))

	txs := []models.Transaction{
		{Amount: decimal.RequireFromString("100.50"), Status: models.TransactionStatusPosted},
		{Amount: decimal.RequireFromString("-25.25"), Status: models.TransactionStatusPosted},
		{Amount: decimal.RequireFromString("999"), Status: models.TransactionStatusReversed},
		{Amount: decimal.RequireFromString("42"), Status: models.TransactionStatusPending},
		{Amount: decimal.RequireFromString("-7"), Status: models.TransactionStatusFailed},
		{Amount: decimal.RequireFromString("10.00"), Status: models.TransactionStatusPosted},
	}

	want := decimal.RequireFromString("85.25")
	assert.True(t, h.svc.ComputeBalance(txs).Equal(want))

	// Order never matters.
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(txs), func(a, b int) { txs[a], txs[b] = txs[b], txs[a] })
		assert.True(t, h.svc.ComputeBalance(txs).Equal(want))
	}
}

func TestComputeBalanceEmpty(t *testing.T) {
	h := newHarness(t, activeCard(1, 1, "0"))
	assert.True(t, h.svc.ComputeBalance(nil).IsZero())
}

func TestValidateTopup(t *testing.T) {
	h := newHarness(t, activeCard(1, 1, "0"))

	tests := []struct {
		name    string
		status  string
		amount  string
		wantErr bool
	}{
		{"valid", models.CardStatusActive, "100", false},
		{"valid on suspended card", models.CardStatusSuspended, "100", false},
		{"closed card", models.CardStatusClosed, "100", true},
		{"zero amount", models.CardStatusActive, "0", true},
		{"negative amount", models.CardStatusActive, "-5", true},
		{"at ceiling", models.CardStatusActive, "10000", false},
		{"above ceiling", models.CardStatusActive, "10000.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.svc.ValidateTopup(tt.status, decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReconcileEpsilon(t *testing.T) {
	h := newHarness(t, activeCard(1, 1, "0"))

	posted := func(amount string) models.Transaction {
		return models.Transaction{Amount: decimal.RequireFromString(amount), Status: models.TransactionStatusPosted}
	}

	tests := []struct {
		name     string
		cached   string
		currency string
		txs      []models.Transaction
		inSync   bool
	}{
		{"exact match", "100", "USD", []models.Transaction{posted("100")}, true},
		{"drift below epsilon", "100.0005", "USD", []models.Transaction{posted("100")}, true},
		{"drift at epsilon", "100.001", "USD", []models.Transaction{posted("100")}, false},
		{"whole unit drift", "101", "USD", []models.Transaction{posted("100")}, false},
		{"zero-exponent currency in sync", "100.05", "JPY", []models.Transaction{posted("100")}, true},
		{"zero-exponent currency out of sync", "100.2", "JPY", []models.Transaction{posted("100")}, false},
		{"three-exponent currency", "100.0002", "KWD", []models.Transaction{posted("100")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := h.svc.Reconcile(decimal.RequireFromString(tt.cached), tt.currency, tt.txs)
			assert.Equal(t, tt.inSync, result.InSync)
		})
	}
}

func TestReconcileCardFaultAlerts(t *testing.T) {
	h := newHarness(t, activeCard(1, 1, "500"))
	require.NoError(t, h.txs.Create(&models.Transaction{
		CardID: 1, Amount: decimal.RequireFromString("100"), Status: models.TransactionStatusPosted,
	}))

	result, err := h.svc.ReconcileCard(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.InSync)
	assert.True(t, result.Delta.Equal(decimal.RequireFromString("-400")))
	h.notifier.AssertNumberOfCalls(t, "ReconciliationFault", 1)
}

func TestReconcileCardNotFound(t *testing.T) {
	h := newHarness(t, activeCard(1, 1, "0"))
	_, err := h.svc.ReconcileCard(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestPostAllowAdjustsBalance(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100.50"))

	tx, assessment, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1,
		UserID: 7,
		Type:   models.TransactionTypeTopup,
		Amount: decimal.RequireFromString("50.25"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPosted, tx.Status)
	assert.Equal(t, risk.ActionAllow, assessment.Action)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.Equal(decimal.RequireFromString("150.75")))
	h.auditor.AssertCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		"posted", mock.Anything, mock.Anything, mock.Anything)

	// Log and cache stay consistent with the flip.
	stored, _ := h.txs.GetByID(tx.ID)
	assert.Equal(t, models.TransactionStatusPosted, stored.Status)
	h.store.AssertNumberOfCalls(t, "PostTransaction", 1)
}

func TestPostingKeepsCacheAndLogInSync(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "0"))

	amounts := []string{"100.50", "-25.25", "50.25", "-0.01"}
	for _, a := range amounts {
		amt := decimal.RequireFromString(a)
		txType := models.TransactionTypeTopup
		if amt.IsNegative() {
			txType = models.TransactionTypePurchase
		}
		_, _, err := h.svc.Post(context.Background(), PostRequest{
			CardID: 1, UserID: 7, Type: txType, Amount: amt,
		})
		require.NoError(t, err)

		card, _ := h.cards.GetByID(1)
		txs, _ := h.txs.GetByCardID(1)
		result := h.svc.Reconcile(card.Balance, card.Currency, txs)
		assert.True(t, result.InSync, "after posting %s: delta %s", a, result.Delta)
	}
}

func TestPostPurchaseDebits(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))

	tx, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1,
		UserID: 7,
		Type:   models.TransactionTypePurchase,
		Amount: decimal.RequireFromString("-40"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPosted, tx.Status)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.Equal(decimal.RequireFromString("60")))
}

func TestPostRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		card    *models.VirtualCard
		req     PostRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			card:    activeCard(1, 7, "100"),
			req:     PostRequest{CardID: 1, UserID: 7, Amount: decimal.Zero},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "unknown card",
			card:    activeCard(1, 7, "100"),
			req:     PostRequest{CardID: 99, UserID: 7, Amount: decimal.NewFromInt(10)},
			wantErr: ErrCardNotFound,
		},
		{
			name: "closed card",
			card: &models.VirtualCard{ID: 1, UserID: 7, Currency: "USD", Status: models.CardStatusClosed},
			req:  PostRequest{CardID: 1, UserID: 7, Amount: decimal.NewFromInt(10)},

			wantErr: ErrCardClosed,
		},
		{
			name:    "currency mismatch",
			card:    activeCard(1, 7, "100"),
			req:     PostRequest{CardID: 1, UserID: 7, Amount: decimal.NewFromInt(10), Currency: "EUR"},
			wantErr: ErrCurrencyMismatch,
		},
		{
			name:    "insufficient funds",
			card:    activeCard(1, 7, "100"),
			req:     PostRequest{CardID: 1, UserID: 7, Amount: decimal.NewFromInt(-200)},
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "suspended card cannot purchase",
			card:    &models.VirtualCard{ID: 1, UserID: 7, Currency: "USD", Status: models.CardStatusSuspended, Balance: decimal.NewFromInt(100)},
			req:     PostRequest{CardID: 1, UserID: 7, Amount: decimal.NewFromInt(-10)},
			wantErr: ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.card)
			_, _, err := h.svc.Post(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)

			card, _ := h.cards.GetByID(tt.card.ID)
			assert.True(t, card.Balance.Equal(tt.card.Balance))
		})
	}
}

func TestPostBlockedByRisk(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))
	h.scoreWith(risk.Assessment{
		Score: 0.85, Confidence: 0.8, Action: risk.ActionBlock,
		Reasons: []string{"unusually large transaction amount"},
	})

	tx, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypePurchase,
		Amount: decimal.NewFromInt(-50),
	})
	assert.ErrorIs(t, err, ErrRiskBlocked)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	h.notifier.AssertNumberOfCalls(t, "SecurityAlert", 1)
	h.auditor.AssertCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		"risk_blocked", mock.Anything, mock.Anything, mock.Anything)
	h.escalator.AssertNotCalled(t, "SuspendForRisk", mock.Anything, mock.Anything, mock.Anything)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.Equal(decimal.NewFromInt(100)))
}

func TestPostHighSeverityBlockSuspendsCard(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))
	h.scoreWith(risk.Assessment{
		Score: 0.95, Confidence: 0.99, Action: risk.ActionBlock,
		Reasons: []string{"transaction integrity signature failed verification"},
	})

	_, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypePurchase,
		Amount: decimal.NewFromInt(-50),
	})
	assert.ErrorIs(t, err, ErrRiskBlocked)
	h.escalator.AssertCalled(t, "SuspendForRisk", mock.Anything, uint(1), mock.Anything)
}

func TestPostHeldForReview(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))
	h.scoreWith(risk.Assessment{
		Score: 0.6, Confidence: 0.7, Action: risk.ActionReview,
		Reasons: []string{"high address entropy"},
	})

	tx, assessment, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypePurchase,
		Amount: decimal.NewFromInt(-50),
	})
	require.NoError(t, err)
	assert.Equal(t, risk.ActionReview, assessment.Action)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)
	h.notifier.AssertNumberOfCalls(t, "SecurityAlert", 1)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.Equal(decimal.NewFromInt(100)))
}

func TestPostRetriesOnceOnConflict(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))
	h.store.conflicts = 1

	tx, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypeTopup,
		Amount: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPosted, tx.Status)
	h.store.AssertNumberOfCalls(t, "PostTransaction", 2)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.Equal(decimal.NewFromInt(150)))
}

func TestPostGivesUpAfterSecondConflict(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))
	h.store.conflicts = 2

	tx, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypeTopup,
		Amount: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	h.store.AssertNumberOfCalls(t, "PostTransaction", 2)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.Equal(decimal.NewFromInt(100)))
}

func TestReverse(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "0"))

	tx, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypeTopup,
		Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	reversed, err := h.svc.Reverse(context.Background(), tx.ID, 7, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusReversed, reversed.Status)
	h.auditor.AssertCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		"reversed", mock.Anything, mock.Anything, mock.Anything)

	card, _ := h.cards.GetByID(1)
	assert.True(t, card.Balance.IsZero())

	// Second reversal of the same row is rejected.
	_, err = h.svc.Reverse(context.Background(), tx.ID, 7, "again")
	assert.ErrorIs(t, err, ErrInvalidOperation)

	// The reversed row no longer counts toward the computed balance.
	txs, _ := h.txs.GetByCardID(1)
	assert.True(t, h.svc.ComputeBalance(txs).IsZero())
}

func TestReversePendingRejected(t *testing.T) {
	h := newHarness(t, activeCard(1, 7, "100"))
	h.scoreWith(risk.Assessment{Score: 0.6, Confidence: 0.7, Action: risk.ActionReview, Reasons: []string{"r"}})

	tx, _, err := h.svc.Post(context.Background(), PostRequest{
		CardID: 1, UserID: 7, Type: models.TransactionTypePurchase,
		Amount: decimal.NewFromInt(-10),
	})
	require.NoError(t, err)

	_, err = h.svc.Reverse(context.Background(), tx.ID, 7, "nope")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}
