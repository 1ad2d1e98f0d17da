package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/sankopay/agencyledger/internal/adapter/http"
	"github.com/sankopay/agencyledger/internal/adapter/http/handler"
	"github.com/sankopay/agencyledger/internal/usecase"
	"github.com/sankopay/agencyledger/internal/usecase/mocks"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	accountRepo := mocks.NewMockAccountRepository()
	floatRepo := mocks.NewMockFloatAccountRepository()
	floatTxns := mocks.NewMockFloatTransactionRepository()
	mappingRepo := mocks.NewMockMappingRepository()
	glRepo := mocks.NewMockGLRepository()
	equityRepo := mocks.NewMockEquityRepository()
	statementRepo := mocks.NewMockStatementRepository()
	auditRepo := mocks.NewMockAuditRepository()
	outboxRepo := mocks.NewMockOutboxRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	cache := mocks.NewMockCache()
	log := zerolog.Nop()

	chartUC := usecase.NewChartUseCase(accountRepo, auditRepo, cache, idGen, log)
	mappingUC := usecase.NewMappingUseCase(mappingRepo, accountRepo, cache, idGen, log)
	postingUC := usecase.NewPostingUseCase(txManager, glRepo, accountRepo, mappingUC, idGen, log)
	balanceUC := usecase.NewFloatBalanceUseCase(txManager, floatRepo, floatTxns, outboxRepo, idGen, log)
	settlementUC := usecase.NewSettlementUseCase(balanceUC, postingUC, outboxRepo, auditRepo, idGen, log)
	reconUC := usecase.NewReconciliationUseCase(floatRepo, glRepo, mappingUC, postingUC, chartUC, auditRepo, log)
	statementUC := usecase.NewStatementUseCase(
		statementRepo, floatRepo, equityRepo,
		decimal.Zero, decimal.RequireFromString("0.01"), log,
	)

	return httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PostingHandler:        handler.NewPostingHandler(postingUC),
		ChartHandler:          handler.NewChartHandler(chartUC, postingUC),
		MappingHandler:        handler.NewMappingHandler(mappingUC),
		FloatHandler:          handler.NewFloatHandler(balanceUC),
		SettlementHandler:     handler.NewSettlementHandler(settlementUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		StatementHandler:      handler.NewStatementHandler(statementUC),
		AuditHandler:          handler.NewAuditHandler(auditRepo),
		HealthHandler:         handler.NewHealthHandler(nil, nil),
		Logger:                log,
	})
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_APIRequiresIdentity(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/gl/accounts/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_ViewerCannotPost(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gl/postings/", strings.NewReader(`{}`))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Role", "viewer")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_OperatorCannotConfigure(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gl/accounts/seed", nil)
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("X-User-Role", "operator")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRouter_AdminSeedsAndListsChart(t *testing.T) {
	router := newTestRouter(t)

	seed := httptest.NewRequest(http.MethodPost, "/api/v1/gl/accounts/seed", nil)
	seed.Header.Set("X-User-ID", "admin-1")
	seed.Header.Set("X-User-Role", "admin")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, seed)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	list := httptest.NewRequest(http.MethodGet, "/api/v1/gl/accounts/", nil)
	list.Header.Set("X-User-ID", "admin-1")
	list.Header.Set("X-User-Role", "viewer")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, list)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1999")
}
