package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/openbrick/brick-ledger/internal/domain"
	"github.com/openbrick/brick-ledger/internal/ledger"
	"github.com/openbrick/brick-ledger/internal/store"
	"github.com/openbrick/brick-ledger/internal/store/schema"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// Token operations
	// POST /api/v1/token/issue | destroy | transfer | approve | transfer-from |
	// pause | unpause, GET /api/v1/token/supply
	IssueTokens(c *gin.Context)
	DestroyTokens(c *gin.Context)
	Transfer(c *gin.Context)
	Approve(c *gin.Context)
	TransferFrom(c *gin.Context)
	Pause(c *gin.Context)
	Unpause(c *gin.Context)
	GetSupply(c *gin.Context)

	// Account reads
	// GET /api/v1/accounts/:address, GET /api/v1/accounts/:address/allowances/:spender
	GetAccount(c *gin.Context)
	GetAllowance(c *gin.Context)

	// Property registry
	// POST /api/v1/properties, GET /api/v1/properties[/:id],
	// POST /api/v1/properties/:id/verify | purchase | income,
	// GET /api/v1/properties/:id/investors
	ListProperty(c *gin.Context)
	ListProperties(c *gin.Context)
	GetProperty(c *gin.Context)
	VerifyProperty(c *gin.Context)
	PurchaseShares(c *gin.Context)
	DistributeIncome(c *gin.Context)
	GetPropertyInvestors(c *gin.Context)

	// Order book
	// POST /api/v1/orders, GET /api/v1/orders[/:id]?property_id=&include_expired=,
	// POST /api/v1/orders/:id/fulfil | cancel
	CreateOrder(c *gin.Context)
	ListOrders(c *gin.Context)
	GetOrder(c *gin.Context)
	FulfilOrder(c *gin.Context)
	CancelOrder(c *gin.Context)

	// Governance
	// POST /api/v1/proposals, GET /api/v1/proposals[/:id],
	// POST /api/v1/proposals/:id/votes | execute,
	// GET /api/v1/proposals/:id/votes/:address
	CreateProposal(c *gin.Context)
	ListProposals(c *gin.Context)
	GetProposal(c *gin.Context)
	CastVote(c *gin.Context)
	GetVote(c *gin.Context)
	ExecuteProposal(c *gin.Context)

	// Disaster reports and insurance
	// POST /api/v1/disasters, GET /api/v1/disasters[/:id],
	// POST /api/v1/disasters/:id/verify, POST /api/v1/claims,
	// GET /api/v1/claims[/:id], POST /api/v1/claims/:id/process,
	// POST /api/v1/insurance/deposits, GET /api/v1/insurance/fund
	ReportDisaster(c *gin.Context)
	ListReports(c *gin.Context)
	GetReport(c *gin.Context)
	VerifyReport(c *gin.Context)
	SubmitClaim(c *gin.Context)
	ListClaims(c *gin.Context)
	GetClaim(c *gin.Context)
	ProcessClaim(c *gin.Context)
	DepositInsurance(c *gin.Context)
	GetInsuranceFund(c *gin.Context)

	// Change feed
	// GET /api/v1/changes?anchor=&limit=&component=&event_type=&actor=&since=
	GetChanges(c *gin.Context)

	// CreateWebhookClient registers a webhook client (requires API key auth)
	// POST /api/v1/webhooks/clients
	CreateWebhookClient(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug  bool
	engine *ledger.Ledger
	store  store.Store // nil when persistence is disabled
}

// NewHandler creates a new REST API handler over the ledger engine
func NewHandler(debug bool, engine *ledger.Ledger, st store.Store) Handler {
	return &handler{
		debug:  debug,
		engine: engine,
		store:  st,
	}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// parseAccount validates and normalizes an account string from a request
func parseAccount(raw string) (domain.Account, bool) {
	if !domain.IsValidAccount(raw) {
		return "", false
	}
	return domain.NormalizeAccount(raw), true
}

// pathID parses a numeric :id path parameter
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *handler) IssueTokens(c *gin.Context) {
	var req issueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	to, ok := parseAccount(req.To)
	if !ok {
		respondBadRequest(c, "invalid recipient account")
		return
	}
	if err := h.engine.Issue(c.Request.Context(), caller, to, req.Amount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) DestroyTokens(c *gin.Context) {
	var req destroyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	from, ok := parseAccount(req.From)
	if !ok {
		respondBadRequest(c, "invalid source account")
		return
	}
	if err := h.engine.Destroy(c.Request.Context(), caller, from, req.Amount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	from, ok := parseAccount(req.From)
	if !ok {
		respondBadRequest(c, "invalid sender account")
		return
	}
	to, ok := parseAccount(req.To)
	if !ok {
		respondBadRequest(c, "invalid recipient account")
		return
	}
	if err := h.engine.Transfer(c.Request.Context(), from, to, req.Amount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) Approve(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	owner, ok := parseAccount(req.Owner)
	if !ok {
		respondBadRequest(c, "invalid owner account")
		return
	}
	spender, ok := parseAccount(req.Spender)
	if !ok {
		respondBadRequest(c, "invalid spender account")
		return
	}
	if err := h.engine.Approve(c.Request.Context(), owner, spender, req.Amount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) TransferFrom(c *gin.Context) {
	var req transferFromRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	spender, ok := parseAccount(req.Spender)
	if !ok {
		respondBadRequest(c, "invalid spender account")
		return
	}
	owner, ok := parseAccount(req.Owner)
	if !ok {
		respondBadRequest(c, "invalid owner account")
		return
	}
	to, ok := parseAccount(req.To)
	if !ok {
		respondBadRequest(c, "invalid recipient account")
		return
	}
	if err := h.engine.TransferFrom(c.Request.Context(), spender, owner, to, req.Amount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) Pause(c *gin.Context) {
	h.setPaused(c, true)
}

func (h *handler) Unpause(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *handler) setPaused(c *gin.Context, paused bool) {
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	var err error
	if paused {
		err = h.engine.Pause(c.Request.Context(), caller)
	} else {
		err = h.engine.Unpause(c.Request.Context(), caller)
	}
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) GetSupply(c *gin.Context) {
	c.JSON(http.StatusOK, supplyResponse{
		TotalIssued: h.engine.TotalIssued(),
		SupplyCap:   h.engine.SupplyCap(),
		Paused:      h.engine.Paused(),
	})
}

func (h *handler) GetAccount(c *gin.Context) {
	account, ok := parseAccount(c.Param("address"))
	if !ok {
		respondBadRequest(c, "invalid account address")
		return
	}
	c.JSON(http.StatusOK, accountResponse{
		Address:  account,
		Balance:  h.engine.BalanceOf(account),
		Holdings: h.engine.PortfolioOf(account),
	})
}

func (h *handler) GetAllowance(c *gin.Context) {
	owner, ok := parseAccount(c.Param("address"))
	if !ok {
		respondBadRequest(c, "invalid owner address")
		return
	}
	spender, ok := parseAccount(c.Param("spender"))
	if !ok {
		respondBadRequest(c, "invalid spender address")
		return
	}
	c.JSON(http.StatusOK, allowanceResponse{
		Owner:   owner,
		Spender: spender,
		Amount:  h.engine.AllowanceOf(owner, spender),
	})
}

func (h *handler) ListProperty(c *gin.Context) {
	var req listPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	id, err := h.engine.ListProperty(
		c.Request.Context(),
		caller,
		req.MetadataPointer,
		req.TotalValuation,
		req.TotalShares,
		domain.PropertyType(req.Type),
		domain.RiskLevel(req.Risk),
	)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *handler) ListProperties(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Properties())
}

func (h *handler) GetProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	property, err := h.engine.GetProperty(id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *handler) VerifyProperty(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	if err := h.engine.VerifyProperty(c.Request.Context(), caller, id); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) PurchaseShares(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	buyer, ok := parseAccount(req.Buyer)
	if !ok {
		respondBadRequest(c, "invalid buyer account")
		return
	}
	if err := h.engine.PurchaseShares(c.Request.Context(), buyer, id, req.ShareCount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) DistributeIncome(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	if err := h.engine.DistributeIncome(c.Request.Context(), caller, id, req.TotalIncome); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) GetPropertyInvestors(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.engine.GetProperty(id); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.engine.InvestorsOf(id))
}

func (h *handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	seller, ok := parseAccount(req.Seller)
	if !ok {
		respondBadRequest(c, "invalid seller account")
		return
	}
	id, err := h.engine.CreateSellOrder(
		c.Request.Context(),
		seller,
		req.PropertyID,
		req.ShareCount,
		req.PricePerShare,
		req.DurationDays,
	)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *handler) ListOrders(c *gin.Context) {
	openOnly := c.Query("include_expired") != "true"
	if raw := c.Query("property_id"); raw != "" {
		propertyID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, "invalid property_id")
			return
		}
		c.JSON(http.StatusOK, h.engine.OrdersForProperty(propertyID, openOnly))
		return
	}
	c.JSON(http.StatusOK, h.engine.Orders(openOnly))
}

func (h *handler) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.engine.GetOrder(id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handler) FulfilOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req fulfilOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	buyer, ok := parseAccount(req.Buyer)
	if !ok {
		respondBadRequest(c, "invalid buyer account")
		return
	}
	if err := h.engine.FulfilOrder(c.Request.Context(), buyer, id, req.ShareCount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) CancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	if err := h.engine.CancelOrder(c.Request.Context(), caller, id); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) CreateProposal(c *gin.Context) {
	var req createProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	proposer, ok := parseAccount(req.Proposer)
	if !ok {
		respondBadRequest(c, "invalid proposer account")
		return
	}
	id, err := h.engine.CreateProposal(c.Request.Context(), proposer, req.Title, req.Description)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *handler) ListProposals(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Proposals())
}

func (h *handler) GetProposal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	proposal, err := h.engine.GetProposal(id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func (h *handler) CastVote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	voter, ok := parseAccount(req.Voter)
	if !ok {
		respondBadRequest(c, "invalid voter account")
		return
	}
	if err := h.engine.CastVote(c.Request.Context(), voter, id, *req.Support); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) GetVote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	voter, ok := parseAccount(c.Param("address"))
	if !ok {
		respondBadRequest(c, "invalid voter address")
		return
	}
	vote, found := h.engine.VoteOf(id, voter)
	if !found {
		respondNotFound(c, "vote not found")
		return
	}
	c.JSON(http.StatusOK, vote)
}

func (h *handler) ExecuteProposal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	passed, err := h.engine.ExecuteProposal(c.Request.Context(), caller, id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, executeProposalResponse{Executed: true, Passed: passed})
}

func (h *handler) ReportDisaster(c *gin.Context) {
	var req reportDisasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	reporter, ok := parseAccount(req.Reporter)
	if !ok {
		respondBadRequest(c, "invalid reporter account")
		return
	}
	id, err := h.engine.ReportDisaster(
		c.Request.Context(),
		reporter,
		req.PropertyID,
		domain.DisasterType(req.Type),
		req.Description,
	)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *handler) ListReports(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Reports())
}

func (h *handler) GetReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.engine.GetReport(id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) VerifyReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req callerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	if err := h.engine.VerifyDisaster(c.Request.Context(), caller, id); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) SubmitClaim(c *gin.Context) {
	var req submitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	claimant, ok := parseAccount(req.Claimant)
	if !ok {
		respondBadRequest(c, "invalid claimant account")
		return
	}
	id, err := h.engine.SubmitClaim(
		c.Request.Context(),
		claimant,
		req.PropertyID,
		req.ReportID,
		req.ClaimAmount,
		req.Evidence,
	)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *handler) ListClaims(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Claims())
}

func (h *handler) GetClaim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claim, err := h.engine.GetClaim(id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

func (h *handler) ProcessClaim(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req processClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	caller, ok := parseAccount(req.Caller)
	if !ok {
		respondBadRequest(c, "invalid caller account")
		return
	}
	err := h.engine.ProcessClaim(
		c.Request.Context(),
		caller,
		id,
		domain.ClaimStatus(req.Status),
		req.ApprovedAmount,
	)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) DepositInsurance(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	from, ok := parseAccount(req.From)
	if !ok {
		respondBadRequest(c, "invalid depositor account")
		return
	}
	if err := h.engine.DepositInsurance(c.Request.Context(), from, req.Amount); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

func (h *handler) GetInsuranceFund(c *gin.Context) {
	c.JSON(http.StatusOK, fundResponse{Balance: h.engine.InsuranceFund()})
}

// GetChanges retrieves journal entries after the given anchor cursor.
// Returns an empty feed when persistence is disabled.
func (h *handler) GetChanges(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, changesResponse{Items: []changeEntry{}})
		return
	}

	filter, err := parseChangesFilter(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	entries, err := h.store.GetChanges(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "failed to get changes")
		return
	}

	resp := changesResponse{Items: make([]changeEntry, 0, len(entries))}
	for _, e := range entries {
		entry := changeEntry{
			Cursor:    e.Cursor,
			EventID:   e.EventID,
			EventType: e.EventType,
			Component: e.Component,
			Actor:     e.Actor,
			ChangedAt: e.ChangedAt.UTC().Format(time.RFC3339),
		}
		if len(e.Meta) > 0 {
			var meta map[string]any
			if err := json.Unmarshal(e.Meta, &meta); err == nil {
				entry.Meta = meta
			}
		}
		resp.Items = append(resp.Items, entry)
		resp.NextAnchor = e.Cursor
	}
	c.JSON(http.StatusOK, resp)
}

func parseChangesFilter(c *gin.Context) (store.ChangesFilter, error) {
	var filter store.ChangesFilter
	if raw := c.Query("anchor"); raw != "" {
		anchor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || anchor < 0 {
			return filter, strconv.ErrSyntax
		}
		filter.Anchor = anchor
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, strconv.ErrSyntax
		}
		filter.Limit = limit
	}
	filter.Component = c.Query("component")
	filter.EventType = c.Query("event_type")
	filter.Actor = c.Query("actor")
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.Since = since
	}
	return filter, nil
}

// CreateWebhookClient registers a webhook client for event delivery
func (h *handler) CreateWebhookClient(c *gin.Context) {
	if h.store == nil {
		respondBadRequest(c, "webhook clients require persistence")
		return
	}

	var req createWebhookClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	client := schema.WebhookClient{
		ID:     uuid.NewString(),
		Name:   req.Name,
		URL:    req.URL,
		Secret: req.Secret,
		Active: true,
	}
	if len(req.EventTypes) > 0 {
		raw, err := json.Marshal(req.EventTypes)
		if err != nil {
			respondValidationError(c, err.Error())
			return
		}
		client.EventTypes = datatypes.JSON(raw)
	}

	if err := h.store.CreateWebhookClient(c.Request.Context(), &client); err != nil {
		respondInternalError(c, err, "failed to create webhook client")
		return
	}

	c.JSON(http.StatusCreated, webhookClientResponse{
		ID:         client.ID,
		Name:       client.Name,
		URL:        client.URL,
		EventTypes: req.EventTypes,
		Active:     client.Active,
	})
}
