package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/openbrick/brick-ledger/internal/api/middleware"
)

// SetupRoutes configures all REST API routes. Admin-only operations are
// additionally authorized inside the engine against the configured admin
// account; HTTP auth here gates who can reach them at all.
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// Admin endpoints require HTTP auth only when credentials are configured,
	// so a local dev instance works without keys
	adminAuth := passthrough()
	if authCfg.JWTPublicKey != "" || len(authCfg.APIKeys) > 0 {
		adminAuth = middleware.Auth(authCfg)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Token endpoints
		v1.POST("/token/issue", handler.IssueTokens)
		v1.POST("/token/destroy", handler.DestroyTokens)
		v1.POST("/token/transfer", handler.Transfer)
		v1.POST("/token/approve", handler.Approve)
		v1.POST("/token/transfer-from", handler.TransferFrom)
		v1.POST("/token/pause", adminAuth, handler.Pause)
		v1.POST("/token/unpause", adminAuth, handler.Unpause)
		v1.GET("/token/supply", handler.GetSupply)

		// Account reads
		v1.GET("/accounts/:address", handler.GetAccount)
		v1.GET("/accounts/:address/allowances/:spender", handler.GetAllowance)

		// Property registry
		v1.POST("/properties", handler.ListProperty)
		v1.GET("/properties", handler.ListProperties)
		v1.GET("/properties/:id", handler.GetProperty)
		v1.POST("/properties/:id/verify", adminAuth, handler.VerifyProperty)
		v1.POST("/properties/:id/purchase", handler.PurchaseShares)
		v1.POST("/properties/:id/income", adminAuth, handler.DistributeIncome)
		v1.GET("/properties/:id/investors", handler.GetPropertyInvestors)

		// Order book
		v1.POST("/orders", handler.CreateOrder)
		v1.GET("/orders", handler.ListOrders)
		v1.GET("/orders/:id", handler.GetOrder)
		v1.POST("/orders/:id/fulfil", handler.FulfilOrder)
		v1.POST("/orders/:id/cancel", handler.CancelOrder)

		// Governance
		v1.POST("/proposals", handler.CreateProposal)
		v1.GET("/proposals", handler.ListProposals)
		v1.GET("/proposals/:id", handler.GetProposal)
		v1.POST("/proposals/:id/votes", handler.CastVote)
		v1.GET("/proposals/:id/votes/:address", handler.GetVote)
		v1.POST("/proposals/:id/execute", handler.ExecuteProposal)

		// Disaster reports and insurance
		v1.POST("/disasters", handler.ReportDisaster)
		v1.GET("/disasters", handler.ListReports)
		v1.GET("/disasters/:id", handler.GetReport)
		v1.POST("/disasters/:id/verify", adminAuth, handler.VerifyReport)
		v1.POST("/claims", handler.SubmitClaim)
		v1.GET("/claims", handler.ListClaims)
		v1.GET("/claims/:id", handler.GetClaim)
		v1.POST("/claims/:id/process", adminAuth, handler.ProcessClaim)
		v1.POST("/insurance/deposits", handler.DepositInsurance)
		v1.GET("/insurance/fund", handler.GetInsuranceFund)

		// Changes endpoint (public read access)
		v1.GET("/changes", handler.GetChanges)

		// Webhook endpoints (requires API key authentication only)
		v1.POST("/webhooks/clients", middleware.APIKeyAuth(authCfg), handler.CreateWebhookClient)
	}
}

func passthrough() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
