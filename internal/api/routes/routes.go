// internal/api/routes/routes.go
package routes

import (
	"time"

	"dkt-api-server/config"
	"dkt-api-server/internal/api/handlers"
	"dkt-api-server/internal/api/middleware"
	"dkt-api-server/internal/auth"
	"dkt-api-server/internal/identity"
	"dkt-api-server/internal/models"
	"dkt-api-server/internal/socket"
	"dkt-api-server/internal/tracking"
	"dkt-api-server/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// Deps are the services the router hands to its handlers.
type Deps struct {
	Identity *identity.Service
	Workflow *workflow.Service
	Tokens   *auth.TokenManager
	Trail    tracking.Reader
	Hub      *socket.Hub
}

// SetupRouter registers every route under /api/v1.
func SetupRouter(cfg config.Config, deps Deps) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: !allowsAny(cfg.CORS.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	authHandler := &handlers.AuthHandler{Identity: deps.Identity}
	accountHandler := &handlers.AccountHandler{Accounts: deps.Workflow}
	donorHandler := &handlers.DonorHandler{Donations: deps.Workflow, Payments: deps.Workflow}
	beneficiaryHandler := &handlers.BeneficiaryHandler{Requests: deps.Workflow}
	partnerHandler := &handlers.PartnerHandler{Partners: deps.Workflow}
	adminHandler := &handlers.AdminHandler{Identity: deps.Identity, Admin: deps.Workflow, Invoices: deps.Workflow, Assets: deps.Workflow}
	planHandler := &handlers.PlanHandler{Plans: deps.Workflow}
	assetHandler := &handlers.AssetHandler{Trail: deps.Trail}
	webSocketHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Tokens: deps.Tokens}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.Window, cfg.RateLimit.Burst)
	planCache := cache.New(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	authenticated := middleware.Authenticate(deps.Tokens)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		authRoutes := apiV1.Group("/auth")
		authRoutes.Use(middleware.RateLimiter(limiter))
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		apiV1.GET("/pricing-plans", middleware.Cache(planCache, cfg.Cache.TTL), planHandler.List)

		apiV1.GET("/assets/:id/trace", authenticated, assetHandler.GetAssetTrace)

		donor := apiV1.Group("/donor")
		donor.Use(authenticated, middleware.Authorize(models.RoleDonor))
		{
			donor.POST("/products", donorHandler.UploadProduct)
			donor.GET("/products", donorHandler.ListProducts)
			donor.GET("/uploads", donorHandler.ListUploads)
			donor.POST("/create-requests", donorHandler.CreateRequest)
			donor.GET("/requests", donorHandler.ListRequests)
			donor.POST("/gstInfo/add", accountHandler.AddGSTInfo)
			donor.POST("/addAddress", accountHandler.AddAddress)
			donor.GET("/track-order", donorHandler.TrackOrder)
			donor.POST("/checkout", donorHandler.Checkout)
			donor.POST("/verification", donorHandler.VerifyPayment)
		}

		beneficiary := apiV1.Group("/beneficiary")
		beneficiary.Use(authenticated, middleware.Authorize(models.RoleBeneficiary))
		{
			beneficiary.POST("/createAssetRequest", beneficiaryHandler.CreateAssetRequest)
			beneficiary.GET("/requests", beneficiaryHandler.ListRequests)
			beneficiary.POST("/reports", beneficiaryHandler.FileReport)
			beneficiary.POST("/gstInfo/add", accountHandler.AddGSTInfo)
			beneficiary.POST("/addAddress", accountHandler.AddAddress)
		}

		partner := apiV1.Group("/partner")
		partner.Use(authenticated, middleware.Authorize(models.RolePartner))
		{
			partner.POST("/acceptRequest", partnerHandler.AcceptRequest)
			partner.POST("/acceptAssetDeliveryRequest", partnerHandler.UpdateDeliveryStatus)
			partner.POST("/acceptAssetDeleveryRequest", partnerHandler.UpdateDeliveryStatus)
			partner.POST("/updateAssetCondition", partnerHandler.UpdateAssetCondition)
			partner.GET("/deliveries", partnerHandler.ListDeliveries)
			partner.POST("/gstInfo/add", accountHandler.AddGSTInfo)
			partner.POST("/addAddress", accountHandler.AddAddress)
		}

		admin := apiV1.Group("/admin")
		admin.Use(authenticated, middleware.Authorize(models.RoleAdmin))
		{
			admin.POST("/approveUser", adminHandler.ApproveUser)
			admin.POST("/approveUploads", adminHandler.ApproveUploads)
			admin.GET("/assets/:id", adminHandler.GetAsset)

			admin.POST("/assignAssetToPartner", adminHandler.AssignToPartner)
			admin.POST("/requests/:id/retry", adminHandler.RetryRequestShipment)

			admin.GET("/beneficiary-requests", adminHandler.ListBeneficiaryRequests)
			admin.POST("/moderateAssetRequest", adminHandler.ModerateAssetRequest)
			admin.POST("/createAssetDeliveryRequest", adminHandler.CreateDelivery)
			admin.POST("/creatAccetDeleveryRequest", adminHandler.CreateDelivery)
			admin.POST("/deliveries/:id/retry", adminHandler.RetryDeliveryShipment)

			admin.POST("/verifyAddress", adminHandler.VerifyAddress)
			admin.GET("/reports", adminHandler.ListReports)

			invoices := admin.Group("/invoices")
			{
				invoices.POST("/zero-value", adminHandler.CreateInvoice(models.InvoiceZeroValue))
				invoices.POST("/repair", adminHandler.CreateInvoice(models.InvoiceRepair))
				invoices.POST("/disposal", adminHandler.CreateInvoice(models.InvoiceDisposal))
			}

			plans := admin.Group("/pricing-plans")
			plans.Use(middleware.Invalidate(planCache))
			{
				plans.POST("", planHandler.Create)
				plans.PUT("/:id", planHandler.Update)
				plans.DELETE("/:id", planHandler.Delete)
			}
		}
	}

	return router
}

// Credentials cannot be combined with a wildcard origin.
func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
