package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrivista/api-go/cache"
	"github.com/agrivista/api-go/clients"
	"github.com/agrivista/api-go/config"
	"github.com/agrivista/api-go/controllers"
	"github.com/agrivista/api-go/middleware"
	"github.com/agrivista/api-go/store"
	"github.com/agrivista/api-go/utils"
)

// Dependencies carries everything the handlers need. Optional collaborators
// may be nil; their handlers answer 503.
type Dependencies struct {
	DB            *gorm.DB
	Tokens        *utils.TokenIssuer
	History       store.HistoryStore
	Cache         cache.Cache
	ML            controllers.Predictor
	LLM           clients.Completer
	Chat          clients.Chatter
	Weather       clients.WeatherProvider
	Wiki          clients.WikiProvider
	Google        *config.GoogleConfig
	R2            config.R2Config
	SecureCookies bool
}

func SetupRoutes(r *gin.Engine, deps *Dependencies) {
	// Initialize controllers
	authController := controllers.NewAuthController(deps.DB, deps.Tokens, deps.Google, deps.SecureCookies)
	validationController := controllers.NewValidationController(deps.DB)
	postController := controllers.NewPostController(deps.DB)
	interactionController := controllers.NewInteractionController(deps.DB)
	historyController := controllers.NewHistoryController(deps.History)
	predictionController := controllers.NewPredictionController(deps.ML, deps.History)
	advisoryController := controllers.NewAdvisoryController(deps.LLM)
	chatController := controllers.NewChatController(deps.Chat)
	weatherController := controllers.NewWeatherController(deps.DB, deps.Weather, deps.Cache)
	wikiController := controllers.NewWikiController(deps.Wiki, deps.Cache)
	adminController := controllers.NewAdminController(deps.DB, deps.Tokens, deps.History, deps.SecureCookies)
	trendController := controllers.NewTrendController(deps.DB)
	uploadController := controllers.NewUploadController(deps.DB, deps.R2)

	userAuth := middleware.UserAuth(deps.Tokens)
	optionalUser := middleware.OptionalAuth(deps.Tokens, utils.RoleUser, utils.UserCookie)
	adminAuth := middleware.AdminAuth(deps.Tokens, deps.DB)

	// Session and forum routes keep the paths the web client already calls
	SetupUserRoutes(r, userAuth, authController)
	SetupPostRoutes(r, userAuth, postController)
	SetupInteractionRoutes(r, userAuth, interactionController)

	api := r.Group("/api")
	{
		SetupValidationRoutes(api, validationController)
		SetupHistoryRoutes(api, optionalUser, historyController)
		SetupPredictionRoutes(api, optionalUser, predictionController)
		SetupAssistantRoutes(api, advisoryController, chatController)
		SetupWeatherRoutes(api, weatherController, wikiController)
		SetupUploadRoutes(api.Group("", userAuth), uploadController)
		SetupAdminRoutes(api, deps.Tokens, adminAuth, adminController, trendController, uploadController)
	}
}
