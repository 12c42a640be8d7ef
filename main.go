package main

import (
	"log"
	"strings"
	"tavern/access"
	"tavern/auth"
	"tavern/config"
	"tavern/db"
	"tavern/handlers"
	"tavern/models"
	"tavern/storage"
	"tavern/utils"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const sessionCookieName = "token"

func setupRouter() *gin.Engine {
	binding.EnableDecoderDisallowUnknownFields = true
	handlers.Access = access.NewEvaluator(models.NewRoleStore(db.Instance))

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.CorsOrigins(),
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "ETag"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: config.SESSION_MAX_AGE, HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{
			`^/campaign/[^/]+/feed$`,
			`^/campaign/[^/]+/images/`,
		})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	// Custom Auth Router
	authRouter := &auth.Router{Base: router, Evaluator: handlers.Access}
	// Bucket handlers
	authRouter.GET("/bucket/list", handlers.BucketList, models.PermissionAdmin)
	authRouter.POST("/bucket/save", handlers.BucketSave, models.PermissionAdmin)
	// User info handlers
	router.POST("/user/login", handlers.UserLogin)
	authRouter.POST("/user/save", handlers.UserSave, models.PermissionAdmin)
	authRouter.POST("/user/delete", handlers.UserDelete) // PermissionAdmin or own account check (in handler)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.GET("/user/list", handlers.UserList)
	authRouter.POST("/user/logout", handlers.UserLogout)
	// Campaign handlers
	authRouter.GET("/campaign/list", handlers.CampaignList)
	authRouter.POST("/campaign/create", handlers.CampaignCreate) // CanCreateCampaigns or Admin (in handler)
	authRouter.CampaignGET("/campaign/:campaign", handlers.CampaignGet, access.ViewCampaign)
	authRouter.CampaignPOST("/campaign/:campaign/save", handlers.CampaignSave, access.EditCampaign)
	authRouter.CampaignPOST("/campaign/:campaign/delete", handlers.CampaignDelete, access.DeleteCampaign)
	authRouter.CampaignPOST("/campaign/:campaign/transfer", handlers.CampaignTransfer, access.TransferOwnership)
	// Members
	authRouter.CampaignGET("/campaign/:campaign/members", handlers.MemberList, access.ViewCampaign)
	authRouter.CampaignPOST("/campaign/:campaign/members/add", handlers.MemberAdd, access.ManageMembers)
	authRouter.CampaignPOST("/campaign/:campaign/members/role", handlers.MemberRole, access.ManageMembers)
	authRouter.CampaignPOST("/campaign/:campaign/members/remove", handlers.MemberRemove, access.ManageMembers)
	authRouter.CampaignPOST("/campaign/:campaign/leave", handlers.CampaignLeave, access.ViewCampaign)
	// Invitations
	authRouter.CampaignGET("/campaign/:campaign/invitations", handlers.InvitationList, access.ManageMembers)
	authRouter.CampaignPOST("/campaign/:campaign/invitations/create", handlers.InvitationCreate, access.ManageMembers)
	authRouter.CampaignPOST("/campaign/:campaign/invitations/delete", handlers.InvitationDelete, access.ManageMembers)
	authRouter.POST("/invitation/accept", handlers.InvitationAccept)
	// Campaign content
	handlers.EntityRoutes(authRouter)
	authRouter.CampaignGET("/campaign/:campaign/posts", handlers.PostList, access.ViewCampaign)
	authRouter.CampaignPOST("/campaign/:campaign/posts/create", handlers.PostCreate, access.CreatePosts)
	authRouter.CampaignPOST("/campaign/:campaign/posts/:id/save", handlers.PostSave, access.CreatePosts)
	authRouter.CampaignPOST("/campaign/:campaign/posts/:id/delete", handlers.PostDelete, access.ViewCampaign) // author or DeleteEntities (in handler)
	authRouter.CampaignGET("/campaign/:campaign/rolls", handlers.RollList, access.ViewCampaign)
	authRouter.CampaignPOST("/campaign/:campaign/rolls/create", handlers.RollCreate, access.RollDice)
	authRouter.CampaignPOST("/campaign/:campaign/images/upload", handlers.ImageUpload, access.EditEntities)
	authRouter.CampaignGET("/campaign/:campaign/images/:id", handlers.ImageGet, access.ViewCampaign)
	// Live feed
	authRouter.CampaignGET("/campaign/:campaign/feed", handlers.CampaignFeed, access.ViewCampaign)

	return router
}

func main() {
	db.Init()
	models.Init()
	storage.Init()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter()

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
