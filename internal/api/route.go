package api

import (
	"Streamline/internal/api/middleware"
	"Streamline/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		activityGroup := apiGroup.Group("/activities")
		{
			authOptGroup := activityGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:activity_id", group.ActivityHandler.GetActivity)
			}

			authGroup := activityGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ActivityHandler.CreateActivity)
				authGroup.DELETE("", group.ActivityHandler.DeleteActivities)
				authGroup.PUT("/:activity_id/show", group.ActivityHandler.SetShowInStream)
			}
		}

		feedGroup := apiGroup.Group("/feeds")
		{
			authOptGroup := feedGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/everyone", group.FeedHandler.GetEveryoneFeed)
				authOptGroup.GET("/person/:person_id", group.FeedHandler.GetPersonFeed)
				authOptGroup.GET("/group/:group_id", group.FeedHandler.GetGroupFeed)
				authOptGroup.GET("/org/:org_id", group.FeedHandler.GetOrgFeed)
				authOptGroup.GET("/trending", group.FeedHandler.GetTrendingTags)
				authOptGroup.GET("/search", group.FeedHandler.SearchActivities)
			}

			authGroup := feedGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/following", group.FeedHandler.GetFollowingFeed)
				authGroup.GET("/liked", group.FeedHandler.GetLikedFeed)
				authGroup.GET("/starred", group.FeedHandler.GetStarredFeed)
			}
		}

		actionGroup := apiGroup.Group("/activity/action")
		{
			actionGroup.Use(middleware.AuthOptionalMiddleware())
			actionGroup.GET("/state/:activity_id", group.ActionHandler.GetActionState)
			actionGroup.GET("/likers/:activity_id", group.ActionHandler.GetLikers)

			authActionGroup := actionGroup.Group("")
			authActionGroup.Use(middleware.AuthMiddleware())
			{
				authActionGroup.POST("/likes/:activity_id", group.ActionHandler.LikeActivity)
				authActionGroup.POST("/stars/:activity_id", group.ActionHandler.StarActivity)
				authActionGroup.POST("/comments", group.ActionHandler.CreateComment)
			}
		}

		followGroup := apiGroup.Group("/follows")
		{
			followGroup.GET("/followers/:entity_id", group.FollowHandler.GetFollowers)

			authOptGroup := followGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/state/:entity_id", group.FollowHandler.GetFollowState)
			}

			authGroup := followGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/:entity_id", group.FollowHandler.Follow)
				authGroup.DELETE("/:entity_id", group.FollowHandler.Unfollow)
			}
		}

		opsGroup := apiGroup.Group("/ops")
		{
			opsGroup.Use(middleware.AuthMiddleware())
			opsGroup.GET("/fanout-failures", group.OpsHandler.GetFanoutFailures)
			opsGroup.PUT("/fanout-failures/:failure_id/resolve", group.OpsHandler.ResolveFanoutFailure)
			opsGroup.GET("/leak-findings", group.OpsHandler.GetLeakFindings)
		}

		streamGroup := apiGroup.Group("/streams")
		{
			streamGroup.GET("/resolve", group.StreamHandler.ResolveStream)
			streamGroup.GET("/:stream_id/entity", group.StreamHandler.ResolveEntity)

			authGroup := streamGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.PUT("/visibility", group.StreamHandler.ChangeVisibility)
			}
		}
	}

	return r
}
