package httpapi

import (
	"github.com/dmitrijs2005/movievault/internal/server/config"
	"github.com/dmitrijs2005/movievault/internal/server/models"
	"github.com/gin-gonic/gin"
)

// Setup builds the gin engine with all API routes registered.
//
// Registration and login are public, catalog reads require any authenticated
// caller, and catalog writes plus account administration require the Admin
// role. When the local asset backend is active the storage root is served
// under /static so stored image references resolve.
func Setup(cfg *config.Config, users *UserHandler, movies *MovieHandler, categories *CategoryHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.AssetBackend == config.AssetBackendLocal {
		r.Static("/static", cfg.StorageRoot)
	}

	secret := []byte(cfg.SecretKey)
	authed := AuthRequired(secret)
	admin := RoleRequired(models.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		u := v1.Group("/users")
		{
			u.POST("/register", users.Register)
			u.POST("/login", users.Login)
			u.PUT("/password", authed, users.ChangePassword)
			u.GET("", authed, admin, users.List)
			u.DELETE("/:email", authed, admin, users.Delete)
		}

		m := v1.Group("/movies", authed)
		{
			m.GET("", movies.GetAll)
			m.GET("/:id", movies.GetByID)
			m.GET("/category/:categoryId", movies.GetByCategory)
			m.POST("", admin, movies.Create)
			m.PUT("/:id", admin, movies.Update)
			m.DELETE("/:id", admin, movies.Delete)
		}

		cat := v1.Group("/categories", authed)
		{
			cat.GET("", categories.GetAll)
			cat.GET("/:id", categories.GetByID)
			cat.POST("", admin, categories.Create)
			cat.PUT("/:id", admin, categories.Update)
			cat.DELETE("/:id", admin, categories.Delete)
		}
	}

	return r
}
