package api

import "github.com/gin-gonic/gin"

type Registrar interface {
	Register(router *gin.RouterGroup)
}

func NewRouter(handlers ...Registrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	root := router.Group("/")
	for _, h := range handlers {
		h.Register(root)
	}
	return router
}
