package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"

	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/service"
)

var errBadBody = errors.Codef(codes.InvalidArgument, "request body must be a JSON object").
	WithPublicMessage("request body must be a JSON object")

type handlers struct {
	svc *service.Service
}

func (h handlers) createOrder(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		renderError(c, errBadBody)
		return
	}

	id, err := h.svc.CreateOrder(c.Request.Context(), "", doc)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h handlers) listOrders(c *gin.Context) {
	snaps, err := h.svc.ListOrders(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	orders := make([]gin.H, 0, len(snaps))
	for _, s := range snaps {
		orders = append(orders, gin.H{"id": s.ID, "data": s.Data})
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h handlers) getOrder(c *gin.Context) {
	doc, err := h.svc.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "data": doc})
}

func (h handlers) updateOrder(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		renderError(c, errBadBody)
		return
	}

	if err := h.svc.UpdateOrder(c.Request.Context(), c.Param("id"), doc); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h handlers) deleteOrder(c *gin.Context) {
	if err := h.svc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h handlers) createProfile(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		renderError(c, errBadBody)
		return
	}

	if err := h.svc.CreateProfile(c.Request.Context(), c.Param("uid"), doc); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"uid": c.Param("uid")})
}

func (h handlers) getProfile(c *gin.Context) {
	doc, err := h.svc.GetProfile(c.Request.Context(), c.Param("uid"))
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": c.Param("uid"), "data": doc})
}

func (h handlers) updateProfile(c *gin.Context) {
	var doc map[string]interface{}
	if err := c.ShouldBindJSON(&doc); err != nil {
		renderError(c, errBadBody)
		return
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), c.Param("uid"), doc); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uid": c.Param("uid")})
}
