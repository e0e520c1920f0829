package server

import (
	"net/http"

	"github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type personHandler struct {
	svc domain.Service
}

type createPersonRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PhoneNumber    string `json:"phone_number"`
	OrganizationID string `json:"organization_id"`
}

type updatePersonRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PhoneNumber    string `json:"phone_number"`
	OrganizationID string `json:"organization_id"`
}

func (h *personHandler) Create(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), domain.CreateRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (h *personHandler) Update(c *gin.Context) {
	var req updatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateRequest{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *personHandler) GetByID(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *personHandler) List(c *gin.Context) {
	var page pagination.Request
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), domain.ListRequest{Page: page})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// ListByIDs is the batch resolution endpoint the organization service uses to
// render member views. The body is a plain JSON array of person ids.
func (h *personHandler) ListByIDs(c *gin.Context) {
	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var page pagination.Request
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.ListByIDs(c.Request.Context(), domain.ListByIDsRequest{IDs: ids, Page: page})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *personHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *personHandler) AddMembership(c *gin.Context) {
	resp, err := h.svc.AddMembership(c.Request.Context(), c.Param("id"), c.Query("organizationId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *personHandler) RemoveMembership(c *gin.Context) {
	if err := h.svc.RemoveMembership(c.Request.Context(), c.Param("id"), c.Query("organizationId")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
