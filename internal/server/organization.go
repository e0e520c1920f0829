package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type organizationHandler struct {
	svc domain.Service
}

type createOrganizationRequest struct {
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
}

type updateOrganizationRequest struct {
	Name   *string  `json:"name"`
	Budget *float64 `json:"budget"`
}

type addMemberRequest struct {
	PersonID string `json:"person_id"`
}

func (h *organizationHandler) Create(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), domain.CreateRequest{
		Name:   req.Name,
		Budget: req.Budget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (h *organizationHandler) Update(c *gin.Context) {
	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), domain.UpdateRequest{
		Name:   req.Name,
		Budget: req.Budget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *organizationHandler) GetByID(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), domain.GetRequest{
		ID:             c.Param("id"),
		IncludeMembers: includeMembers(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *organizationHandler) List(c *gin.Context) {
	var page pagination.Request
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), domain.ListRequest{
		Page:           page,
		IncludeMembers: includeMembers(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *organizationHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *organizationHandler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := h.svc.AddMember(c.Request.Context(), c.Param("id"), req.PersonID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *organizationHandler) RemoveMember(c *gin.Context) {
	if err := h.svc.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("personId")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// includeMembers defaults to true; batch member resolution is skipped only
// when the caller opts out, which is what the peer client does for plain
// organization lookups.
func includeMembers(c *gin.Context) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.DefaultQuery("includeMembers", "true")))
	if err != nil {
		return true
	}
	return v
}
