package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	shophttpmapper "github.com/Apurer/go-gin-shop/internal/domains/shop/adapters/http/mapper"
	shopports "github.com/Apurer/go-gin-shop/internal/domains/shop/ports"
)

// MemberAPI exposes member registration and lookup.
type MemberAPI struct {
	service shopports.Service
}

// NewMemberAPI wires dependencies.
func NewMemberAPI(service shopports.Service) MemberAPI {
	return MemberAPI{service: service}
}

// Post /api/v1/members
// Join a new member
func (api *MemberAPI) JoinMember(c *gin.Context) {
	var payload shophttpmapper.MemberForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		responder.BadRequest(c, err.Error())
		return
	}
	id, err := api.service.JoinMember(c.Request.Context(), shophttpmapper.ToJoinMemberInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shophttpmapper.Created{ID: id})
}

// Get /api/v1/members
// List members
func (api *MemberAPI) ListMembers(c *gin.Context) {
	members, err := api.service.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromMemberList(members))
}

// Get /api/v1/members/:memberId
// Find member by ID
func (api *MemberAPI) GetMember(c *gin.Context) {
	id, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}
	member, err := api.service.GetMember(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shophttpmapper.FromMember(member))
}
