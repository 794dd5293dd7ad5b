package app

import (
	"realtime_chat_service/internal/member/domain"
	"realtime_chat_service/pkg/logger"
	"realtime_chat_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MemberHandler HTTP layer of the user directory
type MemberHandler struct {
	memberUC MemberUseCase
}

// NewMemberHandler create a new MemberHandler
func NewMemberHandler(memberUC MemberUseCase) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profilePicRequest struct {
	ProfilePic string `json:"profile_pic"`
}

// userResponse member projection handed to other services
type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	ProfilePic string `json:"profile_pic"`
}

func toUserResponse(m *domain.Member) userResponse {
	return userResponse{
		ID:         m.MemberID,
		Name:       m.Name,
		Email:      m.Email,
		Mobile:     m.Mobile,
		ProfilePic: m.ProfilePic,
	}
}

// Register handle POST /member/register
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, email and password are required"})
	}

	if err := h.memberUC.Register(c.Context(), req.Name, req.Email, req.Mobile, req.Password); err != nil {
		logger.Log.Error("register failed", zap.String("email", req.Email), zap.Error(err))
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "registered"})
}

// Login handle POST /member/login
func (h *MemberHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	t, err := h.memberUC.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.CookieToken,
		Value:    t,
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"token": t})
}

// Logout handle POST /member/logout
func (h *MemberHandler) Logout(c *fiber.Ctx) error {
	t := c.Cookies(middlewares.CookieToken)
	if t == "" {
		t = c.Query(middlewares.QueryToken)
	}
	if t == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing token"})
	}

	if err := h.memberUC.Logout(c.Context(), t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.ClearCookie(middlewares.CookieToken)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// GetUser handle GET /member/users/:id
func (h *MemberHandler) GetUser(c *fiber.Ctx) error {
	memberID := c.Params("id")
	if memberID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing member id"})
	}

	member, err := h.memberUC.FindMember(c.Context(), &domain.MemberQuery{MemberID: &memberID})
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
	}

	return c.JSON(toUserResponse(member))
}

// SearchUsers handle GET /member/users?q=
func (h *MemberHandler) SearchUsers(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.JSON([]userResponse{})
	}

	members, err := h.memberUC.SearchMembers(c.Context(), q)
	if err != nil {
		logger.Log.Error("search members failed", zap.String("q", q), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	out := make([]userResponse, 0, len(members))
	for i := range members {
		out = append(out, toUserResponse(&members[i]))
	}
	return c.JSON(out)
}

// UpdateProfilePic handle PUT /member/profile_pic
func (h *MemberHandler) UpdateProfilePic(c *fiber.Ctx) error {
	memberID, ok := c.Locals(middlewares.TokenMemberID).(string)
	if !ok || memberID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	var req profilePicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.memberUC.UpdateProfilePic(c.Context(), memberID, req.ProfilePic); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "updated"})
}

// SessionTimeout handle GET /member/session/timeout
func (h *MemberHandler) SessionTimeout(c *fiber.Ctx) error {
	t := c.Cookies(middlewares.CookieToken)
	if t == "" {
		t = c.Query(middlewares.QueryToken)
	}

	expired, err := h.memberUC.CheckSessionTimeout(c.Context(), t)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error(), "expired": true})
	}
	return c.JSON(fiber.Map{"expired": expired})
}

// Reconnect handle POST /member/session/reconnect
func (h *MemberHandler) Reconnect(c *fiber.Ctx) error {
	t := c.Cookies(middlewares.CookieToken)
	if t == "" {
		t = c.Query(middlewares.QueryToken)
	}

	if err := h.memberUC.ReconnectSession(c.Context(), t); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "session extended"})
}
