package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/scientifictooffi/itransition-4task/internal/api/metrics"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

var errSelectUsers = errors.New("Select at least one user")

// UserHandler handles the administration routes. Every route is mounted
// behind the session gate; any authenticated, non-blocked user may operate
// on any account.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type usersResponse struct {
	Users []profileResponse `json:"users"`
}

// List returns all users, most recently logged in first.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  usersResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]profileResponse, 0, len(users))
	for i := range users {
		out = append(out, toProfile(&users[i]))
	}
	return c.JSON(http.StatusOK, usersResponse{Users: out})
}

// Block sets the selected users to blocked.
//
// @Summary      Block users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      idsRequest  true  "User ids"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Router       /api/users/block [post]
func (h *UserHandler) Block(c echo.Context) error {
	ids, err := h.bindIds(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	if err := h.userService.Block(c.Request().Context(), ids); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("block").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Users blocked"})
}

// Unblock sets the selected users to active.
//
// @Summary      Unblock users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      idsRequest  true  "User ids"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Router       /api/users/unblock [post]
func (h *UserHandler) Unblock(c echo.Context) error {
	ids, err := h.bindIds(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	if err := h.userService.Unblock(c.Request().Context(), ids); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("unblock").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Users unblocked"})
}

// Delete removes the selected users.
//
// @Summary      Delete users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      idsRequest  true  "User ids"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Router       /api/users/delete [post]
func (h *UserHandler) Delete(c echo.Context) error {
	ids, err := h.bindIds(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: err.Error()})
	}

	if err := h.userService.Delete(c.Request().Context(), ids); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Users deleted"})
}

// DeleteUnverified removes unverified users. With an ids payload the
// deletion is restricted to unverified users among those ids; without one,
// every unverified user is removed. Idempotent.
//
// @Summary      Delete unverified users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      optionalIdsRequest  false  "Optional user ids"
// @Success      200   {object}  messageResponse
// @Router       /api/users/delete-unverified [post]
func (h *UserHandler) DeleteUnverified(c echo.Context) error {
	var req optionalIdsRequest
	// A missing or malformed body falls back to "all unverified users".
	if err := c.Bind(&req); err != nil {
		req.Ids = nil
	}

	if err := h.userService.DeleteUnverified(c.Request().Context(), req.Ids); err != nil {
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete_unverified").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Unverified users deleted"})
}

func (h *UserHandler) bindIds(c echo.Context) ([]string, error) {
	var req idsRequest
	if err := c.Bind(&req); err != nil {
		return nil, errSelectUsers
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return req.Ids, nil
}
