package router

import (
	"log/slog"
	"net/http"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/bselic/newsbrief/internal/dto"
	"github.com/bselic/newsbrief/internal/storage"
	"github.com/labstack/echo/v4"
)

type UsersRouter struct {
	e     *echo.Echo
	users storage.UserDirectory
}

func NewUsersRouter(e *echo.Echo, users storage.UserDirectory) *UsersRouter {
	return &UsersRouter{
		e:     e,
		users: users,
	}
}

func (r *UsersRouter) Bind() {
	r.e.POST("/users", r.createHandler)
	r.e.GET("/users", r.listHandler)
	r.e.GET("/users/:userId", r.getHandler)
	r.e.PATCH("/users/:userId", r.updateHandler)
	r.e.DELETE("/users/:userId", r.deleteHandler)
}

func (r *UsersRouter) createHandler(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid user payload", err)
	}
	if req.Email == "" || req.Password == "" {
		return apperr.NewValidation("email and password are required")
	}

	user, err := r.users.Create(c.Request().Context(), &domain.User{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	slog.Info("User created", "id", user.ID, "email", user.Email)
	return c.JSON(http.StatusOK, user)
}

func (r *UsersRouter) listHandler(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	users, err := r.users.List(c.Request().Context(), page.Offset, page.Limit)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	result := make([]domain.UserWithHistory, 0, len(users))
	for _, u := range users {
		history, err := r.users.History(ctx, u.ID)
		if err != nil {
			return err
		}
		if history == nil {
			history = []domain.NewsContent{}
		}
		result = append(result, domain.UserWithHistory{User: u, History: history})
	}

	return c.JSON(http.StatusOK, result)
}

func (r *UsersRouter) getHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := r.users.Get(ctx, userID)
	if err != nil {
		return err
	}

	history, err := r.users.History(ctx, userID)
	if err != nil {
		return err
	}
	if history == nil {
		history = []domain.NewsContent{}
	}

	return c.JSON(http.StatusOK, domain.UserWithHistory{User: *user, History: history})
}

func (r *UsersRouter) updateHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid user payload", err)
	}

	user, err := r.users.Update(c.Request().Context(), userID, domain.UserUpdate{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (r *UsersRouter) deleteHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := r.users.Delete(c.Request().Context(), userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.DeleteUserResponse{Ok: true})
}
