package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /todos safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// TodoHandler handles HTTP requests for to-do items. Every route behind it
// must be wrapped by middleware.Auth.
type TodoHandler struct {
	service ports.TodoService
}

func NewTodoHandler(service ports.TodoService) *TodoHandler {
	return &TodoHandler{service: service}
}

// List handles GET /todos.
//
// @Summary      List the caller's to-do items
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   todoResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoListResponse(items))
}

// Get handles GET /todos/:id.
//
// @Summary      Get one of the caller's to-do items
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  todoResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.service.Get(c.Request().Context(), owner, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(item))
}

// Create handles POST /todos.
//
// @Summary      Create a to-do item
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createTodoRequest  true   "Item fields"
// @Success      201              {object}  todoResponse
// @Success      200              {object}  todoResponse  "Idempotent replay"
// @Failure      400              {object}  ErrorResponse
// @Failure      401              {object}  ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := c.Request().Header.Get(HeaderIdempotencyKey)
	item, replayed, err := h.service.Create(c.Request().Context(), owner, toCreateInput(req, key))
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/todos/%d", item.ID))
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	return c.JSON(status, toTodoResponse(item))
}

// Update handles PUT /todos/:id.
//
// @Summary      Partially update a to-do item
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Item id"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ID != nil && *req.ID != id {
		return domain.NewValidationError("body id does not match path id")
	}

	item, err := h.service.Update(c.Request().Context(), owner, id, toPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(item))
}

// ToggleCompletion handles PUT /todos/toggle-completion/:id.
//
// @Summary      Flip the completion flag of a to-do item
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      200  {object}  toggleResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /todos/toggle-completion/{id} [put]
func (h *TodoHandler) ToggleCompletion(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.service.ToggleCompletion(c.Request().Context(), owner, id)
	if err != nil {
		return err
	}

	msg := "todo marked as incomplete"
	if item.IsCompleted {
		msg = "todo marked as completed"
	}
	return c.JSON(http.StatusOK, toggleResponse{IsCompleted: item.IsCompleted, Message: msg})
}

// Delete handles DELETE /todos/:id.
//
// @Summary      Delete a to-do item
// @Tags         todos
// @Security     BearerAuth
// @Param        id   path      int  true  "Item id"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	owner, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), owner, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
