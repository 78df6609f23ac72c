package material

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ms "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/material"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
)

type Controller struct {
	Svc ms.Service
	V   *validator.Validate
	Log *slog.Logger
}

func (h *Controller) respondErr(c echo.Context, op string, err error) error {
	switch apperr.Code(err) {
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.KindDuplicate:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	case apperr.KindInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// POST /v1/books
func (h *Controller) RegisterBook(c echo.Context) error {
	var req RegisterBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	b, err := h.Svc.RegisterBook(c.Request().Context(), ms.BookFields{Title: req.Title, Pages: req.Pages})
	if err != nil {
		return h.respondErr(c, "book register", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// GET /v1/books
func (h *Controller) ListBooks(c echo.Context) error {
	books, err := h.Svc.ListBooks(c.Request().Context())
	if err != nil {
		return h.respondErr(c, "book list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": books})
}

// GET /v1/books/range?min=&max=
func (h *Controller) BooksByPages(c echo.Context) error {
	min, err := strconv.Atoi(c.QueryParam("min"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "min must be an integer"})
	}
	max, err := strconv.Atoi(c.QueryParam("max"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "max must be an integer"})
	}
	books, err := h.Svc.BooksByPages(c.Request().Context(), min, max)
	if err != nil {
		return h.respondErr(c, "book range", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": books})
}

// GET /v1/books/search?title=
func (h *Controller) BookByTitle(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "title is required"})
	}
	b, err := h.Svc.BookByTitle(c.Request().Context(), title)
	if err != nil {
		return h.respondErr(c, "book search", err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /v1/books/:id
func (h *Controller) BookDetail(c echo.Context) error {
	b, err := h.Svc.BookByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "book detail", err)
	}
	return c.JSON(http.StatusOK, b)
}

// PUT /v1/books/:id
func (h *Controller) UpdateBook(c echo.Context) error {
	var req RegisterBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	b, err := h.Svc.UpdateBook(c.Request().Context(), c.Param("id"), ms.BookFields{Title: req.Title, Pages: req.Pages})
	if err != nil {
		return h.respondErr(c, "book update", err)
	}
	return c.JSON(http.StatusOK, b)
}

// POST /v1/items
func (h *Controller) RegisterItem(c echo.Context) error {
	var req RegisterItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	it, err := h.Svc.RegisterItem(c.Request().Context(), ms.ItemFields{
		Description: req.Description,
		WeightKg:    req.WeightKg,
		Dimensions:  req.Dimensions,
	})
	if err != nil {
		return h.respondErr(c, "item register", err)
	}
	return c.JSON(http.StatusCreated, it)
}

// GET /v1/items
func (h *Controller) ListItems(c echo.Context) error {
	items, err := h.Svc.ListItems(c.Request().Context())
	if err != nil {
		return h.respondErr(c, "item list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GET /v1/items/range?min=&max=
func (h *Controller) ItemsByWeight(c echo.Context) error {
	min, err := strconv.ParseFloat(c.QueryParam("min"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "min must be a number"})
	}
	max, err := strconv.ParseFloat(c.QueryParam("max"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "max must be a number"})
	}
	items, err := h.Svc.ItemsByWeight(c.Request().Context(), min, max)
	if err != nil {
		return h.respondErr(c, "item range", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

// GET /v1/items/search?description=
func (h *Controller) ItemByDescription(c echo.Context) error {
	desc := c.QueryParam("description")
	if desc == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "description is required"})
	}
	it, err := h.Svc.ItemByDescription(c.Request().Context(), desc)
	if err != nil {
		return h.respondErr(c, "item search", err)
	}
	return c.JSON(http.StatusOK, it)
}

// GET /v1/items/:id
func (h *Controller) ItemDetail(c echo.Context) error {
	it, err := h.Svc.ItemByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "item detail", err)
	}
	return c.JSON(http.StatusOK, it)
}

// PUT /v1/items/:id
func (h *Controller) UpdateItem(c echo.Context) error {
	var req RegisterItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	it, err := h.Svc.UpdateItem(c.Request().Context(), c.Param("id"), ms.ItemFields{
		Description: req.Description,
		WeightKg:    req.WeightKg,
		Dimensions:  req.Dimensions,
	})
	if err != nil {
		return h.respondErr(c, "item update", err)
	}
	return c.JSON(http.StatusOK, it)
}
