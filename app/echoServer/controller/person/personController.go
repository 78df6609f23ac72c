package person

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ps "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/person"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
)

type Controller struct {
	Svc ps.Service
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

// POST /v1/readers
func (h *Controller) RegisterReader(c echo.Context) error {
	var req RegisterReaderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rd, err := h.Svc.RegisterReader(c.Request().Context(), ps.ReaderFields{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Zone:    req.Zone,
		Status:  req.Status,
	})
	if err != nil {
		return h.respondErr(c, "reader register", err)
	}
	return c.JSON(http.StatusCreated, rd)
}

// GET /v1/readers
func (h *Controller) ListReaders(c echo.Context) error {
	readers, err := h.Svc.ListReaders(c.Request().Context())
	if err != nil {
		return h.respondErr(c, "reader list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": readers})
}

// GET /v1/readers/:id
func (h *Controller) ReaderDetail(c echo.Context) error {
	rd, err := h.Svc.ReaderByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "reader detail", err)
	}
	return c.JSON(http.StatusOK, rd)
}

// PUT /v1/readers/:id
func (h *Controller) UpdateReader(c echo.Context) error {
	var req RegisterReaderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	rd, err := h.Svc.UpdateReader(c.Request().Context(), c.Param("id"), ps.ReaderFields{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Zone:    req.Zone,
		Status:  req.Status,
	})
	if err != nil {
		return h.respondErr(c, "reader update", err)
	}
	return c.JSON(http.StatusOK, rd)
}

// DELETE /v1/readers/:id
func (h *Controller) DeleteReader(c echo.Context) error {
	if err := h.Svc.DeleteReader(c.Request().Context(), c.Param("id")); err != nil {
		return h.respondErr(c, "reader delete", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// POST /v1/librarians
func (h *Controller) RegisterLibrarian(c echo.Context) error {
	var req RegisterLibrarianReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	l, err := h.Svc.RegisterLibrarian(c.Request().Context(), ps.LibrarianFields{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.respondErr(c, "librarian register", err)
	}
	return c.JSON(http.StatusCreated, l)
}

// GET /v1/librarians
func (h *Controller) ListLibrarians(c echo.Context) error {
	librarians, err := h.Svc.ListLibrarians(c.Request().Context())
	if err != nil {
		return h.respondErr(c, "librarian list", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": librarians})
}

// GET /v1/librarians/:id
func (h *Controller) LibrarianDetail(c echo.Context) error {
	l, err := h.Svc.LibrarianByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "librarian detail", err)
	}
	return c.JSON(http.StatusOK, l)
}
