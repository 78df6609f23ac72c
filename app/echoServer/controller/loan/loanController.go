package loan

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/jwtx"
	ls "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/loan"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
)

type Controller struct {
	Svc ls.Service
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

// POST /v1/loans
func (h *Controller) Create(c echo.Context) error {
	var req CreateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	if req.LibrarianID == "" {
		id, err := jwtx.LibrarianIDFromContext(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "librarian_id missing"})
		}
		req.LibrarianID = id
	}

	l, err := h.Svc.Create(c.Request().Context(), ls.CreateFields{
		ReaderID:    req.ReaderID,
		LibrarianID: req.LibrarianID,
		MaterialID:  req.MaterialID,
		RequestDate: req.RequestDate,
		Status:      req.State,
	})
	if err != nil {
		return h.respondErr(c, "loan create", err)
	}
	return c.JSON(http.StatusCreated, l)
}

// GET /v1/loans/:id
func (h *Controller) Detail(c echo.Context) error {
	rec, err := h.Svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "loan detail", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// PUT /v1/loans/:id/state
func (h *Controller) ChangeState(c echo.Context) error {
	var req ChangeStateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.ChangeState(c.Request().Context(), c.Param("id"), req.State); err != nil {
		return h.respondErr(c, "loan change state", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "state updated"})
}

// POST /v1/loans/:id/return
func (h *Controller) Return(c echo.Context) error {
	var req ReturnReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	if err := h.Svc.MarkReturned(c.Request().Context(), c.Param("id"), req.ReturnDate); err != nil {
		return h.respondErr(c, "loan return", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "returned"})
}

// PUT /v1/loans/:id — administrative overwrite
func (h *Controller) Modify(c echo.Context) error {
	var req ModifyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	l, err := h.Svc.Modify(c.Request().Context(), c.Param("id"), ls.ModifyFields{
		ReaderID:    req.ReaderID,
		LibrarianID: req.LibrarianID,
		MaterialID:  req.MaterialID,
		RequestDate: req.RequestDate,
		ReturnDate:  req.ReturnDate,
		Status:      req.State,
	})
	if err != nil {
		return h.respondErr(c, "loan modify", err)
	}
	return c.JSON(http.StatusOK, l)
}
