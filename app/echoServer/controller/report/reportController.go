package report

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	ps "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/pending"
	rs "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/report"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/apperr"
)

type Controller struct {
	Svc     rs.Service
	Pending ps.Service
	Log     *slog.Logger
}

func (h *Controller) respondErr(c echo.Context, op string, err error) error {
	switch apperr.Code(err) {
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.KindInvalid:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// GET /v1/reports/loans?zone=&state=&dateFrom=&dateTo=
func (h *Controller) FilterLoans(c echo.Context) error {
	rows, err := h.Svc.Filter(c.Request().Context(), rs.FilterCriteria{
		Zone:     c.QueryParam("zone"),
		State:    c.QueryParam("state"),
		DateFrom: c.QueryParam("dateFrom"),
		DateTo:   c.QueryParam("dateTo"),
	})
	if err != nil {
		return h.respondErr(c, "loan filter", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/reports/loans/by-state/:state
func (h *Controller) LoansByState(c echo.Context) error {
	rows, err := h.Svc.ListByState(c.Request().Context(), c.Param("state"))
	if err != nil {
		return h.respondErr(c, "loans by state", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/readers/:id/loans
func (h *Controller) LoansByReader(c echo.Context) error {
	rows, err := h.Svc.ListByReader(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "loans by reader", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/librarians/:id/loans
func (h *Controller) LoansByLibrarian(c echo.Context) error {
	rows, err := h.Svc.ListByLibrarian(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "loans by librarian", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/materials/:id/loans
func (h *Controller) LoansByMaterial(c echo.Context) error {
	rows, err := h.Svc.ListByMaterial(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondErr(c, "loans by material", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/reports/zones
func (h *Controller) StatisticsByZone(c echo.Context) error {
	stats, err := h.Svc.StatisticsByZone(c.Request().Context())
	if err != nil {
		return h.respondErr(c, "zone statistics", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stats})
}

// GET /v1/reports/pending-materials
func (h *Controller) PendingMaterials(c echo.Context) error {
	rows, err := h.Pending.MaterialsWithManyPendingLoans(c.Request().Context())
	if err != nil {
		return h.respondErr(c, "pending materials", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/materials/:id/pending
func (h *Controller) PendingForMaterial(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	count, err := h.Pending.CountPendingForMaterial(ctx, id)
	if err != nil {
		return h.respondErr(c, "pending count", err)
	}
	many, err := h.Pending.HasManyPendingLoans(ctx, id)
	if err != nil {
		return h.respondErr(c, "pending check", err)
	}
	loans, err := h.Pending.PendingLoansForMaterial(ctx, id)
	if err != nil {
		return h.respondErr(c, "pending loans", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"material_id":   id,
		"pending_count": count,
		"many_pending":  many,
		"loans":         loans,
	})
}
