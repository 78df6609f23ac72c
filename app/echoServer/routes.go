package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/auth"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/loan"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/material"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/person"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/report"
)

type C struct {
	Auth      *auth.Controller
	Material  *material.Controller
	Loan      *loan.Controller
	Report    *report.Controller
	Person    *person.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/login", c.Auth.Login)

	// Librarian
	api := e.Group("/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// librarian_id extraction from the verified token
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			reqID := ctx.Response().Header().Get(echo.HeaderXRequestID)

			tokenObj := ctx.Get("user")
			if tokenObj == nil {
				ctx.Logger().Warnf("[AUTH] tokenObj nil req_id=%s", reqID)
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			token, ok := tokenObj.(*jwt.Token)
			if !ok {
				ctx.Logger().Warnf("[AUTH] failed to cast token req_id=%s", reqID)
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.Logger().Warnf("[AUTH] failed to cast claims req_id=%s", reqID)
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				ctx.Logger().Warnf("[AUTH] missing sub claim req_id=%s claims=%v", reqID, claims)
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}

			ctx.Set("librarian_id", sub)
			return next(ctx)
		}
	})

	// Materials
	api.POST("/books", c.Material.RegisterBook)
	api.GET("/books", c.Material.ListBooks)
	api.GET("/books/range", c.Material.BooksByPages)
	api.GET("/books/search", c.Material.BookByTitle)
	api.GET("/books/:id", c.Material.BookDetail)
	api.PUT("/books/:id", c.Material.UpdateBook)

	api.POST("/items", c.Material.RegisterItem)
	api.GET("/items", c.Material.ListItems)
	api.GET("/items/range", c.Material.ItemsByWeight)
	api.GET("/items/search", c.Material.ItemByDescription)
	api.GET("/items/:id", c.Material.ItemDetail)
	api.PUT("/items/:id", c.Material.UpdateItem)

	// Loans
	api.POST("/loans", c.Loan.Create)
	api.GET("/loans/:id", c.Loan.Detail)
	api.PUT("/loans/:id", c.Loan.Modify)
	api.PUT("/loans/:id/state", c.Loan.ChangeState)
	api.POST("/loans/:id/return", c.Loan.Return)

	// Reports
	api.GET("/reports/loans", c.Report.FilterLoans)
	api.GET("/reports/loans/by-state/:state", c.Report.LoansByState)
	api.GET("/reports/zones", c.Report.StatisticsByZone)
	api.GET("/reports/pending-materials", c.Report.PendingMaterials)
	api.GET("/materials/:id/pending", c.Report.PendingForMaterial)
	api.GET("/readers/:id/loans", c.Report.LoansByReader)
	api.GET("/librarians/:id/loans", c.Report.LoansByLibrarian)
	api.GET("/materials/:id/loans", c.Report.LoansByMaterial)

	// Persons
	api.POST("/readers", c.Person.RegisterReader)
	api.GET("/readers", c.Person.ListReaders)
	api.GET("/readers/:id", c.Person.ReaderDetail)
	api.PUT("/readers/:id", c.Person.UpdateReader)
	api.DELETE("/readers/:id", c.Person.DeleteReader)

	api.POST("/librarians", c.Person.RegisterLibrarian)
	api.GET("/librarians", c.Person.ListLibrarians)
	api.GET("/librarians/:id", c.Person.LibrarianDetail)
}
