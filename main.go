// Package main community library API.
//
// @title           Community Library API
// @version         1.0
// @description     Library service (materials, readers, librarians, loans, reports).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer"
	authctrl "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/auth"
	loanctrl "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/loan"
	matctrl "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/material"
	personctrl "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/person"
	reportctrl "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/controller/report"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/app/echoServer/validation"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/config"
	loanrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/loan"
	matrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/material"
	personrepo "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/repository/person"
	authsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/auth"
	loansvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/loan"
	matsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/material"
	pendingsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/pending"
	personsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/person"
	reportsvc "github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/report"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/service/sequence"
	"github.com/MaximilianoS027/BibliotecaComunitaria-sub000/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	mr := matrepo.New(db)
	pr := personrepo.New(db)
	lr := loanrepo.New(db)

	// identifier sequencer, floored on what is already persisted
	seq := sequence.New()
	seq.Register(sequence.KindReader, "L", pr.MaxReaderNumber)
	seq.Register(sequence.KindLibrarian, "B", pr.MaxLibrarianNumber)
	seq.Register(sequence.KindEmployee, "E", pr.MaxEmployeeNumber)
	seq.Register(sequence.KindLoan, "P", lr.MaxLoanNumber)
	seq.Register(sequence.KindBook, "LI", mr.MaxBookNumber)
	seq.Register(sequence.KindSpecialItem, "OB", mr.MaxItemNumber)

	guard := matsvc.NewGuard(mr, time.Duration(cfg.DuplicateWindow)*time.Hour)

	// services
	ms := matsvc.New(db, mr, seq, guard, log)
	ps := personsvc.New(db, pr, seq, log)
	ls := loansvc.New(db, lr, pr, pr, mr, seq, log)
	rs := reportsvc.New(lr)
	pds := pendingsvc.New(lr)
	as := authsvc.New(pr, cfg.JWTSecret)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	matC := &matctrl.Controller{Svc: ms, V: v, Log: log}
	loanC := &loanctrl.Controller{Svc: ls, V: v, Log: log}
	reportC := &reportctrl.Controller{Svc: rs, Pending: pds, Log: log}
	personC := &personctrl.Controller{Svc: ps, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Material: matC,
		Loan:     loanC,
		Report:   reportC,
		Person:   personC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
