package inbound

import (
	"context"

	"github.com/tabineta/authd/internal/account/usecase"
	"github.com/tabineta/authd/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)

	TwoFASetup(ctx context.Context) (*usecase.TwoFASetupOutput, error)
	TwoFAEnable(ctx context.Context, in usecase.TwoFAEnableInput) (*usecase.TwoFAEnableOutput, error)
	TwoFADisable(ctx context.Context, in usecase.TwoFADisableInput) (*usecase.TwoFADisableOutput, error)
	TwoFAVerify(ctx context.Context, in usecase.TwoFAVerifyInput) (*usecase.TwoFAVerifyOutput, error)
	TwoFAStatus(ctx context.Context) (*usecase.TwoFAStatusOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Authentication
	r.POST("/api/v1/auth/login", end.Login)
	r.POST("/api/v1/auth/2fa/verify", end.TwoFAVerify)

	// Two-factor management (need authenticated)
	r.POST("/api/v1/auth/2fa/setup", end.TwoFASetup)
	r.POST("/api/v1/auth/2fa/enable", end.TwoFAEnable)
	r.POST("/api/v1/auth/2fa/disable", end.TwoFADisable)
	r.GET("/api/v1/auth/2fa/status", end.TwoFAStatus)
}
