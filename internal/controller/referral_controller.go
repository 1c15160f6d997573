// FILE: internal/controller/referral_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/pkg/serverutils"
	"github.com/emiflair/wazhop/internal/service"
)

type IReferralController interface {
	RegisterRoutes(r fiber.Router)
	GetSnapshot(ctx *fiber.Ctx) error
	RequestPayout(ctx *fiber.Ctx) error
}

type referralController struct {
	service service.IReferralService
}

func NewReferralController(svc service.IReferralService) IReferralController {
	return &referralController{service: svc}
}

func (c *referralController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/referral")
	h.Get("/snapshot", serverutils.JwtMiddleware, c.GetSnapshot)
	h.Post("/payout", serverutils.JwtMiddleware, c.RequestPayout)
}

func (c *referralController) GetSnapshot(ctx *fiber.Ctx) error {
	referrerId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSnapshot(ctx.Context(), referrerId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Referral snapshot", res))
}

func (c *referralController) RequestPayout(ctx *fiber.Ctx) error {
	var req dto.PayoutRequestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	referrerId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.RequestPayout(ctx.Context(), referrerId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payout requested", res))
}
