// FILE: internal/controller/subscription_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/pkg/serverutils"
	"github.com/emiflair/wazhop/internal/service"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	Upgrade(ctx *fiber.Ctx) error
	Renew(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ToggleAutoRenew(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	EnforceFree(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	service     service.ISubscriptionService
	enforcement service.IEnforcementService
}

func NewSubscriptionController(svc service.ISubscriptionService, enforcement service.IEnforcementService) ISubscriptionController {
	return &subscriptionController{service: svc, enforcement: enforcement}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscription")

	// All routes act on the authenticated account.
	h.Post("/upgrade", serverutils.JwtMiddleware, c.Upgrade)
	h.Post("/renew", serverutils.JwtMiddleware, c.Renew)
	h.Post("/cancel", serverutils.JwtMiddleware, c.Cancel)
	h.Post("/auto-renew", serverutils.JwtMiddleware, c.ToggleAutoRenew)
	h.Get("/status", serverutils.JwtMiddleware, c.GetStatus)
	h.Post("/enforce-free", serverutils.JwtMiddleware, c.EnforceFree)
}

func (c *subscriptionController) Upgrade(ctx *fiber.Ctx) error {
	var req dto.UpgradeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	accountId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Upgrade(ctx.Context(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription upgraded", res))
}

func (c *subscriptionController) Renew(ctx *fiber.Ctx) error {
	accountId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Renew(ctx.Context(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription renewed", res))
}

func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	accountId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Cancel(ctx.Context(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", res))
}

func (c *subscriptionController) ToggleAutoRenew(ctx *fiber.Ctx) error {
	var req dto.AutoRenewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	accountId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ToggleAutoRenew(ctx.Context(), accountId, *req.Enabled)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Auto-renew updated", res))
}

func (c *subscriptionController) GetStatus(ctx *fiber.Ctx) error {
	accountId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetStatus(ctx.Context(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) EnforceFree(ctx *fiber.Ctx) error {
	var req dto.EnforceFreeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	accountId, err := serverutils.AccountIdFromCtx(ctx)
	if err != nil {
		return err
	}

	if req.Destructive {
		// Confirmed destructive downgrade: plan drops to free and over-limit
		// content is deleted for good.
		res, err := c.service.DowngradeToFree(ctx.Context(), accountId)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Plan enforced", res))
	}

	res, err := c.enforcement.EnforceFreePlan(ctx.Context(), accountId, false)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan enforced", res))
}
