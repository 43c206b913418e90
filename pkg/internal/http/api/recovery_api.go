package api

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

// The recovery endpoints are the one path that works without a session.

func (v *API) requestRecovery(c *fiber.Ctx) error {
	var data struct {
		Name string `json:"name" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.srv.Recovery.RequestReset(c.UserContext(), data.Name); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) completeRecovery(c *fiber.Ctx) error {
	var data struct {
		Code            string `json:"code" validate:"required"`
		Name            string `json:"name" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.srv.Recovery.CompleteReset(
		c.UserContext(),
		data.Code, data.Name,
		data.NewPassword, data.ConfirmPassword,
	); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
