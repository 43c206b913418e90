package api

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (v *API) createAccount(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required,min=3,max=32,alphanum"`
		Nick     string `json:"nick" validate:"max=64"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := v.srv.Accounts.Create(c.UserContext(), data.Name, data.Nick, data.Password)
	if err != nil {
		return err
	}

	// Registration starts a session right away, same as login.
	sessionId, err := v.srv.Sessions.Start(c.UserContext(), account.Token)
	if err != nil {
		return err
	}
	setSessionCookie(c, sessionId)

	return c.Status(fiber.StatusCreated).JSON(account)
}

func (v *API) getMe(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	return c.JSON(user)
}

func (v *API) getAccount(c *fiber.Ctx) error {
	account, err := v.srv.Accounts.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(account)
}

func (v *API) updateProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Nick          *string `json:"nick" validate:"omitempty,max=64"`
		Avatar        *string `json:"avatar"`
		Description   *string `json:"description" validate:"omitempty,max=512"`
		RecoveryEmail *string `json:"recovery_email" validate:"omitempty,email"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := v.srv.Accounts.UpdateProfile(c.UserContext(), user, services.ProfileUpdate{
		Nick:          data.Nick,
		Avatar:        data.Avatar,
		Description:   data.Description,
		RecoveryEmail: data.RecoveryEmail,
	})
	if err != nil {
		return err
	}

	return c.JSON(account)
}

func (v *API) deleteAccount(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	if err := v.srv.Accounts.Delete(c.UserContext(), user); err != nil {
		return err
	}

	// The account is gone; drop the client's session marker too.
	if sessionId := c.Cookies(sessionCookieName()); len(sessionId) > 0 {
		_ = v.srv.Sessions.End(c.UserContext(), sessionId)
	}
	clearSessionCookie(c)

	return c.SendStatus(fiber.StatusNoContent)
}
