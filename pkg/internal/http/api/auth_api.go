package api

import (
	"time"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

func sessionCookieName() string {
	return viper.GetString("security.cookie_name")
}

func setSessionCookie(c *fiber.Ctx, sessionId string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName(),
		Value:    sessionId,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(services.SessionLifetime),
	})
}

func clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName(),
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// authenticated is the gate in front of every session-bound operation: no
// valid session, no handler.
func (v *API) authenticated(c *fiber.Ctx) error {
	sessionId := c.Cookies(sessionCookieName())
	if len(sessionId) == 0 {
		return errs.ErrUnauthenticated
	}

	account, err := v.srv.Auth.Authenticate(c.UserContext(), sessionId)
	if err != nil {
		return errs.ErrUnauthenticated
	}

	c.Locals("user", account)
	return c.Next()
}

func (v *API) login(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, sessionId, err := v.srv.Auth.Login(c.UserContext(), data.Name, data.Password)
	if err != nil {
		return err
	}

	setSessionCookie(c, sessionId)
	return c.JSON(account)
}

// logout ends the session and clears the cookie as one logical operation.
// A failing session store is an operation failure, not a silent success.
func (v *API) logout(c *fiber.Ctx) error {
	sessionId := c.Cookies(sessionCookieName())
	if len(sessionId) > 0 {
		if err := v.srv.Auth.Logout(c.UserContext(), sessionId); err != nil {
			return err
		}
	}

	clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) changePassword(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		OldPassword     string `json:"old_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.srv.Accounts.ChangePassword(
		c.UserContext(), user,
		data.OldPassword, data.NewPassword, data.ConfirmPassword,
	); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
