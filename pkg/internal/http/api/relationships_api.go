package api

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (v *API) followAccount(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	target, err := v.srv.Accounts.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	if err := v.srv.Relationships.Follow(c.UserContext(), user, target); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) unfollowAccount(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	target, err := v.srv.Accounts.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	if err := v.srv.Relationships.Unfollow(c.UserContext(), user, target); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) listFollowers(c *fiber.Ctx) error {
	target, err := v.srv.Accounts.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	accounts, err := v.srv.Relationships.ListFollowers(c.UserContext(), target)
	if err != nil {
		return err
	}

	return c.JSON(accounts)
}

func (v *API) listFollowing(c *fiber.Ctx) error {
	target, err := v.srv.Accounts.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}

	accounts, err := v.srv.Relationships.ListFollowing(c.UserContext(), target)
	if err != nil {
		return err
	}

	return c.JSON(accounts)
}
