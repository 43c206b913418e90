package api

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (v *API) createChat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Members []string `json:"members" validate:"required,min=1,dive,required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	chat, err := v.srv.Chats.Create(c.UserContext(), user, data.Members)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(chat)
}

func (v *API) listChats(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	chats, err := v.srv.Chats.ListForAccount(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(chats)
}

func (v *API) getChat(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, _ := c.ParamsInt("chatId")

	chat, err := v.srv.Chats.Get(c.UserContext(), uint(chatId), user)
	if err != nil {
		return err
	}

	return c.JSON(chat)
}

func (v *API) addChatMember(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, _ := c.ParamsInt("chatId")

	var data struct {
		Name string `json:"name" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if err := v.srv.Chats.AddMember(c.UserContext(), uint(chatId), user, data.Name); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) sendMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	chatId, _ := c.ParamsInt("chatId")

	var data struct {
		Content string `json:"content" validate:"required,max=4096"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := v.srv.Chats.SendMessage(c.UserContext(), uint(chatId), user, data.Content)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}
