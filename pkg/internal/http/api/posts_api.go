package api

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (v *API) createPost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	post, err := v.srv.Posts.Create(c.UserContext(), user, data.Content)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (v *API) getPost(c *fiber.Ctx) error {
	postId, _ := c.ParamsInt("postId")

	post, err := v.srv.Posts.Get(c.UserContext(), uint(postId))
	if err != nil {
		return err
	}

	return c.JSON(post)
}

// listPosts serves the public timeline, or the follow-scoped feed when the
// caller is authenticated and asks for it.
func (v *API) listPosts(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	if c.QueryBool("feed", false) {
		sessionId := c.Cookies(sessionCookieName())
		user, err := v.srv.Auth.Authenticate(c.UserContext(), sessionId)
		if err != nil {
			return err
		}

		following, err := v.srv.Relationships.FollowingIDs(c.UserContext(), user)
		if err != nil {
			return err
		}

		posts, err := v.srv.Posts.ListFeed(c.UserContext(), following, take, offset)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	}

	posts, err := v.srv.Posts.List(c.UserContext(), take, offset)
	if err != nil {
		return err
	}

	return c.JSON(posts)
}

func (v *API) likePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	postId, _ := c.ParamsInt("postId")

	if err := v.srv.Posts.Like(c.UserContext(), user, uint(postId)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) unlikePost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	postId, _ := c.ParamsInt("postId")

	if err := v.srv.Posts.Unlike(c.UserContext(), user, uint(postId)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *API) commentPost(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	postId, _ := c.ParamsInt("postId")

	var data struct {
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	comment, err := v.srv.Posts.Comment(c.UserContext(), user, uint(postId), data.Content)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
