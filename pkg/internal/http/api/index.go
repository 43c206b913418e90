package api

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type API struct {
	srv *services.Service
}

func MapAPIs(app *fiber.App, baseURL string, srv *services.Service) {
	v := &API{srv: srv}

	api := app.Group(baseURL)
	{
		auth := api.Group("/auth")
		{
			auth.Post("/login", v.login)
			auth.Post("/logout", v.logout)
			auth.Post("/recovery", v.requestRecovery)
			auth.Patch("/recovery", v.completeRecovery)
		}

		users := api.Group("/users")
		{
			users.Post("/", v.createAccount)
			users.Get("/me", v.authenticated, v.getMe)
			users.Put("/me", v.authenticated, v.updateProfile)
			users.Put("/me/password", v.authenticated, v.changePassword)
			users.Delete("/me", v.authenticated, v.deleteAccount)
			users.Get("/:name", v.getAccount)
			users.Post("/:name/follow", v.authenticated, v.followAccount)
			users.Delete("/:name/follow", v.authenticated, v.unfollowAccount)
			users.Get("/:name/followers", v.listFollowers)
			users.Get("/:name/following", v.listFollowing)
		}

		chats := api.Group("/chats", v.authenticated)
		{
			chats.Post("/", v.createChat)
			chats.Get("/", v.listChats)
			chats.Get("/:chatId", v.getChat)
			chats.Post("/:chatId/members", v.addChatMember)
			chats.Post("/:chatId/messages", v.sendMessage)
		}

		posts := api.Group("/posts")
		{
			posts.Get("/", v.listPosts)
			posts.Get("/:postId", v.getPost)
			posts.Post("/", v.authenticated, v.createPost)
			posts.Post("/:postId/like", v.authenticated, v.likePost)
			posts.Delete("/:postId/like", v.authenticated, v.unlikePost)
			posts.Post("/:postId/comments", v.authenticated, v.commentPost)
		}
	}
}
