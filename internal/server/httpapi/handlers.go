package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// register creates the account and signs the new user in straight away.
func (s *Server) register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()

	user, err := s.users.Register(ctx, in)
	if err != nil {
		return err
	}

	token, err := s.tokens.Issue(ctx, user.ID, common.DefaultTokenName)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: newUserResponse(user)})
}

func (s *Server) login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	ctx := c.UserContext()

	user, err := s.users.Authenticate(ctx, in)
	if err != nil {
		return err
	}

	token, err := s.tokens.Login(ctx, user.ID, common.DefaultTokenName)
	if err != nil {
		return err
	}

	return c.JSON(authResponse{Token: token, User: newUserResponse(user)})
}

func (s *Server) logout(c *fiber.Ctx) error {
	sess := currentSession(c)
	if err := s.tokens.RevokeByID(c.UserContext(), sess.Token.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) logoutAll(c *fiber.Ctx) error {
	sess := currentSession(c)
	if err := s.tokens.RevokeAllForUser(c.UserContext(), sess.User.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) currentUser(c *fiber.Ctx) error {
	return c.JSON(newUserResponse(currentSession(c).User))
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var in services.ProfileInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	sess := currentSession(c)

	user, err := s.users.UpdateProfile(c.UserContext(), sess.User, sess.Token.ID, in)
	if err != nil {
		return err
	}

	return c.JSON(profileResponse{Message: "Profile updated successfully.", User: newUserResponse(user)})
}

func (s *Server) listTasks(c *fiber.Ctx) error {
	in := services.TaskFilterInput{
		Search:    c.Query("search"),
		Completed: c.Query("completed"),
		Priority:  c.Query("priority"),
	}

	tasks, err := s.tasks.List(c.UserContext(), currentSession(c).User.ID, in)
	if err != nil {
		return err
	}

	return c.JSON(newTaskList(tasks))
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var in services.TaskInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	task, err := s.tasks.Create(c.UserContext(), currentSession(c).User.ID, in)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newTaskResponse(task))
}

func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := s.tasks.Get(c.UserContext(), currentSession(c).User.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(newTaskResponse(task))
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var in services.TaskInput
	if err := decodeBody(c, &in); err != nil {
		// a missing or foreign task outranks a bad body
		if _, lookupErr := s.tasks.Get(c.UserContext(), currentSession(c).User.ID, id); lookupErr != nil {
			return lookupErr
		}
		return err
	}

	task, err := s.tasks.Update(c.UserContext(), currentSession(c).User.ID, id, in)
	if err != nil {
		return err
	}

	return c.JSON(newTaskResponse(task))
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(c.UserContext(), currentSession(c).User.ID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// taskID reads the :id parameter. Anything that is not a positive integer
// cannot name a task, so it is a 404.
func taskID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, common.ErrorNotFound
	}
	return int64(id), nil
}
