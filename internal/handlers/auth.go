package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/services"
)

// AuthHandler handles user and PI login
type AuthHandler struct {
	DB     *gorm.DB
	Tokens *services.TokenIssuer
}

// Login handles POST /login
// @Summary Log in a lab member
// @Description Verify a user's credentials and return a bearer token with the user's PIs and their rooms
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body services.Credentials true "Email and password"
// @Success 200 {object} services.UserLogin
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds services.Credentials
	if err := bindJSON(c, &creds); err != nil {
		return err
	}

	result, err := services.LoginUser(c.UserContext(), h.DB, h.Tokens, creds)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// PILogin handles POST /pi-login
// @Summary Log in a principal investigator
// @Description Verify a PI's credentials and return a bearer token with the PI's rooms
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body services.Credentials true "Email and password"
// @Success 200 {object} services.PILogin
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /pi-login [post]
func (h *AuthHandler) PILogin(c *fiber.Ctx) error {
	var creds services.Credentials
	if err := bindJSON(c, &creds); err != nil {
		return err
	}

	result, err := services.LoginPI(c.UserContext(), h.DB, h.Tokens, creds)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
