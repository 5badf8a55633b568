package handlers

import (
	"github.com/vladimiradmaev/nutrition-helper/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService interfaces.UserServiceInterface
	Assistant   interfaces.AssistantServiceInterface
	Logs        interfaces.LogServiceInterface
	Profiles    interfaces.ProfileServiceInterface
}
