package repository

import "github.com/tu-usuario/comercio-pro/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// GetByUsernameOrEmail sirve para la verificación de duplicados en el registro.
	GetByUsernameOrEmail(username, email string) (*entity.User, error)
}
