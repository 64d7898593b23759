package ports

import "context"

// Identity datos mínimos que el núcleo consume del proveedor de identidad.
type Identity struct {
	UserID string
	Email  string
}

// TokenVerifier valida un token del proveedor de identidad y devuelve la identidad.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// CredentialDeleter borra la credencial de un usuario en el proveedor de identidad.
// Un usuario inexistente en el proveedor no es error.
type CredentialDeleter interface {
	DeleteCredential(ctx context.Context, userID string) error
}
