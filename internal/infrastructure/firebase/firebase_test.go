package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodega-api/internal/domain"
)

var errUserNotFound = errors.New("user not found")

type fakeAuth struct {
	tokens  map[string]*auth.Token
	deleted []string
	users   map[string]bool
	fail    error
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if t, ok := f.tokens[idToken]; ok {
		return t, nil
	}
	return nil, errors.New("token inválido")
}

func (f *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	if f.fail != nil {
		return f.fail
	}
	if !f.users[uid] {
		return errUserNotFound
	}
	delete(f.users, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

func isFakeNotFound(err error) bool { return errors.Is(err, errUserNotFound) }

func TestVerify_DevuelveUidYEmail(t *testing.T) {
	fa := &fakeAuth{tokens: map[string]*auth.Token{
		"ok": {UID: "uid-1", Claims: map[string]interface{}{"email": "ana@bodega.test"}},
	}}
	c := newClient(fa, isFakeNotFound)

	id, err := c.Verify(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.UserID)
	assert.Equal(t, "ana@bodega.test", id.Email)

	_, err = c.Verify(context.Background(), "malo")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = c.Verify(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDeleteCredential_NoEncontradoEsExito(t *testing.T) {
	fa := &fakeAuth{users: map[string]bool{"uid-1": true}}
	c := newClient(fa, isFakeNotFound)

	require.NoError(t, c.DeleteCredential(context.Background(), "uid-1"))
	require.NoError(t, c.DeleteCredential(context.Background(), "uid-1"), "el segundo borrado es idempotente")
	assert.Equal(t, []string{"uid-1"}, fa.deleted)

	fa.fail = errors.New("quota exceeded")
	assert.Error(t, c.DeleteCredential(context.Background(), "uid-2"))
}
