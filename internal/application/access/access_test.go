package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Bodega-api/internal/application/access"
	"github.com/jhoicas/Bodega-api/internal/domain"
	"github.com/jhoicas/Bodega-api/internal/domain/entity"
)

func TestPermisosPorRol(t *testing.T) {
	cases := []struct {
		role                      entity.Role
		read, stockWrite, isAdmin bool
	}{
		{entity.RoleNone, false, false, false},
		{entity.RoleViewer, true, false, false},
		{entity.RoleManager, true, true, false},
		{entity.RoleAdmin, true, true, true},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			a := entity.Actor{ID: "u1", Role: tc.role}
			check := func(err error, allowed bool) {
				if allowed {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, domain.ErrPermissionDenied)
				}
			}
			check(access.RequireRead(a), tc.read)
			check(access.RequireStockWrite(a), tc.stockWrite)
			check(access.RequireAdmin(a), tc.isAdmin)
		})
	}
}

func TestRequireIdentity_SinID(t *testing.T) {
	assert.ErrorIs(t, access.RequireIdentity(entity.Actor{}), domain.ErrUnauthorized)
	assert.NoError(t, access.RequireIdentity(entity.Actor{ID: "u1"}))
}
