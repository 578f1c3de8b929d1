package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		name string
		role Role
		cap  Capability
		want bool
	}{
		{"оператор вводит факт", RoleOperator, CapFillActual, true},
		{"оператор не создаёт бланки", RoleOperator, CapCreateBlank, false},
		{"оператор не видит аналитику", RoleOperator, CapViewAnalytics, false},
		{"мастер создаёт бланки", RoleMaster, CapCreateBlank, true},
		{"мастер видит мониторинг", RoleMaster, CapViewMonitoring, true},
		{"мастер не правит справочники", RoleMaster, CapManageReference, false},
		{"начальник видит аналитику", RoleChief, CapViewAnalytics, true},
		{"начальник не правит справочники", RoleChief, CapManageReference, false},
		{"администратор правит справочники", RoleAdmin, CapManageReference, true},
		{"неизвестная роль без прав", Role("supervisor"), CapFillActual, false},
		{"пустая роль без прав", Role(""), CapViewMonitoring, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.role, tc.cap))
		})
	}
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("master")
	assert.True(t, ok)
	assert.Equal(t, RoleMaster, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)

	_, ok = ParseRole("")
	assert.False(t, ok)
}
