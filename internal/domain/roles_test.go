package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studioflow/internal/domain"
)

func TestGlobalRole_AtLeast(t *testing.T) {
	assert.True(t, domain.RoleAdmin.AtLeast(domain.RoleManager))
	assert.True(t, domain.RoleManager.AtLeast(domain.RoleManager))
	assert.False(t, domain.RoleEditor.AtLeast(domain.RoleManager))
	assert.False(t, domain.RoleClient.AtLeast(domain.RoleFreelancer))

	// An unknown role ranks below every real tier.
	assert.False(t, domain.GlobalRole("superuser").AtLeast(domain.RoleClient))
}

func TestProjectRole_AtLeast(t *testing.T) {
	assert.True(t, domain.ProjectRoleManager.AtLeast(domain.ProjectRoleEditor))
	assert.True(t, domain.ProjectRoleEditor.AtLeast(domain.ProjectRoleEditor))
	assert.False(t, domain.ProjectRoleFreelancer.AtLeast(domain.ProjectRoleEditor))
}

func TestGlobalRole_IsValid(t *testing.T) {
	assert.True(t, domain.RoleFreelancer.IsValid())
	assert.False(t, domain.GlobalRole("owner").IsValid())
}
