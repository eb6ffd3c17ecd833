package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studioflow/internal/domain"
)

func TestApprovalVerdict_StatusFor(t *testing.T) {
	assert.Equal(t, domain.DeliveryApproved, domain.VerdictApproved.StatusFor())
	assert.Equal(t, domain.DeliveryRejected, domain.VerdictRejected.StatusFor())
	assert.Equal(t, domain.DeliveryRevisionRequested, domain.VerdictRevision.StatusFor())
}
