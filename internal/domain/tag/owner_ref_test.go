package tag

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOwnerRefValidate(t *testing.T) {
	id := uuid.New()

	assert.NoError(t, ContactOwner(id).Validate())
	assert.NoError(t, NoteOwner(id).Validate())
	assert.NoError(t, StatementOwner(id).Validate())

	assert.Error(t, OwnerRef{Kind: "PRODUCT", ID: id}.Validate())
	assert.Error(t, OwnerRef{Kind: OwnerKindContact, ID: uuid.Nil}.Validate())
	assert.Error(t, OwnerRef{}.Validate())
}

func TestOwnerRefEquals(t *testing.T) {
	id := uuid.New()

	assert.True(t, ContactOwner(id).Equals(ContactOwner(id)))
	assert.False(t, ContactOwner(id).Equals(NoteOwner(id)))
	assert.False(t, ContactOwner(id).Equals(ContactOwner(uuid.New())))
}
