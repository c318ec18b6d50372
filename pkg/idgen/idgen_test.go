package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDRoundTrip(t *testing.T) {
	require.NoError(t, InitSqidsEncoder())

	tests := []struct {
		name       string
		dbID       uint
		entityType uint64
	}{
		{name: "媒体实体", dbID: 1, entityType: EntityTypeMedia},
		{name: "文章实体", dbID: 42, entityType: EntityTypePost},
		{name: "项目实体", dbID: 100000, entityType: EntityTypeProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publicID, err := GeneratePublicID(tt.dbID, tt.entityType)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(publicID), 4)

			dbID, entityType, err := DecodePublicID(publicID)
			require.NoError(t, err)
			assert.Equal(t, tt.dbID, dbID)
			assert.Equal(t, tt.entityType, entityType)
		})
	}
}

func TestDecodePublicID_Garbage(t *testing.T) {
	require.NoError(t, InitSqidsEncoder())

	_, _, err := DecodePublicID("!")
	assert.Error(t, err)
}

func TestEntityTypeForContent(t *testing.T) {
	et, err := EntityTypeForContent("post")
	require.NoError(t, err)
	assert.Equal(t, EntityTypePost, et)

	et, err = EntityTypeForContent("project")
	require.NoError(t, err)
	assert.Equal(t, EntityTypeProject, et)

	_, err = EntityTypeForContent("page")
	assert.Error(t, err)
}
