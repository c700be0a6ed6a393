// internal/models/comment_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCommentLikedBy(t *testing.T) {
	liker := uuid.New()
	other := uuid.New()

	comment := Comment{Likes: pq.StringArray{liker.String()}}

	assert.True(t, comment.LikedBy(liker))
	assert.False(t, comment.LikedBy(other))

	empty := Comment{}
	assert.False(t, empty.LikedBy(liker))
}
