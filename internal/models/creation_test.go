package models_test

import (
	"testing"

	"creation-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestToggleLike(t *testing.T) {
	t.Run("Adds like for new user", func(t *testing.T) {
		likes := []string{"user_a", "user_b"}

		newLikes, liked := models.ToggleLike(likes, "user_c")

		assert.True(t, liked)
		assert.Equal(t, []string{"user_a", "user_b", "user_c"}, newLikes)
	})

	t.Run("Removes existing like", func(t *testing.T) {
		likes := []string{"user_a", "user_b", "user_c"}

		newLikes, liked := models.ToggleLike(likes, "user_b")

		assert.False(t, liked)
		assert.Equal(t, []string{"user_a", "user_c"}, newLikes)
	})

	t.Run("Adds like to empty set", func(t *testing.T) {
		newLikes, liked := models.ToggleLike(nil, "user_a")

		assert.True(t, liked)
		assert.Equal(t, []string{"user_a"}, newLikes)
	})

	t.Run("Double toggle returns original set", func(t *testing.T) {
		likes := []string{"user_a", "user_b"}

		afterFirst, liked := models.ToggleLike(likes, "user_c")
		assert.True(t, liked)

		afterSecond, liked := models.ToggleLike(afterFirst, "user_c")
		assert.False(t, liked)
		assert.Equal(t, likes, afterSecond)
	})

	t.Run("Does not mutate input slice", func(t *testing.T) {
		likes := []string{"user_a", "user_b"}

		_, _ = models.ToggleLike(likes, "user_a")
		_, _ = models.ToggleLike(likes, "user_c")

		assert.Equal(t, []string{"user_a", "user_b"}, likes)
	})
}

func TestNewCreationViews(t *testing.T) {
	creations := []models.Creation{
		{Likes: []string{"user_a", "user_b"}},
		{Likes: []string{"user_b"}},
		{},
	}

	views := models.NewCreationViews(creations, "user_a")

	assert.Len(t, views, 3)
	assert.True(t, views[0].Liked)
	assert.Equal(t, 2, views[0].LikesCount)
	assert.False(t, views[1].Liked)
	assert.Equal(t, 1, views[1].LikesCount)
	assert.False(t, views[2].Liked)
	assert.Equal(t, 0, views[2].LikesCount)

	assert.Empty(t, models.NewCreationViews(nil, "user_a"))
}

func TestLikedBy(t *testing.T) {
	creation := models.Creation{Likes: []string{"user_a", "user_b"}}

	assert.True(t, creation.LikedBy("user_a"))
	assert.False(t, creation.LikedBy("user_c"))

	empty := models.Creation{}
	assert.False(t, empty.LikedBy("user_a"))
}
