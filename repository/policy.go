package repository

import "github.com/cppla/mzportal/models"

// CanMutate reports whether the requester may edit or delete post.
// requester is the user freshly loaded by requesterUsername, nil if it does not exist.
func CanMutate(post models.Post, requesterUsername string, requester *models.User) bool {
	if requesterUsername != "" && post.Author.Username == requesterUsername {
		return true
	}
	return requester.IsAdmin()
}
