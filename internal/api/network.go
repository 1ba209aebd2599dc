package api

import (
	"github.com/gin-gonic/gin"

	"github.com/alme-learn/alme/internal/feed"
)

func (s *Server) listPosts(c *gin.Context) {
	posts, err := s.deps.Feed.Posts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, posts)
}

func (s *Server) createPost(c *gin.Context) {
	var in feed.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err)
		return
	}
	u := currentUser(c)
	in.Author = u.Name
	if in.Role == "" {
		in.Role = u.SkillLevel
	}
	if in.Avatar == "" {
		in.Avatar = u.Avatar
	}

	p, err := s.deps.Feed.CreatePost(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, p)
}

func (s *Server) listCircles(c *gin.Context) {
	circles, err := s.deps.Feed.Circles(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, circles)
}

func (s *Server) joinCircle(c *gin.Context) {
	userID := c.Param("id")
	if !s.selfOrAdmin(c, userID) {
		return
	}
	var req struct {
		CircleName string `json:"circleName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	joined, err := s.deps.Feed.JoinCircle(c.Request.Context(), userID, req.CircleName)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true, "joinedCircles": joined})
}
