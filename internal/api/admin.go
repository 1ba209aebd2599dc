package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/alme-learn/alme/internal/apperr"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

func (s *Server) adminStats(c *gin.Context) {
	st, err := s.deps.Store.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, st)
}

func (s *Server) adminLLMUsage(c *gin.Context) {
	ctx := c.Request.Context()
	byPurpose, err := s.deps.Store.LLMUsageByPurpose(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	byModel, err := s.deps.Store.LLMUsageByModel(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"byPurpose": byPurpose, "byModel": byModel})
}

// Users

func (s *Server) adminListUsers(c *gin.Context) {
	rows, err := s.deps.Accounts.Students(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, rows)
}

func (s *Server) adminSetUserStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	u, err := s.deps.Accounts.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, u)
}

func (s *Server) adminDeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == currentUser(c).ID {
		s.respondError(c, fmt.Errorf("%w: admins cannot delete their own account", apperr.ErrConflict))
		return
	}
	if err := s.deps.Accounts.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

// Quizzes

func (s *Server) bindQuiz(c *gin.Context) (quiz.Quiz, bool) {
	var q quiz.Quiz
	if err := c.ShouldBindJSON(&q); err != nil {
		respondBadRequest(c, err)
		return q, false
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		s.respondError(c, err)
		return q, false
	}
	if q.SkillID != "" {
		if _, err := s.deps.Curriculum.Skill(q.SkillID); err != nil {
			s.respondError(c, fmt.Errorf("%w: related skill %q does not exist", apperr.ErrInvalidInput, q.SkillID))
			return q, false
		}
	}
	return q, true
}

func (s *Server) adminCreateQuiz(c *gin.Context) {
	q, ok := s.bindQuiz(c)
	if !ok {
		return
	}
	q.ID = ""
	if err := s.deps.Store.CreateQuiz(c.Request.Context(), &q); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, q)
}

func (s *Server) adminUpdateQuiz(c *gin.Context) {
	q, ok := s.bindQuiz(c)
	if !ok {
		return
	}
	q.ID = c.Param("id")
	if err := s.deps.Store.UpdateQuiz(c.Request.Context(), q); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, q)
}

func (s *Server) adminDeleteQuiz(c *gin.Context) {
	if err := s.deps.Store.DeleteQuiz(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

// Skills go through the curriculum service so every edit is re-validated
// against the whole graph.

func (s *Server) adminCreateSkill(c *gin.Context) {
	var sk skillgraph.Skill
	if err := c.ShouldBindJSON(&sk); err != nil {
		respondBadRequest(c, err)
		return
	}
	out, err := s.deps.Curriculum.AddSkill(c.Request.Context(), sk)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, out)
}

func (s *Server) adminUpdateSkill(c *gin.Context) {
	var sk skillgraph.Skill
	if err := c.ShouldBindJSON(&sk); err != nil {
		respondBadRequest(c, err)
		return
	}
	sk.ID = skillgraph.ID(c.Param("id"))
	out, err := s.deps.Curriculum.UpdateSkill(c.Request.Context(), sk)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, out)
}

func (s *Server) adminDeleteSkill(c *gin.Context) {
	if err := s.deps.Curriculum.RemoveSkill(c.Request.Context(), skillgraph.ID(c.Param("id"))); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

// Books

func (s *Server) adminCreateBook(c *gin.Context) {
	var b store.Book
	if err := c.ShouldBindJSON(&b); err != nil {
		respondBadRequest(c, err)
		return
	}
	b.ID = ""
	out, err := s.deps.Library.Create(c.Request.Context(), b)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, out)
}

func (s *Server) adminUpdateBook(c *gin.Context) {
	var b store.Book
	if err := c.ShouldBindJSON(&b); err != nil {
		respondBadRequest(c, err)
		return
	}
	b.ID = c.Param("id")
	out, err := s.deps.Library.Update(c.Request.Context(), b)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, out)
}

func (s *Server) adminDeleteBook(c *gin.Context) {
	if err := s.deps.Library.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

// Posts and circles

func (s *Server) adminDeletePost(c *gin.Context) {
	if err := s.deps.Feed.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}

func (s *Server) adminCreateCircle(c *gin.Context) {
	var in store.Circle
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err)
		return
	}
	in.ID = ""
	out, err := s.deps.Feed.CreateCircle(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, out)
}

func (s *Server) adminUpdateCircle(c *gin.Context) {
	var in store.Circle
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err)
		return
	}
	in.ID = c.Param("id")
	out, err := s.deps.Feed.UpdateCircle(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, out)
}

func (s *Server) adminDeleteCircle(c *gin.Context) {
	if err := s.deps.Feed.DeleteCircle(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"success": true})
}
