package api

import (
	"github.com/gin-gonic/gin"

	"github.com/alme-learn/alme/internal/account"
	"github.com/alme-learn/alme/internal/quiz"
	"github.com/alme-learn/alme/internal/recommend"
	"github.com/alme-learn/alme/internal/skillgraph"
	"github.com/alme-learn/alme/internal/store"
)

// register is public, so every account it creates is a student.
func (s *Server) register(c *gin.Context) {
	var in account.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, err)
		return
	}
	in.Role = store.RoleStudent
	sess, err := s.deps.Accounts.Register(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, sess)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	sess, err := s.deps.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, sess)
}

func (s *Server) me(c *gin.Context) {
	respondOK(c, currentUser(c))
}

type dashboardResponse struct {
	User          *store.User `json:"user"`
	JoinedCircles []string    `json:"joinedCircles"`
	recommend.Snapshot
	Progress         []recommend.SkillProgress `json:"progress"`
	Attempts         []recommend.AttemptView   `json:"attempts"`
	ProgressOverTime []recommend.Point         `json:"progressOverTime"`
}

// dashboard back-fills records for skills added since the student's last
// visit before computing the snapshot.
func (s *Server) dashboard(c *gin.Context) {
	userID := c.Param("userId")
	if !s.selfOrAdmin(c, userID) {
		return
	}
	ctx := c.Request.Context()

	u, err := s.deps.Accounts.User(ctx, userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if u.Role == store.RoleStudent {
		if _, err := s.deps.Progress.InitializeForUser(ctx, userID, nil); err != nil {
			s.respondError(c, err)
			return
		}
	}
	d, err := s.deps.Dashboards.Dashboard(ctx, userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, dashboardResponse{
		User:             u,
		JoinedCircles:    u.JoinedCircles,
		Snapshot:         d.Snapshot,
		Progress:         d.Progress,
		Attempts:         d.Attempts,
		ProgressOverTime: d.ProgressOverTime,
	})
}

func (s *Server) listSkills(c *gin.Context) {
	respondOK(c, s.deps.Curriculum.Skills())
}

func (s *Server) listQuizzes(c *gin.Context) {
	qs, err := s.deps.Store.ListQuizzes(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if qs == nil {
		qs = []quiz.Quiz{}
	}
	respondOK(c, qs)
}

type submitRequest struct {
	UserID    string   `json:"userId"`
	QuizID    string   `json:"quizId"`
	Answers   []int    `json:"answers"`
	Score     *float64 `json:"score"`
	Correct   int      `json:"correct"`
	Total     int      `json:"total"`
	TimeSpent int      `json:"timeSpent"`
}

// submitQuiz back-fills the student's records first so a quiz on a skill added
// after registration can be taken.
func (s *Server) submitQuiz(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.UserID == "" {
		req.UserID = currentUser(c).ID
	}
	if !s.selfOrAdmin(c, req.UserID) {
		return
	}
	ctx := c.Request.Context()

	u, err := s.deps.Accounts.User(ctx, req.UserID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if u.Role == store.RoleStudent {
		if _, err := s.deps.Progress.InitializeForUser(ctx, u.ID, nil); err != nil {
			s.respondError(c, err)
			return
		}
	}

	out, err := s.deps.Quizzes.Submit(ctx, quiz.Submission{
		UserID:    req.UserID,
		QuizID:    req.QuizID,
		Answers:   req.Answers,
		Score:     req.Score,
		Correct:   req.Correct,
		Total:     req.Total,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"success":  true,
		"feedback": out.Attempt.Feedback,
		"attempt":  out.Attempt,
		"progress": out.Progress,
	})
}

func (s *Server) completeSkill(c *gin.Context) {
	u := currentUser(c)
	rec, err := s.deps.Progress.MarkComplete(c.Request.Context(), u.ID, skillgraph.ID(c.Param("skillId")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, rec)
}

func (s *Server) listBooks(c *gin.Context) {
	books, err := s.deps.Library.Books(c.Request.Context(), c.Query("category"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, books)
}

func (s *Server) getBook(c *gin.Context) {
	b, err := s.deps.Library.Book(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, b)
}

func (s *Server) search(c *gin.Context) {
	hits, err := s.deps.Store.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, hits)
}

