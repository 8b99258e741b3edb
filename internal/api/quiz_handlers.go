package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soaringjerry/Persona/internal/models"
)

type scoreRequest struct {
	QuestionNo int                 `json:"question_no" binding:"required"`
	Answer     models.AnswerChoice `json:"answer" binding:"required"`
}

type classifyRequest struct {
	TraitLetters []models.TraitLetter `json:"trait_letters"`
}

// GET /api/questions
func (rt *Router) handleQuestions(c *gin.Context) {
	qs := rt.engine.Bank().Questions()
	c.JSON(http.StatusOK, gin.H{"count": len(qs), "questions": qs})
}

// GET /api/traits
func (rt *Router) handleTraits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"traits": rt.engine.Bank().Traits(), "dimensions": models.Dimensions})
}

// GET /api/types/:type
func (rt *Router) handleType(c *gin.Context) {
	t := models.PersonalityType(strings.ToUpper(c.Param("type")))
	rep, err := rt.engine.LookupReport(t)
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// POST /api/score {question_no, answer}
func (rt *Router) handleScore(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rt.badRequest(c, "request.invalid")
		return
	}
	l, err := rt.engine.ScoreForAnswer(req.QuestionNo, models.AnswerChoice(strings.ToUpper(string(req.Answer))))
	if err != nil {
		rt.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question_no": req.QuestionNo, "trait_letter": l})
}

// POST /api/classify {trait_letters}
func (rt *Router) handleClassify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rt.badRequest(c, "request.invalid")
		return
	}
	t := rt.engine.Classify(req.TraitLetters)
	c.JSON(http.StatusOK, gin.H{"type": t})
}
