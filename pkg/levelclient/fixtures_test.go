package levelclient

import (
	"time"

	"github.com/level-4u/level-backend/internal/models"
)

func newSignupFixture() models.DummySignup {
	return models.DummySignup{
		Username:     "newseller",
		Email:        "seller@example.com",
		Password:     "secret123",
		FirstName:    "Anna",
		LastName:     "Stone",
		BusinessName: "Stone Ceramics",
		DateOfBirth:  "1990-05-12",
		Country:      "US",
		Plan:         models.PlanStandard,
	}
}

func newReview(id int, name, comment, recommend string, rating int, createdAt time.Time) *models.Review {
	return &models.Review{
		ID:           id,
		OrderID:      "ord-1",
		CustomerName: name,
		MainRating:   rating,
		Recommend:    recommend,
		Comment:      comment,
		IsPublished:  true,
		CreatedAt:    createdAt,
	}
}
