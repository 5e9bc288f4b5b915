package session

import (
	"github.com/cardifyhq/cardify-backend/internal/entity"
)

func toSessionDTO(session *entity.Session, cards []*entity.Card) *entity.SessionDTO {
	dto := &entity.SessionDTO{
		ID:             session.ID,
		URL:            session.URL,
		Description:    session.Description,
		Cards:          make([]entity.CardDTO, 0, len(cards)),
		GeneratedCards: session.Cards,
		CreatedAt:      session.CreatedAt,
	}

	for _, card := range cards {
		dto.Cards = append(dto.Cards, entity.CardDTO{
			ID:        card.ID,
			SessionID: card.SessionID,
			Question:  card.Question,
			Answer:    card.Answer,
			State:     card.State,
			CreatedAt: card.CreatedAt,
		})
	}

	return dto
}

func toStudyCards(cards []*entity.Card) []entity.StudyCard {
	studyCards := make([]entity.StudyCard, 0, len(cards))
	for _, card := range cards {
		studyCards = append(studyCards, entity.StudyCard{
			Question: card.Question,
			Answer:   card.Answer,
		})
	}

	return studyCards
}
