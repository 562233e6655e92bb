package entity

import "strings"

// Question представляет вопрос в банке вопросов
type Question struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Question   string `gorm:"column:question;not null" json:"question"`
	Answer     string `gorm:"column:answer;not null" json:"answer"`
	Category   int    `gorm:"column:category;not null;index" json:"category"`
	Difficulty int    `gorm:"column:difficulty;not null" json:"difficulty"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsComplete проверяет, что все обязательные поля вопроса заполнены.
// Категория и сложность в банке вопросов начинаются с 1, поэтому 0 считается отсутствием значения.
func (q *Question) IsComplete() bool {
	return strings.TrimSpace(q.Question) != "" &&
		strings.TrimSpace(q.Answer) != "" &&
		q.Category > 0 &&
		q.Difficulty > 0
}

// ExcludeIDs возвращает вопросы, ID которых нет в exclude. Порядок сохраняется.
func ExcludeIDs(questions []Question, exclude []uint) []Question {
	if len(exclude) == 0 {
		return questions
	}
	skip := make(map[uint]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	filtered := make([]Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := skip[q.ID]; ok {
			continue
		}
		filtered = append(filtered, q)
	}
	return filtered
}
