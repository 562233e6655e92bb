package entity

// Category представляет категорию вопросов. Название хранится в поле type.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"column:type;size:100;not null;uniqueIndex" json:"type"`
}

// TableName определяет имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryMap - отображение id категории -> название.
// В JSON ключи сериализуются строками: {"1": "Science"}.
type CategoryMap map[uint]string

// NewCategoryMap строит отображение из списка категорий
func NewCategoryMap(categories []Category) CategoryMap {
	m := make(CategoryMap, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}
