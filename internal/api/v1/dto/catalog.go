package dto

// CreateTradeRequest creates a trade. The slug is its permanent external id.
type CreateTradeRequest struct {
	Name string `json:"name" binding:"required,max=255" example:"Plumbing"`
	Slug string `json:"slug" binding:"required,slug" example:"plumbing"`
}

// CreateTermRequest creates a tool, material or tag. Category applies to tags only.
type CreateTermRequest struct {
	Name     string   `json:"name" binding:"required,max=255" example:"Channel-lock pliers"`
	TradeID  *int64   `json:"trade_id,omitempty"`
	Aliases  []string `json:"aliases,omitempty" binding:"omitempty,dive,max=255"`
	Category *string  `json:"category,omitempty" binding:"omitempty,max=100"`
}

// VocabularyQuery narrows vocabulary listings to one trade plus global entries.
type VocabularyQuery struct {
	TradeID *int64 `form:"trade_id" binding:"omitempty,min=1"`
}
