package api

// Wire types for the journaling backend. Field names follow the backend's
// snake_case JSON exactly.

type User struct {
	ID            int    `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	LastEntryDate string `json:"last_entry_date,omitempty"` // "YYYY-MM-DD"
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

type Entry struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// Insight is the AI-derived analysis of a single entry. Zero or one per
// entry; absent until an analyze call has been made.
type Insight struct {
	ID        int       `json:"id"`
	EntryID   int       `json:"entry_id"`
	Sentiment float64   `json:"sentiment"` // -1..+1
	Themes    []string  `json:"themes"`
	Embedding []float64 `json:"embedding"`
	CreatedAt string    `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	Gender   string `json:"gender" validate:"required"`
}

type CreateEntryRequest struct {
	UserID int    `json:"user_id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// EntryPatch carries a partial entry update; nil fields are omitted.
type EntryPatch struct {
	Title *string `json:"title,omitempty"`
	Text  *string `json:"text,omitempty"`
}

// UserPatch carries a partial profile update; nil fields are omitted.
type UserPatch struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=2"`
	Age      *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender   *string `json:"gender,omitempty"`
}

type InsightPatch struct {
	Sentiment *float64  `json:"sentiment,omitempty"`
	Themes    []string  `json:"themes,omitempty"`
	Embedding []float64 `json:"embedding,omitempty"`
}

type PromptRequest struct {
	Goal     string `json:"goal"`
	KContext int    `json:"k_context"`
}

type PromptResponse struct {
	Prompts         []string `json:"prompts"`
	ContextEntryIDs []int    `json:"context_entry_ids"`
}

type AnalyzeResponse struct {
	EntryID   int      `json:"entry_id"`
	Sentiment float64  `json:"sentiment"`
	Themes    []string `json:"themes"`
}

// WeeklySummary is recomputed by the backend per request; the insights map is
// loosely typed on the wire, with well-known keys surfaced via helpers.
type WeeklySummary struct {
	WeekStart string         `json:"week_start"` // "YYYY-MM-DD"
	Summary   string         `json:"summary"`
	Insights  map[string]any `json:"insights"`
}

// AvgSentiment returns insights.avg_sentiment, defaulting to 0.
func (w WeeklySummary) AvgSentiment() float64 {
	if w.Insights == nil {
		return 0
	}
	if v, ok := w.Insights["avg_sentiment"].(float64); ok {
		return v
	}
	return 0
}

// EntryCount returns insights.count, defaulting to 0.
func (w WeeklySummary) EntryCount() int {
	if w.Insights == nil {
		return 0
	}
	if v, ok := w.Insights["count"].(float64); ok {
		return int(v)
	}
	return 0
}

// Themes returns insights.themes as strings, in order.
func (w WeeklySummary) Themes() []string {
	if w.Insights == nil {
		return nil
	}
	raw, ok := w.Insights["themes"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
