package store

// Memory is an in-memory store for tests.
type Memory struct {
	token    string
	hasToken bool
	draft    Draft
	hasDraft bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Token() (string, bool) {
	return s.token, s.hasToken
}

func (s *Memory) SetToken(token string) error {
	s.token = token
	s.hasToken = true
	return nil
}

func (s *Memory) ClearToken() error {
	s.token = ""
	s.hasToken = false
	return nil
}

func (s *Memory) Draft() Draft {
	if !s.hasDraft {
		return Draft{}
	}
	return s.draft
}

func (s *Memory) SaveDraft(d Draft) error {
	s.draft = d
	s.hasDraft = true
	return nil
}

func (s *Memory) ClearDraft() error {
	s.draft = Draft{}
	s.hasDraft = false
	return nil
}
