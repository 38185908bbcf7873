package session

// ToggleResultEdit switches between viewing and editing the current
// result. Entering edit mode seeds the buffer with the corrected text;
// leaving it saves the buffer.
func (s *Session) ToggleResultEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoResult
	}
	if s.editing {
		s.commitLocked(s.editBuffer)
		return nil
	}
	s.editing = true
	s.editBuffer = s.current.Corrected
	return nil
}

func (s *Session) SetEditBuffer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoResult
	}
	if !s.editing {
		return ErrNotEditing
	}
	s.editBuffer = text
	return nil
}

// CommitResultEdit replaces the corrected text of the current result and
// returns to viewing. The history entry keeps the model's text.
func (s *Session) CommitResultEdit(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoResult
	}
	if !s.editing {
		return ErrNotEditing
	}
	s.commitLocked(text)
	return nil
}

func (s *Session) commitLocked(text string) {
	edited := *s.current
	edited.Corrected = text
	s.current = &edited
	s.editing = false
	s.editBuffer = text
}

// CancelResultEdit leaves edit mode without saving.
func (s *Session) CancelResultEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoResult
	}
	if !s.editing {
		return ErrNotEditing
	}
	s.editing = false
	s.editBuffer = s.current.Corrected
	return nil
}
