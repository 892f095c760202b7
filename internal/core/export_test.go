package core

import "time"

// SetClock replaces the time source used for backups and history
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetLibraries replaces Steam library discovery
func (s *Service) SetLibraries(fn func() []string) { s.libraries = fn }
