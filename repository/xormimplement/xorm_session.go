package xormimplement

import (
	"github.com/pkg/errors"
	"xorm.io/xorm"
)

// Session implements interfaces.Session on top of an xorm session.
type Session struct {
	*xorm.Session
}

func (s *Session) Begin() error {
	if err := s.Session.Begin(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (s *Session) Close() error {
	if err := s.Session.Close(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (s *Session) Commit() error {
	if err := s.Session.Commit(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (s *Session) Rollback() error {
	if err := s.Session.Rollback(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
